package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/snake-plus/internal/config"
	"github.com/vovakirdan/snake-plus/internal/core"
	"github.com/vovakirdan/snake-plus/internal/games/snakeplus"
	"github.com/vovakirdan/snake-plus/internal/platform/tui"
	"github.com/vovakirdan/snake-plus/internal/registry"
)

var (
	flagConfig     string
	flagDifficulty string
	flagGrid       int
)

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play Snake+",
	Long: `Start playing. Without a variant a menu lets you pick one or open
the leaderboard.

Controls:
  Arrows/WASD  - Steer
  P/Space      - Pause
  R            - Restart (after game over)
  Esc/B        - Back (paused or after game over)
  Ctrl+S       - Save a screenshot
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Slower start, rarer speed-ups, longer combo window
  normal - Tuned defaults
  hard   - Faster start, frequent speed-ups, shorter combo window
  fixed  - No speed-ups

Examples:
  snakeplus play
  snakeplus play snakeplus --difficulty hard
  snakeplus play snakeplus_classic --grid 15
  snakeplus play --config ./my-snakeplus.yaml
  snakeplus play --api https://snake.example.com --user ann`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().IntVar(&flagGrid, "grid", 0, "Board size in cells (0 = from config)")
	addPlayerFlags(playCmd.Flags())
}

func runPlay(_ *cobra.Command, args []string) error {
	var game registry.Game
	if len(args) == 1 {
		g, err := registry.Create(args[0])
		if err != nil {
			return fmt.Errorf("unknown variant %q, run 'snakeplus list' to see them", args[0])
		}
		game = g
	}
	if flagDifficulty != "" {
		if _, ok := config.ParseDifficultyPreset(flagDifficulty); !ok {
			return fmt.Errorf("unknown difficulty %q", flagDifficulty)
		}
	}
	if flagConfig != "" {
		if _, err := config.LoadSnakePlus(flagConfig); err != nil {
			return err
		}
	}

	snakeplus.SetConfigPath(flagConfig)
	snakeplus.SetDifficultyPreset(flagDifficulty)
	snakeplus.SetGridSize(flagGrid)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger, closeLog := fileLogger()
	defer closeLog()

	b, keeper, profile, err := loadPlayer(ctx, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	before := profile
	if game != nil {
		profile, err = tui.Run(ctx, game, keeper, profile, cfg)
	} else {
		profile, err = tui.RunSession(ctx, keeper, profile, cfg)
	}
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("running game: %w", err)
	}

	if played := profile.Stats.TotalGames - before.Stats.TotalGames; played > 0 {
		fmt.Printf("%d game(s) played. Best %d, %d★, rank %s.\n",
			played, profile.Stats.BestScore, profile.Stars, profile.Rank().Name)
	}
	return nil
}
