// snakeplus plays Snake+ in the terminal and runs its score backend.
//
// Usage:
//
//	snakeplus list                 - List game variants
//	snakeplus play [variant]       - Play (menu when no variant is given)
//	snakeplus leaderboard          - Show the best score of every player
//	snakeplus profile              - Show your stars, rank and achievements
//	snakeplus skins                - Browse, buy and select skins
//	snakeplus ranks                - Show the rank table
//	snakeplus serve                - Run the HTTP API, bot and SSH server
//	snakeplus bot                  - Run only the Telegram bot
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (default: ~/.snakeplus/snakeplus.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Register the game variants
	_ "github.com/vovakirdan/snake-plus/internal/games/snakeplus"
)

const defaultDBPath = "~/.snakeplus/snakeplus.db"

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snakeplus",
	Short: "Snake+ - snake with combos, ice, boosters and skins",
	Long: `Snake+ is the classic snake game with combos, bonus food, ice tiles,
boosters, a star economy, ranks and achievements.

Play it in your terminal, over SSH, or as a Telegram Mini App backed by
the score API this binary serves.

Examples:
  snakeplus play
  snakeplus play snakeplus_classic --difficulty hard
  snakeplus play --api https://snake.example.com --user ann
  snakeplus leaderboard --limit 20
  snakeplus skins buy "#e67e22"
  snakeplus serve --http :8080 --ssh :23234`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", defaultDBPath, "Path to the local database")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(skinsCmd)
	rootCmd.AddCommand(ranksCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(botCmd)
}
