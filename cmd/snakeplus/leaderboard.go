package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake-plus/internal/storage"
)

var (
	flagLimit int
	flagCSV   bool
)

var leaderboardCmd = &cobra.Command{
	Use:     "leaderboard",
	Aliases: []string{"scores"},
	Short:   "Show the best score of every player",
	Long: `Display the leaderboard: each player's best score, highest first.

Examples:
  snakeplus leaderboard
  snakeplus leaderboard --limit 10
  snakeplus leaderboard --csv > leaderboard.csv
  snakeplus leaderboard --api https://snake.example.com`,
	Args: cobra.NoArgs,
	RunE: runLeaderboard,
}

func init() {
	leaderboardCmd.Flags().IntVar(&flagLimit, "limit", storage.DefaultLeaderboardLimit, "Number of entries")
	leaderboardCmd.Flags().BoolVar(&flagCSV, "csv", false, "Write CSV to stdout")
	addPlayerFlags(leaderboardCmd.Flags())
}

func runLeaderboard(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	b, err := openBackend(flagAPI, flagDBPath)
	if err != nil {
		return err
	}
	defer b.Close()

	out := cmd.OutOrStdout()
	if flagCSV {
		return b.leaderboardCSV(ctx, out, flagLimit)
	}

	entries, err := b.Leaderboard(ctx, flagLimit)
	if err != nil {
		return fmt.Errorf("retrieving leaderboard: %w", err)
	}

	fmt.Fprintln(out, "Leaderboard")
	fmt.Fprintln(out)
	if len(entries) == 0 {
		fmt.Fprintln(out, "No scores recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Play 'snakeplus play' to set the first high score!")
		return nil
	}

	me := currentIdentity(flagUser).UserID
	fmt.Fprintf(out, "  %-4s  %-20s  %-8s  %-13s  %s\n", "#", "Player", "Score", "Rank", "Date")
	fmt.Fprintf(out, "  %-4s  %-20s  %-8s  %-13s  %s\n", "-", "------", "-----", "----", "----")
	for _, e := range entries {
		marker := " "
		if e.UserID == me {
			marker = "»"
		}
		fmt.Fprintf(out, "%s %-4d  %-20s  %-8d  %-13s  %s\n",
			marker, e.Position, e.Username, e.Score, e.Rank, e.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
