package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake-plus/internal/progression"
)

var ranksCmd = &cobra.Command{
	Use:   "ranks",
	Short: "Show the rank table",
	Long:  `Ranks follow your best-ever score.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "  %-13s  %s\n", "Rank", "Best score")
		fmt.Fprintf(out, "  %-13s  %s\n", "----", "----------")
		for _, r := range progression.Ranks {
			fmt.Fprintf(out, "  %-13s  %d+\n", r.Name, r.MinScore)
		}
	},
}
