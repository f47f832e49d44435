package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake-plus/internal/progression"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your stars, rank, stats and achievements",
	Args:  cobra.NoArgs,
	RunE:  runProfile,
}

func init() {
	addPlayerFlags(profileCmd.Flags())
}

func runProfile(cmd *cobra.Command, _ []string) error {
	b, _, p, err := loadPlayer(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer b.Close()

	printProfile(cmd.OutOrStdout(), p)
	return nil
}

func printProfile(out io.Writer, p progression.PlayerProfile) {
	rank := p.Rank()
	fmt.Fprintf(out, "%s (%s)\n\n", p.Username, p.UserID)
	fmt.Fprintf(out, "  Stars:       %d★\n", p.Stars)
	fmt.Fprintf(out, "  Rank:        %s\n", rank.Name)
	if next, ok := progression.NextRank(p.Stats.BestScore); ok {
		fmt.Fprintf(out, "  Next rank:   %s at %d (%d to go)\n", next.Name, next.MinScore, next.MinScore-p.Stats.BestScore)
	}
	fmt.Fprintf(out, "  Best score:  %d\n", p.Stats.BestScore)
	fmt.Fprintf(out, "  Games:       %d\n", p.Stats.TotalGames)
	fmt.Fprintf(out, "  Total score: %d\n", p.Stats.TotalScore)
	fmt.Fprintf(out, "  Max combo:   x%d\n", p.Stats.MaxCombo)
	if skin, ok := progression.SkinByColor(p.SelectedSkin); ok {
		fmt.Fprintf(out, "  Skin:        %s (%s)\n", skin.Name, skin.Color)
	}
	if len(p.Stats.BoostersUsed) > 0 {
		fmt.Fprintf(out, "  Boosters:    %s\n", strings.Join(p.Stats.BoostersUsed, ", "))
	}

	fmt.Fprintf(out, "\nAchievements (%d/%d)\n\n", len(p.Achievements), len(progression.Achievements))
	unlocked := make(map[string]bool, len(p.Achievements))
	for _, id := range p.Achievements {
		unlocked[id] = true
	}
	for _, a := range progression.Achievements {
		mark := "[ ]"
		if unlocked[a.ID] {
			mark = "[x]"
		}
		fmt.Fprintf(out, "  %s %-15s %-24s +%d★\n", mark, a.Name, a.Description, a.Reward)
	}
}
