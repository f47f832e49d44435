package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake-plus/internal/progression"
)

var skinsCmd = &cobra.Command{
	Use:   "skins",
	Short: "Browse the skin shop",
	Long: `List every skin with its price and whether you own it.

Examples:
  snakeplus skins
  snakeplus skins buy "#e67e22"
  snakeplus skins select "#e67e22"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		b, _, p, err := loadPlayer(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer b.Close()

		printSkins(cmd.OutOrStdout(), p)
		return nil
	},
}

var skinBuyCmd = &cobra.Command{
	Use:   "buy <color>",
	Short: "Buy a skin with stars",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, keeper, p, err := loadPlayer(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer b.Close()

		p, err = keeper.BuySkin(cmd.Context(), p, args[0])
		if err != nil {
			return describeShopError(err, args[0])
		}
		skin, _ := progression.SkinByColor(args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "Bought %s for %d★. %d★ left.\n", skin.Name, skin.Price, p.Stars)
		return nil
	},
}

var skinSelectCmd = &cobra.Command{
	Use:   "select <color>",
	Short: "Wear an owned skin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, keeper, p, err := loadPlayer(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer b.Close()

		if _, err := keeper.SelectSkin(cmd.Context(), p, args[0]); err != nil {
			return describeShopError(err, args[0])
		}
		skin, _ := progression.SkinByColor(args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "Now wearing %s.\n", skin.Name)
		return nil
	},
}

func init() {
	addPlayerFlags(skinsCmd.PersistentFlags())
	skinsCmd.AddCommand(skinBuyCmd, skinSelectCmd)
}

func printSkins(out io.Writer, p progression.PlayerProfile) {
	fmt.Fprintf(out, "Skins (%d★ available)\n\n", p.Stars)
	for _, s := range progression.Skins {
		status := fmt.Sprintf("%d★", s.Price)
		switch {
		case p.SelectedSkin == s.Color:
			status = "selected"
		case p.Owns(s.Color):
			status = "owned"
		case s.Price > p.Stars:
			status += " (need more)"
		}
		fmt.Fprintf(out, "  %-8s  %-10s  %-9s  %s\n", s.Color, s.Name, s.Rarity, status)
	}
}
