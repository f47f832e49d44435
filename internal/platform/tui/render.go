package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snake-plus/internal/core"
	"github.com/vovakirdan/snake-plus/internal/progression"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Adjacent cells with the same color share one escape sequence.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// reportLines describes a committed game for the game-over panel.
func reportLines(rep progression.Report) []string {
	var lines []string
	if rep.NewBest {
		lines = append(lines, fmt.Sprintf("New best: %d!", rep.BestScore))
	} else {
		lines = append(lines, fmt.Sprintf("Best: %d", rep.BestScore))
	}
	lines = append(lines, fmt.Sprintf("+%d★ this run  (%d★ total)", rep.StarsEarned+rep.AchievementStars, rep.Stars))
	if rep.RankUp {
		lines = append(lines, "Rank up: "+rep.Rank.Name)
	}
	for _, a := range rep.NewAchievements {
		lines = append(lines, fmt.Sprintf("Achievement: %s +%d★", a.Name, a.Reward))
	}
	return lines
}

// drawReport paints the report below the centered game-over box.
func drawReport(dst *core.Screen, rep progression.Report) {
	lines := reportLines(rep)
	w := 0
	for _, l := range lines {
		w = max(w, len([]rune(l)))
	}
	box := core.NewRect((dst.Width()-w-4)/2, dst.Height()/2+3, w+4, len(lines)+2)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box, core.ColorYellow)
	for i, l := range lines {
		c := core.ColorBrightWhite
		switch {
		case strings.HasPrefix(l, "New best"):
			c = core.ColorBrightGreen
		case strings.HasPrefix(l, "Rank up"):
			c = core.ColorFromHex(rep.Rank.Color)
		case strings.HasPrefix(l, "Achievement"):
			c = core.ColorBrightYellow
		}
		dst.DrawTextCenteredColor(box.Y+1+i, l, c)
	}
}
