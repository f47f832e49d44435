package snakeplus

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/snake-plus/internal/core"
	"github.com/vovakirdan/snake-plus/internal/progression"
)

// Glyphs drawn on the board. Every grid cell is cellWidth columns wide.
const (
	glyphSnake     = '█'
	glyphHead      = '▓'
	glyphFood      = '●'
	glyphBonus     = '★'
	glyphIce       = '░'
	glyphIceBroken = '·'
)

// flashFor is how long event banners stay in the HUD.
const flashFor = 900 * time.Millisecond

// Render draws the current session.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if dst.Width() != g.screenW || dst.Height() != g.screenH {
		g.resize(dst.Width(), dst.Height())
	}

	st := &g.sim.st
	g.renderHUD(dst, st)

	if g.tooSmall {
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}

	size := st.GridSize
	dst.DrawBox(core.NewRect(g.offsetX, g.offsetY, size*cellWidth+2, size+2), core.ColorGray)

	for _, t := range st.Ice {
		switch {
		case t.Broken:
			g.drawCell(dst, t.Point, glyphIceBroken, core.ColorCyan)
		case st.Now >= t.SpawnedAt:
			g.drawCell(dst, t.Point, glyphIce, core.ColorBrightCyan)
		}
	}

	if st.Food.Placed() {
		if st.Food.Bonus {
			g.drawCell(dst, st.Food.Point, glyphBonus, core.ColorBrightYellow)
		} else {
			g.drawCell(dst, st.Food.Point, glyphFood, core.ColorBrightRed)
		}
	}

	if b := st.Booster; b != nil {
		def := b.Kind.Def()
		g.drawCell(dst, b.Point, def.Glyph, core.ColorFromHex(def.Color))
	}

	skin := core.ColorFromHex(g.profile.SelectedSkin)
	for i := len(st.Snake) - 1; i >= 0; i-- {
		glyph := glyphSnake
		color := skin
		if i == 0 {
			glyph = glyphHead
			if st.ShieldActive {
				color = core.ColorBrightMagenta
			}
		}
		g.drawCellFull(dst, st.Snake[i], glyph, color)
	}

	switch {
	case st.GameOver:
		g.renderOverlay(dst, "Game Over", fmt.Sprintf("Score: %d  Stars: %d  Press R to restart", st.Score, st.Stars))
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

func (g *Game) cellOrigin(p Point) (int, int) {
	return g.offsetX + 1 + p.X*cellWidth, g.offsetY + 1 + p.Y
}

// drawCell draws an item glyph in the left column of a cell.
func (g *Game) drawCell(dst *core.Screen, p Point, r rune, c core.Color) {
	x, y := g.cellOrigin(p)
	dst.SetColor(x, y, r, c)
}

// drawCellFull fills every column of a cell.
func (g *Game) drawCellFull(dst *core.Screen, p Point, r rune, c core.Color) {
	x, y := g.cellOrigin(p)
	for i := range cellWidth {
		dst.SetColor(x+i, y, r, c)
	}
}

func (g *Game) renderHUD(dst *core.Screen, st *State) {
	rank := progression.RankFor(max(st.BestScore, g.profile.Stats.BestScore))
	line := fmt.Sprintf(" %s  Score: %d  Best: %d  ★ %d", g.Title(), st.Score, st.BestScore, st.Stars)
	dst.DrawTextColor(0, 0, line, core.ColorBrightWhite)
	dst.DrawTextColor(len([]rune(line))+2, 0, rank.Name, core.ColorFromHex(rank.Color))

	var status []string
	if st.Combo > 1 && st.Now-st.LastFoodTime < g.cfg.Combo.Window {
		status = append(status, fmt.Sprintf("Combo x%d", st.Combo))
	}
	if e := st.Effect; e != nil {
		status = append(status, fmt.Sprintf("%s %.1fs", e.Booster.Name, e.Remaining(st.Now).Seconds()))
	}
	if st.ShieldActive {
		status = append(status, "Shield")
	}
	if st.Now < st.IceBoostUntil && g.cfg.Ice.Boost.Enabled {
		status = append(status, "Ice boost")
	}
	status = append(status, fmt.Sprintf("Speed %.1f", st.Speed))
	if banner := g.banner(); banner != "" {
		status = append(status, banner)
	}
	dst.DrawTextColor(1, 1, strings.Join(status, "  "), core.ColorYellow)
}

// banner describes the freshest noteworthy event while it is still recent.
func (g *Game) banner() string {
	if g.clock-g.eventsAt > flashFor {
		return ""
	}
	for _, e := range g.events {
		switch e.Kind {
		case EventMilestone:
			return fmt.Sprintf("+%d★ milestone", e.Stars)
		case EventShieldBroken:
			return "Shield broken!"
		case EventBoosterCollected:
			return e.Booster.Def().Name + "!"
		case EventSpeedUp:
			return "Faster!"
		}
	}
	return ""
}

// renderOverlay draws a centered two-line message box.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	boxW := max(len([]rune(line1)), len([]rune(line2))) + 4
	boxH := 5
	box := core.NewRect(0, 0, dst.Width(), dst.Height()).CenterIn(boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box, core.ColorBrightWhite)
	dst.DrawTextCenteredColor(box.Y+1, line1, core.ColorBrightWhite)
	dst.DrawTextCentered(box.Y+3, line2)
}
