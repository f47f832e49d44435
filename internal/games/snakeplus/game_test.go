package snakeplus

import (
	"strings"
	"testing"

	"github.com/vovakirdan/snake-plus/internal/core"
	"github.com/vovakirdan/snake-plus/internal/progression"
	"github.com/vovakirdan/snake-plus/internal/registry"
)

func newTestGame(t *testing.T, seed int64) *Game {
	t.Helper()
	SetConfigPath("")
	SetDifficultyPreset("")
	SetGridSize(0)
	g := New()
	g.Reset(core.RuntimeConfig{Seed: seed, ScreenW: 80, ScreenH: 24, TickRate: 60})
	return g
}

// clearBoard removes ice and parks the food away from the snake's row.
func clearBoard(g *Game) {
	g.sim.st.Ice = nil
	g.sim.st.PendingIceRespawns = nil
	g.sim.cfg.Boosters.SpawnChance = 0
	g.sim.putFood(0, 0, false)
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{"snakeplus", "snakeplus_classic"} {
		if !registry.Exists(id) {
			t.Errorf("game %q not registered", id)
		}
		g, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%q) error: %v", id, err)
		}
		if g.ID() != id {
			t.Errorf("ID() = %q, expected %q", g.ID(), id)
		}
	}
}

func TestClassicDisablesIceBoost(t *testing.T) {
	g := NewClassic()
	g.Reset(core.RuntimeConfig{Seed: 1, ScreenW: 80, ScreenH: 24})
	if g.sim.cfg.Ice.Boost.Enabled {
		t.Error("classic variant should not boost on ice")
	}
}

func TestGridSizeOverride(t *testing.T) {
	tests := []struct {
		set      int
		expected int
	}{
		{12, 12},
		{2, minGridSize},
		{0, 20},
	}
	for _, tt := range tests {
		SetGridSize(tt.set)
		g := New()
		g.Reset(core.RuntimeConfig{Seed: 1, ScreenW: 80, ScreenH: 24})
		if got := g.sim.st.GridSize; got != tt.expected {
			t.Errorf("SetGridSize(%d): GridSize = %d, expected %d", tt.set, got, tt.expected)
		}
	}
	SetGridSize(0)
}

func TestMoveCadence(t *testing.T) {
	g := newTestGame(t, 1)
	clearBoard(g)
	start := g.sim.st.Head()
	in := core.NewInputFrame()

	// 1s/5 = 200ms; twelve 60 fps frames fall just short of it
	for i := 0; i < 12; i++ {
		g.Step(in)
	}
	if got := g.sim.st.Head(); got != start {
		t.Errorf("Head = %v after 12 frames, expected %v", got, start)
	}
	g.Step(in)
	if got := g.sim.st.Head(); got != (Point{X: start.X + 1, Y: start.Y}) {
		t.Errorf("Head = %v after 13 frames, expected one step right", got)
	}
}

func TestBufferedTurn(t *testing.T) {
	g := newTestGame(t, 1)
	clearBoard(g)
	start := g.sim.st.Head()

	in := core.NewInputFrame()
	in.Set(core.ActionLeft)
	g.Step(in)
	if g.pending != DirNone {
		t.Errorf("pending = %v, reversal should not be buffered", g.pending)
	}

	in.Clear()
	in.Set(core.ActionUp)
	g.Step(in)
	if g.pending != DirUp {
		t.Errorf("pending = %v, expected up", g.pending)
	}

	in.Clear()
	for g.sim.st.Head() == start {
		g.Step(in)
	}
	if got := g.sim.st.Head(); got != (Point{X: start.X, Y: start.Y - 1}) {
		t.Errorf("Head = %v, expected one step up", got)
	}
}

func TestPause(t *testing.T) {
	g := newTestGame(t, 1)
	clearBoard(g)

	in := core.NewInputFrame()
	in.Set(core.ActionPause)
	res := g.Step(in)
	if !res.State.Paused {
		t.Fatal("expected paused state")
	}

	head := g.sim.st.Head()
	in.Clear()
	for i := 0; i < 60; i++ {
		g.Step(in)
	}
	if g.sim.st.Head() != head {
		t.Error("snake moved while paused")
	}
	if g.Snapshot().State != StatePaused {
		t.Errorf("Snapshot().State = %v, expected %v", g.Snapshot().State, StatePaused)
	}
}

func TestRestartAfterGameOver(t *testing.T) {
	g := newTestGame(t, 1)
	g.sim.st.GameOver = true
	g.sim.st.Score = 50

	in := core.NewInputFrame()
	in.Set(core.ActionRestart)
	res := g.Step(in)
	if res.State.GameOver || res.State.Score != 0 {
		t.Errorf("state after restart = %+v, expected fresh game", res.State)
	}
}

func TestGameDeterminism(t *testing.T) {
	g1 := newTestGame(t, 12345)
	g2 := newTestGame(t, 12345)

	in := core.NewInputFrame()
	for i := 0; i < 600; i++ {
		in.Clear()
		switch i {
		case 40:
			in.Set(core.ActionDown)
		case 120:
			in.Set(core.ActionLeft)
		case 300:
			in.Set(core.ActionUp)
		}
		g1.Step(in)
		g2.Step(in)
	}

	if s1, s2 := g1.Snapshot(), g2.Snapshot(); s1 != s2 {
		t.Errorf("snapshots differ:\n%+v\n%+v", s1, s2)
	}
}

func TestRender(t *testing.T) {
	g := newTestGame(t, 1)
	p := progression.DefaultProfile("u", "u")
	p.Stats.BestScore = 250
	g.SetProfile(p)
	g.Reset(core.RuntimeConfig{Seed: 1, ScreenW: 80, ScreenH: 24})

	scr := core.NewScreen(80, 24)
	g.Render(scr)
	out := scr.String()
	for _, want := range []string{"Snake+", "Score: 0", "Best: 250", "Silver I"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}

	g.sim.st.GameOver = true
	g.Render(scr)
	if !strings.Contains(scr.String(), "Game Over") {
		t.Error("render missing game over overlay")
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := newTestGame(t, 1)
	scr := core.NewScreen(30, 12)
	g.Render(scr)
	if !strings.Contains(scr.String(), "Window too small") {
		t.Error("expected too small message")
	}
	if g.Snapshot().State != StatePausedSmall {
		t.Errorf("Snapshot().State = %v, expected %v", g.Snapshot().State, StatePausedSmall)
	}
}
