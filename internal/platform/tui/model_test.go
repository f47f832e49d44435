package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake-plus/internal/core"
	"github.com/vovakirdan/snake-plus/internal/progression"
	"github.com/vovakirdan/snake-plus/internal/registry"
)

const stubID = "tui_stub"

func init() {
	registry.Register(stubID, func() registry.Game { return newStubSession(3, 120) })
}

// stubSession ends every run after a fixed number of steps.
type stubSession struct {
	overAfter int
	score     int
	steps     int
	total     int
	over      bool
	resets    int
	profile   progression.PlayerProfile
}

func newStubSession(overAfter, score int) *stubSession {
	return &stubSession{overAfter: overAfter, score: score}
}

func (g *stubSession) ID() string    { return stubID }
func (g *stubSession) Title() string { return "Stub" }

func (g *stubSession) Reset(core.RuntimeConfig) {
	g.steps = 0
	g.over = false
	g.resets++
}

func (g *stubSession) Step(in core.InputFrame) core.StepResult {
	g.total++
	if g.over {
		if in.Has(core.ActionRestart) {
			g.Reset(core.RuntimeConfig{})
		}
		return core.StepResult{State: g.State()}
	}
	g.steps++
	if g.steps >= g.overAfter {
		g.over = true
	}
	return core.StepResult{State: g.State()}
}

func (g *stubSession) Render(dst *core.Screen) { dst.DrawText(0, 0, "stub") }

func (g *stubSession) State() core.GameState {
	return core.GameState{Score: g.score, GameOver: g.over}
}

func (g *stubSession) SetProfile(p progression.PlayerProfile) { g.profile = p }

func (g *stubSession) Result() progression.GameResult {
	return progression.GameResult{Score: g.score, StarsEarned: 5, MaxCombo: 2}
}

// countingBackend records every write.
type countingBackend struct {
	mu       sync.Mutex
	scores   []progression.ScoreRecord
	profiles []progression.PlayerProfile
	board    []progression.LeaderboardEntry
}

func (b *countingBackend) SaveScore(_ context.Context, rec progression.ScoreRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scores = append(b.scores, rec)
	return nil
}

func (b *countingBackend) Leaderboard(context.Context, int) ([]progression.LeaderboardEntry, error) {
	return b.board, nil
}

func (b *countingBackend) Profile(context.Context, string) (progression.PlayerProfile, error) {
	return progression.PlayerProfile{}, progression.ErrProfileNotFound
}

func (b *countingBackend) SaveProfile(_ context.Context, p progression.PlayerProfile) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.profiles = append(b.profiles, p)
	return nil
}

func (b *countingBackend) UpdateStars(context.Context, string, int) error { return nil }

func (b *countingBackend) saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.scores)
}

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 60, ScreenH: 24, TickRate: 1000, Seed: 1}
}

// collect runs cmd and any batched commands, returning the messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// tick advances one frame and delivers a commit if one was issued.
func tick(t *testing.T, m GameModel) (GameModel, bool) {
	t.Helper()
	next, cmd := m.Update(TickMsg(time.Now()))
	m = next.(GameModel)
	committed := false
	for _, msg := range collect(cmd) {
		if c, ok := msg.(committedMsg); ok {
			next, _ = m.Update(c)
			m = next.(GameModel)
			committed = true
		}
	}
	return m, committed
}

func press(m GameModel, key tea.KeyMsg) (GameModel, tea.Cmd) {
	next, cmd := m.Update(key)
	return next.(GameModel), cmd
}

func newTestGame(t *testing.T) (GameModel, *stubSession, *countingBackend) {
	t.Helper()
	backend := &countingBackend{}
	game := newStubSession(3, 120)
	keeper := progression.NewKeeper(backend, nil)
	m := NewGameModel(context.Background(), game, keeper, progression.DefaultProfile("u1", "ann"), testConfig())
	m.Init()
	return m, game, backend
}

func TestGameOverCommitsOnce(t *testing.T) {
	m, game, backend := newTestGame(t)
	if game.profile.UserID != "u1" {
		t.Fatalf("profile not handed to session: %+v", game.profile)
	}

	var commits int
	for range 8 {
		var c bool
		m, c = tick(t, m)
		if c {
			commits++
		}
	}

	if commits != 1 {
		t.Errorf("commits = %d, expected 1", commits)
	}
	if backend.saves() != 1 {
		t.Errorf("SaveScore calls = %d, expected 1", backend.saves())
	}
	rep := m.Report()
	if rep == nil || !rep.NewBest || rep.Score != 120 {
		t.Fatalf("Report() = %+v", rep)
	}
	if m.Profile().Stats.TotalGames != 1 || m.Profile().Stats.BestScore != 120 {
		t.Errorf("Profile().Stats = %+v", m.Profile().Stats)
	}
	if game.profile.Stars != m.Profile().Stars {
		t.Errorf("session stars = %d, expected %d", game.profile.Stars, m.Profile().Stars)
	}
	if !strings.Contains(m.View(), "New best: 120!") {
		t.Error("View() missing the report panel")
	}
}

func TestRestartCommitsAgain(t *testing.T) {
	m, game, backend := newTestGame(t)
	for range 4 {
		m, _ = tick(t, m)
	}

	m, _ = press(m, runeKey("r"))
	m, _ = tick(t, m)
	if game.over {
		t.Fatal("restart did not start a new run")
	}
	if m.Report() != nil {
		t.Error("report should clear on restart")
	}

	for range 4 {
		m, _ = tick(t, m)
	}
	if backend.saves() != 2 {
		t.Errorf("SaveScore calls = %d, expected 2", backend.saves())
	}
	if m.Profile().Stats.TotalGames != 2 {
		t.Errorf("TotalGames = %d, expected 2", m.Profile().Stats.TotalGames)
	}
}

func TestInputHeldWhileCommitPending(t *testing.T) {
	m, game, _ := newTestGame(t)
	for range 3 {
		next, _ := m.Update(TickMsg(time.Now()))
		m = next.(GameModel)
	}
	if !m.commitPending() {
		t.Fatal("expected a pending commit")
	}

	steps := game.total
	m, _ = press(m, runeKey("r"))
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	next, _ := m.Update(TickMsg(time.Now()))
	m = next.(GameModel)

	if game.total != steps {
		t.Errorf("Step called while commit pending: %d -> %d", steps, game.total)
	}
	if m.BackToMenu() {
		t.Error("BackToMenu() = true while commit pending")
	}
}

func TestBackToMenu(t *testing.T) {
	m, _, _ := newTestGame(t)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.BackToMenu() {
		t.Error("BackToMenu() = true during play")
	}

	for range 4 {
		m, _ = tick(t, m)
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("BackToMenu() = false at game over")
	}
}

func TestQuitKey(t *testing.T) {
	m, _, _ := newTestGame(t)
	m, cmd := press(m, runeKey("q"))
	if !m.IsQuitting() {
		t.Error("IsQuitting() = false after q")
	}
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("command is not tea.Quit")
	}
	if m.View() != "" {
		t.Error("View() should be empty while quitting")
	}
}

func TestReportLines(t *testing.T) {
	rep := progression.Report{
		BestScore:        300,
		NewBest:          true,
		Rank:             progression.RankFor(300),
		RankUp:           true,
		StarsEarned:      6,
		AchievementStars: 10,
		Stars:            40,
		NewAchievements:  []progression.Achievement{{Name: "First Steps", Reward: 10}},
	}

	got := strings.Join(reportLines(rep), "\n")
	for _, want := range []string{"New best: 300!", "+16★ this run  (40★ total)", "Rank up: Silver I", "Achievement: First Steps +10★"} {
		if !strings.Contains(got, want) {
			t.Errorf("reportLines() = %q, missing %q", got, want)
		}
	}
}
