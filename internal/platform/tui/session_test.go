package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake-plus/internal/progression"
)

func newTestSession(backend *countingBackend) SessionModel {
	keeper := progression.NewKeeper(backend, nil)
	return NewSessionModel(context.Background(), keeper, progression.DefaultProfile("u1", "ann"), testConfig())
}

func sessionUpdate(m SessionModel, msg tea.Msg) (SessionModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(SessionModel), cmd
}

func TestMenuListsVariantsAndLeaderboard(t *testing.T) {
	m := NewMenuModel(progression.DefaultProfile("u1", "ann"), testConfig())
	if len(m.items) < 2 {
		t.Fatalf("items = %+v", m.items)
	}
	if last := m.items[len(m.items)-1]; last.GameID != leaderboardItem {
		t.Errorf("last item = %+v, expected the leaderboard", last)
	}

	view := m.View()
	for _, want := range []string{"ann", "★ 0", "Bronze I", "Stub", "Leaderboard"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestSessionPlaysAndReturnsToMenu(t *testing.T) {
	backend := &countingBackend{}
	m := newTestSession(backend)

	m, _ = sessionUpdate(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenGame || m.game == nil {
		t.Fatalf("screen = %v, expected the game", m.screen)
	}

	for range 4 {
		var cmd tea.Cmd
		m, cmd = sessionUpdate(m, TickMsg(time.Now()))
		for _, msg := range collect(cmd) {
			if c, ok := msg.(committedMsg); ok {
				m, _ = sessionUpdate(m, c)
			}
		}
	}
	if backend.saves() != 1 {
		t.Fatalf("SaveScore calls = %d, expected 1", backend.saves())
	}

	m, _ = sessionUpdate(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu {
		t.Fatalf("screen = %v, expected the menu", m.screen)
	}
	if m.Profile().Stats.BestScore != 120 {
		t.Errorf("Profile().Stats.BestScore = %d, expected 120", m.Profile().Stats.BestScore)
	}
	if !strings.Contains(m.View(), "Bronze III") {
		t.Error("menu header should show the new rank")
	}
}

func TestSessionLeaderboard(t *testing.T) {
	backend := &countingBackend{board: []progression.LeaderboardEntry{
		{Position: 1, UserID: "u2", Username: "bob", Score: 500, Rank: "Silver III"},
		{Position: 2, UserID: "u1", Username: "ann", Score: 120, Rank: "Bronze III"},
	}}
	m := newTestSession(backend)

	m, cmd := sessionUpdate(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.screen != screenLeaderboard {
		t.Fatalf("screen = %v, expected the leaderboard", m.screen)
	}
	for _, msg := range collect(cmd) {
		m, _ = sessionUpdate(m, msg)
	}

	if got := len(m.leaderboard.Entries()); got != 2 {
		t.Fatalf("Entries() = %d, expected 2", got)
	}
	if cursor := m.leaderboard.table.Cursor(); cursor != 1 {
		t.Errorf("cursor = %d, expected the player's row", cursor)
	}
	view := m.View()
	if !strings.Contains(view, "bob") || !strings.Contains(view, "» ann") {
		t.Errorf("View() = %q", view)
	}

	m, _ = sessionUpdate(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu {
		t.Errorf("screen = %v, expected the menu", m.screen)
	}
}

func TestLeaderboardEmpty(t *testing.T) {
	lb := NewLeaderboardModel(context.Background(), nil, "u1", 80, 24)
	if !strings.Contains(lb.View(), "Loading") {
		t.Error("expected a loading state before entries arrive")
	}
	next, _ := lb.Update(collect(lb.Init())[0])
	lb = next.(LeaderboardModel)
	if !strings.Contains(lb.View(), "No scores recorded yet.") {
		t.Error("expected the empty state")
	}
}
