package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake-plus/internal/core"
	"github.com/vovakirdan/snake-plus/internal/progression"
	"github.com/vovakirdan/snake-plus/internal/registry"
)

type screen int

const (
	screenMenu screen = iota
	screenGame
	screenLeaderboard
)

// SessionModel manages the full flow for one player: menu, game and
// leaderboard, carrying the profile between games.
type SessionModel struct {
	ctx     context.Context
	keeper  *progression.Keeper
	profile progression.PlayerProfile
	config  core.RuntimeConfig

	screen      screen
	menu        MenuModel
	game        *GameModel
	leaderboard *LeaderboardModel
	quitting    bool
}

// NewSessionModel creates a session for profile.
func NewSessionModel(ctx context.Context, keeper *progression.Keeper, profile progression.PlayerProfile, cfg core.RuntimeConfig) SessionModel {
	if keeper == nil {
		keeper = progression.NewKeeper(nil, nil)
	}
	return SessionModel{
		ctx:     ctx,
		keeper:  keeper,
		profile: profile,
		config:  cfg,
		menu:    NewMenuModel(profile, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenLeaderboard:
		return m.updateLeaderboard(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsLeaderboard():
		lb := NewLeaderboardModel(m.ctx, m.keeper, m.profile.UserID, m.config.ScreenW, m.config.ScreenH)
		m.leaderboard = &lb
		m.screen = screenLeaderboard
		return m, lb.Init()

	case m.menu.Selected() != nil:
		game, err := registry.Create(m.menu.Selected().GameID)
		if err != nil {
			m.menu = NewMenuModel(m.profile, m.config)
			return m, nil
		}
		cfg := m.config
		cfg.Seed = 0
		gm := NewGameModel(m.ctx, game, m.keeper, m.profile, cfg)
		m.game = &gm
		m.screen = screenGame
		return m, gm.Init()
	}
	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if gm, ok := next.(GameModel); ok {
		m.game = &gm
	}
	m.profile = m.game.Profile()

	switch {
	case m.game.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.game.BackToMenu():
		m.toMenu()
		return m, nil
	}
	return m, cmd
}

func (m SessionModel) updateLeaderboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.leaderboard.Update(msg)
	if lb, ok := next.(LeaderboardModel); ok {
		m.leaderboard = &lb
	}

	switch {
	case m.leaderboard.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.leaderboard.IsGoingBack():
		m.toMenu()
		return m, nil
	}
	return m, cmd
}

func (m *SessionModel) toMenu() {
	m.screen = screenMenu
	m.game = nil
	m.leaderboard = nil
	m.menu = NewMenuModel(m.profile, m.config)
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenLeaderboard:
		return m.leaderboard.View()
	default:
		return m.menu.View()
	}
}

// Profile is the player as of the last committed game.
func (m SessionModel) Profile() progression.PlayerProfile {
	return m.profile
}

// RunSession runs the menu-driven flow in the local terminal.
func RunSession(ctx context.Context, keeper *progression.Keeper, profile progression.PlayerProfile, cfg core.RuntimeConfig) (progression.PlayerProfile, error) {
	p := tea.NewProgram(
		NewSessionModel(ctx, keeper, profile, cfg),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if m, ok := final.(SessionModel); ok {
		profile = m.Profile()
	}
	return profile, err
}
