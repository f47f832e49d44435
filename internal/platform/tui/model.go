package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake-plus/internal/core"
	"github.com/vovakirdan/snake-plus/internal/progression"
	"github.com/vovakirdan/snake-plus/internal/registry"
)

// committedMsg carries the outcome of persisting a finished game.
type committedMsg struct {
	profile progression.PlayerProfile
	report  progression.Report
}

// GameModel is the Bubble Tea model for one running game.
type GameModel struct {
	ctx        context.Context
	game       registry.Game
	keeper     *progression.Keeper
	profile    progression.PlayerProfile
	screen     *core.Screen
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper

	committed bool // game over has been handed to the keeper
	report    *progression.Report

	quitting   bool
	backToMenu bool
	exitOnBack bool
}

// NewGameModel creates a model for game played by profile. A nil keeper keeps
// results in memory only.
func NewGameModel(ctx context.Context, game registry.Game, keeper *progression.Keeper, profile progression.PlayerProfile, cfg core.RuntimeConfig) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if keeper == nil {
		keeper = progression.NewKeeper(nil, nil)
	}
	if sess, ok := game.(registry.Session); ok {
		sess.SetProfile(profile)
	}

	return GameModel{
		ctx:        ctx,
		game:       game,
		keeper:     keeper,
		profile:    profile,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
	}
}

// Init starts the game and the frame loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()

	case committedMsg:
		m.profile = msg.profile
		m.report = &msg.report
		if sess, ok := m.game.(registry.Session); ok {
			sess.SetProfile(m.profile)
		}
		return m, nil
	}

	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.inputFrame.Has(core.ActionBack) && (m.gameState.GameOver || m.gameState.Paused) && !m.commitPending() {
		m.backToMenu = true
		if m.exitOnBack {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.config.TickRate)}

	// Hold the game-over screen until the commit lands so a restart starts
	// from the updated profile.
	if m.commitPending() {
		m.inputFrame.Clear()
		return m, tea.Batch(cmds...)
	}

	wasOver := m.gameState.GameOver
	m.gameState = m.game.Step(m.inputFrame).State
	m.inputFrame.Clear()

	if wasOver && !m.gameState.GameOver {
		m.committed = false
		m.report = nil
	}

	if m.gameState.GameOver && !m.committed {
		m.committed = true
		if cmd := m.commitCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m GameModel) commitPending() bool {
	return m.committed && m.report == nil
}

// commitCmd persists the finished game once. Games that are not sessions
// have nothing to hand over.
func (m GameModel) commitCmd() tea.Cmd {
	sess, ok := m.game.(registry.Session)
	if !ok {
		rep := progression.Report{Score: m.gameState.Score}
		return func() tea.Msg { return committedMsg{profile: m.profile, report: rep} }
	}

	ctx, keeper, profile, result := m.ctx, m.keeper, m.profile, sess.Result()
	return func() tea.Msg {
		out, rep := keeper.Commit(ctx, profile, result)
		return committedMsg{profile: out, report: rep}
	}
}

// saveScreenshot writes the current frame as text to ~/.snakeplus/screenshots.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".snakeplus", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// View renders the current frame.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.gameState.GameOver && m.report != nil {
		drawReport(m.screen, *m.report)
	}
	return RenderScreen(m.screen)
}

// Profile is the player as of the last committed game.
func (m GameModel) Profile() progression.PlayerProfile {
	return m.profile
}

// Report is the outcome of the last committed game, if any.
func (m GameModel) Report() *progression.Report {
	return m.report
}

// IsQuitting returns true if the user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user asked to leave the game.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a single game in the terminal and returns the player's profile
// after the last committed game.
func Run(ctx context.Context, game registry.Game, keeper *progression.Keeper, profile progression.PlayerProfile, cfg core.RuntimeConfig) (progression.PlayerProfile, error) {
	model := NewGameModel(ctx, game, keeper, profile, cfg)
	model.exitOnBack = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if m, ok := final.(GameModel); ok {
		profile = m.Profile()
	}
	return profile, err
}
