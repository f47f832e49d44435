package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snake-plus/internal/core"
	"github.com/vovakirdan/snake-plus/internal/progression"
	"github.com/vovakirdan/snake-plus/internal/registry"
)

// leaderboardItem is the menu entry that opens the leaderboard.
const leaderboardItem = "leaderboard"

// MenuItem represents a selectable entry in the menu.
type MenuItem struct {
	GameID string
	Title  string
}

// MenuModel is the Bubble Tea model for the variant picker.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	profile   progression.PlayerProfile
	config    core.RuntimeConfig
	keyMapper *KeyMapper

	quitting        bool
	selected        *MenuItem
	openLeaderboard bool
}

// NewMenuModel lists every registered variant followed by the leaderboard.
func NewMenuModel(profile progression.PlayerProfile, cfg core.RuntimeConfig) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games)+1)
	for _, g := range games {
		items = append(items, MenuItem{GameID: g.ID, Title: g.Title})
	}
	items = append(items, MenuItem{GameID: leaderboardItem, Title: "Leaderboard"})

	return MenuModel{
		items:     items,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		profile:   profile,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) == 0 {
			return m, nil
		}
		item := m.items[m.cursor]
		if item.GameID == leaderboardItem {
			m.openLeaderboard = true
		} else {
			m.selected = &item
		}

	case MenuActionLeaderboard:
		m.openLeaderboard = true
	}
	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	rank := m.profile.Rank()
	rankStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(rank.Color))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("S N A K E +"), m.width, 11))
	b.WriteString("\n\n")

	header := fmt.Sprintf("%s  ★ %d  %s", m.profile.Username, m.profile.Stars, rank.Name)
	b.WriteString(centerText(
		fmt.Sprintf("%s  ★ %d  %s", m.profile.Username, m.profile.Stars, rankStyle.Render(rank.Name)),
		m.width, len([]rune(header))))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := cursor + item.Title
		b.WriteString(centerText(line, m.width, len([]rune(line))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Tab: Leaderboard  |  Q: Quit"
	b.WriteString(centerText(dimStyle.Render(controls), m.width, len(controls)))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the chosen variant, or nil.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsLeaderboard returns true if user asked for the leaderboard.
func (m MenuModel) WantsLeaderboard() bool {
	return m.openLeaderboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText left-pads text of the given visible width to center it.
func centerText(text string, width, visible int) string {
	if visible >= width {
		return text
	}
	return strings.Repeat(" ", (width-visible)/2) + text
}
