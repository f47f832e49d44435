package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snake-plus/internal/progression"
)

// leaderboardLimit is how many entries the screen loads.
const leaderboardLimit = 100

// LeaderboardKeyMap defines the key bindings for the leaderboard.
type LeaderboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k LeaderboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Refresh, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k LeaderboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Refresh},
		{k.Back, k.Quit},
	}
}

// DefaultLeaderboardKeyMap returns default key bindings.
func DefaultLeaderboardKeyMap() LeaderboardKeyMap {
	return LeaderboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// leaderboardMsg delivers freshly loaded entries.
type leaderboardMsg []progression.LeaderboardEntry

// LeaderboardModel shows the best score of every player.
type LeaderboardModel struct {
	ctx     context.Context
	keeper  *progression.Keeper
	userID  string
	entries []progression.LeaderboardEntry
	loaded  bool
	table   table.Model
	help    help.Model
	keys    LeaderboardKeyMap
	width   int
	height  int

	quitting  bool
	goingBack bool
}

// NewLeaderboardModel creates the screen. userID highlights the player's row.
func NewLeaderboardModel(ctx context.Context, keeper *progression.Keeper, userID string, width, height int) LeaderboardModel {
	if keeper == nil {
		keeper = progression.NewKeeper(nil, nil)
	}
	m := LeaderboardModel{
		ctx:    ctx,
		keeper: keeper,
		userID: userID,
		help:   help.New(),
		keys:   DefaultLeaderboardKeyMap(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	return m
}

func (m *LeaderboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Player", Width: 18},
		{Title: "Score", Width: 8},
		{Title: "Rank", Width: 13},
		{Title: "Date", Width: 12},
	}
	if extra := m.width - 4 - 66; extra > 0 {
		columns[1].Width += min(extra, 14)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func (m LeaderboardModel) loadCmd() tea.Cmd {
	ctx, keeper := m.ctx, m.keeper
	return func() tea.Msg {
		return leaderboardMsg(keeper.Leaderboard(ctx, leaderboardLimit))
	}
}

func (m *LeaderboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.entries))
	mine := -1
	for i, e := range m.entries {
		name := e.Username
		if e.UserID == m.userID {
			name = "» " + name
			mine = i
		}
		date := ""
		if !e.CreatedAt.IsZero() {
			date = e.CreatedAt.Format("Jan 02 15:04")
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", e.Position),
			name,
			fmt.Sprintf("%d", e.Score),
			e.Rank,
			date,
		}
	}
	m.table.SetRows(rows)
	if mine >= 0 {
		m.table.SetCursor(mine)
	} else {
		m.table.GotoTop()
	}
}

// Init loads the entries.
func (m LeaderboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

// Update handles messages for the leaderboard.
func (m LeaderboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case leaderboardMsg:
		m.entries = msg
		m.loaded = true
		m.updateTableRows()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.loaded = false
			return m, m.loadCmd()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the leaderboard.
func (m LeaderboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var content string
	switch {
	case !m.loaded:
		content = "Loading..."
	case len(m.entries) == 0:
		content = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4).
			Render("No scores recorded yet.\nPlay a game to set a high score!")
	default:
		content = m.table.View()
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("LEADERBOARD"), m.width, len("LEADERBOARD")))
	b.WriteString("\n\n")
	b.WriteString(boxStyle.Render(content))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(m.help.View(m.keys)))
	return b.String()
}

// Entries returns the loaded entries.
func (m LeaderboardModel) Entries() []progression.LeaderboardEntry {
	return m.entries
}

// IsGoingBack returns true if user wants to go back to the menu.
func (m LeaderboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m LeaderboardModel) IsQuitting() bool {
	return m.quitting
}
