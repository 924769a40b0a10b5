package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/breadcrush/internal/ranking"
	"github.com/vovakirdan/breadcrush/internal/storage"
)

const (
	maxScores   = 100
	loadTimeout = 3 * time.Second
)

// ScoreSource is the read side of the results store. storage.Store satisfies it.
type ScoreSource interface {
	Top(ctx context.Context, limit int) ([]ranking.Entry, error)
	RecentResults(ctx context.Context, player string, limit int) ([]storage.ResultEntry, error)
	Ledger(ctx context.Context, player string) ([]storage.LedgerEntry, error)
}

// scoreTab is one view of the scoreboard.
type scoreTab int

const (
	tabLeaderboard scoreTab = iota
	tabRecent
	tabLedger
	tabCount
)

func (t scoreTab) String() string {
	switch t {
	case tabLeaderboard:
		return "Leaderboard"
	case tabRecent:
		return "My games"
	case tabLedger:
		return "Loyalty points"
	}
	return ""
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.PrevTab, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev tab"),
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

// ScoreboardModel shows the leaderboard, the player's recent games and
// their loyalty point balance.
type ScoreboardModel struct {
	source    ScoreSource
	player    string
	tab       scoreTab
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	loadErr   error
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a scoreboard. source may be nil.
func NewScoreboardModel(source ScoreSource, player string, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		source: source,
		player: player,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.load()
	return m
}

// columns returns the table columns for the active tab.
func (m ScoreboardModel) columns() []table.Column {
	switch m.tab {
	case tabRecent:
		return []table.Column{
			{Title: "Score", Width: 8},
			{Title: "Level", Width: 6},
			{Title: "Crushed", Width: 8},
			{Title: "Date", Width: 14},
		}
	case tabLedger:
		return []table.Column{
			{Title: "Category", Width: 16},
			{Title: "Points", Width: 10},
			{Title: "Credits", Width: 8},
		}
	}
	return []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Player", Width: 20},
		{Title: "Best", Width: 10},
	}
}

// load reads rows for the active tab and rebuilds the table.
func (m *ScoreboardModel) load() {
	m.loadErr = nil
	rows, err := m.rows()
	if err != nil {
		m.loadErr = err
		rows = nil
	}

	t := table.New(
		table.WithColumns(m.columns()),
		table.WithRows(rows),
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
	m.table = t
}

func (m ScoreboardModel) rows() ([]table.Row, error) {
	if m.source == nil {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	switch m.tab {
	case tabRecent:
		results, err := m.source.RecentResults(ctx, m.player, maxScores)
		if err != nil {
			return nil, err
		}
		rows := make([]table.Row, len(results))
		for i, r := range results {
			rows[i] = table.Row{
				fmt.Sprintf("%d", r.Score),
				fmt.Sprintf("%d", r.Level),
				fmt.Sprintf("%d", r.Crushed.Total()),
				r.At.Format("Jan 02 15:04"),
			}
		}
		return rows, nil
	case tabLedger:
		entries, err := m.source.Ledger(ctx, m.player)
		if err != nil {
			return nil, err
		}
		rows := make([]table.Row, len(entries))
		for i, e := range entries {
			rows[i] = table.Row{e.Category.String(), fmt.Sprintf("%d", e.Points), fmt.Sprintf("%d", e.Credits)}
		}
		return rows, nil
	}

	top, err := m.source.Top(ctx, maxScores)
	if err != nil {
		return nil, err
	}
	rows := make([]table.Row, len(top))
	for i, e := range top {
		rows[i] = table.Row{fmt.Sprintf("#%d", e.Rank), e.Player, fmt.Sprintf("%d", e.Score)}
	}
	return rows, nil
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, nil
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil
		case key.Matches(msg, m.keys.NextTab):
			m.tab = (m.tab + 1) % tabCount
			m.load()
			return m, nil
		case key.Matches(msg, m.keys.PrevTab):
			m.tab = (m.tab + tabCount - 1) % tabCount
			m.load()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.load()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("HIGH SCORES"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.renderTabs(), m.width))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(boxStyle.Render(m.renderTableContent()), m.width))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m ScoreboardModel) renderTabs() string {
	activeStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, 0, tabCount)
	for t := range tabCount {
		if t == m.tab {
			tabs = append(tabs, activeStyle.Render(t.String()))
		} else {
			tabs = append(tabs, dimStyle.Render(" "+t.String()+" "))
		}
	}
	return strings.Join(tabs, " ")
}

// renderTableContent renders the table, an error, or an empty message.
func (m ScoreboardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)
	switch {
	case m.loadErr != nil:
		return emptyStyle.Render("Could not load scores:\n" + m.loadErr.Error())
	case len(m.table.Rows()) == 0:
		return emptyStyle.Render("Nothing recorded yet.\nPlay a game to get on the board!")
	}
	return m.table.View()
}

// Rows returns the rows shown in the active tab.
func (m ScoreboardModel) Rows() []table.Row {
	return m.table.Rows()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}
