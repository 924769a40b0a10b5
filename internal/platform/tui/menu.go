package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/breadcrush/internal/config"
)

// MenuChoice is what the user picked in the main menu.
type MenuChoice int

const (
	ChoiceNone MenuChoice = iota
	ChoicePlay
	ChoiceScores
	ChoiceQuit
)

type menuEntry int

const (
	entryPlay menuEntry = iota
	entryDifficulty
	entryScores
	entryQuit
)

var menuEntries = []menuEntry{entryPlay, entryDifficulty, entryScores, entryQuit}

// presets is the order difficulty cycles through.
var presets = []config.DifficultyPreset{
	config.DifficultyEasy,
	config.DifficultyNormal,
	config.DifficultyHard,
	config.DifficultyFixed,
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuModel is the main menu: play, pick a difficulty, view scores or quit.
type MenuModel struct {
	player    string
	charLevel int
	cursor    int
	preset    int
	width     int
	height    int
	keys      MenuKeyMap
	help      help.Model
	choice    MenuChoice
}

// NewMenuModel creates a menu for the player with the given starting difficulty.
func NewMenuModel(player string, charLevel int, preset config.DifficultyPreset, width, height int) MenuModel {
	idx := 1
	for i, p := range presets {
		if p == preset {
			idx = i
		}
	}
	return MenuModel{
		player:    player,
		charLevel: max(charLevel, 1),
		preset:    idx,
		width:     width,
		height:    height,
		keys:      DefaultMenuKeyMap(),
		help:      help.New(),
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
		m.help.Width = msg.Width
	}
	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.choice = ChoiceQuit
	case key.Matches(msg, m.keys.Up):
		m.cursor = (m.cursor + len(menuEntries) - 1) % len(menuEntries)
	case key.Matches(msg, m.keys.Down):
		m.cursor = (m.cursor + 1) % len(menuEntries)
	case key.Matches(msg, m.keys.Left):
		if menuEntries[m.cursor] == entryDifficulty {
			m.preset = (m.preset + len(presets) - 1) % len(presets)
		}
	case key.Matches(msg, m.keys.Right):
		if menuEntries[m.cursor] == entryDifficulty {
			m.preset = (m.preset + 1) % len(presets)
		}
	case key.Matches(msg, m.keys.Scores):
		m.choice = ChoiceScores
	case key.Matches(msg, m.keys.Select):
		switch menuEntries[m.cursor] {
		case entryPlay:
			m.choice = ChoicePlay
		case entryDifficulty:
			m.preset = (m.preset + 1) % len(presets)
		case entryScores:
			m.choice = ChoiceScores
		case entryQuit:
			m.choice = ChoiceQuit
		}
	}
	return m, nil
}

func (m MenuModel) entryLabel(e menuEntry) string {
	switch e {
	case entryPlay:
		return "Play"
	case entryDifficulty:
		return fmt.Sprintf("Difficulty: < %s >", presets[m.preset])
	case entryScores:
		return "Scores"
	case entryQuit:
		return "Quit"
	}
	return ""
}

// View renders the menu.
func (m MenuModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("B R E A D   C R U S H"), m.width))
	b.WriteString("\n\n")
	who := fmt.Sprintf("%s  ·  character level %d", m.player, m.charLevel)
	b.WriteString(centerText(dimStyle.Render(who), m.width))
	b.WriteString("\n\n")

	for i, e := range menuEntries {
		line := "  " + m.entryLabel(e)
		if i == m.cursor {
			line = cursorStyle.Render("> " + m.entryLabel(e))
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render(m.help.View(m.keys)), m.width))
	b.WriteString("\n")
	return b.String()
}

// Choice returns what the user picked, or ChoiceNone.
func (m MenuModel) Choice() MenuChoice {
	return m.choice
}

// Preset returns the selected difficulty.
func (m MenuModel) Preset() config.DifficultyPreset {
	return presets[m.preset]
}
