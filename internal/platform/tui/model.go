package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/breadcrush/internal/core"
	"github.com/vovakirdan/breadcrush/internal/games/crush"
	"github.com/vovakirdan/breadcrush/internal/hub"
	"github.com/vovakirdan/breadcrush/internal/session"
)

// recordTimeout bounds how long saving a finished game may take.
const recordTimeout = 5 * time.Second

// recordedMsg carries the outcome of persisting a finished game.
type recordedMsg struct {
	outcome hub.Outcome
	err     error
}

var statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// GameModel runs one Bread Crush game inside a Bubble Tea program.
// The bottom terminal line holds the help bar or the last save status.
type GameModel struct {
	game       *crush.Game
	screen     *core.Screen
	recorder   *hub.Recorder
	config     core.RuntimeConfig
	keys       GameKeyMap
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState
	status     string
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a model for the given game. recorder may be nil.
func NewGameModel(game *crush.Game, recorder *hub.Recorder, cfg core.RuntimeConfig) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	h := help.New()
	h.Width = cfg.ScreenW

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 0)),
		recorder:   recorder,
		config:     cfg,
		keys:       DefaultGameKeyMap(),
		help:       h,
		inputFrame: core.NewInputFrame(),
	}
}

// Init starts the game and the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.playfield())
	return tickCmd(m.config.TickRate)
}

// playfield is the runtime config minus the status line.
func (m GameModel) playfield() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = max(cfg.ScreenH-1, 0)
	return cfg
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-1, 0))
		m.game.Resize(msg.Width, max(msg.Height-1, 0))
		m.help.Width = msg.Width
		return m, nil
	case TickMsg:
		return m.handleTick()
	case recordedMsg:
		m.status = recordStatus(msg)
		return m, nil
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.backToMenu = true
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case msg.String() == "ctrl+s":
		m.saveScreenshot()
		return m, nil
	}

	if a := m.keys.MapKey(msg); a != core.ActionNone {
		m.inputFrame.Set(a)
	}
	return m, nil
}

// handleTick advances the game by one frame.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionNewGame) {
		m.status = ""
	}
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	cmds := []tea.Cmd{tickCmd(m.config.TickRate)}
	if sum, ok := m.game.TakeResult(); ok {
		m.status = "Saving result..."
		cmds = append(cmds, recordCmd(m.recorder, sum))
	}
	return m, tea.Batch(cmds...)
}

// recordCmd persists a finished game off the update loop.
func recordCmd(rec *hub.Recorder, sum session.Summary) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		out, err := rec.Record(ctx, sum)
		return recordedMsg{outcome: out, err: err}
	}
}

func recordStatus(msg recordedMsg) string {
	if msg.err != nil {
		return "Could not save result: " + msg.err.Error()
	}
	s := fmt.Sprintf("Saved %d points  +%d exp", msg.outcome.Result.Score, msg.outcome.Exp)
	if msg.outcome.LevelsGained > 0 {
		s += fmt.Sprintf("  Character level %d!", msg.outcome.Character.Level)
	}
	return s
}

// saveScreenshot writes the current screen to ~/.breadcrush/screenshots.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.status = "Screenshot failed: " + err.Error()
		return
	}
	dir := filepath.Join(home, ".breadcrush", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.status = "Screenshot failed: " + err.Error()
		return
	}
	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.status = "Screenshot failed: " + err.Error()
		return
	}
	m.status = "Screenshot saved to " + path
}

// View renders the game and the status line.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)

	line := m.status
	if line == "" || m.help.ShowAll {
		line = m.help.View(m.keys)
	}
	return RenderScreen(m.screen) + "\n" + statusStyle.Render(line)
}

// State returns the last stepped game state.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// Status returns the status line text.
func (m GameModel) Status() string {
	return m.status
}

// IsQuitting returns true if the user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user requested to go back to the menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}
