package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/breadcrush/internal/config"
	"github.com/vovakirdan/breadcrush/internal/core"
	"github.com/vovakirdan/breadcrush/internal/games/crush"
	"github.com/vovakirdan/breadcrush/internal/hub"
	"github.com/vovakirdan/breadcrush/internal/session"
)

// Deps are the collaborators shared by every terminal session.
// All of them except Game are optional.
type Deps struct {
	Game     config.GameConfig
	Preset   config.DifficultyPreset
	Scores   ScoreSource
	Recorder *hub.Recorder
	Credits  session.CreditReporter
	Logger   *log.Logger
}

type view int

const (
	viewMenu view = iota
	viewGame
	viewScores
)

// AppModel manages the full flow for one player: menu, game and scoreboard.
// It is the top-level model for local play and for SSH sessions.
type AppModel struct {
	deps     Deps
	player   string
	config   core.RuntimeConfig
	view     view
	menu     MenuModel
	game     GameModel
	scores   ScoreboardModel
	quitting bool
}

// NewAppModel creates the top-level model for player.
func NewAppModel(deps Deps, player string, cfg core.RuntimeConfig) AppModel {
	if deps.Preset == "" {
		deps.Preset = config.DifficultyNormal
	}
	m := AppModel{
		deps:   deps,
		player: player,
		config: cfg,
	}
	m.menu = m.newMenu(deps.Preset)
	return m
}

func (m AppModel) newMenu(preset config.DifficultyPreset) MenuModel {
	return NewMenuModel(m.player, m.characterLevel(), preset, m.config.ScreenW, m.config.ScreenH)
}

func (m AppModel) characterLevel() int {
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	return m.deps.Recorder.CharacterLevel(ctx, m.player)
}

// Init initializes the session.
func (m AppModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active view.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.view {
	case viewGame:
		return m.updateGame(msg)
	case viewScores:
		return m.updateScores(msg)
	}
	return m.updateMenu(msg)
}

func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if mm, ok := next.(MenuModel); ok {
		m.menu = mm
	}

	switch m.menu.Choice() {
	case ChoiceQuit:
		m.quitting = true
		return m, tea.Quit
	case ChoiceScores:
		m.scores = NewScoreboardModel(m.deps.Scores, m.player, m.config.ScreenW, m.config.ScreenH)
		m.view = viewScores
		return m, m.scores.Init()
	case ChoicePlay:
		return m.startGame()
	}
	return m, cmd
}

// startGame builds a game for the chosen difficulty and the player's
// current character level.
func (m AppModel) startGame() (tea.Model, tea.Cmd) {
	cfg := m.deps.Game
	config.ApplyPreset(&cfg, m.menu.Preset())
	cfg.Skills.CharacterLevel = m.characterLevel()

	logger := m.deps.Logger
	if logger != nil {
		logger = logger.With("player", m.player)
	}
	g := crush.New(crush.Options{
		Player:  m.player,
		Config:  cfg,
		Credits: m.deps.Credits,
		Logger:  logger,
	})

	rc := m.config
	rc.Seed = time.Now().UnixNano()
	m.game = NewGameModel(g, m.deps.Recorder, rc)
	m.view = viewGame
	return m, m.game.Init()
}

func (m AppModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if gm, ok := next.(GameModel); ok {
		m.game = gm
	}

	switch {
	case m.game.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.game.BackToMenu():
		m.menu = m.newMenu(m.menu.Preset())
		m.view = viewMenu
		return m, m.menu.Init()
	}
	return m, cmd
}

func (m AppModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	if sm, ok := next.(ScoreboardModel); ok {
		m.scores = sm
	}

	switch {
	case m.scores.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.scores.IsGoingBack():
		m.menu = m.newMenu(m.menu.Preset())
		m.view = viewMenu
		return m, m.menu.Init()
	}
	return m, cmd
}

// View renders the active view.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.view {
	case viewGame:
		return m.game.View()
	case viewScores:
		return m.scores.View()
	}
	return m.menu.View()
}

// Run starts the terminal app for a local player and blocks until it exits.
func Run(deps Deps, player string, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewAppModel(deps, player, cfg),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
