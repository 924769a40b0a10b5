package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/breadcrush/internal/core"
)

// GameKeyMap defines the key bindings used during play.
type GameKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Select    key.Binding
	Cancel    key.Binding
	Boost     key.Binding
	Hint      key.Binding
	Moves     key.Binding
	Bomb      key.Binding
	Shuffle   key.Binding
	LineClear key.Binding
	NewGame   key.Binding
	Back      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Cancel, k.Hint, k.NewGame, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Select, k.Cancel, k.NewGame},
		{k.Boost, k.Hint, k.Moves},
		{k.Bomb, k.Shuffle, k.LineClear},
		{k.Back, k.Help, k.Quit},
	}
}

// DefaultGameKeyMap returns default key bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k", "w"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j", "s"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("left", "h", "a"), key.WithHelp("←/h", "left")),
		Right:     key.NewBinding(key.WithKeys("right", "l", "d"), key.WithHelp("→/l", "right")),
		Select:    key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "select/swap")),
		Cancel:    key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "cancel")),
		Boost:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "score boost")),
		Hint:      key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "hint")),
		Moves:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "extra moves")),
		Bomb:      key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "bomb")),
		Shuffle:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "shuffle")),
		LineClear: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "line clear")),
		NewGame:   key.NewBinding(key.WithKeys("n", "r"), key.WithHelp("n", "new game")),
		Back:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "menu")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// MapKey translates a key message to a game action. Quit, Back and Help
// are handled by the model and map to ActionNone.
func (k GameKeyMap) MapKey(msg tea.KeyMsg) core.Action {
	bindings := []struct {
		b key.Binding
		a core.Action
	}{
		{k.Up, core.ActionUp},
		{k.Down, core.ActionDown},
		{k.Left, core.ActionLeft},
		{k.Right, core.ActionRight},
		{k.Select, core.ActionSelect},
		{k.Cancel, core.ActionCancel},
		{k.Boost, core.ActionBoost},
		{k.Hint, core.ActionHint},
		{k.Moves, core.ActionMoves},
		{k.Bomb, core.ActionBomb},
		{k.Shuffle, core.ActionShuffle},
		{k.LineClear, core.ActionLineClear},
		{k.NewGame, core.ActionNewGame},
	}
	for _, kb := range bindings {
		if key.Matches(msg, kb.b) {
			return kb.a
		}
	}
	return core.ActionNone
}

// MenuKeyMap defines the key bindings for menus.
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Select key.Binding
	Scores key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Select, k.Scores, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultMenuKeyMap returns default key bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k", "w"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j", "s"), key.WithHelp("↓/j", "down")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "difficulty")),
		Right:  key.NewBinding(key.WithKeys("right", "l")),
		Select: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Scores: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "scores")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
