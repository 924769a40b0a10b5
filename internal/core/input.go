package core

// Action is a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone     Action = iota
	ActionUp              // move cursor up
	ActionDown            // move cursor down
	ActionLeft            // move cursor left
	ActionRight           // move cursor right
	ActionSelect          // select the tile under the cursor, or swap with the selection
	ActionCancel          // drop the current selection
	ActionNewGame         // start over
	ActionQuit            // leave the game
	ActionBoost           // use a score boost item
	ActionHint            // use a hint item
	ActionMoves           // use an extra moves item
	ActionBomb            // fire the bomb skill at the cursor
	ActionShuffle         // fire the shuffle skill
	ActionLineClear       // fire the line clear skill on the cursor row
)

var actionNames = map[Action]string{
	ActionNone:      "None",
	ActionUp:        "Up",
	ActionDown:      "Down",
	ActionLeft:      "Left",
	ActionRight:     "Right",
	ActionSelect:    "Select",
	ActionCancel:    "Cancel",
	ActionNewGame:   "NewGame",
	ActionQuit:      "Quit",
	ActionBoost:     "Boost",
	ActionHint:      "Hint",
	ActionMoves:     "Moves",
	ActionBomb:      "Bomb",
	ActionShuffle:   "Shuffle",
	ActionLineClear: "LineClear",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return "Unknown"
}

// InputFrame collects the actions triggered during one simulation tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{Actions: make(map[Action]bool)}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}
