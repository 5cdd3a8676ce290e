package core

// Action represents a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone     Action = iota
	ActionUp              // W, Up arrow - move cursor up
	ActionDown            // S, Down arrow - move cursor down
	ActionLeft            // A, Left arrow - move cursor left
	ActionRight           // D, Right arrow - move cursor right
	ActionSelect          // Space - pick up or drop a gem
	ActionConfirm         // Enter - confirm selection in menu, also selects in game
	ActionDetonate        // X - set off the bomb under the cursor
	ActionHint            // H - show a legal move
	ActionBack            // B, Escape - go back to menu
	ActionRestart         // R key - restart the run
	ActionQuit            // Q, Ctrl+C - exit game/session
	ActionPause           // P - pause/unpause game
)

var actionNames = map[Action]string{
	ActionNone:     "None",
	ActionUp:       "Up",
	ActionDown:     "Down",
	ActionLeft:     "Left",
	ActionRight:    "Right",
	ActionSelect:   "Select",
	ActionConfirm:  "Confirm",
	ActionDetonate: "Detonate",
	ActionHint:     "Hint",
	ActionBack:     "Back",
	ActionRestart:  "Restart",
	ActionQuit:     "Quit",
	ActionPause:    "Pause",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// InputFrame holds the actions triggered during one simulation tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
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
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}
