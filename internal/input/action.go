// internal/input/action.go
package input

// Action represents an operation of the demo editor.
type Action int

// Define the set of possible editor actions.
const (
	// --- Meta Actions ---
	ActionUnknown Action = iota // Default/invalid action
	ActionQuit
	ActionSave

	// --- Cursor Movement ---
	ActionMoveUp
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
	ActionMoveHome // Beginning of line
	ActionMoveEnd  // End of line

	// --- Text Manipulation ---
	ActionInsertRune // Requires Rune argument
	ActionInsertNewLine
	ActionInsertTab
	ActionDeleteCharForward  // Delete key
	ActionDeleteCharBackward // Backspace key

	// --- Linter ---
	ActionGotoNextError
	ActionGotoPreviousError
	ActionPanelNextError     // Runs the panel command against the output panel
	ActionPanelPreviousError // Runs the panel command against the output panel
	ActionToggleHighlights
	ActionToggleSquiggles
	ActionTogglePanel
	ActionCopyErrors // Copies the messages of the errors under the cursor
)

// ActionEvent represents a decoded input event.
type ActionEvent struct {
	Action Action
	Rune   rune // Used for ActionInsertRune
}
