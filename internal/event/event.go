// internal/event/event.go
package event

import "github.com/bethropolis/gotoflash/internal/host"

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// Command hooks
	TypeTextCommand     // Fired before a text command runs against a view
	TypePostTextCommand // Fired after a text command completed
	TypeWindowCommand   // Fired before a window command runs; handlers may rewrite its args

	// View lifecycle
	TypeViewModified // Fired after the view's text changed
	TypeViewLoaded   // Fired once a loading view has its content and selection
	TypeViewClosed   // Fired once when a view is closed

	// Application lifecycle
	TypeAppReady
	TypeAppQuit
)

func (t Type) String() string {
	switch t {
	case TypeTextCommand:
		return "text_command"
	case TypePostTextCommand:
		return "post_text_command"
	case TypeWindowCommand:
		return "window_command"
	case TypeViewModified:
		return "view_modified"
	case TypeViewLoaded:
		return "view_loaded"
	case TypeViewClosed:
		return "view_closed"
	case TypeAppReady:
		return "app_ready"
	case TypeAppQuit:
		return "app_quit"
	default:
		return "unknown"
	}
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data interface{}
}

// TextCommandData accompanies TypeTextCommand and TypePostTextCommand.
// View may be an output panel rather than a content view.
type TextCommandData struct {
	View host.View
	Name string
	Args host.Args
}

// WindowCommandData accompanies TypeWindowCommand. It is passed by pointer;
// a handler that sets Args replaces the arguments the command runs with.
type WindowCommandData struct {
	Window host.Window
	Name   string
	Args   host.Args
}

// ViewData accompanies TypeViewModified and TypeViewLoaded.
type ViewData struct {
	View host.View
}

type AppQuitData struct{}

type AppReadyData struct{}
