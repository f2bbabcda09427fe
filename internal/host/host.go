// Package host describes the editor capabilities the flash add-on consumes.
// Anything that can report a selection, draw named regions and run named
// commands can host it; internal/memhost is the in-process implementation.
package host

import "errors"

var (
	// ErrViewClosed is returned by draw calls on a view that no longer exists.
	ErrViewClosed = errors.New("view is closed")
	// ErrUnknownCommand is returned when no command is registered under a name.
	ErrUnknownCommand = errors.New("unknown command")
)

// ViewID identifies a view for the lifetime of the process.
type ViewID int64

// WindowID identifies a window for the lifetime of the process.
type WindowID int64

// View is a text surface: a content view or an output panel.
type View interface {
	ID() ViewID
	// Window returns the containing window, false once the view is detached.
	Window() (Window, bool)
	FileName() string
	Selection() []Region
	SetSelection(regions []Region)
	// IsLoading reports whether content is still arriving; the selection is not meaningful yet.
	IsLoading() bool

	AddRegions(key string, regions []Region, style RegionStyle) error
	EraseRegions(key string) error
	GetRegions(key string) []Region
	RegionKeys() []string
	// StyleForScope returns the foreground colour ("#rrggbb") the view's theme gives a scope.
	StyleForScope(scope string) string

	UpdatePhantoms(set string, phantoms []Phantom) error
	Phantoms(set string) []Phantom
}

// Window groups views and panels and dispatches window commands.
type Window interface {
	ID() WindowID
	ActiveView() (View, bool)
	// ActivePanel returns the name of the visible panel, "" when none is shown.
	ActivePanel() string
	RunCommand(name string, args Args) error
}

// TextCommand is a command executed against a view.
type TextCommand func(v View, args Args) error

// WindowCommand is a command executed against a window.
type WindowCommand func(w Window, args Args) error

// CommandRegistry is implemented by hosts that accept command implementations.
type CommandRegistry interface {
	RegisterTextCommand(name string, cmd TextCommand)
	RegisterWindowCommand(name string, cmd WindowCommand)
}

// Cursor returns the begin offset of the view's first selection region.
func Cursor(v View) (int, bool) {
	sel := v.Selection()
	if len(sel) == 0 {
		return 0, false
	}
	return sel[0].Begin, true
}

// ActiveViewOf resolves the active view of v's window. Commands dispatched
// against an output panel must act on the window's content view instead.
func ActiveViewOf(v View) (View, bool) {
	w, ok := v.Window()
	if !ok {
		return nil, false
	}
	return w.ActiveView()
}
