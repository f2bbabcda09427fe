// Package memhost is an in-memory editor host: windows, views and output
// panels with named region sets, phantoms, a command registry and the
// command/modification/load hooks, all delivered through an event.Manager.
package memhost

import (
	"fmt"
	"sync"

	"github.com/bethropolis/gotoflash/internal/event"
	"github.com/bethropolis/gotoflash/internal/host"
	"github.com/bethropolis/gotoflash/internal/logger"
)

// ScopeColorFunc resolves a scope to a "#rrggbb" foreground colour.
type ScopeColorFunc func(scope string) string

// Option configures an Editor.
type Option func(*Editor)

// WithScopeColors sets the resolver behind View.StyleForScope.
func WithScopeColors(fn ScopeColorFunc) Option {
	return func(e *Editor) { e.scopeColor = fn }
}

// Editor owns every window and view and the command registry.
type Editor struct {
	events     *event.Manager
	scopeColor ScopeColorFunc

	mu             sync.RWMutex
	nextID         int64
	windows        []*Window
	textCommands   map[string]host.TextCommand
	windowCommands map[string]host.WindowCommand
}

var _ host.CommandRegistry = (*Editor)(nil)

// NewEditor creates an empty editor dispatching hooks through events.
func NewEditor(events *event.Manager, opts ...Option) *Editor {
	if events == nil {
		events = event.NewManager()
	}
	e := &Editor{
		events:         events,
		scopeColor:     func(string) string { return "" },
		textCommands:   make(map[string]host.TextCommand),
		windowCommands: make(map[string]host.WindowCommand),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Events returns the bus the editor dispatches hooks on.
func (e *Editor) Events() *event.Manager { return e.events }

func (e *Editor) allocID() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	return e.nextID
}

// NewWindow opens an empty window.
func (e *Editor) NewWindow() *Window {
	w := &Window{
		id:     host.WindowID(e.allocID()),
		editor: e,
		panels: make(map[string]*View),
	}
	e.mu.Lock()
	e.windows = append(e.windows, w)
	e.mu.Unlock()
	return w
}

// Windows returns every open window.
func (e *Editor) Windows() []*Window {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*Window, len(e.windows))
	copy(out, e.windows)
	return out
}

// RegisterTextCommand adds or replaces a text command.
func (e *Editor) RegisterTextCommand(name string, cmd host.TextCommand) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.textCommands[name] = cmd
}

// RegisterWindowCommand adds or replaces a window command.
func (e *Editor) RegisterWindowCommand(name string, cmd host.WindowCommand) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.windowCommands[name] = cmd
}

// RunTextCommand runs a text command on v, bracketed by the pre and post hooks.
func (e *Editor) RunTextCommand(v host.View, name string, args host.Args) error {
	e.mu.RLock()
	cmd, ok := e.textCommands[name]
	e.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", host.ErrUnknownCommand, name)
	}

	e.events.Dispatch(event.TypeTextCommand, event.TextCommandData{View: v, Name: name, Args: args})
	err := cmd(v, args)
	if err != nil {
		logger.DebugTagf("host", "memhost: text command %s failed: %v", name, err)
	}
	e.events.Dispatch(event.TypePostTextCommand, event.TextCommandData{View: v, Name: name, Args: args})
	return err
}

func (e *Editor) windowCommand(name string) (host.WindowCommand, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cmd, ok := e.windowCommands[name]
	return cmd, ok
}
