package memhost

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bethropolis/gotoflash/internal/event"
	"github.com/bethropolis/gotoflash/internal/host"
	"github.com/bethropolis/gotoflash/internal/logger"
)

const (
	cmdShowPanel = "show_panel"
	cmdHidePanel = "hide_panel"
)

// Window holds content views, output panels and the visible panel.
type Window struct {
	id     host.WindowID
	editor *Editor

	mu     sync.RWMutex
	views  []*View
	active *View
	panels map[string]*View
	panel  string
}

var _ host.Window = (*Window)(nil)

func (w *Window) ID() host.WindowID { return w.id }

// NewView opens a content view on filename with text and makes it active.
func (w *Window) NewView(filename, text string) *View {
	v := newView(w, host.ViewID(w.editor.allocID()), filename, text)
	w.mu.Lock()
	w.views = append(w.views, v)
	w.active = v
	w.mu.Unlock()
	return v
}

// OpenLoading opens a view whose content arrives later; see View.FinishLoading.
func (w *Window) OpenLoading(filename string) *View {
	v := w.NewView(filename, "")
	v.mu.Lock()
	v.loading = true
	v.mu.Unlock()
	return v
}

// CreateOutputPanel returns the panel named name ("output." is implied), creating it once.
func (w *Window) CreateOutputPanel(name string) *View {
	full := "output." + strings.TrimPrefix(name, "output.")
	w.mu.Lock()
	defer w.mu.Unlock()
	if p, ok := w.panels[full]; ok {
		return p
	}
	p := newView(w, host.ViewID(w.editor.allocID()), "", "")
	w.panels[full] = p
	return p
}

// Panel returns an existing panel by full name.
func (w *Window) Panel(name string) (*View, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p, ok := w.panels[name]
	return p, ok
}

// Focus makes v the active view.
func (w *Window) Focus(v *View) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = v
}

// ActiveView returns the focused content view.
func (w *Window) ActiveView() (host.View, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.active == nil || w.active.isClosed() {
		return nil, false
	}
	return w.active, true
}

// Views returns the open content views.
func (w *Window) Views() []*View {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*View, 0, len(w.views))
	for _, v := range w.views {
		if !v.isClosed() {
			out = append(out, v)
		}
	}
	return out
}

func (w *Window) ActivePanel() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.panel
}

// RunCommand dispatches the window-command hook, then runs the command with
// whatever arguments the hook's handlers left in place.
func (w *Window) RunCommand(name string, args host.Args) error {
	data := &event.WindowCommandData{Window: w, Name: name, Args: args}
	w.editor.events.Dispatch(event.TypeWindowCommand, data)

	switch data.Name {
	case cmdShowPanel:
		return w.showPanel(data.Args.String("panel"))
	case cmdHidePanel:
		w.mu.Lock()
		w.panel = ""
		w.mu.Unlock()
		return nil
	}

	cmd, ok := w.editor.windowCommand(data.Name)
	if !ok {
		return fmt.Errorf("%w: %s", host.ErrUnknownCommand, data.Name)
	}
	if err := cmd(w, data.Args); err != nil {
		logger.DebugTagf("host", "memhost: window command %s failed: %v", data.Name, err)
		return err
	}
	return nil
}

func (w *Window) showPanel(name string) error {
	if name == "" {
		return fmt.Errorf("show_panel: missing panel argument")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.panels[name]; !ok && strings.HasPrefix(name, "output.") {
		w.panels[name] = newView(w, host.ViewID(w.editor.allocID()), "", "")
	}
	w.panel = name
	return nil
}
