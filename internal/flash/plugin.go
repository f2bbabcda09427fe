// Package flash briefly highlights the error a goto command lands on and
// temporarily reveals linter highlights on views that are in quiet mode,
// restoring the previous display state afterwards.
package flash

import (
	"sort"

	"github.com/bethropolis/gotoflash/internal/clock"
	"github.com/bethropolis/gotoflash/internal/debounce"
	"github.com/bethropolis/gotoflash/internal/event"
	"github.com/bethropolis/gotoflash/internal/host"
	"github.com/bethropolis/gotoflash/internal/linter"
	"github.com/bethropolis/gotoflash/internal/logger"
	"github.com/bethropolis/gotoflash/internal/plugin"
)

// Name is the plugin's registry name.
const Name = "goto-flash"

// Plugin wires the jump detector, quiet coordinator, flash renderer and
// squiggle suppression to a host's events.
type Plugin struct {
	hl       *linter.Highlighter
	settings Settings
	reg      *Registry
	tasks    *debounce.Scheduler[taskKey, UndoAction]
}

var _ plugin.Plugin = (*Plugin)(nil)

// New creates the plugin. Timers run on c; nil means the system clock.
//
// Timer callbacks must be serialized with event dispatch: the quiet-mode
// reveal and restore check the view's state and then toggle it, and those
// steps are not atomic against each other. With the system clock, hand New a
// clock whose callbacks are posted to the goroutine that dispatches events.
func New(hl *linter.Highlighter, settings Settings, c clock.Clock) *Plugin {
	p := &Plugin{
		hl:       hl,
		settings: settings,
		reg:      NewRegistry(),
	}
	p.tasks = debounce.New[taskKey, UndoAction](c, p.apply)
	return p
}

func (p *Plugin) Name() string { return Name }

// Registry exposes the plugin's per-view state.
func (p *Plugin) Registry() *Registry { return p.reg }

// Initialize subscribes to the command hooks and the view lifecycle.
func (p *Plugin) Initialize(api plugin.API) error {
	api.SubscribeEvent(event.TypeTextCommand, p.onTextCommand)
	api.SubscribeEvent(event.TypePostTextCommand, p.onPostTextCommand)
	api.SubscribeEvent(event.TypeWindowCommand, p.onWindowCommand)
	api.SubscribeEvent(event.TypeViewModified, p.onViewModified)
	api.SubscribeEvent(event.TypeViewLoaded, p.onViewLoaded)
	api.SubscribeEvent(event.TypeViewClosed, p.onViewClosed)
	logger.InfoTagf("flash", "%s initialized (duration=%v, only_if_quiet=%v, jump_out_of_quiet=%v)",
		Name, p.settings.Duration, p.settings.OnlyIfQuiet, p.settings.JumpOutOfQuiet)
	return nil
}

// Shutdown runs every pending undo so no transient state outlives the plugin.
func (p *Plugin) Shutdown() error {
	p.fire(p.tasks.Keys())
	return nil
}

// Flush runs v's pending undo tasks now. Call it before redrawing v from a
// fresh lint result.
func (p *Plugin) Flush(v host.View) {
	id := v.ID()
	var keys []taskKey
	for _, k := range p.tasks.Keys() {
		if k.view == id {
			keys = append(keys, k)
		}
	}
	p.fire(keys)
}

// PendingTasks returns the number of scheduled undo tasks.
func (p *Plugin) PendingTasks() int {
	return p.tasks.Len()
}

// fire flushes keys in kind order: flashes, then squiggles, then quiet mode.
func (p *Plugin) fire(keys []taskKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].kind != keys[j].kind {
			return keys[i].kind < keys[j].kind
		}
		if keys[i].view != keys[j].view {
			return keys[i].view < keys[j].view
		}
		return keys[i].seq < keys[j].seq
	})
	for _, k := range keys {
		p.tasks.FireNow(k)
	}
}

// onViewModified undoes everything transient on an edited view.
func (p *Plugin) onViewModified(e event.Event) bool {
	data, ok := e.Data.(event.ViewData)
	if !ok || data.View == nil {
		return false
	}
	p.Flush(data.View)
	p.RestoreIfNeeded(data.View)
	return false
}
