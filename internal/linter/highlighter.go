package linter

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bethropolis/gotoflash/internal/host"
	"github.com/bethropolis/gotoflash/internal/logger"
)

// PhantomSet is the phantom set name the linter draws annotations under.
const PhantomSet = "SublimeLinter"

// Options configure how the Highlighter draws.
type Options struct {
	// MarkStyle names the MarkStyles entry squiggles are drawn with.
	MarkStyle string
	// StartHidden lists the modes hidden on views the highlighter sees first.
	StartHidden []Mode
}

// Highlighter draws the error index onto views and flips quiet modes.
type Highlighter struct {
	store *Store
	state *QuietState
	flags host.DrawFlags
	start []Mode

	mu   sync.Mutex
	seen map[host.ViewID]bool
}

// NewHighlighter creates a highlighter over store and state.
func NewHighlighter(store *Store, state *QuietState, opts Options) *Highlighter {
	flags, ok := StyleFlags(opts.MarkStyle)
	if !ok {
		flags = MarkStyles["squiggly_underline"]
	}
	return &Highlighter{
		store: store,
		state: state,
		flags: flags,
		start: opts.StartHidden,
		seen:  make(map[host.ViewID]bool),
	}
}

// Store returns the error index the highlighter draws from.
func (h *Highlighter) Store() *Store { return h.store }

// State returns the quiet sets the highlighter maintains.
func (h *Highlighter) State() *QuietState { return h.state }

// ensureSeen applies StartHidden the first time a view is drawn or toggled.
func (h *Highlighter) ensureSeen(id host.ViewID) {
	h.mu.Lock()
	first := !h.seen[id]
	h.seen[id] = true
	h.mu.Unlock()
	if !first {
		return
	}
	for _, mode := range h.start {
		h.state.SetHidden(id, mode, true)
	}
}

// SquiggleKey builds the key an error is drawn under, hidden when quiet.
func (h *Highlighter) SquiggleKey(e ErrorRecord, quiet bool) HighlightKey {
	scope := e.Scope
	if scope == "" {
		scope = ScopeFor(e.ErrorType)
	}
	k := HighlightKey{
		Namespace:  SquiggleNamespace,
		Linter:     e.Linter,
		UID:        e.UID,
		Scope:      scope,
		Flags:      h.flags,
		Icon:       e.Icon,
		Annotation: e.Message,
	}
	if quiet {
		return k.WithFlags(k.Flags | host.Hidden)
	}
	return k
}

// RegionKeys returns the squiggle keys currently drawn on v.
func (h *Highlighter) RegionKeys(v host.View) []HighlightKey {
	raw := v.RegionKeys()
	keys := make([]HighlightKey, 0, len(raw))
	for _, s := range raw {
		if !IsSquiggleKey(s) {
			continue
		}
		k, err := ParseKey(s)
		if err != nil {
			logger.DebugTagf("linter", "Highlighter: skipping region key: %v", err)
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

// Draw redraws every squiggle and phantom of v's file.
func (h *Highlighter) Draw(v host.View) error {
	id := v.ID()
	h.ensureSeen(id)

	for _, k := range h.RegionKeys(v) {
		if err := v.EraseRegions(k.Format()); err != nil {
			return fmt.Errorf("erase %s: %w", k.UID, err)
		}
	}

	errs := h.store.FileErrors(CanonicalFilename(v))
	quiet := h.state.IsQuiet(id)
	for _, e := range errs {
		if err := h.RedrawSquiggle(v, h.SquiggleKey(e, quiet), []host.Region{e.Region}); err != nil {
			return err
		}
	}

	var phantoms []host.Phantom
	if !h.state.HasNoPhantoms(id) {
		phantoms = h.PreparePhantoms(v, errs)
	}
	if err := h.UpdatePhantoms(v, phantoms); err != nil {
		return err
	}
	logger.DebugTagf("linter", "Highlighter: drew %d errors on view %d (quiet=%v)", len(errs), id, quiet)
	return nil
}

// RedrawSquiggle draws regions under key with exactly the style key encodes.
func (h *Highlighter) RedrawSquiggle(v host.View, key HighlightKey, regions []host.Region) error {
	style := key.Style()
	if len(style.Annotations) > 0 {
		style.AnnotationColor = v.StyleForScope(key.Scope)
	}
	if err := v.AddRegions(key.Format(), regions, style); err != nil {
		return fmt.Errorf("draw %s: %w", key.UID, err)
	}
	return nil
}

// DrawInvisible redraws regions under key without a scope, which keeps the
// gutter icon and annotation while removing the visible mark.
func (h *Highlighter) DrawInvisible(v host.View, key HighlightKey, regions []host.Region) error {
	style := key.Style()
	if len(style.Annotations) > 0 {
		style.AnnotationColor = v.StyleForScope(key.Scope)
	}
	style.Scope = ""
	if err := v.AddRegions(key.Format(), regions, style); err != nil {
		return fmt.Errorf("hide %s: %w", key.UID, err)
	}
	return nil
}

// PreparePhantoms builds one phantom per error.
func (h *Highlighter) PreparePhantoms(v host.View, errs []ErrorRecord) []host.Phantom {
	phantoms := make([]host.Phantom, 0, len(errs))
	for _, e := range errs {
		if e.Message == "" {
			continue
		}
		phantoms = append(phantoms, host.Phantom{
			Region:  host.Point(e.Region.Begin),
			Content: fmt.Sprintf("%s: %s", e.ErrorType, e.Message),
		})
	}
	return phantoms
}

// UpdatePhantoms replaces the linter's phantom set on v.
func (h *Highlighter) UpdatePhantoms(v host.View, phantoms []host.Phantom) error {
	if err := v.UpdatePhantoms(PhantomSet, phantoms); err != nil {
		return fmt.Errorf("update phantoms: %w", err)
	}
	return nil
}

// Toggle flips the named modes for w's active view and redraws it.
func (h *Highlighter) Toggle(w host.Window, what []Mode) error {
	v, ok := w.ActiveView()
	if !ok {
		return nil
	}
	return h.ToggleView(v, what)
}

// ToggleView flips the named modes for v and redraws it.
func (h *Highlighter) ToggleView(v host.View, what []Mode) error {
	id := v.ID()
	h.ensureSeen(id)

	for _, mode := range what {
		h.state.SetHidden(id, mode, !h.state.Hidden(id, mode))
	}
	logger.DebugTagf("linter", "Highlighter: toggled %v on view %d (quiet=%v, no_phantoms=%v)",
		what, id, h.state.IsQuiet(id), h.state.HasNoPhantoms(id))

	if err := h.Draw(v); err != nil {
		if errors.Is(err, host.ErrViewClosed) {
			return nil
		}
		return err
	}
	return nil
}
