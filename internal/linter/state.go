package linter

import (
	"sync"

	"github.com/bethropolis/gotoflash/internal/host"
)

// Mode names a kind of persistent linter decoration.
type Mode string

const (
	ModeSquiggles Mode = "squiggles"
	ModePhantoms  Mode = "phantoms"
)

// AllModes lists every mode in toggle order.
var AllModes = []Mode{ModePhantoms, ModeSquiggles}

// ParseModes keeps the recognised mode names, dropping duplicates.
func ParseModes(names []string) []Mode {
	seen := make(map[Mode]bool, len(names))
	out := make([]Mode, 0, len(names))
	for _, name := range names {
		m := Mode(name)
		if (m == ModeSquiggles || m == ModePhantoms) && !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// QuietState holds the views whose squiggles or phantoms are suppressed.
// It is owned by the Highlighter; others read it and flip it through Toggle.
type QuietState struct {
	mu         sync.RWMutex
	quiet      map[host.ViewID]struct{}
	noPhantoms map[host.ViewID]struct{}
}

// NewQuietState creates empty quiet sets.
func NewQuietState() *QuietState {
	return &QuietState{
		quiet:      make(map[host.ViewID]struct{}),
		noPhantoms: make(map[host.ViewID]struct{}),
	}
}

// IsQuiet reports whether the view's squiggles are drawn hidden.
func (q *QuietState) IsQuiet(id host.ViewID) bool {
	return q.has(q.quiet, id)
}

// HasNoPhantoms reports whether the view's phantoms are suppressed.
func (q *QuietState) HasNoPhantoms(id host.ViewID) bool {
	return q.has(q.noPhantoms, id)
}

// SetQuiet adds or removes the view from the quiet set.
func (q *QuietState) SetQuiet(id host.ViewID, quiet bool) {
	q.set(q.quiet, id, quiet)
}

// SetNoPhantoms adds or removes the view from the phantom-suppressed set.
func (q *QuietState) SetNoPhantoms(id host.ViewID, hidden bool) {
	q.set(q.noPhantoms, id, hidden)
}

// Hidden reports whether mode is currently suppressed for the view.
func (q *QuietState) Hidden(id host.ViewID, mode Mode) bool {
	switch mode {
	case ModeSquiggles:
		return q.IsQuiet(id)
	case ModePhantoms:
		return q.HasNoPhantoms(id)
	}
	return false
}

// SetHidden suppresses or shows mode for the view. Unknown modes are ignored.
func (q *QuietState) SetHidden(id host.ViewID, mode Mode, hidden bool) {
	switch mode {
	case ModeSquiggles:
		q.SetQuiet(id, hidden)
	case ModePhantoms:
		q.SetNoPhantoms(id, hidden)
	}
}

func (q *QuietState) has(set map[host.ViewID]struct{}, id host.ViewID) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	_, ok := set[id]
	return ok
}

func (q *QuietState) set(set map[host.ViewID]struct{}, id host.ViewID, on bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if on {
		set[id] = struct{}{}
	} else {
		delete(set, id)
	}
}
