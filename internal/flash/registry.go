package flash

import (
	"sync"

	"github.com/bethropolis/gotoflash/internal/host"
)

// cursorPreJump is the cursor captured when a goto command starts.
type cursorPreJump struct {
	view   host.ViewID
	offset int
}

// reveal records what the add-on itself made visible on a view.
type reveal struct {
	squigglesByJump  bool
	squigglesByPanel bool
	phantomDrawn     bool
}

func (r reveal) empty() bool {
	return !r.squigglesByJump && !r.squigglesByPanel && !r.phantomDrawn
}

// Registry is the add-on's process-scoped state. Entries are created on first
// touch and dropped on restore; view ids of closed views simply go unused.
type Registry struct {
	mu        sync.Mutex
	pre       *cursorPreJump
	revealed  map[host.ViewID]reveal
	awaitLoad map[host.ViewID]func()
	flashSeq  uint64
	lastFlash map[host.ViewID]taskKey
}

// NewRegistry creates empty state.
func NewRegistry() *Registry {
	return &Registry{
		revealed:  make(map[host.ViewID]reveal),
		awaitLoad: make(map[host.ViewID]func()),
		lastFlash: make(map[host.ViewID]taskKey),
	}
}

func (r *Registry) arm(view host.ViewID, offset int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pre = &cursorPreJump{view: view, offset: offset}
}

// disarm returns and clears the captured cursor.
func (r *Registry) disarm() (cursorPreJump, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pre == nil {
		return cursorPreJump{}, false
	}
	pre := *r.pre
	r.pre = nil
	return pre, true
}

// Armed reports whether a goto command is in flight.
func (r *Registry) Armed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pre != nil
}

// deferUntilLoaded installs fn as the view's load callback, replacing a previous one.
func (r *Registry) deferUntilLoaded(view host.ViewID, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.awaitLoad[view] = fn
}

// AwaitingLoad reports whether a jump is waiting for view to finish loading.
func (r *Registry) AwaitingLoad(view host.ViewID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.awaitLoad[view]
	return ok
}

// takeLoadCallback removes and returns the view's load callback.
func (r *Registry) takeLoadCallback(view host.ViewID) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn := r.awaitLoad[view]
	delete(r.awaitLoad, view)
	return fn
}

func (r *Registry) revealOf(view host.ViewID) reveal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revealed[view]
}

func (r *Registry) update(view host.ViewID, fn func(*reveal)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv := r.revealed[view]
	fn(&rv)
	if rv.empty() {
		delete(r.revealed, view)
		return
	}
	r.revealed[view] = rv
}

// takeJumpReveal clears the jump-caused marks and reports which were set.
func (r *Registry) takeJumpReveal(view host.ViewID) (squiggles, phantom bool) {
	r.update(view, func(rv *reveal) {
		squiggles, phantom = rv.squigglesByJump, rv.phantomDrawn
		rv.squigglesByJump = false
		rv.phantomDrawn = false
	})
	return squiggles, phantom
}

// takeAll clears every mark for view and returns what was set.
func (r *Registry) takeAll(view host.ViewID) reveal {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv := r.revealed[view]
	delete(r.revealed, view)
	return rv
}

// nextFlash allocates a flash task key and records it as the view's current flash.
func (r *Registry) nextFlash(view host.ViewID) taskKey {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flashSeq++
	key := taskKey{kind: UndoEraseFlash, view: view, seq: r.flashSeq}
	r.lastFlash[view] = key
	return key
}

func (r *Registry) currentFlash(view host.ViewID) (taskKey, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key, ok := r.lastFlash[view]
	return key, ok
}

// clearFlash forgets key if it is still the view's current flash.
func (r *Registry) clearFlash(key taskKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastFlash[key.view] == key {
		delete(r.lastFlash, key.view)
	}
}
