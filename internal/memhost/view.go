package memhost

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bethropolis/gotoflash/internal/event"
	"github.com/bethropolis/gotoflash/internal/host"
)

type regionSet struct {
	regions []host.Region
	style   host.RegionStyle
}

// View is an in-memory text view.
type View struct {
	id     host.ViewID
	window *Window

	mu       sync.RWMutex
	filename string
	text     []rune
	sel      []host.Region
	pending  []host.Region
	loading  bool
	closed   bool
	regions  map[string]regionSet
	phantoms map[string][]host.Phantom
}

var _ host.View = (*View)(nil)

func newView(w *Window, id host.ViewID, filename, text string) *View {
	return &View{
		id:       id,
		window:   w,
		filename: filename,
		text:     []rune(text),
		sel:      []host.Region{host.Point(0)},
		regions:  make(map[string]regionSet),
		phantoms: make(map[string][]host.Phantom),
	}
}

func (v *View) ID() host.ViewID { return v.id }

func (v *View) Window() (host.Window, bool) {
	if v.isClosed() || v.window == nil {
		return nil, false
	}
	return v.window, true
}

func (v *View) FileName() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.filename
}

// Text returns the whole buffer.
func (v *View) Text() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return string(v.text)
}

// Size returns the buffer length in characters.
func (v *View) Size() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.text)
}

func (v *View) Selection() []host.Region {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]host.Region, len(v.sel))
	copy(out, v.sel)
	return out
}

// SetSelection replaces the selection, clamping regions to the buffer.
// A view that is still loading keeps the request and applies it once loaded.
func (v *View) SetSelection(regions []host.Region) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.loading {
		v.pending = append([]host.Region(nil), regions...)
		return
	}
	v.applySelection(regions)
}

func (v *View) applySelection(regions []host.Region) {
	sel := make([]host.Region, 0, len(regions))
	for _, r := range regions {
		sel = append(sel, host.NewRegion(v.clamp(r.Begin), v.clamp(r.End)))
	}
	if len(sel) == 0 {
		sel = append(sel, host.Point(0))
	}
	v.sel = sel
}

func (v *View) clamp(p int) int {
	if p < 0 {
		return 0
	}
	if p > len(v.text) {
		return len(v.text)
	}
	return p
}

func (v *View) IsLoading() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loading
}

// FinishLoading installs the content and any selection requested while
// loading, then fires the load hook.
func (v *View) FinishLoading(text string) {
	v.mu.Lock()
	v.text = []rune(text)
	v.loading = false
	if v.pending != nil {
		v.applySelection(v.pending)
		v.pending = nil
	}
	v.mu.Unlock()
	v.window.editor.events.Dispatch(event.TypeViewLoaded, event.ViewData{View: v})
}

// Close detaches the view; later draw calls fail with host.ErrViewClosed.
// Close discards the view's decorations and dispatches TypeViewClosed the
// first time it is called.
func (v *View) Close() {
	v.mu.Lock()
	already := v.closed
	v.closed = true
	v.regions = make(map[string]regionSet)
	v.phantoms = make(map[string][]host.Phantom)
	v.mu.Unlock()
	if already || v.window == nil {
		return
	}
	v.window.editor.events.Dispatch(event.TypeViewClosed, event.ViewData{View: v})
}

func (v *View) isClosed() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.closed
}

// Insert inserts s at offset, shifts regions and fires the modification hook.
func (v *View) Insert(offset int, s string) error {
	ins := []rune(s)
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return host.ErrViewClosed
	}
	if offset < 0 || offset > len(v.text) {
		v.mu.Unlock()
		return fmt.Errorf("insert offset %d out of range [0,%d]", offset, len(v.text))
	}
	n := len(ins)
	text := make([]rune, 0, len(v.text)+n)
	text = append(text, v.text[:offset]...)
	text = append(text, ins...)
	text = append(text, v.text[offset:]...)
	v.text = text
	shift := func(p int) int {
		if p >= offset {
			return p + n
		}
		return p
	}
	for key, set := range v.regions {
		for i, r := range set.regions {
			set.regions[i] = host.Region{Begin: shift(r.Begin), End: shift(r.End)}
		}
		v.regions[key] = set
	}
	for i, r := range v.sel {
		v.sel[i] = host.Region{Begin: shift(r.Begin), End: shift(r.End)}
	}
	v.mu.Unlock()

	v.window.editor.events.Dispatch(event.TypeViewModified, event.ViewData{View: v})
	return nil
}

// Delete removes the characters in r and fires the modification hook.
func (v *View) Delete(r host.Region) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return host.ErrViewClosed
	}
	r = host.NewRegion(v.clamp(r.Begin), v.clamp(r.End))
	if r.Empty() {
		v.mu.Unlock()
		return nil
	}
	v.text = append(v.text[:r.Begin:r.Begin], v.text[r.End:]...)
	n := r.Len()
	shift := func(p int) int {
		switch {
		case p >= r.End:
			return p - n
		case p > r.Begin:
			return r.Begin
		}
		return p
	}
	for key, set := range v.regions {
		for i, reg := range set.regions {
			set.regions[i] = host.Region{Begin: shift(reg.Begin), End: shift(reg.End)}
		}
		v.regions[key] = set
	}
	for i, reg := range v.sel {
		v.sel[i] = host.Region{Begin: shift(reg.Begin), End: shift(reg.End)}
	}
	v.mu.Unlock()

	v.window.editor.events.Dispatch(event.TypeViewModified, event.ViewData{View: v})
	return nil
}

func (v *View) AddRegions(key string, regions []host.Region, style host.RegionStyle) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return host.ErrViewClosed
	}
	if len(regions) == 0 {
		delete(v.regions, key)
		return nil
	}
	rs := make([]host.Region, len(regions))
	copy(rs, regions)
	style.Annotations = append([]string(nil), style.Annotations...)
	v.regions[key] = regionSet{regions: rs, style: style}
	return nil
}

func (v *View) EraseRegions(key string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return host.ErrViewClosed
	}
	delete(v.regions, key)
	return nil
}

func (v *View) GetRegions(key string) []host.Region {
	v.mu.RLock()
	defer v.mu.RUnlock()
	set, ok := v.regions[key]
	if !ok {
		return nil
	}
	out := make([]host.Region, len(set.regions))
	copy(out, set.regions)
	return out
}

// RegionStyle returns the style a region set was drawn with.
func (v *View) RegionStyle(key string) (host.RegionStyle, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	set, ok := v.regions[key]
	return set.style, ok
}

// RegionKeys returns the drawn region keys in sorted order.
func (v *View) RegionKeys() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	keys := make([]string, 0, len(v.regions))
	for k := range v.regions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (v *View) StyleForScope(scope string) string {
	return v.window.editor.scopeColor(scope)
}

func (v *View) UpdatePhantoms(set string, phantoms []host.Phantom) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return host.ErrViewClosed
	}
	if len(phantoms) == 0 {
		delete(v.phantoms, set)
		return nil
	}
	v.phantoms[set] = append([]host.Phantom(nil), phantoms...)
	return nil
}

func (v *View) Phantoms(set string) []host.Phantom {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]host.Phantom(nil), v.phantoms[set]...)
}
