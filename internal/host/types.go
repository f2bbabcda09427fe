package host

import "fmt"

// Region is a half-open span [Begin, End) of character offsets.
type Region struct {
	Begin int
	End   int
}

// NewRegion normalizes a and b so Begin <= End.
func NewRegion(a, b int) Region {
	if b < a {
		a, b = b, a
	}
	return Region{Begin: a, End: b}
}

// Point returns an empty region at offset p.
func Point(p int) Region {
	return Region{Begin: p, End: p}
}

// Contains reports whether p lies within the region, end inclusive.
func (r Region) Contains(p int) bool {
	return r.Begin <= p && p <= r.End
}

// Empty reports whether the region spans no characters.
func (r Region) Empty() bool {
	return r.Begin == r.End
}

// Len returns the number of characters spanned.
func (r Region) Len() int {
	return r.End - r.Begin
}

func (r Region) String() string {
	return fmt.Sprintf("[%d,%d)", r.Begin, r.End)
}

// DrawFlags is a bitmask controlling how a region set is drawn.
type DrawFlags uint32

const (
	DrawEmpty             DrawFlags = 1
	HideOnMinimap         DrawFlags = 2
	DrawEmptyAsOverwrite  DrawFlags = 4
	Persistent            DrawFlags = 16
	DrawNoFill            DrawFlags = 32
	Hidden                DrawFlags = 128
	DrawNoOutline         DrawFlags = 256
	DrawSolidUnderline    DrawFlags = 512
	DrawStippledUnderline DrawFlags = 1024
	DrawSquigglyUnderline DrawFlags = 2048
)

// Has reports whether all bits of other are set.
func (f DrawFlags) Has(other DrawFlags) bool {
	return f&other == other
}

// RegionStyle carries everything needed to draw a region set identically again.
type RegionStyle struct {
	Scope           string
	Icon            string
	Flags           DrawFlags
	Annotations     []string
	AnnotationColor string
}

// Phantom is an inline annotation block anchored at a region.
type Phantom struct {
	Region  Region
	Content string
}

// Args are the keyword arguments of a command.
type Args map[string]any

// String returns the string argument under key, or "".
func (a Args) String(key string) string {
	if a == nil {
		return ""
	}
	s, _ := a[key].(string)
	return s
}

// Bool returns the boolean argument under key, or def when absent or mistyped.
func (a Args) Bool(key string, def bool) bool {
	if a == nil {
		return def
	}
	if b, ok := a[key].(bool); ok {
		return b
	}
	return def
}

// Strings returns a list argument under key. Both []string and []any of strings are accepted.
func (a Args) Strings(key string) []string {
	if a == nil {
		return nil
	}
	switch v := a[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{v}
	}
	return nil
}

// Clone returns a shallow copy, so handlers can rewrite arguments without aliasing.
func (a Args) Clone() Args {
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
