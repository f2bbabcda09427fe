package linter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bethropolis/gotoflash/internal/host"
)

// SquiggleNamespace prefixes every region key the linter draws squiggles under.
const SquiggleNamespace = "SL.squiggle"

const keySep = "|"

// ErrInvalidKey is returned by ParseKey for strings Format could not have produced.
var ErrInvalidKey = errors.New("invalid highlight key")

// HighlightKey names one drawn squiggle region set. Its string form embeds
// the scope, flags, icon and annotation so the set can be redrawn from the
// key alone after it was erased.
//
// Field values are escaped (% as %25, | as %7C); ParseKey accepts only the
// canonical escaping, so Format(ParseKey(k)) == k for every valid k.
type HighlightKey struct {
	Namespace  string
	Linter     string
	UID        string
	Scope      string
	Flags      host.DrawFlags
	Icon       string
	Annotation string
}

// Format renders the key as the region key string handed to the host.
func (k HighlightKey) Format() string {
	return strings.Join([]string{
		k.Namespace,
		escapeField(k.Linter),
		escapeField(k.UID),
		escapeField(k.Scope),
		strconv.FormatUint(uint64(k.Flags), 10),
		escapeField(k.Icon),
		escapeField(k.Annotation),
	}, keySep)
}

func (k HighlightKey) String() string {
	return k.Format()
}

// Visible reports whether the key draws anything on screen.
func (k HighlightKey) Visible() bool {
	return k.Flags&host.Hidden == 0
}

// WithFlags returns a copy with different draw flags.
func (k HighlightKey) WithFlags(flags host.DrawFlags) HighlightKey {
	k.Flags = flags
	return k
}

// Style returns the draw style the key encodes.
func (k HighlightKey) Style() host.RegionStyle {
	style := host.RegionStyle{
		Scope: k.Scope,
		Icon:  k.Icon,
		Flags: k.Flags,
	}
	if k.Annotation != "" {
		style.Annotations = []string{k.Annotation}
	}
	return style
}

// ParseKey recovers a HighlightKey from its Format output.
func ParseKey(s string) (HighlightKey, error) {
	parts := strings.Split(s, keySep)
	if len(parts) != 7 || parts[0] == "" {
		return HighlightKey{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}

	fields := make([]string, 0, 5)
	for _, idx := range []int{1, 2, 3, 5, 6} {
		v, err := unescapeField(parts[idx])
		if err != nil {
			return HighlightKey{}, fmt.Errorf("%w: %q: %v", ErrInvalidKey, s, err)
		}
		fields = append(fields, v)
	}
	flags, err := strconv.ParseUint(parts[4], 10, 32)
	if err != nil {
		return HighlightKey{}, fmt.Errorf("%w: %q: bad flags", ErrInvalidKey, s)
	}

	k := HighlightKey{
		Namespace:  parts[0],
		Linter:     fields[0],
		UID:        fields[1],
		Scope:      fields[2],
		Flags:      host.DrawFlags(flags),
		Icon:       fields[3],
		Annotation: fields[4],
	}
	if k.Format() != s {
		return HighlightKey{}, fmt.Errorf("%w: %q is not canonical", ErrInvalidKey, s)
	}
	return k, nil
}

// IsSquiggleKey reports whether a raw region key belongs to the linter's squiggles.
func IsSquiggleKey(s string) bool {
	return strings.HasPrefix(s, SquiggleNamespace+keySep)
}

var fieldEscaper = strings.NewReplacer("%", "%25", keySep, "%7C")

func escapeField(s string) string {
	return fieldEscaper.Replace(s)
}

func unescapeField(s string) (string, error) {
	if !strings.Contains(s, "%") {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			b.WriteByte(s[i])
			continue
		}
		if i+3 > len(s) {
			return "", errors.New("truncated escape")
		}
		switch s[i : i+3] {
		case "%25":
			b.WriteByte('%')
		case "%7C":
			b.WriteString(keySep)
		default:
			return "", fmt.Errorf("unknown escape %q", s[i:i+3])
		}
		i += 2
	}
	return b.String(), nil
}
