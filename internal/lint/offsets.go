package lint

import (
	"sort"
	"unicode/utf8"
)

// offsetTable converts byte offsets of one source into rune offsets. It is
// built once per lint; each lookup is a binary search.
type offsetTable struct {
	runes int
	// ends holds the byte offset just past each rune. It stays nil for
	// ASCII sources, where byte and rune offsets agree.
	ends []int
}

func newOffsetTable(src []byte) offsetTable {
	t := offsetTable{runes: utf8.RuneCount(src)}
	if t.runes == len(src) {
		return t
	}
	t.ends = make([]int, 0, t.runes)
	for i := 0; i < len(src); {
		_, size := utf8.DecodeRune(src[i:])
		i += size
		t.ends = append(t.ends, i)
	}
	return t
}

// runeOffset returns the number of runes before byteOffset. An offset inside
// a multi-byte rune counts that rune as not yet reached.
func (t offsetTable) runeOffset(byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if t.ends == nil {
		return min(byteOffset, t.runes)
	}
	// Runes whose end is at or before byteOffset.
	return sort.SearchInts(t.ends, byteOffset+1)
}
