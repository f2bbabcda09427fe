package tui

// LineIndex maps character offsets of a text to line/column pairs.
type LineIndex struct {
	text   []rune
	starts []int
}

// NewLineIndex indexes text. Columns and offsets count runes.
func NewLineIndex(text string) LineIndex {
	runes := []rune(text)
	starts := []int{0}
	for i, r := range runes {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return LineIndex{text: runes, starts: starts}
}

// Count returns the number of lines; an empty text has one.
func (li LineIndex) Count() int {
	return len(li.starts)
}

// Len returns the text length in runes.
func (li LineIndex) Len() int {
	return len(li.text)
}

// Line returns the runes of line i without its newline.
func (li LineIndex) Line(i int) []rune {
	if i < 0 || i >= len(li.starts) {
		return nil
	}
	end := len(li.text)
	if i+1 < len(li.starts) {
		end = li.starts[i+1] - 1
	}
	return li.text[li.starts[i]:end]
}

// Start returns the offset of the first character of line i.
func (li LineIndex) Start(i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(li.starts) {
		return len(li.text)
	}
	return li.starts[i]
}

// LineCol converts an offset to a zero-based line and column.
func (li LineIndex) LineCol(offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(li.text) {
		offset = len(li.text)
	}
	lo, hi := 0, len(li.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if li.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, offset - li.starts[lo]
}

// Offset converts a line and column back to an offset, clamping the column to the line.
func (li LineIndex) Offset(line, col int) int {
	if line < 0 {
		return 0
	}
	if line >= len(li.starts) {
		return len(li.text)
	}
	n := len(li.Line(line))
	if col > n {
		col = n
	}
	if col < 0 {
		col = 0
	}
	return li.starts[line] + col
}
