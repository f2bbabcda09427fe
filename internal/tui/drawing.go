// internal/tui/drawing.go
package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/bethropolis/gotoflash/internal/host"
	"github.com/bethropolis/gotoflash/internal/linter"
	"github.com/bethropolis/gotoflash/internal/theme"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// Surface is the part of a view the renderer reads.
type Surface interface {
	Text() string
	Selection() []host.Region
	RegionKeys() []string
	GetRegions(key string) []host.Region
	RegionStyle(key string) (host.RegionStyle, bool)
	Phantoms(set string) []host.Phantom
}

// Frame is everything drawn in one pass.
type Frame struct {
	View     Surface
	Theme    *theme.Theme
	TopLine  int
	TabWidth int
	Status   string
	// Panel holds the output panel lines; nil hides the panel.
	Panel      []string
	PanelTitle string
}

const (
	statusBarHeight = 1
	maxPanelLines   = 6
	gutterIcon      = '●'
)

// PanelHeight returns the rows the panel takes, title included.
func PanelHeight(f Frame) int {
	if f.Panel == nil {
		return 0
	}
	n := len(f.Panel)
	if n > maxPanelLines {
		n = maxPanelLines
	}
	return n + 1
}

// TextAreaHeight returns the rows left for the buffer on a screen of height rows.
func TextAreaHeight(height int, f Frame) int {
	h := height - statusBarHeight - PanelHeight(f)
	if h < 0 {
		return 0
	}
	return h
}

// styledRegion is one drawn region with the cell style it applies; apply is
// nil for sets drawn without a scope, which still show their gutter icon.
type styledRegion struct {
	region host.Region
	apply  func(tcell.Style) tcell.Style
	icon   bool
	color  tcell.Color
}

// RegionCellStyle turns a region style into a modifier for cell styles. It
// reports false for region sets that draw nothing visible.
func RegionCellStyle(th *theme.Theme, rs host.RegionStyle) (func(tcell.Style) tcell.Style, bool) {
	if rs.Flags.Has(host.Hidden) || rs.Scope == "" {
		return nil, false
	}
	fg, _, _ := th.GetStyle(rs.Scope).Decompose()
	const underlines = host.DrawSolidUnderline | host.DrawSquigglyUnderline | host.DrawStippledUnderline
	switch {
	case rs.Flags&underlines != 0:
		return func(s tcell.Style) tcell.Style {
			s = s.Underline(true).Foreground(fg)
			if rs.Flags.Has(host.DrawStippledUnderline) {
				s = s.Dim(true)
			}
			return s
		}, true
	case rs.Flags.Has(host.DrawNoFill):
		if rs.Flags.Has(host.DrawNoOutline) {
			return nil, false
		}
		return func(s tcell.Style) tcell.Style { return s.Foreground(fg).Bold(true) }, true
	default:
		return func(s tcell.Style) tcell.Style { return s.Background(fg).Foreground(tcell.ColorBlack) }, true
	}
}

func collectRegions(f Frame) []styledRegion {
	var out []styledRegion
	for _, key := range f.View.RegionKeys() {
		rs, ok := f.View.RegionStyle(key)
		if !ok || rs.Flags.Has(host.Hidden) {
			continue
		}
		apply, _ := RegionCellStyle(f.Theme, rs)
		fg, _, _ := f.Theme.GetStyle(rs.Scope).Decompose()
		for _, r := range f.View.GetRegions(key) {
			out = append(out, styledRegion{region: r, apply: apply, icon: rs.Icon != "", color: fg})
		}
	}
	return out
}

// covers reports whether offset is painted by r. Empty regions paint the character at Begin.
func covers(r host.Region, offset int) bool {
	if r.Empty() {
		return offset == r.Begin
	}
	return offset >= r.Begin && offset < r.End
}

// Draw renders the buffer, the output panel and the status bar.
func Draw(t *TUI, f Frame) {
	th := f.Theme
	if th == nil {
		th = &theme.GotoflashDark
		f.Theme = th
	}
	width, height := t.Size()
	if width <= 0 || height <= 0 {
		return
	}
	t.Clear()

	lines := NewLineIndex(f.View.Text())
	viewHeight := TextAreaHeight(height, f)
	drawBuffer(t, f, lines, width, viewHeight)
	drawPanel(t, f, width, viewHeight)
	drawStatusBar(t, f, width, height-1)
	t.Show()
}

func gutterWidthFor(lines LineIndex, width int) (int, int) {
	lineCount := lines.Count()
	if lineCount == 0 {
		lineCount = 1
	}
	maxDigits := int(math.Log10(float64(lineCount))) + 1
	// digits, a space, the icon column and a space
	gutterWidth := maxDigits + 3
	if gutterWidth >= width {
		return 0, maxDigits
	}
	return gutterWidth, maxDigits
}

func drawBuffer(t *TUI, f Frame, lines LineIndex, width, viewHeight int) {
	th := f.Theme
	defaultStyle := th.GetStyle("Default")
	lineNumberStyle := th.GetStyle("LineNumber")
	phantomStyle := th.GetStyle("Phantom")
	tabWidth := f.TabWidth
	if tabWidth <= 0 {
		tabWidth = 4
	}

	gutterWidth, maxDigits := gutterWidthFor(lines, width)
	regions := collectRegions(f)
	phantoms := f.View.Phantoms(linter.PhantomSet)

	cursorLine, cursorCol := -1, -1
	if sel := f.View.Selection(); len(sel) > 0 {
		cursorLine, cursorCol = lines.LineCol(sel[0].Begin)
	}

	t.screen.HideCursor()
	for screenY := 0; screenY < viewHeight; screenY++ {
		lineIdx := screenY + f.TopLine
		for x := 0; x < width; x++ {
			t.screen.SetContent(x, screenY, ' ', nil, defaultStyle)
		}
		if lineIdx >= lines.Count() {
			continue
		}
		lineStart := lines.Start(lineIdx)
		line := lines.Line(lineIdx)
		lineEnd := lineStart + len(line)

		if gutterWidth > 0 {
			style := lineNumberStyle
			if lineIdx == cursorLine {
				style = style.Bold(true)
			}
			drawString(t, 0, screenY, maxDigits, fmt.Sprintf("%*d", maxDigits, lineIdx+1), style)
			for _, sr := range regions {
				if sr.icon && sr.region.Begin >= lineStart && sr.region.Begin <= lineEnd {
					t.screen.SetContent(maxDigits+1, screenY, gutterIcon, nil, defaultStyle.Foreground(sr.color))
					break
				}
			}
		}

		x := gutterWidth
		runeIdx := 0
		gr := uniseg.NewGraphemes(string(line))
		for gr.Next() && x < width {
			clusterRunes := gr.Runes()
			clusterWidth := gr.Width()
			offset := lineStart + runeIdx

			style := defaultStyle
			for _, sr := range regions {
				if sr.apply != nil && covers(sr.region, offset) {
					style = sr.apply(style)
				}
			}

			if clusterRunes[0] == '\t' {
				spaces := tabWidth - ((x - gutterWidth) % tabWidth)
				for i := 0; i < spaces && x+i < width; i++ {
					t.screen.SetContent(x+i, screenY, ' ', nil, style)
				}
				if lineIdx == cursorLine && runeIdx == cursorCol {
					t.screen.ShowCursor(x, screenY)
				}
				x += spaces
			} else {
				t.screen.SetContent(x, screenY, clusterRunes[0], clusterRunes[1:], style)
				if lineIdx == cursorLine && runeIdx == cursorCol {
					t.screen.ShowCursor(x, screenY)
				}
				x += clusterWidth
			}
			runeIdx += len(clusterRunes)
		}

		// Regions ending past the text (e.g. on the newline) paint one trailing cell.
		for _, sr := range regions {
			if sr.apply != nil && covers(sr.region, lineEnd) && x < width && lineEnd < lines.Len() {
				t.screen.SetContent(x, screenY, ' ', nil, sr.apply(defaultStyle))
				break
			}
		}
		if lineIdx == cursorLine && cursorCol >= runeIdx && x < width {
			t.screen.ShowCursor(x, screenY)
		}

		// Annotations and phantoms trail the line.
		var trailing []string
		for _, p := range phantoms {
			if p.Region.Begin >= lineStart && p.Region.Begin <= lineEnd {
				trailing = append(trailing, p.Content)
			}
		}
		annotationStyle := phantomStyle
		for _, key := range f.View.RegionKeys() {
			rs, ok := f.View.RegionStyle(key)
			if !ok || rs.Flags.Has(host.Hidden) || len(rs.Annotations) == 0 {
				continue
			}
			for _, r := range f.View.GetRegions(key) {
				if r.Begin >= lineStart && r.Begin <= lineEnd {
					trailing = append(trailing, rs.Annotations...)
					if c := tcell.GetColor(rs.AnnotationColor); rs.AnnotationColor != "" && c != tcell.ColorDefault {
						annotationStyle = phantomStyle.Foreground(c)
					}
					break
				}
			}
		}
		if len(trailing) > 0 && x+2 < width {
			style := phantomStyle
			if len(phantoms) == 0 {
				style = annotationStyle
			}
			drawString(t, x+2, screenY, width-x-2, "◂ "+strings.Join(trailing, " · "), style)
		}
	}
}

func drawPanel(t *TUI, f Frame, width, top int) {
	if f.Panel == nil {
		return
	}
	titleStyle := f.Theme.GetStyle("PanelTitle")
	panelStyle := f.Theme.GetStyle("Panel")
	title := f.PanelTitle
	if title == "" {
		title = linter.PanelName
	}
	fillRow(t, top, width, titleStyle)
	drawString(t, 1, top, width-1, title, titleStyle)

	for i := 0; i < PanelHeight(f)-1; i++ {
		fillRow(t, top+1+i, width, panelStyle)
		drawString(t, 1, top+1+i, width-1, f.Panel[i], panelStyle)
	}
}

func drawStatusBar(t *TUI, f Frame, width, y int) {
	style := f.Theme.GetStyle("StatusBar")
	fillRow(t, y, width, style)
	drawString(t, 0, y, width, f.Status, style)
}

func fillRow(t *TUI, y, width int, style tcell.Style) {
	for x := 0; x < width; x++ {
		t.screen.SetContent(x, y, ' ', nil, style)
	}
}

// drawString draws s from x, clipped to maxWidth cells.
func drawString(t *TUI, x, y, maxWidth int, s string, style tcell.Style) int {
	used := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		w := gr.Width()
		if used+w > maxWidth {
			break
		}
		runes := gr.Runes()
		t.screen.SetContent(x+used, y, runes[0], runes[1:], style)
		used += w
	}
	return used
}
