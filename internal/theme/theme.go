// internal/theme/theme.go
package theme

import (
	"fmt"
	"strings"

	"github.com/bethropolis/gotoflash/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// Theme maps scope names and UI element names to styles.
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle resolves a scope selector such as "region.redish markup.error".
// Each space-separated scope is tried in turn, and each of those falls back
// through its dotted parents ("region.redish" then "region"). When nothing
// matches the "Default" style is used.
func (t *Theme) GetStyle(scope string) tcell.Style {
	if style, ok := t.lookup(scope); ok {
		return style
	}
	if defStyle, ok := t.Styles["Default"]; ok {
		if scope != "Default" {
			logger.DebugTagf("theme", "Theme '%s': Style '%s' not found, falling back to 'Default'", t.Name, scope)
		}
		return defStyle
	}
	logger.WarnTagf("theme", "Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, scope)
	return tcell.StyleDefault
}

// HasStyle reports whether scope resolves to something other than Default.
func (t *Theme) HasStyle(scope string) bool {
	_, ok := t.lookup(scope)
	return ok
}

func (t *Theme) lookup(scope string) (tcell.Style, bool) {
	for _, name := range strings.Fields(scope) {
		for name != "" {
			if style, ok := t.Styles[name]; ok {
				return style, true
			}
			dot := strings.LastIndex(name, ".")
			if dot == -1 {
				break
			}
			name = name[:dot]
		}
	}
	return tcell.StyleDefault, false
}

// ScopeColor returns the foreground of scope as "#rrggbb", or "" when the
// resolved style has no RGB foreground.
func (t *Theme) ScopeColor(scope string) string {
	fg, _, _ := t.GetStyle(scope).Decompose()
	hex := fg.Hex()
	if hex < 0 {
		return ""
	}
	return fmt.Sprintf("#%06x", hex)
}

// GotoflashDark is the built-in theme.
var GotoflashDark Theme

func init() {
	background := tcell.NewHexColor(0x2a2f38)
	foreground := tcell.NewHexColor(0xc5cdd9)
	comment := tcell.NewHexColor(0x5c6370)
	orange := tcell.NewHexColor(0xd19a66)
	yellow := tcell.NewHexColor(0xe5c07b)
	green := tcell.NewHexColor(0x98c379)
	cyan := tcell.NewHexColor(0x56b6c2)
	blue := tcell.NewHexColor(0x61afef)
	purple := tcell.NewHexColor(0xc678dd)
	red := tcell.NewHexColor(0xe06c75)

	baseStyle := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(foreground)

	GotoflashDark = Theme{
		Name:   "Gotoflash Dark",
		IsDark: true,
		Styles: map[string]tcell.Style{
			// UI elements
			"Default":    baseStyle,
			"Cursor":     baseStyle.Reverse(true),
			"Gutter":     baseStyle.Foreground(comment),
			"LineNumber": baseStyle.Foreground(comment),
			"StatusBar":  tcell.StyleDefault.Background(background).Foreground(foreground),
			"PanelTitle": tcell.StyleDefault.Background(background).Foreground(yellow).Bold(true),
			"Panel":      baseStyle.Foreground(foreground),
			"Phantom":    baseStyle.Foreground(comment).Italic(true),

			// Region colours used by linters and the flash
			"region.redish":    baseStyle.Foreground(red),
			"region.orangish":  baseStyle.Foreground(orange),
			"region.yellowish": baseStyle.Foreground(yellow),
			"region.greenish":  baseStyle.Foreground(green),
			"region.cyanish":   baseStyle.Foreground(cyan),
			"region.bluish":    baseStyle.Foreground(blue),
			"region.purplish":  baseStyle.Foreground(purple),

			"markup.error":   baseStyle.Foreground(red),
			"markup.warning": baseStyle.Foreground(yellow),
		},
	}
}
