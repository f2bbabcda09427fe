// internal/theme/loader.go
package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/gotoflash/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// defaultScope is the style every scope inherits unset properties from.
const defaultScope = "Default"

// styleSpec is one entry of a theme file's [styles] table. Unset fields are
// nil and keep the inherited value.
type styleSpec struct {
	Fg            *string `toml:"fg"`
	Bg            *string `toml:"bg"`
	Bold          *bool   `toml:"bold"`
	Italic        *bool   `toml:"italic"`
	Underline     *bool   `toml:"underline"`
	Reverse       *bool   `toml:"reverse"`
	Dim           *bool   `toml:"dim"`
	Strikethrough *bool   `toml:"strikethrough"`
}

// themeFile mirrors a theme file on disk.
//
//	name = "Mine"
//	[styles."region.redish"]
//	fg = "#e06c75"
//	[regions]
//	"region.bluish" = "#61afef"
//
// [regions] is a shorthand for styles that only set a foreground colour.
type themeFile struct {
	Name    string               `toml:"name"`
	IsDark  bool                 `toml:"is_dark"`
	Styles  map[string]styleSpec `toml:"styles"`
	Regions map[string]string    `toml:"regions"`
}

// LoadThemeFromFile reads and parses a theme file. The file's base name is
// the theme name when the file does not set one.
func LoadThemeFromFile(filePath string) (*Theme, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file '%s': %w", filePath, err)
	}
	name := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	th, err := ParseTheme(string(data), name)
	if err != nil {
		return nil, fmt.Errorf("theme file '%s': %w", filePath, err)
	}
	logger.DebugTagf("theme", "Loaded theme '%s' (%d styles) from '%s'", th.Name, len(th.Styles), filePath)
	return th, nil
}

// ParseTheme decodes TOML theme text. Styles that fail to parse are skipped
// with a warning; only malformed TOML is an error.
func ParseTheme(data, fallbackName string) (*Theme, error) {
	var file themeFile
	md, err := toml.Decode(data, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML theme: %w", err)
	}
	if file.Name == "" {
		file.Name = fallbackName
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		logger.WarnTagf("theme", "Theme '%s': ignoring unknown keys %v", file.Name, undecoded)
	}

	th := &Theme{Name: file.Name, IsDark: file.IsDark, Styles: make(map[string]tcell.Style)}

	base := tcell.StyleDefault
	if spec, ok := file.Styles[defaultScope]; ok {
		if s, err := spec.apply(tcell.StyleDefault); err != nil {
			logger.WarnTagf("theme", "Theme '%s': bad Default style, using terminal defaults: %v", th.Name, err)
		} else {
			base = s
		}
	}
	th.Styles[defaultScope] = base

	for _, scope := range sortedKeys(file.Regions) {
		c, err := parseColorString(file.Regions[scope])
		if err != nil {
			logger.WarnTagf("theme", "Theme '%s': region '%s' skipped: %v", th.Name, scope, err)
			continue
		}
		th.Styles[scope] = base.Foreground(c)
	}
	// Full style entries win over the [regions] shorthand.
	for _, scope := range sortedKeys(file.Styles) {
		if scope == defaultScope {
			continue
		}
		s, err := file.Styles[scope].apply(base)
		if err != nil {
			logger.WarnTagf("theme", "Theme '%s': style '%s' skipped: %v", th.Name, scope, err)
			continue
		}
		th.Styles[scope] = s
	}
	return th, nil
}

// apply layers the set fields of spec over style.
func (spec styleSpec) apply(style tcell.Style) (tcell.Style, error) {
	if spec.Fg != nil {
		c, err := parseColorString(*spec.Fg)
		if err != nil {
			return style, fmt.Errorf("fg: %w", err)
		}
		style = style.Foreground(c)
	}
	if spec.Bg != nil {
		c, err := parseColorString(*spec.Bg)
		if err != nil {
			return style, fmt.Errorf("bg: %w", err)
		}
		style = style.Background(c)
	}

	attrs := []struct {
		set *bool
		fn  func(tcell.Style, bool) tcell.Style
	}{
		{spec.Bold, tcell.Style.Bold},
		{spec.Italic, tcell.Style.Italic},
		{spec.Underline, func(s tcell.Style, on bool) tcell.Style { return s.Underline(on) }},
		{spec.Reverse, tcell.Style.Reverse},
		{spec.Dim, tcell.Style.Dim},
		{spec.Strikethrough, tcell.Style.StrikeThrough},
	}
	for _, a := range attrs {
		if a.set != nil {
			style = a.fn(style, *a.set)
		}
	}
	return style, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// parseColorString accepts "#rrggbb", "#rgb", "reset", "default" and the
// colour names tcell knows.
func parseColorString(s string) (tcell.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "reset":
		return tcell.ColorReset, nil
	case "default", "":
		return tcell.ColorDefault, nil
	}
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return tcell.ColorDefault, fmt.Errorf("invalid hex colour '%s', want #rrggbb or #rgb", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return tcell.ColorDefault, fmt.Errorf("invalid hex colour '%s': %w", s, err)
		}
		return tcell.NewHexColor(int32(v)), nil
	}
	if c, ok := tcell.ColorNames[s]; ok {
		return c, nil
	}
	return tcell.ColorDefault, fmt.Errorf("unknown colour '%s'", s)
}
