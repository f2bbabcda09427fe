package linter

import "github.com/bethropolis/gotoflash/internal/host"

const (
	underline = host.DrawNoFill | host.DrawNoOutline
)

// MarkStyles maps a named mark style to the draw flags it stands for.
var MarkStyles = map[string]host.DrawFlags{
	"outline":            host.DrawNoFill,
	"fill":               host.DrawNoOutline,
	"solid_underline":    host.DrawSolidUnderline | underline,
	"squiggly_underline": host.DrawSquigglyUnderline | underline,
	"stippled_underline": host.DrawStippledUnderline | underline,
	"none":               host.Hidden,
}

// StyleFlags looks up a mark style by name.
func StyleFlags(name string) (host.DrawFlags, bool) {
	flags, ok := MarkStyles[name]
	return flags, ok
}

// ScopeFor returns the default scope for an error type.
func ScopeFor(errorType string) string {
	switch errorType {
	case "warning":
		return "region.yellowish markup.warning"
	default:
		return "region.redish markup.error"
	}
}
