package config

import (
	"fmt"

	"github.com/bethropolis/gotoflash/internal/linter"
)

// HiddenModes is the start_hidden setting: either a bool or a list of mode names.
type HiddenModes struct {
	// Explicit is true when the setting was present.
	Explicit bool
	Modes    []linter.Mode
}

// UnmarshalTOML implements toml.Unmarshaler.
func (h *HiddenModes) UnmarshalTOML(v interface{}) error {
	h.Explicit = true
	switch val := v.(type) {
	case bool:
		if val {
			h.Modes = append([]linter.Mode(nil), linter.AllModes...)
		} else {
			h.Modes = nil
		}
		return nil
	case []interface{}:
		names := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("start_hidden: list items must be strings, got %T", item)
			}
			names = append(names, s)
		}
		h.Modes = linter.ParseModes(names)
		return nil
	default:
		return fmt.Errorf("start_hidden: expected bool or list of modes, got %T", v)
	}
}

// Contains reports whether mode is hidden by default.
func (h HiddenModes) Contains(mode linter.Mode) bool {
	for _, m := range h.Modes {
		if m == mode {
			return true
		}
	}
	return false
}

// Allows reports whether a jump may reveal mode. When nothing is configured
// either mode may be revealed; otherwise only the modes hidden by default.
func (h HiddenModes) Allows(mode linter.Mode) bool {
	if !h.Explicit || len(h.Modes) == 0 {
		return true
	}
	return h.Contains(mode)
}
