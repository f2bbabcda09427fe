package flash

import (
	"time"

	"github.com/bethropolis/gotoflash/internal/config"
)

// TouchMode selects how an error is matched against the jump offset.
type TouchMode int

const (
	// TouchBegin matches errors whose region begins exactly at the offset.
	TouchBegin TouchMode = iota
	// TouchContains matches errors whose region contains the offset, end inclusive.
	TouchContains
)

// Settings are the add-on's effective options.
type Settings struct {
	JumpOutOfQuiet bool
	OnlyIfQuiet    bool
	Duration       time.Duration
	Scope          string
	Style          string
	TouchMatch     TouchMode
	StartHidden    config.HiddenModes
}

// SettingsFromConfig extracts the add-on settings from the application config.
func SettingsFromConfig(cfg *config.Config) Settings {
	touch := TouchBegin
	if cfg.Flash.TouchMatch == config.TouchContains {
		touch = TouchContains
	}
	return Settings{
		JumpOutOfQuiet: cfg.Flash.JumpOutOfQuiet,
		OnlyIfQuiet:    cfg.Flash.OnlyIfQuiet,
		Duration:       cfg.Flash.DurationValue(),
		Scope:          cfg.Flash.Scope,
		Style:          cfg.Flash.Style,
		TouchMatch:     touch,
		StartHidden:    cfg.Highlights.StartHidden,
	}
}
