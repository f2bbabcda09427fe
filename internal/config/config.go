// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/gotoflash/internal/linter"
	"github.com/bethropolis/gotoflash/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger     logger.Config    `toml:"logger"`
	Flash      FlashConfig      `toml:"flash"`
	Highlights HighlightsConfig `toml:"highlights"`
	Editor     EditorConfig     `toml:"editor"`
}

// FlashConfig holds the settings of the goto-flash add-on.
type FlashConfig struct {
	JumpOutOfQuiet bool    `toml:"jump_out_of_quiet"`
	OnlyIfQuiet    bool    `toml:"only_if_quiet"`
	Duration       float64 `toml:"duration"` // seconds
	Scope          string  `toml:"scope"`
	Style          string  `toml:"style"`
	TouchMatch     string  `toml:"touch_match"`
}

// DurationValue converts the configured seconds into a time.Duration.
func (f FlashConfig) DurationValue() time.Duration {
	return time.Duration(f.Duration * float64(time.Second))
}

// HighlightsConfig mirrors the linter's own highlight settings.
type HighlightsConfig struct {
	StartHidden HiddenModes `toml:"start_hidden"`
	MarkStyle   string      `toml:"mark_style"`
}

// EditorConfig holds settings of the terminal demo host.
type EditorConfig struct {
	TabWidth  int    `toml:"tab_width"`
	LoadDelay string `toml:"load_delay"` // e.g. "150ms"; the view reports loading until it elapses
	ThemeFile string `toml:"theme_file"`
}

// LoadDelayValue parses LoadDelay, falling back to the default.
func (e EditorConfig) LoadDelayValue() time.Duration {
	d, err := time.ParseDuration(e.LoadDelay)
	if err != nil || d < 0 {
		return DefaultLoadDelay
	}
	return d
}

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.Config{
			LogLevel:    "info",
			LogFilePath: DefaultLogFileName,
		},
		Flash: FlashConfig{
			JumpOutOfQuiet: DefaultJumpOutOfQuiet,
			OnlyIfQuiet:    false,
			Duration:       DefaultDuration,
			Scope:          DefaultScope,
			Style:          DefaultStyle,
			TouchMatch:     TouchBegin,
		},
		Highlights: HighlightsConfig{
			MarkStyle: DefaultMarkStyle,
		},
		Editor: EditorConfig{
			TabWidth:  DefaultTabWidth,
			LoadDelay: DefaultLoadDelay.String(),
		},
	}
}

// DefaultPath returns the per-user config file location, or "" when unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// loadFromFile decodes filePath over cfg. Keys absent from the file keep
// their current values. A missing file is not an error.
func loadFromFile(cfg *Config, filePath string) error {
	_, err := os.Stat(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.WarnTagf("config", "Config file '%s': Unrecognized keys: %v", filePath, undecoded)
	}
	return nil
}

// Decode parses TOML text over the defaults and validates the result.
func Decode(data string) (*Config, error) {
	cfg := NewDefaultConfig()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.validate()
	return cfg, nil
}

// validate resets invalid values to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Flash.Duration <= 0 {
		c.Flash.Duration = defaults.Flash.Duration
	}
	if _, ok := linter.StyleFlags(c.Flash.Style); !ok {
		c.Flash.Style = defaults.Flash.Style
	}
	if c.Flash.Scope == "" {
		c.Flash.Scope = defaults.Flash.Scope
	}
	if c.Flash.TouchMatch != TouchBegin && c.Flash.TouchMatch != TouchContains {
		c.Flash.TouchMatch = defaults.Flash.TouchMatch
	}
	if _, ok := linter.StyleFlags(c.Highlights.MarkStyle); !ok {
		c.Highlights.MarkStyle = defaults.Highlights.MarkStyle
	}

	if c.Editor.TabWidth <= 0 {
		c.Editor.TabWidth = defaults.Editor.TabWidth
	}
	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
}

// Load builds the effective configuration: defaults, then the config file
// (configFilePath, or DefaultPath when empty), then flag overrides.
// A parse error is returned alongside a usable default-based config.
func Load(configFilePath string, flags *Flags) (*Config, error) {
	cfg := NewDefaultConfig()

	effectivePath := configFilePath
	if effectivePath == "" {
		effectivePath = DefaultPath()
	}

	var loadErr error
	if effectivePath != "" {
		if err := loadFromFile(cfg, effectivePath); err != nil {
			loadErr = err
			cfg = NewDefaultConfig()
		}
	}

	if flags != nil {
		flags.ApplyOverrides(cfg)
	}
	cfg.validate()
	return cfg, loadErr
}
