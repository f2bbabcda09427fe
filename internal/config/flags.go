// internal/config/flags.go
package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/bethropolis/gotoflash/internal/logger"
)

// Flags holds values parsed from command-line flags.
// Pointers distinguish unset flags from zero values.
type Flags struct {
	fs *flag.FlagSet

	ConfigFilePath   *string
	Version          *bool
	LogLevel         *string
	LogFilePath      *string
	EnableTags       *string
	DisableTags      *string
	Duration         *float64
	OnlyIfQuiet      *bool
	NoJumpOutOfQuiet *bool
	StartHidden      *string
}

// DefineFlags sets up the command-line flags on fs.
func (f *Flags) DefineFlags(fs *flag.FlagSet) {
	f.fs = fs
	f.ConfigFilePath = fs.String("config", "", fmt.Sprintf("Path to TOML configuration file (default ~/.config/%s/%s)", AppName, DefaultConfigFileName))
	f.Version = fs.Bool("version", false, "Show version information and exit")
	f.LogLevel = fs.String("loglevel", "", "Log level (debug, info, warn, error) - Overrides config file")
	f.LogFilePath = fs.String("logfile", "", "Path to write log file (use '-' for stderr) - Overrides config file")
	f.EnableTags = fs.String("log-tags", "", "Comma-separated list of tags to enable - Overrides config file")
	f.DisableTags = fs.String("log-disable-tags", "", "Comma-separated list of tags to disable - Overrides config file")
	f.Duration = fs.Float64("duration", 0, "Flash duration in seconds - Overrides config file")
	f.OnlyIfQuiet = fs.Bool("only-if-quiet", false, "Only flash when the view's squiggles are hidden")
	f.NoJumpOutOfQuiet = fs.Bool("no-jump-out-of-quiet", false, "Do not reveal hidden squiggles on jump")
	f.StartHidden = fs.String("start-hidden", "", "Comma-separated modes hidden on new views (squiggles, phantoms)")
}

// ParseFlags defines the flags on fs, parses args and returns the remaining
// non-flag arguments (e.g. the file path).
func (f *Flags) ParseFlags(fs *flag.FlagSet, args []string) ([]string, error) {
	f.DefineFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return fs.Args(), nil
}

// ApplyOverrides updates cfg with the values of flags that were actually set.
func (f *Flags) ApplyOverrides(cfg *Config) {
	if f.fs == nil {
		return
	}
	f.fs.Visit(func(fl *flag.Flag) {
		logger.DebugTagf("config", "Applying flag override: %s", fl.Name)
		switch fl.Name {
		case "loglevel":
			if *f.LogLevel != "" {
				cfg.Logger.LogLevel = *f.LogLevel
			}
		case "logfile":
			cfg.Logger.LogFilePath = *f.LogFilePath
		case "log-tags":
			if tags := splitCommaList(*f.EnableTags); len(tags) > 0 {
				cfg.Logger.EnabledTags = tags
			}
		case "log-disable-tags":
			if tags := splitCommaList(*f.DisableTags); len(tags) > 0 {
				cfg.Logger.DisabledTags = tags
			}
		case "duration":
			if *f.Duration > 0 {
				cfg.Flash.Duration = *f.Duration
			}
		case "only-if-quiet":
			cfg.Flash.OnlyIfQuiet = *f.OnlyIfQuiet
		case "no-jump-out-of-quiet":
			cfg.Flash.JumpOutOfQuiet = !*f.NoJumpOutOfQuiet
		case "start-hidden":
			items := splitCommaList(*f.StartHidden)
			list := make([]interface{}, 0, len(items))
			for _, item := range items {
				list = append(list, item)
			}
			if err := cfg.Highlights.StartHidden.UnmarshalTOML(list); err != nil {
				logger.WarnTagf("config", "Ignoring -start-hidden: %v", err)
			}
		}
	})
}

// splitCommaList splits a comma separated list, dropping empty items.
func splitCommaList(list string) []string {
	if list == "" {
		return nil
	}
	items := strings.Split(list, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
