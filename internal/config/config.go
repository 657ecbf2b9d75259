// Package config holds the scorebook tool configuration.
//
// Values are layered: defaults from New, then an optional YAML file named
// by SCOREBOOK_CONFIG, then SCOREBOOK_ environment variables. Command-line
// flags are applied by the CLI on top of the loaded Config.
package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config contains tool configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Format selects command output: text or json.
	Format string `koanf:"format"`

	// RulesFile is the CUE rules file used when --rules is not given.
	RulesFile string `koanf:"rules_file"`

	// Checkpoints enables half-inning checkpoints during replay.
	Checkpoints bool `koanf:"checkpoints"`

	// Metrics prints replay counters after a replay.
	Metrics bool `koanf:"metrics"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:    "warn",
		Format:      FormatText,
		Checkpoints: true,
	}
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("%w: format must be text or json, got %q", ErrInvalidConfig, c.Format)
	}
	return nil
}

// Level returns the slog level for LogLevel. Unknown levels map to warn.
func (c *Config) Level() slog.Level {
	l, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return l
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, s)
}
