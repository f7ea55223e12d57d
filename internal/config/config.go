// Package config loads wbs settings from an optional YAML file and WBS_
// environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Config is the full wbs configuration.
type Config struct {
	DB      DBConfig      `koanf:"db"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
}

type DBConfig struct {
	Path string `koanf:"path"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // auto, text or json
}

// MetricsConfig controls the Prometheus textfile written at exit. An empty
// Textfile disables it.
type MetricsConfig struct {
	Textfile string `koanf:"textfile"`
}

const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatJSON = "json"
)

var validFormats = map[string]bool{FormatAuto: true, FormatText: true, FormatJSON: true}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if c.DB.Path == "" {
		return fmt.Errorf("db.path is required")
	}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("log.format: invalid value %q (expected auto, text or json)", c.Log.Format)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses Level as debug, info, warn or error.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: invalid value %q", l.Level)
	}
	return lvl, nil
}

// ResolveFormat picks the concrete handler format. Auto means text on a
// terminal and json otherwise.
func (l LogConfig) ResolveFormat(isTerminal bool) string {
	if l.Format != FormatAuto {
		return l.Format
	}
	if isTerminal {
		return FormatText
	}
	return FormatJSON
}
