package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/multierr"
)

// Frame rate bounds.
const (
	DefaultFrameRate = 60
	MinFrameRate     = 1
	MaxFrameRate     = 240
)

// Config is the complete stagecraft configuration.
type Config struct {
	// LogLevel is the minimum level logged.
	LogLevel string `toml:"log_level" yaml:"log_level"`

	// DefaultMajorMode is requested once at startup. Empty means the
	// built-in fallback.
	DefaultMajorMode string `toml:"default_major_mode" yaml:"default_major_mode"`

	// FrameRate is the target frames per second.
	FrameRate int `toml:"frame_rate" yaml:"frame_rate"`

	// Watch enables live reload of the configuration file.
	Watch bool `toml:"watch" yaml:"watch"`

	MajorModes []MajorModeConfig `toml:"major_modes" yaml:"major_modes"`
	Scripts    []ScriptConfig    `toml:"scripts" yaml:"scripts"`
}

// MajorModeConfig declares a major mode.
type MajorModeConfig struct {
	Name     string   `toml:"name" yaml:"name"`
	Requires []string `toml:"requires" yaml:"requires"`

	// Exclusive defaults to true when unset.
	Exclusive *bool `toml:"exclusive" yaml:"exclusive"`
}

// IsExclusive reports the effective exclusive flag.
func (m MajorModeConfig) IsExclusive() bool {
	return m.Exclusive == nil || *m.Exclusive
}

// ScriptConfig names a Lua file implementing a minor mode.
type ScriptConfig struct {
	Name string `toml:"name" yaml:"name"`
	Path string `toml:"path" yaml:"path"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		FrameRate: DefaultFrameRate,
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.MajorModes = make([]MajorModeConfig, len(c.MajorModes))
	for i, m := range c.MajorModes {
		m.Requires = slices.Clone(m.Requires)
		if m.Exclusive != nil {
			v := *m.Exclusive
			m.Exclusive = &v
		}
		out.MajorModes[i] = m
	}
	out.Scripts = slices.Clone(c.Scripts)
	return &out
}

var logLevels = []string{"debug", "info", "warn", "warning", "error"}

// reservedModeName cannot be declared from configuration.
const reservedModeName = "Empty"

// Validate checks c and reports every problem found.
func (c *Config) Validate() error {
	var err error

	if !slices.Contains(logLevels, strings.ToLower(c.LogLevel)) {
		err = multierr.Append(err, &ValidationError{
			Path:    "log_level",
			Message: "must be one of " + strings.Join(logLevels, ", "),
			Value:   c.LogLevel,
		})
	}
	if c.FrameRate < MinFrameRate || c.FrameRate > MaxFrameRate {
		err = multierr.Append(err, &ValidationError{
			Path:    "frame_rate",
			Message: fmt.Sprintf("must be between %d and %d", MinFrameRate, MaxFrameRate),
			Value:   c.FrameRate,
		})
	}

	seen := make(map[string]bool)
	for i, m := range c.MajorModes {
		path := fmt.Sprintf("major_modes[%d]", i)
		switch {
		case m.Name == "":
			err = multierr.Append(err, &ValidationError{Path: path + ".name", Message: "is required"})
		case m.Name == reservedModeName:
			err = multierr.Append(err, &ValidationError{Path: path + ".name", Message: "is reserved", Value: m.Name})
		case seen[m.Name]:
			err = multierr.Append(err, &ValidationError{Path: path + ".name", Message: "is declared twice", Value: m.Name})
		}
		seen[m.Name] = true

		for j, r := range m.Requires {
			if r == "" {
				err = multierr.Append(err, &ValidationError{
					Path:    fmt.Sprintf("%s.requires[%d]", path, j),
					Message: "is empty",
				})
			}
		}
	}

	scripts := make(map[string]bool)
	for i, s := range c.Scripts {
		path := fmt.Sprintf("scripts[%d]", i)
		switch {
		case s.Name == "":
			err = multierr.Append(err, &ValidationError{Path: path + ".name", Message: "is required"})
		case scripts[s.Name]:
			err = multierr.Append(err, &ValidationError{Path: path + ".name", Message: "is declared twice", Value: s.Name})
		}
		scripts[s.Name] = true

		if filepath.Ext(s.Path) != ".lua" {
			err = multierr.Append(err, &ValidationError{Path: path + ".path", Message: "must be a .lua file", Value: s.Path})
		}
	}

	return err
}
