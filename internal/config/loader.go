package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvLogLevel         = "STAGECRAFT_LOG_LEVEL"
	EnvDefaultMajorMode = "STAGECRAFT_DEFAULT_MAJOR_MODE"
	EnvFrameRate        = "STAGECRAFT_FRAME_RATE"
)

// Format is a configuration file encoding.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf returns the format implied by path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

// Load reads the configuration at path and applies environment overrides.
// An empty path, or a path that does not exist, yields the defaults.
// Relative script paths are resolved against the file's directory.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := Decode(cfg, format, bytes.NewReader(data)); err != nil {
		return &ParseError{Path: path, Err: err}
	}

	base := filepath.Dir(path)
	for i, s := range cfg.Scripts {
		if s.Path != "" && !filepath.IsAbs(s.Path) {
			cfg.Scripts[i].Path = filepath.Join(base, s.Path)
		}
	}
	return nil
}

// Decode reads r into cfg. Fields absent from the input keep their
// current values; unknown keys are an error.
func Decode(cfg *Config, format Format, r io.Reader) error {
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
}

// Encode writes cfg to w.
func Encode(cfg *Config, format Format, w io.Writer) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(cfg)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
}

// applyEnv overlays the environment onto cfg. Empty values are ignored.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvDefaultMajorMode); ok && v != "" {
		cfg.DefaultMajorMode = v
	}
	if v, ok := lookup(EnvFrameRate); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &EnvError{Var: EnvFrameRate, Value: v, Err: err}
		}
		cfg.FrameRate = n
	}
	return nil
}
