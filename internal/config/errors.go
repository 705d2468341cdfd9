package config

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned for a file extension other than .toml,
// .yaml or .yml.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// ParseError reports a file that could not be decoded.
type ParseError struct {
	// Path is the file that failed to parse.
	Path string
	// Err is the decoder's error.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError describes one invalid setting.
type ValidationError struct {
	// Path is the setting's location, e.g. "major_modes[1].name".
	Path string
	// Message describes the problem.
	Message string
	// Value is the offending value, if any.
	Value any
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
}

// EnvError reports an environment override that could not be applied.
type EnvError struct {
	Var   string
	Value string
	Err   error
}

func (e *EnvError) Error() string {
	return fmt.Sprintf("environment %s=%q: %v", e.Var, e.Value, e.Err)
}

func (e *EnvError) Unwrap() error {
	return e.Err
}
