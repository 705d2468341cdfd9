package lua

import (
	"go.uber.org/zap"

	"github.com/dshills/stagecraft/internal/mode"
)

// Factory returns a mode factory that loads the script at path when the
// manager first instantiates name. A script that fails to load yields an
// inert mode and the error is passed to onError, if set.
func Factory(name, path string, onError func(error), opts ...ScriptOption) mode.MinorFactory {
	return func() mode.MinorMode {
		m, err := LoadScript(name, path, opts...)
		if err == nil {
			return m
		}
		if onError != nil {
			onError(err)
		}
		return &brokenScript{name: name, err: err}
	}
}

// brokenScript stands in for a script that did not load.
type brokenScript struct {
	mode.MinorBase
	name string
	err  error
}

func (b *brokenScript) Name() string { return b.name }

// Err returns the load error.
func (b *brokenScript) Err() error { return b.err }

// LogLoadError returns an onError callback that logs through l.
func LogLoadError(l *zap.Logger) func(error) {
	return func(err error) {
		l.Error("script mode failed to load", zap.Error(err))
	}
}
