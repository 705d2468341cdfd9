package app

import (
	"errors"
	"fmt"
)

// Engine errors.
var (
	// ErrClosed is returned by an engine after Close.
	ErrClosed = errors.New("engine closed")

	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("engine already started")

	// ErrQuit signals that the host loop should exit normally.
	ErrQuit = errors.New("quit requested")
)

// OperationError represents an error that occurred during a specific
// engine operation.
type OperationError struct {
	Op     string // Operation name (e.g., "declare", "register-script")
	Target string // Target of the operation (e.g., mode name)
	Err    error
}

func (e *OperationError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
