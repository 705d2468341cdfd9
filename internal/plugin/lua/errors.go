package lua

import (
	"errors"
	"fmt"
)

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrNotFunction is returned when calling a global that is not a
	// function.
	ErrNotFunction = errors.New("lua global is not a function")
)

// CallError wraps a failure raised while running a Lua function.
type CallError struct {
	Func string
	Err  error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("lua %s: %v", e.Func, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}
