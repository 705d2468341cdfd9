package mode

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Mode errors.
var (
	// ErrEmptyName is returned when registering a mode without a name.
	ErrEmptyName = errors.New("mode name is empty")

	// ErrDuplicateMode is returned when a name is registered twice in the
	// same table.
	ErrDuplicateMode = errors.New("mode already registered")

	// ErrUnknownMode is returned when a name resolves to no mode.
	ErrUnknownMode = errors.New("unknown mode")

	// ErrNotMinor is returned when a minor mode was expected.
	ErrNotMinor = errors.New("not a minor mode")

	// ErrNotMajor is returned when a major mode was expected.
	ErrNotMajor = errors.New("not a major mode")
)

// ApplyError reports a transaction whose Exec failed while draining the
// queue. The transaction was not recorded in the journal.
type ApplyError struct {
	ID      uuid.UUID
	Message string
	Err     error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("apply %q: %v", e.Message, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// ExecPanicError wraps a panic raised by a transaction's Exec.
type ExecPanicError struct {
	Value any
	Stack string
}

func (e *ExecPanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
