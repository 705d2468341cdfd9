package journal

import (
	"errors"
	"fmt"
)

// Structural errors. Any of these indicates misuse of the journal or a bug
// in it; the tree is left unchanged.
var (
	// ErrUndoRoot is returned when undoing the session start.
	ErrUndoRoot = errors.New("cannot undo journal root")

	// ErrForkRoot is returned when forking while the cursor is at the root.
	ErrForkRoot = errors.New("cannot fork journal root")

	// ErrRemoveRoot is returned when removing the root node.
	ErrRemoveRoot = errors.New("cannot remove journal root")

	// ErrUnknownNode is returned for a handle that names no live node.
	ErrUnknownNode = errors.New("unknown journal node")

	// ErrNothingToRedo is returned when the cursor has no continuation.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrNotChild is returned by RedoBranch for a node that is not a
	// continuation of the cursor.
	ErrNotChild = errors.New("node is not a child of the cursor")
)

// ConsistencyError reports a mismatch between the live-node counter and a
// traversal of the tree.
type ConsistencyError struct {
	Counted int
	Live    int
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("journal inconsistent: traversal found %d nodes, counter says %d", e.Counted, e.Live)
}

// UndoError wraps a failure returned by a transaction's Undo.
type UndoError struct {
	Message string
	Err     error
}

func (e *UndoError) Error() string {
	return fmt.Sprintf("undo %q: %v", e.Message, e.Err)
}

func (e *UndoError) Unwrap() error {
	return e.Err
}

// RedoError wraps a failure returned by a transaction's Exec during redo.
type RedoError struct {
	Message string
	Err     error
}

func (e *RedoError) Error() string {
	return fmt.Sprintf("redo %q: %v", e.Message, e.Err)
}

func (e *RedoError) Unwrap() error {
	return e.Err
}
