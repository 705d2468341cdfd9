package journal

import (
	"github.com/google/uuid"
)

// Identity is a coalescing key. Two transactions with the same non-zero
// Identity edit the same attribute of the same target.
type Identity struct {
	Target    string
	Attribute string
}

// IsZero reports whether the identity is unset.
func (id Identity) IsZero() bool {
	return id.Target == "" && id.Attribute == ""
}

// String returns "target.attribute", or "" for the zero identity.
func (id Identity) String() string {
	if id.IsZero() {
		return ""
	}
	return id.Target + "." + id.Attribute
}

// Transaction is a reversible unit of work.
// Exec is run exactly once when the transaction is applied; Undo reverses
// the most recent Exec.
type Transaction struct {
	// ID uniquely identifies the transaction for logging and correlation.
	ID uuid.UUID

	// Message is the human-readable label.
	Message string

	// Exec applies the transaction.
	Exec func() error

	// Undo reverses Exec.
	Undo func() error

	// Identity is used to coalesce continuous edits. Optional.
	Identity Identity
}

// NewTransaction creates a transaction with a fresh ID.
func NewTransaction(message string, exec, undo func() error) Transaction {
	if undo == nil {
		undo = noop
	}
	return Transaction{
		ID:      uuid.New(),
		Message: message,
		Exec:    exec,
		Undo:    undo,
	}
}

// NewIrreversible creates a transaction whose undo does nothing.
func NewIrreversible(message string, exec func() error) Transaction {
	return NewTransaction(message, exec, noop)
}

// WithIdentity returns a copy of the transaction carrying the given
// coalescing identity.
func (t Transaction) WithIdentity(target, attribute string) Transaction {
	t.Identity = Identity{Target: target, Attribute: attribute}
	return t
}

// coalescesWith reports whether t should replace other in place.
func (t Transaction) coalescesWith(other Transaction) bool {
	return !t.Identity.IsZero() && t.Identity == other.Identity
}

func noop() error { return nil }
