package journal

import (
	"github.com/google/uuid"
)

// NodeInfo is a read-only view of a journal node.
type NodeInfo struct {
	ID       NodeID
	Parent   NodeID
	Next     NodeID
	Sibling  NodeID
	Depth    int
	TxID     uuid.UUID
	Message  string
	Identity Identity
}

// Node returns a view of the node with the given handle.
func (j *Journal) Node(id NodeID) (NodeInfo, error) {
	if !j.valid(id) {
		return NodeInfo{}, ErrUnknownNode
	}
	return j.info(id, j.depth(id)), nil
}

func (j *Journal) info(id NodeID, depth int) NodeInfo {
	n := j.nodes[id]
	return NodeInfo{
		ID:       id,
		Parent:   n.parent,
		Next:     n.next,
		Sibling:  n.sibling,
		Depth:    depth,
		TxID:     n.tx.ID,
		Message:  n.tx.Message,
		Identity: n.tx.Identity,
	}
}

// depth counts parent links from id up to the root.
func (j *Journal) depth(id NodeID) int {
	d := 0
	for p := j.nodes[id].parent; p != NoNode; p = j.nodes[p].parent {
		d++
	}
	return d
}

// Height returns the distance from the root to the cursor.
func (j *Journal) Height() int {
	return j.depth(j.cursor)
}

// Children returns the continuations of id: its next node followed by that
// node's siblings.
func (j *Journal) Children(id NodeID) []NodeID {
	if !j.valid(id) {
		return nil
	}
	var out []NodeID
	for c := j.nodes[id].next; c != NoNode; c = j.nodes[c].sibling {
		out = append(out, c)
	}
	return out
}

// CanUndo reports whether the cursor is below the root.
func (j *Journal) CanUndo() bool {
	return j.cursor != Root
}

// CanRedo reports whether the cursor has a continuation.
func (j *Journal) CanRedo() bool {
	return j.nodes[j.cursor].next != NoNode
}

// Undo reverses the transaction at the cursor and moves the cursor to its
// parent. If the transaction's Undo fails the cursor does not move.
func (j *Journal) Undo() error {
	if j.cursor == Root {
		return ErrUndoRoot
	}
	n := j.nodes[j.cursor]
	if err := n.tx.Undo(); err != nil {
		return &UndoError{Message: n.tx.Message, Err: err}
	}
	j.cursor = n.parent
	return nil
}

// Redo re-applies the cursor's next transaction and moves onto it.
func (j *Journal) Redo() error {
	next := j.nodes[j.cursor].next
	if next == NoNode {
		return ErrNothingToRedo
	}
	return j.redoInto(next)
}

// RedoBranch re-applies a specific continuation of the cursor, selecting
// one of several forked alternates.
func (j *Journal) RedoBranch(id NodeID) error {
	if !j.valid(id) {
		return ErrUnknownNode
	}
	for c := j.nodes[j.cursor].next; c != NoNode; c = j.nodes[c].sibling {
		if c == id {
			return j.redoInto(id)
		}
	}
	return ErrNotChild
}

func (j *Journal) redoInto(id NodeID) error {
	tx := j.nodes[id].tx
	if tx.Exec != nil {
		if err := tx.Exec(); err != nil {
			return &RedoError{Message: tx.Message, Err: err}
		}
	}
	j.cursor = id
	return nil
}

// Walk visits every node in pre-order, following next before sibling.
// Walking stops early when fn returns false.
func (j *Journal) Walk(fn func(NodeInfo) bool) {
	type frame struct {
		id    NodeID
		depth int
	}
	stack := []frame{{id: Root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(j.info(f.id, f.depth)) {
			return
		}

		n := j.nodes[f.id]
		// Push sibling first so next is visited first.
		if n.sibling != NoNode {
			stack = append(stack, frame{id: n.sibling, depth: f.depth})
		}
		if n.next != NoNode {
			stack = append(stack, frame{id: n.next, depth: f.depth + 1})
		}
	}
}

// Path returns the messages from the root down to the cursor.
func (j *Journal) Path() []string {
	var rev []string
	for id := j.cursor; id != NoNode; id = j.nodes[id].parent {
		rev = append(rev, j.nodes[id].tx.Message)
	}
	out := make([]string, len(rev))
	for i := range rev {
		out[i] = rev[len(rev)-1-i]
	}
	return out
}
