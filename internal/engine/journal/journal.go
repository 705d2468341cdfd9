package journal

// NodeID addresses a node in the journal arena.
type NodeID int32

const (
	// NoNode is the null handle.
	NoNode NodeID = -1

	// Root is the handle of the sentinel "Session start" node.
	Root NodeID = 0
)

// RootMessage labels the sentinel root transaction.
const RootMessage = "Session start"

// node is an arena slot. next and sibling own their subtrees; parent does
// not.
type node struct {
	tx      Transaction
	next    NodeID
	sibling NodeID
	parent  NodeID
	live    bool
}

// Journal is a branching history of applied transactions.
// A Journal is not safe for concurrent use; it belongs to the update
// goroutine.
type Journal struct {
	nodes  []node
	free   []NodeID
	live   int
	cursor NodeID
}

// New creates a journal containing only the root node.
func New() *Journal {
	j := &Journal{
		nodes: make([]node, 0, 64),
	}
	root := Transaction{
		Message: RootMessage,
		Exec:    noop,
		Undo:    func() error { return ErrUndoRoot },
	}
	j.cursor = j.alloc(root, NoNode)
	return j
}

// alloc places tx in a free slot and returns its handle.
func (j *Journal) alloc(tx Transaction, parent NodeID) NodeID {
	n := node{
		tx:      tx,
		next:    NoNode,
		sibling: NoNode,
		parent:  parent,
		live:    true,
	}
	j.live++

	if k := len(j.free); k > 0 {
		id := j.free[k-1]
		j.free = j.free[:k-1]
		j.nodes[id] = n
		return id
	}
	j.nodes = append(j.nodes, n)
	return NodeID(len(j.nodes) - 1)
}

// release returns a single slot to the free list.
func (j *Journal) release(id NodeID) {
	j.nodes[id] = node{next: NoNode, sibling: NoNode, parent: NoNode}
	j.free = append(j.free, id)
	j.live--
}

// freeSubtree releases id together with everything reachable from it
// through next and sibling links. It reports whether the cursor was freed.
func (j *Journal) freeSubtree(id NodeID) bool {
	if id == NoNode {
		return false
	}
	cursorFreed := false
	stack := []NodeID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := j.nodes[cur]
		if n.next != NoNode {
			stack = append(stack, n.next)
		}
		if n.sibling != NoNode {
			stack = append(stack, n.sibling)
		}
		if cur == j.cursor {
			cursorFreed = true
		}
		j.release(cur)
	}
	return cursorFreed
}

// valid reports whether id names a live node.
func (j *Journal) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(j.nodes) && j.nodes[id].live
}

// Cursor returns the handle of the current node.
func (j *Journal) Cursor() NodeID {
	return j.cursor
}

// Current returns the transaction at the cursor.
func (j *Journal) Current() Transaction {
	return j.nodes[j.cursor].tx
}

// Len returns the number of live nodes, including the root.
func (j *Journal) Len() int {
	return j.live
}

// Append records t after the cursor.
//
// Any existing continuation of the cursor is discarded first. If t carries
// the same identity as the cursor's transaction, t replaces it in place;
// otherwise a new node becomes the cursor.
func (j *Journal) Append(t Transaction) {
	cur := &j.nodes[j.cursor]
	if cur.next != NoNode {
		next := cur.next
		cur.next = NoNode
		j.freeSubtree(next)
		cur = &j.nodes[j.cursor]
	}

	if t.coalescesWith(cur.tx) {
		cur.tx = t
		return
	}

	id := j.alloc(t, j.cursor)
	// alloc may have grown the arena; re-resolve the cursor slot.
	j.nodes[j.cursor].next = id
	j.cursor = id
}

// Fork records t as an alternate of the cursor node.
// The new node is appended to the end of the cursor's sibling list, shares
// the cursor's parent, and becomes the cursor.
func (j *Journal) Fork(t Transaction) error {
	if j.cursor == Root {
		return ErrForkRoot
	}

	last := j.cursor
	for j.nodes[last].sibling != NoNode {
		last = j.nodes[last].sibling
	}

	id := j.alloc(t, j.nodes[j.cursor].parent)
	j.nodes[last].sibling = id
	j.cursor = id
	return nil
}

// Truncate discards everything reachable from id through its next and
// sibling links. The node itself is kept. If the cursor was discarded it
// moves to id.
func (j *Journal) Truncate(id NodeID) error {
	if !j.valid(id) {
		return ErrUnknownNode
	}
	j.truncate(id)
	return nil
}

func (j *Journal) truncate(id NodeID) {
	n := &j.nodes[id]
	next, sibling := n.next, n.sibling
	n.next = NoNode
	n.sibling = NoNode

	freed := j.freeSubtree(next)
	if j.freeSubtree(sibling) {
		freed = true
	}
	if freed {
		j.cursor = id
	}
}

// Remove detaches id from the journal and returns its transaction.
//
// Everything reachable from id is discarded, id is unlinked from its
// parent's continuation list, and the slot is freed. If the cursor was at
// or below id it moves to id's parent.
func (j *Journal) Remove(id NodeID) (Transaction, error) {
	if id == Root {
		return Transaction{}, ErrRemoveRoot
	}
	if !j.valid(id) {
		return Transaction{}, ErrUnknownNode
	}

	j.truncate(id)

	parent := j.nodes[id].parent
	if parent != NoNode {
		p := &j.nodes[parent]
		if p.next == id {
			p.next = j.nodes[id].sibling
		} else {
			for prev := p.next; prev != NoNode; prev = j.nodes[prev].sibling {
				if j.nodes[prev].sibling == id {
					j.nodes[prev].sibling = j.nodes[id].sibling
					break
				}
			}
		}
	}

	if j.cursor == id {
		j.cursor = parent
	}

	tx := j.nodes[id].tx
	j.release(id)
	return tx, nil
}

// Validate checks that a traversal of the tree finds exactly as many nodes
// as the live counter records.
func (j *Journal) Validate() error {
	counted := 0
	stack := []NodeID{Root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !j.valid(cur) {
			return &ConsistencyError{Counted: -1, Live: j.live}
		}

		counted++
		if counted > len(j.nodes) {
			// More visits than slots means a cycle.
			return &ConsistencyError{Counted: counted, Live: j.live}
		}

		n := j.nodes[cur]
		if n.next != NoNode {
			stack = append(stack, n.next)
		}
		if n.sibling != NoNode {
			stack = append(stack, n.sibling)
		}
	}

	if counted != j.live {
		return &ConsistencyError{Counted: counted, Live: j.live}
	}
	return nil
}
