// Package journal provides the branching undo/redo history for stagecraft.
//
// The journal records every applied Transaction in a tree. Linear edits form
// a chain of "next" links; alternate histories hang off a node as a list of
// siblings. A sentinel root ("Session start") anchors the tree and can never
// be undone.
//
// # Storage
//
// Nodes live in an arena and are addressed by NodeID handles. The next and
// sibling handles own their subtrees; parent is a plain back reference.
// Freeing a subtree returns its slots to a free list, so no handle held by
// the journal can dangle:
//
//	root ─next─▶ A ─next─▶ B
//	             │
//	          sibling
//	             ▼
//	             A' ─next─▶ C
//
// # Appending
//
// Append discards any redo branch below the cursor before recording the new
// transaction. A transaction whose Identity equals the cursor's is merged
// into the cursor node instead of growing the tree, so a continuous drag
// collapses into one undo step:
//
//	j := journal.New()
//	j.Append(journal.NewTransaction("Move", exec, undo).WithIdentity("cube", "position"))
//
// # Forking
//
// Fork records an alternate of the cursor node without discarding the
// original branch. Repeated forks accumulate along the sibling list.
//
// # Consistency
//
// The journal counts live nodes as they are created and freed. Validate
// walks the tree and compares; a mismatch is a bug in the journal.
package journal
