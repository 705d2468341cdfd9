package demo

import (
	"fmt"
	"slices"

	"github.com/dshills/stagecraft/internal/engine/journal"
)

// Point is a cell position in the render window.
type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Scene is the document the demo edits. It is only changed by the
// transactions it hands out, and only on the update goroutine.
type Scene struct {
	points []Point
}

// Points returns a copy of the scene's points.
func (s *Scene) Points() []Point {
	return slices.Clone(s.points)
}

// Len returns the number of points.
func (s *Scene) Len() int {
	return len(s.points)
}

// PointAt returns the index of the point at (x, y), or -1.
func (s *Scene) PointAt(x, y int) int {
	for i := len(s.points) - 1; i >= 0; i-- {
		if s.points[i] == (Point{x, y}) {
			return i
		}
	}
	return -1
}

// AddPoint returns a transaction that appends p.
func (s *Scene) AddPoint(p Point) journal.Transaction {
	var idx int
	return journal.NewTransaction("Add point "+p.String(),
		func() error {
			idx = len(s.points)
			s.points = append(s.points, p)
			return nil
		},
		func() error {
			if idx >= len(s.points) {
				return fmt.Errorf("point %d no longer exists", idx)
			}
			s.points = slices.Delete(s.points, idx, idx+1)
			return nil
		})
}

// MovePoint returns a transaction that moves point i from origin to to
// as part of drag gesture. Moves of the same point within one gesture
// coalesce in the journal, so undo returns the point to the gesture's
// origin; separate gestures stay separate undo steps.
func (s *Scene) MovePoint(i int, origin, to Point, gesture int) journal.Transaction {
	set := func(p Point) func() error {
		return func() error {
			if i < 0 || i >= len(s.points) {
				return fmt.Errorf("point %d does not exist", i)
			}
			s.points[i] = p
			return nil
		}
	}
	return journal.NewTransaction(fmt.Sprintf("Move point %d to %s", i, to), set(to), set(origin)).
		WithIdentity(fmt.Sprintf("point/%d", i), fmt.Sprintf("position#%d", gesture))
}

// ForkEdit records alt as an alternative to the journal's current edit:
// the current edit is reverted, alt is applied, and alt becomes a sibling
// branch. The journal's cursor must not be the root.
//
// ForkEdit edits the journal and scene directly instead of going through
// the manager's queue, so it must run on the goroutine that calls
// Manager.Update, between updates.
func ForkEdit(j *journal.Journal, alt journal.Transaction) error {
	if !j.CanUndo() {
		return journal.ErrForkRoot
	}
	if err := j.Current().Undo(); err != nil {
		return err
	}
	if err := alt.Exec(); err != nil {
		// Put the original edit back.
		if rerr := j.Current().Exec(); rerr != nil {
			return fmt.Errorf("%w (restore failed: %v)", err, rerr)
		}
		return err
	}
	return j.Fork(alt)
}

// RedoLatestBranch redoes into the most recently added child of the
// cursor. Like ForkEdit it must run on the update goroutine.
func RedoLatestBranch(j *journal.Journal) error {
	children := j.Children(j.Cursor())
	if len(children) == 0 {
		return journal.ErrNothingToRedo
	}
	return j.RedoBranch(children[len(children)-1])
}
