package demo

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/stagecraft/internal/engine/journal"
	"github.com/dshills/stagecraft/internal/mode"
)

var view = mode.ViewDimensions{Width: 20, Height: 10, WindowWidth: 20, WindowHeight: 9}

func newCanvas(t *testing.T) *Canvas {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(20, 10)
	t.Cleanup(s.Fini)
	return NewCanvas(s)
}

func newSketch(t *testing.T) (*mode.Manager, *Canvas, *Scene) {
	t.Helper()
	canvas := newCanvas(t)
	scene := &Scene{}
	m := mode.NewManager()
	require.NoError(t, Register(m, canvas, scene))
	require.NoError(t, m.ActivateMajorMode(SketchName))
	require.NoError(t, m.Update())
	require.Equal(t, SketchName, m.CurrentMajorName())
	return m, canvas, scene
}

func at(x, y float32) mode.Interaction {
	return mode.Interaction{View: view, X: x, Y: y}
}

func drag(t *testing.T, m *mode.Manager, path ...Point) {
	t.Helper()
	for i, p := range path {
		vi := at(float32(p.X), float32(p.Y))
		vi.Start = i == 0
		vi.End = i == len(path)-1
		require.NotNil(t, m.RunViewportDragging(vi))
		require.NoError(t, m.Update())
	}
}

func TestRegisterDeclaresMajors(t *testing.T) {
	m := mode.NewManager()
	require.NoError(t, m.Declare(mode.Spec{Name: InspectName, Requires: []string{GridName}}))
	require.NoError(t, Register(m, newCanvas(t), &Scene{}))

	assert.ElementsMatch(t, []string{mode.EmptyModeName, SketchName, InspectName}, m.MajorModeNames())
	assert.ElementsMatch(t, []string{GridName, CrosshairName, PointsName}, m.MinorModeNames())

	// The configured Inspect is kept.
	inspect, ok := mode.Find[mode.MajorMode](m, InspectName)
	require.True(t, ok)
	assert.Equal(t, []string{GridName}, inspect.RequiredModes())
}

func TestSketchActivatesRequiredModes(t *testing.T) {
	m, _, _ := newSketch(t)
	assert.ElementsMatch(t, []string{GridName, PointsName}, m.ActiveMinorModes())
}

func TestDragAddsAndMovesPoint(t *testing.T) {
	m, _, scene := newSketch(t)

	drag(t, m, Point{3, 4}, Point{4, 4}, Point{5, 6})
	assert.Equal(t, []Point{{5, 6}}, scene.Points())

	j := m.Journal()
	// Root, the add and the coalesced moves.
	assert.Equal(t, 3, j.Len())
	assert.Equal(t, []string{journal.RootMessage, "Add point (3, 4)", "Move point 0 to (5, 6)"}, j.Path())

	require.NoError(t, j.Undo())
	assert.Equal(t, []Point{{3, 4}}, scene.Points())
	require.NoError(t, j.Undo())
	assert.Empty(t, scene.Points())

	require.NoError(t, j.Redo())
	require.NoError(t, j.Redo())
	assert.Equal(t, []Point{{5, 6}}, scene.Points())
}

func TestDragExistingPoint(t *testing.T) {
	m, _, scene := newSketch(t)
	drag(t, m, Point{3, 4})
	drag(t, m, Point{8, 1})
	require.Equal(t, []Point{{3, 4}, {8, 1}}, scene.Points())

	drag(t, m, Point{3, 4}, Point{2, 2})
	assert.Equal(t, []Point{{2, 2}, {8, 1}}, scene.Points())
	assert.Equal(t, 4, m.Journal().Len())

	require.NoError(t, m.Journal().Undo())
	assert.Equal(t, []Point{{3, 4}, {8, 1}}, scene.Points())
}

func TestSeparateDragsAreSeparateUndoSteps(t *testing.T) {
	m, _, scene := newSketch(t)
	j := m.Journal()

	drag(t, m, Point{0, 0})
	drag(t, m, Point{0, 0}, Point{5, 5})
	drag(t, m, Point{5, 5}, Point{9, 9})
	require.Equal(t, []Point{{9, 9}}, scene.Points())
	// Root, the add and one node per gesture.
	assert.Equal(t, 4, j.Len())

	require.NoError(t, j.Undo())
	assert.Equal(t, []Point{{5, 5}}, scene.Points())
	require.NoError(t, j.Undo())
	assert.Equal(t, []Point{{0, 0}}, scene.Points())

	require.NoError(t, j.Redo())
	require.NoError(t, j.Redo())
	assert.Equal(t, []Point{{9, 9}}, scene.Points())

	require.NoError(t, j.Undo())
	require.NoError(t, j.Undo())
	assert.Equal(t, []Point{{0, 0}}, scene.Points())
	require.NoError(t, j.Undo())
	assert.Empty(t, scene.Points())
	require.NoError(t, j.Validate())
}

func TestMovesWithinGestureCoalesce(t *testing.T) {
	scene := &Scene{}
	j := journal.New()
	for _, tx := range []journal.Transaction{
		scene.AddPoint(Point{0, 0}),
		scene.MovePoint(0, Point{0, 0}, Point{1, 1}, 1),
		scene.MovePoint(0, Point{0, 0}, Point{2, 2}, 1),
		scene.MovePoint(0, Point{2, 2}, Point{3, 3}, 2),
	} {
		require.NoError(t, tx.Exec())
		j.Append(tx)
	}
	assert.Equal(t, 4, j.Len())

	require.NoError(t, j.Undo())
	assert.Equal(t, []Point{{2, 2}}, scene.Points())
	require.NoError(t, j.Undo())
	assert.Equal(t, []Point{{0, 0}}, scene.Points())
}

func TestPointsWinHoverOverCrosshair(t *testing.T) {
	canvas := newCanvas(t)
	scene := &Scene{}
	m := mode.NewManager()
	require.NoError(t, Register(m, canvas, scene))
	require.NoError(t, m.Declare(mode.Spec{Name: "Both", Requires: []string{PointsName, CrosshairName}}))
	require.NoError(t, m.ActivateMajorMode("Both"))
	require.NoError(t, m.Update())

	m.Enqueue(scene.AddPoint(Point{2, 2}))
	require.NoError(t, m.Update())

	winner := m.RunViewportHovering(at(2, 2))
	assert.Equal(t, PointsName, winner.Name())

	winner = m.RunViewportHovering(at(7, 7))
	assert.Equal(t, CrosshairName, winner.Name())
	cross, ok := mode.Find[*Crosshair](m, CrosshairName)
	require.True(t, ok)
	assert.True(t, cross.Visible())

	require.NoError(t, m.Update())
	assert.False(t, cross.Visible())
}

func TestRendering(t *testing.T) {
	m, canvas, scene := newSketch(t)
	m.Enqueue(scene.AddPoint(Point{5, 3}))
	require.NoError(t, m.Update())

	m.RunModeRendering(at(0, 0))
	assert.Equal(t, '·', canvas.At(0, 0))
	assert.Equal(t, '·', canvas.At(4, 4))
	assert.Equal(t, '●', canvas.At(5, 3))
	assert.NotEqual(t, '·', canvas.At(1, 0))
}

func TestCrosshairRendering(t *testing.T) {
	canvas := newCanvas(t)
	c := NewCrosshair(canvas)
	c.ViewportHovering(at(3, 2))
	c.Render(at(3, 2))

	assert.Equal(t, '┼', canvas.At(3, 2))
	assert.Equal(t, '─', canvas.At(0, 2))
	assert.Equal(t, '│', canvas.At(3, 8))
	// The status row is outside the window.
	assert.NotEqual(t, '│', canvas.At(3, 9))
}

func TestForkEdit(t *testing.T) {
	scene := &Scene{}
	j := journal.New()

	assert.ErrorIs(t, ForkEdit(j, scene.AddPoint(Point{1, 1})), journal.ErrForkRoot)

	a := scene.AddPoint(Point{1, 1})
	require.NoError(t, a.Exec())
	j.Append(a)

	require.NoError(t, ForkEdit(j, scene.AddPoint(Point{2, 2})))
	assert.Equal(t, []Point{{2, 2}}, scene.Points())
	assert.Len(t, j.Children(journal.Root), 2)

	require.NoError(t, j.Undo())
	assert.Empty(t, scene.Points())

	// Plain redo follows the first branch.
	require.NoError(t, j.Redo())
	assert.Equal(t, []Point{{1, 1}}, scene.Points())

	require.NoError(t, j.Undo())
	require.NoError(t, RedoLatestBranch(j))
	assert.Equal(t, []Point{{2, 2}}, scene.Points())

	assert.ErrorIs(t, RedoLatestBranch(j), journal.ErrNothingToRedo)
}

func TestMovePointMissing(t *testing.T) {
	scene := &Scene{}
	err := scene.MovePoint(3, Point{}, Point{1, 1}, 1).Exec()
	assert.Error(t, err)
}
