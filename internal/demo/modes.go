package demo

import (
	"slices"

	"go.uber.org/multierr"

	"github.com/dshills/stagecraft/internal/engine/journal"
	"github.com/dshills/stagecraft/internal/mode"
)

// Mode names registered by Register.
const (
	GridName      = "Grid"
	CrosshairName = "Crosshair"
	PointsName    = "Points"
	SketchName    = "Sketch"
	InspectName   = "Inspect"
)

// Bids used by the demo modes.
const (
	crosshairHoverBid = 0
	pointHoverBid     = 1
	pointDragBid      = 2
)

// DefaultGridSpacing is the distance between grid dots, in cells.
const DefaultGridSpacing = 4

// Majors returns the demo's built-in major modes.
func Majors() []mode.Spec {
	return []mode.Spec{
		{Name: SketchName, Requires: []string{GridName, PointsName}, Exclusive: true},
		{Name: InspectName, Requires: []string{GridName, CrosshairName}, Exclusive: false},
	}
}

// Register registers the demo minor modes on m and declares the built-in
// major modes that configuration has not already declared.
func Register(m *mode.Manager, canvas *Canvas, scene *Scene) error {
	err := multierr.Combine(
		mode.RegisterMinor(m, GridName, func() *Grid { return NewGrid(canvas, DefaultGridSpacing) }),
		mode.RegisterMinor(m, CrosshairName, func() *Crosshair { return NewCrosshair(canvas) }),
		mode.RegisterMinor(m, PointsName, func() *Points { return NewPoints(canvas, scene, m.Enqueue) }),
	)

	declared := m.MajorModeNames()
	for _, spec := range Majors() {
		if slices.Contains(declared, spec.Name) {
			continue
		}
		err = multierr.Append(err, m.Declare(spec))
	}
	return err
}

func origin(vi mode.Interaction) (int, int) {
	return int(vi.View.WindowX), int(vi.View.WindowY)
}

// Grid draws a dot lattice over the render window.
type Grid struct {
	mode.MinorBase
	canvas  *Canvas
	spacing int
}

// NewGrid creates a grid with the given dot spacing.
func NewGrid(canvas *Canvas, spacing int) *Grid {
	if spacing < 1 {
		spacing = 1
	}
	return &Grid{canvas: canvas, spacing: spacing}
}

func (*Grid) Name() string { return GridName }

func (g *Grid) Render(vi mode.Interaction) {
	ox, oy := origin(vi)
	for y := 0; y < int(vi.View.WindowHeight); y += g.spacing {
		for x := 0; x < int(vi.View.WindowWidth); x += g.spacing {
			g.canvas.Set(ox+x, oy+y, '·', StyleGrid)
		}
	}
}

// Crosshair follows the pointer whenever no other mode claims the hover.
type Crosshair struct {
	mode.MinorBase
	canvas  *Canvas
	x, y    int
	visible bool
}

// NewCrosshair creates a crosshair.
func NewCrosshair(canvas *Canvas) *Crosshair {
	return &Crosshair{canvas: canvas}
}

func (*Crosshair) Name() string { return CrosshairName }

// Update hides the crosshair until it wins the next hover.
func (c *Crosshair) Update() { c.visible = false }

func (*Crosshair) ViewportHoverBid(mode.Interaction) int { return crosshairHoverBid }

func (c *Crosshair) ViewportHovering(vi mode.Interaction) {
	c.x, c.y = int(vi.X), int(vi.Y)
	c.visible = true
}

// Visible reports whether the crosshair won this frame's hover.
func (c *Crosshair) Visible() bool { return c.visible }

func (c *Crosshair) Render(vi mode.Interaction) {
	if !c.visible {
		return
	}
	ox, oy := origin(vi)
	for x := 0; x < int(vi.View.WindowWidth); x++ {
		c.canvas.Set(ox+x, oy+c.y, '─', StyleCrosshair)
	}
	for y := 0; y < int(vi.View.WindowHeight); y++ {
		c.canvas.Set(ox+c.x, oy+y, '│', StyleCrosshair)
	}
	c.canvas.Set(ox+c.x, oy+c.y, '┼', StyleCrosshair)
}

// Points places and drags scene points. Every edit is submitted as a
// transaction; the scene changes when the manager next drains its queue.
type Points struct {
	mode.MinorBase
	canvas  *Canvas
	scene   *Scene
	enqueue func(journal.Transaction)

	hover   int
	drag    int
	gesture int
	from    Point
	last    Point
}

// NewPoints creates the point editor. enqueue receives every edit.
func NewPoints(canvas *Canvas, scene *Scene, enqueue func(journal.Transaction)) *Points {
	return &Points{canvas: canvas, scene: scene, enqueue: enqueue, hover: -1, drag: -1}
}

func (*Points) Name() string { return PointsName }

func (p *Points) Update() { p.hover = -1 }

func (p *Points) OnDeactivate() { p.drag = -1 }

func (p *Points) ViewportHoverBid(vi mode.Interaction) int {
	if p.scene.PointAt(int(vi.X), int(vi.Y)) < 0 {
		return mode.NoBid
	}
	return pointHoverBid
}

func (p *Points) ViewportHovering(vi mode.Interaction) {
	p.hover = p.scene.PointAt(int(vi.X), int(vi.Y))
}

func (*Points) ViewportDragBid(mode.Interaction) int { return pointDragBid }

// ViewportDragging picks up the point under the pointer, or adds one, on
// the first frame, then moves it for the rest of the gesture.
func (p *Points) ViewportDragging(vi mode.Interaction) {
	pos := Point{X: int(vi.X), Y: int(vi.Y)}

	if vi.Start {
		p.gesture++
		p.drag = p.scene.PointAt(pos.X, pos.Y)
		if p.drag < 0 {
			// Applied before any move queued behind it.
			p.drag = p.scene.Len()
			p.enqueue(p.scene.AddPoint(pos))
		}
		p.from, p.last = pos, pos
		return
	}
	if p.drag < 0 {
		return
	}
	if pos != p.last {
		p.enqueue(p.scene.MovePoint(p.drag, p.from, pos, p.gesture))
		p.last = pos
	}
	if vi.End {
		p.drag = -1
	}
}

func (p *Points) Render(vi mode.Interaction) {
	ox, oy := origin(vi)
	for i, pt := range p.scene.points {
		style := StylePoint
		if i == p.hover || i == p.drag {
			style = StyleHover
		}
		p.canvas.Set(ox+pt.X, oy+pt.Y, '●', style)
	}
}
