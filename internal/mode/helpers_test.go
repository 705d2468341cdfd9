package mode

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dshills/stagecraft/internal/event"
)

// probe is a minor mode that records every hook call.
type probe struct {
	MinorBase
	name string

	hoverBid int
	dragBid  int

	activations   int
	deactivations int
	updates       int
	renders       int
	uis           int
	menus         int
	toolbars      int
	hovered       []Interaction
	dragged       []Interaction
}

func newProbe(name string) *probe {
	return &probe{name: name, hoverBid: NoBid, dragBid: NoBid}
}

func (p *probe) Name() string                     { return p.name }
func (p *probe) OnActivate()                      { p.activations++ }
func (p *probe) OnDeactivate()                    { p.deactivations++ }
func (p *probe) Update()                          { p.updates++ }
func (p *probe) Render(Interaction)               { p.renders++ }
func (p *probe) RunUI(Interaction)                { p.uis++ }
func (p *probe) Menu()                            { p.menus++ }
func (p *probe) ToolBar()                         { p.toolbars++ }
func (p *probe) ViewportHoverBid(Interaction) int { return p.hoverBid }
func (p *probe) ViewportHovering(vi Interaction)  { p.hovered = append(p.hovered, vi) }
func (p *probe) ViewportDragBid(Interaction) int  { return p.dragBid }
func (p *probe) ViewportDragging(vi Interaction)  { p.dragged = append(p.dragged, vi) }

// workspace is a configurable major mode that records hook calls.
type workspace struct {
	MajorBase
	name      string
	requires  []string
	exclusive bool

	activations   int
	deactivations int
	updates       int
}

func (w *workspace) Name() string            { return w.name }
func (w *workspace) RequiredModes() []string { return w.requires }
func (w *workspace) Exclusive() bool         { return w.exclusive }
func (w *workspace) OnActivate()             { w.activations++ }
func (w *workspace) OnDeactivate()           { w.deactivations++ }
func (w *workspace) Update()                 { w.updates++ }

// fixture bundles a manager with the probes it hands out.
type fixture struct {
	*Manager
	probes map[string]*probe
	majors map[string]*workspace
	logs   *observer.ObservedLogs
	events []event.Event
}

func newFixture(t *testing.T, minors ...string) *fixture {
	t.Helper()

	core, logs := observer.New(zap.DebugLevel)
	bus := event.NewBus()
	f := &fixture{
		probes: make(map[string]*probe),
		majors: make(map[string]*workspace),
		logs:   logs,
	}
	bus.Subscribe("**", func(e event.Event) { f.events = append(f.events, e) })
	f.Manager = NewManager(WithLogger(zap.New(core)), WithPublisher(bus))

	for _, name := range minors {
		p := newProbe(name)
		f.probes[name] = p
		require.NoError(t, f.RegisterMinorMode(name, func() MinorMode { return p }))
	}
	return f
}

func (f *fixture) major(t *testing.T, name string, exclusive bool, requires ...string) *workspace {
	t.Helper()
	w := &workspace{name: name, requires: requires, exclusive: exclusive}
	f.majors[name] = w
	require.NoError(t, f.RegisterMajorMode(name, func() MajorMode { return w }))
	return w
}

// switchTo requests a major mode and runs the cycle that applies it.
func (f *fixture) switchTo(t *testing.T, name string) {
	t.Helper()
	require.NoError(t, f.ActivateMajorMode(name))
	require.NoError(t, f.Update())
}

func (f *fixture) topics() []event.Topic {
	out := make([]event.Topic, len(f.events))
	for i, e := range f.events {
		out[i] = e.Topic
	}
	return out
}
