package app

import (
	"sync/atomic"
	"time"

	"github.com/dshills/stagecraft/internal/event"
)

// Metrics tracks engine performance and activity counters.
type Metrics struct {
	// Frame timing
	frameCount   atomic.Uint64
	frameTotalNs atomic.Int64
	frameMinNs   atomic.Int64
	frameMaxNs   atomic.Int64
	lastFrameNs  atomic.Int64

	// Journal activity
	applied atomic.Uint64
	failed  atomic.Uint64

	// Gesture arbitration
	hoverWins atomic.Uint64
	dragWins  atomic.Uint64

	// Mode switches and reloads
	majorSwitches atomic.Uint64
	reloads       atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),
	}
	// Initialize min to max int64 so first frame will be smaller
	m.frameMinNs.Store(1<<63 - 1)
	return m
}

// RecordFrame records frame timing.
func (m *Metrics) RecordFrame(duration time.Duration) {
	ns := duration.Nanoseconds()

	m.frameCount.Add(1)
	m.frameTotalNs.Add(ns)
	m.lastFrameNs.Store(ns)

	for {
		old := m.frameMinNs.Load()
		if ns >= old || m.frameMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.frameMaxNs.Load()
		if ns <= old || m.frameMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordHoverWin counts a hover gesture delivered to a mode.
func (m *Metrics) RecordHoverWin() { m.hoverWins.Add(1) }

// RecordDragWin counts a drag frame delivered to a mode.
func (m *Metrics) RecordDragWin() { m.dragWins.Add(1) }

// Subscribe counts journal, mode and config events published on bus. The
// returned function removes the subscriptions.
func (m *Metrics) Subscribe(bus *event.Bus) func() {
	unsubs := []func(){
		bus.Subscribe(event.TopicTransactionApplied, func(event.Event) { m.applied.Add(1) }),
		bus.Subscribe(event.TopicTransactionFailed, func(event.Event) { m.failed.Add(1) }),
		bus.Subscribe(event.TopicMajorActivated, func(event.Event) { m.majorSwitches.Add(1) }),
		bus.Subscribe(event.TopicConfigReloaded, func(event.Event) { m.reloads.Add(1) }),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	frameCount := m.frameCount.Load()

	var avgFrameNs int64
	if frameCount > 0 {
		avgFrameNs = m.frameTotalNs.Load() / int64(frameCount)
	}

	minFrameNs := m.frameMinNs.Load()
	if minFrameNs == 1<<63-1 {
		minFrameNs = 0
	}

	return MetricsSnapshot{
		Uptime:              time.Since(m.startTime),
		FrameCount:          frameCount,
		AvgFrameTimeNs:      avgFrameNs,
		MinFrameTimeNs:      minFrameNs,
		MaxFrameTimeNs:      m.frameMaxNs.Load(),
		LastFrameNs:         m.lastFrameNs.Load(),
		TransactionsApplied: m.applied.Load(),
		TransactionsFailed:  m.failed.Load(),
		HoverWins:           m.hoverWins.Load(),
		DragWins:            m.dragWins.Load(),
		MajorSwitches:       m.majorSwitches.Load(),
		ConfigReloads:       m.reloads.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime              time.Duration
	FrameCount          uint64
	AvgFrameTimeNs      int64
	MinFrameTimeNs      int64
	MaxFrameTimeNs      int64
	LastFrameNs         int64
	TransactionsApplied uint64
	TransactionsFailed  uint64
	HoverWins           uint64
	DragWins            uint64
	MajorSwitches       uint64
	ConfigReloads       uint64
}

// AvgFPS returns the average frames per second.
func (s MetricsSnapshot) AvgFPS() float64 {
	if s.AvgFrameTimeNs == 0 {
		return 0
	}
	return 1e9 / float64(s.AvgFrameTimeNs)
}

// CurrentFPS returns the FPS based on last frame time.
func (s MetricsSnapshot) CurrentFPS() float64 {
	if s.LastFrameNs == 0 {
		return 0
	}
	return 1e9 / float64(s.LastFrameNs)
}

// Timer measures elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
