package app

import (
	"context"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/dshills/stagecraft/internal/config"
	"github.com/dshills/stagecraft/internal/engine/journal"
	"github.com/dshills/stagecraft/internal/event"
	"github.com/dshills/stagecraft/internal/mode"
	"github.com/dshills/stagecraft/internal/plugin/lua"
)

const eventSource = "app"

// Options configures an Engine. Zero fields get defaults.
type Options struct {
	// Config is the initial configuration.
	Config *config.Config

	// ConfigPath is watched for changes when Config.Watch is set.
	ConfigPath string

	Logger *zap.Logger

	// Level, if set, follows log_level on config reloads.
	Level *zap.AtomicLevel

	Bus     *event.Bus
	Metrics *Metrics
}

// FrameInput is the host's input snapshot for one frame.
type FrameInput struct {
	View mode.ViewDimensions

	// PointerX and PointerY are relative to the render window.
	PointerX, PointerY float32

	// Dragging reports whether the drag button is held.
	Dragging bool

	// Now is the frame's timestamp, used to derive DT.
	Now time.Time
}

// FrameResult reports which modes received the frame's gestures.
type FrameResult struct {
	Hovered mode.MinorMode
	Dragged mode.MinorMode
}

type reload struct {
	cfg *config.Config
	err error
}

// Engine drives a mode.Manager one frame at a time and keeps it in sync
// with configuration. Frame, Start and Close must be called from the same
// goroutine; only the config watcher runs elsewhere.
type Engine struct {
	cfg        *config.Config
	configPath string
	logger     *zap.Logger
	level      *zap.AtomicLevel
	bus        *event.Bus
	metrics    *Metrics
	manager    *mode.Manager
	watcher    *config.Watcher

	reloads chan reload
	unsubs  []func()

	scripts map[string]bool
	live    []*lua.ScriptMode

	wasDragging bool
	dragIgnored bool
	lastNow     time.Time

	started bool
	closed  bool
}

// New creates an engine, declares the configured major modes and
// registers the configured script modes. Host modes should be registered
// on Manager before Start.
func New(opts Options) (*Engine, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Bus == nil {
		opts.Bus = event.NewBus()
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}

	e := &Engine{
		cfg:        opts.Config.Clone(),
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		level:      opts.Level,
		bus:        opts.Bus,
		metrics:    opts.Metrics,
		reloads:    make(chan reload, 1),
		scripts:    make(map[string]bool),
	}
	e.manager = mode.NewManager(
		mode.WithLogger(opts.Logger.Named("mode")),
		mode.WithPublisher(opts.Bus),
	)
	e.unsubs = append(e.unsubs, e.metrics.Subscribe(opts.Bus))

	if err := e.applyConfig(e.cfg); err != nil {
		return nil, err
	}
	return e, nil
}

// Manager returns the engine's mode manager.
func (e *Engine) Manager() *mode.Manager { return e.manager }

// Bus returns the event bus.
func (e *Engine) Bus() *event.Bus { return e.bus }

// Metrics returns the engine's metrics.
func (e *Engine) Metrics() *Metrics { return e.metrics }

// Config returns the configuration currently in effect.
func (e *Engine) Config() *config.Config { return e.cfg }

// Enqueue schedules a transaction for the next frame. It is safe to call
// from any goroutine.
func (e *Engine) Enqueue(t journal.Transaction) { e.manager.Enqueue(t) }

// Start installs the manager as canonical, requests the configured default
// major mode and starts the config watcher when enabled.
func (e *Engine) Start(ctx context.Context) error {
	if e.closed {
		return ErrClosed
	}
	if e.started {
		return ErrAlreadyStarted
	}
	e.started = true

	mode.SetCanonical(e.manager)
	e.requestDefaultMajor()

	if e.cfg.Watch && e.configPath != "" {
		w, err := config.NewWatcher(e.configPath, e.queueReload,
			config.WithWatchLogger(e.logger.Named("config")))
		if err != nil {
			return &OperationError{Op: "watch", Target: e.configPath, Err: err}
		}
		if err := w.Start(ctx); err != nil {
			_ = w.Stop()
			return &OperationError{Op: "watch", Target: e.configPath, Err: err}
		}
		e.watcher = w
	}
	return nil
}

func (e *Engine) requestDefaultMajor() {
	name := e.cfg.DefaultMajorMode
	if name == "" {
		return
	}
	if err := e.manager.ActivateMajorMode(name); err != nil {
		e.logger.Warn("default major mode unavailable", zap.String("mode", name), zap.Error(err))
	}
}

// Frame runs one frame: the manager update cycle, menus and tool bars,
// mode UIs, gesture arbitration, then rendering. The returned error is
// the first transaction failure of the frame, if any; the frame still
// completes.
func (e *Engine) Frame(in FrameInput) (FrameResult, error) {
	var res FrameResult
	if e.closed {
		return res, ErrClosed
	}
	timer := StartTimer()

	e.applyPendingReload()

	var dt float32
	if !e.lastNow.IsZero() && in.Now.After(e.lastNow) {
		dt = float32(in.Now.Sub(e.lastNow).Seconds())
	}
	e.lastNow = in.Now

	err := e.manager.Update()

	e.manager.RunMainMenu()
	e.manager.RunToolBar()

	vi := mode.Interaction{View: in.View, X: in.PointerX, Y: in.PointerY, DT: dt}
	e.manager.RunModeUIs(vi)

	res = e.arbitrate(vi, in.Dragging)

	e.manager.RunModeRendering(vi)
	e.metrics.RecordFrame(timer.Elapsed())
	return res, err
}

// arbitrate routes the pointer to the drag or hover bidders. A drag is
// owned from the frame it starts inside the window until the frame after
// the button is released, which is delivered with End set.
func (e *Engine) arbitrate(vi mode.Interaction, dragging bool) FrameResult {
	var res FrameResult
	inView := vi.View.Contains(vi.X, vi.Y)

	switch {
	case e.wasDragging:
		vi.End = !dragging
		res.Dragged = e.manager.RunViewportDragging(vi)
		e.wasDragging = dragging

	case dragging && (e.dragIgnored || !inView):
		// Pressed outside the window; ignore until released.
		e.dragIgnored = true

	case dragging:
		vi.Start = true
		res.Dragged = e.manager.RunViewportDragging(vi)
		e.wasDragging = true

	case inView:
		e.dragIgnored = false
		res.Hovered = e.manager.RunViewportHovering(vi)

	default:
		e.dragIgnored = false
	}

	if res.Dragged != nil {
		e.metrics.RecordDragWin()
	}
	if res.Hovered != nil {
		e.metrics.RecordHoverWin()
	}
	return res
}

// queueReload hands a reload to the frame goroutine, replacing one that
// has not been applied yet.
func (e *Engine) queueReload(cfg *config.Config, err error) {
	r := reload{cfg: cfg, err: err}
	for {
		select {
		case e.reloads <- r:
			return
		default:
		}
		select {
		case <-e.reloads:
		default:
		}
	}
}

func (e *Engine) applyPendingReload() {
	select {
	case r := <-e.reloads:
		if r.err != nil {
			e.logger.Warn("ignoring invalid configuration", zap.Error(r.err))
			return
		}
		if err := e.applyConfig(r.cfg); err != nil {
			e.logger.Error("applying reloaded configuration", zap.Error(err))
			return
		}
		e.cfg = r.cfg
		e.bus.Publish(event.TopicConfigReloaded, eventSource, e.configPath)
	default:
	}
}

// applyConfig declares major modes, registers new script modes and sets
// the log level. Scripts already registered keep their loaded source.
func (e *Engine) applyConfig(cfg *config.Config) error {
	var errs error

	if e.level != nil {
		e.level.SetLevel(ParseLogLevel(cfg.LogLevel).Zap())
	}

	for _, s := range cfg.Scripts {
		if err := e.registerScript(s); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	for _, mm := range cfg.MajorModes {
		spec := mode.Spec{Name: mm.Name, Requires: mm.Requires, Exclusive: mm.IsExclusive()}
		if err := e.manager.Declare(spec); err != nil {
			errs = multierr.Append(errs, &OperationError{Op: "declare", Target: mm.Name, Err: err})
		}
	}
	return errs
}

func (e *Engine) registerScript(s config.ScriptConfig) error {
	if e.scripts[s.Name] {
		return nil
	}

	logger := e.logger.Named("script")
	load := lua.Factory(s.Name, s.Path, lua.LogLoadError(logger),
		lua.WithScriptLogger(logger),
		lua.WithEnqueue(e.manager.Enqueue))

	factory := func() mode.MinorMode {
		mm := load()
		if sm, ok := mm.(*lua.ScriptMode); ok {
			e.live = append(e.live, sm)
		}
		return mm
	}

	if err := e.manager.RegisterMinorMode(s.Name, factory); err != nil {
		return &OperationError{Op: "register-script", Target: s.Name, Err: err}
	}
	e.scripts[s.Name] = true
	return nil
}

// Close stops the watcher, releases script states and uninstalls the
// canonical manager. Later calls return nil.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	var errs error
	if e.watcher != nil {
		errs = multierr.Append(errs, e.watcher.Stop())
	}
	for _, u := range e.unsubs {
		u()
	}

	for _, sm := range e.live {
		errs = multierr.Append(errs, sm.Close())
	}
	e.live = nil

	if mode.Canonical() == e.manager {
		mode.SetCanonical(nil)
	}
	return errs
}
