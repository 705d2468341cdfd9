package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/stagecraft/internal/app"
	"github.com/dshills/stagecraft/internal/demo"
	"github.com/dshills/stagecraft/internal/mode"
)

// statusRows is the number of rows below the render window.
const statusRows = 1

const helpText = "u undo  r redo  f fork  b branch  1 2 0 modes  m crosshair  q quit"

// runHost builds the engine and terminal and runs until quit or signal.
func runHost(ctx context.Context, opts *rootOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	out, closeLog, err := opts.openLog()
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	level := zap.NewAtomicLevelAt(app.ParseLogLevel(cfg.LogLevel).Zap())
	logger := app.NewLogger(app.LoggerConfig{Level: level, Output: out})
	defer func() { _ = logger.Sync() }()

	engine, err := app.New(app.Options{
		Config:     cfg,
		ConfigPath: opts.configPath,
		Logger:     logger,
		Level:      &level,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Warn("engine close", zap.Error(err))
		}
	}()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)

	canvas := demo.NewCanvas(screen)
	scene := &demo.Scene{}
	h := newHost(engine, canvas, scene, logger)
	defer h.close()

	if err := demo.Register(engine.Manager(), canvas, scene); err != nil {
		return err
	}
	if err := engine.Start(ctx); err != nil {
		return err
	}
	if cfg.DefaultMajorMode == "" {
		if err := engine.Manager().ActivateMajorMode(demo.SketchName); err != nil {
			return err
		}
	}

	logger.Info("stagecraft started", zap.String("version", version))
	return h.run(ctx)
}

// host owns the terminal and feeds its input to the engine, one frame per
// tick. Keys and frames are handled on the same goroutine.
type host struct {
	engine *app.Engine
	canvas *demo.Canvas
	scene  *demo.Scene
	logger *zap.Logger

	px, py   int
	held     bool
	pressed  bool
	message  string
	finiOnce sync.Once
}

func newHost(engine *app.Engine, canvas *demo.Canvas, scene *demo.Scene, logger *zap.Logger) *host {
	return &host{engine: engine, canvas: canvas, scene: scene, logger: logger}
}

// close restores the terminal. Safe to call more than once.
func (h *host) close() {
	h.finiOnce.Do(h.canvas.Screen().Fini)
}

// run polls terminal events on one goroutine and runs frames on another.
func (h *host) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	events := make(chan tcell.Event, 64)
	screen := h.canvas.Screen()

	g.Go(func() error {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				// Screen finalized.
				return nil
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		defer h.close()
		return h.loop(ctx, events)
	})

	err := g.Wait()
	if errors.Is(err, app.ErrQuit) {
		return nil
	}
	return err
}

func frameInterval(rate int) time.Duration {
	return time.Second / time.Duration(max(rate, 1))
}

func (h *host) loop(ctx context.Context, events <-chan tcell.Event) error {
	rate := h.engine.Config().FrameRate
	ticker := time.NewTicker(frameInterval(rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if err := h.handle(ev); err != nil {
				return err
			}
		case now := <-ticker.C:
			if err := h.frame(now); err != nil {
				return err
			}
			// Follow frame_rate across reloads.
			if r := h.engine.Config().FrameRate; r != rate {
				rate = r
				ticker.Reset(frameInterval(rate))
			}
		}
	}
}

func (h *host) handle(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return h.key(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		x, y := ev.Position()
		h.mouse(x, y, ev.Buttons()&tcell.Button1 != 0)
	case *tcell.EventResize:
		h.canvas.Screen().Sync()
	}
	return nil
}

// mouse records pointer state for the next frame. A press is latched so a
// click shorter than a frame still starts a drag.
func (h *host) mouse(x, y int, down bool) {
	h.px, h.py = x, y
	h.held = down
	if down {
		h.pressed = true
	}
}

// key runs a command. Journal commands touch the journal directly, which
// is safe only because keys are handled on the frame goroutine.
func (h *host) key(k tcell.Key, r rune) error {
	switch k {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return app.ErrQuit
	case tcell.KeyRune:
	default:
		return nil
	}

	m := h.engine.Manager()
	j := m.Journal()

	var err error
	switch r {
	case 'q':
		return app.ErrQuit
	case 'u':
		err = j.Undo()
	case 'r':
		err = j.Redo()
	case 'b':
		err = demo.RedoLatestBranch(j)
	case 'f':
		err = demo.ForkEdit(j, h.scene.AddPoint(demo.Point{X: h.px, Y: h.py}))
	case '1':
		err = m.ActivateMajorMode(demo.SketchName)
	case '2':
		err = m.ActivateMajorMode(demo.InspectName)
	case '0':
		err = m.ActivateMajorMode(mode.EmptyModeName)
	case 'm':
		err = m.ToggleMinorMode(demo.CrosshairName)
	default:
		return nil
	}
	h.report(err)
	return nil
}

func (h *host) report(err error) {
	if err == nil {
		h.message = ""
		return
	}
	h.message = err.Error()
	h.logger.Warn("command failed", zap.Error(err))
}

// view is the full screen with the status rows carved off the bottom.
func (h *host) view() mode.ViewDimensions {
	w, ht := h.canvas.Size()
	return mode.ViewDimensions{
		Width:        float32(w),
		Height:       float32(ht),
		WindowWidth:  float32(w),
		WindowHeight: float32(max(ht-statusRows, 0)),
	}
}

func (h *host) frame(now time.Time) error {
	h.canvas.Clear()

	_, err := h.engine.Frame(app.FrameInput{
		View:     h.view(),
		PointerX: float32(h.px),
		PointerY: float32(h.py),
		Dragging: h.held || h.pressed,
		Now:      now,
	})
	h.pressed = false
	if errors.Is(err, app.ErrClosed) {
		return err
	}
	if err != nil {
		h.report(err)
	}

	h.drawStatus()
	h.canvas.Show()
	return nil
}

func (h *host) statusLine() string {
	m := h.engine.Manager()
	path := m.Journal().Path()

	var b strings.Builder
	fmt.Fprintf(&b, " [%s] %s | %s", m.CurrentMajorName(), strings.Join(m.ActiveMinorModes(), " "), path[len(path)-1])
	if h.message != "" {
		fmt.Fprintf(&b, " | %s", h.message)
	}
	return b.String()
}

func (h *host) drawStatus() {
	w, ht := h.canvas.Size()
	y := ht - statusRows
	if y < 0 {
		return
	}
	line := h.statusLine()
	h.canvas.FillRow(y, demo.StyleStatus)
	h.canvas.Text(0, y, line, demo.StyleStatus)
	if x := w - len(helpText) - 1; x > len([]rune(line))+2 {
		h.canvas.Text(x, y, helpText, demo.StyleStatus)
	}
}
