package lua

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/stagecraft/internal/engine/journal"
	"github.com/dshills/stagecraft/internal/mode"
)

// Hook globals a script may define.
const (
	HookActivate   = "on_activate"
	HookDeactivate = "on_deactivate"
	HookUpdate     = "update"
	HookRender     = "render"
	HookUI         = "ui"
	HookMenu       = "menu"
	HookToolBar    = "toolbar"
	HookHoverBid   = "hover_bid"
	HookHovering   = "hovering"
	HookDragBid    = "drag_bid"
	HookDragging   = "dragging"
)

// ScriptMode is a minor mode whose hooks are Lua functions.
type ScriptMode struct {
	mode.MinorBase

	name    string
	state   *State
	logger  *zap.Logger
	enqueue func(journal.Transaction)

	// failing holds hooks whose last call errored, so each failure is
	// logged once until the hook succeeds again.
	failing map[string]bool
}

// ScriptOption configures a ScriptMode.
type ScriptOption func(*scriptConfig)

type scriptConfig struct {
	logger  *zap.Logger
	enqueue func(journal.Transaction)
	state   []StateOption
}

// WithScriptLogger sets the mode's logger.
func WithScriptLogger(l *zap.Logger) ScriptOption {
	return func(c *scriptConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithEnqueue sets the function behind the Lua enqueue global, usually
// (*mode.Manager).Enqueue.
func WithEnqueue(fn func(journal.Transaction)) ScriptOption {
	return func(c *scriptConfig) {
		c.enqueue = fn
	}
}

// WithStateOptions passes options to the underlying State.
func WithStateOptions(opts ...StateOption) ScriptOption {
	return func(c *scriptConfig) {
		c.state = append(c.state, opts...)
	}
}

// LoadScript creates a minor mode from the Lua file at path.
func LoadScript(name, path string, opts ...ScriptOption) (*ScriptMode, error) {
	return newScriptMode(name, opts, func(s *State) error { return s.DoFile(path) })
}

// LoadScriptSource creates a minor mode from Lua source.
func LoadScriptSource(name, source string, opts ...ScriptOption) (*ScriptMode, error) {
	return newScriptMode(name, opts, func(s *State) error { return s.DoString(source) })
}

func newScriptMode(name string, opts []ScriptOption, load func(*State) error) (*ScriptMode, error) {
	cfg := scriptConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger.With(zap.String("mode", name))

	state, err := NewState(append([]StateOption{WithLogger(logger)}, cfg.state...)...)
	if err != nil {
		return nil, err
	}

	m := &ScriptMode{
		name:    name,
		state:   state,
		logger:  logger,
		enqueue: cfg.enqueue,
		failing: make(map[string]bool),
	}
	m.installHost()

	if err := load(state); err != nil {
		_ = state.Close()
		return nil, fmt.Errorf("loading script mode %q: %w", name, err)
	}
	return m, nil
}

// installHost exposes log and enqueue to the script.
func (m *ScriptMode) installHost() {
	m.state.RegisterFunc("log", func(L *lua.LState) int {
		m.logger.Info(L.CheckString(1))
		return 0
	})

	m.state.RegisterFunc("enqueue", func(L *lua.LState) int {
		message := L.CheckString(1)
		exec := L.OptFunction(2, nil)
		undo := L.OptFunction(3, nil)
		if m.enqueue == nil {
			L.RaiseError("enqueue is not available to %s", m.name)
			return 0
		}
		m.enqueue(journal.NewTransaction(message, m.luaThunk(exec), m.luaThunk(undo)))
		return 0
	})
}

// luaThunk adapts a Lua function to a transaction callback. A nil fn
// yields a no-op.
func (m *ScriptMode) luaThunk(fn *lua.LFunction) func() error {
	if fn == nil {
		return func() error { return nil }
	}
	return func() error {
		res, err := m.state.CallFunction(fn)
		if err != nil {
			return err
		}
		// A script reports failure by returning false, message.
		if len(res) > 0 && res[0] == lua.LFalse {
			msg := "transaction rejected"
			if len(res) > 1 {
				msg = res[1].String()
			}
			return errors.New(msg)
		}
		return nil
	}
}

// Name returns the registered name.
func (m *ScriptMode) Name() string { return m.name }

// State returns the Lua state backing the mode.
func (m *ScriptMode) State() *State { return m.state }

// Close releases the Lua state.
func (m *ScriptMode) Close() error { return m.state.Close() }

// call runs hook if the script defines it. ok is false when the hook is
// missing or failed.
func (m *ScriptMode) call(hook string, args ...any) ([]lua.LValue, bool) {
	if !m.state.HasFunction(hook) {
		return nil, false
	}
	res, err := m.state.Call(hook, args...)
	if err != nil {
		if !m.failing[hook] {
			m.failing[hook] = true
			m.logger.Warn("lua hook failed", zap.String("hook", hook), zap.Error(err))
		}
		return nil, false
	}
	delete(m.failing, hook)
	return res, true
}

func (m *ScriptMode) bid(hook string, vi mode.Interaction) int {
	res, ok := m.call(hook, vi.X, vi.Y)
	if !ok || len(res) == 0 {
		return mode.NoBid
	}
	n, ok := toNumber(res[0])
	if !ok {
		return mode.NoBid
	}
	return n
}

func interactionTable(vi mode.Interaction) map[string]any {
	return map[string]any{
		"x":      vi.X,
		"y":      vi.Y,
		"dt":     vi.DT,
		"start":  vi.Start,
		"finish": vi.End,
		"width":  vi.View.Width,
		"height": vi.View.Height,
	}
}

// Hooks dispatch to the script's globals.
func (m *ScriptMode) OnActivate()   { m.call(HookActivate) }
func (m *ScriptMode) OnDeactivate() { m.call(HookDeactivate) }
func (m *ScriptMode) Update()       { m.call(HookUpdate) }
func (m *ScriptMode) Menu()         { m.call(HookMenu) }
func (m *ScriptMode) ToolBar()      { m.call(HookToolBar) }

func (m *ScriptMode) Render(vi mode.Interaction) { m.call(HookRender, interactionTable(vi)) }
func (m *ScriptMode) RunUI(vi mode.Interaction)  { m.call(HookUI, interactionTable(vi)) }

func (m *ScriptMode) ViewportHoverBid(vi mode.Interaction) int { return m.bid(HookHoverBid, vi) }
func (m *ScriptMode) ViewportDragBid(vi mode.Interaction) int  { return m.bid(HookDragBid, vi) }

func (m *ScriptMode) ViewportHovering(vi mode.Interaction) { m.call(HookHovering, vi.X, vi.Y) }

func (m *ScriptMode) ViewportDragging(vi mode.Interaction) {
	m.call(HookDragging, vi.X, vi.Y, vi.Start, vi.End)
}
