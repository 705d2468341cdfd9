package lua

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// DefaultCallTimeout bounds every DoString, DoFile and Call.
const DefaultCallTimeout = 100 * time.Millisecond

// State wraps a sandboxed gopher-lua runtime.
//
// gopher-lua's LState is not goroutine-safe. The mutex serializes Go
// callers; Lua callbacks registered with RegisterFunc run with it held and
// must not call back into the State.
type State struct {
	L *lua.LState

	mu      sync.Mutex
	timeout time.Duration
	logger  *zap.Logger
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithCallTimeout sets the deadline applied to each call. Zero disables
// it.
func WithCallTimeout(d time.Duration) StateOption {
	return func(s *State) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets where print output goes.
func WithLogger(l *zap.Logger) StateOption {
	return func(s *State) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) (*State, error) {
	s := &State{
		timeout: DefaultCallTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	L.Push(L.NewFunction(func(L *lua.LState) int {
		openSafeLibraries(L)
		return 0
	}))
	if err := L.PCall(0, 0, nil); err != nil {
		L.Close()
		return nil, fmt.Errorf("opening lua libraries: %w", err)
	}
	installSandbox(L, s.logger)

	s.L = L
	return s, nil
}

// DoString runs a chunk of Lua source.
func (s *State) DoString(code string) error {
	return s.run("chunk", func() error { return s.L.DoString(code) })
}

// DoFile runs the Lua file at path.
func (s *State) DoFile(path string) error {
	return s.run(path, func() error { return s.L.DoFile(path) })
}

// HasFunction reports whether the global name is a function.
func (s *State) HasFunction(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	return s.L.GetGlobal(name).Type() == lua.LTFunction
}

// Call calls the global function name with args converted to Lua values
// and returns its results.
func (s *State) Call(name string, args ...any) ([]lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStateClosed
	}

	fn := s.L.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return nil, &CallError{Func: name, Err: ErrNotFunction}
	}
	return s.callLocked(name, fn, args)
}

// CallFunction calls fn, a function value obtained from this state.
func (s *State) CallFunction(fn *lua.LFunction, args ...any) ([]lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStateClosed
	}
	return s.callLocked("function", fn, args)
}

func (s *State) callLocked(name string, fn lua.LValue, args []any) (results []lua.LValue, err error) {
	cancel := s.withDeadline()
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			err = &CallError{Func: name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	top := s.L.GetTop()
	s.L.Push(fn)
	for _, a := range args {
		s.L.Push(toLValue(s.L, a))
	}
	if err := s.L.PCall(len(args), lua.MultRet, nil); err != nil {
		s.L.SetTop(top)
		return nil, &CallError{Func: name, Err: err}
	}

	n := s.L.GetTop() - top
	results = make([]lua.LValue, n)
	for i := 0; i < n; i++ {
		results[i] = s.L.Get(top + i + 1)
	}
	s.L.SetTop(top)
	return results, nil
}

func (s *State) run(name string, fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStateClosed
	}

	cancel := s.withDeadline()
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			err = &CallError{Func: name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if err := fn(); err != nil {
		return &CallError{Func: name, Err: err}
	}
	return nil
}

// withDeadline installs the call timeout on the LState. The returned
// function removes it.
func (s *State) withDeadline() func() {
	if s.timeout <= 0 {
		return func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	s.L.SetContext(ctx)
	return func() {
		s.L.RemoveContext()
		cancel()
	}
}

// RegisterFunc exposes fn to Lua as the global name.
func (s *State) RegisterFunc(name string, fn lua.LGFunction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.L.SetGlobal(name, s.L.NewFunction(fn))
}

// IsClosed reports whether Close has been called.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the Lua runtime. Later calls return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
