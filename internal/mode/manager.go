package mode

import (
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/dshills/stagecraft/internal/engine/journal"
	"github.com/dshills/stagecraft/internal/engine/queue"
	"github.com/dshills/stagecraft/internal/event"
)

// EmptyModeName is the built-in fallback major mode.
const EmptyModeName = "Empty"

const eventSource = "mode"

// MinorFactory constructs a minor mode.
type MinorFactory func() MinorMode

// MajorFactory constructs a major mode.
type MajorFactory func() MajorMode

// Manager owns the journal, the transaction queue, and every mode
// instance, and drives them once per update cycle.
type Manager struct {
	journal *journal.Journal
	queue   *queue.Queue[journal.Transaction]

	minorFactories map[string]MinorFactory
	majorFactories map[string]MajorFactory

	// Registration order, for deterministic iteration.
	minorNames []string
	majorNames []string

	minors map[string]MinorMode
	majors map[string]MajorMode

	// declared tracks majors registered through Declare.
	declared map[string]bool

	current     MajorMode
	currentName string
	pending     string

	logger *zap.Logger
	events event.Publisher
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithPublisher sets where the manager publishes events.
func WithPublisher(p event.Publisher) Option {
	return func(m *Manager) {
		if p != nil {
			m.events = p
		}
	}
}

// NewManager creates a manager with an empty journal and the built-in
// Empty major mode registered.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		journal:        journal.New(),
		queue:          queue.New[journal.Transaction](),
		minorFactories: make(map[string]MinorFactory),
		majorFactories: make(map[string]MajorFactory),
		minors:         make(map[string]MinorMode),
		majors:         make(map[string]MajorMode),
		declared:       make(map[string]bool),
		logger:         zap.NewNop(),
		events:         event.Discard,
	}
	for _, opt := range opts {
		opt(m)
	}

	_ = m.RegisterMajorMode(EmptyModeName, func() MajorMode { return &EmptyMajor{} })
	return m
}

// Journal returns the manager's journal.
func (m *Manager) Journal() *journal.Journal {
	return m.journal
}

// RegisterMinorMode associates name with a minor-mode factory. The mode is
// not instantiated until it is first looked up.
func (m *Manager) RegisterMinorMode(name string, factory MinorFactory) error {
	if name == "" {
		return ErrEmptyName
	}
	if _, ok := m.minorFactories[name]; ok {
		return fmt.Errorf("minor mode %q: %w", name, ErrDuplicateMode)
	}
	m.minorFactories[name] = factory
	m.minorNames = append(m.minorNames, name)
	return nil
}

// RegisterMajorMode associates name with a major-mode factory.
func (m *Manager) RegisterMajorMode(name string, factory MajorFactory) error {
	if name == "" {
		return ErrEmptyName
	}
	if _, ok := m.majorFactories[name]; ok {
		return fmt.Errorf("major mode %q: %w", name, ErrDuplicateMode)
	}
	m.majorFactories[name] = factory
	m.majorNames = append(m.majorNames, name)
	return nil
}

// RegisterMinor registers a typed minor-mode factory.
func RegisterMinor[T MinorMode](m *Manager, name string, factory func() T) error {
	return m.RegisterMinorMode(name, func() MinorMode { return factory() })
}

// RegisterMajor registers a typed major-mode factory.
func RegisterMajor[T MajorMode](m *Manager, name string, factory func() T) error {
	return m.RegisterMajorMode(name, func() MajorMode { return factory() })
}

// MinorModeNames returns the registered minor-mode names in registration
// order.
func (m *Manager) MinorModeNames() []string {
	return append([]string(nil), m.minorNames...)
}

// MajorModeNames returns the registered major-mode names in registration
// order.
func (m *Manager) MajorModeNames() []string {
	return append([]string(nil), m.majorNames...)
}

// FindMode returns the mode registered under name, instantiating it on
// first use. Live instances are checked before factories, and the minor
// table before the major one: a name registered as both resolves to the
// minor mode.
func (m *Manager) FindMode(name string) (Ref, bool) {
	if mm, ok := m.minors[name]; ok {
		return minorRef(mm), true
	}
	if mm, ok := m.majors[name]; ok {
		return majorRef(mm), true
	}
	if f, ok := m.minorFactories[name]; ok {
		mm := f()
		m.minors[name] = mm
		m.logger.Debug("instantiated minor mode", zap.String("mode", name))
		return minorRef(mm), true
	}
	if f, ok := m.majorFactories[name]; ok {
		mm := f()
		m.majors[name] = mm
		m.logger.Debug("instantiated major mode", zap.String("mode", name))
		return majorRef(mm), true
	}
	return Ref{}, false
}

// Find looks up name and asserts it to T.
func Find[T Mode](m *Manager, name string) (T, bool) {
	var zero T
	ref, ok := m.FindMode(name)
	if !ok {
		return zero, false
	}
	t, ok := ref.Mode().(T)
	return t, ok
}

// CurrentMajorMode returns the current major mode, or nil before the first
// Update.
func (m *Manager) CurrentMajorMode() MajorMode {
	return m.current
}

// CurrentMajorName returns the registered name of the current major mode.
func (m *Manager) CurrentMajorName() string {
	return m.currentName
}

// PendingMajorMode returns the major mode that will be activated on the
// next Update, or "".
func (m *Manager) PendingMajorMode() string {
	return m.pending
}

// ActiveMinorModes returns the names of active minor modes in registration
// order.
func (m *Manager) ActiveMinorModes() []string {
	var out []string
	for _, name := range m.minorNames {
		if mm, ok := m.minors[name]; ok && mm.IsActive() {
			out = append(out, name)
		}
	}
	return out
}

// Enqueue schedules t to be executed and journaled on the next Update.
// It is safe to call from any goroutine.
func (m *Manager) Enqueue(t journal.Transaction) {
	m.queue.Enqueue(t)
}

// QueueLen returns the number of transactions waiting to be applied.
func (m *Manager) QueueLen() int {
	return m.queue.Len()
}

// DrainAndApply executes queued transactions in FIFO order and records
// each in the journal. It processes at most the transactions queued when
// it was called. If a transaction fails, it is not journaled, the drain
// stops, and the error is returned; later transactions stay queued.
func (m *Manager) DrainAndApply() (int, error) {
	return m.queue.Drain(m.apply)
}

func (m *Manager) apply(t journal.Transaction) error {
	if t.Exec == nil {
		m.logger.Warn("skipping transaction without exec", zap.String("message", t.Message))
		return nil
	}

	m.logger.Info("> "+t.Message, zap.Stringer("tx", t.ID))
	if err := runExec(t.Exec); err != nil {
		m.logger.Error("transaction failed",
			zap.String("message", t.Message),
			zap.Stringer("tx", t.ID),
			zap.Error(err))
		m.events.Publish(event.TopicTransactionFailed, eventSource, t.Message)
		return &ApplyError{ID: t.ID, Message: t.Message, Err: err}
	}

	m.journal.Append(t)
	m.events.Publish(event.TopicTransactionApplied, eventSource, t.Message)
	return nil
}

func runExec(exec func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ExecPanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()
	return exec()
}

// Update runs one cycle: it applies queued transactions, performs any
// pending major-mode switch (falling back to Empty when no major mode is
// current), and ticks every instantiated mode.
//
// A transaction failure does not cut the cycle short; the error is
// returned once the cycle completes.
func (m *Manager) Update() error {
	_, err := m.DrainAndApply()

	if m.pending != "" {
		name := m.pending
		m.pending = ""
		m.activateMajor(name)
	}
	if m.current == nil {
		m.activateMajor(EmptyModeName)
	}

	for _, name := range m.minorNames {
		if mm, ok := m.minors[name]; ok {
			mm.Update()
		}
	}
	for _, name := range m.majorNames {
		if mm, ok := m.majors[name]; ok {
			mm.Update()
		}
	}
	return err
}

// ToggleMinorMode activates name if it is inactive and deactivates it
// otherwise.
func (m *Manager) ToggleMinorMode(name string) error {
	ref, ok := m.FindMode(name)
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownMode)
	}
	minor, ok := ref.Minor()
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrNotMinor)
	}
	if minor.IsActive() {
		m.deactivateMinor(name, minor)
	} else {
		m.activateMinor(name, minor)
	}
	return nil
}
