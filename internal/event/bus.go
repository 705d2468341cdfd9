package event

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Event is a single published occurrence.
type Event struct {
	ID      string
	Topic   Topic
	Source  string
	Time    time.Time
	Payload any
}

// Handler receives events.
type Handler func(Event)

// Publisher is the write side of the bus. The engine depends only on this.
type Publisher interface {
	Publish(topic Topic, source string, payload any)
}

// Discard is a Publisher that drops everything.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(Topic, string, any) {}

// Stats summarizes bus activity.
type Stats struct {
	Published     uint64
	Delivered     uint64
	HandlerPanics uint64
	Subscriptions int
}

type subscription struct {
	id      uint64
	pattern Topic
	handler Handler
}

// Bus is a synchronous topic bus. It is safe for concurrent use.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID uint64

	published atomic.Uint64
	delivered atomic.Uint64
	panics    atomic.Uint64

	// PanicHandler, if set, is called with the recovered value when a
	// handler panics.
	PanicHandler func(e Event, recovered any)
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers handler for topics matching pattern and returns a
// function that removes the subscription.
func (b *Bus) Subscribe(pattern Topic, handler Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, pattern: pattern, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(id) })
	}
}

func (b *Bus) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers an event to every matching subscriber, in subscription
// order, on the calling goroutine.
func (b *Bus) Publish(topic Topic, source string, payload any) {
	e := Event{
		ID:      uuid.NewString(),
		Topic:   topic,
		Source:  source,
		Time:    time.Now(),
		Payload: payload,
	}
	b.published.Add(1)

	// Snapshot so handlers may subscribe or unsubscribe.
	b.mu.RLock()
	matched := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if topic.Matches(s.pattern) {
			matched = append(matched, s.handler)
		}
	}
	b.mu.RUnlock()

	for _, h := range matched {
		b.deliver(h, e)
	}
}

func (b *Bus) deliver(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.panics.Add(1)
			if b.PanicHandler != nil {
				b.PanicHandler(e, r)
			}
		}
	}()
	h(e)
	b.delivered.Add(1)
}

// Stats returns a snapshot of bus counters.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	n := len(b.subs)
	b.mu.RUnlock()
	return Stats{
		Published:     b.published.Load(),
		Delivered:     b.delivered.Load(),
		HandlerPanics: b.panics.Load(),
		Subscriptions: n,
	}
}
