// Package queue provides the multi-producer work queue that feeds the
// update goroutine.
//
// Producers call Enqueue from any goroutine. A single consumer calls Drain
// once per update cycle; Drain takes only what was queued when it started,
// so a producer that keeps enqueueing cannot starve the frame.
package queue

import (
	"sync"
)

// Queue is an unbounded FIFO that is safe for concurrent producers.
// Drain must only be called from one goroutine at a time.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
	head  int
}

// New creates an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Enqueue appends item to the tail. It never waits on the consumer.
func (q *Queue[T]) Enqueue(item T) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// TryDequeue pops the head item. ok is false when the queue is empty.
func (q *Queue[T]) TryDequeue() (item T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head == len(q.items) {
		return item, false
	}

	var zero T
	item = q.items[q.head]
	q.items[q.head] = zero
	q.head++

	// Compact once the consumed prefix dominates the backing array.
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	} else if q.head > 64 && q.head*2 > len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return item, true
}

// Drain pops the items that were queued when Drain was called, in FIFO
// order, and hands each to fn. Items enqueued while draining wait for the
// next call.
//
// If fn returns an error, Drain stops and returns it along with the number
// of items fn accepted. The failing item has already been dequeued; every
// item behind it stays queued.
func (q *Queue[T]) Drain(fn func(T) error) (int, error) {
	budget := q.Len()
	done := 0
	for done < budget {
		item, ok := q.TryDequeue()
		if !ok {
			break
		}
		if err := fn(item); err != nil {
			return done, err
		}
		done++
	}
	return done, nil
}
