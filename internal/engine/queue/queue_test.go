package queue

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFIFO(t *testing.T) {
	q := New[int]()
	for i := 0; i < 5; i++ {
		q.Enqueue(i)
	}

	var got []int
	n, err := q.Drain(func(v int) error {
		got = append(got, v)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	assert.Equal(t, 0, q.Len())
}

func TestTryDequeueEmpty(t *testing.T) {
	q := New[string]()

	_, ok := q.TryDequeue()
	assert.False(t, ok)
}

func TestDrainIsBoundedBySnapshot(t *testing.T) {
	q := New[int]()
	q.Enqueue(1)
	q.Enqueue(2)

	var got []int
	n, err := q.Drain(func(v int) error {
		got = append(got, v)
		// Work produced while draining belongs to the next cycle.
		q.Enqueue(v * 10)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, 2, q.Len())
}

func TestDrainStopsOnError(t *testing.T) {
	q := New[int]()
	for i := 1; i <= 4; i++ {
		q.Enqueue(i)
	}
	boom := errors.New("boom")

	var got []int
	n, err := q.Drain(func(v int) error {
		if v == 2 {
			return boom
		}
		got = append(got, v)
		return nil
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, n)
	assert.Equal(t, []int{1}, got)
	assert.Equal(t, 2, q.Len(), "items behind the failure stay queued")

	n, err = q.Drain(func(v int) error {
		got = append(got, v)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int{1, 3, 4}, got)
}

func TestCompaction(t *testing.T) {
	q := New[int]()
	for i := 0; i < 200; i++ {
		q.Enqueue(i)
	}
	for i := 0; i < 150; i++ {
		v, ok := q.TryDequeue()
		require.True(t, ok)
		require.Equal(t, i, v)
	}

	assert.Equal(t, 50, q.Len())
	v, ok := q.TryDequeue()
	require.True(t, ok)
	assert.Equal(t, 150, v)
}

func TestConcurrentProducers(t *testing.T) {
	q := New[int]()
	const producers = 8
	const perProducer = 500

	var g errgroup.Group
	for p := 0; p < producers; p++ {
		p := p
		g.Go(func() error {
			for i := 0; i < perProducer; i++ {
				q.Enqueue(p*perProducer + i)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	lastSeen := make(map[int]int)
	var all []int
	_, err := q.Drain(func(v int) error {
		p := v / perProducer
		if last, ok := lastSeen[p]; ok && v < last {
			t.Errorf("producer %d out of order: %d after %d", p, v, last)
		}
		lastSeen[p] = v
		all = append(all, v)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, all, producers*perProducer)
	sort.Ints(all)
	for i, v := range all {
		require.Equal(t, i, v)
	}
}
