package uistate

import (
	"context"
	"sync"
)

// DefaultQueueSize is the effect queue capacity used by screens.
const DefaultQueueSize = 8

// Queue is a bounded FIFO of one-shot effects. When full, Push drops the
// oldest pending effect. Each effect is delivered to exactly one consumer.
type Queue[T any] struct {
	mu      sync.Mutex
	items   []T
	size    int
	dropped int
	// ready is closed and replaced whenever an item is pushed.
	ready chan struct{}
}

func NewQueue[T any](size int) *Queue[T] {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue[T]{size: size, ready: make(chan struct{})}
}

func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	if len(q.items) == q.size {
		var zero T
		q.items[0] = zero
		q.items = q.items[1:]
		q.dropped++
	}
	q.items = append(q.items, v)
	close(q.ready)
	q.ready = make(chan struct{})
	q.mu.Unlock()
}

// TryNext pops the oldest effect without blocking.
func (q *Queue[T]) TryNext() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pop()
}

// Next blocks until an effect is available or ctx is done.
func (q *Queue[T]) Next(ctx context.Context) (T, error) {
	for {
		q.mu.Lock()
		v, ok := q.pop()
		ready := q.ready
		q.mu.Unlock()

		if ok {
			return v, nil
		}

		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-ready:
		}
	}
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Dropped returns how many effects were discarded on overflow.
func (q *Queue[T]) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

func (q *Queue[T]) pop() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	v := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	return v, true
}
