// Package uistate holds screen-observable values: a Store for persistent
// state that subscribers re-render from, and a Queue for one-shot effects
// that must be shown exactly once.
package uistate

import "sync"

// Store keeps the current value of T and notifies subscribers on every Set.
// Subscribers are invoked synchronously, in subscription order, outside the
// store lock.
type Store[T any] struct {
	mu      sync.Mutex
	current T
	nextID  int
	subs    map[int]func(T)
	order   []int
}

func NewStore[T any](initial T) *Store[T] {
	return &Store[T]{current: initial, subs: make(map[int]func(T))}
}

func (s *Store[T]) Current() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set replaces the current value and notifies subscribers.
func (s *Store[T]) Set(v T) {
	s.mu.Lock()
	s.current = v
	fns := s.snapshot()
	s.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Subscribe registers fn and immediately calls it with the current value.
// The returned func removes the subscription; calling it twice is harmless.
func (s *Store[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.order = append(s.order, id)
	cur := s.current
	s.mu.Unlock()

	fn(cur)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (s *Store[T]) snapshot() []func(T) {
	fns := make([]func(T), 0, len(s.order))
	for _, id := range s.order {
		fns = append(fns, s.subs[id])
	}
	return fns
}
