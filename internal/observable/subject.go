package observable

import (
	"slices"
	"sync"
)

// Observer receives snapshots.
type Observer[T any] func(snapshot []T)

type subscription[T any] struct {
	id uint64
	fn Observer[T]
}

// subject owns the snapshot and the observer list shared by [List] and [Single].
//
// mu guards state; emitMu orders emissions so observers see mutations in the order they were applied.
type subject[T any] struct {
	emitMu sync.Mutex
	mu     sync.Mutex
	items  []T
	subs   []subscription[T]
	nextID uint64
}

func (s *subject[T]) snapshot() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *subject[T]) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// mutate applies fn to the current items and emits the result.
//
// fn returns the new items and whether anything should be emitted.
func (s *subject[T]) mutate(fn func(items []T) ([]T, bool)) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	next, changed := fn(s.items)
	if !changed {
		s.mu.Unlock()
		return
	}
	s.items = next
	subs := slices.Clone(s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(slices.Clone(next))
	}
}

func (s *subject[T]) subscribe(fn Observer[T]) func() {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription[T]{id: id, fn: fn})
	current := slices.Clone(s.items)
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.subs = slices.DeleteFunc(s.subs, func(sub subscription[T]) bool { return sub.id == id })
		})
	}
}

func (s *subject[T]) observers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
