package observable

import "slices"

// List is an observable ordered collection.
//
// Items are matched by the key function given to [NewList].
type List[T any, K comparable] struct {
	subject[T]
	key func(T) K
}

// NewList creates an empty List keyed by key.
func NewList[T any, K comparable](key func(T) K) *List[T, K] {
	return &List[T, K]{key: key}
}

// Get returns a copy of the current snapshot.
func (l *List[T, K]) Get() []T {
	return l.snapshot()
}

// Len returns the number of items in the current snapshot.
func (l *List[T, K]) Len() int {
	return l.len()
}

// Find returns the item with the given key.
func (l *List[T, K]) Find(key K) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, item := range l.items {
		if l.key(item) == key {
			return item, true
		}
	}

	var zero T
	return zero, false
}

// ReplaceAll sets the snapshot to a copy of items and emits it.
func (l *List[T, K]) ReplaceAll(items []T) {
	l.mutate(func([]T) ([]T, bool) {
		return slices.Clone(items), true
	})
}

// Upsert replaces the item sharing item's key in place, or appends item when none does, and emits.
func (l *List[T, K]) Upsert(item T) {
	k := l.key(item)
	l.mutate(func(items []T) ([]T, bool) {
		next := slices.Clone(items)
		if i := slices.IndexFunc(next, func(existing T) bool { return l.key(existing) == k }); i >= 0 {
			next[i] = item
			return next, true
		}
		return append(next, item), true
	})
}

// Remove filters out items matching key and emits the result.
//
// The snapshot is emitted even when nothing matched.
func (l *List[T, K]) Remove(key K) {
	l.mutate(func(items []T) ([]T, bool) {
		return slices.DeleteFunc(slices.Clone(items), func(item T) bool { return l.key(item) == key }), true
	})
}

// Subscribe registers fn and immediately delivers the current snapshot to it.
//
// The returned func unregisters fn; calling it more than once is safe.
func (l *List[T, K]) Subscribe(fn Observer[T]) (unsubscribe func()) {
	return l.subscribe(fn)
}

// Observers returns the number of registered observers.
func (l *List[T, K]) Observers() int {
	return l.observers()
}
