package observable

// Single holds zero or one item.
//
// Observers receive a singleton slice while an item is held and an empty slice otherwise.
type Single[T any] struct {
	subject[T]
}

// NewSingle creates an empty Single.
func NewSingle[T any]() *Single[T] {
	return &Single[T]{}
}

// Get returns the held item, if any.
func (s *Single[T]) Get() (T, bool) {
	items := s.snapshot()
	if len(items) == 0 {
		var zero T
		return zero, false
	}
	return items[0], true
}

// Change replaces the held item and emits it.
func (s *Single[T]) Change(item T) {
	s.mutate(func([]T) ([]T, bool) {
		return []T{item}, true
	})
}

// ChangeIf replaces the held item only when a held item satisfies match; it reports whether it did.
func (s *Single[T]) ChangeIf(match func(T) bool, item T) bool {
	var changed bool
	s.mutate(func(items []T) ([]T, bool) {
		if len(items) == 0 || !match(items[0]) {
			return items, false
		}
		changed = true
		return []T{item}, true
	})
	return changed
}

// Clear empties the wrapper and emits an empty snapshot.
func (s *Single[T]) Clear() {
	s.mutate(func([]T) ([]T, bool) {
		return nil, true
	})
}

// ClearIf empties the wrapper only when the held item satisfies match; it reports whether it did.
func (s *Single[T]) ClearIf(match func(T) bool) bool {
	var cleared bool
	s.mutate(func(items []T) ([]T, bool) {
		if len(items) == 0 || !match(items[0]) {
			return items, false
		}
		cleared = true
		return nil, true
	})
	return cleared
}

// Subscribe registers fn and immediately delivers the current state to it.
func (s *Single[T]) Subscribe(fn Observer[T]) (unsubscribe func()) {
	return s.subscribe(fn)
}
