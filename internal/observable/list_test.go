package observable

import (
	"slices"
	"sync"
	"testing"
)

type item struct {
	id   int
	name string
}

func itemKey(i item) int { return i.id }

func seeded() []item {
	return []item{{1, "Tact"}, {2, "Shush"}, {3, "Ariel"}, {4, "Gidgit"}, {5, "Tully"}}
}

// recorder collects every snapshot delivered to it.
type recorder struct {
	mu        sync.Mutex
	snapshots [][]item
}

func (r *recorder) observe(s []item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, s)
}

func (r *recorder) last() []item {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snapshots) == 0 {
		return nil
	}
	return r.snapshots[len(r.snapshots)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

func TestList(t *testing.T) {
	t.Run("starts empty", func(t *testing.T) {
		l := NewList(itemKey)
		if l.Len() != 0 {
			t.Errorf("expected empty list, got %d items", l.Len())
		}

		rec := &recorder{}
		l.Subscribe(rec.observe)
		if rec.count() != 1 || len(rec.last()) != 0 {
			t.Errorf("expected one empty replay, got %v", rec.snapshots)
		}
	})

	t.Run("ReplaceAll emits exactly the given sequence", func(t *testing.T) {
		for _, s := range [][]item{nil, {{7, "Solo"}}, seeded(), {{3, "c"}, {1, "a"}, {2, "b"}}} {
			l := NewList(itemKey)
			rec := &recorder{}
			l.Subscribe(rec.observe)

			l.ReplaceAll(s)

			if !slices.Equal(rec.last(), s) {
				t.Errorf("expected %v, got %v", s, rec.last())
			}
			if !slices.Equal(l.Get(), s) {
				t.Errorf("Get() = %v, want %v", l.Get(), s)
			}
		}
	})

	t.Run("ReplaceAll copies its input", func(t *testing.T) {
		l := NewList(itemKey)
		in := seeded()
		l.ReplaceAll(in)

		in[0].name = "mutated"
		if got, _ := l.Find(1); got.name != "Tact" {
			t.Errorf("external mutation leaked into the snapshot: %v", got)
		}
	})

	t.Run("Get returns a copy", func(t *testing.T) {
		l := NewList(itemKey)
		l.ReplaceAll(seeded())

		got := l.Get()
		got[0].name = "mutated"
		if l.Get()[0].name != "Tact" {
			t.Error("modifying Get() result must not change the list")
		}
	})

	t.Run("Upsert existing replaces in place", func(t *testing.T) {
		l := NewList(itemKey)
		l.ReplaceAll(seeded())
		rec := &recorder{}
		l.Subscribe(rec.observe)

		l.Upsert(item{3, "Ariel the Bold"})

		got := rec.last()
		if len(got) != 5 {
			t.Fatalf("expected length 5, got %d", len(got))
		}
		if got[2] != (item{3, "Ariel the Bold"}) {
			t.Errorf("expected replaced item at index 2, got %v", got[2])
		}
		for _, i := range []int{0, 1, 3, 4} {
			if got[i] != seeded()[i] {
				t.Errorf("item %d changed: %v", i, got[i])
			}
		}
	})

	t.Run("Upsert new appends", func(t *testing.T) {
		l := NewList(itemKey)
		l.ReplaceAll(seeded())

		l.Upsert(item{6, "Toby"})

		got := l.Get()
		if len(got) != 6 || got[5] != (item{6, "Toby"}) {
			t.Errorf("expected Toby appended, got %v", got)
		}
	})

	t.Run("Remove present key", func(t *testing.T) {
		l := NewList(itemKey)
		l.ReplaceAll(seeded())
		rec := &recorder{}
		l.Subscribe(rec.observe)

		l.Remove(2)

		want := []item{{1, "Tact"}, {3, "Ariel"}, {4, "Gidgit"}, {5, "Tully"}}
		if !slices.Equal(rec.last(), want) {
			t.Errorf("expected %v, got %v", want, rec.last())
		}
	})

	t.Run("Remove absent key", func(t *testing.T) {
		l := NewList(itemKey)
		l.ReplaceAll(seeded())
		rec := &recorder{}
		l.Subscribe(rec.observe)

		l.Remove(42)

		if rec.count() != 2 {
			t.Errorf("expected replay plus one emission, got %d", rec.count())
		}
		if len(rec.last()) != 5 {
			t.Errorf("expected length unchanged, got %d", len(rec.last()))
		}
	})

	t.Run("emits to observers in subscription order", func(t *testing.T) {
		l := NewList(itemKey)
		var order []string
		l.Subscribe(func([]item) { order = append(order, "first") })
		l.Subscribe(func([]item) { order = append(order, "second") })
		order = nil

		l.Upsert(item{1, "a"})

		if !slices.Equal(order, []string{"first", "second"}) {
			t.Errorf("unexpected order %v", order)
		}
	})

	t.Run("Unsubscribe stops emissions", func(t *testing.T) {
		l := NewList(itemKey)
		rec := &recorder{}
		unsubscribe := l.Subscribe(rec.observe)

		l.Upsert(item{1, "a"})
		unsubscribe()
		unsubscribe()
		l.Upsert(item{2, "b"})

		if rec.count() != 2 {
			t.Errorf("expected 2 snapshots (replay + one), got %d", rec.count())
		}
		if l.Observers() != 0 {
			t.Errorf("expected no observers, got %d", l.Observers())
		}
	})

	t.Run("observer may read during emission", func(t *testing.T) {
		l := NewList(itemKey)
		var lengths []int
		l.Subscribe(func([]item) { lengths = append(lengths, l.Len()) })

		l.ReplaceAll(seeded())

		if !slices.Equal(lengths, []int{0, 5}) {
			t.Errorf("unexpected lengths %v", lengths)
		}
	})

	t.Run("concurrent upserts are all applied", func(t *testing.T) {
		l := NewList(itemKey)
		rec := &recorder{}
		l.Subscribe(rec.observe)

		var wg sync.WaitGroup
		for i := 1; i <= 50; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				l.Upsert(item{id: id})
			}(i)
		}
		wg.Wait()

		if l.Len() != 50 {
			t.Errorf("expected 50 items, got %d", l.Len())
		}
		if rec.count() != 51 {
			t.Errorf("expected 51 snapshots, got %d", rec.count())
		}
		for i, s := range rec.snapshots {
			if len(s) != i {
				t.Errorf("snapshot %d has length %d; emissions out of order", i, len(s))
			}
		}
	})

	t.Run("observer may unsubscribe during emission", func(t *testing.T) {
		l := NewList(itemKey)
		calls := 0
		var unsubscribe func()
		unsubscribe = l.Subscribe(func([]item) {
			calls++
			if calls == 2 {
				unsubscribe()
			}
		})

		l.Upsert(item{id: 1})
		l.Upsert(item{id: 2})

		if calls != 2 {
			t.Errorf("expected replay plus one emission, got %d calls", calls)
		}
		if l.Observers() != 0 {
			t.Errorf("expected no observers, got %d", l.Observers())
		}
	})

	t.Run("replay precedes later emissions", func(t *testing.T) {
		l := NewList(itemKey)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 1; i <= 50; i++ {
				l.Upsert(item{id: i})
			}
		}()

		recs := make([]*recorder, 10)
		for i := range recs {
			recs[i] = &recorder{}
			defer l.Subscribe(recs[i].observe)()
		}
		wg.Wait()

		for i, rec := range recs {
			for j := 1; j < len(rec.snapshots); j++ {
				if len(rec.snapshots[j]) != len(rec.snapshots[j-1])+1 {
					t.Fatalf("observer %d saw length %d after %d", i, len(rec.snapshots[j]), len(rec.snapshots[j-1]))
				}
			}
		}
	})
}
