package observable

import "testing"

func TestSingle(t *testing.T) {
	t.Run("starts empty", func(t *testing.T) {
		s := NewSingle[item]()
		if _, ok := s.Get(); ok {
			t.Error("expected no item")
		}
	})

	t.Run("Change emits singleton", func(t *testing.T) {
		s := NewSingle[item]()
		rec := &recorder{}
		s.Subscribe(rec.observe)

		s.Change(item{2, "Shush"})

		got := rec.last()
		if len(got) != 1 || got[0] != (item{2, "Shush"}) {
			t.Errorf("expected singleton Shush, got %v", got)
		}
		if v, ok := s.Get(); !ok || v.id != 2 {
			t.Errorf("Get() = %v, %v", v, ok)
		}
	})

	t.Run("Clear emits empty", func(t *testing.T) {
		s := NewSingle[item]()
		s.Change(item{2, "Shush"})
		rec := &recorder{}
		s.Subscribe(rec.observe)

		s.Clear()

		if rec.count() != 2 || len(rec.last()) != 0 {
			t.Errorf("expected empty emission after replay, got %v", rec.snapshots)
		}
		if _, ok := s.Get(); ok {
			t.Error("expected no item after Clear")
		}
	})

	t.Run("late subscriber sees current value", func(t *testing.T) {
		s := NewSingle[item]()
		s.Change(item{6, "Toby"})

		rec := &recorder{}
		s.Subscribe(rec.observe)

		if rec.count() != 1 || rec.last()[0].name != "Toby" {
			t.Errorf("expected replay of Toby, got %v", rec.snapshots)
		}
	})

	t.Run("ClearIf and ChangeIf only act on a match", func(t *testing.T) {
		s := NewSingle[item]()
		s.Change(item{2, "Shush"})
		rec := &recorder{}
		s.Subscribe(rec.observe)

		isThree := func(i item) bool { return i.id == 3 }
		isTwo := func(i item) bool { return i.id == 2 }

		if s.ClearIf(isThree) {
			t.Error("ClearIf should not clear a non-matching item")
		}
		if s.ChangeIf(isThree, item{3, "x"}) {
			t.Error("ChangeIf should not change a non-matching item")
		}
		if rec.count() != 1 {
			t.Errorf("non-matching calls must not emit, got %d snapshots", rec.count())
		}

		if !s.ChangeIf(isTwo, item{2, "Shush II"}) {
			t.Error("ChangeIf should change the matching item")
		}
		if !s.ClearIf(func(i item) bool { return i.name == "Shush II" }) {
			t.Error("ClearIf should clear the matching item")
		}
		if rec.count() != 3 {
			t.Errorf("expected 3 snapshots, got %d", rec.count())
		}
	})
}
