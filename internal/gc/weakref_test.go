package gc

import "testing"

func TestWeakRefStore(t *testing.T) {
	t.Run("TrackAndIterateCallbacks", func(t *testing.T) {
		s := NewWeakRefStore()

		w1 := &fakeWeakRef{}
		w2 := &fakeWeakRef{}
		s.Track(7, w1)
		s.Track(7, w2)

		got := s.IterateCallbacks(7)
		if len(got) != 2 {
			t.Fatalf("IterateCallbacks len = %d, want 2", len(got))
		}
	})

	t.Run("NoCallbackExcluded", func(t *testing.T) {
		s := NewWeakRefStore()
		w := &noCallbackWeakRef{}
		s.Track(3, w)

		if got := s.IterateCallbacks(3); len(got) != 0 {
			t.Errorf("IterateCallbacks len = %d, want 0 (no callback registered)", len(got))
		}
	})

	t.Run("UntrackRemovesAndReturns", func(t *testing.T) {
		s := NewWeakRefStore()
		w := &fakeWeakRef{}
		s.Track(5, w)

		removed := s.Untrack(5)
		if len(removed) != 1 {
			t.Fatalf("Untrack returned %d refs, want 1", len(removed))
		}

		if len(s.IterateCallbacks(5)) != 0 {
			t.Error("IterateCallbacks after Untrack should be empty")
		}
	})

	t.Run("UnknownReferentIsEmpty", func(t *testing.T) {
		s := NewWeakRefStore()

		if got := s.IterateCallbacks(999); got != nil {
			t.Errorf("IterateCallbacks for unknown referent = %v, want nil", got)
		}
	})
}

type noCallbackWeakRef struct {
	fakeWeakRef
}

func (w *noCallbackWeakRef) HasCallback() bool { return false }
