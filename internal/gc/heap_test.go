package gc

import "testing"

func TestHeapWalker(t *testing.T) {
	t.Run("WalksAllThreadsAndAbandoned", func(t *testing.T) {
		arena := NewPageArena()

		h1 := arena.HeapFor(1)
		h1.Alloc(SizeClassSmall, &Header{})
		h1.Alloc(SizeClassMedium, &Header{})

		h2 := arena.HeapFor(2)
		h2.Alloc(SizeClassSmall, &Header{})
		arena.Abandon(2)

		walker := NewHeapWalker(arena)

		if got := walker.Count(); got != 3 {
			t.Errorf("Count() = %d, want 3", got)
		}
	})

	t.Run("ShortCircuitsOnNonZeroResult", func(t *testing.T) {
		arena := NewPageArena()
		h := arena.HeapFor(1)
		h.Alloc(SizeClassSmall, &Header{})
		h.Alloc(SizeClassSmall, &Header{})

		visited := 0
		rc := NewHeapWalker(arena).Walk(func(*Header) int {
			visited++

			return 7
		})

		if rc != 7 {
			t.Errorf("Walk() = %d, want 7", rc)
		}

		if visited != 1 {
			t.Errorf("visited = %d, want 1 (short-circuit on first non-zero)", visited)
		}
	})

	t.Run("EmptyArena", func(t *testing.T) {
		walker := NewHeapWalker(NewPageArena())

		if got := walker.Count(); got != 0 {
			t.Errorf("Count() on empty arena = %d, want 0", got)
		}
	})
}
