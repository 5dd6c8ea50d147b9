package gc

import "testing"

func TestThreadHeapAllocFree(t *testing.T) {
	t.Run("AllocReservesDistinctSlots", func(t *testing.T) {
		th := NewThreadHeap(1)

		h1 := &Header{}
		h2 := &Header{}
		th.Alloc(SizeClassSmall, h1)
		th.Alloc(SizeClassSmall, h2)

		count := 0
		th.walk(func(*Header) int { count++; return 0 })
		th.clearVisited()

		if count != 2 {
			t.Errorf("walk visited %d headers, want 2", count)
		}
	})

	t.Run("FreeReleasesSlot", func(t *testing.T) {
		th := NewThreadHeap(1)

		h1 := &Header{}
		th.Alloc(SizeClassSmall, h1)
		th.Free(h1)

		count := 0
		th.walk(func(*Header) int { count++; return 0 })
		th.clearVisited()

		if count != 0 {
			t.Errorf("walk visited %d headers after Free, want 0", count)
		}
	})

	t.Run("GrowsNewPageWhenFull", func(t *testing.T) {
		th := NewThreadHeap(1)

		for i := 0; i < pageCapacity+1; i++ {
			th.Alloc(SizeClassSmall, &Header{})
		}

		if len(th.pages[SizeClassSmall]) != 2 {
			t.Errorf("pages = %d, want 2 after exceeding one page's capacity", len(th.pages[SizeClassSmall]))
		}
	})

	t.Run("WalkGuardsReentrance", func(t *testing.T) {
		th := NewThreadHeap(1)
		th.Alloc(SizeClassSmall, &Header{})

		outerCount := 0
		th.walk(func(*Header) int {
			outerCount++

			innerCount := 0
			th.walk(func(*Header) int { innerCount++; return 0 })

			if innerCount != 0 {
				t.Error("nested walk should see the re-entrancy guard and visit nothing")
			}

			return 0
		})
		th.clearVisited()

		if outerCount != 1 {
			t.Errorf("outer walk visited %d, want 1", outerCount)
		}
	})
}

func TestPageArena(t *testing.T) {
	t.Run("HeapForCreatesOnDemand", func(t *testing.T) {
		a := NewPageArena()

		h1 := a.HeapFor(1)
		h2 := a.HeapFor(1)

		if h1 != h2 {
			t.Error("HeapFor should return the same ThreadHeap for the same ID")
		}

		if len(a.Heaps()) != 1 {
			t.Errorf("Heaps() len = %d, want 1", len(a.Heaps()))
		}
	})

	t.Run("AbandonMovesPagesAndDropsHeap", func(t *testing.T) {
		a := NewPageArena()
		h := a.HeapFor(2)
		h.Alloc(SizeClassSmall, &Header{})

		a.Abandon(2)

		if len(a.Heaps()) != 0 {
			t.Errorf("Heaps() len after Abandon = %d, want 0", len(a.Heaps()))
		}

		count := 0
		a.walkAbandoned(func(*Header) int { count++; return 0 })

		if count != 1 {
			t.Errorf("walkAbandoned visited %d, want 1", count)
		}
	})

	t.Run("AbandonUnknownThreadIsNoop", func(t *testing.T) {
		a := NewPageArena()
		a.Abandon(999) // must not panic
	})
}
