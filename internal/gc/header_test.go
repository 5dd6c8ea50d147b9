package gc

import "testing"

func TestHeaderFlags(t *testing.T) {
	var h Header

	t.Run("SetClearHasFlag", func(t *testing.T) {
		if h.HasFlag(FlagTracked) {
			t.Fatal("new header should not be tracked")
		}

		h.SetFlag(FlagTracked)
		if !h.HasFlag(FlagTracked) {
			t.Error("FlagTracked not set")
		}

		h.SetFlag(FlagFinalized)
		if !h.HasFlag(FlagTracked) || !h.HasFlag(FlagFinalized) {
			t.Error("setting FlagFinalized disturbed FlagTracked")
		}

		h.ClearFlag(FlagTracked)
		if h.HasFlag(FlagTracked) {
			t.Error("FlagTracked not cleared")
		}

		if !h.HasFlag(FlagFinalized) {
			t.Error("clearing FlagTracked disturbed FlagFinalized")
		}
	})

	t.Run("GCRefsPreservesFlags", func(t *testing.T) {
		var h2 Header
		h2.SetFlag(FlagTracked | FlagCollecting)
		h2.SetGCRefs(42)

		if got := h2.GCRefs(); got != 42 {
			t.Errorf("GCRefs() = %d, want 42", got)
		}

		if !h2.HasFlag(FlagTracked) || !h2.HasFlag(FlagCollecting) {
			t.Error("SetGCRefs disturbed flag bits")
		}

		h2.IncGCRefs(-10)
		if got := h2.GCRefs(); got != 32 {
			t.Errorf("after IncGCRefs(-10), GCRefs() = %d, want 32", got)
		}
	})

	t.Run("GCRefsNegative", func(t *testing.T) {
		var h3 Header
		h3.SetGCRefs(-1)

		if got := h3.GCRefs(); got != -1 {
			t.Errorf("GCRefs() = %d, want -1", got)
		}
	})

	t.Run("Unreachable", func(t *testing.T) {
		var h4 Header
		if h4.IsUnreachable() {
			t.Fatal("new header should not be unreachable")
		}

		h4.SetUnreachable()
		if !h4.IsUnreachable() {
			t.Error("SetUnreachable did not set the bit")
		}

		h4.ClearUnreachable()
		if h4.IsUnreachable() {
			t.Error("ClearUnreachable did not clear the bit")
		}
	})

	t.Run("Reset", func(t *testing.T) {
		var h5 Header
		h5.SetFlag(FlagTracked)
		h5.SetGCRefs(7)
		h5.reset(99)

		if h5.HasFlag(FlagTracked) {
			t.Error("reset did not clear flags")
		}

		if h5.ID() != 99 {
			t.Errorf("ID() = %d, want 99", h5.ID())
		}
	})
}
