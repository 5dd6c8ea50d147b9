package gc

import "testing"

func TestListValidate(t *testing.T) {
	t.Run("ValidListPasses", func(t *testing.T) {
		l := NewList()
		a := &Header{}
		b := &Header{}
		l.Append(a)
		l.Append(b)

		if err := l.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("EmptyListPasses", func(t *testing.T) {
		if err := NewList().Validate(); err != nil {
			t.Errorf("Validate() on empty list = %v, want nil", err)
		}
	})

	t.Run("BrokenPrevChainFails", func(t *testing.T) {
		l := NewList()
		a := &Header{}
		b := &Header{}
		c := &Header{}
		l.Append(a)
		l.Append(b)
		l.Append(c)

		b.setPrevPtr(c) // corrupt the prev chain directly

		if err := l.Validate(); err == nil {
			t.Error("Validate() should fail when prev/next walks disagree")
		}
	})
}

// TestCollectorCheckInvariants exercises the always-built surface of
// CheckInvariants; invariants_debug.go's real checks only run under
// -tags debug, so this only verifies the no-op build doesn't error on
// a well-formed collector.
func TestCollectorCheckInvariants(t *testing.T) {
	c, reg, _ := newTestCollector(t)
	newTestObj(reg)

	if err := c.CheckInvariants(); err != nil {
		t.Errorf("CheckInvariants() = %v, want nil", err)
	}
}
