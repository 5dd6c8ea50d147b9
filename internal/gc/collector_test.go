package gc

import "testing"

func newTestCollector(t *testing.T) (*Collector, *Registry, func(Traversable)) {
	t.Helper()

	reg := NewRegistry()
	threads := NewStaticThreadRegistry()
	threads.Register(1)

	var freed []Traversable
	decRef := func(o Traversable) { freed = append(freed, o) }

	c := NewCollector(reg, NewPageArena(), threads, ThreadID(1), decRef, nil, nil, 2)

	return c, reg, decRef
}

// TestCollectorTwoObjectCycle exercises scenario 1 end to end through
// the Collector facade: a mutual A<->B cycle with no external holder
// is fully freed and Collect reports 2.
func TestCollectorTwoObjectCycle(t *testing.T) {
	c, reg, _ := newTestCollector(t)

	a := newTestObj(reg)
	b := newTestObj(reg)
	a.link(b)
	b.link(a)
	a.rc.IncLocal(-1)
	b.rc.IncLocal(-1)

	n, err := c.Collect(0)
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}

	if n != 2 {
		t.Errorf("Collect() = %d, want 2", n)
	}

	if !a.cleared || !b.cleared {
		t.Error("both a and b should have had ClearRefs called")
	}
}

func TestCollectorInvalidGeneration(t *testing.T) {
	c, _, _ := newTestCollector(t)

	if _, err := c.Collect(-1); err == nil {
		t.Error("Collect(-1) should return an error")
	}

	if _, err := c.Collect(NumGenerations); err == nil {
		t.Error("Collect(NumGenerations) should return an error")
	}
}

func TestCollectorLegacyFinalizerGoesToGarbage(t *testing.T) {
	c, reg, _ := newTestCollector(t)

	a := newTestObj(reg)
	b := newTestObj(reg)
	a.link(b)
	b.link(a)
	a.rc.IncLocal(-1)
	b.rc.IncLocal(-1)
	a.hasLegacy = true

	n, err := c.Collect(0)
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}

	if n != 0 {
		t.Errorf("Collect() = %d, want 0 (both survive via tp_del)", n)
	}

	if c.Garbage().Size() != 2 {
		t.Errorf("Garbage().Size() = %d, want 2", c.Garbage().Size())
	}
}

func TestCollectorEnableDisable(t *testing.T) {
	c, _, _ := newTestCollector(t)

	if !c.IsEnabled() {
		t.Fatal("collector should start enabled")
	}

	c.Disable()

	if c.IsEnabled() {
		t.Error("Disable should clear IsEnabled")
	}

	c.Enable()

	if !c.IsEnabled() {
		t.Error("Enable should restore IsEnabled")
	}
}

func TestCollectorHeapTrigger(t *testing.T) {
	c, reg, _ := newTestCollector(t)
	c.SetThreshold(1)

	a := newTestObj(reg)
	b := newTestObj(reg)
	a.link(b)
	b.link(a)
	a.rc.IncLocal(-1)
	b.rc.IncLocal(-1)

	c.NotifyAlloc(2)

	n := c.CheckHeapTrigger()
	if n != 2 {
		t.Errorf("CheckHeapTrigger() = %d, want 2", n)
	}
}

func TestCollectorCallbacksAndStats(t *testing.T) {
	c, reg, _ := newTestCollector(t)

	var phases []string
	c.AddCallback(func(phase string, info CallbackInfo) {
		phases = append(phases, phase)
	})

	a := newTestObj(reg)
	a.link(a)
	a.rc.IncLocal(-1)

	if _, err := c.Collect(0); err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}

	if len(phases) != 2 || phases[0] != "start" || phases[1] != "stop" {
		t.Errorf("phases = %v, want [start stop]", phases)
	}

	stats := c.GetStats()
	if stats[0].Collections != 1 {
		t.Errorf("stats[0].Collections = %d, want 1", stats[0].Collections)
	}
}

func TestCollectorGetReferentsAndReferrers(t *testing.T) {
	c, reg, _ := newTestCollector(t)

	a := newTestObj(reg)
	b := newTestObj(reg)
	a.link(b)

	referents := c.GetReferents(a)
	if len(referents) != 1 || referents[0] != Traversable(b) {
		t.Errorf("GetReferents(a) = %v, want [b]", referents)
	}

	referrers := c.GetReferrers(b)
	if len(referrers) != 1 || referrers[0] != Traversable(a) {
		t.Errorf("GetReferrers(b) = %v, want [a]", referrers)
	}
}

func TestCollectorShutdownSuppressesCallbacks(t *testing.T) {
	c, reg, _ := newTestCollector(t)

	calls := 0
	c.AddCallback(func(string, CallbackInfo) { calls++ })

	a := newTestObj(reg)
	a.link(a)
	a.rc.IncLocal(-1)

	c.Shutdown()

	if calls != 0 {
		t.Errorf("callbacks ran %d times during Shutdown, want 0", calls)
	}
}

func TestCollectorIsTrackedIsFinalized(t *testing.T) {
	c, reg, _ := newTestCollector(t)

	a := newTestObj(reg)

	if !c.IsTracked(a) {
		t.Error("a should be tracked after Register")
	}

	if c.IsFinalized(a) {
		t.Error("a should not be finalized yet")
	}
}
