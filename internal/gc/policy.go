package gc

import (
	"sync"
	"time"
)

// Debug flag bits for Policy.SetDebug/GetDebug, matching the historical
// gc-module bit layout. STATS fills CallbackInfo.Duration on the "stop"
// callback; SAVEALL sends every unreachable object to garbage instead
// of clearing it. COLLECTABLE and UNCOLLECTABLE are stored and read
// back, but nothing in this package acts on them or prints anything.
const (
	DebugStats         = 1
	DebugCollectable   = 2
	DebugUncollectable = 4
	DebugSaveAll       = 32
	DebugLeak          = DebugCollectable | DebugUncollectable | DebugSaveAll
)

// TriggerReason names why a collection was requested.
type TriggerReason int

const (
	// TriggerManual is an explicit Collect() call from a script.
	TriggerManual TriggerReason = iota
	// TriggerHeap is the allocator-path check against the live threshold.
	TriggerHeap
	// TriggerShutdown is the final collection run at interpreter teardown.
	TriggerShutdown
)

// NumGenerations is the number of logical generations the policy
// surface reports, even though the engine always collects the whole
// tracked heap in one pass.
const NumGenerations = 3

// defaultThresholdFloor prevents threshold thrashing on small heaps,
// mirroring the historical gc module's default generation-0 threshold.
const defaultThresholdFloor = 700

// defaultGrowthScale is the percentage used to grow the threshold past
// the current live count after a collection, overridable by the
// growth-scale environment variable.
const defaultGrowthScale = 100

// CallbackInfo is the payload passed to a registered start/stop
// callback. Duration is only populated on the "stop" callback, and
// only when DebugStats is set; it is the wall-clock time the
// collection's phases took, the Go-side equivalent of gcmodule.c's
// `if (debug & DEBUG_STATS) fprintf(stderr, "gc: done...")` timing line.
type CallbackInfo struct {
	Generation    int
	Collected     int
	Uncollectable int
	Duration      time.Duration
}

// Callback is a user hook invoked around a collection with phase
// "start" or "stop".
type Callback func(phase string, info CallbackInfo)

// Policy holds the collector's eligibility, debug, threshold, and
// callback state — the "global mutable state... a single record
// accessed only under the STW barrier" design, kept here as one struct
// the collector embeds rather than a package-level global, matching
// internal/allocator's convention of State structs over globals.
type Policy struct {
	mu sync.Mutex

	enabled bool
	debug   int

	thresholds [NumGenerations]int
	scale      int

	callbacks []Callback
	shutdown  bool

	frozen bool // freeze()/unfreeze() toggle; collection behavior is unaffected
}

// NewPolicy returns an enabled policy with default thresholds and the
// growth scale read from the environment (see env.go).
func NewPolicy() *Policy {
	p := &Policy{
		enabled: true,
		scale:   growthScaleFromEnv(defaultGrowthScale),
	}
	p.thresholds[0] = defaultThresholdFloor

	return p
}

// Enable/Disable/IsEnabled toggle automatic HEAP-triggered collection;
// MANUAL and SHUTDOWN triggers always run regardless.
func (p *Policy) Enable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = true
}

func (p *Policy) Disable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = false
}

func (p *Policy) IsEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.enabled
}

// ShouldCollect reports whether a collection triggered by reason
// should actually run, given the current live object count.
func (p *Policy) ShouldCollect(reason TriggerReason, live int) bool {
	if reason == TriggerManual || reason == TriggerShutdown {
		return true
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled {
		return false
	}

	return live > p.thresholds[0]
}

// UpdateThreshold recomputes the generation-0 threshold from the live
// count observed after a collection completes.
func (p *Policy) UpdateThreshold(live int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	grown := live + live*p.scale/100
	if grown < defaultThresholdFloor {
		grown = defaultThresholdFloor
	}

	p.thresholds[0] = grown
}

// SetDebug/GetDebug set and read the debug flag bitmask.
func (p *Policy) SetDebug(flags int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.debug = flags
}

func (p *Policy) GetDebug() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.debug
}

func (p *Policy) saveAll() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.debug&DebugSaveAll != 0
}

// statsEnabled reports whether DEBUG_STATS is set, gating the
// per-collection duration measurement threaded into CallbackInfo.
func (p *Policy) statsEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.debug&DebugStats != 0
}

// SetThreshold stores up to three generation thresholds. Only t0 (the
// first argument) affects ShouldCollect/UpdateThreshold; t1/t2 are
// stored and read back for API compatibility but never consulted,
// matching the historical per-generation threshold that the
// single-generation engine leaves unused.
func (p *Policy) SetThreshold(t0 int, rest ...int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.thresholds[0] = t0

	for i, v := range rest {
		if i+1 >= NumGenerations {
			break
		}

		p.thresholds[i+1] = v
	}
}

// GetThreshold returns the three stored generation thresholds.
func (p *Policy) GetThreshold() (int, int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.thresholds[0], p.thresholds[1], p.thresholds[2]
}

// AddCallback registers a start/stop hook, returning its index so
// RemoveCallback can find it again.
func (p *Policy) AddCallback(cb Callback) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.callbacks = append(p.callbacks, cb)

	return len(p.callbacks) - 1
}

// RemoveCallback clears the callback at index, leaving a hole rather
// than reindexing so earlier indices stay valid.
func (p *Policy) RemoveCallback(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= len(p.callbacks) {
		return
	}

	p.callbacks[index] = nil
}

// runCallbacks invokes every registered callback with phase/info,
// unless the policy is in its shutdown path, matching the rule that
// even unraisable reporting is suppressed during interpreter teardown.
func (p *Policy) runCallbacks(phase string, info CallbackInfo) {
	p.mu.Lock()
	shuttingDown := p.shutdown
	cbs := make([]Callback, len(p.callbacks))
	copy(cbs, p.callbacks)
	p.mu.Unlock()

	if shuttingDown {
		return
	}

	for _, cb := range cbs {
		if cb != nil {
			cb(phase, info)
		}
	}
}

// SetShutdown marks the policy as being in the interpreter-teardown
// path: subsequent callbacks are suppressed.
func (p *Policy) SetShutdown(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shutdown = v
}

// Freeze/Unfreeze/GetFreezeCount are no-ops in a single-generation
// engine; frozen is tracked purely so GetFreezeCount has something
// non-trivial to report back.
func (p *Policy) Freeze() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frozen = true
}

func (p *Policy) Unfreeze() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frozen = false
}

func (p *Policy) GetFreezeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.frozen {
		return 1
	}

	return 0
}
