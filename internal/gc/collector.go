package gc

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Collector is the top-level facade wiring every phase — dead pickup,
// the cycle kernel, the finalization pipeline, and the stop-the-world
// driver — into one Collect call, and exposing the programmatic
// surface a scripting layer would bind to. Grounded on
// internal/runtime/actor_system.go's ActorSystem as "the one struct
// that owns every subsystem and exposes lifecycle methods", adapted
// from actor start/stop/dispatch into collect/enable/disable/stats.
type Collector struct {
	reg      *Registry
	walker   *HeapWalker
	weakrefs *WeakRefStore
	kernel   *Kernel
	pipeline *Pipeline
	stw      *StopTheWorld
	policy   *Policy
	stats    *Stats

	threads ThreadRegistry
	self    ThreadID

	garbage *List

	liveCount int64 // gc_live: relaxed atomic, read by the trigger check

	mergeParallelism int
}

// NewCollector wires reg/threads/self and the decRef/report
// collaborators into a ready-to-use Collector. decRef drops one
// reference on obj through the (out-of-scope) object model's ordinary
// refcount path, cascading a free at zero; report receives unraisable
// diagnostics from finalization hooks. mergeParallelism bounds how
// many goroutines share the cross-thread refcount merge.
func NewCollector(reg *Registry, arena *PageArena, threads ThreadRegistry, self ThreadID, decRef func(Traversable), report UnraisableHook, cantStop func() bool, mergeParallelism int) *Collector {
	weakrefs := NewWeakRefStore()
	kernel := NewKernel(reg)

	if mergeParallelism < 1 {
		mergeParallelism = 1
	}

	return &Collector{
		reg:              reg,
		walker:           NewHeapWalker(arena),
		weakrefs:         weakrefs,
		kernel:           kernel,
		pipeline:         NewPipeline(reg, weakrefs, kernel, report, decRef),
		stw:              NewStopTheWorld(cantStop),
		policy:           NewPolicy(),
		stats:            NewStats(),
		threads:          threads,
		self:             self,
		garbage:          NewList(),
		mergeParallelism: mergeParallelism,
	}
}

// WeakRefs returns the store the (out-of-scope) weak-reference data
// structure should register and unregister against.
func (c *Collector) WeakRefs() *WeakRefStore { return c.weakrefs }

// NotifyAlloc/NotifyFree maintain the live-object counter the HEAP
// trigger reads; callers invoke these from the allocator's alloc/free
// paths regardless of whether the object in question is ever tracked.
func (c *Collector) NotifyAlloc(n int64) {
	atomic.AddInt64(&c.liveCount, n)
}

func (c *Collector) NotifyFree(n int64) {
	atomic.AddInt64(&c.liveCount, -n)
}

// Enable/Disable/IsEnabled toggle automatic HEAP-triggered collection.
func (c *Collector) Enable()         { c.policy.Enable() }
func (c *Collector) Disable()        { c.policy.Disable() }
func (c *Collector) IsEnabled() bool { return c.policy.IsEnabled() }

// Collect forces a collection. generation is validated to
// [0, NumGenerations) but otherwise does not alter behavior: the
// engine always walks the full tracked heap.
func (c *Collector) Collect(generation int) (int, error) {
	return c.collect(TriggerManual, generation)
}

// CheckHeapTrigger runs a HEAP-triggered collection if the live count
// exceeds the adaptive threshold, called by the allocator's hot path
// after NotifyAlloc. It never returns an error: generation 0 is always
// in range.
func (c *Collector) CheckHeapTrigger() int {
	n, _ := c.collect(TriggerHeap, 0)

	return n
}

func (c *Collector) collect(reason TriggerReason, generation int) (int, error) {
	if generation < 0 || generation >= NumGenerations {
		return 0, fmt.Errorf("gc: collect: %w: %d", ErrInvalidGeneration, generation)
	}

	live := int(atomic.LoadInt64(&c.liveCount))
	if !c.policy.ShouldCollect(reason, live) {
		return 0, nil
	}

	n := c.stw.Run(c.threads, c.self, c.reg.Snapshot(), c.mergeParallelism, func() int {
		return c.runPhases()
	})

	return n, nil
}

// runPhases executes the control flow of one collection: retain
// deferred roots, Pass A/A', the cycle kernel's deduce-unreachable,
// the six-step finalization pipeline, threshold update, stats, and
// start/stop callbacks. It runs entirely under the stop-the-world
// barrier StopTheWorld.Run holds.
func (c *Collector) runPhases() int {
	var start time.Time
	if c.policy.statsEnabled() {
		start = time.Now()
	}

	c.policy.runCallbacks("start", CallbackInfo{Generation: 0})

	retained := Retain(c.threads)
	defer Release(c.threads, retained)

	objs := c.reg.Snapshot()

	young := NewList()
	dead := NewList()
	c.kernel.UpdateRefs(objs, young, dead)
	c.kernel.ReleaseDead(dead, c.pipelineDecRef)

	unreachable := NewList()
	c.kernel.DeduceUnreachable(young, unreachable)

	c.pipeline.SetSaveAll(c.policy.saveAll())

	finalizers, finalUnreachable, freed := c.pipeline.Run(unreachable)

	finalizersCount := finalizers.Size()
	finalUnreachableCount := finalUnreachable.Size()

	c.pipeline.Publish(finalizers, finalUnreachable, c.garbage)

	uncollectable := finalizersCount
	if c.policy.saveAll() {
		uncollectable += finalUnreachableCount
	}

	collected := dead.Size() + freed

	c.policy.UpdateThreshold(int(atomic.LoadInt64(&c.liveCount)))
	c.stats.Record(collected, uncollectable)

	stopInfo := CallbackInfo{Generation: 0, Collected: collected, Uncollectable: uncollectable}
	if !start.IsZero() {
		stopInfo.Duration = time.Since(start)
	}

	c.policy.runCallbacks("stop", stopInfo)

	return collected
}

// pipelineDecRef is passed to ReleaseDead so Pass A' frees through the
// same decRef the finalization pipeline uses.
func (c *Collector) pipelineDecRef(obj Traversable) {
	c.pipeline.decRef(obj)
}

// SetDebug/GetDebug/SetThreshold/GetThreshold forward to the policy.
func (c *Collector) SetDebug(flags int)             { c.policy.SetDebug(flags) }
func (c *Collector) GetDebug() int                  { return c.policy.GetDebug() }
func (c *Collector) SetThreshold(t0 int, rest ...int) {
	c.policy.SetThreshold(t0, rest...)
}
func (c *Collector) GetThreshold() (int, int, int) { return c.policy.GetThreshold() }

// GetCount returns (live, 0, 0): the single-generation engine never
// populates the other two counters.
func (c *Collector) GetCount() (int, int, int) {
	return int(atomic.LoadInt64(&c.liveCount)), 0, 0
}

// GetStats returns a snapshot of the per-generation collection counters.
func (c *Collector) GetStats() [NumGenerations]GenStats {
	return c.stats.Snapshot()
}

// GetObjects returns a snapshot of every tracked object, excluding the
// result slice itself (there is nothing further to exclude since the
// slice is not itself a tracked object here).
func (c *Collector) GetObjects() []Traversable {
	return c.reg.Snapshot()
}

// GetReferents returns every tracked object directly reachable from
// any of objs via Traverse.
func (c *Collector) GetReferents(objs ...Traversable) []Traversable {
	var out []Traversable

	for _, obj := range objs {
		obj.Traverse(func(child *Header) int {
			if cobj, ok := c.reg.Lookup(child.ID()); ok {
				out = append(out, cobj)
			}

			return 0
		})
	}

	return out
}

// GetReferrers returns every tracked object that directly references
// any of objs via Traverse. O(tracked objects × their fan-out); meant
// for debugging, not the collection hot path.
func (c *Collector) GetReferrers(objs ...Traversable) []Traversable {
	targets := make(map[ObjectID]struct{}, len(objs))
	for _, obj := range objs {
		targets[obj.Header().ID()] = struct{}{}
	}

	var out []Traversable

	for _, candidate := range c.reg.Snapshot() {
		found := false

		candidate.Traverse(func(child *Header) int {
			if _, ok := targets[child.ID()]; ok {
				found = true

				return 1
			}

			return 0
		})

		if found {
			out = append(out, candidate)
		}
	}

	return out
}

// IsTracked reports whether obj is registered with the collector.
func (c *Collector) IsTracked(obj Traversable) bool {
	return obj.Header().HasFlag(FlagTracked)
}

// IsFinalized reports whether obj's tp_finalize has already run.
func (c *Collector) IsFinalized(obj Traversable) bool {
	return obj.Header().HasFlag(FlagFinalized)
}

// Freeze/Unfreeze/GetFreezeCount forward to the policy; no-ops beyond
// reporting, matching the single-generation engine's design.
func (c *Collector) Freeze()             { c.policy.Freeze() }
func (c *Collector) Unfreeze()           { c.policy.Unfreeze() }
func (c *Collector) GetFreezeCount() int { return c.policy.GetFreezeCount() }

// Garbage returns the mutable list of uncollectable objects (legacy
// tp_del survivors, and under SAVEALL every unreachable object). It is
// exposed directly, not copied, so scripts can clear or append to it
// the way gc.garbage is a real mutable list.
func (c *Collector) Garbage() *List { return c.garbage }

// AddCallback/RemoveCallback register/clear a start/stop hook.
func (c *Collector) AddCallback(cb Callback) int { return c.policy.AddCallback(cb) }
func (c *Collector) RemoveCallback(index int)    { c.policy.RemoveCallback(index) }

// Shutdown runs a final collection with callbacks and unraisable
// reporting suppressed, matching the interpreter-teardown error-
// handling rule that even unraisable diagnostics are silently cleared.
func (c *Collector) Shutdown() {
	c.policy.SetShutdown(true)
	c.pipeline.report = func(string, error, Traversable) {}

	_, _ = c.collect(TriggerShutdown, 0)
}
