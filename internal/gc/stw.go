package gc

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// StopTheWorld orchestrates the barrier a collection requires:
// acquire a process-wide mutex, signal every other thread to suspend
// at its next safe point, confirm no other collection is already in
// progress, run the collection, then resume the world. Grounded on
// internal/runtime/actor_system.go's mutex-guarded, system-wide
// start/stop orchestration generalized from "one actor system" to
// "one collector".
type StopTheWorld struct {
	mu         sync.Mutex
	collecting bool
	cantStop   func() bool
}

// NewStopTheWorld returns a driver. cantStop, if non-nil, is polled
// once per attempt and models the caller's cant_stop_wont_stop flag:
// code paths inside the runtime that hold invariants a collection
// would break set it to abort the attempt.
func NewStopTheWorld(cantStop func() bool) *StopTheWorld {
	return &StopTheWorld{cantStop: cantStop}
}

// Run executes fn under the stop-the-world barrier and returns fn's
// result, or 0 without running fn if a collection is already in
// progress (re-entrance) or cantStop reports true (abort). tracked is
// the working set whose shared refcount words get merged before fn
// runs; mergeParallelism bounds how many goroutines share that work.
func (d *StopTheWorld) Run(reg ThreadRegistry, self ThreadID, tracked []Traversable, mergeParallelism int, fn func() int) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.collecting {
		return 0
	}

	if d.cantStop != nil && d.cantStop() {
		return 0
	}

	d.collecting = true
	defer func() { d.collecting = false }()

	reg.RequestSuspend(self)
	reg.Await(self)

	defer reg.Resume()

	// Best-effort: a real cross-thread RC merge failure would indicate
	// a corrupted shared word, which is a debug-build invariant
	// violation elsewhere, not something Collect can recover from.
	_ = mergeCrossThreadDeltas(tracked, mergeParallelism)

	return fn()
}

// mergeCrossThreadDeltas drains every tracked object's shared refcount
// word into its local word before Pass A runs, so effective refcounts
// are globally consistent. It fans the merge out across
// mergeParallelism goroutines with golang.org/x/sync/errgroup, the
// same import cmd/orizon/pkg/utils/graph.go uses, since merging is
// purely per-object CAS work with no cross-object dependency.
func mergeCrossThreadDeltas(objs []Traversable, parallelism int) error {
	if len(objs) == 0 {
		return nil
	}

	if parallelism < 1 {
		parallelism = 1
	}

	chunk := (len(objs) + parallelism - 1) / parallelism

	var g errgroup.Group

	for i := 0; i < len(objs); i += chunk {
		end := i + chunk
		if end > len(objs) {
			end = len(objs)
		}

		part := objs[i:end]

		g.Go(func() error {
			for _, obj := range part {
				obj.RefCount().Merge()
			}

			return nil
		})
	}

	return g.Wait()
}
