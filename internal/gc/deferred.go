package gc

// Retain/Release materialize stack-held references for the duration of
// a collection: references to designated object kinds (code, function,
// frame, generator/coroutine) are not counted by the normal refcount
// until a collection needs to reason about reachability, so Retain adds
// them back temporarily and Release removes them again afterward.
// Grounded conceptually on
// other_examples/7d722357_gavlooth-c3-ffi-demo__pkg-memory-deferred.go.go's
// "deferred reference counting... fallback for mutable cyclic
// structures" idea, adapted from that file's generated-C
// batch-processing shape into a direct two-phase retain/release, and on
// internal/runtime/refcount_optimizer.go's FlagDeferred bit.

// retainedRoot records, for one thread, the use_deferred_rc flag the
// retain phase saved and how many roots it incremented, so Release can
// restore the flag and undo that thread's increments.
type retainedRoot struct {
	thread     ThreadID
	wasDefer   bool
	visitCount int
}

// Retain walks every thread's frame chain and every suspended task on
// its heap, incrementing the refcount of every deferred-RC object it
// finds, and clears each thread's use_deferred_rc flag so a decrement
// to zero during the collection frees immediately rather than being
// deferred again. It returns the bookkeeping Release needs to
// symmetrically undo this pass.
func Retain(reg ThreadRegistry) []retainedRoot {
	var done []retainedRoot

	for _, tid := range reg.Threads() {
		wasDefer := reg.UseDeferredRC(tid)
		reg.SetUseDeferredRC(tid, false)

		n := retainFrameChain(reg.TopFrame(tid))
		for _, task := range reg.SuspendedTasks(tid) {
			n += retainRoots(task.MaterializeRoots())
		}

		done = append(done, retainedRoot{thread: tid, wasDefer: wasDefer, visitCount: n})
	}

	return done
}

// Release restores each thread's use_deferred_rc flag first (so
// subsequent decrements can re-enter deferred mode) and only then
// decrements what Retain added, walking the same frame chain and
// suspended tasks again.
func Release(reg ThreadRegistry, retained []retainedRoot) {
	for _, r := range retained {
		reg.SetUseDeferredRC(r.thread, r.wasDefer)

		n := releaseFrameChain(reg.TopFrame(r.thread))
		for _, task := range reg.SuspendedTasks(r.thread) {
			n += releaseRoots(task.MaterializeRoots())
		}

		_ = n // not compared against r.visitCount
	}
}

func retainFrameChain(f Frame) int {
	n := 0
	for ; f != nil; f = f.Parent() {
		n += retainRoots(f.Roots())
	}

	return n
}

func releaseFrameChain(f Frame) int {
	n := 0
	for ; f != nil; f = f.Parent() {
		n += releaseRoots(f.Roots())
	}

	return n
}

func retainRoots(roots []Traversable) int {
	for _, obj := range roots {
		if obj == nil {
			continue
		}

		obj.RefCount().IncLocal(1)
	}

	return len(roots)
}

func releaseRoots(roots []Traversable) int {
	for _, obj := range roots {
		if obj == nil {
			continue
		}

		obj.RefCount().IncLocal(-1)
	}

	return len(roots)
}
