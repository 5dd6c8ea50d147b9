package gc

// Kernel runs the four-pass cycle-detection algorithm over a working
// set of tracked objects: update_refs, subtract_refs,
// move_unreachable, and deduce_unreachable (subtract_refs followed by
// move_unreachable, reused verbatim by the finalization pipeline's
// resurrection re-check in finalize.go). Directly grounded on
// original_source/Modules/gcmodule.c's functions of the same name;
// Go-side texture (comment density, struct shape) follows
// internal/runtime/refcount_optimizer.go's cycle-detection section.
type Kernel struct {
	reg *Registry
}

// NewKernel returns a kernel operating over reg.
func NewKernel(reg *Registry) *Kernel {
	return &Kernel{reg: reg}
}

// UpdateRefs is Pass A. For every object in objs it copies the
// object's effective refcount into gc_refs and threads it into young.
// Objects whose effective refcount is already 0 are deferred-RC
// objects whose real count is zero — not cycles, just temporarily
// rooted — and are appended to dead instead (Pass A′, handled by
// ReleaseDead).
func (k *Kernel) UpdateRefs(objs []Traversable, young, dead *List) {
	for _, obj := range objs {
		h := obj.Header()
		eff := obj.RefCount().Effective()

		if eff == 0 {
			h.SetGCRefs(0)
			dead.Append(h)

			continue
		}

		h.SetFlag(FlagCollecting)
		young.Append(h)
		h.SetGCRefs(eff)
	}
}

// ReleaseDead implements Pass A′: clears the deferred bit on every
// object in dead and frees it immediately via decRef, short-circuiting
// the cycle algorithm for that object's subgraph. decRef is supplied
// by the collector so this package does not need to know how ordinary
// refcount-zero frees cascade through the rest of the runtime.
func (k *Kernel) ReleaseDead(dead *List, decRef func(Traversable)) {
	dead.ForEach(func(h *Header) {
		obj, ok := k.reg.Lookup(h.ID())
		if !ok {
			return
		}

		obj.RefCount().SetDeferred(false)
		decRef(obj)
	})
}

// SubtractRefs is Pass B. It walks every object in young and calls its
// Traverse; for each visited child that is tracked and has gc_refs > 0,
// it decrements that child's gc_refs. Self-loops are safe because this
// decrements rather than zeroing.
func (k *Kernel) SubtractRefs(young *List) {
	young.ForEach(func(h *Header) {
		obj, ok := k.reg.Lookup(h.ID())
		if !ok {
			return
		}

		obj.Traverse(func(child *Header) int {
			if child.HasFlag(FlagTracked) && child.GCRefs() > 0 {
				child.IncGCRefs(-1)
			}

			return 0
		})
	})
}

// MoveUnreachable is Pass C. It scans young left to right, maintaining
// the invariant that everything to the left of the cursor is proven
// reachable, and partitions young into "proven reachable" (left in
// young) and unreachable (moved to the unreachable list). Promoted
// objects are appended rather than spliced in immediately after the
// cursor; because promotion only ever sets gc_refs=1 without
// relocating already-proven nodes, the forward scan still reaches them
// exactly once, keeping the walk linear in the number of edges scanned.
//
// While this pass runs, every node still in young has its prev field
// doubling as the gc_refs scratch value (see header.go), not a valid
// list-predecessor pointer. So unlinking a node from young cannot go
// through the generic Remove/MoveTo (both read h.prevPtr()) — instead
// the scan tracks the last node still known to remain in young in a
// local variable and patches only next pointers, the same trick
// original_source/Modules/gcmodule.c's move_unreachable uses. A node is
// only handed to unreachable.Append once it has left young, at which
// point its prev field is free to become a real pointer again.
func (k *Kernel) MoveUnreachable(young, unreachable *List) {
	sentinel := young.Sentinel()
	prevKept := sentinel

	for op := sentinel.nextPtr(); op != sentinel; {
		next := op.nextPtr()

		if op.GCRefs() > 0 {
			if obj, ok := k.reg.Lookup(op.ID()); ok {
				obj.Traverse(func(child *Header) int {
					promoteIfReachable(child, young)

					return 0
				})
			}

			prevKept = op
		} else {
			op.SetUnreachable()
			prevKept.setNextPtr(next)

			if next == sentinel {
				sentinel.setPrevPtr(prevKept)
			}

			unreachable.Append(op)
		}

		op = next
	}
}

// promoteIfReachable implements visit_reachable: a child already
// parked in unreachable is pulled back into young with gc_refs=1; a
// child still in young with gc_refs==0 (not yet scanned by the cursor)
// is simply bumped to gc_refs=1 so the forward scan will treat it as
// reachable when it gets there. Untracked children are ignored.
func promoteIfReachable(child *Header, young *List) {
	if !child.HasFlag(FlagTracked) {
		return
	}

	if child.IsUnreachable() {
		child.ClearUnreachable()
		Remove(child)
		young.Append(child)
		child.SetGCRefs(1)

		return
	}

	if child.GCRefs() == 0 {
		child.SetGCRefs(1)
	}
}

// ResurrectionCheck implements the resurrection re-check: every object still
// in unreachable has its gc_refs reset to its current effective
// refcount (a finalizer may have resurrected it) and its UNREACHABLE
// bit cleared, then DeduceUnreachable re-runs subtract_refs/
// move_unreachable over the same list, producing finalUnreachable.
// Objects no longer unreachable stay behind in unreachable, kept alive
// by their own refcount.
func (k *Kernel) ResurrectionCheck(unreachable, finalUnreachable *List) {
	unreachable.ForEach(func(h *Header) {
		obj, ok := k.reg.Lookup(h.ID())
		if !ok {
			return
		}

		h.ClearUnreachable()
		h.SetGCRefs(obj.RefCount().Effective())
	})

	k.DeduceUnreachable(unreachable, finalUnreachable)
}

// DeduceUnreachable runs subtract_refs followed by move_unreachable and
// then re-validates unreachable's prev chain as a final safety pass;
// move_unreachable already builds unreachable through ordinary
// list.Append calls, so this is normally a no-op, but it keeps the list
// self-consistent even if a future caller hands DeduceUnreachable a
// non-empty unreachable to append onto. It is used both for the initial
// pass and, unchanged, for the resurrection re-check in finalize.go.
func (k *Kernel) DeduceUnreachable(young, unreachable *List) {
	k.SubtractRefs(young)
	k.MoveUnreachable(young, unreachable)
	relinkPrevFromNext(unreachable.Sentinel())
}
