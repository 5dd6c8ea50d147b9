package gc

// Pipeline runs the six-step finalization protocol over the objects
// the cycle kernel deduced unreachable, directly grounded on
// original_source/Modules/gcmodule.c's handle_legacy_finalizers /
// handle_weakrefs / finalize_garbage / delete_garbage.
// internal/runtime/refcount_optimizer.go's CycleBreaker/
// CycleBreakStrategy pairing is the Go-side shape for a pluggable
// breaking step, generalized here into a fixed six-step order where no
// two phases interleave.
type Pipeline struct {
	reg      *Registry
	weakrefs *WeakRefStore
	kernel   *Kernel
	report   UnraisableHook
	decRef   func(Traversable) // drops one ref, cascading an ordinary free at zero
	saveAll  bool              // DEBUG_SAVEALL: every unreachable object goes to garbage
}

// NewPipeline returns a finalization pipeline over reg/weakrefs/kernel.
// decRef must implement the ordinary (non-cyclic) refcount-to-zero
// free path the object model owns; the pipeline calls it to drop the
// temporary references it takes around each hook invocation.
func NewPipeline(reg *Registry, weakrefs *WeakRefStore, kernel *Kernel, report UnraisableHook, decRef func(Traversable)) *Pipeline {
	if report == nil {
		report = defaultUnraisableHook
	}

	return &Pipeline{reg: reg, weakrefs: weakrefs, kernel: kernel, report: report, decRef: decRef}
}

// SetSaveAll toggles DEBUG_SAVEALL: when true, Publish sends every
// unreachable object to garbage regardless of how it was finalized.
func (p *Pipeline) SetSaveAll(v bool) { p.saveAll = v }

// Run executes steps 1-5 over unreachable and returns the finalizers
// list and the post-resurrection-check final-unreachable list (step
// 6's inputs) plus the count of objects actually freed by tp_clear
// reaching refcount zero (resurrected or legacy-held objects are not
// counted). Under SAVEALL, step 5 is skipped entirely — every object
// in finalUnreachable is left for Publish to send to garbage instead
// of being cleared, matching gcmodule.c's DEBUG_SAVEALL behavior.
func (p *Pipeline) Run(unreachable *List) (finalizers, finalUnreachable *List, freed int) {
	finalizers = NewList()

	p.legacyFilter(unreachable, finalizers)
	p.handleWeakrefs(unreachable)
	p.runFinalizers(unreachable)

	finalUnreachable = NewList()
	p.kernel.ResurrectionCheck(unreachable, finalUnreachable)
	p.releaseSurvivors(unreachable) // objects resurrection proved still reachable

	if p.saveAll {
		return finalizers, finalUnreachable, 0
	}

	freed = p.runTpClear(finalUnreachable)

	return finalizers, finalUnreachable, freed
}

// legacyFilter is step 1: objects with a legacy tp_del, and anything
// reachable from them, are pulled out of unreachable into finalizers
// and kept alive. The transitive closure is computed with a
// fixed-point move-walk, matching gcmodule.c's move_legacy_finalizers
// / move_legacy_finalizer_reachable.
func (p *Pipeline) legacyFilter(unreachable, finalizers *List) {
	unreachable.ForEach(func(h *Header) {
		obj, ok := p.reg.Lookup(h.ID())
		if !ok {
			return
		}

		if obj.HasLegacyFinalizer() {
			p.runLegacyDel(h, obj)
			MoveTo(h, finalizers)
		}
	})

	for changed := true; changed; {
		changed = false

		finalizers.ForEach(func(h *Header) {
			obj, ok := p.reg.Lookup(h.ID())
			if !ok {
				return
			}

			obj.Traverse(func(child *Header) int {
				if !child.HasFlag(FlagTracked) || !child.IsUnreachable() {
					return 0
				}

				if cobj, ok := p.reg.Lookup(child.ID()); ok && cobj.HasLegacyFinalizer() {
					p.runLegacyDel(child, cobj)
				}

				MoveTo(child, finalizers)

				changed = true

				return 0
			})
		})
	}
}

func (p *Pipeline) runLegacyDel(h *Header, obj Traversable) {
	ld, ok := obj.(LegacyFinalizable)
	if !ok || h.HasFlag(FlagFinalized) {
		return
	}

	h.SetFlag(FlagFinalized)
	obj.RefCount().IncLocal(1)

	if err := ld.LegacyDel(); err != nil {
		p.report("tp_del", err, obj)
	}

	obj.RefCount().IncLocal(-1)
}

// handleWeakrefs is step 2. For every object left in unreachable: if
// the object is itself a weak reference, clear it so its own callback
// cannot fire later; for every weak reference pointing at it, either
// discard the callback (both parties are trash) or clear the weak
// reference and queue it with a temporary reference; then clear and
// untrack all weak references to the object. Queued callbacks run
// only after every object in unreachable has been processed, never
// interleaved with it.
func (p *Pipeline) handleWeakrefs(unreachable *List) {
	wrcbToCall := NewList()

	unreachable.ForEach(func(h *Header) {
		obj, ok := p.reg.Lookup(h.ID())
		if !ok {
			return
		}

		if w, isWeakRef := obj.(WeakRef); isWeakRef {
			w.ClearOne()
		}

		for _, w := range p.weakrefs.IterateCallbacks(h.ID()) {
			wh := w.Header()
			if wh.IsUnreachable() {
				continue // both referrer and referent are trash: callback discarded
			}

			w.ClearOne()
			w.RefCount().IncLocal(1)
			wrcbToCall.Append(wh)
		}

		for _, w := range p.weakrefs.Untrack(h.ID()) {
			w.ClearOne()
		}
	})

	wrcbToCall.ForEach(func(wh *Header) {
		Remove(wh)

		w, ok := p.reg.Lookup(wh.ID())
		if !ok {
			return
		}

		wr := w.(WeakRef) //nolint:forcetypeassert // only WeakRefs are ever appended to wrcbToCall
		if err := wr.InvokeCallback(); err != nil {
			p.report("weakref callback", err, w)
		}

		p.decRef(w) // drop the temporary reference added above
	})
}

// runFinalizers is step 3. It walks unreachable destructively: every
// object not yet FINALIZED gets FlagFinalized set, a temporary
// reference, a call to Finalize, and the reference dropped. Finalize
// may resurrect the object arbitrarily; step 4 re-checks reachability.
func (p *Pipeline) runFinalizers(unreachable *List) {
	unreachable.ForEach(func(h *Header) {
		obj, ok := p.reg.Lookup(h.ID())
		if !ok {
			return
		}

		fin, ok := obj.(Finalizable)
		if !ok || h.HasFlag(FlagFinalized) {
			return
		}

		h.SetFlag(FlagFinalized)
		obj.RefCount().IncLocal(1)

		if err := fin.Finalize(); err != nil {
			p.report("tp_finalize", err, obj)
		}

		obj.RefCount().IncLocal(-1)
	})
}

// releaseSurvivors clears FlagCollecting from whatever ResurrectionCheck
// left behind in unreachable (objects a finalizer resurrected): their
// own refcount now keeps them alive, so no further GC action is taken.
func (p *Pipeline) releaseSurvivors(unreachable *List) {
	unreachable.ForEach(func(h *Header) {
		h.ClearFlag(FlagCollecting)
	})
	unreachable.Clear()
}

// runTpClear is step 5. For every object in finalUnreachable it adds a
// temporary reference, calls ClearRefs (expected to release owned
// references and so break the cycle), and drops the reference. Once
// every object has been cleared, an object whose refcount is still
// positive resurrected itself at the last moment and is left alone;
// every other object is freed.
func (p *Pipeline) runTpClear(finalUnreachable *List) int {
	finalUnreachable.ForEach(func(h *Header) {
		obj, ok := p.reg.Lookup(h.ID())
		if !ok {
			return
		}

		obj.RefCount().IncLocal(1)

		if err := obj.ClearRefs(); err != nil {
			p.report("tp_clear", err, obj)
		}

		obj.RefCount().IncLocal(-1)
	})

	freed := 0

	finalUnreachable.ForEach(func(h *Header) {
		obj, ok := p.reg.Lookup(h.ID())
		if !ok {
			return
		}

		if obj.RefCount().Effective() > 0 {
			return
		}

		h.ClearFlag(FlagCollecting)
		p.decRef(obj)
		freed++
	})

	return freed
}

// Publish is step 6: objects that survived via tp_del (and, under
// SAVEALL, every object Run left in finalUnreachable instead of
// clearing) are appended to garbage; finalizers is emptied by the move.
func (p *Pipeline) Publish(finalizers, finalUnreachable, garbage *List) {
	if p.saveAll {
		finalUnreachable.ForEach(func(h *Header) {
			MoveTo(h, garbage)
		})
	}

	finalizers.ForEach(func(h *Header) {
		MoveTo(h, garbage)
	})
}
