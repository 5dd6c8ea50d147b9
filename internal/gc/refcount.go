package gc

import "sync/atomic"

// localWord and sharedWord pack an object's reference count together
// with the bits described below: local carries immortal/deferred
// status, shared carries the queued/merged bits that let another
// thread's pending decrements be accounted for before they are
// actually applied. Grounded on internal/runtime/refcount_optimizer.go's
// RefCountedObject.RefCount (an atomic int64) generalized to the
// cross-thread split this scheme requires; no file in the retrieved pack
// implements biased/deferred RC across threads, so the bit layout
// below is built directly from that description.
const (
	localImmortalBit = uint64(1) << 63
	localDeferredBit = uint64(1) << 62
	localCountMask   = (localImmortalBit - 1) &^ localDeferredBit // low 62 bits

	sharedQueuedBit = uint64(1) << 63
	sharedMergedBit = uint64(1) << 62
	sharedCountMask = ^(sharedQueuedBit | sharedMergedBit)
)

// RefCount is the split reference count of one tracked object: a local
// word the allocating thread owns outright, and a shared word any
// thread may update with a compare-and-swap.
type RefCount struct {
	local  uint64
	shared uint64
}

// Local returns the non-deferred, non-immortal portion of the local count.
func (rc *RefCount) Local() int64 {
	return int64(atomic.LoadUint64(&rc.local) & localCountMask)
}

// IsImmortal reports whether the object is exempt from refcounting entirely.
func (rc *RefCount) IsImmortal() bool {
	return atomic.LoadUint64(&rc.local)&localImmortalBit != 0
}

// IsDeferred reports whether this object uses deferred reference
// counting: stack references to it are not counted until a collection
// makes them explicit.
func (rc *RefCount) IsDeferred() bool {
	return atomic.LoadUint64(&rc.local)&localDeferredBit != 0
}

// SetDeferred toggles the DEFERRED_RC bit without disturbing the count.
func (rc *RefCount) SetDeferred(deferred bool) {
	for {
		old := atomic.LoadUint64(&rc.local)
		next := old

		if deferred {
			next |= localDeferredBit
		} else {
			next &^= localDeferredBit
		}

		if atomic.CompareAndSwapUint64(&rc.local, old, next) {
			return
		}
	}
}

// IncLocal adds delta (may be negative) to the local count. Only the
// allocating thread may call this.
func (rc *RefCount) IncLocal(delta int64) int64 {
	for {
		old := atomic.LoadUint64(&rc.local)
		count := int64(old&localCountMask) + delta
		next := (old &^ localCountMask) | uint64(count)&localCountMask

		if atomic.CompareAndSwapUint64(&rc.local, old, next) {
			return count
		}
	}
}

// sharedParts returns the shared word's signed count, queued bit, and merged bit.
func (rc *RefCount) sharedParts() (count int64, queued, merged bool) {
	v := atomic.LoadUint64(&rc.shared)

	return int64((v&sharedCountMask)<<2) >> 2, v&sharedQueuedBit != 0, v&sharedMergedBit != 0
}

// IncShared is called by a thread other than the owner to record a
// pending increment or decrement, CAS-looping against concurrent
// updates from still other threads.
func (rc *RefCount) IncShared(delta int64) {
	for {
		old := atomic.LoadUint64(&rc.shared)
		count := int64(old&sharedCountMask) + delta
		next := (old &^ sharedCountMask) | (uint64(count) & sharedCountMask)

		if atomic.CompareAndSwapUint64(&rc.shared, old, next) {
			return
		}
	}
}

// SetQueued marks that the owning thread has pending decrements
// enqueued for this object on some other thread's queue.
func (rc *RefCount) SetQueued(queued bool) {
	for {
		old := atomic.LoadUint64(&rc.shared)
		next := old

		if queued {
			next |= sharedQueuedBit
		} else {
			next &^= sharedQueuedBit
		}

		if atomic.CompareAndSwapUint64(&rc.shared, old, next) {
			return
		}
	}
}

// Merge folds the shared word into the local word (the "drain pending
// cross-thread decrements" step) and sets the
// merged bit so the +1 adjustment in Effective stops applying.
func (rc *RefCount) Merge() {
	count, queued, _ := rc.sharedParts()
	if count != 0 {
		rc.IncLocal(count)
	}

	for {
		old := atomic.LoadUint64(&rc.shared)
		next := old &^ sharedCountMask
		next |= sharedMergedBit

		if !queued {
			next &^= sharedQueuedBit
		}

		if atomic.CompareAndSwapUint64(&rc.shared, old, next) {
			return
		}
	}
}

// Effective is the value the cycle kernel treats as the object's
// refcount: local + shared + a +1 adjustment while another thread has
// decrements queued that have not yet been merged. The adjustment
// prevents the collector from freeing an object a peer thread still
// intends to decrement.
func (rc *RefCount) Effective() int64 {
	local := rc.Local()
	shared, queued, merged := rc.sharedParts()

	eff := local + shared
	if queued && !merged {
		eff++
	}

	return eff
}
