package gc

import "fmt"

// List is an intrusive doubly-linked list anchored by a Header-shaped
// sentinel. An empty list's sentinel points to itself, mirroring
// internal/runtime/block_manager.go's BlockHeader chains but without a
// separate sentinel type: the sentinel is just a Header that is never
// registered as TRACKED and never recovered back into an object.
type List struct {
	sentinel Header
}

// NewList returns an initialized, empty list.
func NewList() *List {
	l := &List{}
	l.Init()

	return l
}

// Init resets the list to empty.
func (l *List) Init() {
	l.sentinel.setNextPtr(&l.sentinel)
	l.sentinel.setPrevPtr(&l.sentinel)
}

// IsEmpty reports whether the list has no nodes.
func (l *List) IsEmpty() bool {
	return l.sentinel.nextPtr() == &l.sentinel
}

// Head returns the first node, or nil if the list is empty.
func (l *List) Head() *Header {
	if l.IsEmpty() {
		return nil
	}

	return l.sentinel.nextPtr()
}

// Sentinel exposes the anchor node so callers can compare against it
// while walking (e.g. `for n := l.Sentinel().nextPtr(); n != l.Sentinel(); n = n.nextPtr()`).
func (l *List) Sentinel() *Header { return &l.sentinel }

// Append inserts h immediately before the sentinel (i.e. at the tail).
func (l *List) Append(h *Header) {
	tail := l.sentinel.prevPtr()
	h.setPrevPtr(tail)
	h.setNextPtr(&l.sentinel)
	tail.setNextPtr(h)
	l.sentinel.setPrevPtr(h)
}

// Prepend inserts h immediately after the sentinel (i.e. at the head).
func (l *List) Prepend(h *Header) {
	head := l.sentinel.nextPtr()
	h.setPrevPtr(&l.sentinel)
	h.setNextPtr(head)
	head.setPrevPtr(h)
	l.sentinel.setNextPtr(h)
}

// Remove unlinks h from whatever list it is on. It zeros h's next and
// preserves only the durable flag bits (TRACKED, FINALIZED) in h's prev.
func Remove(h *Header) {
	prev := h.prevPtr()
	next := h.nextPtr()
	prev.setNextPtr(next)
	next.setPrevPtr(prev)
	h.next = 0
	h.prev = uintptr(h.Flags() &^ FlagCollecting)
}

// MoveTo unlinks h from its current list and appends it to dst.
func MoveTo(h *Header, dst *List) {
	Remove(h)
	dst.Append(h)
}

// Splice moves every node of src to the tail of dst and leaves src
// empty. O(1): it relinks the two sentinel-adjacent boundaries only.
func Splice(src, dst *List) {
	if src.IsEmpty() {
		return
	}

	first := src.sentinel.nextPtr()
	last := src.sentinel.prevPtr()

	dstTail := dst.sentinel.prevPtr()
	dstTail.setNextPtr(first)
	first.setPrevPtr(dstTail)
	last.setNextPtr(&dst.sentinel)
	dst.sentinel.setPrevPtr(last)

	src.Init()
}

// Clear detaches every node (zeroing next, preserving durable flags in
// prev as Remove does) and leaves the list empty.
func (l *List) Clear() {
	for n := l.sentinel.nextPtr(); n != &l.sentinel; {
		next := n.nextPtr()
		n.next = 0
		n.prev = uintptr(n.Flags() &^ FlagCollecting)
		n = next
	}

	l.Init()
}

// Size walks the list and counts its nodes. O(n); used only for stats
// and debug-mode invariant checks, never on a collection's hot path.
func (l *List) Size() int {
	n := 0
	for h := l.sentinel.nextPtr(); h != &l.sentinel; h = h.nextPtr() {
		n++
	}

	return n
}

// ForEach calls fn once per node in list order. fn must not remove the
// current node's successor in a way that invalidates iteration; moving
// the current node itself is safe because the next pointer is read
// before fn runs.
func (l *List) ForEach(fn func(*Header)) {
	for h, next := l.sentinel.nextPtr(), (*Header)(nil); h != &l.sentinel; h = next {
		next = h.nextPtr()
		fn(h)
	}
}

// Validate walks the list forward and backward and reports an error if
// the two walks disagree, the debug-build equivalent of gcmodule.c's
// `validate_list` assertion (prev(next(h)) == h for every node).
func (l *List) Validate() error {
	forward := make([]*Header, 0, l.Size())
	for h := l.sentinel.nextPtr(); h != &l.sentinel; h = h.nextPtr() {
		forward = append(forward, h)
	}

	backward := make([]*Header, 0, len(forward))
	for h := l.sentinel.prevPtr(); h != &l.sentinel; h = h.prevPtr() {
		if len(backward) == len(forward) {
			return fmt.Errorf("gc: list validate: backward walk exceeds forward length %d", len(forward))
		}

		backward = append(backward, h)
	}

	if len(forward) != len(backward) {
		return fmt.Errorf("gc: list validate: forward length %d != backward length %d", len(forward), len(backward))
	}

	for i, h := range forward {
		if backward[len(backward)-1-i] != h {
			return fmt.Errorf("gc: list validate: node %d disagrees between forward and backward walks", i)
		}
	}

	return nil
}

// relinkPrevFromNext rebuilds prev pointers by walking only the next
// chain, terminating at tail (whose next must already point to the
// owning list's sentinel). DeduceUnreachable runs this as a final
// "validate_list"-style safety pass over unreachable; it is a no-op in
// the common case since move_unreachable builds unreachable through
// ordinary Append calls, but it protects against a caller reusing a
// non-empty unreachable list across calls.
func relinkPrevFromNext(sentinel *Header) {
	prev := sentinel
	for n := sentinel.nextPtr(); n != sentinel; n = n.nextPtr() {
		n.setPrevPtr(prev)
		prev = n
	}

	sentinel.setPrevPtr(prev)
}
