// Package gc implements the cycle-detecting collector that augments
// Orizon's deferred/biased reference-counting runtime. It reclaims
// objects kept alive only by reference cycles; acyclic garbage is
// already freed promptly by the refcount path the object model owns.
package gc

import "unsafe"

// ObjectID identifies a tracked object for the lifetime of one process.
type ObjectID uint64

// flag is a bit in the header's packed flag word. Meaning depends on
// which word (next or prev) carries it and, for prev, on which phase
// of a collection is running:
//
//	word  | bits        | meaning outside a collection | meaning during passes A-C
//	------|-------------|-------------------------------|---------------------------
//	next  | pointer     | next list node                | next list node
//	next  | bit 0       | unused                         | UNREACHABLE (tentative)
//	prev  | pointer     | prev list node                 | unused
//	prev  | bits 0-2    | TRACKED|FINALIZED|COLLECTING   | TRACKED|FINALIZED|COLLECTING (preserved)
//	prev  | bits 3..    | unused                         | gc_refs scratch refcount
//
// The three durable/transient flag bits always live in prev's low
// bits, whether or not prev is currently doubling as gc_refs, because
// gc_refs is shifted left by prevShift before being stored.
type flag uintptr

const (
	// FlagTracked marks an object registered with the collector.
	FlagTracked flag = 1 << 0
	// FlagFinalized marks that tp_finalize has already run once (PEP-442 single-shot).
	FlagFinalized flag = 1 << 1
	// FlagCollecting marks an object as part of the current collection's
	// refcount-subtraction pass, distinguishing "in this collection" from
	// "rooted from outside it".
	FlagCollecting flag = 1 << 2
)

const (
	flagMask  = uintptr(FlagTracked | FlagFinalized | FlagCollecting)
	prevShift = 3 // number of low bits reserved for flags in prev

	nextUnreachable uintptr = 1
	nextMask                = ^nextUnreachable
)

// Header precedes every tracked object. A type that wants to be
// tracked embeds Header as its first field so HeaderOf/ObjectOf can
// recover one from the other by a fixed offset, matching the
// object-header layout of internal/runtime/block_manager.go's
// BlockHeader.
type Header struct {
	next uintptr // *Header, with bit 0 = UNREACHABLE
	prev uintptr // *Header | flags, or (gc_refs<<prevShift)|flags during a collection
	id   ObjectID
}

// HeaderOf recovers the Header embedded in obj. obj must be a pointer
// to a struct whose first field is a Header.
func HeaderOf(obj unsafe.Pointer) *Header {
	return (*Header)(obj)
}

// ObjectOf recovers the tracked object from its Header. T must be the
// concrete type the Header was embedded in.
func ObjectOf[T any](h *Header) *T {
	return (*T)(unsafe.Pointer(h))
}

// ID returns the object's stable identifier, assigned at registration.
func (h *Header) ID() ObjectID { return h.id }

func (h *Header) nextPtr() *Header {
	return (*Header)(unsafe.Pointer(h.next & nextMask))
}

func (h *Header) setNextPtr(n *Header) {
	h.next = uintptr(unsafe.Pointer(n)) | (h.next & nextUnreachable)
}

// IsUnreachable reports whether the tentative-unreachable bit is set
// on this header's next word.
func (h *Header) IsUnreachable() bool { return h.next&nextUnreachable != 0 }

// SetUnreachable sets the tentative-unreachable bit.
func (h *Header) SetUnreachable() { h.next |= nextUnreachable }

// ClearUnreachable clears the tentative-unreachable bit.
func (h *Header) ClearUnreachable() { h.next &^= nextUnreachable }

func (h *Header) prevPtr() *Header {
	return (*Header)(unsafe.Pointer(h.prev &^ flagMask))
}

func (h *Header) setPrevPtr(p *Header) {
	h.prev = uintptr(unsafe.Pointer(p)) | (h.prev & flagMask)
}

// Flags returns the durable/transient flag bits carried in prev.
func (h *Header) Flags() flag { return flag(h.prev & flagMask) }

// HasFlag reports whether every bit of f is set.
func (h *Header) HasFlag(f flag) bool { return h.prev&uintptr(f) == uintptr(f) }

// SetFlag sets the given bits without disturbing prev's pointer/gc_refs payload.
func (h *Header) SetFlag(f flag) { h.prev |= uintptr(f) }

// ClearFlag clears the given bits without disturbing prev's pointer/gc_refs payload.
func (h *Header) ClearFlag(f flag) { h.prev &^= uintptr(f) }

// GCRefs reads the scratch refcount packed into prev's high bits. Only
// meaningful between updateRefs and the end of the cycle kernel; at
// any other time prev holds a real list-predecessor pointer instead.
func (h *Header) GCRefs() int64 { return int64(h.prev) >> prevShift }

// SetGCRefs overwrites prev's high bits with a scratch refcount,
// preserving the flag bits in the low prevShift bits.
func (h *Header) SetGCRefs(v int64) {
	h.prev = uintptr(v<<prevShift) | (h.prev & flagMask)
}

// IncGCRefs adds delta to the scratch refcount in place.
func (h *Header) IncGCRefs(delta int64) {
	h.SetGCRefs(h.GCRefs() + delta)
}

// reset clears a header back to the zero, untracked state and assigns
// id. Registry.Register calls it before setting FlagTracked.
func (h *Header) reset(id ObjectID) {
	h.next = 0
	h.prev = 0
	h.id = id
}
