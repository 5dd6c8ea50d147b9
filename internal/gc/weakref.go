package gc

// WeakRef is the narrow slice of the (out-of-scope) weak-reference
// data structure the collector consumes: clear-one and
// iterate-callbacks. Grounded on the registry shape of
// other_examples/8a84a58e_ym1234-golua__runtime-internal-weakref-
// unsafepool.go.go, a Go weak-reference pool keyed by object identity.
type WeakRef interface {
	Traversable

	// Referent returns the object this weak reference points at, or
	// nil if it has already been cleared.
	Referent() Traversable

	// ClearOne detaches this weak reference from its referent without
	// invoking its callback. Called once the referent is confirmed
	// unreachable, before any callback runs.
	ClearOne()

	// HasCallback reports whether a callback is registered.
	HasCallback() bool

	// InvokeCallback runs the registered callback with this weak
	// reference as its argument. Any error is reported unraisable.
	InvokeCallback() error
}

// WeakRefStore indexes the weak references pointing at each tracked
// object, so the finalization pipeline can find them in O(weakrefs-to-
// referent) rather than scanning the whole heap.
type WeakRefStore struct {
	byReferent map[ObjectID][]WeakRef
}

// NewWeakRefStore returns an empty store.
func NewWeakRefStore() *WeakRefStore {
	return &WeakRefStore{byReferent: make(map[ObjectID][]WeakRef)}
}

// Track records that w points at referent.
func (s *WeakRefStore) Track(referent ObjectID, w WeakRef) {
	s.byReferent[referent] = append(s.byReferent[referent], w)
}

// Untrack removes every weak reference recorded against referent,
// called once its storage is about to be released
// invariant 5: weak references are cleared before that happens).
func (s *WeakRefStore) Untrack(referent ObjectID) []WeakRef {
	refs := s.byReferent[referent]
	delete(s.byReferent, referent)

	return refs
}

// IterateCallbacks returns every weak reference tracked against
// referent that still has a callback registered.
func (s *WeakRefStore) IterateCallbacks(referent ObjectID) []WeakRef {
	var out []WeakRef

	for _, w := range s.byReferent[referent] {
		if w.HasCallback() {
			out = append(out, w)
		}
	}

	return out
}
