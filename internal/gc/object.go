package gc

// VisitFunc is called once per outgoing reference a tracked object
// reports through Traverse. A non-zero return short-circuits the walk
// with that value, matching internal/runtime/refcount_optimizer.go's
// RefCountStrategy style of a narrow capability interface rather than
// a concrete base type ("do not use language
// inheritance to model variants").
type VisitFunc func(child *Header) int

// Traversable is the capability every container-kind object in the
// (out-of-scope) object model must implement to participate in cycle
// collection. The collector never inspects an object's fields
// directly; it only ever calls the methods below.
type Traversable interface {
	// Header returns the embedded GC header.
	Header() *Header

	// RefCount returns the object's split local/shared reference count.
	RefCount() *RefCount

	// Traverse calls visit once for every tracked object this object
	// directly references. It must not allocate or mutate the heap.
	Traverse(visit VisitFunc) int

	// ClearRefs breaks this object's outgoing references (tp_clear),
	// expected to drop them so any cycle through this object is broken.
	// Any error is reported unraisable by the caller, never propagated.
	ClearRefs() error

	// HasLegacyFinalizer reports whether this object exposes the
	// legacy tp_del slot. Legacy-finalized objects are never freed
	// automatically; they surface on the garbage list instead.
	HasLegacyFinalizer() bool
}

// Finalizable is implemented by objects with a PEP-442-style,
// single-shot tp_finalize hook. It is optional: most tracked objects
// only implement Traversable.
type Finalizable interface {
	Traversable

	// Finalize runs the object's tp_finalize. The collector guarantees
	// it runs at most once per object (gated on FlagFinalized).
	Finalize() error
}

// LegacyFinalizable is implemented by objects with the legacy tp_del
// slot. New object kinds should implement Finalizable instead; this
// exists only for interop with older types.
type LegacyFinalizable interface {
	Traversable

	// LegacyDel runs the object's tp_del. Objects that reach this hook
	// are moved to the garbage list rather than freed.
	LegacyDel() error
}

// Registry tracks every live object registered with the collector. It
// is the concrete, in-module stand-in for "the object model registers
// an object once its Traverse function becomes safe to call"
// a real embedding would instead back this
// with the page arena's slot table directly.
type Registry struct {
	objects map[ObjectID]Traversable
	nextID  ObjectID
}

// NewRegistry returns an empty object registry.
func NewRegistry() *Registry {
	return &Registry{objects: make(map[ObjectID]Traversable)}
}

// Register assigns obj a fresh ObjectID, marks it TRACKED, and records
// it in the registry. Callers must not register the same object twice.
func (r *Registry) Register(obj Traversable) ObjectID {
	r.nextID++
	id := r.nextID

	h := obj.Header()
	h.reset(id)
	h.SetFlag(FlagTracked)

	r.objects[id] = obj

	return id
}

// Unregister removes obj from the registry without running any
// finalizer, for the case where the owner proves the object can never
// participate in a cycle (e.g. a tuple of only immutable leaves).
func (r *Registry) Unregister(id ObjectID) {
	if obj, ok := r.objects[id]; ok {
		obj.Header().ClearFlag(FlagTracked)
		delete(r.objects, id)
	}
}

// Lookup returns the tracked object for id, if still registered.
func (r *Registry) Lookup(id ObjectID) (Traversable, bool) {
	obj, ok := r.objects[id]

	return obj, ok
}

// Len returns the number of currently tracked objects.
func (r *Registry) Len() int { return len(r.objects) }

// Snapshot returns every tracked object in registration order,
// excluding nothing (callers that need to exclude a result list, per
// the external object-census call, filter it themselves).
func (r *Registry) Snapshot() []Traversable {
	out := make([]Traversable, 0, len(r.objects))
	for id := ObjectID(1); id <= r.nextID; id++ {
		if obj, ok := r.objects[id]; ok {
			out = append(out, obj)
		}
	}

	return out
}

// Free removes obj from the registry entirely; called once the
// collector (or the refcount path) has decided to release its memory.
func (r *Registry) Free(id ObjectID) {
	delete(r.objects, id)
}
