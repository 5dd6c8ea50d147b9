package gc

// testObj is a minimal Traversable used across this package's tests: a
// header plus a refcount plus an explicit list of outgoing references,
// mimicking how a real container-kind object would embed Header and
// report its children.
type testObj struct {
	hdr      Header
	rc       RefCount
	children []*testObj
	cleared  bool
	clearErr error

	finalized   bool
	finalizeErr error
	resurrectTo *testObj // if set, Finalize() adds a ref from resurrectTo

	legacyDel    bool
	legacyDelErr error
	hasLegacy    bool
}

func newTestObj(reg *Registry) *testObj {
	o := &testObj{}
	reg.Register(o)
	o.rc.IncLocal(1)

	return o
}

func (o *testObj) Header() *Header      { return &o.hdr }
func (o *testObj) RefCount() *RefCount  { return &o.rc }

func (o *testObj) Traverse(visit VisitFunc) int {
	for _, c := range o.children {
		if rc := visit(&c.hdr); rc != 0 {
			return rc
		}
	}

	return 0
}

func (o *testObj) ClearRefs() error {
	for _, c := range o.children {
		c.rc.IncLocal(-1)
	}

	o.children = nil
	o.cleared = true

	return o.clearErr
}

func (o *testObj) HasLegacyFinalizer() bool { return o.hasLegacy }

func (o *testObj) Finalize() error {
	o.finalized = true

	if o.resurrectTo != nil {
		o.rc.IncLocal(1)
	}

	return o.finalizeErr
}

func (o *testObj) LegacyDel() error {
	o.legacyDel = true

	return o.legacyDelErr
}

// link adds child to o's reference set, incrementing child's refcount
// to model ownership.
func (o *testObj) link(child *testObj) {
	o.children = append(o.children, child)
	child.rc.IncLocal(1)
}

// fakeThreadRegistry is a tiny ThreadRegistry with no threads, used by
// tests that only need deferred.go/stw.go to run against an empty
// runtime.
type fakeThreadRegistry struct {
	threads []ThreadID
}

func (r *fakeThreadRegistry) Threads() []ThreadID                    { return r.threads }
func (r *fakeThreadRegistry) TopFrame(ThreadID) Frame                { return nil }
func (r *fakeThreadRegistry) UseDeferredRC(ThreadID) bool            { return false }
func (r *fakeThreadRegistry) SetUseDeferredRC(ThreadID, bool)        {}
func (r *fakeThreadRegistry) SuspendedTasks(ThreadID) []SuspendedTask { return nil }
func (r *fakeThreadRegistry) RequestSuspend(ThreadID)                {}
func (r *fakeThreadRegistry) Await(ThreadID)                         {}
func (r *fakeThreadRegistry) Resume()                                {}
