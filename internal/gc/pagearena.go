package gc

import "sync"

// SizeClass buckets tracked objects by header-slot stride, mirroring
// internal/runtime/region_alloc.go's region size classes and
// internal/allocator/allocator.go's MemoryPool-per-size-class scheme.
type SizeClass int

// Size classes the page arena segregates objects into. The collector
// never allocates object storage itself (that remains the object
// model's job); these only bound how many slots a Page holds before
// the heap walker must move to the next one.
const (
	SizeClassSmall SizeClass = iota
	SizeClassMedium
	SizeClassLarge
	numSizeClasses
)

const pageCapacity = 512

// Page is one page's worth of object slots for a single size class
// within one ThreadHeap. A slot is in-use iff its Header is non-nil;
// free slots are tracked by index so Reserve is O(1), while Release
// finds h by scanning the page's slots. This follows
// region_alloc.go's FreeBlock/AllocBlock free-list design collapsed to
// fixed-size slots.
type Page struct {
	class SizeClass
	slots [pageCapacity]*Header
	free  []int16
	used  int
	guard *guardTable // nil unless the debug allocator is enabled
}

func newPage(class SizeClass) *Page {
	p := &Page{class: class, free: make([]int16, 0, pageCapacity)}
	for i := pageCapacity - 1; i >= 0; i-- {
		p.free = append(p.free, int16(i))
	}

	return p
}

// Reserve claims a free slot for h and returns false if the page is full.
func (p *Page) Reserve(h *Header) bool {
	if len(p.free) == 0 {
		return false
	}

	idx := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.slots[idx] = h
	p.used++

	if p.guard != nil {
		p.guard.markLive(int(idx))
	}

	return true
}

// Release returns the slot holding h to the free list.
func (p *Page) Release(h *Header) {
	for i, s := range p.slots {
		if s == h {
			p.slots[i] = nil
			p.free = append(p.free, int16(i))
			p.used--

			if p.guard != nil {
				p.guard.markDead(i)
			}

			return
		}
	}
}

// full reports whether every slot in the page is in use.
func (p *Page) full() bool { return len(p.free) == 0 }

// ThreadHeap is the per-thread collection of pages the heap walker
// iterates, one set of page queues per size class, matching the
// "for each GC-tagged heap, walk every page queue and every page" walk
// order it was recorded in.
type ThreadHeap struct {
	mu       sync.Mutex
	pages    [numSizeClasses][]*Page
	visited  bool
	debugOn  bool
	threadID ThreadID
}

// NewThreadHeap returns an empty per-thread heap.
func NewThreadHeap(id ThreadID) *ThreadHeap {
	return &ThreadHeap{threadID: id}
}

// Alloc hands out a slot for h in the requested size class, growing
// the page queue if every existing page is full.
func (th *ThreadHeap) Alloc(class SizeClass, h *Header) {
	th.mu.Lock()
	defer th.mu.Unlock()

	pages := th.pages[class]
	for _, p := range pages {
		if !p.full() {
			p.Reserve(h)

			return
		}
	}

	p := newPage(class)
	if th.debugOn {
		p.guard = newGuardTable(pageCapacity)
	}

	p.Reserve(h)
	th.pages[class] = append(pages, p)
}

// Free releases h's slot, searching every size class's page queue.
func (th *ThreadHeap) Free(h *Header) {
	th.mu.Lock()
	defer th.mu.Unlock()

	for class := range th.pages {
		for _, p := range th.pages[class] {
			if p.used > 0 {
				p.Release(h)
			}
		}
	}
}

// EnableDebugAllocator turns on the two-word guard prefix described in
// for every page subsequently allocated by this heap.
func (th *ThreadHeap) EnableDebugAllocator() {
	th.mu.Lock()
	defer th.mu.Unlock()
	th.debugOn = true
}

// walk visits every in-use slot across every size class and page,
// short-circuiting on the first non-zero visitor result. The heap's
// mutex is held only while checking the visited flag and copying the
// page queues, not while visit runs.
func (th *ThreadHeap) walk(visit func(*Header) int) int {
	th.mu.Lock()

	if th.visited {
		th.mu.Unlock()

		return 0 // guards against re-entrant walks of the same heap
	}

	th.visited = true
	pages := th.pages
	th.mu.Unlock()

	for class := range pages {
		for _, p := range pages[class] {
			for i, h := range p.slots {
				if h == nil {
					continue
				}

				if p.guard != nil && !p.guard.isLive(i) {
					continue
				}

				if rc := visit(h); rc != 0 {
					return rc
				}
			}
		}
	}

	return 0
}

// clearVisited resets the re-entrancy guard after a full walk completes.
func (th *ThreadHeap) clearVisited() {
	th.mu.Lock()
	defer th.mu.Unlock()
	th.visited = false
}

// PageArena owns every ThreadHeap plus the pages abandoned by threads
// that have since exited — the "two abandoned-segment
// lists", collapsed here to one slice since Go has no notion of a
// thread dying out from under the runtime the way a native thread can.
type PageArena struct {
	mu        sync.Mutex
	heaps     map[ThreadID]*ThreadHeap
	abandoned []*Page
}

// NewPageArena returns an empty arena.
func NewPageArena() *PageArena {
	return &PageArena{heaps: make(map[ThreadID]*ThreadHeap)}
}

// HeapFor returns (creating if necessary) the per-thread heap for id.
func (a *PageArena) HeapFor(id ThreadID) *ThreadHeap {
	a.mu.Lock()
	defer a.mu.Unlock()

	h, ok := a.heaps[id]
	if !ok {
		h = NewThreadHeap(id)
		a.heaps[id] = h
	}

	return h
}

// Abandon moves a thread's pages onto the arena-wide abandoned list
// and drops its ThreadHeap, modeling a thread exiting while its
// tracked objects remain live and must still be walked.
func (a *PageArena) Abandon(id ThreadID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	h, ok := a.heaps[id]
	if !ok {
		return
	}

	for class := range h.pages {
		a.abandoned = append(a.abandoned, h.pages[class]...)
	}

	delete(a.heaps, id)
}

// Heaps returns a snapshot of every still-owned per-thread heap.
func (a *PageArena) Heaps() []*ThreadHeap {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]*ThreadHeap, 0, len(a.heaps))
	for _, h := range a.heaps {
		out = append(out, h)
	}

	return out
}

// walkAbandoned visits every in-use slot in abandoned pages.
func (a *PageArena) walkAbandoned(visit func(*Header) int) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, p := range a.abandoned {
		for i, h := range p.slots {
			if h == nil {
				continue
			}

			if p.guard != nil && !p.guard.isLive(i) {
				continue
			}

			if rc := visit(h); rc != 0 {
				return rc
			}
		}
	}

	return 0
}
