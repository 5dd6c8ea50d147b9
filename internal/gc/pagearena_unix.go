//go:build unix

package gc

import (
	"golang.org/x/sys/unix"
)

// guardTable backs the per-slot two-word guard prefix
// describes for the optional debug allocator. It is mapped directly
// with mmap/munmap rather than carved out of the Go heap: the guard
// words are pure bit patterns, never Go pointers, so handing the
// runtime's GC a region it need not scan is both safe and exactly the
// "direct system calls for complete GC-less... execution" that
// internal/runtime/region_alloc.go's doc comment promises but never
// actually implements.
type guardTable struct {
	mem []byte // mmap'd, 16 bytes (two words) per slot
}

func newGuardTable(slots int) *guardTable {
	size := slots * 16
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		// Fall back to ordinary Go memory; the guard table is a debug
		// aid, not load-bearing for correctness.
		return &guardTable{mem: make([]byte, size)}
	}

	return &guardTable{mem: mem}
}

func (g *guardTable) markLive(slot int) { g.mem[slot*16] |= 1 }

func (g *guardTable) markDead(slot int) { g.mem[slot*16] &^= 1 }

func (g *guardTable) isLive(slot int) bool { return g.mem[slot*16]&1 != 0 }

// Close releases the mmap'd region. Only used by tests; a live
// process keeps the guard table for a page's whole lifetime.
func (g *guardTable) Close() error {
	if g.mem == nil {
		return nil
	}

	err := unix.Munmap(g.mem)
	g.mem = nil

	return err
}
