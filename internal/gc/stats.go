package gc

import "sync"

// GenStats is the per-generation counter triple get_stats() reports.
type GenStats struct {
	Collections   int
	Collected     int
	Uncollectable int
}

// Stats tracks per-generation counters. The engine only ever collects
// generation 0 (the single-generation design), but all NumGenerations
// entries are updated together so the reported shape matches a true
// generational collector's.
type Stats struct {
	mu  sync.Mutex
	gen [NumGenerations]GenStats
}

// NewStats returns a zeroed stats record.
func NewStats() *Stats {
	return &Stats{}
}

// Record adds one collection's results to every generation's counters.
func (s *Stats) Record(collected, uncollectable int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.gen {
		s.gen[i].Collections++
		s.gen[i].Collected += collected
		s.gen[i].Uncollectable += uncollectable
	}
}

// Snapshot returns a copy of the current per-generation counters.
func (s *Stats) Snapshot() [NumGenerations]GenStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.gen
}
