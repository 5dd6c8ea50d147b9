//go:build !debug

package gc

// CheckInvariants is a no-op outside debug builds (-tags debug); see
// invariants_debug.go for the real consistency checks.
func (c *Collector) CheckInvariants() error { return nil }
