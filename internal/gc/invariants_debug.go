//go:build debug

package gc

import "fmt"

// CheckInvariants runs the debug-mode consistency checks gcmodule.c
// gates behind Py_DEBUG: every tracked object carries FlagTracked, and
// the garbage list is a well-formed doubly-linked list. Call it between
// collections in debug builds (-tags debug); it is a no-op in ordinary
// builds, matching the block_manager_debug.go / block_manager_debug_off.go
// split for debug-only instrumentation.
func (c *Collector) CheckInvariants() error {
	for _, obj := range c.reg.Snapshot() {
		if !obj.Header().HasFlag(FlagTracked) {
			return fmt.Errorf("gc: check invariants: object %d in registry without FlagTracked", obj.Header().ID())
		}
	}

	if err := c.garbage.Validate(); err != nil {
		return fmt.Errorf("gc: check invariants: garbage list: %w", err)
	}

	return nil
}
