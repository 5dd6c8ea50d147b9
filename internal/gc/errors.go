package gc

import (
	"errors"
	"fmt"
	"os"
)

// Sentinel errors surfaced to the scripting layer.
var (
	// ErrInvalidGeneration is returned by Collect when the requested
	// generation is outside [0, NumGenerations).
	ErrInvalidGeneration = errors.New("gc: generation out of range")
)

// UnraisableHook reports an error raised by user code running inside
// the collector (tp_finalize, tp_clear, tp_del, or a weakref callback)
// without letting it propagate out of Collect. phase names which
// pipeline step produced err; obj is the object involved, if any.
// Start/stop callbacks (Callback) return no error and are not reported
// through this hook.
type UnraisableHook func(phase string, err error, obj Traversable)

// defaultUnraisableHook writes to stderr, matching
// internal/allocator's fmt.Errorf wrapping and the wider pack's
// stderr-based unraisable-exception reporting convention.
func defaultUnraisableHook(phase string, err error, obj Traversable) {
	if obj != nil {
		fmt.Fprintf(os.Stderr, "gc: exception ignored in %s of object %d: %v\n", phase, obj.Header().ID(), err)

		return
	}

	fmt.Fprintf(os.Stderr, "gc: exception ignored in %s: %v\n", phase, err)
}

// wrapf is the fmt.Errorf("...: %w", err) wrapping style
// internal/allocator/allocator.go uses throughout.
func wrapf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
