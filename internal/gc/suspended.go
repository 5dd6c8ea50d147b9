package gc

// SuspendedTask is the capability a parked generator, coroutine, or
// async-generator implements so the collector can treat its captured
// frame chain as an explicit root during the retain phase. Grounded on
// internal/runtime/message_passing.go and
// actor_system.go's parked-mailbox/continuation handling: a suspended
// task is modeled the same way a parked actor message is — as a unit
// of deferred work holding onto state it will need again on resume.
type SuspendedTask interface {
	// MaterializeRoots returns every object this suspended task's
	// captured frame chain references, the same shape Frame.Roots
	// returns for a live stack frame. The deferred-RC adjuster treats
	// the result identically whether it came from a running thread's
	// frame or a parked task.
	MaterializeRoots() []Traversable
}
