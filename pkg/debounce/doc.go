// Package debounce centralizes the time-based coalescing used by the canvas:
// a trailing-edge [Debouncer] for history bookkeeping, a [Throttle] for
// high-frequency property editors, and a [Frame] coalescer that limits
// render invalidations to one per animation frame.
//
// # Cancellation
//
// Every primitive has an explicit Cancel. Owners call it when they are torn
// down so that no callback fires against a closed session:
//
//	d := debounce.New(100 * time.Millisecond)
//	defer d.Cancel()
//	d.Trigger(func() { save() })
//
// # Deterministic Time
//
// Timers come from a [Scheduler]. Production code uses the wall clock;
// tests pass a [ManualScheduler] and advance it explicitly, so debounced
// behavior can be asserted without sleeping.
package debounce
