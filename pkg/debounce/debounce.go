package debounce

import (
	"sync"
	"time"
)

// Option configures a Debouncer or Throttle.
type Option func(*config)

type config struct {
	sched Scheduler
}

// WithScheduler overrides the wall-clock scheduler.
func WithScheduler(s Scheduler) Option {
	return func(c *config) { c.sched = s }
}

func newConfig(opts []Option) config {
	c := config{sched: WallClock{}}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// Debouncer runs the most recently triggered function once the trigger
// stream has been quiet for the wait duration. It is safe for concurrent use.
type Debouncer struct {
	mu    sync.Mutex
	wait  time.Duration
	sched Scheduler
	timer Timer
	fn    func()
	gen   uint64
}

// New creates a trailing-edge debouncer.
func New(wait time.Duration, opts ...Option) *Debouncer {
	c := newConfig(opts)
	return &Debouncer{wait: wait, sched: c.sched}
}

// Trigger replaces the pending function with fn and restarts the quiet
// period.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.fn = fn
	d.gen++
	gen := d.gen
	d.timer = d.sched.AfterFunc(d.wait, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.fn == nil {
		d.mu.Unlock()
		return
	}
	fn := d.fn
	d.fn = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

// Flush runs the pending function immediately, if any, and reports whether
// one ran.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn := d.take()
	d.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// Cancel drops the pending function without running it and reports whether
// one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.take() != nil
}

// take clears pending state and returns the pending function. d.mu is held.
func (d *Debouncer) take() func() {
	fn := d.fn
	if d.timer != nil {
		d.timer.Stop()
	}
	d.fn = nil
	d.timer = nil
	d.gen++
	return fn
}

// Pending reports whether a function is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fn != nil
}
