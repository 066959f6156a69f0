package debounce

import (
	"sync"
	"time"
)

// Throttle runs at most one call per interval. The first call in a quiet
// period runs immediately; calls made during the interval collapse into a
// single trailing call that runs when the interval ends.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	sched    Scheduler
	timer    Timer
	open     bool
	trailing func()
}

// NewThrottle creates a throttle with the given interval.
func NewThrottle(interval time.Duration, opts ...Option) *Throttle {
	c := newConfig(opts)
	return &Throttle{interval: interval, sched: c.sched}
}

// Call runs fn now or schedules it as the trailing call.
func (t *Throttle) Call(fn func()) {
	t.mu.Lock()
	if t.open {
		t.trailing = fn
		t.mu.Unlock()
		return
	}
	t.open = true
	t.timer = t.sched.AfterFunc(t.interval, t.closeWindow)
	t.mu.Unlock()

	fn()
}

func (t *Throttle) closeWindow() {
	t.mu.Lock()
	fn := t.trailing
	t.trailing = nil
	if fn == nil {
		t.open = false
		t.timer = nil
		t.mu.Unlock()
		return
	}
	// The trailing call opens a new window of its own.
	t.timer = t.sched.AfterFunc(t.interval, t.closeWindow)
	t.mu.Unlock()

	fn()
}

// Cancel drops any trailing call and closes the window.
func (t *Throttle) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = nil
	t.trailing = nil
	t.open = false
}
