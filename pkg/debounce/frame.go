package debounce

import "sync"

// Frame coalesces work into the next animation frame. Hosts call
// [Frame.Tick] once per frame; producers call [Frame.Request] as often as
// they like and only the most recent request runs.
type Frame struct {
	mu      sync.Mutex
	pending func()
	dropped int
}

// Request schedules fn for the next tick, replacing any request that has
// not run yet.
func (f *Frame) Request(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending != nil {
		f.dropped++
	}
	f.pending = fn
}

// Tick runs the pending request, if any, and reports whether one ran.
func (f *Frame) Tick() bool {
	f.mu.Lock()
	fn := f.pending
	f.pending = nil
	f.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// Cancel discards the pending request.
func (f *Frame) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = nil
}

// Pending reports whether a request is waiting for the next tick.
func (f *Frame) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending != nil
}

// Dropped returns how many requests were superseded before they ran.
func (f *Frame) Dropped() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dropped
}
