package history

import (
	"sync"
	"time"

	"github.com/zwdscn-cloud/JFreports/pkg/dashboard"
	"github.com/zwdscn-cloud/JFreports/pkg/debounce"
	"github.com/zwdscn-cloud/JFreports/pkg/observability"
)

// Defaults for New.
const (
	DefaultDebounce = 100 * time.Millisecond
	DefaultLimit    = 100
)

// Listener receives the restored present after undo or redo.
type Listener func(elements []dashboard.Element)

// Option configures a Store.
type Option func(*options)

type options struct {
	wait  time.Duration
	limit int
	sched debounce.Scheduler
}

// WithDebounce sets the commit debounce window. Zero records every commit
// immediately.
func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.wait = d }
}

// WithLimit caps the number of past entries; the oldest are dropped.
// Zero or negative means unbounded.
func WithLimit(n int) Option {
	return func(o *options) { o.limit = n }
}

// WithScheduler replaces the wall-clock timer source.
func WithScheduler(s debounce.Scheduler) Option {
	return func(o *options) { o.sched = s }
}

// Store holds past, present and future snapshots. It is safe for concurrent
// use; the debounced write runs on a timer goroutine.
type Store struct {
	mu       sync.Mutex
	past     [][]dashboard.Element
	recorded []dashboard.Element // present as last written to the timeline
	present  []dashboard.Element // live state
	future   [][]dashboard.Element
	limit    int
	wait     time.Duration

	deb *debounce.Debouncer

	listeners map[int]Listener
	nextID    int
}

// New returns a store whose present is a copy of initial.
func New(initial []dashboard.Element, opts ...Option) *Store {
	o := options{wait: DefaultDebounce, limit: DefaultLimit, sched: debounce.WallClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	snap := dashboard.CloneAll(initial)
	return &Store{
		recorded: snap,
		present:  snap,
		limit:    o.limit,
		wait:     o.wait,
		deb:      debounce.New(o.wait, debounce.WithScheduler(o.sched)),
	}
}

// Commit sets the live present to a copy of elements and schedules the
// history entry.
func (s *Store) Commit(elements []dashboard.Element) {
	s.mu.Lock()
	s.present = dashboard.CloneAll(elements)
	s.mu.Unlock()

	if s.wait <= 0 {
		s.record()
		return
	}
	s.deb.Trigger(s.record)
}

// record writes the live present to the timeline. Commits that leave the
// state unchanged (a click without movement) add no entry.
func (s *Store) record() {
	s.mu.Lock()
	if sameElements(s.recorded, s.present) {
		s.mu.Unlock()
		return
	}
	s.past = append(s.past, s.recorded)
	if s.limit > 0 && len(s.past) > s.limit {
		s.past = s.past[len(s.past)-s.limit:]
	}
	s.recorded = s.present
	s.future = nil
	past := len(s.past)
	s.mu.Unlock()

	observability.History().OnCommit(past)
}

// Flush writes any pending debounced entry now.
func (s *Store) Flush() {
	s.deb.Flush()
}

// Undo restores the previous entry. It reports false, changing nothing,
// when there is nothing to undo.
func (s *Store) Undo() bool {
	s.deb.Flush()

	s.mu.Lock()
	if len(s.past) == 0 {
		s.mu.Unlock()
		return false
	}
	prev := s.past[len(s.past)-1]
	s.past = s.past[:len(s.past)-1]
	s.future = append([][]dashboard.Element{s.recorded}, s.future...)
	s.recorded = prev
	s.present = prev
	past, future := len(s.past), len(s.future)
	s.mu.Unlock()

	observability.History().OnUndo(past, future)
	s.notify(prev)
	return true
}

// Redo re-applies the next entry. It reports false when there is nothing
// to redo.
func (s *Store) Redo() bool {
	s.deb.Flush()

	s.mu.Lock()
	if len(s.future) == 0 {
		s.mu.Unlock()
		return false
	}
	next := s.future[0]
	s.future = s.future[1:]
	s.past = append(s.past, s.recorded)
	s.recorded = next
	s.present = next
	past, future := len(s.past), len(s.future)
	s.mu.Unlock()

	observability.History().OnRedo(past, future)
	s.notify(next)
	return true
}

// CanUndo reports whether Undo would change the state, counting a pending
// debounced entry.
func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.past) > 0 || (s.deb.Pending() && !sameElements(s.recorded, s.present))
}

// CanRedo reports whether Redo would change the state. A pending commit
// will discard the redo branch, so it counts as nothing to redo.
func (s *Store) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deb.Pending() && !sameElements(s.recorded, s.present) {
		return false
	}
	return len(s.future) > 0
}

// Present returns a copy of the live state.
func (s *Store) Present() []dashboard.Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dashboard.CloneAll(s.present)
}

// Depth returns the number of past and future entries.
func (s *Store) Depth() (past, future int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.past), len(s.future)
}

// Reset discards the timeline and starts over from elements.
func (s *Store) Reset(elements []dashboard.Element) {
	s.deb.Cancel()
	s.mu.Lock()
	snap := dashboard.CloneAll(elements)
	s.past, s.future = nil, nil
	s.recorded, s.present = snap, snap
	s.mu.Unlock()
}

// Subscribe registers fn for undo and redo notifications.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listeners == nil {
		s.listeners = make(map[int]Listener)
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) notify(elements []dashboard.Element) {
	s.mu.Lock()
	fns := make([]Listener, 0, len(s.listeners))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.listeners[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(dashboard.CloneAll(elements))
	}
}

// Close cancels a pending debounced entry without writing it.
func (s *Store) Close() {
	s.deb.Cancel()
}

func sameElements(a, b []dashboard.Element) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
