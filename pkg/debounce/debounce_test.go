package debounce

import (
	"testing"
	"time"
)

func TestDebouncerCollapsesBurst(t *testing.T) {
	clock := NewManualScheduler()
	d := New(100*time.Millisecond, WithScheduler(clock))

	var got []int
	for i := 1; i <= 5; i++ {
		i := i
		d.Trigger(func() { got = append(got, i) })
		clock.Advance(30 * time.Millisecond)
	}
	if len(got) != 0 {
		t.Fatalf("fired during burst: %v", got)
	}

	clock.Advance(100 * time.Millisecond)
	if len(got) != 1 || got[0] != 5 {
		t.Errorf("got = %v, want [5]", got)
	}
	if d.Pending() {
		t.Error("Pending() = true after firing")
	}
}

func TestDebouncerFlush(t *testing.T) {
	clock := NewManualScheduler()
	d := New(100*time.Millisecond, WithScheduler(clock))

	calls := 0
	d.Trigger(func() { calls++ })
	if !d.Flush() {
		t.Error("Flush() = false, want true")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}

	clock.Advance(time.Second)
	if calls != 1 {
		t.Errorf("calls after timer = %d, want 1 (flushed function must not fire twice)", calls)
	}
	if d.Flush() {
		t.Error("second Flush() = true, want false")
	}
}

func TestDebouncerCancel(t *testing.T) {
	clock := NewManualScheduler()
	d := New(100*time.Millisecond, WithScheduler(clock))

	calls := 0
	d.Trigger(func() { calls++ })
	if !d.Cancel() {
		t.Error("Cancel() = false, want true")
	}
	clock.Advance(time.Second)
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
	if d.Cancel() {
		t.Error("Cancel() on idle debouncer = true, want false")
	}
}

func TestDebouncerWallClock(t *testing.T) {
	d := New(5 * time.Millisecond)
	done := make(chan struct{})
	d.Trigger(func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced function never ran")
	}
}

func TestThrottle(t *testing.T) {
	clock := NewManualScheduler()
	th := NewThrottle(300*time.Millisecond, WithScheduler(clock))

	var got []string
	th.Call(func() { got = append(got, "a") })
	th.Call(func() { got = append(got, "b") })
	th.Call(func() { got = append(got, "c") })

	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("leading call: got = %v, want [a]", got)
	}

	clock.Advance(300 * time.Millisecond)
	if len(got) != 2 || got[1] != "c" {
		t.Fatalf("trailing call: got = %v, want [a c]", got)
	}

	clock.Advance(300 * time.Millisecond)
	th.Call(func() { got = append(got, "d") })
	if len(got) != 3 || got[2] != "d" {
		t.Errorf("after quiet period: got = %v, want [a c d]", got)
	}
}

func TestThrottleCancel(t *testing.T) {
	clock := NewManualScheduler()
	th := NewThrottle(300*time.Millisecond, WithScheduler(clock))

	calls := 0
	th.Call(func() { calls++ })
	th.Call(func() { calls++ })
	th.Cancel()
	clock.Advance(time.Second)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if clock.Pending() != 0 {
		t.Errorf("Pending timers = %d, want 0", clock.Pending())
	}
}

func TestFrameCoalesces(t *testing.T) {
	var f Frame
	var got []int
	for i := 0; i < 10; i++ {
		i := i
		f.Request(func() { got = append(got, i) })
	}

	if !f.Tick() {
		t.Fatal("Tick() = false, want true")
	}
	if len(got) != 1 || got[0] != 9 {
		t.Errorf("got = %v, want [9]", got)
	}
	if f.Dropped() != 9 {
		t.Errorf("Dropped() = %d, want 9", f.Dropped())
	}
	if f.Tick() {
		t.Error("second Tick() = true, want false")
	}
}

func TestFrameCancel(t *testing.T) {
	var f Frame
	f.Request(func() { t.Error("cancelled frame ran") })
	f.Cancel()
	if f.Pending() {
		t.Error("Pending() = true after Cancel")
	}
	f.Tick()
}
