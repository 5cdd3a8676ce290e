package core

import (
	"time"

	"github.com/gammazero/deque"
)

// Scheduler paces the engine's suspension points. After must eventually call
// fn exactly once; it may call it before returning.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// ImmediateScheduler runs every continuation inline, so a whole sequence
// settles inside the call that started it.
type ImmediateScheduler struct{}

// After calls fn immediately.
func (ImmediateScheduler) After(_ time.Duration, fn func()) {
	fn()
}

type timer struct {
	due time.Duration
	fn  func()
}

// Timeline is a manual clock. Continuations fire from Advance once their
// delay has elapsed. Not safe for concurrent use.
type Timeline struct {
	now     time.Duration
	pending deque.Deque[timer]
}

// NewTimeline creates a timeline at time zero.
func NewTimeline() *Timeline {
	return &Timeline{}
}

// After schedules fn to run d after the current time.
func (tl *Timeline) After(d time.Duration, fn func()) {
	tl.pending.PushBack(timer{due: tl.now + d, fn: fn})
}

// Advance moves the clock forward by dt and runs every continuation that is
// due, including ones scheduled by continuations during this call. Returns
// the number of continuations run.
func (tl *Timeline) Advance(dt time.Duration) int {
	tl.now += dt
	fired := 0
	for {
		progressed := false
		for range tl.pending.Len() {
			t := tl.pending.PopFront()
			if t.due > tl.now {
				tl.pending.PushBack(t)
				continue
			}
			t.fn()
			fired++
			progressed = true
		}
		if !progressed {
			return fired
		}
	}
}

// Flush runs continuations until none are left, jumping the clock forward as
// needed.
func (tl *Timeline) Flush() int {
	fired := 0
	for tl.pending.Len() > 0 {
		t := tl.pending.PopFront()
		if t.due > tl.now {
			tl.now = t.due
		}
		t.fn()
		fired++
	}
	return fired
}

// Pending returns the number of scheduled continuations.
func (tl *Timeline) Pending() int {
	return tl.pending.Len()
}

// Now returns the current clock value.
func (tl *Timeline) Now() time.Duration {
	return tl.now
}
