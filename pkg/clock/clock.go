// Package clock lets timed loops run against fake time in tests.
package clock

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
	// After behaves like time.After.
	After(d time.Duration) <-chan time.Time
}

type system struct{}

func Real() Clock { return system{} }

func (system) Now() time.Time { return time.Now() }

func (system) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Fake never blocks: After moves the fake time forward by d and fires
// immediately. Every requested wait is recorded.
type Fake struct {
	mu    sync.Mutex
	now   time.Time
	waits []time.Duration
}

func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.now
}

func (f *Fake) After(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.waits = append(f.waits, d)
	if d > 0 {
		f.now = f.now.Add(d)
	}

	ch := make(chan time.Time, 1)
	ch <- f.now
	return ch
}

// Advance moves the fake time without recording a wait.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func (f *Fake) Waits() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]time.Duration, len(f.waits))
	copy(out, f.waits)
	return out
}
