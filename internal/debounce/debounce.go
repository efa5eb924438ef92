// Package debounce implements trailing-edge debouncing: an action runs
// only after its inputs have been quiet for a fixed interval. Each new
// trigger cancels the pending timer and starts a fresh one, so a burst of
// triggers collapses into a single execution carrying the last input.
package debounce

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid triggers into one delayed execution.
// Safe for concurrent use. The zero value is not usable; construct with New.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a debouncer with the given quiesce interval.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the quiesce interval, cancelling any
// previously scheduled function. fn runs on its own goroutine (the timer's).
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending execution. It does not wait for a function
// that has already started.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
