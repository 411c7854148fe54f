package debounce

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is used by the dataset watcher.
const DefaultDebounceDuration = 200 * time.Millisecond

// Debouncer runs only the most recently triggered callback, once the delay
// has elapsed without another trigger. A superseded or cancelled callback
// never runs, even if its underlying timer already fired.
type Debouncer struct {
	clock    Clock
	duration time.Duration

	mu    sync.Mutex
	gen   uint64
	timer Timer
}

// NewDebouncer creates a Debouncer on the real clock.
func NewDebouncer(d time.Duration) *Debouncer {
	return NewDebouncerWithClock(RealClock(), d)
}

// NewDebouncerWithClock creates a Debouncer on the given clock.
func NewDebouncerWithClock(c Clock, d time.Duration) *Debouncer {
	return &Debouncer{clock: c, duration: d}
}

// Trigger schedules fn, cancelling any pending callback.
func (d *Debouncer) Trigger(fn func()) {
	d.TriggerAfter(d.duration, fn)
}

// TriggerAfter is Trigger with a one-off delay.
func (d *Debouncer) TriggerAfter(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(delay, func() {
		d.mu.Lock()
		current := gen == d.gen
		if current {
			d.timer = nil
		}
		d.mu.Unlock()
		if current {
			fn()
		}
	})
}

// Cancel drops the pending callback, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// Pending reports whether a callback is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Duration returns the default delay.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}
