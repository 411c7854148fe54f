package debounce

import (
	"sync"
	"time"
)

// FrameInterval approximates one display frame.
const FrameInterval = 16 * time.Millisecond

// Throttle coalesces a burst of values into at most one callback per frame.
// The callback always receives the latest value pushed before it fires.
type Throttle[T any] struct {
	clock Clock
	frame time.Duration
	fn    func(T)

	mu        sync.Mutex
	latest    T
	scheduled bool
	gen       uint64
	timer     Timer
}

// NewThrottle creates a Throttle calling fn at most once per frame.
func NewThrottle[T any](c Clock, frame time.Duration, fn func(T)) *Throttle[T] {
	return &Throttle[T]{clock: c, frame: frame, fn: fn}
}

// Push records v and schedules a callback if none is pending.
func (t *Throttle[T]) Push(v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest = v
	if t.scheduled {
		return
	}
	t.scheduled = true
	gen := t.gen
	t.timer = t.clock.AfterFunc(t.frame, func() {
		t.mu.Lock()
		if gen != t.gen {
			t.mu.Unlock()
			return
		}
		v := t.latest
		t.scheduled = false
		t.timer = nil
		t.mu.Unlock()
		t.fn(v)
	})
}

// Cancel drops a pending callback.
func (t *Throttle[T]) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.scheduled = false
	t.gen++
}
