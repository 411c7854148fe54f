package viewport

import (
	"math"
	"sync"
	"time"

	"github.com/vanderheijden86/marquee/pkg/debounce"
)

// DefaultResetDuration is the zoom-reset transition length.
const DefaultResetDuration = 750 * time.Millisecond

// Animator drives an eased transition back to Identity, one frame at a time.
// Starting a new transition or calling Cancel invalidates every frame still
// scheduled for the previous one.
type Animator struct {
	clock    debounce.Clock
	duration time.Duration
	frame    time.Duration

	mu      sync.Mutex
	gen     uint64
	running bool
	timer   debounce.Timer
}

// NewAnimator returns an Animator on clock.
func NewAnimator(clock debounce.Clock, duration time.Duration) *Animator {
	if duration <= 0 {
		duration = DefaultResetDuration
	}
	return &Animator{clock: clock, duration: duration, frame: debounce.FrameInterval}
}

// Reset animates from to Identity. onFrame receives every intermediate
// transform; the last call is always exactly Identity, followed by onDone.
// Callbacks run on the clock's goroutine without any Animator lock held.
func (a *Animator) Reset(from Transform, onFrame func(Transform), onDone func()) {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.gen++
	gen := a.gen
	a.running = true
	start := a.clock.Now()
	a.mu.Unlock()

	var tick func()
	tick = func() {
		a.mu.Lock()
		if gen != a.gen {
			a.mu.Unlock()
			return
		}
		u := float64(a.clock.Now().Sub(start)) / float64(a.duration)
		done := u >= 1
		if done {
			a.running = false
			a.timer = nil
		} else {
			a.timer = a.clock.AfterFunc(a.frame, tick)
		}
		a.mu.Unlock()

		if done {
			onFrame(Identity)
			if onDone != nil {
				onDone()
			}
			return
		}
		onFrame(Lerp(from, Identity, easeCubicInOut(u)))
	}

	a.mu.Lock()
	if gen == a.gen {
		a.timer = a.clock.AfterFunc(a.frame, tick)
	}
	a.mu.Unlock()
}

// Cancel stops the running transition where it is.
func (a *Animator) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.running = false
	a.gen++
}

// Running reports whether a transition is in progress.
func (a *Animator) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

func easeCubicInOut(u float64) float64 {
	u = math.Max(0, math.Min(1, u))
	if u < 0.5 {
		return 4 * u * u * u
	}
	return 1 - math.Pow(-2*u+2, 3)/2
}
