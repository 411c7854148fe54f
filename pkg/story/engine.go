// Package story runs the guided tour: a fixed script of filter presets,
// annotations and click gates layered over the same filter state the user
// drives.
//
// The engine never keeps a filter of its own. It writes presets through its
// Host and the host recomputes exactly as it would for a user edit. Engine is
// not safe for concurrent use; delayed step setup is handed to the host's
// Dispatcher so it runs under the same serialization as every other event.
package story

import (
	"errors"
	"time"

	"github.com/vanderheijden86/marquee/pkg/debounce"
	"github.com/vanderheijden86/marquee/pkg/debug"
	"github.com/vanderheijden86/marquee/pkg/filter"
	"github.com/vanderheijden86/marquee/pkg/viewport"
)

// Step timing defaults.
const (
	DefaultSetupDelay   = 800 * time.Millisecond
	DefaultRestoreDelay = 400 * time.Millisecond
)

var (
	// ErrNotActive is returned by navigation calls while no tour is running.
	ErrNotActive = errors.New("story: not active")
	// ErrStepGated is returned by Next when the step still needs a click.
	ErrStepGated = errors.New("story: step requires a click on a highlighted movie")
)

// Snapshot is the pre-tour view restored when the tour ends.
type Snapshot struct {
	Filter    filter.State       `json:"filter"`
	Transform viewport.Transform `json:"transform"`
}

// Host is the state owner the engine writes through.
type Host interface {
	Capture() Snapshot
	Restore(Snapshot)
	ApplyPreset(Preset)
}

// Controls lists which user controls are enabled.
type Controls struct {
	Brush  bool `json:"brush"`
	Legend bool `json:"legend"`
	Slider bool `json:"slider"`
	Reset  bool `json:"reset"`
	Genres bool `json:"genres"`
	Zoom   bool `json:"zoom"`
}

// AllControls has every control enabled.
var AllControls = Controls{Brush: true, Legend: true, Slider: true, Reset: true, Genres: true, Zoom: true}

// Options configures an Engine. Zero delays use the defaults.
type Options struct {
	Clock        debounce.Clock
	Dispatch     debounce.Dispatcher
	SetupDelay   time.Duration
	RestoreDelay time.Duration
	// AutoAdvance moves to the next step as soon as a qualifying click
	// is recorded.
	AutoAdvance  bool
}

// Engine is the tour state machine. Current is -1 while inactive.
type Engine struct {
	steps []Step
	host  Host
	opts  Options

	current  int
	snapshot *Snapshot
	visited  []bool

	clicked     bool
	armed       bool
	annotations []Annotation

	gen   uint64
	timer debounce.Timer
}

// New returns an inactive engine running steps against host.
func New(host Host, steps []Step, opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = debounce.RealClock()
	}
	if opts.Dispatch == nil {
		opts.Dispatch = debounce.Direct
	}
	if opts.SetupDelay <= 0 {
		opts.SetupDelay = DefaultSetupDelay
	}
	if opts.RestoreDelay <= 0 {
		opts.RestoreDelay = DefaultRestoreDelay
	}
	if steps == nil {
		steps = DefaultScript()
	}
	return &Engine{steps: steps, host: host, opts: opts, current: -1, visited: make([]bool, len(steps))}
}

// Steps returns the script.
func (e *Engine) Steps() []Step { return e.steps }

// Active reports whether a tour is running.
func (e *Engine) Active() bool { return e.current >= 0 }

// Current returns the step index, or -1.
func (e *Engine) Current() int { return e.current }

// Start captures the current view, locks the exploratory controls and
// enters step 0. Starting a running tour does nothing.
func (e *Engine) Start() {
	if e.Active() || len(e.steps) == 0 {
		return
	}
	snap := e.host.Capture()
	snap.Filter = snap.Filter.Clone()
	e.snapshot = &snap
	e.visited = make([]bool, len(e.steps))
	debug.Log("story: started with %d steps", len(e.steps))
	e.enter(0)
}

func (e *Engine) invalidate() {
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.clicked = false
	e.armed = false
	e.annotations = nil
}

func (e *Engine) enter(i int) {
	e.invalidate()
	e.current = i
	e.visited[i] = true
	step := e.steps[i]
	debug.Log("story: step %d %q", i, step.Title)

	gen := e.gen
	if step.Restore {
		e.after(e.opts.RestoreDelay, gen, func() {
			if e.snapshot != nil {
				e.host.Restore(e.restoreCopy())
			}
		})
		return
	}

	debug.Dump("story: preset", step.Preset)
	e.host.ApplyPreset(step.Preset)
	e.after(e.opts.SetupDelay, gen, func() {
		e.annotations = append([]Annotation(nil), step.Annotations...)
		e.armed = len(step.Clickables) > 0
	})
}

// after runs fn through the dispatcher once d has elapsed, unless the step
// changed in the meantime.
func (e *Engine) after(d time.Duration, gen uint64, fn func()) {
	e.timer = e.opts.Clock.AfterFunc(d, func() {
		e.opts.Dispatch(func() {
			if gen != e.gen {
				return
			}
			e.timer = nil
			fn()
		})
	})
}

func (e *Engine) restoreCopy() Snapshot {
	s := *e.snapshot
	s.Filter = s.Filter.Clone()
	return s
}

// CanAdvance reports whether Next would leave the current step.
func (e *Engine) CanAdvance() bool {
	if !e.Active() {
		return false
	}
	return !e.steps[e.current].RequiresClick || e.clicked
}

// Next advances one step, finishing the tour from the last step.
func (e *Engine) Next() error {
	if !e.Active() {
		return ErrNotActive
	}
	if !e.CanAdvance() {
		return ErrStepGated
	}
	if e.current == len(e.steps)-1 {
		return e.End()
	}
	e.enter(e.current + 1)
	return nil
}

// Prev goes back one step. It is never gated and does nothing at step 0.
func (e *Engine) Prev() error {
	if !e.Active() {
		return ErrNotActive
	}
	if e.current == 0 {
		return nil
	}
	e.enter(e.current - 1)
	return nil
}

// GoTo jumps to step i as one transition. An index outside the script ends
// the tour. Moving forward stops at the first gated step whose click has not
// been recorded; moving backward is free.
func (e *Engine) GoTo(i int) error {
	if !e.Active() {
		return ErrNotActive
	}
	if i < 0 || i >= len(e.steps) {
		debug.Log("story: step %d out of range, ending", i)
		return e.End()
	}
	target := i
	if i > e.current {
		target = e.current
		for target < i {
			if e.steps[target].RequiresClick && !(target == e.current && e.clicked) {
				break
			}
			target++
		}
	}
	if target == e.current {
		if i > e.current {
			return ErrStepGated
		}
		return nil
	}
	e.enter(target)
	return nil
}

// End restores the pre-tour view, re-enables controls and drops every
// pending step timer.
func (e *Engine) End() error {
	if !e.Active() {
		return ErrNotActive
	}
	e.invalidate()
	if e.snapshot != nil {
		e.host.Restore(e.restoreCopy())
	}
	e.current = -1
	e.snapshot = nil
	debug.Log("story: ended")
	return nil
}

// RecordClick registers a click on a movie. It counts only when the step
// requires a click, its click targets are armed and title is one of them.
// With AutoAdvance the tour then moves on immediately. It reports whether the
// click counted.
func (e *Engine) RecordClick(title string) bool {
	if !e.Active() {
		return false
	}
	step := e.steps[e.current]
	if !step.RequiresClick || !e.armed || !step.IsClickable(title) {
		return false
	}
	e.clicked = true
	debug.Log("story: click on %q unlocked step %d", title, e.current)
	if e.opts.AutoAdvance {
		_ = e.Next()
	}
	return true
}

// Key is a navigation key while the tour is active.
type Key string

const (
	KeyRight  Key = "right"
	KeyLeft   Key = "left"
	KeyEscape Key = "esc"
)

// HandleKey maps a key to a transition. Right is ignored while the step
// waits for a click. It reports whether the key was consumed.
func (e *Engine) HandleKey(k Key) bool {
	if !e.Active() {
		return false
	}
	switch k {
	case KeyRight:
		return e.Next() == nil
	case KeyLeft:
		_ = e.Prev()
		return true
	case KeyEscape:
		_ = e.End()
		return true
	}
	return false
}

// Controls returns the enabled controls. While a tour runs only zoom stays
// available.
func (e *Engine) Controls() Controls {
	if !e.Active() {
		return AllControls
	}
	return Controls{Zoom: true}
}

// Dot is one progress indicator.
type Dot struct {
	Current bool `json:"current"`
	Visited bool `json:"visited"`
}

// Progress returns one dot per step.
func (e *Engine) Progress() []Dot {
	out := make([]Dot, len(e.steps))
	for i := range out {
		out[i] = Dot{Current: i == e.current, Visited: e.visited[i]}
	}
	return out
}

// View is what the story panel shows.
type View struct {
	Active      bool         `json:"active"`
	Index       int          `json:"index"`
	Total       int          `json:"total"`
	Title       string       `json:"title,omitempty"`
	Caption     string       `json:"caption,omitempty"`
	PrevEnabled bool         `json:"prev_enabled"`
	NextEnabled bool         `json:"next_enabled"`
	IsLast      bool         `json:"is_last"`
	Progress    []Dot        `json:"progress,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	// Clickables is empty until the step's setup delay has passed.
	Clickables  []string     `json:"clickables,omitempty"`
}

// View returns the panel state.
func (e *Engine) View() View {
	v := View{Index: e.current, Total: len(e.steps)}
	if !e.Active() {
		return v
	}
	step := e.steps[e.current]
	v.Active = true
	v.Title = step.Title
	v.Caption = step.Caption
	v.PrevEnabled = e.current > 0
	v.NextEnabled = e.CanAdvance()
	v.IsLast = e.current == len(e.steps)-1
	v.Progress = e.Progress()
	v.Annotations = append([]Annotation(nil), e.annotations...)
	if e.armed {
		v.Clickables = append([]string(nil), step.Clickables...)
	}
	return v
}
