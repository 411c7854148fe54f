// Package dashboard owns every piece of view state and is the only way a
// renderer changes it.
//
// Each event method takes one lock, mutates, recomputes the pipeline, the
// derived stats and the frame, then releases the lock and hands the new
// Frame to subscribers. Timer-driven changes (hover grace, story step setup,
// zoom reset frames, throttled pointer moves) are dispatched through the same
// path, so no reader ever observes a half-applied change.
package dashboard

import (
	"errors"
	"sync"
	"time"

	"github.com/vanderheijden86/marquee/pkg/debounce"
	"github.com/vanderheijden86/marquee/pkg/debug"
	"github.com/vanderheijden86/marquee/pkg/filter"
	"github.com/vanderheijden86/marquee/pkg/highlight"
	"github.com/vanderheijden86/marquee/pkg/model"
	"github.com/vanderheijden86/marquee/pkg/stats"
	"github.com/vanderheijden86/marquee/pkg/story"
	"github.com/vanderheijden86/marquee/pkg/timeline"
	"github.com/vanderheijden86/marquee/pkg/viewport"
)

// ErrControlLocked is returned when an event targets a control the guided
// tour has disabled. State is left unchanged.
var ErrControlLocked = errors.New("control is locked while the story is running")

// Default plot geometry, in renderer units.
const (
	DefaultWidth          = 800.0
	DefaultHeight         = 400.0
	DefaultTimelineHeight = 100.0
)

type options struct {
	clock          debounce.Clock
	grace          map[highlight.Source]time.Duration
	script         []story.Step
	setupDelay     time.Duration
	restoreDelay   time.Duration
	autoAdvance    bool
	defaultSplit   float64
	zoomReset      time.Duration
	width, height  float64
	timelineHeight float64
}

// Option configures a Dashboard.
type Option func(*options)

// WithClock sets the clock every timer runs on.
func WithClock(c debounce.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithHoverGrace overrides per-source hover grace delays.
func WithHoverGrace(g map[highlight.Source]time.Duration) Option {
	return func(o *options) { o.grace = g }
}

// WithScript replaces the guided tour.
func WithScript(steps []story.Step) Option {
	return func(o *options) { o.script = steps }
}

// WithStoryDelays sets the step setup and restore delays.
func WithStoryDelays(setup, restore time.Duration) Option {
	return func(o *options) {
		o.setupDelay = setup
		o.restoreDelay = restore
	}
}

// WithAutoAdvance controls whether a qualifying story click advances at once.
func WithAutoAdvance(on bool) Option {
	return func(o *options) { o.autoAdvance = on }
}

// WithDefaultSplit sets the rating split restored by resets.
func WithDefaultSplit(v float64) Option {
	return func(o *options) { o.defaultSplit = v }
}

// WithZoomResetDuration sets the zoom-reset transition length.
func WithZoomResetDuration(d time.Duration) Option {
	return func(o *options) { o.zoomReset = d }
}

// WithSize sets the scatter plot size.
func WithSize(width, height float64) Option {
	return func(o *options) {
		o.width = width
		o.height = height
	}
}

// Dashboard coordinates filter, transform, highlight and story state.
type Dashboard struct {
	opts options

	mu        sync.Mutex
	ds        *model.Dataset
	filter    filter.State
	transform viewport.Transform
	highlight *highlight.State
	story     *story.Engine
	series    timeline.Series
	animator  *viewport.Animator
	pointer   *debounce.Throttle[pointerMove]

	// zoomGen and pointerGen invalidate animation frames and pointer
	// moves that are already waiting on mu when the user interrupts them.
	zoomGen    uint64
	pointerGen uint64

	result filter.Result
	stats  stats.Stats
	frame  Frame
	rev    uint64

	subs    map[int]func(Frame)
	nextSub int
}

// New builds a Dashboard over ds and computes the first frame.
func New(ds *model.Dataset, opts ...Option) *Dashboard {
	o := options{
		clock:          debounce.RealClock(),
		autoAdvance:    true,
		defaultSplit:   filter.DefaultRatingSplit,
		zoomReset:      viewport.DefaultResetDuration,
		width:          DefaultWidth,
		height:         DefaultHeight,
		timelineHeight: DefaultTimelineHeight,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if ds == nil {
		ds = model.NewDataset(nil)
	}

	d := &Dashboard{
		opts:      o,
		ds:        ds,
		filter:    filter.NewStateWithSplit(ds, o.defaultSplit),
		transform: viewport.Identity,
		series:    timeline.Build(ds.Movies),
		animator:  viewport.NewAnimator(o.clock, o.zoomReset),
		subs:      make(map[int]func(Frame)),
	}
	d.highlight = highlight.New(highlight.Options{Clock: o.clock, Grace: o.grace, Dispatch: d.dispatch})
	d.story = story.New(storyHost{d}, o.script, story.Options{
		Clock:        o.clock,
		Dispatch:     d.dispatch,
		SetupDelay:   o.setupDelay,
		RestoreDelay: o.restoreDelay,
		AutoAdvance:  o.autoAdvance,
	})
	d.pointer = debounce.NewThrottle(o.clock, debounce.FrameInterval, d.timelinePointerFrame)

	d.mu.Lock()
	d.recomputeLocked()
	d.mu.Unlock()
	return d
}

// Subscribe registers fn to receive every new Frame. Frames carry a
// revision; a subscriber that can receive from several goroutines should
// drop frames older than the last one it saw. The returned function
// unsubscribes.
func (d *Dashboard) Subscribe(fn func(Frame)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = fn
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.subs, id)
	}
}

// Frame returns the most recent frame.
func (d *Dashboard) Frame() Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame
}

// Dataset returns the current dataset.
func (d *Dashboard) Dataset() *model.Dataset {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ds
}

// FilterState returns a copy of the filter state.
func (d *Dashboard) FilterState() filter.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filter.Clone()
}

// update runs fn under the lock; on success it recomputes and notifies.
func (d *Dashboard) update(event string, fn func() error) error {
	d.mu.Lock()
	if err := fn(); err != nil {
		d.mu.Unlock()
		debug.Log("dashboard: %s rejected: %v", event, err)
		return err
	}
	f := d.recomputeLocked()
	subs := make([]func(Frame), 0, len(d.subs))
	for _, s := range d.subs {
		subs = append(subs, s)
	}
	d.mu.Unlock()

	debug.Log("dashboard: %s -> rev %d (%d points)", event, f.Revision, len(f.Points))
	for _, s := range subs {
		s(f)
	}
	return nil
}

// dispatch is the Dispatcher handed to timer-driven components.
func (d *Dashboard) dispatch(fn func()) {
	_ = d.update("timer", func() error {
		fn()
		return nil
	})
}

func (d *Dashboard) recomputeLocked() Frame {
	defer debug.LogEnterExit("dashboard: recompute")()
	d.result = filter.Compute(d.ds.Movies, d.filter)
	d.stats = stats.Compute(d.result.Points)
	d.highlight.SetPoints(d.result.Points)
	d.rev++
	d.frame = d.buildFrameLocked()
	return d.frame
}

// storyHost lets the story engine write through the dashboard's setters.
// Its methods run with the dashboard lock held.
type storyHost struct{ d *Dashboard }

func (h storyHost) Capture() story.Snapshot {
	return story.Snapshot{Filter: h.d.filter.Clone(), Transform: h.d.transform}
}

func (h storyHost) Restore(s story.Snapshot) {
	f := &h.d.filter
	f.SetGenres(s.Filter.SelectedGenres())
	f.SetYearRange(s.Filter.YearRange)
	f.SetRatingSplit(s.Filter.RatingSplit)
	f.SetBands(s.Filter.VisibleBands())
	h.d.cancelZoomLocked()
	h.d.transform = viewport.Constrain(s.Transform, h.d.opts.width, h.d.opts.height)
}

func (h storyHost) ApplyPreset(p story.Preset) {
	f := &h.d.filter
	f.SetYearRange(p.YearRange)
	f.SetGenres(p.Genres)
	f.SetRatingSplit(p.RatingSplit)
	f.SetBands(p.Bands)
}
