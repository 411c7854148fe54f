// Package highlight tracks the single focused year shared by the timeline and
// the scatter plot.
//
// Three inputs write to it: pointer hover, an explicit lock, and keyboard
// roving focus. The observed focus resolves them with the precedence
// lock > keyboard > hover. State is not safe for concurrent use; the owner
// serializes calls, including the delayed hover clears it dispatches.
package highlight

import (
	"sort"
	"time"

	"github.com/vanderheijden86/marquee/pkg/debounce"
	"github.com/vanderheijden86/marquee/pkg/debug"
	"github.com/vanderheijden86/marquee/pkg/filter"
)

// Source identifies what set the focused year.
type Source string

const (
	SourceNone     Source = ""
	SourceScatter  Source = "scatter"
	SourceTimeline Source = "timeline"
	SourceLegend   Source = "legend"
	SourceKeyboard Source = "keyboard"
	SourceLock     Source = "lock"
)

// DefaultGrace is how long each pointer source keeps its hover after the
// pointer leaves.
var DefaultGrace = map[Source]time.Duration{
	SourceScatter:  550 * time.Millisecond,
	SourceTimeline: 150 * time.Millisecond,
	SourceLegend:   300 * time.Millisecond,
}

// Snapshot is the externally observed highlight.
type Snapshot struct {
	FocusedYear *int   `json:"focused_year,omitempty"`
	Source      Source `json:"source,omitempty"`
	LockedYear  *int   `json:"locked_year,omitempty"`
	HoverYear   *int   `json:"hover_year,omitempty"`
	ActiveTitle string `json:"active_title,omitempty"`
	ActiveIndex int    `json:"active_index"`
	// Marker is set when the timeline has a data point at FocusedYear.
	Marker      bool   `json:"marker"`
}

// Options configures a State.
type Options struct {
	Clock    debounce.Clock
	Grace    map[Source]time.Duration
	Dispatch debounce.Dispatcher
}

// State is the shared highlight sink.
type State struct {
	grace    map[Source]time.Duration
	clear    *debounce.Debouncer
	dispatch debounce.Dispatcher
	// clearGen invalidates a hover clear already handed to dispatch.
	clearGen uint64

	hoverYear   *int
	hoverSource Source
	lockedYear  *int

	order       []filter.Point
	activeIndex int
	activeTitle string
}

// New returns an empty State.
func New(opts Options) *State {
	if opts.Clock == nil {
		opts.Clock = debounce.RealClock()
	}
	if opts.Dispatch == nil {
		opts.Dispatch = debounce.Direct
	}
	grace := make(map[Source]time.Duration, len(DefaultGrace))
	for k, v := range DefaultGrace {
		grace[k] = v
	}
	for k, v := range opts.Grace {
		grace[k] = v
	}
	return &State{
		grace:       grace,
		clear:       debounce.NewDebouncerWithClock(opts.Clock, 0),
		dispatch:    opts.Dispatch,
		activeIndex: -1,
	}
}

func (s *State) cancelClear() {
	s.clear.Cancel()
	s.clearGen++
}

// Hover sets the hovered year and cancels any pending clear. While locked
// the hover is recorded but does not change the observed focus.
func (s *State) Hover(src Source, year int) {
	s.cancelClear()
	y := year
	s.hoverYear = &y
	s.hoverSource = src
}

// Leave schedules the hover clear after src's grace delay. A Hover before
// the delay elapses cancels it.
func (s *State) Leave(src Source) {
	if s.hoverYear == nil {
		return
	}
	s.clearGen++
	gen := s.clearGen
	delay := s.grace[src]
	s.clear.TriggerAfter(delay, func() {
		s.dispatch(func() {
			if gen != s.clearGen {
				return
			}
			debug.Log("highlight: hover cleared after %s grace", src)
			s.hoverYear = nil
			s.hoverSource = SourceNone
		})
	})
}

// ClearPending reports whether a hover clear is scheduled.
func (s *State) ClearPending() bool {
	return s.clear.Pending()
}

// ToggleLock pins year, or unpins it when it is already the locked year.
func (s *State) ToggleLock(year int) {
	s.cancelClear()
	if s.lockedYear != nil && *s.lockedYear == year {
		s.lockedYear = nil
		return
	}
	y := year
	s.lockedYear = &y
}

// ClearLock removes the lock.
func (s *State) ClearLock() {
	s.lockedYear = nil
}

// Locked reports whether a lock is set.
func (s *State) Locked() bool {
	return s.lockedYear != nil
}

// RovingOrder sorts points for keyboard traversal: release year, then gross,
// then title. The input is not modified.
func RovingOrder(points []filter.Point) []filter.Point {
	out := append([]filter.Point(nil), points...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Movie, out[j].Movie
		if a.ReleaseYear != b.ReleaseYear {
			return a.ReleaseYear < b.ReleaseYear
		}
		if a.Gross != b.Gross {
			return a.Gross < b.Gross
		}
		return a.Title < b.Title
	})
	return out
}

// SetPoints replaces the roving collection after the display data changed.
// The active record is found again by title; if it is no longer displayed
// keyboard focus is dropped.
func (s *State) SetPoints(points []filter.Point) {
	s.order = RovingOrder(points)
	if s.activeTitle == "" {
		s.activeIndex = -1
		return
	}
	for i, p := range s.order {
		if p.Movie.Title == s.activeTitle {
			s.activeIndex = i
			return
		}
	}
	s.dropKeyboard()
}

func (s *State) dropKeyboard() {
	s.activeIndex = -1
	s.activeTitle = ""
}

// Direction is a roving-focus key.
type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
	Up    Direction = "up"
	Down  Direction = "down"
	Home  Direction = "home"
	End   Direction = "end"
)

// Navigate moves keyboard focus. Left and Right jump to the first record of
// the previous or next year; Up and Down step to the next higher or lower
// gross within the same year. With no active record, focus starts at the
// first record (the last for End). It reports whether focus moved.
func (s *State) Navigate(dir Direction) bool {
	n := len(s.order)
	if n == 0 {
		return false
	}
	i := s.activeIndex
	next := i
	switch {
	case i < 0 && dir == End:
		next = n - 1
	case i < 0:
		next = 0
	default:
		next = s.step(i, dir)
	}
	if next == i {
		return false
	}
	s.activeIndex = next
	s.activeTitle = s.order[next].Movie.Title
	return true
}

func (s *State) step(i int, dir Direction) int {
	year := func(k int) int { return s.order[k].Movie.ReleaseYear }
	groupStart := func(k int) int {
		for k > 0 && year(k-1) == year(k) {
			k--
		}
		return k
	}
	n := len(s.order)
	switch dir {
	case Right:
		for j := i + 1; j < n; j++ {
			if year(j) != year(i) {
				return j
			}
		}
	case Left:
		if g := groupStart(i); g > 0 {
			return groupStart(g - 1)
		}
	case Up:
		if i+1 < n && year(i+1) == year(i) {
			return i + 1
		}
	case Down:
		if i > 0 && year(i-1) == year(i) {
			return i - 1
		}
	case Home:
		return 0
	case End:
		return n - 1
	}
	return i
}

// Blur drops keyboard focus and the highlight it drove. A lock survives.
func (s *State) Blur() {
	s.dropKeyboard()
}

// Active returns the keyboard-focused point.
func (s *State) Active() (filter.Point, bool) {
	if s.activeIndex < 0 || s.activeIndex >= len(s.order) {
		return filter.Point{}, false
	}
	return s.order[s.activeIndex], true
}

// Focused resolves the observed focus: lock, then keyboard, then hover.
func (s *State) Focused() (*int, Source) {
	if s.lockedYear != nil {
		y := *s.lockedYear
		return &y, SourceLock
	}
	if p, ok := s.Active(); ok {
		y := p.Movie.ReleaseYear
		return &y, SourceKeyboard
	}
	if s.hoverYear != nil {
		y := *s.hoverYear
		return &y, s.hoverSource
	}
	return nil, SourceNone
}

// Snapshot captures the observed state. hasMarker reports whether the
// timeline has data for a year; it may be nil.
func (s *State) Snapshot(hasMarker func(int) bool) Snapshot {
	year, src := s.Focused()
	snap := Snapshot{
		FocusedYear: year,
		Source:      src,
		LockedYear:  copyInt(s.lockedYear),
		HoverYear:   copyInt(s.hoverYear),
		ActiveTitle: s.activeTitle,
		ActiveIndex: s.activeIndex,
	}
	if year != nil && hasMarker != nil {
		snap.Marker = hasMarker(*year)
	}
	return snap
}

// Reset clears every input and cancels a pending hover clear.
func (s *State) Reset() {
	s.cancelClear()
	s.hoverYear = nil
	s.hoverSource = SourceNone
	s.lockedYear = nil
	s.dropKeyboard()
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
