package dashboard

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/vanderheijden86/marquee/pkg/debounce"
	"github.com/vanderheijden86/marquee/pkg/filter"
	"github.com/vanderheijden86/marquee/pkg/highlight"
	"github.com/vanderheijden86/marquee/pkg/model"
	"github.com/vanderheijden86/marquee/pkg/story"
	"github.com/vanderheijden86/marquee/pkg/viewport"
)

func movie(title string, year int, gross, rating float64, genres ...string) model.Movie {
	return model.Movie{Title: title, ReleaseYear: year, Gross: gross, Rating: rating, Genres: genres}
}

func tourDataset() *model.Dataset {
	return model.NewDataset([]model.Movie{
		movie("The Godfather", 1972, 134.97e6, 9.2, "Crime", "Drama"),
		movie("Jaws", 1975, 260e6, 8.0, "Adventure", "Thriller"),
		movie("Star Wars", 1977, 322.74e6, 8.6, "Action", "Adventure", "Sci-Fi"),
		movie("The Shawshank Redemption", 1994, 28.34e6, 9.3, "Drama"),
		movie("Avatar", 2009, 760.5e6, 7.8, "Action", "Adventure", "Sci-Fi"),
		movie("Inception", 2010, 292.58e6, 8.8, "Action", "Sci-Fi"),
		movie("Star Wars: Episode VII - The Force Awakens", 2015, 936.66e6, 7.9, "Action", "Adventure", "Sci-Fi"),
	})
}

func newTestDashboard(t *testing.T, opts ...Option) (*Dashboard, *debounce.FakeClock) {
	t.Helper()
	clock := debounce.NewFakeClock()
	d := New(tourDataset(), append([]Option{WithClock(clock)}, opts...)...)
	return d, clock
}

func intPtr(v int) *int { return &v }

func TestNewComputesFirstFrame(t *testing.T) {
	d, _ := newTestDashboard(t)
	f := d.Frame()
	if f.Revision != 1 {
		t.Errorf("Revision = %d, want 1", f.Revision)
	}
	if len(f.Points) != 7 {
		t.Errorf("points = %d, want 7", len(f.Points))
	}
	if f.Empty != filter.EmptyNone {
		t.Errorf("Empty = %q", f.Empty)
	}
	if f.Stats.Count != 7 {
		t.Errorf("Stats.Count = %d", f.Stats.Count)
	}
	if !f.ScaleBreak {
		t.Error("expected a scale break for data above 500M")
	}
	if f.ResetVisible {
		t.Error("reset should be hidden at identity")
	}
	if f.Controls != story.AllControls {
		t.Errorf("Controls = %+v", f.Controls)
	}
}

func TestNilDatasetIsEmpty(t *testing.T) {
	d := New(nil, WithClock(debounce.NewFakeClock()))
	f := d.Frame()
	if f.Empty != filter.EmptyNoData {
		t.Errorf("Empty = %q, want %q", f.Empty, filter.EmptyNoData)
	}
	if !f.Stats.Empty {
		t.Error("stats should be empty")
	}
}

func TestSubscribeReceivesFrames(t *testing.T) {
	d, _ := newTestDashboard(t)

	var got []uint64
	unsubscribe := d.Subscribe(func(f Frame) { got = append(got, f.Revision) })

	if err := d.SetRatingSplit(8.5); err != nil {
		t.Fatal(err)
	}
	if err := d.ToggleBand(model.BandLow); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []uint64{2, 3}) {
		t.Errorf("revisions = %v, want [2 3]", got)
	}

	unsubscribe()
	_ = d.SetRatingSplit(8.0)
	if len(got) != 2 {
		t.Errorf("received %d frames after unsubscribe, want 2", len(got))
	}
}

func TestFilterEventsRecompute(t *testing.T) {
	d, _ := newTestDashboard(t)

	if err := d.SetGenres([]string{"Drama"}); err != nil {
		t.Fatal(err)
	}
	f := d.Frame()
	want := []string{"The Godfather", "The Shawshank Redemption"}
	if got := filter.Titles(f.Points); !reflect.DeepEqual(got, want) {
		t.Errorf("titles = %v, want %v", got, want)
	}
	if f.Stats.Count != 2 {
		t.Errorf("stats not recomputed: count = %d", f.Stats.Count)
	}
	if f.Filter.GenreLabel == "" || f.Filter.AllGenres {
		t.Errorf("filter view = %+v", f.Filter)
	}
}

func TestBrushChangedNilClears(t *testing.T) {
	d, _ := newTestDashboard(t)
	before := filter.Titles(d.Frame().Points)

	lo, hi := 2000.2, 2010.6
	if err := d.BrushChanged(&lo, &hi); err != nil {
		t.Fatal(err)
	}
	f := d.Frame()
	if f.Filter.YearRange == nil || f.Filter.YearRange.Min != 2001 || f.Filter.YearRange.Max != 2010 {
		t.Fatalf("YearRange = %+v, want [2001,2010]", f.Filter.YearRange)
	}
	if f.Timeline.Brush == nil {
		t.Error("timeline brush should mirror the year range")
	}

	if err := d.BrushChanged(nil, nil); err != nil {
		t.Fatal(err)
	}
	f = d.Frame()
	if f.Filter.YearRange != nil {
		t.Errorf("YearRange = %+v, want nil", f.Filter.YearRange)
	}
	if got := filter.Titles(f.Points); !reflect.DeepEqual(got, before) {
		t.Errorf("titles after clear = %v, want %v", got, before)
	}
}

func TestBrushInsideOneYearClears(t *testing.T) {
	d, _ := newTestDashboard(t)
	lo, hi := 1970.0, 1980.0
	if err := d.BrushChanged(&lo, &hi); err != nil {
		t.Fatal(err)
	}

	lo, hi = 1975.2, 1975.8
	if err := d.BrushChanged(&lo, &hi); err != nil {
		t.Fatal(err)
	}
	f := d.Frame()
	if f.Filter.YearRange != nil {
		t.Errorf("YearRange = %+v, want nil", f.Filter.YearRange)
	}
	if len(f.Points) != 7 {
		t.Errorf("points = %d, want 7", len(f.Points))
	}
}

func TestRecoverFromEmptyStates(t *testing.T) {
	d, _ := newTestDashboard(t)

	_ = d.SelectAllGenres(false)
	f := d.Frame()
	if f.Empty != filter.EmptyNoGenres || f.Recovery != filter.RecoverSelectAllGenre {
		t.Fatalf("Empty = %q, Recovery = %q", f.Empty, f.Recovery)
	}
	if err := d.Recover(); err != nil {
		t.Fatal(err)
	}
	if n := len(d.Frame().Points); n != 7 {
		t.Errorf("points after recover = %d, want 7", n)
	}

	_ = d.ToggleBand(model.BandHigh)
	_ = d.ToggleBand(model.BandLow)
	if f := d.Frame(); f.Empty != filter.EmptyNoBands {
		t.Fatalf("Empty = %q, want %q", f.Empty, filter.EmptyNoBands)
	}
	if err := d.Recover(); err != nil {
		t.Fatal(err)
	}
	if n := len(d.Frame().Points); n != 7 {
		t.Errorf("points after recover = %d, want 7", n)
	}
}

func TestHoverGraceClearsThroughDispatch(t *testing.T) {
	d, clock := newTestDashboard(t)

	d.Hover(highlight.SourceScatter, intPtr(2010))
	f := d.Frame()
	if f.Highlight.FocusedYear == nil || *f.Highlight.FocusedYear != 2010 {
		t.Fatalf("FocusedYear = %v, want 2010", f.Highlight.FocusedYear)
	}
	if !f.IsHighlighted("Inception") || f.IsHighlighted("Avatar") {
		t.Errorf("Highlighted = %v", f.Highlighted)
	}

	d.Hover(highlight.SourceScatter, nil)
	clock.Advance(549 * time.Millisecond)
	if d.Frame().Highlight.FocusedYear == nil {
		t.Fatal("hover cleared before the grace delay")
	}
	rev := d.Frame().Revision
	clock.Advance(time.Millisecond)
	f = d.Frame()
	if f.Highlight.FocusedYear != nil {
		t.Errorf("FocusedYear = %d, want nil", *f.Highlight.FocusedYear)
	}
	if f.Revision <= rev {
		t.Error("timer-driven clear should publish a new frame")
	}
}

func TestLockBeatsHover(t *testing.T) {
	d, _ := newTestDashboard(t)

	d.ToggleLock(1977)
	d.Hover(highlight.SourceScatter, intPtr(2010))
	f := d.Frame()
	if f.Highlight.FocusedYear == nil || *f.Highlight.FocusedYear != 1977 {
		t.Fatalf("FocusedYear = %v, want 1977", f.Highlight.FocusedYear)
	}
	if !f.IsHighlighted("Star Wars") {
		t.Errorf("Highlighted = %v", f.Highlighted)
	}

	d.ClearLock()
	f = d.Frame()
	if f.Highlight.FocusedYear == nil || *f.Highlight.FocusedYear != 2010 {
		t.Errorf("FocusedYear = %v, want the hovered 2010", f.Highlight.FocusedYear)
	}
}

func TestLockYearWithoutTimelinePoint(t *testing.T) {
	d, _ := newTestDashboard(t)

	d.ToggleLock(1999)
	f := d.Frame()
	if f.Highlight.FocusedYear == nil || *f.Highlight.FocusedYear != 1999 {
		t.Fatalf("FocusedYear = %v, want 1999", f.Highlight.FocusedYear)
	}
	if f.Highlight.Marker {
		t.Error("no marker expected for a year without a timeline point")
	}
	if len(f.Highlighted) != 0 {
		t.Errorf("Highlighted = %v, want none", f.Highlighted)
	}

	d.ToggleLock(2009)
	f = d.Frame()
	if !f.Highlight.Marker || !f.IsHighlighted("Avatar") {
		t.Errorf("Marker = %v, Highlighted = %v", f.Highlight.Marker, f.Highlighted)
	}
}

func TestTimelinePointerIsThrottled(t *testing.T) {
	d, clock := newTestDashboard(t)
	x := d.Frame().Timeline.X

	var frames int
	d.Subscribe(func(Frame) { frames++ })

	d.TimelinePointer(x.Map(1972))
	d.TimelinePointer(x.Map(1994))
	d.TimelinePointer(x.Map(2010))
	if frames != 0 {
		t.Fatalf("pointer moves published %d frames before the frame tick", frames)
	}
	clock.Advance(debounce.FrameInterval)
	if frames != 1 {
		t.Errorf("frames = %d, want 1", frames)
	}
	f := d.Frame()
	if f.Highlight.FocusedYear == nil || *f.Highlight.FocusedYear != 2010 {
		t.Errorf("FocusedYear = %v, want the latest position 2010", f.Highlight.FocusedYear)
	}
	if f.Highlight.Source != highlight.SourceTimeline {
		t.Errorf("Source = %q", f.Highlight.Source)
	}
}

func TestNavigateRovesInYearOrder(t *testing.T) {
	d, _ := newTestDashboard(t)

	d.Navigate(highlight.Home)
	f := d.Frame()
	if f.Highlight.ActiveTitle != "The Godfather" {
		t.Fatalf("ActiveTitle = %q", f.Highlight.ActiveTitle)
	}
	d.Navigate(highlight.Right)
	if got := d.Frame().Highlight.ActiveTitle; got != "Jaws" {
		t.Errorf("after Right ActiveTitle = %q, want Jaws", got)
	}
	d.Navigate(highlight.End)
	if got := d.Frame().Highlight.ActiveTitle; got != "Star Wars: Episode VII - The Force Awakens" {
		t.Errorf("after End ActiveTitle = %q", got)
	}
	d.Blur()
	if f := d.Frame(); f.Highlight.FocusedYear != nil {
		t.Errorf("FocusedYear after blur = %v", *f.Highlight.FocusedYear)
	}
}

func TestZoomHidesScaleBreakAndResetAnimates(t *testing.T) {
	d, clock := newTestDashboard(t)
	lo0, hi0 := d.Frame().XAxis.Scale.Extent()

	if err := d.ZoomAt(2, 400, 200); err != nil {
		t.Fatal(err)
	}
	f := d.Frame()
	if f.Transform.K != 2 {
		t.Fatalf("K = %v, want 2", f.Transform.K)
	}
	if f.ScaleBreak {
		t.Error("scale break should be hidden while zoomed")
	}
	if !f.ResetVisible {
		t.Error("reset should be visible while zoomed")
	}
	if lo, hi := f.XAxis.Scale.Extent(); hi-lo >= (hi0-lo0)*0.6 {
		t.Errorf("x domain %v not narrowed from [%v, %v]", f.XAxis.Scale.Domain, lo0, hi0)
	}

	if err := d.ResetZoom(); err != nil {
		t.Fatal(err)
	}
	clock.Advance(viewport.DefaultResetDuration / 2)
	mid := d.Frame().Transform
	if mid.IsIdentity() || mid.K >= 2 {
		t.Errorf("mid-animation transform = %+v", mid)
	}
	clock.Advance(viewport.DefaultResetDuration)
	f = d.Frame()
	if f.Transform != viewport.Identity {
		t.Errorf("Transform = %+v, want identity", f.Transform)
	}
	if f.ResetVisible || !f.ScaleBreak {
		t.Errorf("ResetVisible = %v, ScaleBreak = %v", f.ResetVisible, f.ScaleBreak)
	}
}

func TestZoomInterruptsReset(t *testing.T) {
	d, clock := newTestDashboard(t)

	_ = d.ZoomAt(4, 400, 200)
	_ = d.ResetZoom()
	clock.Advance(100 * time.Millisecond)
	_ = d.SetTransform(viewport.Transform{K: 3, X: -800, Y: -400})
	clock.Advance(time.Second)

	if got := d.Frame().Transform; got != (viewport.Transform{K: 3, X: -800, Y: -400}) {
		t.Errorf("Transform = %+v, want the user's transform", got)
	}
}

// advanceWhileLocked advances clock by step while d.mu is held, so a timer
// callback due at step blocks inside update. interrupt then runs under the
// lock before the blocked callback is released.
func advanceWhileLocked(t *testing.T, d *Dashboard, clock *debounce.FakeClock, step time.Duration, interrupt func()) {
	t.Helper()
	d.mu.Lock()
	due := clock.Now().Add(step)
	done := make(chan struct{})
	go func() {
		clock.Advance(step)
		close(done)
	}()
	deadline := time.Now().Add(time.Second)
	for clock.Now().Before(due) {
		if time.Now().After(deadline) {
			d.mu.Unlock()
			t.Fatal("clock never reached the due timer")
		}
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	interrupt()
	d.mu.Unlock()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("blocked timer callback never finished")
	}
}

func TestZoomDuringDispatchedResetFrameWins(t *testing.T) {
	d, clock := newTestDashboard(t)
	user := viewport.Transform{K: 3, X: -800, Y: -400}

	_ = d.ZoomAt(4, 400, 200)
	_ = d.ResetZoom()
	advanceWhileLocked(t, d, clock, debounce.FrameInterval, func() {
		d.cancelZoomLocked()
		d.transform = user
	})
	clock.Advance(time.Second)

	if got := d.Frame().Transform; got != user {
		t.Errorf("Transform = %+v, want the user's transform", got)
	}
}

func TestZoomAfterLastResetFrameIsNotSnappedBack(t *testing.T) {
	d, clock := newTestDashboard(t)
	user := viewport.Transform{K: 3, X: -800, Y: -400}

	_ = d.ZoomAt(2, 400, 200)
	_ = d.ResetZoom()
	zoomed := false
	unsubscribe := d.Subscribe(func(f Frame) {
		if !zoomed && f.Transform.IsIdentity() {
			zoomed = true
			if err := d.SetTransform(user); err != nil {
				t.Errorf("SetTransform: %v", err)
			}
		}
	})
	defer unsubscribe()
	clock.Advance(2 * viewport.DefaultResetDuration)

	if !zoomed {
		t.Fatal("reset never reached identity")
	}
	if got := d.Frame().Transform; got != user {
		t.Errorf("Transform = %+v, want the user's transform", got)
	}
}

func TestPointerLeaveDropsDispatchedTimelineMove(t *testing.T) {
	d, clock := newTestDashboard(t)
	x := d.Frame().Timeline.X

	d.TimelinePointer(x.Map(2010))
	clock.Advance(debounce.FrameInterval)
	if f := d.Frame(); f.Highlight.FocusedYear == nil || *f.Highlight.FocusedYear != 2010 {
		t.Fatalf("FocusedYear = %v, want 2010", f.Highlight.FocusedYear)
	}

	d.TimelinePointer(x.Map(1994))
	advanceWhileLocked(t, d, clock, debounce.FrameInterval, func() {
		d.pointer.Cancel()
		d.pointerGen++
		d.highlight.Leave(highlight.SourceTimeline)
	})
	clock.Advance(time.Second)

	if f := d.Frame(); f.Highlight.FocusedYear != nil {
		t.Errorf("FocusedYear = %d, want nil after the pointer left", *f.Highlight.FocusedYear)
	}
}

func TestFeaturedAnnotationsOnlyOutsideStory(t *testing.T) {
	d, _ := newTestDashboard(t)

	f := d.Frame()
	var featured []string
	for _, a := range f.Annotations {
		if a.Kind == AnnotationFeatured {
			featured = append(featured, a.Title)
		}
	}
	if len(featured) == 0 || featured[0] != "Star Wars: Episode VII - The Force Awakens" {
		t.Errorf("featured = %v", featured)
	}

	d.StoryStart()
	for _, a := range d.Frame().Annotations {
		if a.Kind == AnnotationFeatured {
			t.Errorf("featured annotation %q shown during story", a.Title)
		}
	}
}

func TestStoryLocksControls(t *testing.T) {
	d, _ := newTestDashboard(t)

	d.StoryStart()
	before := d.FilterState()
	rev := d.Frame().Revision

	locked := []struct {
		name string
		fn   func() error
	}{
		{"ToggleGenre", func() error { return d.ToggleGenre("Drama") }},
		{"SetYearRange", func() error { return d.SetYearRange(&filter.YearRange{Min: 1990, Max: 2000}) }},
		{"SetRatingSplit", func() error { return d.SetRatingSplit(9) }},
		{"ToggleBand", func() error { return d.ToggleBand(model.BandHigh) }},
		{"ResetFilters", d.ResetFilters},
		{"ResetTimeline", d.ResetTimeline},
		{"ResetLegend", d.ResetLegend},
	}
	for _, tc := range locked {
		if err := tc.fn(); !errors.Is(err, ErrControlLocked) {
			t.Errorf("%s: err = %v, want ErrControlLocked", tc.name, err)
		}
	}
	if !d.FilterState().Equal(before) {
		t.Error("locked events changed the filter")
	}
	if d.Frame().Revision != rev {
		t.Error("locked events published frames")
	}

	if err := d.ZoomAt(2, 100, 100); err != nil {
		t.Errorf("zoom should stay enabled during the story: %v", err)
	}
}

func TestStoryClickGating(t *testing.T) {
	d, clock := newTestDashboard(t)

	d.StoryStart()
	_ = d.StoryNext()
	_ = d.StoryNext()
	f := d.Frame()
	if f.Story.Index != 2 {
		t.Fatalf("Index = %d, want 2", f.Story.Index)
	}
	if got := filter.Titles(f.Points); !reflect.DeepEqual(got, []string{"Jaws", "Star Wars"}) {
		t.Errorf("preset titles = %v", got)
	}
	if err := d.StoryNext(); !errors.Is(err, story.ErrStepGated) {
		t.Errorf("StoryNext err = %v, want ErrStepGated", err)
	}
	if d.StoryKey(story.KeyRight) {
		t.Error("Right should be ignored while gated")
	}

	clock.Advance(story.DefaultSetupDelay)
	f = d.Frame()
	if !reflect.DeepEqual(f.Story.Clickables, []string{"Star Wars"}) {
		t.Errorf("Clickables = %v", f.Story.Clickables)
	}
	var storyNotes int
	for _, a := range f.Annotations {
		if a.Kind == AnnotationStory {
			storyNotes++
		}
	}
	if storyNotes != 2 {
		t.Errorf("story annotations = %d, want 2", storyNotes)
	}

	if d.RecordClicked("Jaws") {
		t.Error("click on a non-target counted")
	}
	if d.Frame().Story.Index != 2 {
		t.Error("non-target click moved the story")
	}
	if !d.RecordClicked("Star Wars") {
		t.Fatal("click on the target did not count")
	}
	if got := d.Frame().Story.Index; got != 3 {
		t.Errorf("Index = %d, want 3 after auto-advance", got)
	}
}

func TestStoryRestoresPreTourView(t *testing.T) {
	d, clock := newTestDashboard(t)

	_ = d.SetGenres([]string{"Drama", "Crime"})
	_ = d.SetRatingSplit(8.7)
	_ = d.ZoomAt(2, 400, 200)
	beforeFilter := d.FilterState()
	beforeTransform := d.Frame().Transform

	d.StoryStart()
	_ = d.ZoomAt(3, 100, 100)
	_ = d.StoryGoTo(1)
	clock.Advance(time.Second)
	if d.FilterState().Equal(beforeFilter) {
		t.Fatal("preset did not change the filter")
	}

	if err := d.StoryEnd(); err != nil {
		t.Fatal(err)
	}
	if !d.FilterState().Equal(beforeFilter) {
		t.Errorf("filter = %+v, want %+v", d.FilterState(), beforeFilter)
	}
	f := d.Frame()
	if f.Transform != beforeTransform {
		t.Errorf("Transform = %+v, want %+v", f.Transform, beforeTransform)
	}
	if f.Story.Active || f.Controls != story.AllControls {
		t.Errorf("story still active: %+v", f.Story)
	}
}

func TestStoryEscapeEnds(t *testing.T) {
	d, _ := newTestDashboard(t)
	d.StoryStart()
	if !d.StoryKey(story.KeyEscape) {
		t.Fatal("escape not handled")
	}
	if d.Frame().Story.Active {
		t.Error("story still active after escape")
	}
	if err := d.StoryNext(); !errors.Is(err, story.ErrNotActive) {
		t.Errorf("err = %v, want ErrNotActive", err)
	}
}

func TestReplaceDatasetKeepsSelection(t *testing.T) {
	d, _ := newTestDashboard(t)
	_ = d.SetGenres([]string{"Drama"})
	d.StoryStart()

	next := model.NewDataset([]model.Movie{
		movie("Parasite", 2019, 53.37e6, 8.6, "Comedy", "Drama"),
		movie("Joker", 2019, 335.45e6, 8.5, "Crime", "Drama"),
		movie("Frozen II", 2019, 477.37e6, 6.9, "Animation"),
	})
	d.ReplaceDataset(next)

	f := d.Frame()
	if f.Story.Active {
		t.Error("replacing the dataset should end the story")
	}
	if got := filter.Titles(f.Points); !reflect.DeepEqual(got, []string{"Joker", "Parasite"}) {
		t.Errorf("titles = %v", got)
	}
	if d.Dataset() != next {
		t.Error("dataset not swapped")
	}
	if len(f.Timeline.Series) != 1 {
		t.Errorf("timeline years = %d, want 1", len(f.Timeline.Series))
	}
}

func TestResizeConstrainsTransform(t *testing.T) {
	d, _ := newTestDashboard(t)
	_ = d.SetTransform(viewport.Transform{K: 2, X: -800, Y: -400})
	d.Resize(400, 200)

	f := d.Frame()
	if f.Width != 400 || f.Height != 200 {
		t.Fatalf("size = %vx%v", f.Width, f.Height)
	}
	if f.Transform.X < 400*(1-f.Transform.K) {
		t.Errorf("Transform %+v escapes the resized plot", f.Transform)
	}
}

func TestConcurrentEvents(t *testing.T) {
	d, _ := newTestDashboard(t)

	var last uint64
	var mu sync.Mutex
	d.Subscribe(func(f Frame) {
		mu.Lock()
		if f.Revision > last {
			last = f.Revision
		}
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				switch j % 4 {
				case 0:
					_ = d.SetRatingSplit(7.5 + float64(i%4)*0.5)
				case 1:
					d.Hover(highlight.SourceScatter, intPtr(2009))
				case 2:
					_ = d.ToggleBand(model.BandLow)
				default:
					_ = d.Frame()
				}
			}
		}(i)
	}
	wg.Wait()

	f := d.Frame()
	if f.Revision != last {
		t.Errorf("latest frame revision %d, last published %d", f.Revision, last)
	}
	res := filter.Compute(d.Dataset().Movies, d.FilterState())
	if !reflect.DeepEqual(filter.Titles(res.Points), filter.Titles(f.Points)) {
		t.Error("frame points do not match a fresh pipeline run")
	}
}
