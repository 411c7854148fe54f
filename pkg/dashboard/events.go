package dashboard

import (
	"github.com/vanderheijden86/marquee/pkg/filter"
	"github.com/vanderheijden86/marquee/pkg/highlight"
	"github.com/vanderheijden86/marquee/pkg/model"
	"github.com/vanderheijden86/marquee/pkg/story"
	"github.com/vanderheijden86/marquee/pkg/timeline"
	"github.com/vanderheijden86/marquee/pkg/viewport"
)

func (d *Dashboard) require(ok func(story.Controls) bool) error {
	if !ok(d.story.Controls()) {
		return ErrControlLocked
	}
	return nil
}

func genresEnabled(c story.Controls) bool { return c.Genres }
func brushEnabled(c story.Controls) bool  { return c.Brush }
func sliderEnabled(c story.Controls) bool { return c.Slider }
func legendEnabled(c story.Controls) bool { return c.Legend }
func resetEnabled(c story.Controls) bool  { return c.Reset }
func zoomEnabled(c story.Controls) bool   { return c.Zoom }

// ToggleGenre flips one genre in the picker.
func (d *Dashboard) ToggleGenre(g string) error {
	return d.update("toggle-genre", func() error {
		if err := d.require(genresEnabled); err != nil {
			return err
		}
		d.filter.ToggleGenre(g)
		return nil
	})
}

// SelectAllGenres selects every genre, or clears the selection.
func (d *Dashboard) SelectAllGenres(all bool) error {
	return d.update("select-all-genres", func() error {
		if err := d.require(genresEnabled); err != nil {
			return err
		}
		d.filter.SelectAllGenres(all)
		return nil
	})
}

// SetGenres replaces the selection; nil selects all.
func (d *Dashboard) SetGenres(genres []string) error {
	return d.update("set-genres", func() error {
		if err := d.require(genresEnabled); err != nil {
			return err
		}
		d.filter.SetGenres(genres)
		return nil
	})
}

// SetYearRange sets the brush to a year interval; nil clears it.
func (d *Dashboard) SetYearRange(r *filter.YearRange) error {
	return d.update("year-range", func() error {
		if err := d.require(brushEnabled); err != nil {
			return err
		}
		d.filter.SetYearRange(r)
		return nil
	})
}

// BrushChanged takes a fractional brush selection. Either bound nil clears
// the brush.
func (d *Dashboard) BrushChanged(lo, hi *float64) error {
	return d.update("brush", func() error {
		if err := d.require(brushEnabled); err != nil {
			return err
		}
		if lo == nil || hi == nil {
			d.filter.ResetYearRange()
			return nil
		}
		d.filter.SetBrush(*lo, *hi)
		return nil
	})
}

// BrushPixels converts a timeline brush in pixels to years and applies it.
func (d *Dashboard) BrushPixels(px0, px1 float64) error {
	d.mu.Lock()
	x, _ := d.series.Axes(d.opts.width, d.opts.timelineHeight)
	d.mu.Unlock()
	lo, hi := timeline.BrushYears(x, px0, px1)
	return d.BrushChanged(&lo, &hi)
}

// SetRatingSplit moves the rating threshold; the value is clamped.
func (d *Dashboard) SetRatingSplit(v float64) error {
	return d.update("rating-split", func() error {
		if err := d.require(sliderEnabled); err != nil {
			return err
		}
		d.filter.SetRatingSplit(v)
		return nil
	})
}

// ToggleBand shows or hides a legend band.
func (d *Dashboard) ToggleBand(b model.Band) error {
	return d.update("toggle-band", func() error {
		if err := d.require(legendEnabled); err != nil {
			return err
		}
		d.filter.ToggleBand(b)
		return nil
	})
}

// ResetFilters restores the initial filter state.
func (d *Dashboard) ResetFilters() error {
	return d.update("reset-filters", func() error {
		if err := d.require(resetEnabled); err != nil {
			return err
		}
		d.filter.Reset()
		return nil
	})
}

// ResetTimeline clears only the brush.
func (d *Dashboard) ResetTimeline() error {
	return d.update("reset-timeline", func() error {
		if err := d.require(func(c story.Controls) bool { return c.Reset && c.Brush }); err != nil {
			return err
		}
		d.filter.ResetYearRange()
		return nil
	})
}

// ResetLegend restores the default split and both bands.
func (d *Dashboard) ResetLegend() error {
	return d.update("reset-legend", func() error {
		if err := d.require(func(c story.Controls) bool { return c.Reset && c.Legend }); err != nil {
			return err
		}
		d.filter.ResetLegend()
		return nil
	})
}

// Recover applies the recovery action for the current empty state.
func (d *Dashboard) Recover() error {
	return d.update("recover", func() error {
		switch filter.RecoveryFor(d.result.Empty) {
		case filter.RecoverSelectAllGenre:
			if err := d.require(genresEnabled); err != nil {
				return err
			}
			d.filter.SelectAllGenres(true)
		case filter.RecoverShowAllBands:
			if err := d.require(legendEnabled); err != nil {
				return err
			}
			d.filter.SetBands(nil)
		case filter.RecoverResetFilters:
			if err := d.require(resetEnabled); err != nil {
				return err
			}
			d.filter.Reset()
		}
		return nil
	})
}

// SetTransform replaces the zoom transform, interrupting a reset animation.
func (d *Dashboard) SetTransform(t viewport.Transform) error {
	return d.update("zoom", func() error {
		if err := d.require(zoomEnabled); err != nil {
			return err
		}
		d.cancelZoomLocked()
		d.transform = viewport.Constrain(t, d.opts.width, d.opts.height)
		return nil
	})
}

// ZoomAt zooms by factor around (cx, cy).
func (d *Dashboard) ZoomAt(factor, cx, cy float64) error {
	return d.update("zoom", func() error {
		if err := d.require(zoomEnabled); err != nil {
			return err
		}
		d.cancelZoomLocked()
		d.transform = viewport.ZoomAt(d.transform, factor, cx, cy, d.opts.width, d.opts.height)
		return nil
	})
}

// Pan shifts the zoomed view.
func (d *Dashboard) Pan(dx, dy float64) error {
	return d.update("pan", func() error {
		if err := d.require(zoomEnabled); err != nil {
			return err
		}
		d.cancelZoomLocked()
		d.transform = viewport.Pan(d.transform, dx, dy, d.opts.width, d.opts.height)
		return nil
	})
}

// ResetZoom animates the transform back to identity. Each animation frame
// and the final recompute arrive as separate frames.
func (d *Dashboard) ResetZoom() error {
	d.mu.Lock()
	if !d.story.Controls().Zoom {
		d.mu.Unlock()
		return ErrControlLocked
	}
	from := d.transform
	if from.IsIdentity() {
		d.mu.Unlock()
		return nil
	}
	d.zoomGen++
	gen := d.zoomGen
	d.mu.Unlock()

	set := func(t viewport.Transform) {
		d.dispatch(func() {
			if gen == d.zoomGen {
				d.transform = t
			}
		})
	}
	d.animator.Reset(from, set, func() { set(viewport.Identity) })
	return nil
}

// cancelZoomLocked stops a running reset animation, including frames already
// dispatched. Callers hold d.mu.
func (d *Dashboard) cancelZoomLocked() {
	d.zoomGen++
	d.animator.Cancel()
}

// Resize sets the scatter plot size and re-constrains the transform.
func (d *Dashboard) Resize(width, height float64) {
	_ = d.update("resize", func() error {
		if width > 0 && height > 0 {
			d.opts.width, d.opts.height = width, height
			d.transform = viewport.Constrain(d.transform, width, height)
		}
		return nil
	})
}

// Hover records a pointer over year from src; nil means the pointer left.
func (d *Dashboard) Hover(src highlight.Source, year *int) {
	if year == nil {
		d.PointerLeave(src)
		return
	}
	y := *year
	_ = d.update("hover", func() error {
		d.highlight.Hover(src, y)
		return nil
	})
}

// PointerLeave starts src's hover grace delay.
func (d *Dashboard) PointerLeave(src highlight.Source) {
	d.pointer.Cancel()
	_ = d.update("pointer-leave", func() error {
		d.pointerGen++
		d.highlight.Leave(src)
		return nil
	})
}

// pointerMove is a timeline pointer position tagged with the pointerGen it
// was reported under.
type pointerMove struct {
	x   float64
	gen uint64
}

// TimelinePointer reports a pointer move over the timeline at pixel x. Moves
// are coalesced to one hover per frame using the latest position.
func (d *Dashboard) TimelinePointer(x float64) {
	d.mu.Lock()
	gen := d.pointerGen
	d.mu.Unlock()
	d.pointer.Push(pointerMove{x: x, gen: gen})
}

func (d *Dashboard) timelinePointerFrame(m pointerMove) {
	_ = d.update("timeline-pointer", func() error {
		if m.gen != d.pointerGen {
			return nil
		}
		xs, _ := d.series.Axes(d.opts.width, d.opts.timelineHeight)
		if year, ok := d.series.NearestYear(xs, m.x); ok {
			d.highlight.Hover(highlight.SourceTimeline, year)
		}
		return nil
	})
}

// ToggleLock pins or unpins year.
func (d *Dashboard) ToggleLock(year int) {
	_ = d.update("lock", func() error {
		d.highlight.ToggleLock(year)
		return nil
	})
}

// ClearLock removes the pinned year.
func (d *Dashboard) ClearLock() {
	_ = d.update("clear-lock", func() error {
		d.highlight.ClearLock()
		return nil
	})
}

// Navigate moves keyboard roving focus.
func (d *Dashboard) Navigate(dir highlight.Direction) {
	_ = d.update("navigate", func() error {
		d.highlight.Navigate(dir)
		return nil
	})
}

// Blur drops keyboard focus.
func (d *Dashboard) Blur() {
	_ = d.update("blur", func() error {
		d.highlight.Blur()
		return nil
	})
}

// StoryStart begins the guided tour.
func (d *Dashboard) StoryStart() {
	_ = d.update("story-start", func() error {
		d.story.Start()
		return nil
	})
}

// StoryNext advances the tour.
func (d *Dashboard) StoryNext() error {
	return d.update("story-next", d.story.Next)
}

// StoryPrev goes back one step.
func (d *Dashboard) StoryPrev() error {
	return d.update("story-prev", d.story.Prev)
}

// StoryGoTo jumps to step i.
func (d *Dashboard) StoryGoTo(i int) error {
	return d.update("story-goto", func() error { return d.story.GoTo(i) })
}

// StoryEnd finishes the tour and restores the pre-tour view.
func (d *Dashboard) StoryEnd() error {
	return d.update("story-end", d.story.End)
}

// StoryKey routes a key to the tour. It reports whether the key was used.
func (d *Dashboard) StoryKey(k story.Key) bool {
	handled := false
	_ = d.update("story-key", func() error {
		handled = d.story.HandleKey(k)
		return nil
	})
	return handled
}

// RecordClicked reports a click on a movie; it matters only for story
// click targets. It reports whether the click counted.
func (d *Dashboard) RecordClicked(title string) bool {
	counted := false
	_ = d.update("record-clicked", func() error {
		counted = d.story.RecordClick(title)
		return nil
	})
	return counted
}

// ReplaceDataset swaps in a reloaded dataset. A running tour is ended
// first. The user's selection carries over where the new data allows it.
func (d *Dashboard) ReplaceDataset(ds *model.Dataset) {
	if ds == nil {
		return
	}
	_ = d.update("replace-dataset", func() error {
		if d.story.Active() {
			_ = d.story.End()
		}
		old := d.filter
		next := filter.NewStateWithSplit(ds, d.opts.defaultSplit)
		if !old.AllGenresSelected() {
			next.SetGenres(old.SelectedGenres())
		}
		next.SetYearRange(old.YearRange)
		next.SetRatingSplit(old.RatingSplit)
		next.SetBands(old.VisibleBands())

		d.ds = ds
		d.filter = next
		d.series = timeline.Build(ds.Movies)
		return nil
	})
}
