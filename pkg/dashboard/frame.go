package dashboard

import (
	"github.com/vanderheijden86/marquee/pkg/filter"
	"github.com/vanderheijden86/marquee/pkg/highlight"
	"github.com/vanderheijden86/marquee/pkg/metrics"
	"github.com/vanderheijden86/marquee/pkg/model"
	"github.com/vanderheijden86/marquee/pkg/scale"
	"github.com/vanderheijden86/marquee/pkg/stats"
	"github.com/vanderheijden86/marquee/pkg/story"
	"github.com/vanderheijden86/marquee/pkg/timeline"
	"github.com/vanderheijden86/marquee/pkg/viewport"
)

// Axis is one plot axis under the current transform.
type Axis struct {
	Scale scale.Scale `json:"scale"`
	Ticks []float64   `json:"ticks"`
}

// Annotation kinds.
const (
	AnnotationStory    = "story"
	AnnotationFeatured = "featured"
)

// Annotation is a label positioned on the scatter plot.
type Annotation struct {
	Kind  string  `json:"kind"`
	Title string  `json:"title"`
	Text  string  `json:"text"`
	Icon  string  `json:"icon,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// FilterView mirrors the filter state for the controls.
type FilterView struct {
	Genres       []string          `json:"genres"`
	GenreLabel   string            `json:"genre_label"`
	AllGenres    bool              `json:"all_genres"`
	YearRange    *filter.YearRange `json:"year_range,omitempty"`
	RatingSplit  float64           `json:"rating_split"`
	DefaultSplit float64           `json:"default_split"`
	RatingExtent model.Extent      `json:"rating_extent"`
	Bands        []model.Band      `json:"bands"`
}

// TimelineView is the brush control's data.
type TimelineView struct {
	Series timeline.Series   `json:"series"`
	X      scale.Scale       `json:"x"`
	Y      scale.Scale       `json:"y"`
	Brush  *filter.YearRange `json:"brush,omitempty"`
}

// Frame is everything a renderer needs to draw one consistent view. All of
// it comes from a single recompute.
type Frame struct {
	Revision uint64 `json:"revision"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Points     []filter.Point     `json:"points"`
	BandCounts map[model.Band]int `json:"band_counts"`
	Empty      filter.EmptyReason `json:"empty,omitempty"`
	Recovery   filter.Recovery    `json:"recovery,omitempty"`
	Stats      stats.Stats        `json:"stats"`

	Highlight   highlight.Snapshot `json:"highlight"`
	// Highlighted holds the titles released in the focused year.
	Highlighted []string `json:"highlighted,omitempty"`

	Transform    viewport.Transform `json:"transform"`
	ResetVisible bool               `json:"reset_visible"`
	XAxis        Axis               `json:"x_axis"`
	YAxis        Axis               `json:"y_axis"`
	// ScaleBreak is shown only at identity zoom.
	ScaleBreak  bool               `json:"scale_break"`
	BreakY      float64            `json:"break_y,omitempty"`
	Annotations []Annotation       `json:"annotations,omitempty"`

	Story    story.View     `json:"story"`
	Controls story.Controls `json:"controls"`

	Filter      FilterView          `json:"filter"`
	GenreCounts []filter.GenreCount `json:"genre_counts"`
	Timeline    TimelineView        `json:"timeline"`
}

// IsHighlighted reports whether title is in the focused year.
func (f Frame) IsHighlighted(title string) bool {
	for _, t := range f.Highlighted {
		if t == title {
			return true
		}
	}
	return false
}

func (d *Dashboard) buildFrameLocked() Frame {
	defer metrics.Timer(metrics.FrameBuild)()

	w, h := d.opts.width, d.opts.height
	f := Frame{
		Revision:     d.rev,
		Width:        w,
		Height:       h,
		Points:       d.result.Points,
		BandCounts:   d.result.BandCounts,
		Empty:        d.result.Empty,
		Recovery:     filter.RecoveryFor(d.result.Empty),
		Stats:        d.stats,
		Highlight:    d.highlight.Snapshot(d.series.HasMarker),
		Transform:    d.transform,
		ResetVisible: viewport.ResetVisible(d.transform),
		Story:        d.story.View(),
		Controls:     d.story.Controls(),
		GenreCounts:  filter.GenreCounts(d.ds),
	}

	if y := f.Highlight.FocusedYear; y != nil {
		for _, p := range f.Points {
			if p.Movie.ReleaseYear == *y {
				f.Highlighted = append(f.Highlighted, p.Movie.Title)
			}
		}
	}

	f.Filter = FilterView{
		Genres:       d.filter.SelectedGenres(),
		GenreLabel:   d.filter.GenreLabel(),
		AllGenres:    d.filter.AllGenresSelected(),
		RatingSplit:  d.filter.RatingSplit,
		DefaultSplit: d.filter.DefaultSplit(),
		RatingExtent: d.filter.RatingExtent(),
		Bands:        d.filter.VisibleBands(),
	}
	if r := d.filter.YearRange; r != nil {
		rr := *r
		f.Filter.YearRange = &rr
	}

	// Axes are always derived from the rescaled domain.
	xBase := d.yearScale(w)
	gross := scale.NewGrossAxis(d.ds.MaxGross(), h)
	xs := viewport.RescaleX(d.transform, xBase)
	ys := viewport.RescaleY(d.transform, gross.Scale)
	f.XAxis = Axis{Scale: xs, Ticks: xs.Ticks(10)}
	f.YAxis = Axis{Scale: ys, Ticks: gross.Ticks(ys, 10)}
	if gross.Break && d.transform.IsIdentity() {
		f.ScaleBreak = true
		f.BreakY = gross.BreakY()
	}

	f.Annotations = d.annotationsLocked(f, xs, ys)

	tx, ty := d.series.Axes(w, d.opts.timelineHeight)
	f.Timeline = TimelineView{Series: d.series, X: tx, Y: ty, Brush: f.Filter.YearRange}
	return f
}

func (d *Dashboard) yearScale(width float64) scale.Scale {
	lo, hi := d.ds.YearExtent()
	brushed := false
	if r := d.filter.YearRange; r != nil {
		lo, hi, brushed = r.Min, r.Max, true
	}
	x0, x1 := scale.YearDomain(lo, hi, brushed)
	return scale.NewLinear(x0, x1, 0, width)
}

// annotationsLocked places story and featured labels on displayed movies,
// dropping any that fall outside the visible plot.
func (d *Dashboard) annotationsLocked(f Frame, xs, ys scale.Scale) []Annotation {
	shown := make(map[string]*model.Movie, len(f.Points))
	for _, p := range f.Points {
		shown[p.Movie.Title] = p.Movie
	}

	var out []Annotation
	add := func(kind string, m *model.Movie, text, icon string) {
		x, y := xs.Map(float64(m.ReleaseYear)), ys.Map(m.Gross)
		if x < 0 || x > f.Width || y < 0 || y > f.Height {
			return
		}
		out = append(out, Annotation{Kind: kind, Title: m.Title, Text: text, Icon: icon, X: x, Y: y})
	}

	if f.Story.Active {
		for _, a := range f.Story.Annotations {
			if m, ok := shown[a.Title]; ok {
				add(AnnotationStory, m, a.Text, a.Icon)
			}
		}
		return out
	}
	if f.Stats.Empty {
		return out
	}
	add(AnnotationFeatured, f.Stats.HighestGrossing, "Highest grossing", "💰")
	if bb := f.Stats.BestBlockbuster; bb != nil {
		add(AnnotationFeatured, bb, "Best blockbuster", "⭐")
	}
	return out
}
