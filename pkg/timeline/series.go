// Package timeline builds the yearly revenue series behind the brush control
// and converts brush pixels to years.
package timeline

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/marquee/pkg/model"
	"github.com/vanderheijden86/marquee/pkg/scale"
)

// YearPoint is the mean gross of all movies released in one year.
type YearPoint struct {
	Year      int     `json:"year"`
	MeanGross float64 `json:"mean_gross"`
	Count     int     `json:"count"`
}

// Series is a year-ascending list of YearPoints. Years without movies are
// absent rather than zero.
type Series []YearPoint

// Build rolls the full dataset up by release year.
func Build(movies []model.Movie) Series {
	byYear := make(map[int][]float64)
	for i := range movies {
		m := &movies[i]
		if m.Gross <= 0 {
			continue
		}
		byYear[m.ReleaseYear] = append(byYear[m.ReleaseYear], m.Gross)
	}

	out := make(Series, 0, len(byYear))
	for y, gross := range byYear {
		out = append(out, YearPoint{Year: y, MeanGross: stat.Mean(gross, nil), Count: len(gross)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// HasMarker reports whether the series has a data point for exactly year.
// A focused year without one still highlights the scatter but draws no
// timeline marker.
func (s Series) HasMarker(year int) bool {
	i := sort.Search(len(s), func(i int) bool { return s[i].Year >= year })
	return i < len(s) && s[i].Year == year
}

// At returns the point for year.
func (s Series) At(year int) (YearPoint, bool) {
	i := sort.Search(len(s), func(i int) bool { return s[i].Year >= year })
	if i < len(s) && s[i].Year == year {
		return s[i], true
	}
	return YearPoint{}, false
}

// MaxMean returns the largest yearly mean.
func (s Series) MaxMean() float64 {
	var m float64
	for _, p := range s {
		m = max(m, p.MeanGross)
	}
	return m
}

// Axes returns the timeline's scales for a plot of width x height: one year of
// padding either side and ten percent headroom above the largest mean.
func (s Series) Axes(width, height float64) (x, y scale.Scale) {
	if len(s) == 0 {
		return scale.NewLinear(0, 1, 0, width), scale.NewLinear(0, 1, height, 0)
	}
	x = scale.NewLinear(float64(s[0].Year-1), float64(s[len(s)-1].Year+1), 0, width)
	top := s.MaxMean() * 1.1
	if top == 0 {
		top = 1
	}
	y = scale.NewLinear(0, top, height, 0)
	return x, y
}

// BrushYears converts a brush selection in pixels to fractional years.
func BrushYears(x scale.Scale, px0, px1 float64) (float64, float64) {
	a, b := x.Invert(px0), x.Invert(px1)
	if a > b {
		a, b = b, a
	}
	return a, b
}

// NearestYear returns the series year closest to pixel px, used by the
// hover hairline. ok is false for an empty series.
func (s Series) NearestYear(x scale.Scale, px float64) (year int, ok bool) {
	if len(s) == 0 {
		return 0, false
	}
	target := x.Invert(px)
	best := s[0]
	for _, p := range s[1:] {
		if abs(float64(p.Year)-target) < abs(float64(best.Year)-target) {
			best = p
		}
	}
	return best.Year, true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
