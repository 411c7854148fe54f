// Package filter holds the dashboard's filter state and the pure pipeline that
// turns the movie store plus that state into the ordered display data.
package filter

import (
	"math"
	"sort"
	"strconv"

	"github.com/vanderheijden86/marquee/pkg/model"
)

// DefaultRatingSplit is the initial high/low threshold before clamping.
const DefaultRatingSplit = 8.0

// YearRange is a closed interval of release years.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether year y is inside the range.
func (r YearRange) Contains(y int) bool {
	return y >= r.Min && y <= r.Max
}

// State is the single source of truth for what the views display.
// The zero value is not useful; build one with NewState.
type State struct {
	Genres      map[string]bool     `json:"-"`
	YearRange   *YearRange          `json:"year_range,omitempty"`
	RatingSplit float64             `json:"rating_split"`
	Bands       map[model.Band]bool `json:"-"`

	vocab        []string
	known        map[string]bool
	years        [2]int
	ratingExtent model.Extent
	defaultSplit float64
}

// NewState returns the initial state for a dataset: every genre selected, no
// year range, the default split clamped to the data and both bands visible.
func NewState(ds *model.Dataset) State {
	return NewStateWithSplit(ds, DefaultRatingSplit)
}

// NewStateWithSplit is NewState with a configurable default split.
func NewStateWithSplit(ds *model.Dataset, split float64) State {
	s := State{
		vocab:        ds.Genres(),
		known:        make(map[string]bool),
		ratingExtent: ds.RatingExtent(),
	}
	s.years[0], s.years[1] = ds.YearExtent()
	for _, g := range s.vocab {
		s.known[g] = true
	}
	s.defaultSplit = s.ratingExtent.Clamp(split)
	s.Reset()
	return s
}

// Reset restores the initial value.
func (s *State) Reset() {
	s.SelectAllGenres(true)
	s.YearRange = nil
	s.ResetLegend()
}

// ResetYearRange clears the brush only.
func (s *State) ResetYearRange() {
	s.YearRange = nil
}

// ResetLegend restores the default split and shows both bands.
func (s *State) ResetLegend() {
	s.RatingSplit = s.defaultSplit
	s.Bands = map[model.Band]bool{model.BandHigh: true, model.BandLow: true}
}

// Vocabulary returns the full sorted genre list.
func (s *State) Vocabulary() []string {
	return append([]string(nil), s.vocab...)
}

// RatingExtent returns the clamp range for the split.
func (s *State) RatingExtent() model.Extent {
	return s.ratingExtent
}

// DefaultSplit returns the clamped default split.
func (s *State) DefaultSplit() float64 {
	return s.defaultSplit
}

// ToggleGenre flips one genre. Unknown genres are ignored.
func (s *State) ToggleGenre(g string) {
	if !s.known[g] {
		return
	}
	if s.Genres[g] {
		delete(s.Genres, g)
	} else {
		s.Genres[g] = true
	}
}

// SelectAllGenres selects every genre, or none.
func (s *State) SelectAllGenres(all bool) {
	s.Genres = make(map[string]bool, len(s.vocab))
	if all {
		for _, g := range s.vocab {
			s.Genres[g] = true
		}
	}
}

// SetGenres replaces the selection. Nil selects every genre; unknown names
// are dropped.
func (s *State) SetGenres(genres []string) {
	if genres == nil {
		s.SelectAllGenres(true)
		return
	}
	s.Genres = make(map[string]bool, len(genres))
	for _, g := range genres {
		if s.known[g] {
			s.Genres[g] = true
		}
	}
}

// SelectedGenres returns the selection in vocabulary order.
func (s *State) SelectedGenres() []string {
	out := make([]string, 0, len(s.Genres))
	for _, g := range s.vocab {
		if s.Genres[g] {
			out = append(out, g)
		}
	}
	return out
}

// AllGenresSelected reports whether the selection covers the vocabulary.
func (s *State) AllGenresSelected() bool {
	return len(s.Genres) == len(s.vocab)
}

// SetYearRange sets (or clears, when r is nil) the brush. The range is
// swapped if inverted and clamped to the dataset's year extent.
func (s *State) SetYearRange(r *YearRange) {
	if r == nil {
		s.YearRange = nil
		return
	}
	lo, hi := r.Min, r.Max
	if lo > hi {
		lo, hi = hi, lo
	}
	lo = max(lo, s.years[0])
	hi = min(hi, s.years[1])
	s.YearRange = &YearRange{Min: lo, Max: hi}
}

// SetBrush converts a fractional brush selection into a year range. An
// integer year y is kept iff lo <= y <= hi, which is [ceil(lo), floor(hi)].
// A selection that holds no whole year clears the brush.
func (s *State) SetBrush(lo, hi float64) {
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	first, last := int(math.Ceil(lo)), int(math.Floor(hi))
	if first > last {
		s.ResetYearRange()
		return
	}
	s.SetYearRange(&YearRange{Min: first, Max: last})
}

// SetRatingSplit clamps and stores the split.
func (s *State) SetRatingSplit(v float64) {
	if math.IsNaN(v) {
		return
	}
	s.RatingSplit = s.ratingExtent.Clamp(v)
}

// ToggleBand flips the visibility of one legend band.
func (s *State) ToggleBand(b model.Band) {
	if b != model.BandHigh && b != model.BandLow {
		return
	}
	s.Bands[b] = !s.Bands[b]
	if !s.Bands[b] {
		delete(s.Bands, b)
	}
}

// SetBands replaces visible bands. Nil shows both.
func (s *State) SetBands(bands []model.Band) {
	if bands == nil {
		bands = model.AllBands
	}
	s.Bands = make(map[model.Band]bool, 2)
	for _, b := range bands {
		if b == model.BandHigh || b == model.BandLow {
			s.Bands[b] = true
		}
	}
}

// VisibleBands returns visible bands in legend order. The result is never
// nil, so it can be passed back to SetBands.
func (s *State) VisibleBands() []model.Band {
	out := make([]model.Band, 0, len(model.AllBands))
	for _, b := range model.AllBands {
		if s.Bands[b] {
			out = append(out, b)
		}
	}
	return out
}

// Clone returns a deep copy sharing nothing mutable with s.
func (s State) Clone() State {
	c := s
	c.Genres = make(map[string]bool, len(s.Genres))
	for g := range s.Genres {
		c.Genres[g] = true
	}
	c.Bands = make(map[model.Band]bool, len(s.Bands))
	for b, v := range s.Bands {
		if v {
			c.Bands[b] = true
		}
	}
	if s.YearRange != nil {
		r := *s.YearRange
		c.YearRange = &r
	}
	return c
}

// Equal compares the user-visible fields.
func (s State) Equal(o State) bool {
	if s.RatingSplit != o.RatingSplit {
		return false
	}
	if (s.YearRange == nil) != (o.YearRange == nil) {
		return false
	}
	if s.YearRange != nil && *s.YearRange != *o.YearRange {
		return false
	}
	if len(s.Genres) != len(o.Genres) {
		return false
	}
	for g := range s.Genres {
		if !o.Genres[g] {
			return false
		}
	}
	for _, b := range model.AllBands {
		if s.Bands[b] != o.Bands[b] {
			return false
		}
	}
	return true
}

// GenreLabel returns the genre picker caption for the current selection.
func (s *State) GenreLabel() string {
	switch n := len(s.Genres); {
	case n == len(s.vocab) && n > 0:
		return "All Movie Genres"
	case n == 0:
		return "No Genres Selected"
	case n == 1:
		return s.SelectedGenres()[0]
	default:
		return strconv.Itoa(n) + " Genres Selected"
	}
}

// GenreCount pairs a genre with its number of movies.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// GenreCounts counts movies per genre over the full dataset, in genre order.
func GenreCounts(ds *model.Dataset) []GenreCount {
	counts := make(map[string]int)
	for i := range ds.Movies {
		for _, g := range ds.Movies[i].Genres {
			counts[g]++
		}
	}
	genres := ds.Genres()
	sort.Strings(genres)
	out := make([]GenreCount, 0, len(genres))
	for _, g := range genres {
		out = append(out, GenreCount{Genre: g, Count: counts[g]})
	}
	return out
}
