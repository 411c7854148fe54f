// Package model defines the movie records shared by every view of the dashboard.
//
// Records are immutable once a Dataset is built. Derived annotations such as the
// rating band live next to the record (see filter.Point), never inside it.
package model

import (
	"math"
	"sort"
	"strings"
)

// Valid release-year bounds (exclusive on both ends).
const (
	MinReleaseYear = 1900
	MaxReleaseYear = 2030
)

// Movie is one validated row of the dataset.
type Movie struct {
	Title       string   `json:"title" validate:"required"`
	ReleaseYear int      `json:"release_year" validate:"gt=1900,lt=2030"`
	Gross       float64  `json:"gross" validate:"gt=0"`
	Rating      float64  `json:"imdb_rating" validate:"gte=0,lte=10"`
	Genres      []string `json:"genres" validate:"min=1,dive,required"`
	Runtime     int      `json:"runtime,omitempty" validate:"gte=0"`
	Votes       int      `json:"votes,omitempty" validate:"gte=0"`
	MetaScore   *float64 `json:"meta_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	Director    string   `json:"director,omitempty"`
	PosterURL   string   `json:"poster_url,omitempty"`
	Overview    string   `json:"overview,omitempty"`
}

// HasGenre reports whether the movie is tagged with genre g.
func (m *Movie) HasGenre(g string) bool {
	for _, mg := range m.Genres {
		if mg == g {
			return true
		}
	}
	return false
}

// SplitGenres splits a comma-separated genre list, trimming whitespace and
// dropping empty entries and duplicates while keeping first-seen order.
func SplitGenres(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		g := strings.TrimSpace(p)
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, g)
	}
	return out
}

// Band is the high/low classification of a movie against the rating split.
type Band string

const (
	BandHigh Band = "high"
	BandLow  Band = "low"
)

// AllBands lists bands in legend order.
var AllBands = []Band{BandHigh, BandLow}

// BandOf classifies a rating against the split: high iff rating >= split.
func BandOf(rating, split float64) Band {
	if rating >= split {
		return BandHigh
	}
	return BandLow
}

// Extent is a closed numeric interval.
type Extent struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Clamp limits v to the extent.
func (e Extent) Clamp(v float64) float64 {
	if v < e.Min {
		return e.Min
	}
	if v > e.Max {
		return e.Max
	}
	return v
}

// Contains reports whether v lies within the extent.
func (e Extent) Contains(v float64) bool {
	return v >= e.Min && v <= e.Max
}

// Dataset is the loaded, validated movie store plus derived vocabulary.
type Dataset struct {
	Movies []Movie

	genres       []string
	years        [2]int
	ratingExtent Extent
	maxGross     float64
}

// NewDataset builds a Dataset from already-validated movies. The slice is
// copied so later mutation by the caller cannot leak into the store.
func NewDataset(movies []Movie) *Dataset {
	ds := &Dataset{Movies: append([]Movie(nil), movies...)}

	seen := make(map[string]bool)
	for i := range ds.Movies {
		m := &ds.Movies[i]
		for _, g := range m.Genres {
			if !seen[g] {
				seen[g] = true
				ds.genres = append(ds.genres, g)
			}
		}
		if i == 0 {
			ds.years = [2]int{m.ReleaseYear, m.ReleaseYear}
			ds.ratingExtent = Extent{Min: m.Rating, Max: m.Rating}
		}
		ds.years[0] = min(ds.years[0], m.ReleaseYear)
		ds.years[1] = max(ds.years[1], m.ReleaseYear)
		ds.ratingExtent.Min = math.Min(ds.ratingExtent.Min, m.Rating)
		ds.ratingExtent.Max = math.Max(ds.ratingExtent.Max, m.Rating)
		ds.maxGross = math.Max(ds.maxGross, m.Gross)
	}
	sort.Strings(ds.genres)

	// Rounded outward to 0.1 so the slider can reach every rating.
	ds.ratingExtent = Extent{
		Min: math.Floor(ds.ratingExtent.Min*10+1e-9) / 10,
		Max: math.Ceil(ds.ratingExtent.Max*10-1e-9) / 10,
	}
	return ds
}

// Len returns the number of movies.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Movies)
}

// Genres returns the sorted genre vocabulary.
func (d *Dataset) Genres() []string {
	return append([]string(nil), d.genres...)
}

// YearExtent returns the min and max release year.
func (d *Dataset) YearExtent() (int, int) {
	return d.years[0], d.years[1]
}

// RatingExtent returns the rating range rounded outward to 0.1.
func (d *Dataset) RatingExtent() Extent {
	return d.ratingExtent
}

// MaxGross returns the largest gross in the dataset.
func (d *Dataset) MaxGross() float64 {
	return d.maxGross
}

// Find returns the movie with the given title, or nil.
func (d *Dataset) Find(title string) *Movie {
	for i := range d.Movies {
		if d.Movies[i].Title == title {
			return &d.Movies[i]
		}
	}
	return nil
}
