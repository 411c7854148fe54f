package filter

import (
	"sort"

	"github.com/vanderheijden86/marquee/pkg/metrics"
	"github.com/vanderheijden86/marquee/pkg/model"
)

// Point is a movie plus the band it was assigned for this computation. The
// record itself is shared and never modified.
type Point struct {
	Movie *model.Movie `json:"movie"`
	Band  model.Band   `json:"band"`
}

// EmptyReason names why a computation produced no points.
type EmptyReason string

const (
	EmptyNone      EmptyReason = ""
	EmptyNoData    EmptyReason = "no-data"
	EmptyNoGenres  EmptyReason = "no-genres-selected"
	EmptyNoBands   EmptyReason = "no-bands-visible"
	EmptyTooNarrow EmptyReason = "filters-too-narrow"
)

// Recovery is the one-click action that undoes an empty state.
type Recovery string

const (
	RecoverNone           Recovery = ""
	RecoverSelectAllGenre Recovery = "select-all-genres"
	RecoverShowAllBands   Recovery = "show-all-bands"
	RecoverResetFilters   Recovery = "reset-filters"
)

// RecoveryFor maps an empty reason to its recovery action.
func RecoveryFor(r EmptyReason) Recovery {
	switch r {
	case EmptyNoGenres:
		return RecoverSelectAllGenre
	case EmptyNoBands:
		return RecoverShowAllBands
	case EmptyTooNarrow:
		return RecoverResetFilters
	default:
		return RecoverNone
	}
}

// Result is the pipeline output.
type Result struct {
	Points []Point `json:"points"`
	// BandCounts is taken after band assignment and before the visibility
	// filter, so the legend can count hidden bands.
	BandCounts map[model.Band]int `json:"band_counts"`
	Empty      EmptyReason        `json:"empty,omitempty"`
}

// Compute runs the display pipeline: year range, genres, band assignment,
// band visibility, then a stable ascending sort by rating so higher-rated
// points are drawn last. It neither mutates movies nor st.
func Compute(movies []model.Movie, st State) Result {
	defer metrics.Timer(metrics.PipelineCompute)()

	res := Result{BandCounts: map[model.Band]int{model.BandHigh: 0, model.BandLow: 0}}
	if len(movies) == 0 {
		res.Empty = EmptyNoData
		return res
	}

	survivors := make([]*model.Movie, 0, len(movies))
	for i := range movies {
		m := &movies[i]
		if st.YearRange != nil && !st.YearRange.Contains(m.ReleaseYear) {
			continue
		}
		survivors = append(survivors, m)
	}

	if len(st.Genres) == 0 {
		res.Empty = EmptyNoGenres
		return res
	}
	kept := survivors[:0]
	for _, m := range survivors {
		if matchesAny(m, st.Genres) {
			kept = append(kept, m)
		}
	}

	banded := make([]Point, 0, len(kept))
	for _, m := range kept {
		b := model.BandOf(m.Rating, st.RatingSplit)
		res.BandCounts[b]++
		banded = append(banded, Point{Movie: m, Band: b})
	}

	visible := make([]Point, 0, len(banded))
	for _, p := range banded {
		if st.Bands[p.Band] {
			visible = append(visible, p)
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Movie.Rating < visible[j].Movie.Rating
	})
	res.Points = visible

	if len(visible) == 0 {
		if len(st.VisibleBands()) == 0 {
			res.Empty = EmptyNoBands
		} else {
			res.Empty = EmptyTooNarrow
		}
	}
	return res
}

func matchesAny(m *model.Movie, genres map[string]bool) bool {
	for _, g := range m.Genres {
		if genres[g] {
			return true
		}
	}
	return false
}

// Titles returns point titles in order.
func Titles(points []Point) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.Movie.Title
	}
	return out
}
