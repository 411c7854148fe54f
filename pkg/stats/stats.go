// Package stats derives the summary panel figures from the display data.
//
// Every field of a Stats value is computed in one call from the same slice of
// points, so the panel never mixes figures from two different filter states.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/marquee/pkg/filter"
	"github.com/vanderheijden86/marquee/pkg/metrics"
	"github.com/vanderheijden86/marquee/pkg/model"
)

// NotEnoughData is reported in place of a featured movie that cannot be
// determined from the current points.
const NotEnoughData = "Not enough data"

// BlockbusterQuantile is the gross quantile above which a movie counts as a
// blockbuster.
const BlockbusterQuantile = 0.8

// YearSpan is the closed release-year interval covered by the points.
type YearSpan struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Correlation labels.
const (
	CorrelationNA       = "n/a"
	CorrelationWeak     = "weak"
	CorrelationModerate = "moderate"
	CorrelationStrong   = "strong"
)

// Stats is the derived summary of a display data snapshot. When Empty is set
// every other field is the zero value.
type Stats struct {
	Empty bool `json:"empty"`

	Count       int      `json:"count"`
	MeanGross   float64  `json:"mean_gross"`
	MedianGross float64  `json:"median_gross"`
	YearSpan    YearSpan `json:"year_span"`

	HighestGrossing *model.Movie `json:"highest_grossing,omitempty"`
	HighestRated    *model.Movie `json:"highest_rated,omitempty"`
	HiddenGem       *model.Movie `json:"hidden_gem,omitempty"`
	HiddenGemNote   string       `json:"hidden_gem_note,omitempty"`

	// BestBlockbuster is nil when it would repeat HighestGrossing.
	BestBlockbuster *model.Movie `json:"best_blockbuster,omitempty"`

	RatingGrossCorrelation float64 `json:"rating_gross_correlation"`
	CorrelationLabel       string  `json:"correlation_label"`
}

// Compute derives Stats from points. Points are read in their given order;
// ties for a maximum keep the first point seen.
func Compute(points []filter.Point) Stats {
	defer metrics.Timer(metrics.StatsCompute)()

	if len(points) == 0 {
		return Stats{Empty: true, HiddenGemNote: NotEnoughData, CorrelationLabel: CorrelationNA}
	}

	gross := make([]float64, len(points))
	ratings := make([]float64, len(points))
	s := Stats{
		Count:           len(points),
		YearSpan:        YearSpan{From: points[0].Movie.ReleaseYear, To: points[0].Movie.ReleaseYear},
		HighestGrossing: points[0].Movie,
		HighestRated:    points[0].Movie,
	}
	for i, p := range points {
		m := p.Movie
		gross[i] = m.Gross
		ratings[i] = m.Rating
		s.YearSpan.From = min(s.YearSpan.From, m.ReleaseYear)
		s.YearSpan.To = max(s.YearSpan.To, m.ReleaseYear)
		if m.Gross > s.HighestGrossing.Gross {
			s.HighestGrossing = m
		}
		if m.Rating > s.HighestRated.Rating {
			s.HighestRated = m
		}
	}
	s.MeanGross = stat.Mean(gross, nil)

	sorted := append([]float64(nil), gross...)
	sort.Float64s(sorted)
	s.MedianGross = Quantile(sorted, 0.5)

	s.HiddenGem = bestRated(points, func(m *model.Movie) bool { return m.Gross < s.MedianGross })
	if s.HiddenGem == nil {
		s.HiddenGemNote = NotEnoughData
	}

	threshold := Quantile(sorted, BlockbusterQuantile)
	if bb := bestRated(points, func(m *model.Movie) bool { return m.Gross >= threshold }); bb != nil && bb.Title != s.HighestGrossing.Title {
		s.BestBlockbuster = bb
	}

	s.RatingGrossCorrelation, s.CorrelationLabel = correlation(ratings, gross)
	return s
}

func bestRated(points []filter.Point, keep func(*model.Movie) bool) *model.Movie {
	var best *model.Movie
	for _, p := range points {
		if !keep(p.Movie) {
			continue
		}
		if best == nil || p.Movie.Rating > best.Rating {
			best = p.Movie
		}
	}
	return best
}

// Quantile returns the p-quantile of an ascending slice, interpolating
// linearly between the closest ranks. For p=0.5 and an even length this is
// the mean of the two middle values. It returns NaN for an empty slice.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 || n == 1 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	return sorted[lo] + (sorted[lo+1]-sorted[lo])*(h-float64(lo))
}

func correlation(x, y []float64) (float64, string) {
	if len(x) < 3 || stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return 0, CorrelationNA
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0, CorrelationNA
	}
	return r, CorrelationLabel(r)
}

// CorrelationLabel names the strength of a correlation coefficient.
func CorrelationLabel(r float64) string {
	switch a := math.Abs(r); {
	case a >= 0.6:
		return CorrelationStrong
	case a >= 0.3:
		return CorrelationModerate
	default:
		return CorrelationWeak
	}
}
