package stats

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/marquee/pkg/filter"
	"github.com/vanderheijden86/marquee/pkg/model"
)

func points(movies ...model.Movie) []filter.Point {
	out := make([]filter.Point, len(movies))
	for i := range movies {
		m := movies[i]
		out[i] = filter.Point{Movie: &m, Band: model.BandOf(m.Rating, 8)}
	}
	return out
}

func mv(title string, year int, gross, rating float64) model.Movie {
	return model.Movie{Title: title, ReleaseYear: year, Gross: gross, Rating: rating, Genres: []string{"Drama"}}
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil)
	if !s.Empty {
		t.Fatal("expected Empty")
	}
	if s.Count != 0 || s.MeanGross != 0 || s.HighestGrossing != nil {
		t.Errorf("empty stats leaked values: %+v", s)
	}
	if math.IsNaN(s.MeanGross) || math.IsNaN(s.MedianGross) {
		t.Error("NaN leaked into empty stats")
	}
}

func TestComputeBasics(t *testing.T) {
	s := Compute(points(
		mv("A", 1990, 100, 7.0),
		mv("B", 2000, 300, 9.0),
		mv("C", 1980, 200, 8.0),
		mv("D", 2010, 400, 7.5),
	))
	if s.Empty || s.Count != 4 {
		t.Fatalf("Count = %d, Empty = %v", s.Count, s.Empty)
	}
	if s.MeanGross != 250 {
		t.Errorf("MeanGross = %v, want 250", s.MeanGross)
	}
	if s.MedianGross != 250 {
		t.Errorf("MedianGross = %v, want 250", s.MedianGross)
	}
	if s.YearSpan != (YearSpan{From: 1980, To: 2010}) {
		t.Errorf("YearSpan = %+v", s.YearSpan)
	}
	if s.HighestGrossing.Title != "D" {
		t.Errorf("HighestGrossing = %s", s.HighestGrossing.Title)
	}
	if s.HighestRated.Title != "B" {
		t.Errorf("HighestRated = %s", s.HighestRated.Title)
	}
	// Below median: A (7.0), C (8.0).
	if s.HiddenGem == nil || s.HiddenGem.Title != "C" {
		t.Errorf("HiddenGem = %v", s.HiddenGem)
	}
}

func TestComputeTieKeepsFirst(t *testing.T) {
	s := Compute(points(
		mv("First", 2000, 500, 9.0),
		mv("Second", 2001, 500, 9.0),
	))
	if s.HighestGrossing.Title != "First" || s.HighestRated.Title != "First" {
		t.Errorf("tie-break: grossing=%s rated=%s", s.HighestGrossing.Title, s.HighestRated.Title)
	}
}

func TestHiddenGemNotEnoughData(t *testing.T) {
	tests := []struct {
		name   string
		movies []model.Movie
	}{
		{"single", []model.Movie{mv("A", 2000, 10, 8)}},
		{"all equal gross", []model.Movie{mv("A", 2000, 10, 8), mv("B", 2001, 10, 9)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Compute(points(tt.movies...))
			if s.HiddenGem != nil {
				t.Errorf("HiddenGem = %s, want nil", s.HiddenGem.Title)
			}
			if s.HiddenGemNote != NotEnoughData {
				t.Errorf("HiddenGemNote = %q", s.HiddenGemNote)
			}
		})
	}
}

func TestBestBlockbuster(t *testing.T) {
	// Sorted gross 1..10: 0.8 quantile = 8.2, so 9 and 10 qualify.
	var ms []model.Movie
	for i := 1; i <= 10; i++ {
		ms = append(ms, mv(string(rune('A'+i-1)), 2000+i, float64(i), 7))
	}
	ms[8].Rating = 9.1 // gross 9
	s := Compute(points(ms...))
	if s.BestBlockbuster == nil || s.BestBlockbuster.Title != "I" {
		t.Fatalf("BestBlockbuster = %v, want I", s.BestBlockbuster)
	}

	ms[9].Rating = 9.5 // highest grossing is now also best rated
	s = Compute(points(ms...))
	if s.BestBlockbuster != nil {
		t.Errorf("BestBlockbuster = %s, want nil when it repeats highest grossing", s.BestBlockbuster.Title)
	}
}

func TestQuantile(t *testing.T) {
	tests := []struct {
		in   []float64
		p    float64
		want float64
	}{
		{[]float64{1, 2, 3}, 0.5, 2},
		{[]float64{1, 2, 3, 4}, 0.5, 2.5},
		{[]float64{5}, 0.8, 5},
		{[]float64{1, 2, 3, 4, 5}, 0, 1},
		{[]float64{1, 2, 3, 4, 5}, 1, 5},
		{[]float64{0, 10}, 0.8, 8},
	}
	for _, tt := range tests {
		if got := Quantile(tt.in, tt.p); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Quantile(%v, %v) = %v, want %v", tt.in, tt.p, got, tt.want)
		}
	}
	if !math.IsNaN(Quantile(nil, 0.5)) {
		t.Error("Quantile(nil) should be NaN")
	}
}

func TestCorrelation(t *testing.T) {
	s := Compute(points(
		mv("A", 2000, 100, 7),
		mv("B", 2001, 200, 8),
		mv("C", 2002, 300, 9),
	))
	if math.Abs(s.RatingGrossCorrelation-1) > 1e-9 {
		t.Errorf("correlation = %v, want 1", s.RatingGrossCorrelation)
	}
	if s.CorrelationLabel != CorrelationStrong {
		t.Errorf("label = %q", s.CorrelationLabel)
	}

	flat := Compute(points(mv("A", 2000, 100, 7), mv("B", 2001, 200, 7), mv("C", 2002, 300, 7)))
	if flat.RatingGrossCorrelation != 0 || flat.CorrelationLabel != CorrelationNA {
		t.Errorf("zero variance: %v %q", flat.RatingGrossCorrelation, flat.CorrelationLabel)
	}
}

func TestCorrelationLabel(t *testing.T) {
	for r, want := range map[float64]string{0.1: CorrelationWeak, -0.45: CorrelationModerate, 0.3: CorrelationModerate, 0.6: CorrelationStrong, -0.9: CorrelationStrong} {
		if got := CorrelationLabel(r); got != want {
			t.Errorf("CorrelationLabel(%v) = %q, want %q", r, got, want)
		}
	}
}

func TestPropertyCountMatches(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 30).Draw(t, "n")
		var ms []model.Movie
		for i := 0; i < n; i++ {
			ms = append(ms, mv(
				"m"+string(rune('a'+i)),
				rapid.IntRange(1901, 2029).Draw(t, "year"),
				float64(rapid.IntRange(1, 500).Draw(t, "gross")),
				float64(rapid.IntRange(0, 100).Draw(t, "rating"))/10,
			))
		}
		s := Compute(points(ms...))
		if s.Count != n {
			t.Fatalf("Count = %d, want %d", s.Count, n)
		}
		if (n == 0) != s.Empty {
			t.Fatalf("Empty = %v for n = %d", s.Empty, n)
		}
		if math.IsNaN(s.MeanGross) || math.IsNaN(s.RatingGrossCorrelation) {
			t.Fatalf("NaN leaked: %+v", s)
		}
		if s.HiddenGem != nil && s.HiddenGem.Gross >= s.MedianGross {
			t.Fatalf("hidden gem %s not below median", s.HiddenGem.Title)
		}
	})
}
