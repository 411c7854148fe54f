package testutil

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/marquee/pkg/loader"
	"github.com/vanderheijden86/marquee/pkg/model"
)

func TestGeneratorDeterministic(t *testing.T) {
	a := NewDefault().Movies(50)
	b := NewDefault().Movies(50)
	AssertJSONEqual(t, a, b)

	c := New(GeneratorConfig{Seed: 7}).Movies(50)
	same := 0
	for i := range a {
		if a[i].Gross == c[i].Gross {
			same++
		}
	}
	if same == len(a) {
		t.Error("different seeds produced identical movies")
	}
}

func TestGeneratorProducesValidMovies(t *testing.T) {
	movies := NewDefault().Movies(500)
	AssertMovieCount(t, movies, 500)
	AssertNoDuplicateTitles(t, movies)
	AssertAllValid(t, movies)

	for _, m := range movies {
		if m.ReleaseYear < 1930 || m.ReleaseYear > 2020 {
			t.Errorf("%s: year %d outside 1930-2020", m.Title, m.ReleaseYear)
		}
		if len(m.Genres) < 1 || len(m.Genres) > 3 {
			t.Errorf("%s: %d genres", m.Title, len(m.Genres))
		}
	}
}

func TestGeneratorConfigDefaults(t *testing.T) {
	g := New(GeneratorConfig{FromYear: 2000, ToYear: 1990, Genres: []string{"Drama"}})
	for _, m := range g.Movies(100) {
		if m.ReleaseYear < 1990 || m.ReleaseYear > 2000 {
			t.Errorf("year %d outside the swapped range", m.ReleaseYear)
		}
		if len(m.Genres) != 1 || m.Genres[0] != "Drama" {
			t.Errorf("genres = %v, want [Drama]", m.Genres)
		}
		if !strings.HasPrefix(m.Title, "Movie ") {
			t.Errorf("title %q lacks the default prefix", m.Title)
		}
	}
}

func TestSameYear(t *testing.T) {
	movies := NewDefault().SameYear(12, 1999)
	for _, m := range movies {
		if m.ReleaseYear != 1999 {
			t.Fatalf("%s released %d", m.Title, m.ReleaseYear)
		}
	}
	ds := model.NewDataset(movies)
	if lo, hi := ds.YearExtent(); lo != 1999 || hi != 1999 {
		t.Errorf("YearExtent = %d, %d", lo, hi)
	}
}

func TestClassics(t *testing.T) {
	movies := Classics()
	AssertMovieCount(t, movies, 7)
	AssertAllValid(t, movies)
	if m := FindMovie(movies, "Jaws"); m == nil || m.ReleaseYear != 1975 {
		t.Errorf("FindMovie(Jaws) = %+v", m)
	}
	if FindMovie(movies, "Alien") != nil {
		t.Error("Alien is not a classic here")
	}
	AssertTitles(t, Titles(movies)[:2], "Jaws", "The Godfather")
}

func TestToJSONLRoundTripsThroughLoader(t *testing.T) {
	dir := TempDataDir(t, Classics())
	path := filepath.Join(dir, "movies.jsonl")

	lines := strings.Split(strings.TrimSpace(ToJSONL(Classics())), "\n")
	if len(lines) != 7 {
		t.Fatalf("lines = %d, want 7", len(lines))
	}
	var first model.Movie
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 0: %v", err)
	}
	if first.Title != "The Godfather" {
		t.Errorf("first title = %q", first.Title)
	}

	ds, report, err := loader.LoadFile(context.Background(), path, loader.ParseOptions{})
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(ds.Movies) != 7 || len(report.Rejected) != 0 {
		t.Errorf("loaded %d movies, %d rejected", len(ds.Movies), len(report.Rejected))
	}
}
