package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/marquee/pkg/loader"
	"github.com/vanderheijden86/marquee/pkg/model"
)

// AssertMovieCount verifies the expected number of movies.
func AssertMovieCount(t *testing.T, movies []model.Movie, expected int) {
	t.Helper()
	if len(movies) != expected {
		t.Errorf("expected %d movies, got %d", expected, len(movies))
	}
}

// AssertNoDuplicateTitles verifies all titles are unique.
func AssertNoDuplicateTitles(t *testing.T, movies []model.Movie) {
	t.Helper()
	seen := make(map[string]bool)
	for _, m := range movies {
		if seen[m.Title] {
			t.Errorf("duplicate title: %s", m.Title)
		}
		seen[m.Title] = true
	}
}

// AssertAllValid verifies every movie passes load-time validation.
func AssertAllValid(t *testing.T, movies []model.Movie) {
	t.Helper()
	for i := range movies {
		fields, err := loader.ValidateMovie(&movies[i])
		if err != nil {
			t.Fatalf("validator: %v", err)
		}
		if len(fields) > 0 {
			t.Errorf("movie %d (%s) invalid: %v", i, movies[i].Title, fields)
		}
	}
}

// AssertTitles verifies got holds exactly want, ignoring order.
func AssertTitles(t *testing.T, got []string, want ...string) {
	t.Helper()
	g := append([]string(nil), got...)
	w := append([]string(nil), want...)
	sort.Strings(g)
	sort.Strings(w)
	if strings.Join(g, "|") != strings.Join(w, "|") {
		t.Errorf("titles = %v, want %v", g, w)
	}
}

// AssertJSONEqual compares two values after JSON round-tripping.
func AssertJSONEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}
	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}
	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// ToJSONL encodes movies one per line, in the loader's input format.
func ToJSONL(movies []model.Movie) string {
	var b strings.Builder
	for _, m := range movies {
		data, err := json.Marshal(m)
		if err != nil {
			continue
		}
		b.Write(data)
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteMoviesFile writes movies as JSONL to path, creating parent
// directories, and returns path.
func WriteMoviesFile(t *testing.T, path string, movies []model.Movie) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(ToJSONL(movies)), 0o644); err != nil {
		t.Fatalf("failed to write movies file: %v", err)
	}
	return path
}

// TempDataDir creates a temporary directory holding movies.jsonl with the
// given movies and returns the directory.
func TempDataDir(t *testing.T, movies []model.Movie) string {
	t.Helper()
	dir := t.TempDir()
	WriteMoviesFile(t, filepath.Join(dir, "movies.jsonl"), movies)
	return dir
}

// FindMovie returns the movie with the given title, or nil.
func FindMovie(movies []model.Movie, title string) *model.Movie {
	for i := range movies {
		if movies[i].Title == title {
			return &movies[i]
		}
	}
	return nil
}

// Titles returns the titles of movies in order.
func Titles(movies []model.Movie) []string {
	out := make([]string, len(movies))
	for i, m := range movies {
		out[i] = m.Title
	}
	return out
}
