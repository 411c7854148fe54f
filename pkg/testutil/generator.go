// Package testutil provides deterministic movie fixtures and assertions for
// tests across the dashboard packages.
package testutil

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/vanderheijden86/marquee/pkg/model"
)

// DefaultGenres is the genre vocabulary generated movies draw from.
var DefaultGenres = []string{
	"Action", "Adventure", "Animation", "Comedy", "Crime",
	"Drama", "Horror", "Romance", "Sci-Fi", "Thriller",
}

// GeneratorConfig controls movie generation.
type GeneratorConfig struct {
	Seed        int64    // Random seed for determinism (0 = use 42)
	TitlePrefix string   // Prefix for titles (default: "Movie")
	FromYear    int      // First release year (default: 1930)
	ToYear      int      // Last release year (default: 2020)
	Genres      []string // Genre vocabulary (nil = DefaultGenres)
	MaxGenres   int      // Genres per movie, 1..MaxGenres (default: 3)
	// MaxGross caps the log-normal gross draw (default: 1e9).
	MaxGross float64
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:        42,
		TitlePrefix: "Movie",
		FromYear:    1930,
		ToYear:      2020,
		Genres:      DefaultGenres,
		MaxGenres:   3,
		MaxGross:    1e9,
	}
}

// Generator creates reproducible movie fixtures.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config, filling unset fields from
// DefaultConfig.
func New(cfg GeneratorConfig) *Generator {
	def := DefaultConfig()
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	if cfg.TitlePrefix == "" {
		cfg.TitlePrefix = def.TitlePrefix
	}
	if cfg.FromYear == 0 {
		cfg.FromYear = def.FromYear
	}
	if cfg.ToYear == 0 {
		cfg.ToYear = def.ToYear
	}
	if cfg.ToYear < cfg.FromYear {
		cfg.FromYear, cfg.ToYear = cfg.ToYear, cfg.FromYear
	}
	if len(cfg.Genres) == 0 {
		cfg.Genres = def.Genres
	}
	if cfg.MaxGenres <= 0 {
		cfg.MaxGenres = def.MaxGenres
	}
	if cfg.MaxGross <= 0 {
		cfg.MaxGross = def.MaxGross
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Movie generates the i-th movie. Titles are unique per index.
func (g *Generator) Movie(i int) model.Movie {
	span := g.cfg.ToYear - g.cfg.FromYear + 1
	year := g.cfg.FromYear + g.rng.Intn(span)

	// Box office is heavy tailed: log-normal around ~$60M.
	gross := math.Exp(17.9 + 1.3*g.rng.NormFloat64())
	gross = math.Min(math.Max(gross, 1e4), g.cfg.MaxGross)
	gross = math.Round(gross)

	rating := 7.6 + 0.3*g.rng.NormFloat64()
	rating = math.Round(math.Min(math.Max(rating, 1), 9.5)*10) / 10

	n := 1 + g.rng.Intn(g.cfg.MaxGenres)
	picked := g.rng.Perm(len(g.cfg.Genres))
	genres := make([]string, 0, n)
	for _, p := range picked[:min(n, len(picked))] {
		genres = append(genres, g.cfg.Genres[p])
	}

	return model.Movie{
		Title:       fmt.Sprintf("%s %04d", g.cfg.TitlePrefix, i),
		ReleaseYear: year,
		Gross:       gross,
		Rating:      rating,
		Genres:      genres,
		Runtime:     80 + g.rng.Intn(100),
		Votes:       25000 + g.rng.Intn(2000000),
	}
}

// Movies generates n movies.
func (g *Generator) Movies(n int) []model.Movie {
	out := make([]model.Movie, n)
	for i := range out {
		out[i] = g.Movie(i)
	}
	return out
}

// Dataset generates n movies wrapped in a Dataset.
func (g *Generator) Dataset(n int) *model.Dataset {
	return model.NewDataset(g.Movies(n))
}

// SameYear generates n movies all released in year, for roving-focus and
// hover tests that need a crowded year.
func (g *Generator) SameYear(n, year int) []model.Movie {
	out := g.Movies(n)
	for i := range out {
		out[i].ReleaseYear = year
	}
	return out
}

// Classics returns a small hand-picked dataset with known answers: seven
// well-known films spanning 1972 to 2015, two of them above $500M.
func Classics() []model.Movie {
	mk := func(title string, year int, gross, rating float64, genres ...string) model.Movie {
		return model.Movie{Title: title, ReleaseYear: year, Gross: gross, Rating: rating, Genres: genres}
	}
	return []model.Movie{
		mk("The Godfather", 1972, 134.97e6, 9.2, "Crime", "Drama"),
		mk("Jaws", 1975, 260e6, 8.0, "Adventure", "Thriller"),
		mk("Star Wars", 1977, 322.74e6, 8.6, "Action", "Adventure", "Sci-Fi"),
		mk("The Shawshank Redemption", 1994, 28.34e6, 9.3, "Drama"),
		mk("Avatar", 2009, 760.5e6, 7.8, "Action", "Adventure", "Sci-Fi"),
		mk("Inception", 2010, 292.58e6, 8.8, "Action", "Sci-Fi"),
		mk("Star Wars: Episode VII - The Force Awakens", 2015, 936.66e6, 7.9, "Action", "Adventure", "Sci-Fi"),
	}
}

// ClassicsDataset wraps Classics in a Dataset.
func ClassicsDataset() *model.Dataset {
	return model.NewDataset(Classics())
}
