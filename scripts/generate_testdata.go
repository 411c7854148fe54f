//go:build ignore
// +build ignore

// generate_testdata.go creates standard movie datasets for benchmarking.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//   tests/testdata/benchmark/small.jsonl   (500 movies)
//   tests/testdata/benchmark/medium.jsonl  (5000 movies)
//   tests/testdata/benchmark/large.jsonl   (25000 movies)
//   tests/testdata/benchmark/crowded.jsonl (2000 movies, 40 per year)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/marquee/pkg/model"
	"github.com/vanderheijden86/marquee/pkg/testutil"
)

type datasetSpec struct {
	name string
	size int
	// perYear > 0 packs the movies into consecutive years.
	perYear int
}

var datasets = []datasetSpec{
	{name: "small", size: 500},
	{name: "medium", size: 5000},
	{name: "large", size: 25000},
	{name: "crowded", size: 2000, perYear: 40},
}

func main() {
	outputDir := "tests/testdata/benchmark"
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		fmt.Printf("Generating %s dataset (%d movies)...\n", ds.name, ds.size)

		gen := testutil.New(testutil.GeneratorConfig{
			Seed:        int64(ds.size), // Reproducible per-size
			TitlePrefix: "Bench " + ds.name,
		})
		movies := gen.Movies(ds.size)
		if ds.perYear > 0 {
			packYears(movies, ds.perYear)
		}

		jsonl := testutil.ToJSONL(movies)
		outputPath := filepath.Join(outputDir, ds.name+".jsonl")
		if err := os.WriteFile(outputPath, []byte(jsonl), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", outputPath, err)
			os.Exit(1)
		}

		lo, hi := model.NewDataset(movies).YearExtent()
		fmt.Printf("  Written %s (%d bytes, %d-%d)\n", outputPath, len(jsonl), lo, hi)
	}

	fmt.Println("\nDone! Test datasets created in", outputDir)
}

func packYears(movies []model.Movie, perYear int) {
	for i := range movies {
		movies[i].ReleaseYear = 1970 + i/perYear
	}
}
