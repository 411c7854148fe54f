// Package loader reads movie datasets from JSONL files.
//
// Each line is one movie. Rows use either the canonical keys (title,
// release_year, gross, imdb_rating, genres) or the IMDb top-1000 export keys
// (Series_Title, Released_Year, Gross, IMDB_Rating, Genre). Numbers may be
// quoted and gross may carry thousands separators. Rows that fail validation
// are excluded with a warning and never reach the dashboard.
package loader

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/marquee/pkg/debug"
	"github.com/vanderheijden86/marquee/pkg/metrics"
	"github.com/vanderheijden86/marquee/pkg/model"
)

// ErrNoMovies is returned when a source yields no valid rows.
var ErrNoMovies = errors.New("no valid movies found")

// PreferredDataNames is the lookup order when a directory is given.
var PreferredDataNames = []string{"movies.jsonl", "imdb_top_1000.jsonl", "imdb.jsonl"}

// DefaultMaxBufferSize is the longest accepted line (10MB).
const DefaultMaxBufferSize = 1024 * 1024 * 10

// ParseOptions configures parsing.
type ParseOptions struct {
	// WarningHandler receives one message per skipped row. Nil prints to
	// stderr, or stays silent when MQ_ROBOT=1.
	WarningHandler func(string)

	// BufferSize caps the line length; longer lines are skipped.
	BufferSize int

	// Filter optionally drops valid movies. Return true to keep.
	Filter func(*model.Movie) bool
}

// Report summarizes a parse.
type Report struct {
	Lines      int         `json:"lines"`
	Loaded     int         `json:"loaded"`
	Rejected   []*RowError `json:"rejected,omitempty"`
	Duplicates []string    `json:"duplicates,omitempty"`
}

// FindDataFile locates the dataset in dir, preferring PreferredDataNames and
// skipping backups and empty files.
func FindDataFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read data directory: %w", err)
	}

	var candidates []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".jsonl") {
			continue
		}
		if strings.Contains(name, ".backup") || strings.Contains(name, ".orig") || strings.HasSuffix(name, "~") {
			continue
		}
		candidates = append(candidates, name)
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no movie JSONL file found in %s", dir)
	}

	nonEmpty := func(name string) bool {
		info, err := os.Stat(filepath.Join(dir, name))
		return err == nil && info.Size() > 0
	}
	for _, preferred := range PreferredDataNames {
		for _, name := range candidates {
			if name == preferred && nonEmpty(name) {
				return filepath.Join(dir, name), nil
			}
		}
	}
	for _, name := range candidates {
		if nonEmpty(name) {
			return filepath.Join(dir, name), nil
		}
	}
	return filepath.Join(dir, candidates[0]), nil
}

// LoadFile reads and validates a JSONL dataset.
func LoadFile(ctx context.Context, path string, opts ParseOptions) (*model.Dataset, Report, error) {
	defer metrics.Timer(metrics.DatasetLoad)()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Report{}, fmt.Errorf("no movie data found at %s", path)
		}
		return nil, Report{}, fmt.Errorf("failed to open movie data: %w", err)
	}
	defer f.Close()

	movies, rep, err := ParseMovies(ctx, f, opts)
	if err != nil {
		return nil, rep, fmt.Errorf("%s: %w", path, err)
	}
	debug.Log("loader: %s: %d loaded, %d rejected, %d duplicates", path, rep.Loaded, len(rep.Rejected), len(rep.Duplicates))
	debug.LogIf(len(rep.Duplicates) > 0, "loader: %s: kept first of %v", path, rep.Duplicates)
	return model.NewDataset(movies), rep, nil
}

// ParseMovies parses JSONL from r. Invalid rows are reported and skipped;
// a duplicate title keeps the first occurrence. It returns ErrNoMovies if
// nothing survives.
func ParseMovies(ctx context.Context, r io.Reader, opts ParseOptions) ([]model.Movie, Report, error) {
	var rep Report

	maxCapacity := opts.BufferSize
	if maxCapacity <= 0 {
		maxCapacity = DefaultMaxBufferSize
	}
	reader := bufio.NewReaderSize(r, maxCapacity)
	warn := warningHandler(opts.WarningHandler)

	var movies []model.Movie
	seen := make(map[string]bool)
	reject := func(re *RowError) {
		rep.Rejected = append(rep.Rejected, re)
		warn("skipping " + re.Error())
	}

	for lineNum := 1; ; lineNum++ {
		if lineNum%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, rep, err
			}
		}

		line, isPrefix, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, rep, fmt.Errorf("error reading movie stream at line %d: %w", lineNum, err)
		}
		rep.Lines = lineNum

		if isPrefix {
			for isPrefix && err == nil {
				_, isPrefix, err = reader.ReadLine()
			}
			if err != nil && err != io.EOF {
				return nil, rep, fmt.Errorf("error skipping long line at line %d: %w", lineNum, err)
			}
			reject(&RowError{Line: lineNum, Err: fmt.Errorf("line too long (exceeds %d bytes)", maxCapacity)})
			continue
		}

		if lineNum == 1 {
			line = stripBOM(line)
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var raw row
		if err := json.Unmarshal(line, &raw); err != nil {
			reject(&RowError{Line: lineNum, Err: fmt.Errorf("malformed JSON: %w", err)})
			continue
		}
		m := raw.movie()

		fields, err := ValidateMovie(&m)
		if err != nil {
			return nil, rep, fmt.Errorf("validating line %d: %w", lineNum, err)
		}
		fields = append(raw.check(), fields...)
		if len(fields) > 0 {
			reject(&RowError{Line: lineNum, Title: m.Title, Fields: fields})
			continue
		}

		if seen[m.Title] {
			rep.Duplicates = append(rep.Duplicates, m.Title)
			warn(fmt.Sprintf("skipping duplicate title %q on line %d", m.Title, lineNum))
			continue
		}
		if opts.Filter != nil && !opts.Filter(&m) {
			continue
		}
		seen[m.Title] = true
		movies = append(movies, m)
	}

	rep.Loaded = len(movies)
	if len(movies) == 0 {
		return nil, rep, ErrNoMovies
	}
	return movies, rep, nil
}

func warningHandler(h func(string)) func(string) {
	if h != nil {
		return h
	}
	if os.Getenv("MQ_ROBOT") == "1" {
		return func(string) {}
	}
	return func(msg string) {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
	}
}

func stripBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})
}
