// Package datasource opens movie datasets from whichever storage they live
// in. JSONL files go through pkg/loader; SQLite databases are read directly.
// The source type is picked from the file extension, and a directory resolves
// to the freshest dataset file it contains.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vanderheijden86/marquee/pkg/loader"
)

// SourceType identifies the storage format.
type SourceType string

const (
	SourceTypeJSONL  SourceType = "jsonl"
	SourceTypeSQLite SourceType = "sqlite"
)

// Priority breaks ties between sources with the same modification time.
const (
	PrioritySQLite = 100
	PriorityJSONL  = 50
)

// Source is one candidate dataset file.
type Source struct {
	Type     SourceType `json:"type"`
	Path     string     `json:"path"`
	Priority int        `json:"priority"`
	ModTime  time.Time  `json:"mod_time"`
	Size     int64      `json:"size"`
}

func (s Source) String() string {
	return fmt.Sprintf("%s (%s, priority=%d, mod=%s, %d bytes)",
		s.Path, s.Type, s.Priority, s.ModTime.Format(time.RFC3339), s.Size)
}

// TypeOf maps a file extension to a SourceType.
func TypeOf(path string) (SourceType, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".json", ".ndjson":
		return SourceTypeJSONL, true
	case ".db", ".sqlite", ".sqlite3":
		return SourceTypeSQLite, true
	}
	return "", false
}

// Detect resolves path to a Source. A directory resolves to the best source
// inside it (see SelectBest).
func Detect(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Source{}, fmt.Errorf("no movie data found at %s: %w", path, err)
	}
	if info.IsDir() {
		sources, err := Discover(path)
		if err != nil {
			return Source{}, err
		}
		return SelectBest(sources)
	}
	typ, ok := TypeOf(path)
	if !ok {
		return Source{}, fmt.Errorf("unsupported dataset format %q (want .jsonl or .db)", filepath.Ext(path))
	}
	return newSource(typ, path, info), nil
}

// Discover lists every dataset file directly inside dir. The JSONL candidate
// is the one loader.FindDataFile would pick.
func Discover(dir string) ([]Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var sources []Source
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if typ, ok := TypeOf(path); ok && typ == SourceTypeSQLite {
			if info, err := e.Info(); err == nil && info.Size() > 0 {
				sources = append(sources, newSource(typ, path, info))
			}
		}
	}
	if jsonl, err := loader.FindDataFile(dir); err == nil {
		if info, err := os.Stat(jsonl); err == nil && info.Size() > 0 {
			sources = append(sources, newSource(SourceTypeJSONL, jsonl, info))
		}
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no movie dataset found in %s", dir)
	}
	return sources, nil
}

// SelectBest returns the most recently modified source, preferring higher
// priority within a one second window.
func SelectBest(sources []Source) (Source, error) {
	if len(sources) == 0 {
		return Source{}, fmt.Errorf("no sources to choose from")
	}
	sorted := append([]Source(nil), sources...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if d := a.ModTime.Sub(b.ModTime); d > time.Second || d < -time.Second {
			return d > 0
		}
		return a.Priority > b.Priority
	})
	return sorted[0], nil
}

func newSource(typ SourceType, path string, info os.FileInfo) Source {
	prio := PriorityJSONL
	if typ == SourceTypeSQLite {
		prio = PrioritySQLite
	}
	return Source{Type: typ, Path: path, Priority: prio, ModTime: info.ModTime(), Size: info.Size()}
}
