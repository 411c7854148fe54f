package datasource

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vanderheijden86/marquee/pkg/model"
)

// DatasetDiff lists what changed between two loads of a dataset, keyed by
// title.
type DatasetDiff struct {
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
	Changed []string `json:"changed,omitempty"`
	CountA  int      `json:"count_a"`
	CountB  int      `json:"count_b"`
}

// Empty reports whether the two datasets hold the same movies.
func (d DatasetDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Summary returns a one-paragraph description of the diff.
func (d DatasetDiff) Summary() string {
	if d.Empty() {
		return fmt.Sprintf("no changes (%d movies)", d.CountB)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d -> %d movies", d.CountA, d.CountB)
	section := func(label string, titles []string) {
		if len(titles) == 0 {
			return
		}
		fmt.Fprintf(&b, "; %d %s", len(titles), label)
		if len(titles) <= 5 {
			fmt.Fprintf(&b, " (%s)", strings.Join(titles, ", "))
		}
	}
	section("added", d.Added)
	section("removed", d.Removed)
	section("changed", d.Changed)
	return b.String()
}

// Diff compares a and b. Either may be nil. A movie counts as changed when
// any field drawn by the charts differs.
func Diff(a, b *model.Dataset) DatasetDiff {
	d := DatasetDiff{CountA: a.Len(), CountB: b.Len()}

	index := func(ds *model.Dataset) map[string]*model.Movie {
		out := make(map[string]*model.Movie, ds.Len())
		if ds == nil {
			return out
		}
		for i := range ds.Movies {
			out[ds.Movies[i].Title] = &ds.Movies[i]
		}
		return out
	}
	ma, mb := index(a), index(b)

	for title, old := range ma {
		cur, ok := mb[title]
		if !ok {
			d.Removed = append(d.Removed, title)
			continue
		}
		if chartFieldsDiffer(old, cur) {
			d.Changed = append(d.Changed, title)
		}
	}
	for title := range mb {
		if _, ok := ma[title]; !ok {
			d.Added = append(d.Added, title)
		}
	}

	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	sort.Strings(d.Changed)
	return d
}

func chartFieldsDiffer(a, b *model.Movie) bool {
	if a.ReleaseYear != b.ReleaseYear || a.Gross != b.Gross || a.Rating != b.Rating {
		return true
	}
	if len(a.Genres) != len(b.Genres) {
		return true
	}
	for i := range a.Genres {
		if a.Genres[i] != b.Genres[i] {
			return true
		}
	}
	return false
}
