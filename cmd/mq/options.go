package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/marquee/pkg/config"
	"github.com/vanderheijden86/marquee/pkg/dashboard"
	"github.com/vanderheijden86/marquee/pkg/filter"
	"github.com/vanderheijden86/marquee/pkg/highlight"
	"github.com/vanderheijden86/marquee/pkg/metrics"
	"github.com/vanderheijden86/marquee/pkg/version"
)

// startState is the initial view requested on the command line.
type startState struct {
	Genres    []string
	Years     *filter.YearRange
	Split     *float64
	StoryStep int // 1-based; 0 leaves the tour off
}

// dashboardOptions maps the user's config onto dashboard options.
func dashboardOptions(cfg config.Config) []dashboard.Option {
	grace := make(map[highlight.Source]time.Duration)
	for src, d := range cfg.HoverGraceDurations() {
		grace[highlight.Source(src)] = d
	}
	setup, restore := cfg.StoryDelays()

	opts := []dashboard.Option{
		dashboard.WithHoverGrace(grace),
		dashboard.WithAutoAdvance(cfg.AutoAdvance()),
	}
	if cfg.UI.DefaultSplit > 0 {
		opts = append(opts, dashboard.WithDefaultSplit(cfg.UI.DefaultSplit))
	}
	if d := cfg.ZoomReset(); d > 0 {
		opts = append(opts, dashboard.WithZoomResetDuration(d))
	}
	if setup > 0 || restore > 0 {
		opts = append(opts, dashboard.WithStoryDelays(setup, restore))
	}
	return opts
}

// parseGenres splits a comma list, dropping blanks.
func parseGenres(s string) []string {
	var out []string
	for _, g := range strings.Split(s, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

// parseYears parses "A-B" or a single year "A".
func parseYears(s string) (*filter.YearRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	lo, hi, found := strings.Cut(s, "-")
	a, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return nil, fmt.Errorf("invalid --years %q: %w", s, err)
	}
	b := a
	if found {
		if b, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
			return nil, fmt.Errorf("invalid --years %q: %w", s, err)
		}
	}
	if b < a {
		a, b = b, a
	}
	return &filter.YearRange{Min: a, Max: b}, nil
}

// splitPaths returns the dataset paths in a comma list.
func splitPaths(s string) []string {
	return parseGenres(s)
}

// apply pushes the requested start state into d. The tour goes last so it
// captures the filtered view as the one to restore.
func (s startState) apply(d *dashboard.Dashboard) error {
	if s.Genres != nil {
		if err := d.SetGenres(s.Genres); err != nil {
			return fmt.Errorf("--genres: %w", err)
		}
	}
	if s.Years != nil {
		if err := d.SetYearRange(s.Years); err != nil {
			return fmt.Errorf("--years: %w", err)
		}
	}
	if s.Split != nil {
		if err := d.SetRatingSplit(*s.Split); err != nil {
			return fmt.Errorf("--split: %w", err)
		}
	}
	if s.StoryStep > 0 {
		d.StoryStart()
		if s.StoryStep > 1 {
			if err := d.StoryGoTo(s.StoryStep - 1); err != nil {
				return fmt.Errorf("--story-step: %w", err)
			}
		}
	}
	return nil
}

// robotFrame is the --robot-frame payload.
type robotFrame struct {
	Version string                `json:"version"`
	Dataset string                `json:"dataset"`
	Frame   dashboard.Frame       `json:"frame"`
	Timings []metrics.TimingStats `json:"timings,omitempty"`
}

func writeRobotFrame(w io.Writer, dataset string, f dashboard.Frame) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(robotFrame{
		Version: version.Version,
		Dataset: dataset,
		Frame:   f,
		Timings: metrics.AllTimingStats(),
	})
}
