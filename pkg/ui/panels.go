package ui

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/marquee/pkg/dashboard"
	"github.com/vanderheijden86/marquee/pkg/model"
	"github.com/vanderheijden86/marquee/pkg/scale"
	"github.com/vanderheijden86/marquee/pkg/stats"
)

// renderStats lists the derived statistics of the displayed movies.
func renderStats(f dashboard.Frame, th *Theme, width int) string {
	s := f.Stats
	if s.Empty {
		return th.MutedText.Render("No movies displayed")
	}
	row := func(label, value string) string {
		label = padRight(label, 11)
		return th.Label.Render(label) + th.Value.Render(truncate(value, width-11))
	}
	title := func(m *model.Movie) string {
		if m == nil {
			return "n/a"
		}
		return fmt.Sprintf("%s (%d)", m.Title, m.ReleaseYear)
	}

	lines := []string{
		row("Movies", fmt.Sprintf("%d", s.Count)),
		row("Years", fmt.Sprintf("%d to %d", s.YearSpan.From, s.YearSpan.To)),
		row("Mean", scale.FormatGross(s.MeanGross)),
		row("Median", scale.FormatGross(s.MedianGross)),
		row("Top gross", title(s.HighestGrossing)),
		row("Top rated", title(s.HighestRated)),
	}
	gem := title(s.HiddenGem)
	if s.HiddenGem == nil && s.HiddenGemNote != "" {
		gem = s.HiddenGemNote
	}
	lines = append(lines, row("Hidden gem", gem))
	lines = append(lines, row("Blockbuster", title(s.BestBlockbuster)))
	corr := s.CorrelationLabel
	if s.Count >= 2 && s.CorrelationLabel != stats.CorrelationNA {
		corr = fmt.Sprintf("%.2f (%s)", s.RatingGrossCorrelation, s.CorrelationLabel)
	}
	lines = append(lines, row("Rating~$", corr))
	return strings.Join(lines, "\n")
}

// legendLabel is the text of a band's legend row.
func legendLabel(b model.Band, split float64) string {
	if b == model.BandHigh {
		return fmt.Sprintf("rating ≥ %.1f", split)
	}
	return fmt.Sprintf("rating < %.1f", split)
}

func bandVisible(f dashboard.Frame, b model.Band) bool {
	for _, v := range f.Filter.Bands {
		if v == b {
			return true
		}
	}
	return false
}

// renderLegend draws one row per band plus the split slider. cursor indexes
// model.AllBands, or len(AllBands) for the slider.
func renderLegend(f dashboard.Frame, th *Theme, width, cursor int, focused bool) string {
	var lines []string
	for i, b := range model.AllBands {
		dot := th.BandStyle(b).Render(string(glyphDot))
		text := fmt.Sprintf("%s (%d)", legendLabel(b, f.Filter.RatingSplit), f.BandCounts[b])
		st := th.Base
		if !bandVisible(f, b) {
			st = th.Disabled
		}
		if !f.Controls.Legend {
			st = th.MutedText
		}
		prefix := "  "
		if focused && cursor == i {
			prefix = "> "
			st = st.Inherit(th.Selected)
		}
		lines = append(lines, prefix+dot+" "+st.Render(truncate(text, width-4)))
	}

	prefix := "  "
	if focused && cursor == len(model.AllBands) {
		prefix = "> "
	}
	lines = append(lines, prefix+renderSlider(f, th, width-2))
	return strings.Join(lines, "\n")
}

// renderSlider draws the rating split as a track over the rating extent.
func renderSlider(f dashboard.Frame, th *Theme, width int) string {
	value := fmt.Sprintf(" %.1f", f.Filter.RatingSplit)
	track := width - len(value) - 2
	if track < 3 {
		return th.Value.Render(strings.TrimSpace(value))
	}
	ext := f.Filter.RatingExtent
	pos := 0
	if span := ext.Max - ext.Min; span > 0 {
		pos = int((f.Filter.RatingSplit - ext.Min) / span * float64(track-1))
	}
	pos = clampInt(pos, 0, track-1)
	knob := th.FocusDot
	if !f.Controls.Slider {
		knob = th.MutedText
	}
	return th.Axis.Render("["+strings.Repeat("─", pos)) +
		knob.Render("●") +
		th.Axis.Render(strings.Repeat("─", track-1-pos)+"]") +
		th.Value.Render(value)
}

// renderGenres draws the genre checklist, scrolled so cursor stays visible.
func renderGenres(f dashboard.Frame, th *Theme, width, height, cursor int, focused bool) string {
	counts := f.GenreCounts
	if len(counts) == 0 {
		return th.MutedText.Render("No genres")
	}
	selected := make(map[string]bool, len(f.Filter.Genres))
	for _, g := range f.Filter.Genres {
		selected[g] = true
	}

	header := th.Label.Render(truncate(f.Filter.GenreLabel, width))
	height = max(height-1, 1)
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := min(start+height, len(counts))

	lines := []string{header}
	for i := start; i < end; i++ {
		gc := counts[i]
		box := "[ ]"
		if selected[gc.Genre] {
			box = "[x]"
		}
		count := fmt.Sprintf("%d", gc.Count)
		name := truncate(gc.Genre, width-len(box)-len(count)-3)
		line := box + " " + padRight(name, width-len(box)-len(count)-2) + count
		st := th.Base
		if !f.Controls.Genres {
			st = th.MutedText
		}
		if focused && i == cursor {
			st = th.Selected
		}
		lines = append(lines, st.Render(line))
	}
	return strings.Join(lines, "\n")
}

// renderFocus lists the movies of the focused year.
func renderFocus(f dashboard.Frame, th *Theme, width, height int) string {
	h := f.Highlight
	if h.FocusedYear == nil {
		return th.MutedText.Render(truncate("Hover, lock or arrow through points", width))
	}
	head := fmt.Sprintf("%d", *h.FocusedYear)
	switch {
	case h.LockedYear != nil && *h.LockedYear == *h.FocusedYear:
		head += " (locked)"
	case h.Source != "":
		head += fmt.Sprintf(" (%s)", h.Source)
	}
	lines := []string{th.Title.Render(head)}

	byTitle := make(map[string]*model.Movie, len(f.Points))
	for _, p := range f.Points {
		byTitle[p.Movie.Title] = p.Movie
	}
	room := max(height-1, 1)
	for i, t := range f.Highlighted {
		if i == room-1 && len(f.Highlighted) > room {
			lines = append(lines, th.MutedText.Render(fmt.Sprintf("+%d more", len(f.Highlighted)-i)))
			break
		}
		st := th.Base
		if t == h.ActiveTitle {
			st = th.FocusDot
		}
		lines = append(lines, st.Render(truncate(movieLine(byTitle[t]), width)))
	}
	if len(f.Highlighted) == 0 {
		lines = append(lines, th.MutedText.Render("No displayed movies"))
	}
	return strings.Join(lines, "\n")
}
