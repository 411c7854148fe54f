package ui

import (
	"fmt"
	"math"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/marquee/pkg/dashboard"
	"github.com/vanderheijden86/marquee/pkg/filter"
	"github.com/vanderheijden86/marquee/pkg/model"
	"github.com/vanderheijden86/marquee/pkg/scale"
)

// gutterWidth is the space left of the plot for y labels and the axis.
const gutterWidth = 8

// Scatter glyphs.
const (
	glyphDot    = '•'
	glyphFocus  = '◆'
	glyphActive = '◉'
	glyphBreak  = '≈'
)

// plotSize is the scatter plot in cells for a frame. The dashboard is sized
// one unit smaller than the grid so the far edge maps onto the last cell.
func plotSize(f dashboard.Frame) (int, int) {
	return int(math.Round(f.Width)) + 1, int(math.Round(f.Height)) + 1
}

func cell(v float64) int { return int(math.Round(v)) }

// renderScatter draws the scatter plot with its axes. The result is
// gutterWidth+plotW columns by plotH+2 rows.
func renderScatter(f dashboard.Frame, th *Theme) string {
	pw, ph := plotSize(f)
	c := newCanvas(gutterWidth+pw, ph+2)
	axisX := gutterWidth - 1

	for y := 0; y < ph; y++ {
		c.set(axisX, y, '│', &th.Axis)
	}
	c.set(axisX, ph, '└', &th.Axis)
	for x := gutterWidth; x < gutterWidth+pw; x++ {
		c.set(x, ph, '─', &th.Axis)
	}

	for _, t := range f.YAxis.Ticks {
		row := cell(f.YAxis.Scale.Map(t))
		if row < 0 || row >= ph {
			continue
		}
		label := scale.FormatGross(t)
		c.text(axisX-runewidth.StringWidth(label), row, label, &th.Label)
		c.set(axisX, row, '┤', &th.Axis)
	}
	if f.ScaleBreak {
		if row := cell(f.BreakY); row >= 0 && row < ph {
			c.set(axisX, row, glyphBreak, &th.StoryNote)
		}
	}

	lastLabelEnd := -1
	for _, t := range f.XAxis.Ticks {
		col := gutterWidth + cell(f.XAxis.Scale.Map(t))
		if col < gutterWidth || col >= gutterWidth+pw {
			continue
		}
		c.set(col, ph, '┬', &th.Axis)
		label := fmt.Sprintf("%d", int(t))
		start := col - len(label)/2
		if start <= lastLabelEnd {
			continue
		}
		c.text(start, ph+1, label, &th.Label)
		lastLabelEnd = start + len(label)
	}

	var focused []filter.Point
	for _, p := range f.Points {
		col, row, ok := pointCell(f, p.Movie, pw, ph)
		if !ok {
			continue
		}
		if f.IsHighlighted(p.Movie.Title) || p.Movie.Title == f.Highlight.ActiveTitle {
			focused = append(focused, p)
			continue
		}
		st := &th.LowDot
		if p.Band == model.BandHigh {
			st = &th.HighDot
		}
		c.set(gutterWidth+col, row, glyphDot, st)
	}
	for _, p := range focused {
		col, row, _ := pointCell(f, p.Movie, pw, ph)
		glyph := glyphFocus
		if p.Movie.Title == f.Highlight.ActiveTitle {
			glyph = glyphActive
		}
		c.set(gutterWidth+col, row, glyph, &th.FocusDot)
	}

	for _, a := range f.Annotations {
		col, row := gutterWidth+cell(a.X), cell(a.Y)
		st := &th.Note
		if a.Kind == dashboard.AnnotationStory {
			st = &th.StoryNote
		}
		if row > 0 {
			row--
		}
		room := gutterWidth + pw - (col + 2)
		label := truncate(a.Text+": "+a.Title, room)
		if room < 8 {
			// Flip to the left of the point near the right edge.
			label = truncate(a.Text+": "+a.Title, col-gutterWidth-2)
			c.text(col-1-runewidth.StringWidth(label), row, label, st)
			continue
		}
		c.text(col+2, row, label, st)
	}

	if f.Empty != filter.EmptyNone {
		lines := emptyLines(f)
		top := ph/2 - len(lines)/2
		for i, line := range lines {
			line = truncate(line, pw-2)
			left := gutterWidth + (pw-runewidth.StringWidth(line))/2
			c.text(left, top+i, line, &th.StoryNote)
		}
	}

	return c.String()
}

// pointCell maps a movie to its plot cell. ok is false outside the view.
func pointCell(f dashboard.Frame, m *model.Movie, pw, ph int) (int, int, bool) {
	x := f.XAxis.Scale.Map(float64(m.ReleaseYear))
	y := f.YAxis.Scale.Map(m.Gross)
	col, row := cell(x), cell(y)
	if col < 0 || col >= pw || row < 0 || row >= ph {
		return 0, 0, false
	}
	return col, row, true
}

// pointAt returns the displayed movie nearest plot cell (col, row), within
// one and a half cells. Later points are drawn on top, so they win ties.
func pointAt(f dashboard.Frame, col, row int) (*model.Movie, bool) {
	pw, ph := plotSize(f)
	var best *model.Movie
	bestD := 1.5 * 1.5
	for i := len(f.Points) - 1; i >= 0; i-- {
		m := f.Points[i].Movie
		pc, pr, ok := pointCell(f, m, pw, ph)
		if !ok {
			continue
		}
		dx, dy := float64(pc-col), float64(pr-row)
		if d := dx*dx + dy*dy; d < bestD {
			best, bestD = m, d
		}
	}
	return best, best != nil
}

func emptyLines(f dashboard.Frame) []string {
	switch f.Empty {
	case filter.EmptyNoData:
		return []string{"No movies loaded"}
	case filter.EmptyNoGenres:
		return []string{"No genres selected", "press e to select all genres"}
	case filter.EmptyNoBands:
		return []string{"Both rating bands are hidden", "press e to show both bands"}
	default:
		return []string{"No movies match these filters", "press e to reset the filters"}
	}
}
