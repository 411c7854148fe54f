package ui

import (
	"fmt"
	"math"

	"github.com/vanderheijden86/marquee/pkg/dashboard"
)

var barBlocks = []rune("▁▂▃▄▅▆▇█")

const glyphMarker = '▼'

// timelineYearAt returns the year under timeline column col, if the column
// shows a year with movies.
func timelineYearAt(f dashboard.Frame, col int) (int, bool) {
	year := int(math.Round(f.Timeline.X.Invert(float64(col))))
	if _, ok := f.Timeline.Series.At(year); !ok {
		return 0, false
	}
	return year, true
}

// timelineCol is the column of year on the timeline.
func timelineCol(f dashboard.Frame, year int) int {
	return cell(f.Timeline.X.Map(float64(year)))
}

// renderTimeline draws the yearly mean gross as a bar strip of rows rows,
// with a marker row on top and year labels below. anchor is the pending
// brush start chosen from the keyboard, cursor the keyboard column.
func renderTimeline(f dashboard.Frame, th *Theme, rows int, cursor, anchor *int) string {
	pw, _ := plotSize(f)
	rows = max(rows, 1)
	c := newCanvas(gutterWidth+pw, rows+2)
	s := f.Timeline.Series

	top := s.MaxMean()
	if top > 0 {
		label := truncate(fmt.Sprintf("%.0fM", top/1e6), gutterWidth-2)
		c.text(0, 1, label, &th.Label)
	}
	c.text(0, rows, "mean", &th.MutedText)
	for y := 1; y <= rows; y++ {
		c.set(gutterWidth-1, y, '│', &th.Axis)
	}

	var bLo, bHi int
	brushed := f.Timeline.Brush != nil
	if brushed {
		bLo = cell(f.Timeline.X.Map(float64(f.Timeline.Brush.Min)))
		bHi = cell(f.Timeline.X.Map(float64(f.Timeline.Brush.Max)))
	}

	levels := rows * len(barBlocks)
	for col := 0; col < pw; col++ {
		year, ok := timelineYearAt(f, col)
		if !ok || top <= 0 {
			continue
		}
		p, _ := s.At(year)
		if timelineCol(f, year) != col {
			// Each year is drawn once, at its own column.
			continue
		}
		h := int(math.Ceil(p.MeanGross / top * float64(levels)))
		for r := 0; r < rows && h > 0; r++ {
			n := min(h, len(barBlocks))
			c.set(gutterWidth+col, rows-r, barBlocks[n-1], &th.LowDot)
			h -= n
		}
	}

	if brushed {
		for y := 1; y <= rows; y++ {
			c.fillRow(y, gutterWidth+bLo, gutterWidth+bHi, &th.Brush)
		}
	}
	if anchor != nil {
		col := gutterWidth + timelineCol(f, *anchor)
		c.set(col, 0, '┃', &th.Brush)
	}

	if y := f.Highlight.FocusedYear; y != nil && f.Highlight.Marker {
		col := gutterWidth + timelineCol(f, *y)
		c.set(col, 0, glyphMarker, &th.FocusDot)
		for row := 1; row <= rows; row++ {
			if c.at(col, row) != ' ' {
				c.set(col, row, c.at(col, row), &th.FocusDot)
			}
		}
	}
	if cursor != nil {
		col := gutterWidth + timelineCol(f, *cursor)
		c.set(col, rows+1, '^', &th.Selected)
	}

	lastLabelEnd := -1
	for _, t := range f.Timeline.X.Ticks(8) {
		if t != math.Trunc(t) {
			continue
		}
		col := gutterWidth + cell(f.Timeline.X.Map(t))
		label := fmt.Sprintf("%d", int(t))
		start := col - len(label)/2
		if start <= lastLabelEnd || start < gutterWidth || start+len(label) > gutterWidth+pw {
			continue
		}
		if cursor != nil && gutterWidth+timelineCol(f, *cursor) >= start && gutterWidth+timelineCol(f, *cursor) < start+len(label) {
			continue
		}
		c.text(start, rows+1, label, &th.Label)
		lastLabelEnd = start + len(label)
	}

	return c.String()
}
