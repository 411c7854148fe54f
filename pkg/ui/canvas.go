package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// canvas is a fixed grid of styled cells. Later writes win.
type canvas struct {
	w, h   int
	runes  []rune
	styles []*lipgloss.Style
}

func newCanvas(w, h int) *canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c := &canvas{w: w, h: h, runes: make([]rune, w*h), styles: make([]*lipgloss.Style, w*h)}
	for i := range c.runes {
		c.runes[i] = ' '
	}
	return c
}

func (c *canvas) inside(x, y int) bool {
	return x >= 0 && x < c.w && y >= 0 && y < c.h
}

// set writes r at (x, y); out-of-bounds writes are dropped.
func (c *canvas) set(x, y int, r rune, st *lipgloss.Style) {
	if !c.inside(x, y) {
		return
	}
	c.runes[y*c.w+x] = r
	c.styles[y*c.w+x] = st
}

func (c *canvas) at(x, y int) rune {
	if !c.inside(x, y) {
		return 0
	}
	return c.runes[y*c.w+x]
}

// text writes s starting at (x, y), clipped to the row. Wide runes are
// replaced so every rune stays one cell.
func (c *canvas) text(x, y int, s string, st *lipgloss.Style) {
	for _, r := range s {
		if runewidth.RuneWidth(r) != 1 {
			r = '?'
		}
		c.set(x, y, r, st)
		x++
	}
}

// fillRow styles every cell of row y between x0 and x1 (inclusive) without
// changing its rune.
func (c *canvas) fillRow(y, x0, x1 int, st *lipgloss.Style) {
	for x := max(x0, 0); x <= min(x1, c.w-1); x++ {
		if c.inside(x, y) {
			c.styles[y*c.w+x] = st
		}
	}
}

// String renders the grid, grouping runs of equally styled cells.
func (c *canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		row := y * c.w
		for x := 0; x < c.w; {
			st := c.styles[row+x]
			end := x
			for end < c.w && c.styles[row+end] == st {
				end++
			}
			run := string(c.runes[row+x : row+end])
			if st == nil {
				b.WriteString(run)
			} else {
				b.WriteString(st.Render(run))
			}
			x = end
		}
	}
	return b.String()
}

// plain renders the grid without styles.
func (c *canvas) plain() string {
	lines := make([]string, c.h)
	for y := range lines {
		lines[y] = string(c.runes[y*c.w : (y+1)*c.w])
	}
	return strings.Join(lines, "\n")
}
