package scale

import (
	"fmt"
	"math"
	"strings"
)

// Gross axis layout.
const (
	Million = 1e6

	// BreakGross is where the detailed lower segment ends.
	BreakGross = 500 * Million
	// UpperGrossBase is the smallest upper bound of the compressed segment.
	UpperGrossBase = 1000 * Million
	// DetailRatio is the share of plot height given to [0, BreakGross].
	DetailRatio = 0.75

	grossTickStep = 100 * Million
)

// GrossAxis is the vertical scale of the scatter plot.
type GrossAxis struct {
	Scale      Scale     `json:"scale"`
	// TickValues are fixed when the axis has a break, nil otherwise.
	TickValues []float64 `json:"tick_values,omitempty"`
	Break      bool      `json:"break"`
}

// NewGrossAxis lays out the gross axis for a dataset maximum. When the data
// exceeds BreakGross the axis is split: [0, BreakGross] takes DetailRatio of
// the height and the rest is compressed up to the next 100M above the data
// (at least UpperGrossBase).
func NewGrossAxis(maxGross, height float64) GrossAxis {
	if maxGross > BreakGross {
		upper := math.Max(UpperGrossBase, math.Ceil(maxGross/Million/100)*100*Million)
		var ticks []float64
		for v := 0.0; v <= upper; v += grossTickStep {
			ticks = append(ticks, v)
		}
		return GrossAxis{
			Scale: Scale{
				Domain: []float64{0, BreakGross, upper},
				Range:  []float64{height, height * (1 - DetailRatio), 0},
			},
			TickValues: ticks,
			Break:      true,
		}
	}

	padded := float64(BreakGross)
	if maxGross > 0 {
		padded = math.Ceil(maxGross*1.05/Million/25) * 25 * Million
	}
	return GrossAxis{Scale: NewLinear(0, padded, height, 0)}
}

// Ticks returns the axis ticks for a (possibly rescaled) scale s. Fixed tick
// values are filtered to the visible domain; with fewer than two left the
// axis falls back to round ticks.
func (a GrossAxis) Ticks(s Scale, count int) []float64 {
	lo, hi := s.Extent()
	if lo > hi {
		lo, hi = hi, lo
	}
	if a.TickValues != nil {
		var out []float64
		for _, v := range a.TickValues {
			if v >= lo && v <= hi {
				out = append(out, v)
			}
		}
		if len(out) >= 2 {
			return out
		}
	}
	return Ticks(lo, hi, count)
}

// BreakY returns the pixel row of the axis break.
func (a GrossAxis) BreakY() float64 {
	return a.Scale.Map(BreakGross)
}

// BreakMarker returns the zig-zag polyline drawn on the axis at row y.
func BreakMarker(y float64) [][2]float64 {
	const w, h = 10.0, 12.0
	return [][2]float64{
		{0, y - h/2},
		{-w, y - h/4},
		{0, y},
		{-w, y + h/4},
		{0, y + h/2},
	}
}

// YearDomain pads a year interval for the horizontal axis: one year either
// side of a brushed range, two either side of the full data.
func YearDomain(lo, hi int, brushed bool) (float64, float64) {
	pad := 2
	if brushed {
		pad = 1
	}
	return float64(lo - pad), float64(hi + pad)
}

// FormatGross renders a gross value as a short label: "$0", "$350M", "$1.5B".
func FormatGross(v float64) string {
	trim := func(f float64) string {
		return strings.TrimSuffix(fmt.Sprintf("%.1f", f), ".0")
	}
	switch {
	case v == 0:
		return "$0"
	case math.Abs(v) >= 1000*Million:
		return "$" + trim(v/(1000*Million)) + "B"
	case math.Abs(v) >= Million:
		return "$" + trim(v/Million) + "M"
	default:
		return "$" + trim(v/1000) + "K"
	}
}
