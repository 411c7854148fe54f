// Package viewport holds the scatter plot's zoom and pan transform.
//
// The transform is independent of the filter state. Axes are never drawn
// from the base scales while zoomed; callers rescale them through the
// current Transform first.
package viewport

import (
	"math"

	"github.com/vanderheijden86/marquee/pkg/scale"
)

// Scale extent.
const (
	MinScale = 1.0
	MaxScale = 20.0
)

// Transform is a uniform scale K followed by a translation (X, Y), applied
// in plot pixel space.
type Transform struct {
	K float64 `json:"k"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Identity is the unzoomed transform.
var Identity = Transform{K: 1}

// IsIdentity reports whether t is exactly the identity.
func (t Transform) IsIdentity() bool {
	return t == Identity
}

// ResetVisible reports whether the reset-view control should be shown.
func ResetVisible(t Transform) bool {
	return !t.IsIdentity()
}

// ApplyX maps a base x coordinate through the transform.
func (t Transform) ApplyX(x float64) float64 { return x*t.K + t.X }

// ApplyY maps a base y coordinate through the transform.
func (t Transform) ApplyY(y float64) float64 { return y*t.K + t.Y }

// InvertX maps a screen x coordinate back to base space.
func (t Transform) InvertX(x float64) float64 { return (x - t.X) / t.K }

// InvertY maps a screen y coordinate back to base space.
func (t Transform) InvertY(y float64) float64 { return (y - t.Y) / t.K }

// Constrain clamps K to the scale extent and the translation so the zoomed
// plot still covers the whole width x height viewport.
func Constrain(t Transform, width, height float64) Transform {
	if math.IsNaN(t.K) || t.K == 0 {
		t.K = 1
	}
	t.K = math.Min(MaxScale, math.Max(MinScale, t.K))
	t.X = clamp(t.X, width*(1-t.K), 0)
	t.Y = clamp(t.Y, height*(1-t.K), 0)
	if t.K == 1 {
		t.X, t.Y = 0, 0
	}
	return t
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return hi
	}
	return math.Min(hi, math.Max(lo, v))
}

// ZoomAt multiplies the scale by factor keeping the point (cx, cy) fixed on
// screen, then constrains the result.
func ZoomAt(t Transform, factor, cx, cy, width, height float64) Transform {
	k := math.Min(MaxScale, math.Max(MinScale, t.K*factor))
	out := Transform{
		K: k,
		X: cx - (cx-t.X)*k/t.K,
		Y: cy - (cy-t.Y)*k/t.K,
	}
	return Constrain(out, width, height)
}

// Pan shifts the transform by (dx, dy) screen pixels, then constrains it.
func Pan(t Transform, dx, dy, width, height float64) Transform {
	t.X += dx
	t.Y += dy
	return Constrain(t, width, height)
}

// RescaleX returns s with its domain replaced by the values currently
// visible across its range under t.
func RescaleX(t Transform, s scale.Scale) scale.Scale {
	domain := make([]float64, len(s.Range))
	for i, r := range s.Range {
		domain[i] = s.Invert(t.InvertX(r))
	}
	return s.WithDomain(domain)
}

// RescaleY is RescaleX for the vertical axis.
func RescaleY(t Transform, s scale.Scale) scale.Scale {
	domain := make([]float64, len(s.Range))
	for i, r := range s.Range {
		domain[i] = s.Invert(t.InvertY(r))
	}
	return s.WithDomain(domain)
}

// Lerp interpolates between two transforms at u in [0,1].
func Lerp(a, b Transform, u float64) Transform {
	return Transform{
		K: a.K + (b.K-a.K)*u,
		X: a.X + (b.X-a.X)*u,
		Y: a.Y + (b.Y-a.Y)*u,
	}
}
