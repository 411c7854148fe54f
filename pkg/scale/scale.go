// Package scale maps data values to plot coordinates.
//
// A Scale is piecewise linear over two or more domain stops, which covers both
// the plain year axis and the gross axis with its compressed upper segment.
// Values outside the domain extrapolate from the nearest segment.
package scale

import (
	"math"
)

// Scale is a piecewise linear mapping from Domain stops to Range stops.
// Domain must be ascending; Range may run in either direction.
type Scale struct {
	Domain []float64 `json:"domain"`
	Range  []float64 `json:"range"`
}

// NewLinear returns a two-stop scale.
func NewLinear(d0, d1, r0, r1 float64) Scale {
	return Scale{Domain: []float64{d0, d1}, Range: []float64{r0, r1}}
}

// Map converts a domain value to a range coordinate.
func (s Scale) Map(v float64) float64 {
	i := segment(s.Domain, v)
	return lerp(v, s.Domain[i], s.Domain[i+1], s.Range[i], s.Range[i+1])
}

// Invert converts a range coordinate back to a domain value.
func (s Scale) Invert(px float64) float64 {
	d, r := s.Domain, s.Range
	if len(r) > 1 && r[0] > r[len(r)-1] {
		d, r = reversed(d), reversed(r)
	}
	i := segment(r, px)
	return lerp(px, r[i], r[i+1], d[i], d[i+1])
}

// Extent returns the first and last domain stop.
func (s Scale) Extent() (float64, float64) {
	return s.Domain[0], s.Domain[len(s.Domain)-1]
}

// Contains reports whether v lies inside the domain.
func (s Scale) Contains(v float64) bool {
	lo, hi := s.Extent()
	return v >= lo && v <= hi
}

// Ticks returns about count round values spanning the domain.
func (s Scale) Ticks(count int) []float64 {
	lo, hi := s.Extent()
	return Ticks(lo, hi, count)
}

// WithDomain returns a copy of s with a new domain and the same range.
func (s Scale) WithDomain(domain []float64) Scale {
	return Scale{Domain: append([]float64(nil), domain...), Range: append([]float64(nil), s.Range...)}
}

func segment(stops []float64, v float64) int {
	n := len(stops)
	for i := 0; i < n-2; i++ {
		if v < stops[i+1] {
			return i
		}
	}
	return n - 2
}

func lerp(v, a0, a1, b0, b1 float64) float64 {
	if a1 == a0 {
		return b0
	}
	return b0 + (v-a0)/(a1-a0)*(b1-b0)
}

func reversed(in []float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}

// Ticks returns round tick values between start and stop, stepping by 1, 2
// or 5 times a power of ten so that roughly count ticks fit.
func Ticks(start, stop float64, count int) []float64 {
	if count <= 0 || math.IsNaN(start) || math.IsNaN(stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	inc := TickIncrement(start, stop, count)
	if inc == 0 || math.IsInf(inc, 0) {
		return nil
	}

	var ticks []float64
	if inc > 0 {
		r0, r1 := math.Ceil(start/inc), math.Floor(stop/inc)
		for i := r0; i <= r1; i++ {
			ticks = append(ticks, i*inc)
		}
	} else {
		inc = -inc
		r0, r1 := math.Ceil(start*inc), math.Floor(stop*inc)
		for i := r0; i <= r1; i++ {
			ticks = append(ticks, i/inc)
		}
	}
	if reverse {
		ticks = reversed(ticks)
	}
	return ticks
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// TickIncrement returns the tick step for the interval. A negative result
// -n means a step of 1/n, which keeps fractional steps exact.
func TickIncrement(start, stop float64, count int) float64 {
	step := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step))
	ratio := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case ratio >= e10:
		factor = 10
	case ratio >= e5:
		factor = 5
	case ratio >= e2:
		factor = 2
	}
	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}
