package scale

import (
	"math"
	"reflect"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestLinearMapInvert(t *testing.T) {
	s := NewLinear(1990, 2010, 0, 400)
	if got := s.Map(2000); !approx(got, 200) {
		t.Errorf("Map(2000) = %v", got)
	}
	if got := s.Invert(100); !approx(got, 1995) {
		t.Errorf("Invert(100) = %v", got)
	}
	if got := s.Map(2020); !approx(got, 600) {
		t.Errorf("extrapolated Map(2020) = %v", got)
	}
}

func TestDescendingRangeInvert(t *testing.T) {
	s := NewLinear(0, 100, 300, 0)
	if got := s.Map(25); !approx(got, 225) {
		t.Errorf("Map(25) = %v", got)
	}
	if got := s.Invert(225); !approx(got, 25) {
		t.Errorf("Invert(225) = %v", got)
	}
}

func TestTicks(t *testing.T) {
	tests := []struct {
		lo, hi float64
		count  int
		want   []float64
	}{
		{0, 10, 10, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{0, 1, 5, []float64{0, 0.2, 0.4, 0.6, 0.8, 1}},
		{1918, 2022, 5, []float64{1920, 1940, 1960, 1980, 2000, 2020}},
		{10, 0, 2, []float64{10, 5, 0}},
		{3, 3, 5, []float64{3}},
	}
	for _, tt := range tests {
		got := Ticks(tt.lo, tt.hi, tt.count)
		if len(got) != len(tt.want) {
			t.Errorf("Ticks(%v, %v, %d) = %v, want %v", tt.lo, tt.hi, tt.count, got, tt.want)
			continue
		}
		for i := range got {
			if !approx(got[i], tt.want[i]) {
				t.Errorf("Ticks(%v, %v, %d) = %v, want %v", tt.lo, tt.hi, tt.count, got, tt.want)
				break
			}
		}
	}
}

func TestGrossAxisWithBreak(t *testing.T) {
	a := NewGrossAxis(936*Million, 400)
	if !a.Break {
		t.Fatal("expected a break above 500M")
	}
	wantDomain := []float64{0, BreakGross, UpperGrossBase}
	if !reflect.DeepEqual(a.Scale.Domain, wantDomain) {
		t.Errorf("Domain = %v, want %v", a.Scale.Domain, wantDomain)
	}
	if got := a.BreakY(); !approx(got, 100) {
		t.Errorf("BreakY = %v, want 100", got)
	}
	if len(a.TickValues) != 11 || a.TickValues[10] != UpperGrossBase {
		t.Errorf("TickValues = %v", a.TickValues)
	}
	// Upper segment: 750M sits halfway between break and top.
	if got := a.Scale.Map(750 * Million); !approx(got, 50) {
		t.Errorf("Map(750M) = %v, want 50", got)
	}
	if got := a.Scale.Invert(50); !approx(got, 750*Million) {
		t.Errorf("Invert(50) = %v", got)
	}
}

func TestGrossAxisUpperBoundGrows(t *testing.T) {
	a := NewGrossAxis(2_797*Million, 400)
	if _, hi := a.Scale.Extent(); hi != 2_800*Million {
		t.Errorf("upper bound = %v, want 2.8B", hi)
	}
}

func TestGrossAxisWithoutBreak(t *testing.T) {
	a := NewGrossAxis(300*Million, 400)
	if a.Break || a.TickValues != nil {
		t.Fatalf("unexpected break: %+v", a)
	}
	if _, hi := a.Scale.Extent(); hi != 325*Million {
		t.Errorf("padded max = %v, want 325M", hi)
	}
	empty := NewGrossAxis(0, 400)
	if _, hi := empty.Scale.Extent(); hi != BreakGross {
		t.Errorf("empty padded max = %v", hi)
	}
}

func TestGrossAxisTicksFilterToVisible(t *testing.T) {
	a := NewGrossAxis(936*Million, 400)
	zoomed := a.Scale.WithDomain([]float64{150 * Million, 300 * Million, 420 * Million})
	got := a.Ticks(zoomed, 5)
	want := []float64{200 * Million, 300 * Million, 400 * Million}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Ticks = %v, want %v", got, want)
	}

	narrow := a.Scale.WithDomain([]float64{210 * Million, 220 * Million, 250 * Million})
	if got := a.Ticks(narrow, 5); len(got) < 2 {
		t.Errorf("fallback ticks = %v", got)
	}
}

func TestBreakMarker(t *testing.T) {
	pts := BreakMarker(100)
	if len(pts) != 5 || pts[0][1] != 94 || pts[4][1] != 106 {
		t.Errorf("BreakMarker = %v", pts)
	}
}

func TestYearDomain(t *testing.T) {
	if lo, hi := YearDomain(1920, 2019, false); lo != 1918 || hi != 2021 {
		t.Errorf("full = %v..%v", lo, hi)
	}
	if lo, hi := YearDomain(1975, 1985, true); lo != 1974 || hi != 1986 {
		t.Errorf("brushed = %v..%v", lo, hi)
	}
}

func TestFormatGross(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "$0"},
		{350 * Million, "$350M"},
		{1_500 * Million, "$1.5B"},
		{2_000 * Million, "$2B"},
		{12.5 * Million, "$12.5M"},
		{40_000, "$40K"},
	}
	for _, tt := range tests {
		if got := FormatGross(tt.v); got != tt.want {
			t.Errorf("FormatGross(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
