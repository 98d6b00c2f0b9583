package detsim

import (
	"math"
	"testing"
)

func TestFrameStats(t *testing.T) {
	f := newFrame(2, 2, 12)
	copy(f.Pix, []uint16{1, 2, 3, 4})
	st := f.Stats()
	if st.Mean != 2.5 || st.Min != 1 || st.Max != 4 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	// sample standard deviation of 1..4
	if math.Abs(st.StdDev-math.Sqrt(5.0/3.0)) > 1e-12 {
		t.Fatalf("stddev = %v", st.StdDev)
	}

	one := newFrame(1, 1, 8)
	one.Pix[0] = 9
	if st := one.Stats(); st.StdDev != 0 || st.Mean != 9 {
		t.Fatalf("single pixel stats: %+v", st)
	}
}

func TestFrameGray16(t *testing.T) {
	f := newFrame(1, 3, 12)
	copy(f.Pix, []uint16{0, 1, 4095})
	g := f.Gray16()
	want := []uint16{0, 16, 65520}
	for c, w := range want {
		if got := g.Gray16At(c, 0).Y; got != w {
			t.Fatalf("col %d: got %d want %d", c, got, w)
		}
	}
	if f.MaxDN() != 4095 {
		t.Fatalf("MaxDN = %d", f.MaxDN())
	}
}

func TestClipCounts(t *testing.T) {
	var c ClipCounts
	c.add(ClipSaturated | ClipADCHigh)
	c.add(ClipADCLow)
	c.add(ClipADCHigh)
	if c != (ClipCounts{Saturated: 1, ADCHigh: 2, ADCLow: 1}) {
		t.Fatalf("unexpected counts: %+v", c)
	}
	c.merge(ClipCounts{Saturated: 2, ADCLow: 3})
	if c.Total() != 9 {
		t.Fatalf("Total = %d", c.Total())
	}
}
