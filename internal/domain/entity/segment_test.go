package entity

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSegment_AngleOY(t *testing.T) {
	tests := []struct {
		name string
		seg  Segment
		want float64
	}{
		{"vertical down", NewSegment(5, 0, 5, 10), 0},
		{"vertical up", NewSegment(5, 10, 5, 0), math.Pi},
		{"horizontal right", NewSegment(0, 3, 10, 3), math.Pi / 2},
		{"horizontal left", NewSegment(10, 3, 0, 3), -math.Pi / 2},
		{"diagonal", NewSegment(0, 0, 10, 10), math.Pi / 4},
		{"near vertical", NewSegment(0, 0, 1, 1000), math.Atan2(1, 1000)},
		{"degenerate", NewSegment(4, 4, 4, 4), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, tt.seg.AngleOY(), 1e-12)
		})
	}
}

func TestAngleRange_AcceptsReversedSegment(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ranges := []AngleRange{
		NewAngleRange(0, 0.3),
		NewAngleRange(0.5, 0.1),
		NewAngleRange(-1.2, 0.4),
		NewAngleRange(math.Pi/2, 0.25),
	}
	for i := 0; i < 2000; i++ {
		s := NewSegment(rng.Intn(400), rng.Intn(400), rng.Intn(400), rng.Intn(400))
		for _, r := range ranges {
			require.Equal(t, r.AcceptsSegment(s), r.AcceptsSegment(Segment{Pt1: s.Pt2, Pt2: s.Pt1}),
				"segment %v range %+v", s, r)
		}
	}
}

func TestAngleRange_Accepts(t *testing.T) {
	r := NewAngleRange(0, 0.3)
	require.True(t, r.Accepts(0))
	require.True(t, r.Accepts(0.3))
	require.True(t, r.Accepts(-0.3))
	require.True(t, r.Accepts(math.Pi))
	require.True(t, r.Accepts(math.Pi-0.2))
	require.True(t, r.Accepts(-math.Pi+0.1))
	require.False(t, r.Accepts(math.Pi/2))
	require.False(t, r.Accepts(0.31))
	require.True(t, AngleRange{Min: 0, Max: math.Pi}.Accepts(1.234))
	require.InDelta(t, 0.3, r.Tolerance(), 1e-12)
	require.InDelta(t, 0, r.Center(), 1e-12)
}

func TestNormalizeHalfPi(t *testing.T) {
	require.InDelta(t, 0.1, NormalizeHalfPi(math.Pi+0.1), 1e-12)
	require.InDelta(t, -0.1, NormalizeHalfPi(-math.Pi-0.1), 1e-12)
	require.InDelta(t, 0.1, NormalizeHalfPi(0.1), 1e-12)
	require.InDelta(t, math.Pi/2, NormalizeHalfPi(-math.Pi/2), 1e-12)
}

func TestSegment_Distance(t *testing.T) {
	a := NewSegment(0, 0, 0, 10)
	require.InDelta(t, 5, a.Distance(NewSegment(5, 0, 5, 10)), 1e-12)
	require.InDelta(t, 3, a.Distance(NewSegment(3, 5, 9, 5)), 1e-12)
	require.InDelta(t, 5, a.Distance(NewSegment(3, 14, 3, 20)), 1e-12)
	require.Zero(t, a.Distance(NewSegment(-5, 5, 5, 5)), "crossing segments")
	require.Zero(t, a.Distance(NewSegment(0, 10, 7, 12)), "shared endpoint")
	require.True(t, a.IsNear(NewSegment(10, 0, 10, 10), 10))
	require.False(t, a.IsNear(NewSegment(11, 0, 11, 10), 10))
}
