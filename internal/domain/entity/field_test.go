package entity

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestField_NormalizeRange(t *testing.T) {
	f := NewField(3, 2)
	copy(f.Data, []float64{2, 4, 6, 8, 10, 12})
	n := f.Normalize()
	require.InDelta(t, 0, n.At(0, 0), 1e-12)
	require.InDelta(t, 1, n.At(2, 1), 1e-12)
	require.InDelta(t, 0.6, n.At(0, 1), 1e-12)
	require.InDelta(t, 2, f.At(0, 0), 1e-12, "source untouched")
}

func TestField_NormalizeConstantIsZero(t *testing.T) {
	f := NewField(4, 4)
	for i := range f.Data {
		f.Data[i] = 3.5
	}
	n := f.Normalize()
	mean, std := n.MeanStdDev()
	require.Zero(t, mean)
	require.Zero(t, std)
}

func TestField_MeanStdDevIsPopulation(t *testing.T) {
	f := NewField(4, 1)
	copy(f.Data, []float64{1, 2, 3, 4})
	mean, std := f.MeanStdDev()
	require.InDelta(t, 2.5, mean, 1e-12)
	require.InDelta(t, math.Sqrt(1.25), std, 1e-12)
}

func TestField_SubClipsToBounds(t *testing.T) {
	f := NewField(5, 5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			f.Set(x, y, float64(10*y+x))
		}
	}
	s := f.Sub(image.Rect(3, 2, 9, 4))
	require.Equal(t, 2, s.Width)
	require.Equal(t, 2, s.Height)
	require.Equal(t, []float64{23, 24, 33, 34}, s.Data)

	empty := f.Sub(image.Rect(10, 10, 20, 20))
	require.Zero(t, empty.Width*empty.Height)
}

func TestMagnitude(t *testing.T) {
	flow := NewFlowField(2, 1)
	flow.Set(0, 0, 3, 4)
	flow.Set(1, 0, -6, 8)
	mag, err := Magnitude(flow)
	require.NoError(t, err)
	require.Equal(t, []float64{5, 10}, mag.Data)

	_, err = Magnitude(&FlowField{Width: 3, Height: 3, DX: make([]float32, 2), DY: make([]float32, 2)})
	require.ErrorIs(t, err, ErrFrameSizeMismatch)
}
