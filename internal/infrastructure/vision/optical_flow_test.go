package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"tower-vision/internal/domain/entity"
)

func squareImage(w, h, x0, y0, size int) *image.Gray {
	img := newGray(w, h)
	for y := y0; y < y0+size; y++ {
		for x := x0; x < x0+size; x++ {
			img.SetGray(x, y, color.Gray{Y: 200})
		}
	}
	return img
}

func TestHornSchunck_IdenticalFrames(t *testing.T) {
	img := squareImage(32, 32, 10, 10, 8)
	flow, err := NewHornSchunck().Calc(img, img)
	require.NoError(t, err)
	require.Equal(t, 32, flow.Width)
	require.Equal(t, 32, flow.Height)
	for i := range flow.DX {
		require.Zero(t, flow.DX[i])
		require.Zero(t, flow.DY[i])
	}
}

func TestHornSchunck_MovingSquare(t *testing.T) {
	prev := squareImage(32, 32, 10, 10, 8)
	next := squareImage(32, 32, 11, 10, 8)
	flow, err := NewHornSchunck().Calc(prev, next)
	require.NoError(t, err)

	mag, err := entity.Magnitude(flow)
	require.NoError(t, err)
	mean, _ := mag.MeanStdDev()
	require.Greater(t, mean, 0.0)

	// среднее горизонтальное смещение внутри квадрата положительное
	var sum float32
	for y := 10; y < 18; y++ {
		for x := 10; x < 19; x++ {
			dx, _ := flow.At(x, y)
			sum += dx
		}
	}
	require.Greater(t, sum, float32(0))
}

func TestHornSchunck_SizeMismatch(t *testing.T) {
	_, err := NewHornSchunck().Calc(newGray(10, 10), newGray(10, 11))
	require.ErrorIs(t, err, entity.ErrFrameSizeMismatch)

	_, err = NewHornSchunck().Calc(nil, newGray(10, 11))
	require.ErrorIs(t, err, entity.ErrEmptyFrame)
}

func TestNewOpticalFlow(t *testing.T) {
	f, err := NewOpticalFlow("")
	require.NoError(t, err)
	require.IsType(t, &HornSchunck{}, f)

	f, err = NewOpticalFlow("farneback")
	require.NoError(t, err)
	require.IsType(t, &GoCVFarneback{}, f)

	_, err = NewOpticalFlow("lucas-kanade")
	require.Error(t, err)
}
