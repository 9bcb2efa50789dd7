package container

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"tower-vision/internal/domain/entity"
)

// latticeFrame кадр 200x300: решётка из пяти светлых стоек шириной 3 пикс,
// сдвинутая на shift, и две неподвижные стойки справа от неё.
func latticeFrame(shift int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 200, 300))
	bar := func(x0 int) {
		for y := 0; y < 300; y++ {
			for x := x0; x < x0+3; x++ {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	for _, x := range []int{90, 96, 102, 108, 114} {
		bar(x + shift)
	}
	bar(124)
	bar(132)
	return img
}

func TestNewTowerDetector_MovingLattice(t *testing.T) {
	tests := []struct {
		name   string
		shift  int
		found  bool
		window entity.Window
	}{
		{name: "shift 1", shift: 1, found: true, window: entity.NewWindow(image.Pt(90, 1), image.Pt(135, 298))},
		{name: "shift 2", shift: 2, found: true, window: entity.NewWindow(image.Pt(90, 1), image.Pt(135, 298))},
		// сдвиг равен ширине стойки, поток Хорна-Шунка в окне слабый
		{name: "shift 3", shift: 3, found: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewTowerDetector(testConfig())
			require.NoError(t, err)

			res, err := d.Run(context.Background(), entity.FramePair{
				Index:  1,
				First:  latticeFrame(0),
				Second: latticeFrame(tt.shift),
			})
			require.NoError(t, err)
			require.Equal(t, 1, res.Groups1)
			require.Equal(t, 1, res.Groups2)
			require.Equal(t, tt.found, res.Found)
			if tt.found {
				require.Equal(t, tt.window, res.Window)
			}
		})
	}
}

func TestNewTowerDetector_StaticLattice(t *testing.T) {
	d, err := NewTowerDetector(testConfig())
	require.NoError(t, err)

	res, err := d.Run(context.Background(), entity.FramePair{First: latticeFrame(0), Second: latticeFrame(0)})
	require.NoError(t, err)
	require.Equal(t, 1, res.Groups1)
	require.False(t, res.Found)
}
