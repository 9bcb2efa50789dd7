package vision

import (
	"image"
	"image/color"
)

func newGray(w, h int) *image.Gray {
	return image.NewGray(image.Rect(0, 0, w, h))
}

func verticalLineImage(w, h, x, y0, y1 int) *image.Gray {
	img := newGray(w, h)
	for y := y0; y <= y1; y++ {
		img.SetGray(x, y, color.Gray{Y: 255})
	}
	return img
}

func horizontalLineImage(w, h, y, x0, x1 int) *image.Gray {
	img := newGray(w, h)
	for x := x0; x <= x1; x++ {
		img.SetGray(x, y, color.Gray{Y: 255})
	}
	return img
}

// stepImage левая половина чёрная, начиная со столбца edge белая.
func stepImage(w, h, edge int) *image.Gray {
	img := newGray(w, h)
	for y := 0; y < h; y++ {
		for x := edge; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	return img
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
