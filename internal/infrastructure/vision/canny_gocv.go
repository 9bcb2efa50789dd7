//go:build gocv
// +build gocv

package vision

import (
	"image"

	"gocv.io/x/gocv"

	"tower-vision/internal/domain/entity"
)

// GoCVCanny детектор границ Canny средствами OpenCV. Нулевые пороги
// выбираются так же, как у Canny.
type GoCVCanny struct {
	Threshold1 float64
	Threshold2 float64
}

// Name имя шага.
func (c *GoCVCanny) Name() string { return EdgeGoCVCanny }

// Execute строит бинарную карту границ (0 или 255).
func (c *GoCVCanny) Execute(img *image.Gray) (*image.Gray, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, entity.ErrEmptyFrame
	}
	low, high := cannyThresholds(img, c.Threshold1, c.Threshold2)

	src, err := gocv.ImageGrayToMatGray(cloneGray(img))
	if err != nil {
		return nil, err
	}
	defer src.Close()

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(src, &edges, float32(low), float32(high))

	out, err := edges.ToImage()
	if err != nil {
		return nil, err
	}
	return toGray(out), nil
}
