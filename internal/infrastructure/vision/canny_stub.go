//go:build !gocv
// +build !gocv

package vision

import (
	"image"
)

// GoCVCanny заглушка детектора границ OpenCV.
type GoCVCanny struct {
	Threshold1 float64
	Threshold2 float64
}

// Name имя шага.
func (c *GoCVCanny) Name() string { return EdgeGoCVCanny }

// Execute возвращает ошибку, если сборка без тега gocv.
func (c *GoCVCanny) Execute(img *image.Gray) (*image.Gray, error) {
	_ = img
	return nil, ErrGoCVDisabled
}
