//go:build !gocv
// +build !gocv

package vision

import (
	"image"

	"tower-vision/internal/domain/entity"
)

// GoCVHough заглушка детектора OpenCV.
type GoCVHough struct {
	lineDetector
	threshold int
}

// NewGoCVHough создаёт детектор-заглушку (без OpenCV).
func NewGoCVHough(threshold int, angles entity.AngleRange) *GoCVHough {
	return &GoCVHough{lineDetector: lineDetector{angles: angles}, threshold: threshold}
}

// Type имя алгоритма.
func (h *GoCVHough) Type() string { return TypeGoCVHough }

// Run возвращает ошибку, если сборка без тега gocv.
func (h *GoCVHough) Run(img *image.Gray) ([]entity.Segment, error) {
	_ = img
	return nil, ErrGoCVDisabled
}

// RunWithAngleRange возвращает ошибку, если сборка без тега gocv.
func (h *GoCVHough) RunWithAngleRange(img *image.Gray, center, tolerance float64) ([]entity.Segment, error) {
	return h.withAngleRange(center, tolerance, func() ([]entity.Segment, error) {
		return h.Run(img)
	})
}

// GoCVHoughP заглушка вероятностного детектора OpenCV.
type GoCVHoughP struct {
	lineDetector
	threshold     int
	minLineLength float64
	maxLineGap    float64
}

// NewGoCVHoughP создаёт детектор-заглушку (без OpenCV).
func NewGoCVHoughP(threshold int, angles entity.AngleRange, minLineLength, maxLineGap float64) *GoCVHoughP {
	return &GoCVHoughP{
		lineDetector:  lineDetector{angles: angles},
		threshold:     threshold,
		minLineLength: minLineLength,
		maxLineGap:    maxLineGap,
	}
}

// Type имя алгоритма.
func (h *GoCVHoughP) Type() string { return TypeGoCVHoughP }

// Run возвращает ошибку, если сборка без тега gocv.
func (h *GoCVHoughP) Run(img *image.Gray) ([]entity.Segment, error) {
	_ = img
	return nil, ErrGoCVDisabled
}

// RunWithAngleRange возвращает ошибку, если сборка без тега gocv.
func (h *GoCVHoughP) RunWithAngleRange(img *image.Gray, center, tolerance float64) ([]entity.Segment, error) {
	return h.withAngleRange(center, tolerance, func() ([]entity.Segment, error) {
		return h.Run(img)
	})
}
