//go:build !gocv
// +build !gocv

package vision

import (
	"image"

	"tower-vision/internal/domain/entity"
)

// GoCVFarneback заглушка оптического потока OpenCV.
type GoCVFarneback struct {
	PyrScale   float64
	Levels     int
	WinSize    int
	Iterations int
	PolyN      int
	PolySigma  float64
}

// NewGoCVFarneback создаёт алгоритм-заглушку (без OpenCV).
func NewGoCVFarneback() *GoCVFarneback {
	return &GoCVFarneback{PyrScale: 0.5, Levels: 3, WinSize: 15, Iterations: 3, PolyN: 5, PolySigma: 1.2}
}

// Calc возвращает ошибку, если сборка без тега gocv.
func (f *GoCVFarneback) Calc(prev, next *image.Gray) (*entity.FlowField, error) {
	_ = prev
	_ = next
	return nil, ErrGoCVDisabled
}
