//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"tower-vision/internal/domain/entity"
)

// GoCVFarneback плотный оптический поток Фарнебека средствами OpenCV.
type GoCVFarneback struct {
	PyrScale   float64
	Levels     int
	WinSize    int
	Iterations int
	PolyN      int
	PolySigma  float64
}

// NewGoCVFarneback создаёт алгоритм с параметрами, принятыми для поиска опор.
func NewGoCVFarneback() *GoCVFarneback {
	return &GoCVFarneback{PyrScale: 0.5, Levels: 3, WinSize: 15, Iterations: 3, PolyN: 5, PolySigma: 1.2}
}

// Calc вычисляет поле смещений между кадрами одного размера.
func (f *GoCVFarneback) Calc(prev, next *image.Gray) (*entity.FlowField, error) {
	if prev == nil || next == nil || prev.Bounds().Empty() || next.Bounds().Empty() {
		return nil, entity.ErrEmptyFrame
	}
	if prev.Bounds().Size() != next.Bounds().Size() {
		return nil, fmt.Errorf("optical flow %v vs %v: %w",
			prev.Bounds().Size(), next.Bounds().Size(), entity.ErrFrameSizeMismatch)
	}

	a, err := gocv.ImageGrayToMatGray(prev)
	if err != nil {
		return nil, err
	}
	defer a.Close()
	b, err := gocv.ImageGrayToMatGray(next)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	flow := gocv.NewMat()
	defer flow.Close()
	gocv.CalcOpticalFlowFarneback(a, b, &flow, f.PyrScale, f.Levels, f.WinSize,
		f.Iterations, f.PolyN, f.PolySigma, 0)

	data, err := flow.DataPtrFloat32()
	if err != nil {
		return nil, err
	}
	w, h := prev.Bounds().Dx(), prev.Bounds().Dy()
	if len(data) != 2*w*h {
		return nil, fmt.Errorf("farneback flow has %d values for %dx%d: %w", len(data), w, h, entity.ErrFrameSizeMismatch)
	}
	out := entity.NewFlowField(w, h)
	for i := 0; i < w*h; i++ {
		out.DX[i] = data[2*i]
		out.DY[i] = data[2*i+1]
	}
	return out, nil
}
