package vision

import (
	"fmt"
	"image"
	"strings"

	"tower-vision/internal/domain/entity"
	"tower-vision/internal/domain/port"
)

// HornSchunck плотный оптический поток методом Хорна-Шунка.
type HornSchunck struct {
	Alpha      float64 // вес гладкости поля
	Iterations int
}

// NewHornSchunck создаёт алгоритм с параметрами по умолчанию.
func NewHornSchunck() *HornSchunck {
	return &HornSchunck{Alpha: 15, Iterations: 64}
}

// Calc вычисляет поле смещений между кадрами одного размера.
func (h *HornSchunck) Calc(prev, next *image.Gray) (*entity.FlowField, error) {
	if prev == nil || next == nil || prev.Bounds().Empty() || next.Bounds().Empty() {
		return nil, entity.ErrEmptyFrame
	}
	if prev.Bounds().Size() != next.Bounds().Size() {
		return nil, fmt.Errorf("optical flow %v vs %v: %w",
			prev.Bounds().Size(), next.Bounds().Size(), entity.ErrFrameSizeMismatch)
	}
	w, ht := prev.Bounds().Dx(), prev.Bounds().Dy()
	p1, p2 := grayField(prev), grayField(next)
	at := func(f *entity.Field, x, y int) float64 {
		return f.At(clampInt(x, 0, w-1), clampInt(y, 0, ht-1))
	}

	ex := make([]float64, w*ht)
	ey := make([]float64, w*ht)
	et := make([]float64, w*ht)
	for y := 0; y < ht; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			ex[i] = (at(p1, x+1, y) - at(p1, x, y) + at(p1, x+1, y+1) - at(p1, x, y+1) +
				at(p2, x+1, y) - at(p2, x, y) + at(p2, x+1, y+1) - at(p2, x, y+1)) / 4
			ey[i] = (at(p1, x, y+1) - at(p1, x, y) + at(p1, x+1, y+1) - at(p1, x+1, y) +
				at(p2, x, y+1) - at(p2, x, y) + at(p2, x+1, y+1) - at(p2, x+1, y)) / 4
			et[i] = (at(p2, x, y) - at(p1, x, y) + at(p2, x+1, y) - at(p1, x+1, y) +
				at(p2, x, y+1) - at(p1, x, y+1) + at(p2, x+1, y+1) - at(p1, x+1, y+1)) / 4
		}
	}

	u := entity.NewField(w, ht)
	v := entity.NewField(w, ht)
	alpha2 := h.Alpha * h.Alpha
	for range h.Iterations {
		un := entity.NewField(w, ht)
		vn := entity.NewField(w, ht)
		for y := 0; y < ht; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				ub := localAverage(u, x, y)
				vb := localAverage(v, x, y)
				t := (ex[i]*ub + ey[i]*vb + et[i]) / (alpha2 + ex[i]*ex[i] + ey[i]*ey[i])
				un.Data[i] = ub - ex[i]*t
				vn.Data[i] = vb - ey[i]*t
			}
		}
		u, v = un, vn
	}

	flow := entity.NewFlowField(w, ht)
	for i := range u.Data {
		flow.DX[i] = float32(u.Data[i])
		flow.DY[i] = float32(v.Data[i])
	}
	return flow, nil
}

// localAverage взвешенное среднее соседей: 1/6 по сторонам, 1/12 по диагоналям.
func localAverage(f *entity.Field, x, y int) float64 {
	at := func(x, y int) float64 {
		return f.At(clampInt(x, 0, f.Width-1), clampInt(y, 0, f.Height-1))
	}
	return (at(x-1, y)+at(x+1, y)+at(x, y-1)+at(x, y+1))/6 +
		(at(x-1, y-1)+at(x+1, y-1)+at(x-1, y+1)+at(x+1, y+1))/12
}

// Имена алгоритмов оптического потока.
const (
	FlowHornSchunck = "HORN_SCHUNCK"
	FlowFarneback   = "FARNEBACK"
)

// NewOpticalFlow создаёт алгоритм оптического потока по имени.
func NewOpticalFlow(name string) (port.OpticalFlow, error) {
	switch strings.ToUpper(name) {
	case "", FlowHornSchunck:
		return NewHornSchunck(), nil
	case FlowFarneback:
		return NewGoCVFarneback(), nil
	default:
		return nil, fmt.Errorf("unknown optical flow %q", name)
	}
}
