package entity

import (
	"errors"
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrFrameSizeMismatch кадры или поля разного размера.
	ErrFrameSizeMismatch = errors.New("frame size mismatch")
	// ErrEmptyFrame пустой кадр.
	ErrEmptyFrame = errors.New("empty frame")
)

// Field плотное скалярное поле, совмещённое с кадром. Данные хранятся построчно.
type Field struct {
	Width  int
	Height int
	Data   []float64
}

// NewField создаёт нулевое поле заданного размера.
func NewField(width, height int) *Field {
	return &Field{Width: width, Height: height, Data: make([]float64, width*height)}
}

// At значение в точке (x, y).
func (f *Field) At(x, y int) float64 { return f.Data[y*f.Width+x] }

// Set записывает значение в точку (x, y).
func (f *Field) Set(x, y int, v float64) { f.Data[y*f.Width+x] = v }

// Bounds границы поля.
func (f *Field) Bounds() image.Rectangle { return image.Rect(0, 0, f.Width, f.Height) }

// Row строка поля без копирования.
func (f *Field) Row(y int) []float64 { return f.Data[y*f.Width : (y+1)*f.Width] }

// Normalize min-max нормализация всего поля в [0, 1].
// Постоянное поле превращается в нули.
func (f *Field) Normalize() *Field {
	out := NewField(f.Width, f.Height)
	if len(f.Data) == 0 {
		return out
	}
	lo, hi := floats.Min(f.Data), floats.Max(f.Data)
	if hi == lo {
		return out
	}
	copy(out.Data, f.Data)
	floats.AddConst(-lo, out.Data)
	floats.Scale(1/(hi-lo), out.Data)
	return out
}

// MeanStdDev среднее и стандартное отклонение (по генеральной совокупности).
func (f *Field) MeanStdDev() (mean, std float64) {
	if len(f.Data) == 0 {
		return 0, 0
	}
	return stat.PopMeanStdDev(f.Data, nil)
}

// Sub копия прямоугольной области поля. Область обрезается границами поля.
func (f *Field) Sub(r image.Rectangle) *Field {
	r = r.Intersect(f.Bounds())
	out := NewField(r.Dx(), r.Dy())
	for y := 0; y < out.Height; y++ {
		copy(out.Row(y), f.Row(r.Min.Y + y)[r.Min.X:r.Max.X])
	}
	return out
}

// FlowField плотное поле оптического потока (dx, dy) для каждого пикселя.
type FlowField struct {
	Width  int
	Height int
	DX     []float32
	DY     []float32
}

// NewFlowField создаёт нулевое поле потока.
func NewFlowField(width, height int) *FlowField {
	return &FlowField{
		Width:  width,
		Height: height,
		DX:     make([]float32, width*height),
		DY:     make([]float32, width*height),
	}
}

// At вектор смещения в точке (x, y).
func (f *FlowField) At(x, y int) (dx, dy float32) {
	i := y*f.Width + x
	return f.DX[i], f.DY[i]
}

// Set записывает вектор смещения.
func (f *FlowField) Set(x, y int, dx, dy float32) {
	i := y*f.Width + x
	f.DX[i], f.DY[i] = dx, dy
}

// Magnitude модуль смещения по каждому пикселю; угол не вычисляется.
func Magnitude(flow *FlowField) (*Field, error) {
	if flow == nil {
		return nil, ErrEmptyFrame
	}
	if len(flow.DX) != flow.Width*flow.Height || len(flow.DY) != len(flow.DX) {
		return nil, fmt.Errorf("flow channels %d/%d for %dx%d: %w",
			len(flow.DX), len(flow.DY), flow.Width, flow.Height, ErrFrameSizeMismatch)
	}
	mag := NewField(flow.Width, flow.Height)
	for i := range flow.DX {
		mag.Data[i] = math.Hypot(float64(flow.DX[i]), float64(flow.DY[i]))
	}
	return mag, nil
}
