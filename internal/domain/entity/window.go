package entity

import (
	"fmt"
	"image"
)

// Window прямоугольная область кадра, выровненная по осям.
// Pt1 левый верхний угол, Pt2 правый нижний, оба угла входят в окно.
type Window struct {
	Pt1 image.Point
	Pt2 image.Point
}

// NewWindow строит окно по двум произвольным углам.
func NewWindow(a, b image.Point) Window {
	return Window{
		Pt1: image.Pt(minInt(a.X, b.X), minInt(a.Y, b.Y)),
		Pt2: image.Pt(maxInt(a.X, b.X), maxInt(a.Y, b.Y)),
	}
}

// Width ширина окна в пикселях.
func (w Window) Width() int { return w.Pt2.X - w.Pt1.X + 1 }

// Height высота окна в пикселях.
func (w Window) Height() int { return w.Pt2.Y - w.Pt1.Y + 1 }

// IsEmpty возвращает true для нулевого окна.
func (w Window) IsEmpty() bool {
	return w == Window{}
}

// Center центр окна, координаты округляются вниз.
func (w Window) Center() image.Point {
	return image.Pt(floorDiv2(w.Pt1.X+w.Pt2.X), floorDiv2(w.Pt1.Y+w.Pt2.Y))
}

// Contains проверяет попадание точки в окно (границы включительно).
func (w Window) Contains(p image.Point) bool {
	return p.X >= w.Pt1.X && p.X <= w.Pt2.X && p.Y >= w.Pt1.Y && p.Y <= w.Pt2.Y
}

// Expand расширяет окно на dx по горизонтали и dy по вертикали с каждой стороны.
// Отрицательные значения сужают окно.
func (w Window) Expand(dx, dy int) Window {
	return NewWindow(
		image.Pt(w.Pt1.X-dx, w.Pt1.Y-dy),
		image.Pt(w.Pt2.X+dx, w.Pt2.Y+dy),
	)
}

// Join возвращает минимальное окно, содержащее оба окна.
func (w Window) Join(o Window) Window {
	return Window{
		Pt1: image.Pt(minInt(w.Pt1.X, o.Pt1.X), minInt(w.Pt1.Y, o.Pt1.Y)),
		Pt2: image.Pt(maxInt(w.Pt2.X, o.Pt2.X), maxInt(w.Pt2.Y, o.Pt2.Y)),
	}
}

// Rect переводит окно в image.Rectangle с исключённой правой и нижней границей.
func (w Window) Rect() image.Rectangle {
	return image.Rect(w.Pt1.X, w.Pt1.Y, w.Pt2.X+1, w.Pt2.Y+1)
}

func (w Window) String() string {
	return fmt.Sprintf("[%d;%d - %d;%d]", w.Pt1.X, w.Pt1.Y, w.Pt2.X, w.Pt2.Y)
}

func floorDiv2(v int) int {
	if v < 0 && v%2 != 0 {
		return v/2 - 1
	}
	return v / 2
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
