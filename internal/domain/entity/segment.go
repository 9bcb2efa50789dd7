package entity

import (
	"image"
	"math"
)

// Segment отрезок прямой между двумя точками изображения.
type Segment struct {
	Pt1 image.Point
	Pt2 image.Point
}

// NewSegment создаёт отрезок по координатам концов.
func NewSegment(x1, y1, x2, y2 int) Segment {
	return Segment{Pt1: image.Pt(x1, y1), Pt2: image.Pt(x2, y2)}
}

// Vector вектор от Pt1 к Pt2.
func (s Segment) Vector() image.Point {
	return s.Pt2.Sub(s.Pt1)
}

// Length длина отрезка.
func (s Segment) Length() float64 {
	v := s.Vector()
	return math.Hypot(float64(v.X), float64(v.Y))
}

// AngleOY угол отрезка относительно вертикальной оси в радианах, диапазон (-π, π].
// Для вырожденного отрезка возвращает 0.
func (s Segment) AngleOY() float64 {
	v := s.Vector()
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	return math.Atan2(float64(v.X), float64(v.Y))
}

// AngleOX угол отрезка относительно горизонтальной оси в радианах.
func (s Segment) AngleOX() float64 {
	v := s.Vector()
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	return math.Atan2(float64(v.Y), float64(v.X))
}

// Window окно, описанное вокруг отрезка.
func (s Segment) Window() Window {
	return NewWindow(s.Pt1, s.Pt2)
}

// Distance минимальное расстояние между двумя отрезками.
// Пересекающиеся отрезки находятся на нулевом расстоянии.
func (s Segment) Distance(o Segment) float64 {
	if s.Intersects(o) {
		return 0
	}
	return math.Min(
		math.Min(pointToSegment(s.Pt1, o), pointToSegment(s.Pt2, o)),
		math.Min(pointToSegment(o.Pt1, s), pointToSegment(o.Pt2, s)),
	)
}

// IsNear проверяет, что отрезки находятся не дальше dist друг от друга.
func (s Segment) IsNear(o Segment, dist float64) bool {
	return s.Distance(o) <= dist
}

// Intersects проверяет пересечение отрезков (включая касание концами).
func (s Segment) Intersects(o Segment) bool {
	d1 := orientation(o.Pt1, o.Pt2, s.Pt1)
	d2 := orientation(o.Pt1, o.Pt2, s.Pt2)
	d3 := orientation(s.Pt1, s.Pt2, o.Pt1)
	d4 := orientation(s.Pt1, s.Pt2, o.Pt2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	switch {
	case d1 == 0 && onSegment(o, s.Pt1):
		return true
	case d2 == 0 && onSegment(o, s.Pt2):
		return true
	case d3 == 0 && onSegment(s, o.Pt1):
		return true
	case d4 == 0 && onSegment(s, o.Pt2):
		return true
	}
	return false
}

// pointToSegment расстояние от точки до отрезка: проекция зажимается концами отрезка.
func pointToSegment(p image.Point, s Segment) float64 {
	v := s.Vector()
	w := p.Sub(s.Pt1)
	l2 := float64(v.X*v.X + v.Y*v.Y)
	if l2 == 0 {
		return math.Hypot(float64(w.X), float64(w.Y))
	}
	t := float64(w.X*v.X+w.Y*v.Y) / l2
	t = math.Max(0, math.Min(1, t))
	px := float64(s.Pt1.X) + t*float64(v.X)
	py := float64(s.Pt1.Y) + t*float64(v.Y)
	return math.Hypot(float64(p.X)-px, float64(p.Y)-py)
}

func orientation(a, b, c image.Point) int {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func onSegment(s Segment, p image.Point) bool {
	return p.X >= minInt(s.Pt1.X, s.Pt2.X) && p.X <= maxInt(s.Pt1.X, s.Pt2.X) &&
		p.Y >= minInt(s.Pt1.Y, s.Pt2.Y) && p.Y <= maxInt(s.Pt1.Y, s.Pt2.Y)
}
