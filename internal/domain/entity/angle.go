package entity

import "math"

// AngleRange диапазон допустимых углов относительно вертикали, в радианах.
// Прямая и её поворот на π считаются одной прямой, поэтому проверка идёт по модулю π.
type AngleRange struct {
	Min float64
	Max float64
}

// NewAngleRange строит диапазон по центральному углу и допуску.
func NewAngleRange(center, tolerance float64) AngleRange {
	return AngleRange{Min: center - tolerance, Max: center + tolerance}
}

// Center центральный угол диапазона.
func (r AngleRange) Center() float64 { return (r.Min + r.Max) / 2 }

// Tolerance половина ширины диапазона.
func (r AngleRange) Tolerance() float64 { return (r.Max - r.Min) / 2 }

// Accepts проверяет угол по двум диапазонам [Min, Max] и [Min+π, Max+π],
// приведённым по модулю π.
func (r AngleRange) Accepts(angle float64) bool {
	width := r.Max - r.Min
	if width < 0 {
		return false
	}
	if width >= math.Pi {
		return true
	}
	d := math.Mod(angle-r.Min, math.Pi)
	if d < 0 {
		d += math.Pi
	}
	return d <= width+1e-12 || math.Pi-d <= 1e-12
}

// AcceptsSegment проверяет угол отрезка относительно вертикали.
func (r AngleRange) AcceptsSegment(s Segment) bool {
	return r.Accepts(s.AngleOY())
}

// NormalizeHalfPi приводит угол в интервал (-π/2, π/2].
func NormalizeHalfPi(angle float64) float64 {
	for angle > math.Pi/2 {
		angle -= math.Pi
	}
	for angle <= -math.Pi/2 {
		angle += math.Pi
	}
	return angle
}
