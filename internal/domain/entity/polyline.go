package entity

import "image"

// SimplifyPolyline упрощает открытую ломаную алгоритмом Дугласа-Пекера.
// Первая и последняя точки всегда сохраняются.
func SimplifyPolyline(points []image.Point, tolerance float64) []image.Point {
	if len(points) < 3 {
		out := make([]image.Point, len(points))
		copy(out, points)
		return out
	}
	keep := make([]bool, len(points))
	keep[0], keep[len(points)-1] = true, true

	type span struct{ from, to int }
	stack := []span{{0, len(points) - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		chord := Segment{Pt1: points[s.from], Pt2: points[s.to]}
		best, bestDist := -1, tolerance
		for i := s.from + 1; i < s.to; i++ {
			if d := pointToSegment(points[i], chord); d > bestDist {
				best, bestDist = i, d
			}
		}
		if best < 0 {
			continue
		}
		keep[best] = true
		stack = append(stack, span{s.from, best}, span{best, s.to})
	}

	out := make([]image.Point, 0, len(points))
	for i, p := range points {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}
