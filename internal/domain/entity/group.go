package entity

// LineGroup группа близких отрезков, принадлежащих одной структуре.
type LineGroup struct {
	lines []Segment
	bbox  Window
}

// NewLineGroup создаёт группу из набора отрезков.
func NewLineGroup(lines ...Segment) LineGroup {
	var g LineGroup
	for _, l := range lines {
		g.Add(l)
	}
	return g
}

// Add добавляет отрезок и расширяет описанное окно.
func (g *LineGroup) Add(l Segment) {
	w := l.Window()
	if len(g.lines) == 0 {
		g.bbox = w
	} else {
		g.bbox = g.bbox.Join(w)
	}
	g.lines = append(g.lines, l)
}

// Size количество отрезков в группе.
func (g LineGroup) Size() int { return len(g.lines) }

// Bbox окно, содержащее все концы отрезков группы.
func (g LineGroup) Bbox() Window { return g.bbox }

// Segments отрезки группы в порядке добавления.
func (g LineGroup) Segments() []Segment { return g.lines }

// At отрезок по индексу.
func (g LineGroup) At(i int) Segment { return g.lines[i] }

// AngleMean средний угол отрезков группы относительно горизонтали.
func (g LineGroup) AngleMean() float64 {
	if len(g.lines) == 0 {
		return 0
	}
	var sum float64
	for _, l := range g.lines {
		sum += l.AngleOX()
	}
	return sum / float64(len(g.lines))
}

// GroupLinesByDist разбивает отрезки на группы: отрезок попадает в группу, если он
// ближе maxDistance хотя бы к одному её отрезку. Группа начинается с первого
// нераспределённого отрезка, порядок входа сохраняется.
func GroupLinesByDist(lines []Segment, maxDistance float64) []LineGroup {
	groups := make([]LineGroup, 0)
	pending := make([]Segment, len(lines))
	copy(pending, lines)

	for len(pending) > 0 {
		g := NewLineGroup(pending[0])
		pending = pending[1:]

		for i := 0; i < g.Size(); i++ {
			rest := pending[:0]
			for _, l := range pending {
				if g.At(i).IsNear(l, maxDistance) {
					g.Add(l)
				} else {
					rest = append(rest, l)
				}
			}
			pending = rest
		}
		groups = append(groups, g)
	}
	return groups
}

// DelLinesGroupBySize удаляет группы, в которых меньше minSize отрезков.
// Фильтрация идёт на месте, порядок оставшихся групп сохраняется.
func DelLinesGroupBySize(groups []LineGroup, minSize int) []LineGroup {
	kept := groups[:0]
	for _, g := range groups {
		if g.Size() >= minSize {
			kept = append(kept, g)
		}
	}
	return kept
}
