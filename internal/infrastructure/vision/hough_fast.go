package vision

import (
	"image"
	"math"
	"sort"

	"tower-vision/internal/domain/entity"
)

const (
	// fhtMaxCandidates ограничение на число локальных максимумов до сортировки.
	fhtMaxCandidates = 10000
	// fhtMaxLines сколько самых сильных прямых остаётся.
	fhtMaxLines = 100
	// fhtWeightRatio доля яркости по короткой стороне кадра, которую должна набрать прямая.
	fhtWeightRatio = 0.3
)

// HoughFast быстрое (диадическое) преобразование Хафа. Пространство разбито на
// четыре квадранта наклонов, каждый считается за O(w·h·log h).
type HoughFast struct {
	lineDetector
	maxLines int
}

// NewHoughFast создаёт детектор.
func NewHoughFast(angles entity.AngleRange) *HoughFast {
	return &HoughFast{
		lineDetector: lineDetector{angles: angles},
		maxLines:     fhtMaxLines,
	}
}

// Type имя алгоритма.
func (h *HoughFast) Type() string { return TypeHoughFast }

// Run ищет прямые на изображении.
func (h *HoughFast) Run(img *image.Gray) ([]entity.Segment, error) {
	return h.detect(TypeHoughFast, img, func(img *image.Gray) ([]entity.Segment, error) {
		return h.filter(h.run(img)), nil
	})
}

// RunWithAngleRange запускает поиск с временным диапазоном углов.
func (h *HoughFast) RunWithAngleRange(img *image.Gray, center, tolerance float64) ([]entity.Segment, error) {
	return h.withAngleRange(center, tolerance, func() ([]entity.Segment, error) {
		return h.Run(img)
	})
}

// fhtQuadrant одна из четырёх ориентаций: исходная, зеркальная и их транспонированные варианты.
type fhtQuadrant struct {
	transpose bool
	mirror    bool
}

var fhtQuadrants = [4]fhtQuadrant{{false, false}, {false, true}, {true, false}, {true, true}}

type fhtPeak struct {
	weight int64
	quad   int
	shift  int
	x      int
}

type fhtSpace struct {
	quad     fhtQuadrant
	qw, qh   int // размер кадра в координатах квадранта
	hp, wp   int // размер накопителя
	pad      int
	acc      []int64
	origW    int
	origH    int
	original *image.Gray
}

func newFHTSpace(img *image.Gray, quad fhtQuadrant) *fhtSpace {
	b := img.Bounds()
	s := &fhtSpace{quad: quad, origW: b.Dx(), origH: b.Dy(), original: img}
	s.qw, s.qh = s.origW, s.origH
	if quad.transpose {
		s.qw, s.qh = s.qh, s.qw
	}
	s.hp = nextPow2(s.qh)
	s.pad = s.hp - 1
	s.wp = s.qw + s.pad

	src := make([]int64, s.wp*s.hp)
	for y := 0; y < s.qh; y++ {
		for x := 0; x < s.qw; x++ {
			ox, oy := s.toOriginal(x, y)
			src[y*s.wp+x+s.pad] = int64(img.Pix[oy*img.Stride+ox])
		}
	}
	s.acc = fhtTransform(src, s.wp, s.hp)
	return s
}

// toOriginal переводит целые координаты квадранта в координаты кадра.
func (s *fhtSpace) toOriginal(x, y int) (int, int) {
	if s.quad.mirror {
		x = s.qw - 1 - x
	}
	if s.quad.transpose {
		return y, x
	}
	return x, y
}

func (s *fhtSpace) toOriginalF(x, y float64) (float64, float64) {
	if s.quad.mirror {
		x = float64(s.qw-1) - x
	}
	if s.quad.transpose {
		return y, x
	}
	return x, y
}

// line прямая кадра, соответствующая ячейке накопителя (shift, x).
func (s *fhtSpace) line(shift, x int) (entity.Segment, bool) {
	x0, y0 := s.toOriginalF(float64(x-s.pad), 0)
	x1, y1 := s.toOriginalF(float64(x-s.pad+shift), float64(s.hp-1))
	return clipLine(x0, y0, x1-x0, y1-y0, 0, 0, float64(s.origW-1), float64(s.origH-1))
}

// fhtTransform диадическое преобразование: строка shift накопителя содержит суммы
// вдоль прямых из (x, 0) в (x+shift, h-1). h должна быть степенью двойки.
func fhtTransform(src []int64, w, h int) []int64 {
	cur := src
	for sh := 1; sh < h; sh *= 2 {
		next := make([]int64, w*h)
		for top := 0; top < h; top += 2 * sh {
			bot := top + sh
			for s := 0; s < 2*sh; s++ {
				half, off := s>>1, (s+1)>>1
				dst := next[(top+s)*w : (top+s+1)*w]
				a := cur[(top+half)*w : (top+half+1)*w]
				b := cur[(bot+half)*w : (bot+half+1)*w]
				for x := range dst {
					v := a[x]
					if x+off < w {
						v += b[x+off]
					}
					dst[x] = v
				}
			}
		}
		cur = next
	}
	return cur
}

// localPeaks ячейки не меньше всех соседей 3x3 и строго больше хотя бы одного.
func localPeaks(acc []int64, w, h int, minWeight float64, quad int, limit int, out []fhtPeak) []fhtPeak {
	for y := 0; y < h; y++ {
		py, ny := max(y-1, 0), min(y+1, h-1)
		for x := 0; x < w; x++ {
			if len(out) > limit {
				return out
			}
			v := acc[y*w+x]
			if float64(v) < minWeight {
				continue
			}
			greater := 0
			peak := true
			for xx := max(x-1, 0); xx <= min(x+1, w-1) && peak; xx++ {
				for _, yy := range [3]int{py, y, ny} {
					n := acc[yy*w+xx]
					if v < n {
						peak = false
						break
					}
					if v > n {
						greater++
					}
				}
			}
			if peak && greater > 0 {
				out = append(out, fhtPeak{weight: v, quad: quad, shift: y, x: x})
			}
		}
	}
	return out
}

func (h *HoughFast) run(img *image.Gray) []entity.Segment {
	b := img.Bounds()
	minWeight := 255 * fhtWeightRatio * float64(min(b.Dx(), b.Dy()))

	spaces := make([]*fhtSpace, len(fhtQuadrants))
	peaks := make([]fhtPeak, 0)
	for i, q := range fhtQuadrants {
		spaces[i] = newFHTSpace(img, q)
		peaks = localPeaks(spaces[i].acc, spaces[i].wp, spaces[i].hp, minWeight, i, fhtMaxCandidates, peaks)
	}
	sort.SliceStable(peaks, func(i, j int) bool { return peaks[i].weight > peaks[j].weight })
	if len(peaks) > h.maxLines {
		peaks = peaks[:h.maxLines]
	}

	lines := make([]entity.Segment, 0, len(peaks))
	for _, p := range peaks {
		if seg, ok := spaces[p.quad].line(p.shift, p.x); ok {
			lines = append(lines, seg)
		}
	}
	return offsetSegments(lines, b.Min)
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}
