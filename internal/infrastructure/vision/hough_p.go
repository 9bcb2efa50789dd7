package vision

import (
	"image"
	"math"
	"math/rand"

	"tower-vision/internal/domain/entity"
)

// HoughP прогрессивное вероятностное преобразование Хафа. Находит отрезки,
// затем отбрасывает те, чей угол не попал в диапазон.
type HoughP struct {
	lineDetector
	threshold     int
	minLineLength float64
	maxLineGap    float64
	seed          int64
}

// NewHoughP создаёт детектор отрезков.
func NewHoughP(threshold int, angles entity.AngleRange, minLineLength, maxLineGap float64) *HoughP {
	return &HoughP{
		lineDetector:  lineDetector{angles: angles},
		threshold:     threshold,
		minLineLength: minLineLength,
		maxLineGap:    maxLineGap,
		seed:          1,
	}
}

// Type имя алгоритма.
func (h *HoughP) Type() string { return TypeHoughP }

// Threshold порог голосов.
func (h *HoughP) Threshold() int { return h.threshold }

// SetThreshold меняет порог голосов.
func (h *HoughP) SetThreshold(threshold int) { h.threshold = threshold }

// MinLineLength минимальная длина отрезка.
func (h *HoughP) MinLineLength() float64 { return h.minLineLength }

// SetMinLineLength меняет минимальную длину отрезка.
func (h *HoughP) SetMinLineLength(v float64) { h.minLineLength = v }

// MaxLineGap максимальный разрыв внутри отрезка.
func (h *HoughP) MaxLineGap() float64 { return h.maxLineGap }

// SetMaxLineGap меняет максимальный разрыв.
func (h *HoughP) SetMaxLineGap(v float64) { h.maxLineGap = v }

// SetSeed задаёт зерно порядка обхода точек. Одинаковое зерно даёт одинаковый результат.
func (h *HoughP) SetSeed(seed int64) { h.seed = seed }

// Run ищет отрезки на бинарном изображении.
func (h *HoughP) Run(img *image.Gray) ([]entity.Segment, error) {
	return h.detect(TypeHoughP, img, func(img *image.Gray) ([]entity.Segment, error) {
		return h.filter(h.run(img)), nil
	})
}

// RunWithAngleRange запускает поиск с временным диапазоном углов.
func (h *HoughP) RunWithAngleRange(img *image.Gray, center, tolerance float64) ([]entity.Segment, error) {
	return h.withAngleRange(center, tolerance, func() ([]entity.Segment, error) {
		return h.Run(img)
	})
}

const houghPAngles = 180

func (h *HoughP) run(img *image.Gray) []entity.Segment {
	b := img.Bounds()
	w, ht := b.Dx(), b.Dy()
	numRho := (w+ht)*2 + 1
	rhoOff := (numRho - 1) / 2

	sinT := make([]float64, houghPAngles)
	cosT := make([]float64, houghPAngles)
	for n := range houghPAngles {
		a := float64(n) * math.Pi / houghPAngles
		sinT[n], cosT[n] = math.Sin(a), math.Cos(a)
	}

	points := grayPoints(img)
	mask := make([]bool, w*ht)
	voted := make([]bool, w*ht)
	for _, p := range points {
		mask[p.Y*w+p.X] = true
	}
	rng := rand.New(rand.NewSource(h.seed))
	rng.Shuffle(len(points), func(i, j int) { points[i], points[j] = points[j], points[i] })

	acc := make([]int, houghPAngles*numRho)
	vote := func(p image.Point, delta int) {
		for n := range houghPAngles {
			r := roundInt(float64(p.X)*cosT[n]+float64(p.Y)*sinT[n]) + rhoOff
			acc[n*numRho+r] += delta
		}
	}

	lines := make([]entity.Segment, 0)
	for _, p := range points {
		if !mask[p.Y*w+p.X] {
			continue
		}

		vote(p, 1)
		voted[p.Y*w+p.X] = true
		maxVal, maxN := h.threshold-1, -1
		for n := range houghPAngles {
			r := roundInt(float64(p.X)*cosT[n]+float64(p.Y)*sinT[n]) + rhoOff
			if v := acc[n*numRho+r]; v > maxVal {
				maxVal, maxN = v, n
			}
		}
		if maxN < 0 {
			continue
		}

		// направление прямой, шаг по главной оси равен одному пикселю
		dx, dy := -sinT[maxN], cosT[maxN]
		scale := math.Max(math.Abs(dx), math.Abs(dy))
		dx, dy = dx/scale, dy/scale

		var ends [2]image.Point
		for k, sign := range [2]float64{1, -1} {
			ends[k] = p
			gap := 0
			for i := 1; ; i++ {
				q := image.Pt(
					roundInt(float64(p.X)+sign*float64(i)*dx),
					roundInt(float64(p.Y)+sign*float64(i)*dy),
				)
				if q.X < 0 || q.X >= w || q.Y < 0 || q.Y >= ht {
					break
				}
				if mask[q.Y*w+q.X] {
					gap = 0
					ends[k] = q
				} else {
					gap++
					if float64(gap) > h.maxLineGap {
						break
					}
				}
			}
		}

		good := math.Abs(float64(ends[1].X-ends[0].X)) >= h.minLineLength ||
			math.Abs(float64(ends[1].Y-ends[0].Y)) >= h.minLineLength

		// точки найденного отрезка исключаются из дальнейшего поиска
		for k, sign := range [2]float64{1, -1} {
			for i := 0; ; i++ {
				q := image.Pt(
					roundInt(float64(p.X)+sign*float64(i)*dx),
					roundInt(float64(p.Y)+sign*float64(i)*dy),
				)
				if q.X < 0 || q.X >= w || q.Y < 0 || q.Y >= ht {
					break
				}
				idx := q.Y*w + q.X
				if mask[idx] {
					if good && voted[idx] {
						vote(q, -1)
						voted[idx] = false
					}
					mask[idx] = false
				}
				if q == ends[k] {
					break
				}
			}
		}

		if good {
			lines = append(lines, entity.Segment{Pt1: ends[1], Pt2: ends[0]})
		}
	}
	return offsetSegments(lines, b.Min)
}
