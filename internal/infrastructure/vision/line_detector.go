package vision

import (
	"fmt"
	"image"
	"math"
	"slices"
	"strings"

	"tower-vision/internal/domain/entity"
	"tower-vision/internal/domain/port"
)

// Имена алгоритмов детектора линий.
const (
	TypeHough      = "HOUGH"
	TypeHoughP     = "HOUGHP"
	TypeHoughFast  = "HOUGH_FAST"
	TypeLSD        = "LSD"
	TypeGoCVHough  = "GOCV_HOUGH"
	TypeGoCVHoughP = "GOCV_HOUGHP"
)

// DetectorConfig параметры для создания детектора по имени.
type DetectorConfig struct {
	Type           string
	AngleCenter    float64
	AngleTolerance float64
	HoughThreshold int
	PThreshold     int
	MinLineLength  float64
	MaxLineGap     float64
	Seed           int64 // зерно порядка обхода точек HOUGHP; 0 оставляет значение по умолчанию
}

// DefaultDetectorConfig значения, с которыми запускается поиск опор.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		Type:           TypeHoughP,
		AngleCenter:    0,
		AngleTolerance: 0.3,
		HoughThreshold: 150,
		PThreshold:     100,
		MinLineLength:  60,
		MaxLineGap:     30,
	}
}

// NewLineDetector создаёт детектор линий по имени алгоритма.
func NewLineDetector(cfg DetectorConfig) (port.LineDetector, error) {
	angles := entity.NewAngleRange(cfg.AngleCenter, cfg.AngleTolerance)
	switch strings.ToUpper(cfg.Type) {
	case TypeHough:
		return NewHough(cfg.HoughThreshold, angles), nil
	case TypeHoughP:
		h := NewHoughP(cfg.PThreshold, angles, cfg.MinLineLength, cfg.MaxLineGap)
		if cfg.Seed != 0 {
			h.SetSeed(cfg.Seed)
		}
		return h, nil
	case TypeHoughFast:
		return NewHoughFast(angles), nil
	case TypeLSD:
		return NewLSD(angles), nil
	case TypeGoCVHough:
		return NewGoCVHough(cfg.HoughThreshold, angles), nil
	case TypeGoCVHoughP:
		return NewGoCVHoughP(cfg.PThreshold, angles, cfg.MinLineLength, cfg.MaxLineGap), nil
	default:
		return nil, fmt.Errorf("unknown line detector %q", cfg.Type)
	}
}

// lineDetector общая часть детекторов: диапазон углов и результат последнего запуска.
type lineDetector struct {
	angles entity.AngleRange
	lines  []entity.Segment
}

// SetAngleRange задаёт диапазон углов центром и допуском.
func (d *lineDetector) SetAngleRange(center, tolerance float64) {
	d.angles = entity.NewAngleRange(center, tolerance)
}

// AngleRange текущий диапазон углов.
func (d *lineDetector) AngleRange() entity.AngleRange { return d.angles }

// Lines отрезки последнего запуска.
func (d *lineDetector) Lines() []entity.Segment { return d.lines }

// filter оставляет отрезки, угол которых попадает в диапазон (по модулю π).
func (d *lineDetector) filter(candidates []entity.Segment) []entity.Segment {
	out := make([]entity.Segment, 0, len(candidates))
	for _, s := range candidates {
		if d.angles.AcceptsSegment(s) {
			out = append(out, s)
		}
	}
	return out
}

// withAngleRange подменяет диапазон углов на время run и восстанавливает его при любом выходе.
func (d *lineDetector) withAngleRange(center, tolerance float64, run func() ([]entity.Segment, error)) ([]entity.Segment, error) {
	saved := d.angles
	d.angles = entity.NewAngleRange(center, tolerance)
	defer func() { d.angles = saved }()
	return run()
}

// detect запускает алгоритм, превращая панику в ошибку; результат сохраняется в lines.
func (d *lineDetector) detect(name string, img *image.Gray, run func(*image.Gray) ([]entity.Segment, error)) (lines []entity.Segment, err error) {
	d.lines = nil
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%s: %w", name, entity.ErrEmptyFrame)
	}
	defer func() {
		if r := recover(); r != nil {
			lines, err = nil, fmt.Errorf("%s: %v", name, r)
		}
		if err == nil {
			d.lines = slices.Clone(lines)
		}
	}()
	return run(img)
}

// grayPoints координаты ненулевых пикселей относительно начала изображения.
func grayPoints(img *image.Gray) []image.Point {
	b := img.Bounds()
	pts := make([]image.Point, 0)
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()]
		for x, v := range row {
			if v != 0 {
				pts = append(pts, image.Pt(x, y))
			}
		}
	}
	return pts
}

// clipLine обрезает бесконечную прямую p0 + t*d прямоугольником (Лян-Барски).
func clipLine(x0, y0, dx, dy, xmin, ymin, xmax, ymax float64) (entity.Segment, bool) {
	t0, t1 := math.Inf(-1), math.Inf(1)
	edges := [4][2]float64{
		{-dx, x0 - xmin},
		{dx, xmax - x0},
		{-dy, y0 - ymin},
		{dy, ymax - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return entity.Segment{}, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			t0 = math.Max(t0, r)
		} else {
			t1 = math.Min(t1, r)
		}
	}
	if t0 > t1 || math.IsInf(t0, 0) || math.IsInf(t1, 0) {
		return entity.Segment{}, false
	}
	return entity.NewSegment(
		roundInt(x0+t0*dx), roundInt(y0+t0*dy),
		roundInt(x0+t1*dx), roundInt(y0+t1*dy),
	), true
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

func offsetSegments(lines []entity.Segment, off image.Point) []entity.Segment {
	if off == (image.Point{}) {
		return lines
	}
	for i := range lines {
		lines[i].Pt1 = lines[i].Pt1.Add(off)
		lines[i].Pt2 = lines[i].Pt2.Add(off)
	}
	return lines
}
