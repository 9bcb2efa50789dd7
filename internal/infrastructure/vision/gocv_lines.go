//go:build gocv
// +build gocv

package vision

import (
	"image"
	"math"

	"gocv.io/x/gocv"

	"tower-vision/internal/domain/entity"
)

// GoCVHough классическое преобразование Хафа средствами OpenCV.
type GoCVHough struct {
	lineDetector
	threshold int
}

// NewGoCVHough создаёт детектор.
func NewGoCVHough(threshold int, angles entity.AngleRange) *GoCVHough {
	return &GoCVHough{lineDetector: lineDetector{angles: angles}, threshold: threshold}
}

// Type имя алгоритма.
func (h *GoCVHough) Type() string { return TypeGoCVHough }

// Run ищет прямые и отбрасывает те, что не попали в диапазон углов.
func (h *GoCVHough) Run(img *image.Gray) ([]entity.Segment, error) {
	return h.detect(TypeGoCVHough, img, func(img *image.Gray) ([]entity.Segment, error) {
		src, err := gocv.ImageGrayToMatGray(img)
		if err != nil {
			return nil, err
		}
		defer src.Close()

		lines := gocv.NewMat()
		defer lines.Close()
		gocv.HoughLines(src, &lines, 1, math.Pi/180, h.threshold)

		b := img.Bounds()
		w, ht := float64(b.Dx()), float64(b.Dy())
		out := make([]entity.Segment, 0, lines.Rows())
		for i := 0; i < lines.Rows(); i++ {
			v := lines.GetVecfAt(i, 0)
			rho, theta := float64(v[0]), float64(v[1])
			c, s := math.Cos(theta), math.Sin(theta)
			seg, ok := clipLine(rho*c, rho*s, -s, c, -0.05*w, -0.05*ht, 1.05*w, 1.05*ht)
			if ok {
				out = append(out, seg)
			}
		}
		return offsetSegments(h.filter(out), b.Min), nil
	})
}

// RunWithAngleRange запускает поиск с временным диапазоном углов.
func (h *GoCVHough) RunWithAngleRange(img *image.Gray, center, tolerance float64) ([]entity.Segment, error) {
	return h.withAngleRange(center, tolerance, func() ([]entity.Segment, error) {
		return h.Run(img)
	})
}

// GoCVHoughP вероятностное преобразование Хафа средствами OpenCV.
type GoCVHoughP struct {
	lineDetector
	threshold     int
	minLineLength float64
	maxLineGap    float64
}

// NewGoCVHoughP создаёт детектор.
func NewGoCVHoughP(threshold int, angles entity.AngleRange, minLineLength, maxLineGap float64) *GoCVHoughP {
	return &GoCVHoughP{
		lineDetector:  lineDetector{angles: angles},
		threshold:     threshold,
		minLineLength: minLineLength,
		maxLineGap:    maxLineGap,
	}
}

// Type имя алгоритма.
func (h *GoCVHoughP) Type() string { return TypeGoCVHoughP }

// Run ищет отрезки и отбрасывает те, что не попали в диапазон углов.
func (h *GoCVHoughP) Run(img *image.Gray) ([]entity.Segment, error) {
	return h.detect(TypeGoCVHoughP, img, func(img *image.Gray) ([]entity.Segment, error) {
		src, err := gocv.ImageGrayToMatGray(img)
		if err != nil {
			return nil, err
		}
		defer src.Close()

		lines := gocv.NewMat()
		defer lines.Close()
		gocv.HoughLinesPWithParams(src, &lines, 1, math.Pi/180, h.threshold,
			float32(h.minLineLength), float32(h.maxLineGap))

		out := make([]entity.Segment, 0, lines.Rows())
		for i := 0; i < lines.Rows(); i++ {
			v := lines.GetVeciAt(i, 0)
			out = append(out, entity.NewSegment(int(v[0]), int(v[1]), int(v[2]), int(v[3])))
		}
		return offsetSegments(h.filter(out), img.Bounds().Min), nil
	})
}

// RunWithAngleRange запускает поиск с временным диапазоном углов.
func (h *GoCVHoughP) RunWithAngleRange(img *image.Gray, center, tolerance float64) ([]entity.Segment, error) {
	return h.withAngleRange(center, tolerance, func() ([]entity.Segment, error) {
		return h.Run(img)
	})
}
