package vision

import (
	"image"
	"math"
	"sort"

	"tower-vision/internal/domain/entity"
)

// Hough классическое преобразование Хафа. Диапазон углов ограничивает само
// накопительное пространство, поэтому отдельная фильтрация не нужна.
type Hough struct {
	lineDetector
	threshold int
	rho       float64
	theta     float64
}

// NewHough создаёт детектор с порогом голосов threshold.
func NewHough(threshold int, angles entity.AngleRange) *Hough {
	return &Hough{
		lineDetector: lineDetector{angles: angles},
		threshold:    threshold,
		rho:          1,
		theta:        math.Pi / 180,
	}
}

// Type имя алгоритма.
func (h *Hough) Type() string { return TypeHough }

// Threshold порог голосов.
func (h *Hough) Threshold() int { return h.threshold }

// SetThreshold меняет порог голосов.
func (h *Hough) SetThreshold(threshold int) { h.threshold = threshold }

// Run ищет прямые на бинарном изображении.
func (h *Hough) Run(img *image.Gray) ([]entity.Segment, error) {
	return h.detect(TypeHough, img, h.run)
}

// RunWithAngleRange запускает поиск с временным диапазоном углов.
func (h *Hough) RunWithAngleRange(img *image.Gray, center, tolerance float64) ([]entity.Segment, error) {
	return h.withAngleRange(center, tolerance, func() ([]entity.Segment, error) {
		return h.Run(img)
	})
}

type houghPeak struct {
	votes int
	n, r  int
}

func (h *Hough) run(img *image.Gray) ([]entity.Segment, error) {
	b := img.Bounds()
	w, ht := b.Dx(), b.Dy()

	// нормаль прямой θ = -угол направления к вертикали
	minTheta, maxTheta := -h.angles.Max, -h.angles.Min
	if h.angles.Max-h.angles.Min >= math.Pi {
		minTheta, maxTheta = 0, math.Pi-h.theta
	}
	numAngle := int(math.Floor((maxTheta-minTheta)/h.theta)) + 1
	if numAngle < 1 {
		return nil, nil
	}
	numRho := int(math.Round(float64((w+ht)*2+1) / h.rho))
	rhoOff := (numRho - 1) / 2

	sinT := make([]float64, numAngle)
	cosT := make([]float64, numAngle)
	for n := range numAngle {
		a := minTheta + float64(n)*h.theta
		sinT[n], cosT[n] = math.Sin(a)/h.rho, math.Cos(a)/h.rho
	}

	// накопитель с рамкой в одну ячейку для проверки соседей
	stride := numRho + 2
	acc := make([]int, (numAngle+2)*stride)
	for _, p := range grayPoints(img) {
		for n := range numAngle {
			r := roundInt(float64(p.X)*cosT[n]+float64(p.Y)*sinT[n]) + rhoOff
			if r < 0 || r >= numRho {
				continue
			}
			acc[(n+1)*stride+r+1]++
		}
	}

	peaks := make([]houghPeak, 0)
	for n := range numAngle {
		for r := range numRho {
			i := (n+1)*stride + r + 1
			v := acc[i]
			if v > h.threshold &&
				v > acc[i-1] && v >= acc[i+1] &&
				v > acc[i-stride] && v >= acc[i+stride] {
				peaks = append(peaks, houghPeak{votes: v, n: n, r: r})
			}
		}
	}
	sort.SliceStable(peaks, func(i, j int) bool { return peaks[i].votes > peaks[j].votes })

	// прямые обрезаются окном чуть больше кадра
	padX, padY := 0.05*float64(w), 0.05*float64(ht)
	lines := make([]entity.Segment, 0, len(peaks))
	for _, p := range peaks {
		rho := float64(p.r-rhoOff) * h.rho
		a := minTheta + float64(p.n)*h.theta
		c, s := math.Cos(a), math.Sin(a)
		seg, ok := clipLine(rho*c, rho*s, -s, c, -padX, -padY, float64(w)+padX, float64(ht)+padY)
		if ok {
			lines = append(lines, seg)
		}
	}
	return offsetSegments(lines, b.Min), nil
}
