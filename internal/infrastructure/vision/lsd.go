package vision

import (
	"image"
	"math"
	"sort"

	"gonum.org/v1/gonum/mathext"

	"tower-vision/internal/domain/entity"
)

// Параметры детектора отрезков по выравниванию градиента.
const (
	lsdQuant    = 2.0                  // ошибка квантования яркости
	lsdAngleTol = 22.5 * math.Pi / 180 // допуск выравнивания линии уровня
	lsdLogEps   = 0.0                  // порог log10(NFA)
)

// LSD детектор отрезков: пиксели с согласованным направлением линии уровня
// собираются в области, область аппроксимируется прямоугольником и
// проверяется по числу ложных срабатываний.
type LSD struct {
	lineDetector
	angleTol float64
	logEps   float64
}

// NewLSD создаёт детектор.
func NewLSD(angles entity.AngleRange) *LSD {
	return &LSD{
		lineDetector: lineDetector{angles: angles},
		angleTol:     lsdAngleTol,
		logEps:       lsdLogEps,
	}
}

// Type имя алгоритма.
func (d *LSD) Type() string { return TypeLSD }

// Run ищет отрезки на изображении.
func (d *LSD) Run(img *image.Gray) ([]entity.Segment, error) {
	return d.detect(TypeLSD, img, func(img *image.Gray) ([]entity.Segment, error) {
		return d.filter(d.run(img)), nil
	})
}

// RunWithAngleRange запускает поиск с временным диапазоном углов.
func (d *LSD) RunWithAngleRange(img *image.Gray, center, tolerance float64) ([]entity.Segment, error) {
	return d.withAngleRange(center, tolerance, func() ([]entity.Segment, error) {
		return d.Run(img)
	})
}

const lsdNotDef = -1024.0

type lsdGradient struct {
	w, h  int
	angle []float64
	mag   []float64
}

// newLSDGradient градиент по маске 2x2; последние строка и столбец не определены.
func newLSDGradient(img *image.Gray) *lsdGradient {
	b := img.Bounds()
	g := &lsdGradient{w: b.Dx(), h: b.Dy()}
	g.angle = make([]float64, g.w*g.h)
	g.mag = make([]float64, g.w*g.h)
	threshold := lsdQuant / math.Sin(lsdAngleTol)

	px := func(x, y int) float64 { return float64(img.Pix[y*img.Stride+x]) }
	for i := range g.angle {
		g.angle[i] = lsdNotDef
	}
	for y := 0; y < g.h-1; y++ {
		for x := 0; x < g.w-1; x++ {
			com1 := px(x+1, y+1) - px(x, y)
			com2 := px(x+1, y) - px(x, y+1)
			gx, gy := com1+com2, com1-com2
			m := math.Sqrt((gx*gx + gy*gy) / 4)
			i := y*g.w + x
			g.mag[i] = m
			if m > threshold {
				g.angle[i] = math.Atan2(gx, -gy)
			}
		}
	}
	return g
}

func (g *lsdGradient) aligned(i int, theta, prec float64) bool {
	a := g.angle[i]
	if a == lsdNotDef {
		return false
	}
	return angleDiff(a, theta) <= prec
}

// angleDiff модуль разности углов в [0, π].
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}

type lsdRect struct {
	x1, y1, x2, y2 float64
	cx, cy         float64
	theta          float64
	dx, dy         float64
	lmin, lmax     float64
	wmin, wmax     float64
}

func (d *LSD) run(img *image.Gray) []entity.Segment {
	g := newLSDGradient(img)
	w, h := g.w, g.h
	prec := d.angleTol
	p := prec / math.Pi
	logNT := 5*(math.Log10(float64(w))+math.Log10(float64(h)))/2 + math.Log10(11)
	minRegion := int(-logNT / math.Log10(p))

	order := make([]int, 0, w*h)
	for i, a := range g.angle {
		if a != lsdNotDef {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return g.mag[order[i]] > g.mag[order[j]] })

	used := make([]bool, w*h)
	lines := make([]entity.Segment, 0)
	for _, seed := range order {
		if used[seed] {
			continue
		}
		region, theta := d.growRegion(g, used, seed, prec)
		if len(region) < minRegion {
			continue
		}
		rect := regionRect(g, region, theta, prec)
		if d.logNFA(g, rect, prec, p, logNT) > d.logEps {
			continue
		}
		lines = append(lines, entity.NewSegment(
			roundInt(rect.x1+0.5), roundInt(rect.y1+0.5),
			roundInt(rect.x2+0.5), roundInt(rect.y2+0.5),
		))
	}
	return offsetSegments(lines, img.Bounds().Min)
}

// growRegion собирает 8-связную область пикселей, выровненных с её средним направлением.
func (d *LSD) growRegion(g *lsdGradient, used []bool, seed int, prec float64) ([]int, float64) {
	region := []int{seed}
	used[seed] = true
	theta := g.angle[seed]
	sumX, sumY := math.Cos(theta), math.Sin(theta)

	for i := 0; i < len(region); i++ {
		cx, cy := region[i]%g.w, region[i]/g.w
		for yy := cy - 1; yy <= cy+1; yy++ {
			for xx := cx - 1; xx <= cx+1; xx++ {
				if xx < 0 || yy < 0 || xx >= g.w || yy >= g.h {
					continue
				}
				n := yy*g.w + xx
				if used[n] || !g.aligned(n, theta, prec) {
					continue
				}
				used[n] = true
				region = append(region, n)
				sumX += math.Cos(g.angle[n])
				sumY += math.Sin(g.angle[n])
				theta = math.Atan2(sumY, sumX)
			}
		}
	}
	return region, theta
}

// regionRect прямоугольник по моментам инерции области, взвешенным модулем градиента.
func regionRect(g *lsdGradient, region []int, regionAngle, prec float64) lsdRect {
	var sum, cx, cy float64
	for _, i := range region {
		m := g.mag[i]
		cx += float64(i%g.w) * m
		cy += float64(i/g.w) * m
		sum += m
	}
	cx /= sum
	cy /= sum

	var ixx, iyy, ixy float64
	for _, i := range region {
		m := g.mag[i]
		x, y := float64(i%g.w)-cx, float64(i/g.w)-cy
		ixx += m * y * y
		iyy += m * x * x
		ixy -= m * x * y
	}
	lambda := 0.5 * (ixx + iyy - math.Sqrt((ixx-iyy)*(ixx-iyy)+4*ixy*ixy))
	var theta float64
	if math.Abs(ixx) > math.Abs(iyy) {
		theta = math.Atan2(lambda-ixx, ixy)
	} else {
		theta = math.Atan2(ixy, lambda-iyy)
	}
	if angleDiff(theta, regionAngle) > prec {
		theta += math.Pi
	}

	r := lsdRect{cx: cx, cy: cy, theta: theta, dx: math.Cos(theta), dy: math.Sin(theta)}
	for _, i := range region {
		x, y := float64(i%g.w)-cx, float64(i/g.w)-cy
		l := x*r.dx + y*r.dy
		wv := -x*r.dy + y*r.dx
		r.lmin, r.lmax = math.Min(r.lmin, l), math.Max(r.lmax, l)
		r.wmin, r.wmax = math.Min(r.wmin, wv), math.Max(r.wmax, wv)
	}
	r.x1, r.y1 = cx+r.lmin*r.dx, cy+r.lmin*r.dy
	r.x2, r.y2 = cx+r.lmax*r.dx, cy+r.lmax*r.dy
	if r.wmax-r.wmin < 1 {
		r.wmin, r.wmax = -0.5, 0.5
	}
	return r
}

// logNFA десятичный логарифм ожидаемого числа ложных срабатываний для прямоугольника.
func (d *LSD) logNFA(g *lsdGradient, r lsdRect, prec, p, logNT float64) float64 {
	minX := int(math.Floor(math.Min(r.x1, r.x2) - math.Max(-r.wmin, r.wmax)))
	maxX := int(math.Ceil(math.Max(r.x1, r.x2) + math.Max(-r.wmin, r.wmax)))
	minY := int(math.Floor(math.Min(r.y1, r.y2) - math.Max(-r.wmin, r.wmax)))
	maxY := int(math.Ceil(math.Max(r.y1, r.y2) + math.Max(-r.wmin, r.wmax)))

	n, k := 0, 0
	for y := max(minY, 0); y <= min(maxY, g.h-1); y++ {
		for x := max(minX, 0); x <= min(maxX, g.w-1); x++ {
			fx, fy := float64(x)-r.cx, float64(y)-r.cy
			l := fx*r.dx + fy*r.dy
			wv := -fx*r.dy + fy*r.dx
			if l < r.lmin || l > r.lmax || wv < r.wmin || wv > r.wmax {
				continue
			}
			n++
			if g.aligned(y*g.w+x, r.theta, prec) {
				k++
			}
		}
	}
	if n == 0 || k == 0 {
		return math.Inf(1)
	}
	// P(X >= k) для биномиального распределения через регуляризованную бета-функцию
	tail := mathext.RegIncBeta(float64(k), float64(n-k+1), p)
	if tail <= 0 {
		return math.Inf(-1)
	}
	return logNT + math.Log10(tail)
}
