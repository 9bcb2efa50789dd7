package vision

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"
	"strings"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"

	"tower-vision/internal/domain/entity"
	"tower-vision/internal/domain/port"
)

// ProcessingList упорядоченная цепочка шагов предобработки.
// Выполнение останавливается на первой ошибке.
type ProcessingList struct {
	steps []port.ImageProcessor
}

// NewProcessingList создаёт цепочку из шагов в заданном порядке.
func NewProcessingList(steps ...port.ImageProcessor) *ProcessingList {
	return &ProcessingList{steps: steps}
}

// DefaultProcessingList цепочка, с которой работает поиск опор: только Canny с автопорогами.
func DefaultProcessingList() *ProcessingList {
	return NewProcessingList(&Canny{})
}

// Имена детекторов границ.
const (
	EdgeCanny     = "CANNY"
	EdgeGoCVCanny = "GOCV_CANNY"
)

// NewEdgeProcessing цепочка предобработки с детектором границ по имени.
func NewEdgeProcessing(name string) (*ProcessingList, error) {
	switch strings.ToUpper(name) {
	case "", EdgeCanny:
		return DefaultProcessingList(), nil
	case EdgeGoCVCanny:
		return NewProcessingList(&GoCVCanny{}), nil
	default:
		return nil, fmt.Errorf("unknown edge detector %q", name)
	}
}

// Add добавляет шаг в конец цепочки.
func (l *ProcessingList) Add(step port.ImageProcessor) {
	l.steps = append(l.steps, step)
}

// Len число шагов.
func (l *ProcessingList) Len() int { return len(l.steps) }

// Name имя цепочки.
func (l *ProcessingList) Name() string { return "ProcessingList" }

// Execute последовательно применяет шаги. Пустая цепочка возвращает копию входа.
func (l *ProcessingList) Execute(img *image.Gray) (*image.Gray, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, entity.ErrEmptyFrame
	}
	out := cloneGray(img)
	for _, step := range l.steps {
		next, err := step.Execute(out)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
		if next == nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), errors.New("no output"))
		}
		out = next
	}
	return out, nil
}

// Grayscale переводит кадр в оттенки серого с весами BT.601.
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return cloneGray(g)
	}
	return toGray(effect.GrayscaleWithWeights(img, 0.299, 0.587, 0.114))
}

// Canny детектор границ. Если оба порога нулевые, пороги берутся как
// среднее минус и плюс стандартное отклонение яркости кадра.
type Canny struct {
	Threshold1 float64
	Threshold2 float64
}

// Name имя шага.
func (c *Canny) Name() string { return "Canny" }

// Execute строит бинарную карту границ (0 или 255).
func (c *Canny) Execute(img *image.Gray) (*image.Gray, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, entity.ErrEmptyFrame
	}
	low, high := cannyThresholds(img, c.Threshold1, c.Threshold2)
	return canny(img, low, high), nil
}

// cannyThresholds пороги гистерезиса: заданные или среднее ± стандартное отклонение яркости.
func cannyThresholds(img *image.Gray, t1, t2 float64) (low, high float64) {
	low, high = t1, t2
	if low == 0 && high == 0 {
		mean, std := grayField(img).MeanStdDev()
		low, high = mean-std, mean+std
	}
	if low > high {
		low, high = high, low
	}
	return low, high
}

func canny(img *image.Gray, low, high float64) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	px := func(x, y int) float64 {
		x = clampInt(x, 0, w-1)
		y = clampInt(y, 0, h-1)
		return float64(img.Pix[y*img.Stride+x])
	}

	// градиент Собеля, модуль в норме L1
	mag := make([]float64, w*h)
	dir := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gx := px(x+1, y-1) + 2*px(x+1, y) + px(x+1, y+1) - px(x-1, y-1) - 2*px(x-1, y) - px(x-1, y+1)
			gy := px(x-1, y+1) + 2*px(x, y+1) + px(x+1, y+1) - px(x-1, y-1) - 2*px(x, y-1) - px(x+1, y-1)
			i := y*w + x
			mag[i] = math.Abs(gx) + math.Abs(gy)
			dir[i] = quantizeDirection(gx, gy)
		}
	}

	// подавление немаксимумов вдоль направления градиента
	offsets := [4][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}}
	nms := make([]float64, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			o := offsets[dir[i]]
			m := mag[i]
			if m > mag[(y+o[1])*w+x+o[0]] && m >= mag[(y-o[1])*w+x-o[0]] {
				nms[i] = m
			}
		}
	}

	// гистерезис: слабые границы остаются, если связаны с сильными
	out := image.NewGray(b)
	stack := make([]int, 0)
	for i, m := range nms {
		if m > high && out.Pix[(i/w)*out.Stride+i%w] == 0 {
			out.Pix[(i/w)*out.Stride+i%w] = 255
			stack = append(stack, i)
		}
		for len(stack) > 0 {
			j := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			cx, cy := j%w, j/w
			for yy := max(cy-1, 0); yy <= min(cy+1, h-1); yy++ {
				for xx := max(cx-1, 0); xx <= min(cx+1, w-1); xx++ {
					k := yy*w + xx
					// немаксимумы не становятся границей даже при отрицательном нижнем пороге
					if nms[k] > 0 && nms[k] > low && out.Pix[yy*out.Stride+xx] == 0 {
						out.Pix[yy*out.Stride+xx] = 255
						stack = append(stack, k)
					}
				}
			}
		}
	}
	return out
}

// quantizeDirection направление градиента: 0 горизонталь, 1 диагональ, 2 вертикаль, 3 антидиагональ.
func quantizeDirection(gx, gy float64) uint8 {
	a := math.Atan2(gy, gx)
	if a < 0 {
		a += math.Pi
	}
	switch {
	case a < math.Pi/8 || a >= 7*math.Pi/8:
		return 0
	case a < 3*math.Pi/8:
		return 1
	case a < 5*math.Pi/8:
		return 2
	default:
		return 3
	}
}

// GaussianBlur размытие по Гауссу.
type GaussianBlur struct {
	Sigma float64
}

// Name имя шага.
func (g *GaussianBlur) Name() string { return "GaussianBlur" }

// Execute размывает кадр.
func (g *GaussianBlur) Execute(img *image.Gray) (*image.Gray, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, entity.ErrEmptyFrame
	}
	if g.Sigma <= 0 {
		return nil, fmt.Errorf("invalid sigma %v", g.Sigma)
	}
	return toGray(imaging.Blur(img, g.Sigma)), nil
}

// Resize изменение размера. Нулевая сторона вычисляется с сохранением пропорций.
type Resize struct {
	Width  int
	Height int
}

// Name имя шага.
func (r *Resize) Name() string { return "Resize" }

// Execute меняет размер кадра.
func (r *Resize) Execute(img *image.Gray) (*image.Gray, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, entity.ErrEmptyFrame
	}
	if r.Width < 0 || r.Height < 0 || (r.Width == 0 && r.Height == 0) {
		return nil, fmt.Errorf("invalid size %dx%d", r.Width, r.Height)
	}
	return toGray(imaging.Resize(img, r.Width, r.Height, imaging.Linear)), nil
}

// Sobel модуль градиента оператором Собеля.
type Sobel struct{}

// Name имя шага.
func (s *Sobel) Name() string { return "Sobel" }

// Execute строит карту модуля градиента.
func (s *Sobel) Execute(img *image.Gray) (*image.Gray, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, entity.ErrEmptyFrame
	}
	return toGray(effect.Sobel(img)), nil
}

// Threshold бинаризация по уровню яркости.
type Threshold struct {
	Level uint8
}

// Name имя шага.
func (t *Threshold) Name() string { return "Threshold" }

// Execute: пиксели не ниже Level становятся белыми, остальные чёрными.
func (t *Threshold) Execute(img *image.Gray) (*image.Gray, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, entity.ErrEmptyFrame
	}
	return segment.Threshold(img, t.Level), nil
}

// Normalize растягивает яркость в диапазон [Low, High].
type Normalize struct {
	Low  uint8
	High uint8
}

// Name имя шага.
func (n *Normalize) Name() string { return "Normalize" }

// Execute линейно растягивает яркость. Постоянный кадр становится равным Low.
func (n *Normalize) Execute(img *image.Gray) (*image.Gray, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, entity.ErrEmptyFrame
	}
	if n.Low > n.High {
		return nil, fmt.Errorf("invalid range [%d, %d]", n.Low, n.High)
	}
	norm := grayField(img).Normalize()
	out := image.NewGray(img.Bounds())
	span := float64(n.High) - float64(n.Low)
	for y := 0; y < norm.Height; y++ {
		for x, v := range norm.Row(y) {
			out.Pix[y*out.Stride+x] = uint8(math.Round(float64(n.Low) + v*span))
		}
	}
	return out, nil
}

// grayField яркость кадра как скалярное поле.
func grayField(img *image.Gray) *entity.Field {
	b := img.Bounds()
	f := entity.NewField(b.Dx(), b.Dy())
	for y := 0; y < f.Height; y++ {
		row := f.Row(y)
		for x := range row {
			row[x] = float64(img.Pix[y*img.Stride+x])
		}
	}
	return f
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), img, b.Min, draw.Src)
	return g
}

func cloneGray(img *image.Gray) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+b.Dx()], img.Pix[y*img.Stride:y*img.Stride+b.Dx()])
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
