package vision

import (
	"image"
	"image/color"
	"image/draw"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"tower-vision/internal/domain/entity"
)

// Цвета разметки.
var (
	ColorTower      = color.RGBA{R: 255, A: 255}
	ColorRegression = color.RGBA{G: 255, A: 255}
)

// ToRGBA копия кадра для рисования с началом координат в (0, 0).
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// DrawLine рисует отрезок алгоритмом Брезенхэма. Точки вне кадра пропускаются.
func DrawLine(img *image.RGBA, s entity.Segment, c color.Color) {
	x0, y0, x1, y1 := s.Pt1.X, s.Pt1.Y, s.Pt2.X, s.Pt2.Y
	dx, dy := absInt(x1-x0), -absInt(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	b := img.Bounds()
	e := dx + dy
	for {
		if image.Pt(x0, y0).In(b) {
			img.Set(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// DrawRect рисует контур окна толщиной thickness пикселей внутрь.
func DrawRect(img *image.RGBA, w entity.Window, c color.Color, thickness int) {
	if w.Rect().Intersect(img.Bounds()).Empty() {
		return
	}
	for i := 0; i < max(thickness, 1); i++ {
		if w.Pt2.X-w.Pt1.X < 2*i || w.Pt2.Y-w.Pt1.Y < 2*i {
			return
		}
		r := w.Expand(-i, -i)
		DrawLine(img, entity.Segment{Pt1: r.Pt1, Pt2: image.Pt(r.Pt2.X, r.Pt1.Y)}, c)
		DrawLine(img, entity.Segment{Pt1: image.Pt(r.Pt2.X, r.Pt1.Y), Pt2: r.Pt2}, c)
		DrawLine(img, entity.Segment{Pt1: r.Pt2, Pt2: image.Pt(r.Pt1.X, r.Pt2.Y)}, c)
		DrawLine(img, entity.Segment{Pt1: image.Pt(r.Pt1.X, r.Pt2.Y), Pt2: r.Pt1}, c)
	}
}

// DrawPoint закрашивает квадрат радиуса r вокруг точки.
func DrawPoint(img *image.RGBA, p image.Point, c color.Color, r int) {
	area := image.Rect(p.X-r, p.Y-r, p.X+r+1, p.Y+r+1).Intersect(img.Bounds())
	if area.Empty() {
		return
	}
	draw.Draw(img, area, image.NewUniform(c), image.Point{}, draw.Src)
}

// DrawLabel пишет текст, базовая линия начинается в точке p.
func DrawLabel(img *image.RGBA, p image.Point, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(p.X), Y: fixed.I(p.Y)},
	}
	d.DrawString(text)
}

// Palette генератор случайных насыщенных цветов. При одинаковом зерне
// последовательность цветов повторяется.
type Palette struct {
	rng *rand.Rand
}

// NewPalette создаёт генератор с зерном seed.
func NewPalette(seed int64) *Palette {
	return &Palette{rng: rand.New(rand.NewSource(seed))}
}

// Next следующий цвет.
func (p *Palette) Next() color.RGBA {
	c := colorful.Hsv(p.rng.Float64()*360, 0.6+0.4*p.rng.Float64(), 0.7+0.3*p.rng.Float64())
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
