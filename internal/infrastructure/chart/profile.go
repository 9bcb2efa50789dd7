package chart

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"tower-vision/internal/domain/port"
)

// ProfileRecorder сохраняет профиль модуля потока вдоль линии регрессии в PNG.
type ProfileRecorder struct {
	dir string
}

// NewProfileRecorder создаёт каталог для графиков.
func NewProfileRecorder(dir string) (*ProfileRecorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}
	return &ProfileRecorder{dir: dir}, nil
}

// Path путь к графику кадра.
func (r *ProfileRecorder) Path(frame int) string {
	return filepath.Join(r.dir, fmt.Sprintf("profile_%05d.png", frame))
}

// Record строит график: по оси X модуль потока, по оси Y строка кадра.
// Пустой профиль не сохраняется.
func (r *ProfileRecorder) Record(frame int, profile, simplified []image.Point) error {
	if len(profile) == 0 {
		return nil
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Frame %d - flow magnitude along regression line", frame)
	p.X.Label.Text = "Magnitude"
	p.Y.Label.Text = "Row"

	raw, err := plotter.NewLine(toXYs(profile))
	if err != nil {
		return err
	}
	raw.Color = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	raw.Width = vg.Points(1)
	p.Add(raw)
	p.Legend.Add("profile", raw)

	if len(simplified) > 0 {
		simple, err := plotter.NewLine(toXYs(simplified))
		if err != nil {
			return err
		}
		simple.Color = color.RGBA{R: 255, A: 255}
		simple.Width = vg.Points(2)
		p.Add(simple)
		p.Legend.Add("simplified", simple)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(6*vg.Inch, 8*vg.Inch, r.Path(frame)); err != nil {
		return fmt.Errorf("save profile plot: %w", err)
	}
	return nil
}

func toXYs(points []image.Point) plotter.XYs {
	xys := make(plotter.XYs, 0, len(points))
	for _, pt := range points {
		xys = append(xys, plotter.XY{X: float64(pt.X), Y: float64(pt.Y)})
	}
	return xys
}

var _ port.ProfileRecorder = (*ProfileRecorder)(nil)
