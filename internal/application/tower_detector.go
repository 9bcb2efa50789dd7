package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"tower-vision/internal/domain/entity"
	"tower-vision/internal/domain/port"
	"tower-vision/internal/infrastructure/vision"
	"tower-vision/internal/monitoring"
)

// Gates пороги проверки кандидата и группировки линий.
type Gates struct {
	MinLocalMean      float64 // нижняя граница среднего в окне кандидата
	MinLocalStdDev    float64 // нижняя граница разброса в окне кандидата
	StrictMean        bool    // дополнительно требовать mean+std всего кадра < среднего в окне
	MaximaPerRow      int     // сколько максимумов брать из строки окна
	MinMaxima         int     // максимумов должно быть строго больше
	MaxAngle          float64 // допустимый наклон линии регрессии к вертикали, рад
	MaxTopDistance    int     // расстояние от верха окна до пика потока, пикс
	GroupDistance     float64 // радиус группировки линий
	MinGroupSize      int     // минимальный размер группы
	SimplifyTolerance float64 // допуск упрощения профиля
}

// DefaultGates пороги, подобранные для съёмки опор ЛЭП с воздуха.
func DefaultGates() Gates {
	return Gates{
		MinLocalMean:      0.5,
		MinLocalStdDev:    0.1,
		MaximaPerRow:      5,
		MinMaxima:         200,
		MaxAngle:          0.2,
		MaxTopDistance:    200,
		GroupDistance:     10,
		MinGroupSize:      5,
		SimplifyTolerance: 3,
	}
}

// verdict итог проверки кандидата: принят или на каком шаге отклонён.
type verdict int

const (
	verdictTower verdict = iota
	verdictEmptyWindow
	verdictStatistics
	verdictMaxima
	verdictRegression
	verdictAngle
	verdictProfile
	verdictTopDistance
)

func (v verdict) String() string {
	switch v {
	case verdictTower:
		return "tower"
	case verdictEmptyWindow:
		return "empty window"
	case verdictStatistics:
		return "statistics"
	case verdictMaxima:
		return "maxima"
	case verdictRegression:
		return "regression"
	case verdictAngle:
		return "angle"
	case verdictProfile:
		return "profile"
	case verdictTopDistance:
		return "top distance"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

// flowStats модуль потока пары кадров и его статистика, считается один раз на пару.
type flowStats struct {
	raw  *entity.Field
	norm *entity.Field
	mean float64
	std  float64
}

// TowerDetector ищет опору ЛЭП по паре соседних кадров: группы линий,
// совпадающие в обоих кадрах, проверяются по оптическому потоку.
type TowerDetector struct {
	lines      port.LineDetector
	processing port.ImageProcessor
	flow       port.OpticalFlow
	gates      Gates
	palette    *vision.Palette
	profiles   port.ProfileRecorder

	DrawRegressionLine bool // рисовать максимумы и линию регрессии
	DrawLines          bool // рисовать линии групп первого кадра
}

// NewTowerDetector создаёт детектор. processing может быть nil, тогда кадр не обрабатывается.
func NewTowerDetector(lines port.LineDetector, processing port.ImageProcessor, flow port.OpticalFlow) *TowerDetector {
	return &TowerDetector{
		lines:      lines,
		processing: processing,
		flow:       flow,
		gates:      DefaultGates(),
		palette:    vision.NewPalette(1),
	}
}

// Gates текущие пороги.
func (d *TowerDetector) Gates() Gates { return d.gates }

// SetGates заменяет пороги.
func (d *TowerDetector) SetGates(g Gates) { d.gates = g }

// SetColorSeed задаёт зерно случайных цветов разметки.
func (d *TowerDetector) SetColorSeed(seed int64) { d.palette = vision.NewPalette(seed) }

// SetProfileRecorder подключает запись профилей потока.
func (d *TowerDetector) SetProfileRecorder(r port.ProfileRecorder) { d.profiles = r }

// LineDetector используемый детектор линий.
func (d *TowerDetector) LineDetector() port.LineDetector { return d.lines }

// Preprocessing цепочка предобработки кадра, может быть nil.
func (d *TowerDetector) Preprocessing() port.ImageProcessor { return d.processing }

// Run анализирует пару кадров. Ошибка возвращается только для некорректного входа
// (пустые кадры, разный размер); сбои алгоритмов дают результат без опоры.
func (d *TowerDetector) Run(ctx context.Context, pair entity.FramePair) (*entity.TowerResult, error) {
	if pair.First == nil || pair.Second == nil || pair.First.Bounds().Empty() || pair.Second.Bounds().Empty() {
		return nil, entity.ErrEmptyFrame
	}
	if pair.First.Bounds().Size() != pair.Second.Bounds().Size() {
		return nil, fmt.Errorf("frame %d: %v vs %v: %w",
			pair.Index, pair.First.Bounds().Size(), pair.Second.Bounds().Size(), entity.ErrFrameSizeMismatch)
	}

	res := &entity.TowerResult{Annotated: vision.ToRGBA(pair.First)}
	gray1 := vision.Grayscale(pair.First)
	gray2 := vision.Grayscale(pair.Second)

	groups1, err := d.detectGroupLines(gray1)
	if err != nil {
		monitoring.Errorf("frame %d: %v", pair.Index, err)
		return res, nil
	}
	groups2, err := d.detectGroupLines(gray2)
	if err != nil {
		monitoring.Errorf("frame %d: %v", pair.Index+1, err)
		return res, nil
	}
	res.Groups1, res.Groups2 = len(groups1), len(groups2)
	monitoring.Debugf("frame %d: groups %d / %d", pair.Index, len(groups1), len(groups2))

	if d.DrawLines {
		for _, g := range groups1 {
			c := d.palette.Next()
			for _, s := range g.Segments() {
				vision.DrawLine(res.Annotated, s, c)
			}
		}
	}
	if len(groups1) == 0 || len(groups2) == 0 {
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats, err := d.flowStats(gray1, gray2)
	if err != nil {
		if errors.Is(err, entity.ErrFrameSizeMismatch) {
			return nil, err
		}
		monitoring.Errorf("frame %d: optical flow: %v", pair.Index, err)
		return res, nil
	}

	for _, g1 := range groups1 {
		center := g1.Bbox().Center()
		for _, g2 := range groups2 {
			if !g2.Bbox().Contains(center) {
				continue
			}
			v := d.isTower(pair.Index, res.Annotated, g1, stats)
			if v == verdictTower {
				monitoring.Infof("tower detected: frame %d %s", pair.Index, g1.Bbox())
				res.Found = true
				res.Window = g1.Bbox()
				annotateTower(res.Annotated, res.Window)
				return res, nil
			}
			monitoring.Debugf("frame %d: candidate %s rejected by %s", pair.Index, g1.Bbox(), v)
			// проверка зависит только от группы первого кадра
			break
		}
	}
	return res, nil
}

// detectGroupLines предобработка, поиск линий и группировка для одного кадра.
func (d *TowerDetector) detectGroupLines(gray *image.Gray) ([]entity.LineGroup, error) {
	img := gray
	if d.processing != nil {
		processed, err := d.processing.Execute(gray)
		if err != nil {
			return nil, fmt.Errorf("preprocessing: %w", err)
		}
		// отрезки должны лежать в координатах кадра, по которому считается поток
		if processed.Bounds().Size() != gray.Bounds().Size() {
			return nil, fmt.Errorf("preprocessing: output %v for frame %v: %w",
				processed.Bounds().Size(), gray.Bounds().Size(), entity.ErrFrameSizeMismatch)
		}
		img = processed
	}
	lines, err := d.lines.Run(img)
	if err != nil {
		// сбой детектора означает, что линий в кадре нет
		monitoring.Errorf("%s detector: %v", d.lines.Type(), err)
		return nil, nil
	}
	groups := entity.GroupLinesByDist(lines, d.gates.GroupDistance)
	groups = entity.DelLinesGroupBySize(groups, d.gates.MinGroupSize)
	monitoring.Debugf("%s: %d lines, %d groups", d.lines.Type(), len(lines), len(groups))
	for _, g := range groups {
		monitoring.Debugf("group %s: %d lines, mean angle %.3f", g.Bbox(), g.Size(), g.AngleMean())
	}
	return groups, nil
}

func (d *TowerDetector) flowStats(gray1, gray2 *image.Gray) (flowStats, error) {
	flow, err := d.flow.Calc(gray1, gray2)
	if err != nil {
		return flowStats{}, err
	}
	mag, err := entity.Magnitude(flow)
	if err != nil {
		return flowStats{}, err
	}
	if mag.Width != gray1.Bounds().Dx() || mag.Height != gray1.Bounds().Dy() {
		return flowStats{}, fmt.Errorf("magnitude %dx%d for frame %v: %w",
			mag.Width, mag.Height, gray1.Bounds().Size(), entity.ErrFrameSizeMismatch)
	}
	s := flowStats{raw: mag, norm: mag.Normalize()}
	s.mean, s.std = s.norm.MeanStdDev()
	return s, nil
}

// isTower последовательная проверка кандидата; первый не пройденный шаг отклоняет его.
func (d *TowerDetector) isTower(frame int, out *image.RGBA, group entity.LineGroup, f flowStats) verdict {
	w := group.Bbox()
	// правый и нижний край окна в область не входят: группа из отрезков на одном столбце даёт пустую область
	rect := image.Rect(w.Pt1.X, w.Pt1.Y, w.Pt2.X, w.Pt2.Y).Intersect(f.norm.Bounds())
	if rect.Empty() {
		return verdictEmptyWindow
	}
	candidate := f.norm.Sub(rect)
	localMean, localStd := candidate.MeanStdDev()
	if !d.gates.statistics(f.mean, f.std, localMean, localStd) {
		monitoring.Infof("tower rejected: frame %d", frame)
		return verdictStatistics
	}

	maxima := collectMaxima(candidate, rect.Min, f.mean+f.std, d.gates.MaximaPerRow)
	monitoring.Debugf("frame %d - cols: %d - rows: %d", frame, candidate.Width, candidate.Height)
	monitoring.Debugf("frame %d - maxima: %d", frame, len(maxima))
	if d.DrawRegressionLine && out != nil {
		c := d.palette.Next()
		for _, p := range maxima {
			vision.DrawPoint(out, p, c, 0)
		}
	}
	if len(maxima) <= d.gates.MinMaxima {
		return verdictMaxima
	}

	m, b, ok := regressionXY(maxima)
	if !ok {
		return verdictRegression
	}
	rows := f.raw.Height
	reg := entity.NewSegment(roundInt(b), 0, roundInt(m*float64(rows)+b), rows)
	if d.DrawRegressionLine && out != nil {
		vision.DrawLine(out, reg, vision.ColorRegression)
	}
	angle := entity.NormalizeHalfPi(reg.AngleOY())
	if math.Abs(angle) > d.gates.MaxAngle {
		monitoring.Debugf("frame %d rejected by regression angle %f", frame, angle)
		return verdictAngle
	}
	monitoring.Debugf("frame %d - angle: %f", frame, angle)

	ptMax, profile, ok := peakAlongLine(f, m, b)
	if !ok {
		return verdictProfile
	}
	if d.profiles != nil {
		simplified := entity.SimplifyPolyline(profile, d.gates.SimplifyTolerance)
		if err := d.profiles.Record(frame, profile, simplified); err != nil {
			monitoring.Errorf("frame %d: profile: %v", frame, err)
		}
	}

	if absInt(w.Pt1.Y-ptMax.Y) > d.gates.MaxTopDistance {
		return verdictTopDistance
	}
	return verdictTower
}

func (g Gates) statistics(globalMean, globalStd, localMean, localStd float64) bool {
	if !(localMean > globalMean && localMean > g.MinLocalMean && localStd > g.MinLocalStdDev) {
		return false
	}
	return !g.StrictMean || globalMean+globalStd < localMean
}

// collectMaxima до perRow наибольших значений каждой строки окна, превышающих threshold.
// Обход строки прекращается на первом значении, не прошедшем порог.
func collectMaxima(candidate *entity.Field, offset image.Point, threshold float64, perRow int) []image.Point {
	points := make([]image.Point, 0)
	idx := make([]int, candidate.Width)
	for y := 0; y < candidate.Height; y++ {
		row := candidate.Row(y)
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(i, j int) bool { return row[idx[i]] > row[idx[j]] })
		for _, x := range idx[:min(perRow, len(idx))] {
			v := row[x]
			if v == 0 || v <= threshold {
				break
			}
			points = append(points, image.Pt(offset.X+x, offset.Y+y))
		}
	}
	return points
}

// regressionXY прямая x = m*y + b по методу наименьших квадратов.
// Для точек с одинаковым y прямая не определена.
func regressionXY(points []image.Point) (m, b float64, ok bool) {
	if len(points) < 2 {
		return 0, 0, false
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = float64(p.X), float64(p.Y)
	}
	if stat.Variance(ys, nil) == 0 {
		return 0, 0, false
	}
	b, m = stat.LinearRegression(ys, xs, nil, false)
	monitoring.Debugf("regression x = %f*y + %f, r = %f", m, b, stat.Correlation(ys, xs, nil))
	return m, b, true
}

// minNormalFloat32 наименьшее нормализованное float32, начальное значение поиска пика.
const minNormalFloat32 = 0x1p-126

// peakAlongLine проходит по строкам поля вдоль прямой x = m*y + b. Возвращает точку
// наибольшего модуля потока и профиль (модуль, строка) для значений выше среднего.
func peakAlongLine(f flowStats, m, b float64) (image.Point, []image.Point, bool) {
	var ptMax image.Point
	maxVal := minNormalFloat32
	inside := false
	profile := make([]image.Point, 0)
	for y := 0; y < f.norm.Height; y++ {
		x := roundInt(m*float64(y) + b)
		if x < 0 || x >= f.norm.Width {
			continue
		}
		inside = true
		mg := f.raw.At(x, y)
		if mg > maxVal {
			maxVal = mg
			ptMax = image.Pt(x, y)
		}
		if mg > f.mean {
			profile = append(profile, image.Pt(roundInt(mg), y))
		}
	}
	return ptMax, profile, inside
}

func annotateTower(out *image.RGBA, w entity.Window) {
	vision.DrawRect(out, w, vision.ColorTower, 2)
	label := image.Pt(w.Pt1.X, w.Pt1.Y-4)
	if label.Y < 13 {
		label.Y = w.Pt1.Y + 15
	}
	vision.DrawLabel(out, label, "TOWER", vision.ColorTower)
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
