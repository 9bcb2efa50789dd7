package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"tower-vision/internal/domain/entity"
	"tower-vision/internal/domain/port"
	"tower-vision/internal/infrastructure/storage"
	"tower-vision/internal/monitoring"
)

// ReportFile имя файла отчёта в каталоге результатов.
const ReportFile = "TowerDetected.txt"

// SequenceOptions параметры обработки последовательности кадров.
type SequenceOptions struct {
	SkipFrames int    // обрабатывать каждый n-й кадр, при 0 и 1 каждый
	OutputDir  string // каталог кадров с опорами и отчёта; если пустой, ничего не пишется
	SaveImages bool   // сохранять размеченные кадры Apoyo_%05d.png
}

// SequenceSummary итог обработки последовательности.
type SequenceSummary struct {
	RunID      string
	Frames     int // прочитано кадров
	Pairs      int // проанализировано пар
	Detections []entity.Detection
	ReportPath string
}

// SequenceRunner прогоняет детектор по соседним кадрам видео или списка изображений.
type SequenceRunner struct {
	detector *TowerDetector
	repo     port.DetectionRepository
	opts     SequenceOptions
	now      func() time.Time
}

// NewSequenceRunner создаёт обработчик. repo может быть nil.
func NewSequenceRunner(detector *TowerDetector, repo port.DetectionRepository, opts SequenceOptions) *SequenceRunner {
	return &SequenceRunner{
		detector: detector,
		repo:     repo,
		opts:     opts,
		now:      time.Now,
	}
}

// Process читает кадры по порядку до конца источника и ищет опору в каждой паре
// (предыдущий обработанный кадр, текущий). Источник не закрывается.
func (r *SequenceRunner) Process(ctx context.Context, source port.FrameSource) (*SequenceSummary, error) {
	sum := &SequenceSummary{RunID: uuid.NewString()}
	if r.opts.OutputDir != "" {
		if err := os.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	skip := max(r.opts.SkipFrames, 1)

	var prev *entity.Frame
	for read := 0; ; read++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		frame, ok, err := source.Next(ctx)
		if err != nil {
			return sum, fmt.Errorf("read frame %d: %w", read, err)
		}
		if !ok {
			break
		}
		sum.Frames++
		if read%skip != 0 {
			continue
		}
		if prev == nil {
			prev = &frame
			continue
		}

		det, err := r.processPair(ctx, sum.RunID, *prev, frame)
		if err != nil {
			return sum, err
		}
		sum.Pairs++
		if det != nil {
			sum.Detections = append(sum.Detections, *det)
		}
		prev = &frame
	}

	if r.opts.OutputDir != "" {
		sum.ReportPath = filepath.Join(r.opts.OutputDir, ReportFile)
		if err := storage.WriteReport(sum.ReportPath, sum.Detections); err != nil {
			return sum, err
		}
	}
	monitoring.Infof("run %s: %d frames, %d pairs, %d towers", sum.RunID, sum.Frames, sum.Pairs, len(sum.Detections))
	return sum, nil
}

func (r *SequenceRunner) processPair(ctx context.Context, runID string, prev, cur entity.Frame) (*entity.Detection, error) {
	res, err := r.detector.Run(ctx, entity.FramePair{Index: prev.Index, First: prev.Image, Second: cur.Image})
	if err != nil {
		return nil, fmt.Errorf("frames %d-%d: %w", prev.Index, cur.Index, err)
	}
	if !res.Found {
		return nil, nil
	}

	det := entity.Detection{
		RunID:      runID,
		Frame:      cur.Index,
		ImagePath:  cur.Path,
		Window:     res.Window,
		DetectedAt: r.now(),
	}
	if r.opts.SaveImages && r.opts.OutputDir != "" {
		path := filepath.Join(r.opts.OutputDir, fmt.Sprintf("Apoyo_%05d.png", cur.Index))
		if err := imaging.Save(res.Annotated, path); err != nil {
			return nil, fmt.Errorf("save %s: %w", path, err)
		}
		det.ImagePath = path
	}
	if r.repo != nil {
		if err := r.repo.Save(ctx, det); err != nil {
			monitoring.Errorf("run %s: save detection: %v", runID, err)
		}
	}
	return &det, nil
}
