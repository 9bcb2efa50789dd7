package container

import (
	"errors"
	"fmt"

	"tower-vision/config"
	app "tower-vision/internal/application"
	"tower-vision/internal/domain/port"
	"tower-vision/internal/infrastructure/chart"
	"tower-vision/internal/infrastructure/storage"
	"tower-vision/internal/infrastructure/vision"
)

type Container struct {
	UserService       *app.UserService
	InspectionService *app.InspectionService
	Detector          *app.TowerDetector
	Detections        port.DetectionRepository
	Sequence          *app.SequenceRunner

	sqlite *storage.SQLiteDetectionRepository
}

func New(cfg *config.Config, userRepo port.UserRepository) (*Container, error) {
	detector, err := NewTowerDetector(cfg)
	if err != nil {
		return nil, err
	}

	c := &Container{Detector: detector}
	if cfg.DBPath != "" {
		c.sqlite, err = storage.NewSQLiteDetectionRepository(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		c.Detections = c.sqlite
	} else {
		c.Detections = storage.NewMemoryDetectionRepository()
	}

	c.UserService = app.NewUserService(userRepo)
	c.InspectionService = app.NewInspectionService(c.UserService, detector)
	c.Sequence = app.NewSequenceRunner(detector, c.Detections, app.SequenceOptions{
		SkipFrames: cfg.SkipFrames,
		OutputDir:  cfg.OutputDir,
		SaveImages: cfg.SaveImages,
	})
	return c, nil
}

// NewTowerDetector собирает детектор опор по конфигурации.
func NewTowerDetector(cfg *config.Config) (*app.TowerDetector, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	lines, err := vision.NewLineDetector(vision.DetectorConfig{
		Type:           cfg.LineDetector,
		AngleCenter:    cfg.AngleCenter,
		AngleTolerance: cfg.AngleTolerance,
		HoughThreshold: cfg.HoughThreshold,
		PThreshold:     cfg.PThreshold,
		MinLineLength:  float64(cfg.MinLineLength),
		MaxLineGap:     float64(cfg.MaxLineGap),
		Seed:           cfg.HoughPSeed,
	})
	if err != nil {
		return nil, err
	}
	flow, err := vision.NewOpticalFlow(cfg.OpticalFlow)
	if err != nil {
		return nil, err
	}

	processing, err := vision.NewEdgeProcessing(cfg.EdgeDetector)
	if err != nil {
		return nil, err
	}

	detector := app.NewTowerDetector(lines, processing, flow)
	detector.DrawLines = cfg.DrawLines
	detector.DrawRegressionLine = cfg.DrawRegressionLine
	detector.SetColorSeed(cfg.ColorSeed)
	if cfg.ProfileDir != "" {
		rec, err := chart.NewProfileRecorder(cfg.ProfileDir)
		if err != nil {
			return nil, fmt.Errorf("profile recorder: %w", err)
		}
		detector.SetProfileRecorder(rec)
	}
	return detector, nil
}

// Close закрывает хранилище обнаружений.
func (c *Container) Close() error {
	if c.sqlite != nil {
		return c.sqlite.Close()
	}
	return nil
}
