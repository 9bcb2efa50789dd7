package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"tower-vision/config"
	"tower-vision/internal/container"
	"tower-vision/internal/domain/port"
	"tower-vision/internal/infrastructure/storage"
	"tower-vision/internal/infrastructure/vision"
	"tower-vision/internal/monitoring"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	input := flag.String("input", "", "video file, directory of frames or list file with frame paths")
	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "output directory for detected frames and TowerDetected.txt")
	flag.BoolVar(&cfg.SaveImages, "si", cfg.SaveImages, "save annotated frames with a tower")
	flag.BoolVar(&cfg.DrawLines, "dl", cfg.DrawLines, "draw line groups")
	flag.BoolVar(&cfg.DrawRegressionLine, "dr", cfg.DrawRegressionLine, "draw flow maxima and regression line")
	flag.IntVar(&cfg.SkipFrames, "skip_frames", cfg.SkipFrames, "process every n-th frame")
	flag.StringVar(&cfg.LineDetector, "l_detect", cfg.LineDetector, "line detector: HOUGH, HOUGHP, HOUGH_FAST, LSD, GOCV_HOUGH, GOCV_HOUGHP")
	flag.StringVar(&cfg.EdgeDetector, "edges", cfg.EdgeDetector, "edge detector: CANNY or GOCV_CANNY")
	flag.StringVar(&cfg.OpticalFlow, "flow", cfg.OpticalFlow, "optical flow: HORN_SCHUNCK or FARNEBACK")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite database for detections")
	flag.StringVar(&cfg.ProfileDir, "profiles", cfg.ProfileDir, "directory for flow profile plots")
	flag.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "verbose output")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}
	monitoring.SetVerbose(cfg.Verbose)

	source, err := openSource(*input)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *input, err)
	}
	defer source.Close()

	c, err := container.New(cfg, storage.NewMemoryUserRepository())
	if err != nil {
		log.Fatalf("Failed to build detector: %v", err)
	}
	defer c.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sum, err := c.Sequence.Process(ctx, source)
	if err != nil {
		log.Printf("Processing stopped: %v", err)
	}
	if sum == nil {
		os.Exit(1)
	}
	fmt.Printf("run %s: %d frames, %d pairs, %d towers\n", sum.RunID, sum.Frames, sum.Pairs, len(sum.Detections))
	for _, d := range sum.Detections {
		fmt.Printf("  frame %d: %s %s\n", d.Frame, d.Window, d.ImagePath)
	}
	if sum.ReportPath != "" {
		fmt.Printf("report: %s\n", sum.ReportPath)
	}
	if err != nil {
		os.Exit(1)
	}
}

// openSource каталог и .txt читаются как список кадров, остальное как видео.
func openSource(path string) (port.FrameSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() || strings.EqualFold(filepath.Ext(path), ".txt") {
		src, err := storage.NewImageListSource(path)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	src, err := vision.NewVideoSource(path)
	if err != nil {
		return nil, err
	}
	return src, nil
}
