package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string

	LineDetector   string  // HOUGH, HOUGHP, HOUGH_FAST, LSD, GOCV_HOUGH, GOCV_HOUGHP
	HoughThreshold int     // порог накопителя HOUGH
	PThreshold     int     // порог накопителя HOUGHP
	MinLineLength  int     // минимальная длина отрезка HOUGHP
	MaxLineGap     int     // максимальный разрыв HOUGHP
	AngleCenter    float64 // центр допустимых углов, рад
	AngleTolerance float64 // допуск угла, рад
	OpticalFlow    string  // HORN_SCHUNCK или FARNEBACK
	EdgeDetector   string  // CANNY или GOCV_CANNY
	HoughPSeed     int64   // зерно порядка обхода точек HOUGHP

	SkipFrames         int
	OutputDir          string
	SaveImages         bool
	DrawLines          bool
	DrawRegressionLine bool
	DBPath             string // если пустой, обнаружения хранятся в памяти
	ProfileDir         string // если пустой, профили не сохраняются
	Verbose            bool
	ColorSeed          int64
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		LineDetector:  getEnv("LINE_DETECTOR", "HOUGHP"),
		OpticalFlow:   getEnv("OPTICAL_FLOW", "HORN_SCHUNCK"),
		EdgeDetector:  getEnv("EDGE_DETECTOR", "CANNY"),
		OutputDir:     os.Getenv("OUTPUT_DIR"),
		DBPath:        os.Getenv("DB_PATH"),
		ProfileDir:    os.Getenv("PROFILE_DIR"),
	}

	var err error
	ints := []struct {
		key string
		def int
		dst *int
	}{
		{"HOUGH_THRESHOLD", 150, &cfg.HoughThreshold},
		{"HOUGHP_THRESHOLD", 100, &cfg.PThreshold},
		{"HOUGHP_MIN_LINE_LENGTH", 60, &cfg.MinLineLength},
		{"HOUGHP_MAX_LINE_GAP", 30, &cfg.MaxLineGap},
		{"SKIP_FRAMES", 1, &cfg.SkipFrames},
	}
	for _, v := range ints {
		if *v.dst, err = getInt(v.key, v.def); err != nil {
			return nil, err
		}
	}

	if cfg.AngleCenter, err = getFloat("ANGLE_CENTER", 0); err != nil {
		return nil, err
	}
	if cfg.AngleTolerance, err = getFloat("ANGLE_TOLERANCE", 0.3); err != nil {
		return nil, err
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"SAVE_IMAGES", &cfg.SaveImages},
		{"DRAW_LINES", &cfg.DrawLines},
		{"DRAW_REGRESSION_LINE", &cfg.DrawRegressionLine},
		{"VERBOSE", &cfg.Verbose},
	}
	for _, v := range bools {
		if *v.dst, err = getBool(v.key); err != nil {
			return nil, err
		}
	}

	seed, err := getInt("COLOR_SEED", 1)
	if err != nil {
		return nil, err
	}
	cfg.ColorSeed = int64(seed)

	if seed, err = getInt("HOUGHP_SEED", 1); err != nil {
		return nil, err
	}
	cfg.HoughPSeed = int64(seed)

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getBool(key string) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
