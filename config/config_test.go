package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var keys = []string{
	"TELEGRAM_TOKEN", "LINE_DETECTOR", "OPTICAL_FLOW", "HOUGH_THRESHOLD", "HOUGHP_THRESHOLD",
	"HOUGHP_MIN_LINE_LENGTH", "HOUGHP_MAX_LINE_GAP", "ANGLE_CENTER", "ANGLE_TOLERANCE",
	"SKIP_FRAMES", "OUTPUT_DIR", "SAVE_IMAGES", "DRAW_LINES", "DRAW_REGRESSION_LINE",
	"DB_PATH", "PROFILE_DIR", "VERBOSE", "COLOR_SEED",
	"EDGE_DETECTOR", "HOUGHP_SEED",
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "HOUGHP", cfg.LineDetector)
	require.Equal(t, "HORN_SCHUNCK", cfg.OpticalFlow)
	require.Equal(t, 150, cfg.HoughThreshold)
	require.Equal(t, 100, cfg.PThreshold)
	require.Equal(t, 60, cfg.MinLineLength)
	require.Equal(t, 30, cfg.MaxLineGap)
	require.Equal(t, 0.3, cfg.AngleTolerance)
	require.Equal(t, 1, cfg.SkipFrames)
	require.Equal(t, int64(1), cfg.ColorSeed)
	require.Equal(t, "CANNY", cfg.EdgeDetector)
	require.Equal(t, int64(1), cfg.HoughPSeed)
	require.False(t, cfg.SaveImages)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("LINE_DETECTOR", "LSD")
	t.Setenv("HOUGHP_MAX_LINE_GAP", "12")
	t.Setenv("ANGLE_CENTER", "1.5")
	t.Setenv("SAVE_IMAGES", "true")
	t.Setenv("VERBOSE", "1")
	t.Setenv("COLOR_SEED", "42")
	t.Setenv("EDGE_DETECTOR", "GOCV_CANNY")
	t.Setenv("HOUGHP_SEED", "9")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "token", cfg.TelegramToken)
	require.Equal(t, "LSD", cfg.LineDetector)
	require.Equal(t, 12, cfg.MaxLineGap)
	require.Equal(t, 1.5, cfg.AngleCenter)
	require.True(t, cfg.SaveImages)
	require.True(t, cfg.Verbose)
	require.Equal(t, int64(42), cfg.ColorSeed)
	require.Equal(t, "GOCV_CANNY", cfg.EdgeDetector)
	require.Equal(t, int64(9), cfg.HoughPSeed)
}

func TestLoad_Invalid(t *testing.T) {
	for key, value := range map[string]string{
		"SKIP_FRAMES":     "often",
		"ANGLE_TOLERANCE": "wide",
		"DRAW_LINES":      "maybe",
		"HOUGHP_SEED":     "random",
	} {
		clearEnv(t)
		t.Setenv(key, value)
		_, err := Load()
		require.ErrorContains(t, err, key)
	}
}
