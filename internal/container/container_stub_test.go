//go:build !gocv
// +build !gocv

package container

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"tower-vision/internal/infrastructure/vision"
)

func TestNewTowerDetector_GoCVCanny(t *testing.T) {
	cfg := testConfig()
	cfg.EdgeDetector = vision.EdgeGoCVCanny
	d, err := NewTowerDetector(cfg)
	require.NoError(t, err)

	_, err = d.Preprocessing().Execute(image.NewGray(image.Rect(0, 0, 8, 8)))
	require.ErrorIs(t, err, vision.ErrGoCVDisabled)
}
