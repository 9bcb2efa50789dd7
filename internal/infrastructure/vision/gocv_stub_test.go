//go:build !gocv
// +build !gocv

package vision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tower-vision/internal/domain/entity"
)

func TestGoCVStubs(t *testing.T) {
	img := verticalLineImage(16, 16, 8, 0, 15)

	_, err := NewGoCVHough(10, entity.NewAngleRange(0, 0.3)).Run(img)
	require.ErrorIs(t, err, ErrGoCVDisabled)

	_, err = NewGoCVHoughP(10, entity.NewAngleRange(0, 0.3), 5, 1).Run(img)
	require.ErrorIs(t, err, ErrGoCVDisabled)

	_, err = NewGoCVFarneback().Calc(img, img)
	require.ErrorIs(t, err, ErrGoCVDisabled)

	_, err = (&GoCVCanny{}).Execute(img)
	require.ErrorIs(t, err, ErrGoCVDisabled)

	list, err := NewEdgeProcessing(EdgeGoCVCanny)
	require.NoError(t, err)
	_, err = list.Execute(img)
	require.ErrorIs(t, err, ErrGoCVDisabled)

	_, err = NewVideoSource("video.avi")
	require.ErrorIs(t, err, ErrGoCVDisabled)
}
