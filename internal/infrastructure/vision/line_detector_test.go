package vision

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"tower-vision/internal/domain/entity"
)

func TestNewLineDetector_Types(t *testing.T) {
	cfg := DefaultDetectorConfig()
	for _, name := range []string{TypeHough, TypeHoughP, TypeHoughFast, TypeLSD, TypeGoCVHough, TypeGoCVHoughP} {
		cfg.Type = name
		d, err := NewLineDetector(cfg)
		require.NoError(t, err)
		require.Equal(t, name, d.Type())
		require.InDelta(t, -0.3, d.AngleRange().Min, 1e-12)
		require.InDelta(t, 0.3, d.AngleRange().Max, 1e-12)
	}
}

func TestNewLineDetector_CaseInsensitive(t *testing.T) {
	cfg := DefaultDetectorConfig()
	cfg.Type = "houghp"
	d, err := NewLineDetector(cfg)
	require.NoError(t, err)
	require.Equal(t, TypeHoughP, d.Type())
}

func TestNewLineDetector_HoughPSeed(t *testing.T) {
	cfg := DefaultDetectorConfig()
	d, err := NewLineDetector(cfg)
	require.NoError(t, err)
	require.Equal(t, int64(1), d.(*HoughP).seed)

	cfg.Seed = 7
	d, err = NewLineDetector(cfg)
	require.NoError(t, err)
	require.Equal(t, int64(7), d.(*HoughP).seed)
}

func TestNewLineDetector_Unknown(t *testing.T) {
	cfg := DefaultDetectorConfig()
	cfg.Type = "LSWMS"
	_, err := NewLineDetector(cfg)
	require.Error(t, err)
}

func TestLineDetector_RunWithAngleRangeRestores(t *testing.T) {
	detectors := []interface {
		RunWithAngleRange(*image.Gray, float64, float64) ([]entity.Segment, error)
		AngleRange() entity.AngleRange
	}{
		NewHough(100, entity.NewAngleRange(0, 0.3)),
		NewHoughP(50, entity.NewAngleRange(0, 0.3), 60, 5),
		NewHoughFast(entity.NewAngleRange(0, 0.3)),
		NewLSD(entity.NewAngleRange(0, 0.3)),
	}
	img := verticalLineImage(64, 64, 32, 0, 63)
	for _, d := range detectors {
		before := d.AngleRange()

		_, err := d.RunWithAngleRange(img, 1.2, 0.1)
		require.NoError(t, err)
		require.Equal(t, before, d.AngleRange())

		// ошибка тоже не должна оставлять временный диапазон
		_, err = d.RunWithAngleRange(newGray(0, 0), 1.2, 0.1)
		require.ErrorIs(t, err, entity.ErrEmptyFrame)
		require.Equal(t, before, d.AngleRange())
	}
}

func TestLineDetector_RecoversPanic(t *testing.T) {
	var d lineDetector
	lines, err := d.detect("TEST", newGray(4, 4), func(*image.Gray) ([]entity.Segment, error) {
		panic("boom")
	})
	require.Error(t, err)
	require.Nil(t, lines)
	require.Empty(t, d.Lines())
}

func TestLineDetector_KeepsLastLines(t *testing.T) {
	var d lineDetector
	want := []entity.Segment{entity.NewSegment(0, 0, 1, 1)}
	_, err := d.detect("TEST", newGray(4, 4), func(*image.Gray) ([]entity.Segment, error) {
		return want, nil
	})
	require.NoError(t, err)
	require.Equal(t, want, d.Lines())

	_, err = d.detect("TEST", newGray(4, 4), func(*image.Gray) ([]entity.Segment, error) {
		return nil, errors.New("failed")
	})
	require.Error(t, err)
	require.Empty(t, d.Lines())
}

func TestLineDetector_EarlierLinesUntouched(t *testing.T) {
	var d lineDetector
	first := []entity.Segment{entity.NewSegment(0, 0, 1, 1), entity.NewSegment(2, 0, 2, 3)}
	_, err := d.detect("TEST", newGray(4, 4), func(*image.Gray) ([]entity.Segment, error) {
		return first, nil
	})
	require.NoError(t, err)
	kept := d.Lines()

	_, err = d.detect("TEST", newGray(4, 4), func(*image.Gray) ([]entity.Segment, error) {
		return []entity.Segment{entity.NewSegment(3, 3, 0, 0)}, nil
	})
	require.NoError(t, err)
	require.Equal(t, []entity.Segment{entity.NewSegment(0, 0, 1, 1), entity.NewSegment(2, 0, 2, 3)}, kept)
	require.Equal(t, []entity.Segment{entity.NewSegment(3, 3, 0, 0)}, d.Lines())
}

func TestLineDetector_FilterModuloPi(t *testing.T) {
	d := lineDetector{angles: entity.NewAngleRange(0, 0.3)}
	down := entity.NewSegment(10, 0, 12, 50)
	up := entity.Segment{Pt1: down.Pt2, Pt2: down.Pt1}
	flat := entity.NewSegment(0, 10, 50, 12)

	got := d.filter([]entity.Segment{down, flat, up})
	require.Equal(t, []entity.Segment{down, up}, got)
}

func TestClipLine(t *testing.T) {
	seg, ok := clipLine(5, 3, 0, 1, 0, 0, 10, 10)
	require.True(t, ok)
	require.Equal(t, entity.NewSegment(5, 0, 5, 10), seg)

	seg, ok = clipLine(0, 0, 1, 1, 0, 0, 10, 10)
	require.True(t, ok)
	require.Equal(t, entity.NewSegment(0, 0, 10, 10), seg)

	_, ok = clipLine(20, 0, 0, 1, 0, 0, 10, 10)
	require.False(t, ok)

	_, ok = clipLine(5, 5, 0, 0, 0, 0, 10, 10)
	require.False(t, ok)
}

func TestOffsetSegments(t *testing.T) {
	lines := []entity.Segment{entity.NewSegment(0, 0, 1, 2)}
	got := offsetSegments(lines, image.Pt(10, 20))
	require.Equal(t, entity.NewSegment(10, 20, 11, 22), got[0])
}
