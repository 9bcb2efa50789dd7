package chart

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

func TestProfileRecorder_Record(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "profiles")
	rec, err := NewProfileRecorder(dir)
	require.NoError(t, err)

	profile := []image.Point{{1, 0}, {3, 1}, {2, 2}, {8, 3}, {1, 4}}
	simplified := []image.Point{{1, 0}, {8, 3}, {1, 4}}
	require.NoError(t, rec.Record(12, profile, simplified))

	path := rec.Path(12)
	require.Equal(t, filepath.Join(dir, "profile_00012.png"), path)
	img, err := imaging.Open(path)
	require.NoError(t, err)
	require.False(t, img.Bounds().Empty())
}

func TestProfileRecorder_EmptyProfile(t *testing.T) {
	rec, err := NewProfileRecorder(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, rec.Record(3, nil, nil))
	_, err = os.Stat(rec.Path(3))
	require.ErrorIs(t, err, os.ErrNotExist)
}
