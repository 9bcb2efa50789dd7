//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"

	"gocv.io/x/gocv"

	"tower-vision/internal/domain/entity"
)

// VideoSource кадры видеофайла через OpenCV.
type VideoSource struct {
	path  string
	cap   *gocv.VideoCapture
	frame gocv.Mat
	index int
}

// NewVideoSource открывает видеофайл.
func NewVideoSource(path string) (*VideoSource, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}
	return &VideoSource{path: path, cap: vc, frame: gocv.NewMat()}, nil
}

// Next следующий кадр; false, когда видео закончилось.
func (s *VideoSource) Next(ctx context.Context) (entity.Frame, bool, error) {
	if err := ctx.Err(); err != nil {
		return entity.Frame{}, false, err
	}
	if ok := s.cap.Read(&s.frame); !ok || s.frame.Empty() {
		return entity.Frame{}, false, nil
	}
	img, err := s.frame.ToImage()
	if err != nil {
		return entity.Frame{}, false, fmt.Errorf("decode frame %d: %w", s.index, err)
	}
	f := entity.Frame{Index: s.index, Path: fmt.Sprintf("%s#%05d", s.path, s.index), Image: img}
	s.index++
	return f, true, nil
}

// Close освобождает видео.
func (s *VideoSource) Close() error {
	s.frame.Close()
	return s.cap.Close()
}
