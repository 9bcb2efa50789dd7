//go:build !gocv
// +build !gocv

package vision

import (
	"context"

	"tower-vision/internal/domain/entity"
)

// VideoSource заглушка источника видео.
type VideoSource struct{}

// NewVideoSource возвращает ошибку, если сборка без тега gocv.
func NewVideoSource(path string) (*VideoSource, error) {
	_ = path
	return nil, ErrGoCVDisabled
}

// Next возвращает ошибку, если сборка без тега gocv.
func (s *VideoSource) Next(ctx context.Context) (entity.Frame, bool, error) {
	_ = ctx
	return entity.Frame{}, false, ErrGoCVDisabled
}

// Close ничего не делает.
func (s *VideoSource) Close() error { return nil }
