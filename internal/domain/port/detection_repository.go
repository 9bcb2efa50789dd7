package port

import (
	"context"

	"tower-vision/internal/domain/entity"
)

// DetectionRepository интерфейс хранилища найденных опор
type DetectionRepository interface {
	// Save сохраняет обнаружение
	Save(ctx context.Context, d entity.Detection) error

	// ListByRun возвращает обнаружения прогона в порядке кадров
	ListByRun(ctx context.Context, runID string) ([]entity.Detection, error)
}

// FrameSource источник кадров видео
type FrameSource interface {
	// Next возвращает следующий кадр и его номер; ok=false в конце потока
	Next(ctx context.Context) (frame entity.Frame, ok bool, err error)

	// Close освобождает ресурсы источника
	Close() error
}
