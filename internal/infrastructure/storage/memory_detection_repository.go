package storage

import (
	"context"
	"sort"
	"sync"

	"tower-vision/internal/domain/entity"
	"tower-vision/internal/domain/port"
)

// MemoryDetectionRepository in-memory хранилище обнаружений
type MemoryDetectionRepository struct {
	mu   sync.RWMutex
	runs map[string][]entity.Detection
}

// NewMemoryDetectionRepository создаёт пустое хранилище
func NewMemoryDetectionRepository() *MemoryDetectionRepository {
	return &MemoryDetectionRepository{
		runs: make(map[string][]entity.Detection),
	}
}

// Save сохраняет обнаружение
func (r *MemoryDetectionRepository) Save(ctx context.Context, d entity.Detection) error {
	r.mu.Lock()
	r.runs[d.RunID] = append(r.runs[d.RunID], d)
	r.mu.Unlock()

	return nil
}

// ListByRun возвращает копию обнаружений прогона в порядке кадров
func (r *MemoryDetectionRepository) ListByRun(ctx context.Context, runID string) ([]entity.Detection, error) {
	r.mu.RLock()
	out := make([]entity.Detection, len(r.runs[runID]))
	copy(out, r.runs[runID])
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Frame < out[j].Frame })
	return out, nil
}

var _ port.DetectionRepository = (*MemoryDetectionRepository)(nil)
