package storage

import (
	"context"
	"sync"

	"tower-vision/internal/domain/entity"
	"tower-vision/internal/domain/port"
)

// MemoryUserRepository хранит состояние диалога пользователей бота в памяти процесса.
// Наружу отдаются копии, поэтому изменения видны только после Save.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[int64]entity.User
}

// NewMemoryUserRepository создаёт пустое хранилище
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[int64]entity.User)}
}

// Get возвращает копию пользователя; при первом обращении пользователь регистрируется
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		u = *entity.NewUser(userID, chatID)
		r.users[userID] = u
	}
	return &u, nil
}

// Save записывает пользователя целиком
func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.users[user.ID] = *user
	r.mu.Unlock()
	return nil
}

// UpdateState меняет только состояние; неизвестный пользователь пропускается
func (r *MemoryUserRepository) UpdateState(ctx context.Context, userID int64, state entity.UserState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.SetState(state)
		r.users[userID] = u
	}
	return nil
}

var _ port.UserRepository = (*MemoryUserRepository)(nil)
