package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"tower-vision/internal/domain/entity"
	"tower-vision/internal/infrastructure/storage"
)

func TestUserService_BeginCheckAndCancel(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.BeginCheck(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingFirstFrame, user.State)

	user, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestUserService_SetState(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.SetState(ctx, 2, 20, entity.StateAwaitingSecondFrame)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingSecondFrame, user.State)
}

func TestUserService_CheckFlow(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	_, err := svc.BeginCheck(ctx, 3, 30)
	require.NoError(t, err)
	for _, state := range []entity.UserState{entity.StateAwaitingSecondFrame, entity.StateProcessing} {
		user, err := svc.SetState(ctx, 3, 30, state)
		require.NoError(t, err)
		require.Equal(t, state, user.State)

		stored, err := svc.Get(ctx, 3, 30)
		require.NoError(t, err)
		require.Equal(t, state, stored.State)
	}

	user, err := svc.Cancel(ctx, 3, 30)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
	require.False(t, user.AwaitingFrame())

	other, err := svc.Get(ctx, 4, 40)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, other.State)
}
