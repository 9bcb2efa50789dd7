package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUser_DefaultState(t *testing.T) {
	u := NewUser(1, 10)
	require.Equal(t, StateMainMenu, u.State)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, int64(10), u.ChatID)
	require.False(t, u.AwaitingFrame())
}

func TestUser_SetState(t *testing.T) {
	tests := []struct {
		state    UserState
		awaiting bool
	}{
		{StateAwaitingFirstFrame, true},
		{StateAwaitingSecondFrame, true},
		{StateProcessing, false},
		{StateMainMenu, false},
	}
	u := NewUser(1, 10)
	for _, tt := range tests {
		u.SetState(tt.state)
		require.Equal(t, tt.state, u.State)
		require.Equal(t, tt.awaiting, u.AwaitingFrame(), tt.state)
	}
}
