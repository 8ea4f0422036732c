package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renovo-backend-go/internal/db/memstore"
	"renovo-backend-go/internal/models"
)

func TestUserService_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(memstore.New().Users)

	user, created, err := svc.GetOrCreate(ctx, "u1", "a@example.com", "Ann")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Zero(t, user.VisualizerCredits)

	again, created, err := svc.GetOrCreate(ctx, "u1", "other@example.com", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "a@example.com", again.Email)
}

func TestUserService_GetByIDNotFound(t *testing.T) {
	_, err := NewUserService(memstore.New().Users).GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_RecordLoginKeepsCredits(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	store.Users.Put(models.User{ID: "u1", Email: "old@example.com", VisualizerCredits: 4, Role: models.RoleAdmin})
	svc := NewUserService(store.Users)

	user, err := svc.RecordLogin(ctx, "u1", "new@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, int64(4), user.VisualizerCredits)
	assert.Equal(t, models.RoleAdmin, user.Role)
	require.NotNil(t, user.LastLoginAt)

	first, err := svc.RecordLogin(ctx, "u2", "b@example.com", "Bea")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, first.Role)
	assert.False(t, first.CreatedAt.IsZero())
}
