package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"renovo-backend-go/internal/db/memstore"
	"renovo-backend-go/internal/events"
	"renovo-backend-go/internal/models"
)

func newCreditFixture() (*memstore.Store, *recordingPublisher, CreditService) {
	store := memstore.New()
	pub := &recordingPublisher{}
	audit := NewAuditService(store.Audit, zap.NewNop())
	return store, pub, NewCreditService(store.Users, audit, pub, zap.NewNop())
}

func TestCreditService_BalanceOfUnknownUserIsZero(t *testing.T) {
	_, _, svc := newCreditFixture()

	balance, err := svc.Balance(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, &CreditBalance{}, balance)
}

func TestCreditService_ConsumeDecrements(t *testing.T) {
	store, pub, svc := newCreditFixture()
	store.Users.Put(models.User{ID: "u1", VisualizerCredits: 2, TotalCreditsPurchased: 5})

	balance, err := svc.Consume(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), balance.Credits)
	assert.Equal(t, int64(5), balance.TotalCredits)
	assert.True(t, balance.HasCredits)
	assert.Equal(t, []string{events.TypeCreditsConsumed}, pub.types())
}

func TestCreditService_ConsumeWithoutCredits(t *testing.T) {
	ctx := context.Background()
	store, pub, svc := newCreditFixture()
	store.Users.Put(models.User{ID: "u1"})

	_, err := svc.Consume(ctx, "u1")
	assert.ErrorIs(t, err, ErrNoCredits)

	_, err = svc.Consume(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, pub.types())
}

func TestCreditService_ConcurrentConsumeNeverGoesNegative(t *testing.T) {
	ctx := context.Background()
	store, _, svc := newCreditFixture()
	store.Users.Put(models.User{ID: "u1", VisualizerCredits: 5})

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Consume(ctx, "u1"); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	balance, err := svc.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, balance.Credits)
	assert.False(t, balance.HasCredits)
}

func TestCreditService_SetOverwritesAndAudits(t *testing.T) {
	ctx := context.Background()
	store, _, svc := newCreditFixture()
	store.Users.Put(models.User{ID: "u1", VisualizerCredits: 3, TotalCreditsPurchased: 9})

	balance, err := svc.Set(ctx, "admin-1", "u1", 10)
	require.NoError(t, err)
	assert.Equal(t, &CreditBalance{Credits: 10, TotalCredits: 10, HasCredits: true}, balance)

	entries := store.Audit.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, AuditActionCreditsSet, entries[0].Action)
	assert.Equal(t, "admin-1", entries[0].UserID)
	assert.Equal(t, "u1", entries[0].TargetID)

	_, err = svc.Set(ctx, "admin-1", "u1", -1)
	assert.ErrorIs(t, err, ErrInvalidCredits)
}

func TestCreditService_SetCreatesMissingUser(t *testing.T) {
	ctx := context.Background()
	store, _, svc := newCreditFixture()

	_, err := svc.Set(ctx, "admin-1", "new-user", 3)
	require.NoError(t, err)

	user, err := store.Users.GetByID(ctx, "new-user")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, int64(3), user.VisualizerCredits)
}
