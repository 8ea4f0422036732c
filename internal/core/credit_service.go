package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"renovo-backend-go/internal/db"
	"renovo-backend-go/internal/events"
	"renovo-backend-go/internal/metrics"
	"renovo-backend-go/internal/models"
)

var (
	// ErrNoCredits means the user must buy credits before using the visualizer.
	ErrNoCredits      = errors.New("no visualizer credits remaining")
	ErrInvalidCredits = errors.New("credits must not be negative")
)

// CreditBalance is the visualizer credit state of a user.
type CreditBalance struct {
	Credits      int64 `json:"credits"`
	TotalCredits int64 `json:"totalCredits"`
	HasCredits   bool  `json:"hasCredits"`
}

func balanceOf(user *models.User) *CreditBalance {
	return &CreditBalance{
		Credits:      user.VisualizerCredits,
		TotalCredits: user.TotalCreditsPurchased,
		HasCredits:   user.VisualizerCredits > 0,
	}
}

type creditService struct {
	users     db.UserRepository
	audit     AuditService
	publisher events.Publisher
	logger    *zap.Logger
}

// NewCreditService creates a CreditService.
func NewCreditService(users db.UserRepository, audit AuditService, publisher events.Publisher, logger *zap.Logger) CreditService {
	return &creditService{users: users, audit: audit, publisher: publisher, logger: logger}
}

// Balance returns zeros when the user document does not exist.
func (s *creditService) Balance(ctx context.Context, userID string) (*CreditBalance, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return &CreditBalance{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credits for user '%s': %w", userID, err)
	}
	return balanceOf(user), nil
}

// Consume takes one credit. Nothing is written when the balance is zero.
func (s *creditService) Consume(ctx context.Context, userID string) (*CreditBalance, error) {
	user, err := s.users.Mutate(ctx, userID, func(user *models.User, exists bool) error {
		if !exists {
			return ErrUserNotFound
		}
		if user.VisualizerCredits <= 0 {
			return ErrNoCredits
		}
		user.VisualizerCredits = max(user.VisualizerCredits-1, 0)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to consume credit for user '%s': %w", userID, err)
	}

	metrics.CreditsConsumed.Inc()
	if err := s.publisher.Publish(ctx, events.TypeCreditsConsumed, map[string]interface{}{
		"userId": userID, "remaining": user.VisualizerCredits,
	}); err != nil {
		s.logger.Warn("Credit event publish failed", zap.String("userId", userID), zap.Error(err))
	}
	return balanceOf(user), nil
}

// Set overwrites the balance and lifetime total with credits, creating the user if needed.
func (s *creditService) Set(ctx context.Context, actorID, userID string, credits int64) (*CreditBalance, error) {
	if credits < 0 {
		return nil, ErrInvalidCredits
	}
	now := time.Now().UTC()
	user, err := s.users.Mutate(ctx, userID, func(user *models.User, exists bool) error {
		if !exists {
			*user = newUser(userID, "", "", now)
		}
		user.VisualizerCredits = credits
		user.TotalCreditsPurchased = credits
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set credits for user '%s': %w", userID, err)
	}

	s.audit.Record(ctx, actorID, AuditActionCreditsSet, "user", userID, map[string]interface{}{"credits": credits})
	return balanceOf(user), nil
}
