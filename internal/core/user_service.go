package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"renovo-backend-go/internal/db"
	"renovo-backend-go/internal/models"
)

// ErrUserNotFound is returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// userService implements the UserService interface.
type userService struct {
	userRepo db.UserRepository
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo db.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// newUser returns a profile with default role and zero credits.
func newUser(userID, email, displayName string, now time.Time) models.User {
	return models.User{
		ID:          userID,
		Email:       email,
		DisplayName: displayName,
		Role:        models.RoleUser,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// GetOrCreate retrieves a user by ID. If the user doesn't exist, it creates a new one.
// Returns the user, a boolean indicating if the user was created, and an error if any.
func (s *userService) GetOrCreate(ctx context.Context, userID, email, displayName string) (*models.User, bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to get user by ID '%s' from repository: %w", userID, err)
	}

	created := newUser(userID, email, displayName, time.Now().UTC())
	if err := s.userRepo.Create(ctx, &created); err != nil {
		return nil, false, fmt.Errorf("failed to create user (id: %s) after not found: %w", userID, err)
	}
	return &created, true, nil
}

// GetByID retrieves a user by their ID.
func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: user with ID '%s'", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user by ID '%s' from repository: %w", userID, err)
	}
	return user, nil
}

// RecordLogin creates the profile on first sign-in and refreshes email, display
// name and lastLoginAt on every sign-in.
func (s *userService) RecordLogin(ctx context.Context, userID, email, displayName string) (*models.User, error) {
	now := time.Now().UTC()
	user, err := s.userRepo.Mutate(ctx, userID, func(user *models.User, exists bool) error {
		if !exists {
			*user = newUser(userID, email, displayName, now)
		}
		if email != "" {
			user.Email = email
		}
		if displayName != "" {
			user.DisplayName = displayName
		}
		if user.Role == "" {
			user.Role = models.RoleUser
		}
		user.LastLoginAt = &now
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record login for user '%s': %w", userID, err)
	}
	return user, nil
}
