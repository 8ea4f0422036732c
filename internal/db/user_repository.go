package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"renovo-backend-go/internal/models"
)

// firestoreUserRepository implements the UserRepository interface using Firestore.
type firestoreUserRepository struct {
	client *firestore.Client
}

// NewFirestoreUserRepository creates a new instance of firestoreUserRepository.
func NewFirestoreUserRepository(client *firestore.Client) UserRepository {
	if client == nil {
		panic("Firestore client is not initialized for UserRepository")
	}
	return &firestoreUserRepository{client: client}
}

// Create adds a new user document. The user.ID (Firebase Auth UID) is the document ID.
func (r *firestoreUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return errors.New("user ID cannot be empty for Create operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(user.ID).Create(ctx, user)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("user with ID '%s' already exists: %w", user.ID, err)
		}
		return fmt.Errorf("failed to create user with ID '%s': %w", user.ID, err)
	}
	return nil
}

// GetByID retrieves a user document by its ID (Firebase Auth UID).
func (r *firestoreUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("user with ID '%s' not found: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user with ID '%s': %w", userID, err)
	}

	var user models.User
	if err := docSnap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user data for ID '%s': %w", userID, err)
	}
	user.ID = docSnap.Ref.ID
	return &user, nil
}

// Update overwrites the fields present in user, creating the document if needed.
func (r *firestoreUserRepository) Update(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return errors.New("user ID cannot be empty for Update operation")
	}
	user.UpdatedAt = time.Now().UTC()
	if _, err := r.client.Collection(usersCollection).Doc(user.ID).Set(ctx, user); err != nil {
		return fmt.Errorf("failed to update user with ID '%s': %w", user.ID, err)
	}
	return nil
}

// Mutate reads, modifies and writes one user document inside a transaction.
// Firestore retries the function on contention, so fn must be free of side effects.
// An error from fn aborts the transaction and is returned wrapped.
func (r *firestoreUserRepository) Mutate(ctx context.Context, userID string, fn UserMutation) (*models.User, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for Mutate operation")
	}
	docRef := r.client.Collection(usersCollection).Doc(userID)

	var result models.User
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var user models.User
		exists := true
		docSnap, err := tx.Get(docRef)
		switch {
		case status.Code(err) == codes.NotFound:
			exists = false
		case err != nil:
			return err
		default:
			if err := docSnap.DataTo(&user); err != nil {
				return err
			}
		}
		user.ID = userID

		if err := fn(&user, exists); err != nil {
			return err
		}
		user.UpdatedAt = time.Now().UTC()
		result = user
		return tx.Set(docRef, &user)
	})
	if err != nil {
		return nil, fmt.Errorf("user '%s' mutation: %w", userID, err)
	}
	return &result, nil
}

// AddCredits increments both credit counters with a server-side transform.
func (r *firestoreUserRepository) AddCredits(ctx context.Context, userID string, credits int64) error {
	_, err := r.client.Collection(usersCollection).Doc(userID).Set(ctx, map[string]interface{}{
		"visualizerCredits":     firestore.Increment(credits),
		"totalCreditsPurchased": firestore.Increment(credits),
		"updatedAt":             time.Now().UTC(),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to add %d credits to user '%s': %w", credits, userID, err)
	}
	return nil
}

// SetRole writes the role and admin flag, creating the document if needed.
func (r *firestoreUserRepository) SetRole(ctx context.Context, userID, role string, admin bool) error {
	_, err := r.client.Collection(usersCollection).Doc(userID).Set(ctx, map[string]interface{}{
		"role":      role,
		"admin":     admin,
		"updatedAt": time.Now().UTC(),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to set role for user '%s': %w", userID, err)
	}
	return nil
}
