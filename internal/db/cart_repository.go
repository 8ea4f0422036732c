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

type firestoreCartRepository struct {
	client *firestore.Client
}

// NewFirestoreCartRepository creates the carts repository.
func NewFirestoreCartRepository(client *firestore.Client) CartRepository {
	if client == nil {
		panic("Firestore client is not initialized for CartRepository")
	}
	return &firestoreCartRepository{client: client}
}

// Get returns the user's cart or ErrNotFound.
func (r *firestoreCartRepository) Get(ctx context.Context, userID string) (*models.Cart, error) {
	docSnap, err := r.client.Collection(cartsCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("cart for user '%s' not found: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart for user '%s': %w", userID, err)
	}

	var cart models.Cart
	if err := docSnap.DataTo(&cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart for user '%s': %w", userID, err)
	}
	cart.UserID = userID
	return &cart, nil
}

// Mutate applies fn to the cart inside a transaction and writes the full item list.
func (r *firestoreCartRepository) Mutate(ctx context.Context, userID string, fn CartMutation) (*models.Cart, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for cart Mutate operation")
	}
	docRef := r.client.Collection(cartsCollection).Doc(userID)

	var result models.Cart
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var cart models.Cart
		exists := true
		docSnap, err := tx.Get(docRef)
		switch {
		case status.Code(err) == codes.NotFound:
			exists = false
		case err != nil:
			return err
		default:
			if err := docSnap.DataTo(&cart); err != nil {
				return err
			}
		}
		cart.UserID = userID

		if err := fn(&cart, exists); err != nil {
			return err
		}
		if cart.Items == nil {
			cart.Items = []models.CartItem{}
		}
		cart.UpdatedAt = time.Now().UTC()
		result = cart
		return tx.Set(docRef, &cart)
	})
	if err != nil {
		return nil, fmt.Errorf("cart '%s' mutation: %w", userID, err)
	}
	return &result, nil
}
