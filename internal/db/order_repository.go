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

type firestoreOrderRepository struct {
	*collectionRepository[models.Order, *models.Order]
}

// NewFirestoreOrderRepository returns the orders repository.
func NewFirestoreOrderRepository(client *firestore.Client) OrderRepository {
	return &firestoreOrderRepository{
		newCollectionRepository[models.Order, *models.Order](client, ordersCollection, "createdAt"),
	}
}

// RecordCompleted uses the checkout session ID as the order document ID, so a
// redelivered webhook finds the existing order and grants nothing.
func (r *firestoreOrderRepository) RecordCompleted(ctx context.Context, order *models.Order) (bool, error) {
	if order.CheckoutSessionID == "" {
		return false, errors.New("checkout session ID cannot be empty for RecordCompleted")
	}
	orderRef := r.client.Collection(ordersCollection).Doc(order.CheckoutSessionID)

	var created bool
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		created = false
		_, err := tx.Get(orderRef)
		if err == nil {
			return nil
		}
		if status.Code(err) != codes.NotFound {
			return err
		}

		if err := tx.Create(orderRef, order); err != nil {
			return err
		}
		if order.Credits > 0 && order.UserID != "" {
			userRef := r.client.Collection(usersCollection).Doc(order.UserID)
			if err := tx.Set(userRef, map[string]interface{}{
				"visualizerCredits":     firestore.Increment(order.Credits),
				"totalCreditsPurchased": firestore.Increment(order.Credits),
				"updatedAt":             time.Now().UTC(),
			}, firestore.MergeAll); err != nil {
				return err
			}
		}
		created = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to record order for session '%s': %w", order.CheckoutSessionID, err)
	}
	order.ID = order.CheckoutSessionID
	return created, nil
}
