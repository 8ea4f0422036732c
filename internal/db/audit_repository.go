package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"renovo-backend-go/internal/models"
)

type firestoreAuditRepository struct {
	client *firestore.Client
}

// NewFirestoreAuditRepository creates the audit log repository.
func NewFirestoreAuditRepository(client *firestore.Client) AuditRepository {
	if client == nil {
		panic("Firestore client is not initialized for AuditRepository")
	}
	return &firestoreAuditRepository{client: client}
}

// Create stores logEntry with an auto-generated ID. Timestamp is set server-side when zero.
func (r *firestoreAuditRepository) Create(ctx context.Context, logEntry models.AuditLog) error {
	if _, _, err := r.client.Collection(auditLogsCollection).Add(ctx, logEntry); err != nil {
		return fmt.Errorf("failed to create audit log '%s': %w", logEntry.Action, err)
	}
	return nil
}
