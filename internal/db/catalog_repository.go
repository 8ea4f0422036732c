package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"renovo-backend-go/internal/models"
)

type firestoreCatalogRepository struct {
	*collectionRepository[models.ServiceOffering, *models.ServiceOffering]
}

// NewFirestoreCatalogRepository returns the service catalog repository.
func NewFirestoreCatalogRepository(client *firestore.Client) CatalogRepository {
	return &firestoreCatalogRepository{
		newCollectionRepository[models.ServiceOffering, *models.ServiceOffering](client, servicesCollection, ""),
	}
}

// List returns every offering ordered by name.
func (r *firestoreCatalogRepository) List(ctx context.Context) ([]*models.ServiceOffering, error) {
	return r.collect(ctx, r.client.Collection(servicesCollection).OrderBy("name", firestore.Asc))
}

// Upsert writes offering under its ID, allocating one when empty.
func (r *firestoreCatalogRepository) Upsert(ctx context.Context, offering *models.ServiceOffering) error {
	coll := r.client.Collection(servicesCollection)
	docRef := coll.NewDoc()
	if offering.ID != "" {
		docRef = coll.Doc(offering.ID)
	}
	offering.ID = docRef.ID
	if _, err := docRef.Set(ctx, offering); err != nil {
		return fmt.Errorf("failed to upsert service '%s': %w", offering.ID, err)
	}
	return nil
}
