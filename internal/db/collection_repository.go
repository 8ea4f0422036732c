package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"renovo-backend-go/internal/models"
)

// ErrNotFound is returned when a document is not found in Firestore.
var ErrNotFound = errors.New("document not found")

// collectionRepository implements Repository for a single top-level collection.
type collectionRepository[T any, PT DocumentPtr[T]] struct {
	client     *firestore.Client
	collection string
	orderBy    string // optional, newest first
}

func newCollectionRepository[T any, PT DocumentPtr[T]](client *firestore.Client, collection, orderBy string) *collectionRepository[T, PT] {
	if client == nil {
		panic("Firestore client is not initialized for " + collection + " repository")
	}
	return &collectionRepository[T, PT]{client: client, collection: collection, orderBy: orderBy}
}

// NewFirestoreClientRepository returns the clients repository.
func NewFirestoreClientRepository(client *firestore.Client) Repository[models.Client] {
	return newCollectionRepository[models.Client, *models.Client](client, clientsCollection, "createdAt")
}

// NewFirestoreLeadRepository returns the leads repository.
func NewFirestoreLeadRepository(client *firestore.Client) Repository[models.Lead] {
	return newCollectionRepository[models.Lead, *models.Lead](client, leadsCollection, "createdAt")
}

// Create adds a new document with an auto-generated ID and sets that ID on doc.
func (r *collectionRepository[T, PT]) Create(ctx context.Context, doc *T) (string, error) {
	docRef := r.client.Collection(r.collection).NewDoc()
	PT(doc).SetDocumentID(docRef.ID)

	if _, err := docRef.Create(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to create %s document: %w", r.collection, err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a document by its ID.
func (r *collectionRepository[T, PT]) GetByID(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, fmt.Errorf("%s: id cannot be empty for GetByID operation", r.collection)
	}
	docSnap, err := r.client.Collection(r.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%s document '%s' not found: %w", r.collection, id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s document '%s': %w", r.collection, id, err)
	}

	var doc T
	if err := docSnap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s document '%s': %w", r.collection, id, err)
	}
	PT(&doc).SetDocumentID(docSnap.Ref.ID)
	return &doc, nil
}

// List returns every document in the collection.
func (r *collectionRepository[T, PT]) List(ctx context.Context) ([]*T, error) {
	query := r.client.Collection(r.collection).Query
	if r.orderBy != "" {
		query = query.OrderBy(r.orderBy, firestore.Desc)
	}
	return r.collect(ctx, query)
}

func (r *collectionRepository[T, PT]) collect(ctx context.Context, query firestore.Query) ([]*T, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	docs := make([]*T, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate %s: %w", r.collection, err)
		}

		var doc T
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode %s document '%s': %w", r.collection, snap.Ref.ID, err)
		}
		PT(&doc).SetDocumentID(snap.Ref.ID)
		docs = append(docs, &doc)
	}
	return docs, nil
}

// projectScopedRepository lists documents by their projectId field.
type projectScopedRepository[T any, PT DocumentPtr[T]] struct {
	*collectionRepository[T, PT]
}

// NewFirestoreMediaRepository returns the media repository.
func NewFirestoreMediaRepository(client *firestore.Client) ProjectScopedRepository[models.Media] {
	return &projectScopedRepository[models.Media, *models.Media]{
		newCollectionRepository[models.Media, *models.Media](client, mediaCollection, "createdAt"),
	}
}

// NewFirestoreMilestoneRepository returns the milestones repository.
func NewFirestoreMilestoneRepository(client *firestore.Client) ProjectScopedRepository[models.Milestone] {
	return &projectScopedRepository[models.Milestone, *models.Milestone]{
		newCollectionRepository[models.Milestone, *models.Milestone](client, milestonesCollection, "createdAt"),
	}
}

// NewFirestoreInvoiceRepository returns the invoices repository.
func NewFirestoreInvoiceRepository(client *firestore.Client) ProjectScopedRepository[models.Invoice] {
	return &projectScopedRepository[models.Invoice, *models.Invoice]{
		newCollectionRepository[models.Invoice, *models.Invoice](client, invoicesCollection, "issuedAt"),
	}
}

// ListByProject returns the documents whose projectId equals projectID.
// Unordered: ordering on another field would need a composite index.
func (r *projectScopedRepository[T, PT]) ListByProject(ctx context.Context, projectID string) ([]*T, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%s: projectID cannot be empty", r.collection)
	}
	query := r.client.Collection(r.collection).Where("projectId", "==", projectID)
	return r.collect(ctx, query)
}
