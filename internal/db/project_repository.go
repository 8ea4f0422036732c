package db

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"renovo-backend-go/internal/models"
)

type firestoreProjectRepository struct {
	*collectionRepository[models.Project, *models.Project]
}

// NewFirestoreProjectRepository returns the projects repository.
func NewFirestoreProjectRepository(client *firestore.Client) ProjectRepository {
	return &firestoreProjectRepository{
		newCollectionRepository[models.Project, *models.Project](client, projectsCollection, "createdAt"),
	}
}

// AppendAfterImage adds imageURL to afterImages with ArrayUnion, so concurrent
// appends do not overwrite each other.
func (r *firestoreProjectRepository) AppendAfterImage(ctx context.Context, projectID, imageURL string) (*models.Project, error) {
	_, err := r.client.Collection(projectsCollection).Doc(projectID).Update(ctx, []firestore.Update{
		{Path: "afterImages", Value: firestore.ArrayUnion(imageURL)},
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("project '%s' not found: %w", projectID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to append image to project '%s': %w", projectID, err)
	}
	return r.GetByID(ctx, projectID)
}
