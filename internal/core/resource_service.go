package core

import (
	"context"
	"errors"
	"fmt"

	"renovo-backend-go/internal/db"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("resource not found")

// resourceService implements ResourceService over a db.Repository.
type resourceService[T any] struct {
	repo db.Repository[T]
	kind string
}

// NewResourceService creates a CRUD service; kind names the resource in errors.
func NewResourceService[T any](repo db.Repository[T], kind string) ResourceService[T] {
	return &resourceService[T]{repo: repo, kind: kind}
}

func (s *resourceService[T]) GetAll(ctx context.Context) ([]*T, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.kind, err)
	}
	return docs, nil
}

func (s *resourceService[T]) GetByID(ctx context.Context, id string) (*T, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s '%s'", ErrNotFound, s.kind, id)
		}
		return nil, fmt.Errorf("failed to get %s '%s': %w", s.kind, id, err)
	}
	return doc, nil
}

func (s *resourceService[T]) Create(ctx context.Context, doc *T) (*T, error) {
	if _, err := s.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.kind, err)
	}
	return doc, nil
}

// projectScopedService adds GetByProject.
type projectScopedService[T any] struct {
	*resourceService[T]
	scoped db.ProjectScopedRepository[T]
}

// NewProjectScopedService creates a service for a project-scoped collection.
func NewProjectScopedService[T any](repo db.ProjectScopedRepository[T], kind string) ProjectScopedService[T] {
	return &projectScopedService[T]{
		resourceService: &resourceService[T]{repo: repo, kind: kind},
		scoped:          repo,
	}
}

func (s *projectScopedService[T]) GetByProject(ctx context.Context, projectID string) ([]*T, error) {
	docs, err := s.scoped.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s for project '%s': %w", s.kind, projectID, err)
	}
	return docs, nil
}
