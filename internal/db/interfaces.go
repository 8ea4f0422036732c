package db

import (
	"context"

	"renovo-backend-go/internal/models"
)

// Collection names.
const (
	usersCollection      = "users"
	clientsCollection    = "clients"
	projectsCollection   = "projects"
	leadsCollection      = "leads"
	mediaCollection      = "media"
	milestonesCollection = "milestones"
	invoicesCollection   = "invoices"
	cartsCollection      = "carts"
	ordersCollection     = "orders"
	servicesCollection   = "services"
	auditLogsCollection  = "audit_logs"
)

// DocumentPtr constrains a generic repository to pointer-to-model types that
// expose their document ID.
type DocumentPtr[T any] interface {
	*T
	models.Document
}

// Repository is the CRUD surface shared by every resource collection.
type Repository[T any] interface {
	Create(ctx context.Context, doc *T) (string, error)
	GetByID(ctx context.Context, id string) (*T, error)
	List(ctx context.Context) ([]*T, error)
}

// ProjectScopedRepository adds listing by the projectId field.
type ProjectScopedRepository[T any] interface {
	Repository[T]
	ListByProject(ctx context.Context, projectID string) ([]*T, error)
}

// ProjectRepository stores projects. AppendAfterImage adds a visualizer result
// image and returns the updated project.
type ProjectRepository interface {
	Repository[models.Project]
	AppendAfterImage(ctx context.Context, projectID, imageURL string) (*models.Project, error)
}

// UserMutation is applied to a user document inside a transaction. exists is
// false when the document is absent; returning a nil error persists the user.
type UserMutation func(user *models.User, exists bool) error

// UserRepository defines the interface for user data storage operations.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	// Mutate runs a read-modify-write of one user document atomically.
	Mutate(ctx context.Context, userID string, fn UserMutation) (*models.User, error)
	// AddCredits atomically increments both credit counters.
	AddCredits(ctx context.Context, userID string, credits int64) error
	SetRole(ctx context.Context, userID, role string, admin bool) error
}

// CartMutation is applied to a cart inside a transaction. exists is false when
// the cart document is absent.
type CartMutation func(cart *models.Cart, exists bool) error

// CartRepository stores one cart document per user.
type CartRepository interface {
	Get(ctx context.Context, userID string) (*models.Cart, error)
	// Mutate runs a read-modify-write of one cart atomically.
	Mutate(ctx context.Context, userID string, fn CartMutation) (*models.Cart, error)
}

// OrderRepository stores completed checkouts keyed by checkout session ID.
type OrderRepository interface {
	Repository[models.Order]
	// RecordCompleted stores order and, when it carries credits, increments the
	// buyer's credit counters in the same transaction. It reports false without
	// writing anything when the session was already recorded.
	RecordCompleted(ctx context.Context, order *models.Order) (bool, error)
}

// CatalogRepository stores service offerings.
type CatalogRepository interface {
	List(ctx context.Context) ([]*models.ServiceOffering, error)
	Upsert(ctx context.Context, offering *models.ServiceOffering) error
}

// AuditRepository defines the interface for audit log data storage operations.
type AuditRepository interface {
	Create(ctx context.Context, logEntry models.AuditLog) error
}
