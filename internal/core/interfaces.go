package core

import (
	"context"
	"io"

	"renovo-backend-go/internal/identity"
	"renovo-backend-go/internal/models"
	"renovo-backend-go/internal/payments"
)

// ResourceService is the CRUD façade shared by the resource collections.
type ResourceService[T any] interface {
	GetAll(ctx context.Context) ([]*T, error)
	GetByID(ctx context.Context, id string) (*T, error)
	// Create persists doc with a server-assigned ID and returns it with the ID set.
	Create(ctx context.Context, doc *T) (*T, error)
}

// ProjectScopedService adds listing by project for media, milestones and invoices.
type ProjectScopedService[T any] interface {
	ResourceService[T]
	GetByProject(ctx context.Context, projectID string) ([]*T, error)
}

// UserService defines the interface for user-related operations.
type UserService interface {
	// GetOrCreate retrieves a user by ID. If the user doesn't exist, it creates a new one with default values.
	GetOrCreate(ctx context.Context, userID, email, displayName string) (*models.User, bool, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	// RecordLogin ensures the profile exists and stamps lastLoginAt.
	RecordLogin(ctx context.Context, userID, email, displayName string) (*models.User, error)
}

// LeadService captures leads and notifies the business.
type LeadService interface {
	ResourceService[models.Lead]
	// Notify emails the business about lead without storing it.
	Notify(ctx context.Context, lead *models.Lead) error
}

// CartService mutates per-user carts atomically.
type CartService interface {
	Get(ctx context.Context, userID string) (*models.Cart, error)
	Add(ctx context.Context, userID string, item models.CartItem, quantity int) (*models.Cart, error)
	Remove(ctx context.Context, userID, itemID string) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*models.Cart, error)
}

// CreditService reads and mutates visualizer credit balances.
type CreditService interface {
	Balance(ctx context.Context, userID string) (*CreditBalance, error)
	Consume(ctx context.Context, userID string) (*CreditBalance, error)
	// Set overwrites both counters; actorID is recorded in the audit log.
	Set(ctx context.Context, actorID, userID string, credits int64) (*CreditBalance, error)
}

// PackageService suggests service bundles. Suggest returns the encoded response
// payload and whether it came from the cache.
type PackageService interface {
	Suggest(ctx context.Context, req SuggestRequest) ([]byte, bool, error)
}

// BillingService creates checkout sessions and applies payment webhooks.
type BillingService interface {
	CreateVisualizerCheckout(ctx context.Context, req VisualizerCheckoutRequest) (*payments.CheckoutSession, error)
	CreateCreditsCheckout(ctx context.Context, req CreditsCheckoutRequest) (*payments.CheckoutSession, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// AuthService manages sessions and admin claim assignment.
type AuthService interface {
	StartSession(ctx context.Context, idToken string) (*Session, error)
	EndSession(ctx context.Context, sessionCookie string)
	SetClaims(ctx context.Context, actor *identity.Principal, uid string, claims map[string]interface{}) (*SetClaimsResult, error)
}

// VisualizerService handles photo uploads and visualizer projects.
type VisualizerService interface {
	Upload(ctx context.Context, userID, contentType string, size int64, r io.Reader) (*UploadResult, error)
	CreateProject(ctx context.Context, project *models.Project) (*models.Project, error)
	GetProject(ctx context.Context, projectID string) (*models.Project, error)
	AddResult(ctx context.Context, projectID, imageURL string) (*models.Project, error)
}

// AuditService defines the interface for audit logging operations.
type AuditService interface {
	CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error
	// Record writes an entry and only logs a failure.
	Record(ctx context.Context, actorID, action, targetType, targetID string, details map[string]interface{})
}
