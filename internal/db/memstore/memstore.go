// Package memstore implements the db repositories in process memory. It backs
// STORE_DRIVER=memory and the service tests; data is lost on restart.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"renovo-backend-go/internal/db"
	"renovo-backend-go/internal/models"
)

// Store bundles one in-memory repository per collection.
type Store struct {
	Clients    *Collection[models.Client, *models.Client]
	Projects   *ProjectCollection
	Leads      *Collection[models.Lead, *models.Lead]
	Media      *Collection[models.Media, *models.Media]
	Milestones *Collection[models.Milestone, *models.Milestone]
	Invoices   *Collection[models.Invoice, *models.Invoice]
	Orders     *OrderCollection
	Users      *UserRepository
	Carts      *CartRepository
	Catalog    *CatalogRepository
	Audit      *AuditRepository
}

// New returns an empty Store.
func New() *Store {
	store := &Store{
		Clients:    NewCollection[models.Client, *models.Client](),
		Projects:   &ProjectCollection{Collection: NewCollection[models.Project, *models.Project]()},
		Leads:      NewCollection[models.Lead, *models.Lead](),
		Media:      NewCollection[models.Media, *models.Media](),
		Milestones: NewCollection[models.Milestone, *models.Milestone](),
		Invoices:   NewCollection[models.Invoice, *models.Invoice](),
		Users:      &UserRepository{users: make(map[string]models.User)},
		Carts:      &CartRepository{carts: make(map[string]models.Cart)},
		Catalog:    &CatalogRepository{offerings: make(map[string]models.ServiceOffering)},
		Audit:      &AuditRepository{},
	}
	store.Orders = &OrderCollection{Collection: NewCollection[models.Order, *models.Order](), users: store.Users}
	return store
}

// Collection is a generic in-memory document collection.
type Collection[T any, PT db.DocumentPtr[T]] struct {
	mu    sync.RWMutex
	docs  map[string]T
	order []string
}

// NewCollection returns an empty collection.
func NewCollection[T any, PT db.DocumentPtr[T]]() *Collection[T, PT] {
	return &Collection[T, PT]{docs: make(map[string]T)}
}

// Create stores a copy of doc under a fresh ID.
func (c *Collection[T, PT]) Create(_ context.Context, doc *T) (string, error) {
	id := uuid.NewString()
	PT(doc).SetDocumentID(id)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[id] = *doc
	c.order = append(c.order, id)
	return id, nil
}

// GetByID returns a copy of the document or db.ErrNotFound.
func (c *Collection[T, PT]) GetByID(_ context.Context, id string) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[id]
	if !ok {
		return nil, fmt.Errorf("document '%s' not found: %w", id, db.ErrNotFound)
	}
	return &doc, nil
}

// List returns every document, newest first.
func (c *Collection[T, PT]) List(_ context.Context) ([]*T, error) {
	return c.filter(func(*T) bool { return true }), nil
}

// ListByProject returns documents whose ProjectRef equals projectID.
func (c *Collection[T, PT]) ListByProject(_ context.Context, projectID string) ([]*T, error) {
	return c.filter(func(doc *T) bool {
		scoped, ok := any(PT(doc)).(models.ProjectScoped)
		return ok && scoped.ProjectRef() == projectID
	}), nil
}

// Len reports the number of stored documents.
func (c *Collection[T, PT]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

func (c *Collection[T, PT]) filter(keep func(*T) bool) []*T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	docs := make([]*T, 0, len(c.order))
	for i := len(c.order) - 1; i >= 0; i-- {
		doc := c.docs[c.order[i]]
		if keep(&doc) {
			docs = append(docs, &doc)
		}
	}
	return docs
}

// ProjectCollection adds visualizer image appends to the projects collection.
type ProjectCollection struct {
	*Collection[models.Project, *models.Project]
}

// AppendAfterImage adds imageURL to the project's afterImages unless already present.
func (p *ProjectCollection) AppendAfterImage(_ context.Context, projectID, imageURL string) (*models.Project, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	project, ok := p.docs[projectID]
	if !ok {
		return nil, fmt.Errorf("project '%s' not found: %w", projectID, db.ErrNotFound)
	}
	for _, existing := range project.AfterImages {
		if existing == imageURL {
			return &project, nil
		}
	}
	project.AfterImages = append(append([]string(nil), project.AfterImages...), imageURL)
	project.UpdatedAt = time.Now().UTC()
	p.docs[projectID] = project
	return &project, nil
}

// OrderCollection records completed checkouts keyed by session ID.
type OrderCollection struct {
	*Collection[models.Order, *models.Order]
	users *UserRepository
}

// RecordCompleted holds the orders lock across the credit grant.
func (o *OrderCollection) RecordCompleted(ctx context.Context, order *models.Order) (bool, error) {
	if order.CheckoutSessionID == "" {
		return false, fmt.Errorf("checkout session ID cannot be empty for RecordCompleted")
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.docs[order.CheckoutSessionID]; ok {
		return false, nil
	}
	if order.Credits > 0 && order.UserID != "" {
		if err := o.users.AddCredits(ctx, order.UserID, order.Credits); err != nil {
			return false, err
		}
	}
	order.ID = order.CheckoutSessionID
	o.docs[order.ID] = *order
	o.order = append(o.order, order.ID)
	return true, nil
}

// UserRepository is an in-memory db.UserRepository.
type UserRepository struct {
	mu    sync.Mutex
	users map[string]models.User
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, fmt.Errorf("user with ID '%s' not found: %w", userID, db.ErrNotFound)
	}
	return &user, nil
}

func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; ok {
		return fmt.Errorf("user with ID '%s' already exists", user.ID)
	}
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = *user
	return nil
}

// Mutate holds the repository lock for the whole read-modify-write.
func (r *UserRepository) Mutate(_ context.Context, userID string, fn db.UserMutation) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[userID]
	user.ID = userID
	if err := fn(&user, exists); err != nil {
		return nil, fmt.Errorf("user '%s' mutation: %w", userID, err)
	}
	user.UpdatedAt = time.Now().UTC()
	r.users[userID] = user
	return &user, nil
}

func (r *UserRepository) AddCredits(_ context.Context, userID string, credits int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user := r.users[userID]
	user.ID = userID
	user.VisualizerCredits += credits
	user.TotalCreditsPurchased += credits
	user.UpdatedAt = time.Now().UTC()
	r.users[userID] = user
	return nil
}

func (r *UserRepository) SetRole(_ context.Context, userID, role string, admin bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user := r.users[userID]
	user.ID = userID
	user.Role = role
	user.Admin = admin
	user.UpdatedAt = time.Now().UTC()
	r.users[userID] = user
	return nil
}

// Put stores user as-is; used to seed fixtures.
func (r *UserRepository) Put(user models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
}

// CartRepository is an in-memory db.CartRepository.
type CartRepository struct {
	mu     sync.Mutex
	carts  map[string]models.Cart
	writes int
}

func (r *CartRepository) Get(_ context.Context, userID string) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[userID]
	if !ok {
		return nil, fmt.Errorf("cart for user '%s' not found: %w", userID, db.ErrNotFound)
	}
	cart.Items = append([]models.CartItem{}, cart.Items...)
	return &cart, nil
}

// Mutate works on a copy of the items so a failed fn leaves the stored cart untouched.
func (r *CartRepository) Mutate(_ context.Context, userID string, fn db.CartMutation) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, exists := r.carts[userID]
	cart.UserID = userID
	cart.Items = append([]models.CartItem{}, cart.Items...)
	if err := fn(&cart, exists); err != nil {
		return nil, fmt.Errorf("cart '%s' mutation: %w", userID, err)
	}
	cart.UpdatedAt = time.Now().UTC()
	r.carts[userID] = cart
	r.writes++

	out := cart
	out.Items = append([]models.CartItem{}, cart.Items...)
	return &out, nil
}

// Writes reports how many mutations were persisted.
func (r *CartRepository) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

// CatalogRepository is an in-memory db.CatalogRepository.
type CatalogRepository struct {
	mu        sync.RWMutex
	offerings map[string]models.ServiceOffering
}

func (r *CatalogRepository) List(_ context.Context) ([]*models.ServiceOffering, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.ServiceOffering, 0, len(r.offerings))
	for _, o := range r.offerings {
		o := o
		out = append(out, &o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CatalogRepository) Upsert(_ context.Context, offering *models.ServiceOffering) error {
	if offering.ID == "" {
		offering.ID = uuid.NewString()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offerings[offering.ID] = *offering
	return nil
}

// AuditRepository is an in-memory db.AuditRepository.
type AuditRepository struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func (r *AuditRepository) Create(_ context.Context, logEntry models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if logEntry.Timestamp.IsZero() {
		logEntry.Timestamp = time.Now().UTC()
	}
	r.entries = append(r.entries, logEntry)
	return nil
}

// Entries returns a copy of the recorded audit logs.
func (r *AuditRepository) Entries() []models.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.AuditLog(nil), r.entries...)
}

var (
	_ db.Repository[models.Client]             = (*Collection[models.Client, *models.Client])(nil)
	_ db.ProjectScopedRepository[models.Media] = (*Collection[models.Media, *models.Media])(nil)
	_ db.ProjectRepository                     = (*ProjectCollection)(nil)
	_ db.OrderRepository                       = (*OrderCollection)(nil)
	_ db.UserRepository                        = (*UserRepository)(nil)
	_ db.CartRepository                        = (*CartRepository)(nil)
	_ db.CatalogRepository                     = (*CatalogRepository)(nil)
	_ db.AuditRepository                       = (*AuditRepository)(nil)
)
