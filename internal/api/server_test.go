package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"renovo-backend-go/internal/cache"
	"renovo-backend-go/internal/core"
	"renovo-backend-go/internal/db/memstore"
	"renovo-backend-go/internal/events"
	"renovo-backend-go/internal/identity"
	"renovo-backend-go/internal/mailer"
	"renovo-backend-go/internal/middleware"
	"renovo-backend-go/internal/models"
	"renovo-backend-go/internal/payments"
	"renovo-backend-go/internal/search"
	"renovo-backend-go/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubGateway struct {
	event *payments.Event
}

func (g *stubGateway) CreateCheckoutSession(_ context.Context, req payments.CheckoutRequest) (*payments.CheckoutSession, error) {
	return &payments.CheckoutSession{ID: "cs_test", URL: "https://checkout.example/cs_test"}, nil
}

func (g *stubGateway) ParseWebhook(_ []byte, signature string) (*payments.Event, error) {
	if signature != "t=1,v1=good" {
		return nil, payments.ErrInvalidSignature
	}
	return g.event, nil
}

type testServer struct {
	router   *gin.Engine
	store    *memstore.Store
	provider *identity.StaticProvider
	gateway  *stubGateway
	objects  *storage.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	store := memstore.New()
	provider := identity.NewStaticProvider()
	provider.Register("token-u1", identity.Principal{UID: "u1", Email: "u1@example.com"})
	provider.Register("token-admin", identity.Principal{UID: "root", Email: "root@example.com", Admin: true})
	gateway := &stubGateway{}
	objects := storage.NewMemoryStore()

	audit := core.NewAuditService(store.Audit, logger)
	users := core.NewUserService(store.Users)
	svc := Services{
		Clients:    core.NewResourceService[models.Client](store.Clients, "client"),
		Projects:   core.NewResourceService[models.Project](store.Projects, "project"),
		Media:      core.NewProjectScopedService[models.Media](store.Media, "media"),
		Milestones: core.NewProjectScopedService[models.Milestone](store.Milestones, "milestone"),
		Invoices:   core.NewProjectScopedService[models.Invoice](store.Invoices, "invoice"),
		Leads:      core.NewLeadService(store.Leads, mailer.NoopMailer{}, events.NoopPublisher{}, nil, logger),
		Carts:      core.NewCartService(store.Carts),
		Credits:    core.NewCreditService(store.Users, audit, events.NoopPublisher{}, logger),
		Packages:   core.NewPackageService(search.NewCatalogSearcher(store.Catalog), cache.NewLRUCache(64, time.Minute), time.Minute, logger),
		Billing:    core.NewBillingService(gateway, store.Orders, audit, events.NoopPublisher{}, "https://renovo.example", logger),
		Auth:       core.NewAuthService(provider, users, store.Users, audit, logger),
		Visualizer: core.NewVisualizerService(objects, store.Projects),
		Searcher:   search.NewCatalogSearcher(store.Catalog),
	}

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.RecoveryMiddleware(logger))
	SetupRoutes(router, provider, svc, RouteOptions{LeadRatePerMinute: 1000}, logger)
	return &testServer{router: router, store: store, provider: provider, gateway: gateway, objects: objects}
}

type requestOption func(*http.Request)

func withBearer(token string) requestOption {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func (s *testServer) do(method, path string, body interface{}, opts ...requestOption) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(req)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
