package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"renovo-backend-go/internal/api"
	"renovo-backend-go/internal/cache"
	"renovo-backend-go/internal/catalog"
	"renovo-backend-go/internal/config"
	"renovo-backend-go/internal/core"
	"renovo-backend-go/internal/db"
	"renovo-backend-go/internal/db/memstore"
	"renovo-backend-go/internal/events"
	"renovo-backend-go/internal/identity"
	"renovo-backend-go/internal/mailer"
	"renovo-backend-go/internal/models"
	"renovo-backend-go/internal/payments"
	"renovo-backend-go/internal/search"
	"renovo-backend-go/internal/storage"
)

// redisKeyPrefix namespaces this service's keys in a shared Redis; cache users
// add their own key prefix after it.
const redisKeyPrefix = "renovo:"

// repositories is the storage surface selected by STORE_DRIVER.
type repositories struct {
	clients    db.Repository[models.Client]
	projects   db.ProjectRepository
	leads      db.Repository[models.Lead]
	media      db.ProjectScopedRepository[models.Media]
	milestones db.ProjectScopedRepository[models.Milestone]
	invoices   db.ProjectScopedRepository[models.Invoice]
	users      db.UserRepository
	carts      db.CartRepository
	orders     db.OrderRepository
	catalog    db.CatalogRepository
	audit      db.AuditRepository
}

type dependencies struct {
	provider identity.Provider
	services api.Services
	closers  []io.Closer
	logger   *zap.Logger
}

// Close releases broker, cache and database connections in reverse order.
func (d *dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i].Close(); err != nil {
			d.logger.Warn("Failed to close dependency", zap.Error(err))
		}
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func buildDependencies(ctx context.Context, appConfig *config.Config, logger *zap.Logger) (*dependencies, error) {
	deps := &dependencies{logger: logger}

	repos, provider, objects, err := buildStore(ctx, appConfig, deps, logger)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.provider = provider

	if appConfig.CatalogFile != "" {
		offerings, err := catalog.LoadFile(appConfig.CatalogFile)
		if err != nil {
			deps.Close()
			return nil, err
		}
		n, err := catalog.Seed(ctx, repos.catalog, offerings, logger)
		if err != nil {
			deps.Close()
			return nil, err
		}
		logger.Info("Catalog seeded", zap.Int("services", n), zap.String("file", appConfig.CatalogFile))
	}

	packageCache, err := buildCache(ctx, appConfig, deps, logger)
	if err != nil {
		deps.Close()
		return nil, err
	}
	publisher, err := buildPublisher(appConfig, deps, logger)
	if err != nil {
		deps.Close()
		return nil, err
	}
	mail, err := buildMailer(appConfig, logger)
	if err != nil {
		deps.Close()
		return nil, err
	}
	searcher := buildSearcher(appConfig, repos.catalog, logger)
	gateway := payments.NewStripeGateway(appConfig.StripeSecretKey, appConfig.StripeWebhookSecret, logger)

	auditService := core.NewAuditService(repos.audit, logger)
	userService := core.NewUserService(repos.users)

	deps.services = api.Services{
		Clients:    core.NewResourceService[models.Client](repos.clients, "client"),
		Projects:   core.NewResourceService[models.Project](repos.projects, "project"),
		Media:      core.NewProjectScopedService[models.Media](repos.media, "media"),
		Milestones: core.NewProjectScopedService[models.Milestone](repos.milestones, "milestone"),
		Invoices:   core.NewProjectScopedService[models.Invoice](repos.invoices, "invoice"),
		Leads:      core.NewLeadService(repos.leads, mail, publisher, splitList(appConfig.NotifyTo), logger),
		Carts:      core.NewCartService(repos.carts),
		Credits:    core.NewCreditService(repos.users, auditService, publisher, logger),
		Packages:   core.NewPackageService(searcher, packageCache, appConfig.PackageCacheTTL, logger),
		Billing:    core.NewBillingService(gateway, repos.orders, auditService, publisher, appConfig.AppBaseURL, logger),
		Auth:       core.NewAuthService(provider, userService, repos.users, auditService, logger),
		Visualizer: core.NewVisualizerService(objects, repos.projects),
		Searcher:   searcher,
	}
	logger.Info("Core services initialized")
	return deps, nil
}

func buildStore(ctx context.Context, appConfig *config.Config, deps *dependencies, logger *zap.Logger) (*repositories, identity.Provider, storage.ObjectStore, error) {
	if appConfig.StoreDriver == config.StoreDriverMemory {
		logger.Warn("Using the in-memory store; data is lost on restart and no ID token verifies until registered")
		store := memstore.New()
		return &repositories{
			clients:    store.Clients,
			projects:   store.Projects,
			leads:      store.Leads,
			media:      store.Media,
			milestones: store.Milestones,
			invoices:   store.Invoices,
			users:      store.Users,
			carts:      store.Carts,
			orders:     store.Orders,
			catalog:    store.Catalog,
			audit:      store.Audit,
		}, identity.NewStaticProvider(), storage.NewMemoryStore(), nil
	}

	if err := db.InitFirebase(ctx, appConfig, logger); err != nil {
		return nil, nil, nil, fmt.Errorf("initializing firebase: %w", err)
	}
	deps.closers = append(deps.closers, closerFunc(db.Close))

	client := db.GetFirestoreClient()
	authClient := db.GetFirebaseAuthClient()
	if client == nil || authClient == nil {
		return nil, nil, nil, errors.New("firebase clients are nil after initialization")
	}
	objects, err := storage.NewFirebaseBucketStore(db.GetFirebaseStorageClient(), appConfig.FirebaseStorageBucket)
	if err != nil {
		return nil, nil, nil, err
	}

	return &repositories{
		clients:    db.NewFirestoreClientRepository(client),
		projects:   db.NewFirestoreProjectRepository(client),
		leads:      db.NewFirestoreLeadRepository(client),
		media:      db.NewFirestoreMediaRepository(client),
		milestones: db.NewFirestoreMilestoneRepository(client),
		invoices:   db.NewFirestoreInvoiceRepository(client),
		users:      db.NewFirestoreUserRepository(client),
		carts:      db.NewFirestoreCartRepository(client),
		orders:     db.NewFirestoreOrderRepository(client),
		catalog:    db.NewFirestoreCatalogRepository(client),
		audit:      db.NewFirestoreAuditRepository(client),
	}, identity.NewFirebaseProvider(authClient, logger), objects, nil
}

func buildCache(ctx context.Context, appConfig *config.Config, deps *dependencies, logger *zap.Logger) (cache.Cache, error) {
	if appConfig.RedisAddr == "" {
		logger.Info("Package cache: in-process LRU", zap.Int("size", appConfig.PackageCacheSize))
		return cache.NewLRUCache(appConfig.PackageCacheSize, appConfig.PackageCacheTTL), nil
	}
	redisCache, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Address:  appConfig.RedisAddr,
		Password: appConfig.RedisPassword,
		DB:       appConfig.RedisDB,
		Prefix:   redisKeyPrefix,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	deps.closers = append(deps.closers, redisCache)
	return redisCache, nil
}

func buildPublisher(appConfig *config.Config, deps *dependencies, logger *zap.Logger) (events.Publisher, error) {
	if appConfig.AMQPURL == "" {
		return events.NoopPublisher{}, nil
	}
	publisher, err := events.NewRabbitMQPublisher(events.RabbitMQConfig{URL: appConfig.AMQPURL, Queue: appConfig.AMQPQueue}, logger)
	if err != nil {
		return nil, err
	}
	deps.closers = append(deps.closers, publisher)
	return publisher, nil
}

func buildMailer(appConfig *config.Config, logger *zap.Logger) (mailer.Mailer, error) {
	if appConfig.SMTPHost == "" {
		logger.Info("SMTP not configured; lead notifications are disabled")
		return mailer.NoopMailer{}, nil
	}
	return mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     appConfig.SMTPHost,
		Port:     appConfig.SMTPPort,
		Username: appConfig.SMTPUser,
		Password: appConfig.SMTPPass,
		From:     appConfig.NotifyFrom,
	})
}

func buildSearcher(appConfig *config.Config, repo db.CatalogRepository, logger *zap.Logger) search.Searcher {
	if appConfig.SearchURL == "" {
		return search.NewCatalogSearcher(repo)
	}
	return search.NewHTTPSearcher(search.HTTPSearcherConfig{
		BaseURL:          appConfig.SearchURL,
		Timeout:          10 * time.Second,
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
	}, logger)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
