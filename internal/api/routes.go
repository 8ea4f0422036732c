package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"renovo-backend-go/internal/core"
	"renovo-backend-go/internal/identity"
	"renovo-backend-go/internal/middleware"
	"renovo-backend-go/internal/models"
	"renovo-backend-go/internal/search"
)

// Services bundles everything the handlers depend on.
type Services struct {
	Clients    core.ResourceService[models.Client]
	Projects   core.ResourceService[models.Project]
	Media      core.ProjectScopedService[models.Media]
	Milestones core.ProjectScopedService[models.Milestone]
	Invoices   core.ProjectScopedService[models.Invoice]
	Leads      core.LeadService
	Carts      core.CartService
	Credits    core.CreditService
	Packages   core.PackageService
	Billing    core.BillingService
	Auth       core.AuthService
	Visualizer core.VisualizerService
	Searcher   search.Searcher
}

// RouteOptions carries the HTTP-level settings.
type RouteOptions struct {
	Release           bool
	LeadRatePerMinute int
}

// SetupRoutes registers every route. Global middleware (request id, logging,
// recovery, CORS, metrics, edge gate) is applied by the caller.
func SetupRoutes(router *gin.Engine, provider identity.Provider, svc Services, opts RouteOptions, logger *zap.Logger) {
	authMW := middleware.NewAuthMiddleware(provider, logger)
	leadLimiter := middleware.NewRateLimiter(opts.LeadRatePerMinute)

	resourceHandler := NewResourceHandler(svc.Clients, svc.Projects, svc.Media, svc.Milestones, svc.Invoices, logger)
	leadHandler := NewLeadHandler(svc.Leads, logger)
	cartHandler := NewCartHandler(svc.Carts, logger)
	visualizerHandler := NewVisualizerHandler(svc.Credits, svc.Visualizer, logger)
	billingHandler := NewBillingHandler(svc.Billing, logger)
	packageHandler := NewPackageHandler(svc.Packages, logger)
	authHandler := NewAuthHandler(svc.Auth, opts.Release, logger)
	searchHandler := NewSearchHandler(svc.Searcher, logger)

	api := router.Group("/api", authMW.Authenticate())
	{
		api.GET("/clients", resourceHandler.ListClients)
		api.POST("/clients", resourceHandler.CreateClient)
		api.GET("/clients/:id", resourceHandler.GetClient)

		api.GET("/projects", resourceHandler.ListProjects)
		api.POST("/projects", resourceHandler.CreateProject)
		api.GET("/projects/:id", resourceHandler.GetProject)

		api.GET("/media", resourceHandler.ListMedia)
		api.POST("/media", resourceHandler.CreateMedia)
		api.GET("/milestones", resourceHandler.ListMilestones)
		api.POST("/milestones", resourceHandler.CreateMilestone)
		api.GET("/invoices", resourceHandler.ListInvoices)
		api.POST("/invoices", resourceHandler.CreateInvoice)

		api.POST("/leads", leadLimiter.Middleware(), leadHandler.CreateLead)
		api.POST("/leads-fallback", leadLimiter.Middleware(), leadHandler.CreateLeadFallback)

		cart := api.Group("/cart")
		{
			cart.GET("", cartHandler.GetCart)
			cart.POST("/add", cartHandler.AddItem)
			cart.POST("/remove", cartHandler.RemoveItem)
			cart.POST("/update", cartHandler.UpdateItem)
		}

		visualizer := api.Group("/visualizer")
		{
			visualizer.GET("/credits", visualizerHandler.GetCredits)
			visualizer.POST("/credits", authMW.RequireAdmin(), visualizerHandler.SetCredits)
			visualizer.POST("/consume-credit", visualizerHandler.ConsumeCredit)
			visualizer.POST("/checkout", billingHandler.CreateVisualizerCheckout)
			visualizer.POST("/purchase-credits", billingHandler.PurchaseCredits)
			visualizer.POST("/upload", visualizerHandler.Upload)
			visualizer.POST("/projects", visualizerHandler.CreateProject)
			visualizer.POST("/projects/:id/results", visualizerHandler.AddResult)
		}

		api.POST("/packages/suggest", packageHandler.Suggest)
		api.GET("/search", searchHandler.Search)

		auth := api.Group("/auth")
		{
			auth.POST("/session", authHandler.CreateSession)
			auth.POST("/logout", authHandler.Logout)
			auth.OPTIONS("/logout", authHandler.LogoutOptions)
			auth.GET("/me", authMW.RequireAuth(), authHandler.Me)
		}

		api.POST("/admin/set-claims", authMW.RequireAdmin(), authHandler.SetClaims)
	}

	// Stripe authenticates webhooks by signature; no session middleware.
	router.POST("/api/webhooks/stripe", billingHandler.HandleStripeWebhook)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	logger.Info("API routes configured")
}
