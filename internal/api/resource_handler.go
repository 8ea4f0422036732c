package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"renovo-backend-go/internal/core"
	"renovo-backend-go/internal/models"
)

// ResourceHandler serves the client, project, media, milestone and invoice collections.
type ResourceHandler struct {
	clients    core.ResourceService[models.Client]
	projects   core.ResourceService[models.Project]
	media      core.ProjectScopedService[models.Media]
	milestones core.ProjectScopedService[models.Milestone]
	invoices   core.ProjectScopedService[models.Invoice]
	logger     *zap.Logger
}

// NewResourceHandler creates a new ResourceHandler.
func NewResourceHandler(
	clients core.ResourceService[models.Client],
	projects core.ResourceService[models.Project],
	media core.ProjectScopedService[models.Media],
	milestones core.ProjectScopedService[models.Milestone],
	invoices core.ProjectScopedService[models.Invoice],
	logger *zap.Logger,
) *ResourceHandler {
	return &ResourceHandler{
		clients:    clients,
		projects:   projects,
		media:      media,
		milestones: milestones,
		invoices:   invoices,
		logger:     logger,
	}
}

func (h *ResourceHandler) mapResourceErrorToStatus(c *gin.Context, err error) {
	if errors.Is(err, core.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Resource not found"})
		return
	}
	internalError(c, h.logger, "Resource operation failed", err)
}

// ListClients handles GET /api/clients
func (h *ResourceHandler) ListClients(c *gin.Context) {
	clients, err := h.clients.GetAll(c.Request.Context())
	if err != nil {
		h.mapResourceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// GetClient handles GET /api/clients/:id
func (h *ResourceHandler) GetClient(c *gin.Context) {
	client, err := h.clients.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.mapResourceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// CreateClient handles POST /api/clients
func (h *ResourceHandler) CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if !bindJSON(c, &req) {
		return
	}
	client, err := h.clients.Create(c.Request.Context(), &models.Client{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		h.mapResourceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// ListProjects handles GET /api/projects
func (h *ResourceHandler) ListProjects(c *gin.Context) {
	projects, err := h.projects.GetAll(c.Request.Context())
	if err != nil {
		h.mapResourceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// GetProject handles GET /api/projects/:id
func (h *ResourceHandler) GetProject(c *gin.Context) {
	project, err := h.projects.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.mapResourceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// CreateProject handles POST /api/projects
func (h *ResourceHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	status := req.Status
	if status == "" {
		status = models.ProjectStatusPlanning
	}
	now := time.Now().UTC()
	project, err := h.projects.Create(c.Request.Context(), &models.Project{
		ClientID:    strings.TrimSpace(req.ClientID),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		h.mapResourceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// ListMedia handles GET /api/media with an optional projectId filter.
func (h *ResourceHandler) ListMedia(c *gin.Context) {
	var (
		media []*models.Media
		err   error
	)
	if projectID := strings.TrimSpace(c.Query("projectId")); projectID != "" {
		media, err = h.media.GetByProject(c.Request.Context(), projectID)
	} else {
		media, err = h.media.GetAll(c.Request.Context())
	}
	if err != nil {
		h.mapResourceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, media)
}

// CreateMedia handles POST /api/media
func (h *ResourceHandler) CreateMedia(c *gin.Context) {
	var req CreateMediaRequest
	if !bindJSON(c, &req) {
		return
	}
	media, err := h.media.Create(c.Request.Context(), &models.Media{
		ProjectID: strings.TrimSpace(req.ProjectID),
		Type:      req.Type,
		URL:       strings.TrimSpace(req.URL),
		Caption:   strings.TrimSpace(req.Caption),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		h.mapResourceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, media)
}

// ListMilestones handles GET /api/milestones?projectId=
func (h *ResourceHandler) ListMilestones(c *gin.Context) {
	projectID, ok := requireQuery(c, "projectId")
	if !ok {
		return
	}
	milestones, err := h.milestones.GetByProject(c.Request.Context(), projectID)
	if err != nil {
		h.mapResourceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, milestones)
}

// CreateMilestone handles POST /api/milestones
func (h *ResourceHandler) CreateMilestone(c *gin.Context) {
	var req CreateMilestoneRequest
	if !bindJSON(c, &req) {
		return
	}
	milestone, err := h.milestones.Create(c.Request.Context(), &models.Milestone{
		ProjectID:   strings.TrimSpace(req.ProjectID),
		Title:       strings.TrimSpace(req.Title),
		DueDate:     req.DueDate,
		CompletedAt: req.CompletedAt,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		h.mapResourceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, milestone)
}

// ListInvoices handles GET /api/invoices?projectId=
func (h *ResourceHandler) ListInvoices(c *gin.Context) {
	projectID, ok := requireQuery(c, "projectId")
	if !ok {
		return
	}
	invoices, err := h.invoices.GetByProject(c.Request.Context(), projectID)
	if err != nil {
		h.mapResourceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

// CreateInvoice handles POST /api/invoices
func (h *ResourceHandler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = models.InvoiceStatusUnpaid
	}
	invoice, err := h.invoices.Create(c.Request.Context(), &models.Invoice{
		ProjectID:   strings.TrimSpace(req.ProjectID),
		AmountCents: req.AmountCents,
		Status:      status,
		IssuedAt:    time.Now().UTC(),
	})
	if err != nil {
		h.mapResourceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}
