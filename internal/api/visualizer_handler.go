package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"renovo-backend-go/internal/core"
	"renovo-backend-go/internal/middleware"
	"renovo-backend-go/internal/models"
)

// multipartOverhead is allowed on top of the image itself for form fields and boundaries.
const multipartOverhead = 1 << 20

// VisualizerHandler serves credits, uploads and visualizer projects.
type VisualizerHandler struct {
	credits    core.CreditService
	visualizer core.VisualizerService
	logger     *zap.Logger
}

// NewVisualizerHandler creates a new VisualizerHandler.
func NewVisualizerHandler(credits core.CreditService, visualizer core.VisualizerService, logger *zap.Logger) *VisualizerHandler {
	return &VisualizerHandler{credits: credits, visualizer: visualizer, logger: logger}
}

func (h *VisualizerHandler) mapVisualizerErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrNoCredits):
		c.JSON(http.StatusBadRequest, NeedsPaymentResponse{Error: "No credits remaining", NeedsPayment: true})
	case errors.Is(err, core.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
	case errors.Is(err, core.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Project not found"})
	case errors.Is(err, core.ErrInvalidCredits):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.ErrInvalidCredits.Error()})
	case errors.Is(err, core.ErrUnsupportedMedia):
		c.JSON(http.StatusUnsupportedMediaType, ErrorResponse{Error: core.ErrUnsupportedMedia.Error()})
	case errors.Is(err, core.ErrFileTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: core.ErrFileTooLarge.Error()})
	case errors.Is(err, core.ErrInvalidUserID):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.ErrInvalidUserID.Error()})
	default:
		internalError(c, h.logger, "Visualizer operation failed", err)
	}
}

// GetCredits handles GET /api/visualizer/credits?userId=
func (h *VisualizerHandler) GetCredits(c *gin.Context) {
	userID, ok := requireQuery(c, "userId")
	if !ok || !authorizeUser(c, userID) {
		return
	}
	balance, err := h.credits.Balance(c.Request.Context(), userID)
	if err != nil {
		h.mapVisualizerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

// SetCredits handles POST /api/visualizer/credits. Admin only.
func (h *VisualizerHandler) SetCredits(c *gin.Context) {
	var req SetCreditsRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, _ := middleware.PrincipalFrom(c)
	balance, err := h.credits.Set(c.Request.Context(), actor.UID, strings.TrimSpace(req.UserID), *req.Credits)
	if err != nil {
		h.mapVisualizerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

// ConsumeCredit handles POST /api/visualizer/consume-credit
func (h *VisualizerHandler) ConsumeCredit(c *gin.Context) {
	var req ConsumeCreditRequest
	if !bindJSON(c, &req) {
		return
	}
	userID := strings.TrimSpace(req.UserID)
	if !authorizeUser(c, userID) {
		return
	}
	balance, err := h.credits.Consume(c.Request.Context(), userID)
	if err != nil {
		h.mapVisualizerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, ConsumeCreditResponse{Credits: balance.Credits, Remaining: balance.Credits})
}

// Upload handles POST /api/visualizer/upload (multipart: file, userId).
func (h *VisualizerHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, core.MaxUploadBytes+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.mapVisualizerErrorToStatus(c, core.ErrFileTooLarge)
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file is required"})
		return
	}
	userID := strings.TrimSpace(c.PostForm("userId"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "userId is required"})
		return
	}
	if !authorizeUser(c, userID) {
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		internalError(c, h.logger, "Failed to open uploaded file", err)
		return
	}
	defer file.Close()

	result, err := h.visualizer.Upload(c.Request.Context(), userID, fileHeader.Header.Get("Content-Type"), fileHeader.Size, file)
	if err != nil {
		h.mapVisualizerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// CreateProject handles POST /api/visualizer/projects
func (h *VisualizerHandler) CreateProject(c *gin.Context) {
	var req CreateVisualizerProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	userID := strings.TrimSpace(req.UserID)
	if !authorizeUser(c, userID) {
		return
	}
	images := make([]string, 0, len(req.BeforeImages))
	for _, img := range req.BeforeImages {
		images = append(images, strings.TrimSpace(img))
	}
	project := &models.Project{
		UserID:       userID,
		Title:        strings.TrimSpace(req.Title),
		ProjectType:  strings.TrimSpace(req.ProjectType),
		BeforeImages: images,
	}
	if req.Budget != nil {
		project.Budget = *req.Budget
	}

	created, err := h.visualizer.CreateProject(c.Request.Context(), project)
	if err != nil {
		h.mapVisualizerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// AddResult handles POST /api/visualizer/projects/:id/results
func (h *VisualizerHandler) AddResult(c *gin.Context) {
	var req AddResultRequest
	if !bindJSON(c, &req) {
		return
	}
	project, err := h.visualizer.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.mapVisualizerErrorToStatus(c, err)
		return
	}
	if !authorizeUser(c, project.UserID) {
		return
	}
	project, err = h.visualizer.AddResult(c.Request.Context(), project.ID, strings.TrimSpace(req.ImageURL))
	if err != nil {
		h.mapVisualizerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}
