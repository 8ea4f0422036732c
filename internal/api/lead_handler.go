package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"renovo-backend-go/internal/core"
	"renovo-backend-go/internal/models"
)

// LeadHandler captures contact and quote requests.
type LeadHandler struct {
	leads  core.LeadService
	logger *zap.Logger
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(leads core.LeadService, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{leads: leads, logger: logger}
}

func leadFromRequest(req CreateLeadRequest) *models.Lead {
	lead := &models.Lead{
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.TrimSpace(req.Email),
		Phone:          strings.TrimSpace(req.Phone),
		ProjectDetails: strings.TrimSpace(req.ProjectDetails),
		Budget:         strings.TrimSpace(req.Budget),
		Timeline:       strings.TrimSpace(req.Timeline),
		Size:           strings.TrimSpace(req.Size),
		Estimate:       strings.TrimSpace(req.Estimate),
		Source:         req.Source,
		CreatedAt:      time.Now().UTC(),
	}
	if lead.Source == "" {
		lead.Source = models.LeadSourceContact
		if lead.Budget != "" || lead.Timeline != "" || lead.Size != "" || lead.Estimate != "" {
			lead.Source = models.LeadSourceQuote
		}
	}
	return lead
}

// CreateLead handles POST /api/leads
func (h *LeadHandler) CreateLead(c *gin.Context) {
	var req CreateLeadRequest
	if !bindJSON(c, &req) {
		return
	}
	lead, err := h.leads.Create(c.Request.Context(), leadFromRequest(req))
	if err != nil {
		internalError(c, h.logger, "Failed to store lead", err)
		return
	}
	c.JSON(http.StatusCreated, lead)
}

// CreateLeadFallback handles POST /api/leads-fallback. When the store is
// unavailable the lead is still emailed and the request is accepted.
func (h *LeadHandler) CreateLeadFallback(c *gin.Context) {
	var req CreateLeadRequest
	if !bindJSON(c, &req) {
		return
	}
	lead := leadFromRequest(req)
	created, err := h.leads.Create(c.Request.Context(), lead)
	if err == nil {
		c.JSON(http.StatusCreated, created)
		return
	}

	h.logger.Warn("Lead store failed, falling back to email only", zap.Error(err))
	if notifyErr := h.leads.Notify(c.Request.Context(), lead); notifyErr != nil {
		internalError(c, h.logger, "Lead fallback notification failed", notifyErr)
		return
	}
	c.JSON(http.StatusAccepted, SuccessResponse{Message: "Your request was received"})
}
