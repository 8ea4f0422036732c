package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"renovo-backend-go/internal/core"
	"renovo-backend-go/internal/middleware"
)

// maxWebhookBytes bounds webhook payloads; Stripe events are far smaller.
const maxWebhookBytes = 64 << 10

// BillingHandler handles checkout and payment webhook endpoints.
type BillingHandler struct {
	billingService core.BillingService
	logger         *zap.Logger
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(bs core.BillingService, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{billingService: bs, logger: logger}
}

// mapBillingErrorToStatus maps errors from core.BillingService to HTTP status codes.
func (h *BillingHandler) mapBillingErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidPrice):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid price"})
	case errors.Is(err, core.ErrMissingImage):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "resultImageUrl is required"})
	case errors.Is(err, core.ErrInvalidCredits):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "credits must be positive"})
	case errors.Is(err, core.ErrWebhookSignature):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Webhook signature verification failed"})
	case errors.Is(err, core.ErrWebhookProcessing):
		h.logger.Warn("Webhook rejected", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Webhook processing error"})
	case errors.Is(err, core.ErrStripeClient):
		internalError(c, h.logger, "Payment provider error", err)
	default:
		internalError(c, h.logger, "Billing operation failed", err)
	}
}

// callerEmail prefers the request email and falls back to the signed-in principal.
func callerEmail(c *gin.Context, email string) string {
	if email = strings.TrimSpace(email); email != "" {
		return email
	}
	if principal, ok := middleware.PrincipalFrom(c); ok {
		return principal.Email
	}
	return ""
}

// CreateVisualizerCheckout handles POST /api/visualizer/checkout
func (h *BillingHandler) CreateVisualizerCheckout(c *gin.Context) {
	var req VisualizerCheckoutRequest
	if !bindJSON(c, &req) {
		return
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		if principal, ok := middleware.PrincipalFrom(c); ok {
			userID = principal.UID
		}
	} else if !authorizeUser(c, userID) {
		return
	}

	session, err := h.billingService.CreateVisualizerCheckout(c.Request.Context(), core.VisualizerCheckoutRequest{
		UserID:         userID,
		Email:          callerEmail(c, req.Email),
		Price:          *req.Price,
		ResultImageURL: req.ResultImageURL,
		ProjectType:    req.ProjectType,
		Style:          req.Style,
	})
	if err != nil {
		h.mapBillingErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// PurchaseCredits handles POST /api/visualizer/purchase-credits
func (h *BillingHandler) PurchaseCredits(c *gin.Context) {
	var req PurchaseCreditsRequest
	if !bindJSON(c, &req) {
		return
	}
	userID := strings.TrimSpace(req.UserID)
	if !authorizeUser(c, userID) {
		return
	}

	session, err := h.billingService.CreateCreditsCheckout(c.Request.Context(), core.CreditsCheckoutRequest{
		UserID:  userID,
		Email:   callerEmail(c, req.Email),
		Credits: req.Credits,
		Price:   *req.Price,
	})
	if err != nil {
		h.mapBillingErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// HandleStripeWebhook handles POST /api/webhooks/stripe. Stripe authenticates
// the request with the Stripe-Signature header; no session is required.
func (h *BillingHandler) HandleStripeWebhook(c *gin.Context) {
	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing Stripe-Signature header"})
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read webhook payload"})
		return
	}

	if err := h.billingService.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		h.mapBillingErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
