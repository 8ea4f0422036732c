package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"renovo-backend-go/internal/db"
	"renovo-backend-go/internal/events"
	"renovo-backend-go/internal/metrics"
	"renovo-backend-go/internal/models"
	"renovo-backend-go/internal/payments"
)

// Errors for billing operations.
var (
	ErrInvalidPrice      = errors.New("price must be a positive number of cents")
	ErrMissingImage      = errors.New("resultImageUrl is required")
	ErrStripeClient      = errors.New("stripe client operation failed")
	ErrWebhookSignature  = errors.New("stripe webhook signature verification failed")
	ErrWebhookProcessing = errors.New("stripe webhook processing failed")
)

// Checkout metadata keys.
const (
	MetadataKind           = "kind"
	MetadataUserID         = "userId"
	MetadataCredits        = "credits"
	MetadataResultImageURL = "resultImageUrl"
	MetadataProjectType    = "projectType"
	MetadataStyle          = "style"
)

// VisualizerCheckoutRequest buys a one-off design built from a visualizer result.
type VisualizerCheckoutRequest struct {
	UserID         string
	Email          string
	Price          float64 // cents
	ResultImageURL string
	ProjectType    string
	Style          string
}

// CreditsCheckoutRequest buys a pack of visualizer credits.
type CreditsCheckoutRequest struct {
	UserID  string
	Email   string
	Credits int64
	Price   float64 // cents
}

type billingService struct {
	gateway   payments.Gateway
	orders    db.OrderRepository
	audit     AuditService
	publisher events.Publisher
	baseURL   string
	logger    *zap.Logger
}

// NewBillingService creates a BillingService. appBaseURL builds the success and cancel URLs.
func NewBillingService(gateway payments.Gateway, orders db.OrderRepository, audit AuditService, publisher events.Publisher, appBaseURL string, logger *zap.Logger) BillingService {
	return &billingService{
		gateway:   gateway,
		orders:    orders,
		audit:     audit,
		publisher: publisher,
		baseURL:   strings.TrimRight(appBaseURL, "/"),
		logger:    logger,
	}
}

// priceCents validates a price in cents and rounds it to an integer.
func priceCents(price float64) (int64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, ErrInvalidPrice
	}
	rounded := math.Round(price)
	// float64(math.MaxInt64) is 2^63, itself out of int64 range.
	if rounded >= math.MaxInt64 {
		return 0, ErrInvalidPrice
	}
	cents := int64(rounded)
	if cents < 1 {
		return 0, ErrInvalidPrice
	}
	return cents, nil
}

// CreateVisualizerCheckout creates a session for a design purchase. No
// idempotency key is sent; repeated calls create separate sessions.
func (s *billingService) CreateVisualizerCheckout(ctx context.Context, req VisualizerCheckoutRequest) (*payments.CheckoutSession, error) {
	cents, err := priceCents(req.Price)
	if err != nil {
		return nil, err
	}
	imageURL := strings.TrimSpace(req.ResultImageURL)
	if imageURL == "" {
		return nil, ErrMissingImage
	}

	projectType := strings.TrimSpace(req.ProjectType)
	name := "Custom Design Package"
	if projectType != "" {
		name = fmt.Sprintf("Custom %s Design Package", titleWords(projectType))
	}
	description := "Detailed renovation plan based on your AI visualization"
	if style := strings.TrimSpace(req.Style); style != "" {
		description = fmt.Sprintf("%s (%s style)", description, style)
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payments.CheckoutRequest{
		ProductName:   name,
		Description:   description,
		ImageURL:      imageURL,
		AmountCents:   cents,
		CustomerEmail: req.Email,
		SuccessURL:    s.baseURL + "/visualizer/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.baseURL + "/visualizer?canceled=true",
		Metadata: map[string]string{
			MetadataKind:           models.OrderKindDesign,
			MetadataUserID:         req.UserID,
			MetadataResultImageURL: imageURL,
			MetadataProjectType:    projectType,
			MetadataStyle:          strings.TrimSpace(req.Style),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStripeClient, err)
	}
	metrics.CheckoutSessionsCreated.WithLabelValues(models.OrderKindDesign).Inc()
	return session, nil
}

// CreateCreditsCheckout creates a session for a credit pack.
func (s *billingService) CreateCreditsCheckout(ctx context.Context, req CreditsCheckoutRequest) (*payments.CheckoutSession, error) {
	cents, err := priceCents(req.Price)
	if err != nil {
		return nil, err
	}
	if req.Credits <= 0 {
		return nil, fmt.Errorf("%w: credits must be positive", ErrInvalidCredits)
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payments.CheckoutRequest{
		ProductName:   fmt.Sprintf("%d Visualizer Credits", req.Credits),
		Description:   "Credits for the AI renovation visualizer",
		AmountCents:   cents,
		CustomerEmail: req.Email,
		SuccessURL:    s.baseURL + "/visualizer?purchase=success&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.baseURL + "/visualizer?purchase=canceled",
		Metadata: map[string]string{
			MetadataKind:    models.OrderKindCredits,
			MetadataUserID:  req.UserID,
			MetadataCredits: strconv.FormatInt(req.Credits, 10),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStripeClient, err)
	}
	metrics.CheckoutSessionsCreated.WithLabelValues(models.OrderKindCredits).Inc()
	return session, nil
}

// HandleWebhook verifies a webhook and records paid checkouts. Credit grants are
// additive and applied once per checkout session.
func (s *billingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, payments.ErrInvalidSignature) {
			metrics.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
			return fmt.Errorf("%w: %v", ErrWebhookSignature, err)
		}
		return fmt.Errorf("%w: %v", ErrWebhookProcessing, err)
	}

	if event.Type != payments.EventCheckoutCompleted || event.Checkout == nil {
		s.logger.Debug("Ignoring webhook event", zap.String("type", event.Type), zap.String("eventId", event.ID))
		metrics.WebhookEvents.WithLabelValues(event.Type, "ignored").Inc()
		return nil
	}
	checkout := event.Checkout
	if checkout.PaymentStatus != payments.PaymentStatusPaid {
		s.logger.Info("Checkout completed without payment", zap.String("sessionId", checkout.SessionID),
			zap.String("paymentStatus", checkout.PaymentStatus))
		metrics.WebhookEvents.WithLabelValues(event.Type, "unpaid").Inc()
		return nil
	}

	order, err := orderFromCheckout(checkout)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues(event.Type, "invalid").Inc()
		return fmt.Errorf("%w: %v", ErrWebhookProcessing, err)
	}

	created, err := s.orders.RecordCompleted(ctx, order)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues(event.Type, "error").Inc()
		return fmt.Errorf("recording order for session '%s': %w", checkout.SessionID, err)
	}
	if !created {
		s.logger.Info("Checkout session already recorded", zap.String("sessionId", checkout.SessionID))
		metrics.WebhookEvents.WithLabelValues(event.Type, "duplicate").Inc()
		return nil
	}

	metrics.WebhookEvents.WithLabelValues(event.Type, "processed").Inc()
	if order.Credits > 0 {
		metrics.CreditsGranted.Add(float64(order.Credits))
	}
	s.audit.Record(ctx, order.UserID, AuditActionOrderCompleted, "order", order.ID, map[string]interface{}{
		"kind": order.Kind, "amountCents": order.AmountCents, "credits": order.Credits,
	})
	if err := s.publisher.Publish(ctx, events.TypeOrderCompleted, order); err != nil {
		s.logger.Warn("Order event publish failed", zap.String("orderId", order.ID), zap.Error(err))
	}
	return nil
}

// titleWords turns "kitchen_remodel" into "Kitchen Remodel".
func titleWords(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' || unicode.IsSpace(r) })
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func orderFromCheckout(checkout *payments.CompletedCheckout) (*models.Order, error) {
	kind := checkout.Metadata[MetadataKind]
	if kind == "" {
		kind = models.OrderKindDesign
	}
	order := &models.Order{
		UserID:            checkout.Metadata[MetadataUserID],
		CheckoutSessionID: checkout.SessionID,
		Kind:              kind,
		AmountCents:       checkout.AmountTotal,
		Status:            payments.PaymentStatusPaid,
		CreatedAt:         time.Now().UTC(),
	}
	if kind == models.OrderKindCredits {
		credits, err := strconv.ParseInt(checkout.Metadata[MetadataCredits], 10, 64)
		if err != nil || credits <= 0 {
			return nil, fmt.Errorf("credits checkout %s has invalid credits metadata %q", checkout.SessionID, checkout.Metadata[MetadataCredits])
		}
		if order.UserID == "" {
			return nil, fmt.Errorf("credits checkout %s has no userId metadata", checkout.SessionID)
		}
		order.Credits = credits
	}
	return order, nil
}
