package core

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"renovo-backend-go/internal/db/memstore"
	"renovo-backend-go/internal/events"
	"renovo-backend-go/internal/models"
	"renovo-backend-go/internal/payments"
)

type billingFixture struct {
	store   *memstore.Store
	gateway *fakeGateway
	pub     *recordingPublisher
	svc     BillingService
}

func newBillingFixture() *billingFixture {
	store := memstore.New()
	gateway := &fakeGateway{}
	pub := &recordingPublisher{}
	audit := NewAuditService(store.Audit, zap.NewNop())
	return &billingFixture{
		store:   store,
		gateway: gateway,
		pub:     pub,
		svc:     NewBillingService(gateway, store.Orders, audit, pub, "https://renovo.example/", zap.NewNop()),
	}
}

func creditsEvent(sessionID, credits string) *payments.Event {
	return &payments.Event{
		ID:   "evt_" + sessionID,
		Type: payments.EventCheckoutCompleted,
		Checkout: &payments.CompletedCheckout{
			SessionID:     sessionID,
			PaymentStatus: payments.PaymentStatusPaid,
			AmountTotal:   1999,
			Metadata: map[string]string{
				MetadataKind:    models.OrderKindCredits,
				MetadataUserID:  "u1",
				MetadataCredits: credits,
			},
		},
	}
}

func TestBillingService_CreateVisualizerCheckout(t *testing.T) {
	f := newBillingFixture()

	session, err := f.svc.CreateVisualizerCheckout(context.Background(), VisualizerCheckoutRequest{
		UserID:         "u1",
		Email:          "a@example.com",
		Price:          4999.6,
		ResultImageURL: "https://img.example/result.png",
		ProjectType:    "kitchen_remodel",
		Style:          "modern",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.ID)

	require.Len(t, f.gateway.requests, 1)
	req := f.gateway.requests[0]
	assert.Equal(t, int64(5000), req.AmountCents)
	assert.Equal(t, "Custom Kitchen Remodel Design Package", req.ProductName)
	assert.Contains(t, req.Description, "modern style")
	assert.Equal(t, "https://renovo.example/visualizer/success?session_id={CHECKOUT_SESSION_ID}", req.SuccessURL)
	assert.Equal(t, models.OrderKindDesign, req.Metadata[MetadataKind])
	assert.Equal(t, "u1", req.Metadata[MetadataUserID])
}

func TestBillingService_CreateVisualizerCheckoutValidation(t *testing.T) {
	ctx := context.Background()
	f := newBillingFixture()

	for _, price := range []float64{0, -5, math.NaN(), math.Inf(1), 0.2} {
		_, err := f.svc.CreateVisualizerCheckout(ctx, VisualizerCheckoutRequest{Price: price, ResultImageURL: "x"})
		assert.ErrorIs(t, err, ErrInvalidPrice, "price %v", price)
	}
	_, err := f.svc.CreateVisualizerCheckout(ctx, VisualizerCheckoutRequest{Price: 100, ResultImageURL: "  "})
	assert.ErrorIs(t, err, ErrMissingImage)
	assert.Empty(t, f.gateway.requests)
}

func TestBillingService_RejectsPricesBeyondInt64(t *testing.T) {
	ctx := context.Background()
	f := newBillingFixture()

	for _, price := range []float64{math.MaxInt64, 1e19, math.MaxFloat64} {
		_, err := f.svc.CreateVisualizerCheckout(ctx, VisualizerCheckoutRequest{Price: price, ResultImageURL: "x"})
		assert.ErrorIs(t, err, ErrInvalidPrice, "price %v", price)
		_, err = f.svc.CreateCreditsCheckout(ctx, CreditsCheckoutRequest{UserID: "u1", Credits: 1, Price: price})
		assert.ErrorIs(t, err, ErrInvalidPrice, "price %v", price)
	}
	assert.Empty(t, f.gateway.requests)

	cents, err := priceCents(1 << 53)
	require.NoError(t, err)
	assert.Equal(t, int64(1<<53), cents)
}

func TestBillingService_CreateCheckoutProviderFailure(t *testing.T) {
	f := newBillingFixture()
	f.gateway.err = errors.New("card network unavailable")

	_, err := f.svc.CreateCreditsCheckout(context.Background(), CreditsCheckoutRequest{UserID: "u1", Credits: 10, Price: 999})
	assert.ErrorIs(t, err, ErrStripeClient)
}

func TestBillingService_CreateCreditsCheckout(t *testing.T) {
	ctx := context.Background()
	f := newBillingFixture()

	_, err := f.svc.CreateCreditsCheckout(ctx, CreditsCheckoutRequest{UserID: "u1", Credits: 10, Price: 999})
	require.NoError(t, err)
	req := f.gateway.requests[0]
	assert.Equal(t, "10 Visualizer Credits", req.ProductName)
	assert.Equal(t, "10", req.Metadata[MetadataCredits])
	assert.Equal(t, models.OrderKindCredits, req.Metadata[MetadataKind])

	_, err = f.svc.CreateCreditsCheckout(ctx, CreditsCheckoutRequest{UserID: "u1", Credits: 0, Price: 999})
	assert.ErrorIs(t, err, ErrInvalidCredits)
}

func TestBillingService_WebhookGrantsCreditsOnce(t *testing.T) {
	ctx := context.Background()
	f := newBillingFixture()
	f.store.Users.Put(models.User{ID: "u1", VisualizerCredits: 1, TotalCreditsPurchased: 1})
	f.gateway.event = creditsEvent("cs_1", "10")

	require.NoError(t, f.svc.HandleWebhook(ctx, []byte("{}"), "valid"))
	require.NoError(t, f.svc.HandleWebhook(ctx, []byte("{}"), "valid"))

	user, err := f.store.Users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(11), user.VisualizerCredits)
	assert.Equal(t, int64(11), user.TotalCreditsPurchased)

	order, err := f.store.Orders.GetByID(ctx, "cs_1")
	require.NoError(t, err)
	assert.Equal(t, int64(1999), order.AmountCents)
	assert.Equal(t, []string{events.TypeOrderCompleted}, f.pub.types())

	entries := f.store.Audit.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, AuditActionOrderCompleted, entries[0].Action)
}

func TestBillingService_WebhookRejectsBadSignature(t *testing.T) {
	f := newBillingFixture()
	f.gateway.event = creditsEvent("cs_1", "10")

	err := f.svc.HandleWebhook(context.Background(), []byte("{}"), "forged")
	assert.ErrorIs(t, err, ErrWebhookSignature)
	assert.Zero(t, f.store.Orders.Len())
}

func TestBillingService_WebhookIgnoresOtherEvents(t *testing.T) {
	ctx := context.Background()
	f := newBillingFixture()

	f.gateway.event = &payments.Event{ID: "evt_1", Type: "invoice.paid"}
	require.NoError(t, f.svc.HandleWebhook(ctx, []byte("{}"), "valid"))

	unpaid := creditsEvent("cs_2", "10")
	unpaid.Checkout.PaymentStatus = "unpaid"
	f.gateway.event = unpaid
	require.NoError(t, f.svc.HandleWebhook(ctx, []byte("{}"), "valid"))

	assert.Zero(t, f.store.Orders.Len())
}

func TestBillingService_WebhookInvalidCreditsMetadata(t *testing.T) {
	f := newBillingFixture()
	f.gateway.event = creditsEvent("cs_3", "lots")

	err := f.svc.HandleWebhook(context.Background(), []byte("{}"), "valid")
	assert.ErrorIs(t, err, ErrWebhookProcessing)
	assert.Zero(t, f.store.Orders.Len())
}

func TestBillingService_WebhookRecordsDesignOrder(t *testing.T) {
	ctx := context.Background()
	f := newBillingFixture()
	f.gateway.event = &payments.Event{
		ID:   "evt_d",
		Type: payments.EventCheckoutCompleted,
		Checkout: &payments.CompletedCheckout{
			SessionID:     "cs_design",
			PaymentStatus: payments.PaymentStatusPaid,
			AmountTotal:   5000,
			Metadata:      map[string]string{MetadataKind: models.OrderKindDesign, MetadataUserID: "u1"},
		},
	}

	require.NoError(t, f.svc.HandleWebhook(ctx, []byte("{}"), "valid"))
	order, err := f.store.Orders.GetByID(ctx, "cs_design")
	require.NoError(t, err)
	assert.Equal(t, models.OrderKindDesign, order.Kind)
	assert.Zero(t, order.Credits)
}

func TestTitleWords(t *testing.T) {
	assert.Equal(t, "Kitchen Remodel", titleWords("kitchen_remodel"))
	assert.Equal(t, "Bath", titleWords("bath"))
	assert.Equal(t, "", titleWords(" "))
}
