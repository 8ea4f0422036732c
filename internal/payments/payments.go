// Package payments creates hosted checkout sessions and verifies payment webhooks.
package payments

import (
	"context"
	"errors"
)

// Checkout event types handled by the billing service.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	PaymentStatusPaid      = "paid"
)

var (
	// ErrInvalidSignature is returned when a webhook payload fails verification.
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	// ErrProvider wraps failed calls to the payments API.
	ErrProvider = errors.New("payment provider request failed")
)

// CheckoutRequest describes a one-item hosted checkout.
type CheckoutRequest struct {
	ProductName   string
	Description   string
	ImageURL      string
	AmountCents   int64
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// CheckoutSession is the provider's answer: the session ID and redirect URL.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CompletedCheckout is the payload of a checkout.session.completed event.
type CompletedCheckout struct {
	SessionID     string
	PaymentStatus string
	AmountTotal   int64
	Metadata      map[string]string
}

// Event is a verified webhook event. Checkout is set for checkout events only.
type Event struct {
	ID       string
	Type     string
	Checkout *CompletedCheckout
}

// Gateway is the payments-provider surface used by the billing service.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	ParseWebhook(payload []byte, signature string) (*Event, error)
}
