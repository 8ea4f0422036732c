package models

import "time"

// Order kinds, carried in checkout session metadata.
const (
	OrderKindCredits = "credits"
	OrderKindDesign  = "design"
)

// Order records a completed checkout.
type Order struct {
	ID                string    `json:"id" firestore:"-"`
	UserID            string    `json:"userId,omitempty" firestore:"userId,omitempty"`
	CheckoutSessionID string    `json:"checkoutSessionId" firestore:"checkoutSessionId"`
	Kind              string    `json:"kind" firestore:"kind"`
	AmountCents       int64     `json:"amountCents" firestore:"amountCents"`
	Credits           int64     `json:"credits,omitempty" firestore:"credits,omitempty"`
	Status            string    `json:"status" firestore:"status"`
	CreatedAt         time.Time `json:"createdAt" firestore:"createdAt"`
}

func (o *Order) DocumentID() string      { return o.ID }
func (o *Order) SetDocumentID(id string) { o.ID = id }
