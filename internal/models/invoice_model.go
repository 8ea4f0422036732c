package models

import "time"

// InvoiceStatusUnpaid is the status of a freshly issued invoice.
const InvoiceStatusUnpaid = "unpaid"

// Invoice bills a project. Amounts are integer cents.
type Invoice struct {
	ID          string     `json:"id" firestore:"-"`
	ProjectID   string     `json:"projectId" firestore:"projectId"`
	AmountCents int64      `json:"amountCents" firestore:"amountCents"`
	Status      string     `json:"status" firestore:"status"`
	IssuedAt    time.Time  `json:"issuedAt" firestore:"issuedAt"`
	PaidAt      *time.Time `json:"paidAt,omitempty" firestore:"paidAt,omitempty"`
}

func (i *Invoice) DocumentID() string      { return i.ID }
func (i *Invoice) SetDocumentID(id string) { i.ID = id }
func (i *Invoice) ProjectRef() string      { return i.ProjectID }
