package models

import "time"

// Lead sources, one per intake endpoint.
const (
	LeadSourceContact = "contact"
	LeadSourceQuote   = "quote"
)

// Lead is a prospective customer captured by the contact or quote forms.
type Lead struct {
	ID             string    `json:"id" firestore:"-"`
	Name           string    `json:"name" firestore:"name"`
	Email          string    `json:"email" firestore:"email"`
	Phone          string    `json:"phone,omitempty" firestore:"phone,omitempty"`
	ProjectDetails string    `json:"projectDetails" firestore:"projectDetails"`
	Budget         string    `json:"budget,omitempty" firestore:"budget,omitempty"`
	Timeline       string    `json:"timeline,omitempty" firestore:"timeline,omitempty"`
	Size           string    `json:"size,omitempty" firestore:"size,omitempty"`
	Estimate       string    `json:"estimate,omitempty" firestore:"estimate,omitempty"`
	Source         string    `json:"source" firestore:"source"`
	CreatedAt      time.Time `json:"createdAt" firestore:"createdAt"`
}

func (l *Lead) DocumentID() string      { return l.ID }
func (l *Lead) SetDocumentID(id string) { l.ID = id }
