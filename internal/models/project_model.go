package models

import "time"

// Project statuses.
const (
	ProjectStatusPlanning   = "planning"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusCompleted  = "completed"
	ProjectStatusOnHold     = "on_hold"
)

// ValidProjectStatus reports whether s is one of the known project statuses.
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusOnHold:
		return true
	}
	return false
}

// Project is a renovation job. Projects created by the visualizer flow carry
// UserID and the image/budget fields instead of a client reference.
type Project struct {
	ID           string    `json:"id" firestore:"-"`
	ClientID     string    `json:"clientId,omitempty" firestore:"clientId,omitempty"`
	Title        string    `json:"title" firestore:"title"`
	Description  string    `json:"description,omitempty" firestore:"description,omitempty"`
	Status       string    `json:"status" firestore:"status"`
	UserID       string    `json:"userId,omitempty" firestore:"userId,omitempty"`
	BeforeImages []string  `json:"beforeImages,omitempty" firestore:"beforeImages,omitempty"`
	AfterImages  []string  `json:"afterImages,omitempty" firestore:"afterImages,omitempty"`
	Budget       float64   `json:"budget,omitempty" firestore:"budget,omitempty"`
	ProjectType  string    `json:"projectType,omitempty" firestore:"projectType,omitempty"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" firestore:"updatedAt"`
}

func (p *Project) DocumentID() string      { return p.ID }
func (p *Project) SetDocumentID(id string) { p.ID = id }
