package models

import "time"

// Milestone is a dated checkpoint within a project.
type Milestone struct {
	ID          string     `json:"id" firestore:"-"`
	ProjectID   string     `json:"projectId" firestore:"projectId"`
	Title       string     `json:"title" firestore:"title"`
	DueDate     *time.Time `json:"dueDate,omitempty" firestore:"dueDate,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty" firestore:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" firestore:"createdAt"`
}

func (m *Milestone) DocumentID() string      { return m.ID }
func (m *Milestone) SetDocumentID(id string) { m.ID = id }
func (m *Milestone) ProjectRef() string      { return m.ProjectID }
