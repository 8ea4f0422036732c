package models

import "time"

// Media types.
const (
	MediaTypeImage  = "image"
	MediaTypeVideo  = "video"
	MediaTypeBefore = "before"
	MediaTypeAfter  = "after"
)

// ValidMediaType reports whether t is an accepted media type.
func ValidMediaType(t string) bool {
	switch t {
	case MediaTypeImage, MediaTypeVideo, MediaTypeBefore, MediaTypeAfter:
		return true
	}
	return false
}

// Media is a photo or video attached to a project.
type Media struct {
	ID        string    `json:"id" firestore:"-"`
	ProjectID string    `json:"projectId" firestore:"projectId"`
	Type      string    `json:"type" firestore:"type"`
	URL       string    `json:"url" firestore:"url"`
	Caption   string    `json:"caption,omitempty" firestore:"caption,omitempty"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

func (m *Media) DocumentID() string      { return m.ID }
func (m *Media) SetDocumentID(id string) { m.ID = id }
func (m *Media) ProjectRef() string      { return m.ProjectID }
