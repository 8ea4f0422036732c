package models

// ServiceOffering is a catalog entry the business sells. Price is in dollars.
type ServiceOffering struct {
	ID          string   `json:"id" firestore:"-" yaml:"id"`
	Name        string   `json:"name" firestore:"name" yaml:"name"`
	Description string   `json:"description,omitempty" firestore:"description,omitempty" yaml:"description"`
	Category    string   `json:"category,omitempty" firestore:"category,omitempty" yaml:"category"`
	Price       float64  `json:"price" firestore:"price" yaml:"price"`
	Tags        []string `json:"tags,omitempty" firestore:"tags,omitempty" yaml:"tags"`
}

func (s *ServiceOffering) DocumentID() string      { return s.ID }
func (s *ServiceOffering) SetDocumentID(id string) { s.ID = id }
