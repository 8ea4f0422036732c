package models

import "time"

// Client is a customer of the contracting business.
type Client struct {
	ID        string    `json:"id" firestore:"-"`
	Name      string    `json:"name" firestore:"name"`
	Email     string    `json:"email,omitempty" firestore:"email,omitempty"`
	Phone     string    `json:"phone,omitempty" firestore:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

func (c *Client) DocumentID() string      { return c.ID }
func (c *Client) SetDocumentID(id string) { c.ID = id }
