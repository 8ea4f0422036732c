package models

import "time"

// Role values stored on User.Role and in identity claims.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a signed-in customer. The document ID is the Firebase Auth UID.
type User struct {
	ID                    string     `json:"id" firestore:"-"`
	Email                 string     `json:"email" firestore:"email"`
	DisplayName           string     `json:"displayName,omitempty" firestore:"displayName,omitempty"`
	Role                  string     `json:"role" firestore:"role"`
	Admin                 bool       `json:"admin" firestore:"admin"`
	VisualizerCredits     int64      `json:"visualizerCredits" firestore:"visualizerCredits"`
	TotalCreditsPurchased int64      `json:"totalCreditsPurchased" firestore:"totalCreditsPurchased"`
	CreatedAt             time.Time  `json:"createdAt" firestore:"createdAt"`
	LastLoginAt           *time.Time `json:"lastLoginAt,omitempty" firestore:"lastLoginAt,omitempty"`
	UpdatedAt             time.Time  `json:"updatedAt" firestore:"updatedAt"`
}

func (u *User) DocumentID() string      { return u.ID }
func (u *User) SetDocumentID(id string) { u.ID = id }
