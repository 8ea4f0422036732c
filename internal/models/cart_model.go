package models

import "time"

// CartItem is one line of a cart.
type CartItem struct {
	ItemID   string  `json:"itemId" firestore:"itemId"`
	Quantity int     `json:"quantity" firestore:"quantity"`
	Name     string  `json:"name,omitempty" firestore:"name,omitempty"`
	Price    float64 `json:"price,omitempty" firestore:"price,omitempty"`
	Image    string  `json:"image,omitempty" firestore:"image,omitempty"`
}

// Cart holds a user's items in insertion order. The document ID is the user ID.
type Cart struct {
	UserID    string     `json:"userId" firestore:"-"`
	Items     []CartItem `json:"items" firestore:"items"`
	UpdatedAt time.Time  `json:"updatedAt" firestore:"updatedAt"`
}
