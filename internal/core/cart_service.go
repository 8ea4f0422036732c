package core

import (
	"context"
	"errors"
	"fmt"

	"renovo-backend-go/internal/db"
	"renovo-backend-go/internal/metrics"
	"renovo-backend-go/internal/models"
)

// MaxCartQuantity bounds the quantity of a single cart line.
const MaxCartQuantity = 999

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrItemNotInCart   = errors.New("item not in cart")
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// cartService implements CartService. Every mutation is one repository Mutate
// call, so concurrent requests for the same user never lose an update.
type cartService struct {
	carts db.CartRepository
}

// NewCartService creates a CartService.
func NewCartService(carts db.CartRepository) CartService {
	return &cartService{carts: carts}
}

// Get returns the user's cart, or an empty cart when none exists.
func (s *cartService) Get(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.carts.Get(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart for user '%s': %w", userID, err)
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return cart, nil
}

// Add increments an existing line or appends a new one. A missing cart is treated as empty.
func (s *cartService) Add(ctx context.Context, userID string, item models.CartItem, quantity int) (*models.Cart, error) {
	if quantity < 1 || quantity > MaxCartQuantity {
		return nil, fmt.Errorf("%w: quantity must be between 1 and %d", ErrInvalidQuantity, MaxCartQuantity)
	}
	cart, err := s.carts.Mutate(ctx, userID, func(cart *models.Cart, _ bool) error {
		for i := range cart.Items {
			if cart.Items[i].ItemID == item.ItemID {
				if cart.Items[i].Quantity > MaxCartQuantity-quantity {
					return fmt.Errorf("%w: line would exceed %d", ErrInvalidQuantity, MaxCartQuantity)
				}
				cart.Items[i].Quantity += quantity
				return nil
			}
		}
		item.Quantity = quantity
		cart.Items = append(cart.Items, item)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add item '%s' to cart: %w", item.ItemID, err)
	}
	metrics.CartMutations.WithLabelValues("add").Inc()
	return cart, nil
}

// Remove drops the line for itemID. The cart must exist.
func (s *cartService) Remove(ctx context.Context, userID, itemID string) (*models.Cart, error) {
	cart, err := s.carts.Mutate(ctx, userID, func(cart *models.Cart, exists bool) error {
		if !exists {
			return ErrCartNotFound
		}
		kept := cart.Items[:0]
		for _, line := range cart.Items {
			if line.ItemID != itemID {
				kept = append(kept, line)
			}
		}
		cart.Items = kept
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to remove item '%s' from cart: %w", itemID, err)
	}
	metrics.CartMutations.WithLabelValues("remove").Inc()
	return cart, nil
}

// UpdateQuantity sets the quantity of itemID and drops zero-quantity lines.
// Negative quantities are rejected before any store access.
func (s *cartService) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*models.Cart, error) {
	if quantity < 0 || quantity > MaxCartQuantity {
		return nil, fmt.Errorf("%w: quantity must be between 0 and %d", ErrInvalidQuantity, MaxCartQuantity)
	}
	cart, err := s.carts.Mutate(ctx, userID, func(cart *models.Cart, exists bool) error {
		if !exists {
			return ErrCartNotFound
		}
		found := false
		kept := cart.Items[:0]
		for _, line := range cart.Items {
			if line.ItemID == itemID {
				line.Quantity = quantity
				found = true
			}
			if line.Quantity > 0 {
				kept = append(kept, line)
			}
		}
		if !found {
			return ErrItemNotInCart
		}
		cart.Items = kept
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update item '%s' in cart: %w", itemID, err)
	}
	metrics.CartMutations.WithLabelValues("update").Inc()
	return cart, nil
}
