package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"renovo-backend-go/internal/core"
	"renovo-backend-go/internal/models"
)

// CartHandler exposes the per-user cart.
type CartHandler struct {
	carts  core.CartService
	logger *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts core.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{carts: carts, logger: logger}
}

func (h *CartHandler) mapCartErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrCartNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Cart not found"})
	case errors.Is(err, core.ErrItemNotInCart):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Item not in cart"})
	case errors.Is(err, core.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid quantity"})
	default:
		internalError(c, h.logger, "Cart operation failed", err)
	}
}

// GetCart handles GET /api/cart?userId=
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := requireQuery(c, "userId")
	if !ok || !authorizeUser(c, userID) {
		return
	}
	cart, err := h.carts.Get(c.Request.Context(), userID)
	if err != nil {
		h.mapCartErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

// AddItem handles POST /api/cart/add
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "quantity must be at least 1"})
		return
	}
	userID := strings.TrimSpace(req.UserID)
	if !authorizeUser(c, userID) {
		return
	}

	cart, err := h.carts.Add(c.Request.Context(), userID, models.CartItem{
		ItemID: strings.TrimSpace(req.Item.ID),
		Name:   strings.TrimSpace(req.Item.Name),
		Price:  req.Item.Price,
		Image:  strings.TrimSpace(req.Item.Image),
	}, quantity)
	if err != nil {
		h.mapCartErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

// RemoveItem handles POST /api/cart/remove
func (h *CartHandler) RemoveItem(c *gin.Context) {
	var req RemoveFromCartRequest
	if !bindJSON(c, &req) {
		return
	}
	userID := strings.TrimSpace(req.UserID)
	if !authorizeUser(c, userID) {
		return
	}
	cart, err := h.carts.Remove(c.Request.Context(), userID, strings.TrimSpace(req.ItemID))
	if err != nil {
		h.mapCartErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

// UpdateItem handles POST /api/cart/update
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req UpdateCartRequest
	if !bindJSON(c, &req) {
		return
	}
	if *req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "quantity must not be negative"})
		return
	}
	userID := strings.TrimSpace(req.UserID)
	if !authorizeUser(c, userID) {
		return
	}
	cart, err := h.carts.UpdateQuantity(c.Request.Context(), userID, strings.TrimSpace(req.ItemID), *req.Quantity)
	if err != nil {
		h.mapCartErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}
