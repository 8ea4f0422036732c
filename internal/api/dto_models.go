package api

import (
	"time"

	"renovo-backend-go/internal/core"
	"renovo-backend-go/internal/models"
)

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// --- Resources ---

type CreateClientRequest struct {
	Name  string `json:"name" validate:"nonblank"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`
}

type CreateProjectRequest struct {
	ClientID    string `json:"clientId"`
	Title       string `json:"title" validate:"nonblank"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"omitempty,oneof=planning in_progress completed on_hold"`
}

// CreateLeadRequest serves both the contact and the quote forms. Source is
// inferred from the quote fields when omitted.
type CreateLeadRequest struct {
	Name           string `json:"name" validate:"nonblank"`
	Email          string `json:"email" validate:"nonblank,email"`
	Phone          string `json:"phone"`
	ProjectDetails string `json:"projectDetails" validate:"nonblank"`
	Budget         string `json:"budget"`
	Timeline       string `json:"timeline"`
	Size           string `json:"size"`
	Estimate       string `json:"estimate"`
	Source         string `json:"source" validate:"omitempty,oneof=contact quote"`
}

type CreateMediaRequest struct {
	ProjectID string `json:"projectId" validate:"nonblank"`
	Type      string `json:"type" validate:"nonblank,oneof=image video before after"`
	URL       string `json:"url" validate:"nonblank"`
	Caption   string `json:"caption"`
}

type CreateMilestoneRequest struct {
	ProjectID   string     `json:"projectId" validate:"nonblank"`
	Title       string     `json:"title" validate:"nonblank"`
	DueDate     *time.Time `json:"dueDate"`
	CompletedAt *time.Time `json:"completedAt"`
}

type CreateInvoiceRequest struct {
	ProjectID   string `json:"projectId" validate:"nonblank"`
	AmountCents int64  `json:"amountCents" validate:"required,gt=0"`
	Status      string `json:"status"`
}

// --- Cart ---

type CartItemInput struct {
	ID    string  `json:"id" validate:"nonblank"`
	Name  string  `json:"name"`
	Price float64 `json:"price" validate:"gte=0"`
	Image string  `json:"image"`
}

type AddToCartRequest struct {
	UserID   string         `json:"userId" validate:"nonblank"`
	Item     *CartItemInput `json:"item" validate:"required"`
	Quantity *int           `json:"quantity" validate:"omitempty,min=1,max=999"`
}

type RemoveFromCartRequest struct {
	UserID string `json:"userId" validate:"nonblank"`
	ItemID string `json:"itemId" validate:"nonblank"`
}

type UpdateCartRequest struct {
	UserID   string `json:"userId" validate:"nonblank"`
	ItemID   string `json:"itemId" validate:"nonblank"`
	Quantity *int   `json:"quantity" validate:"required,min=0,max=999"`
}

type CartResponse struct {
	UserID    string            `json:"userId"`
	Items     []models.CartItem `json:"items"`
	UpdatedAt *time.Time        `json:"updatedAt,omitempty"`
}

func newCartResponse(cart *models.Cart) CartResponse {
	resp := CartResponse{UserID: cart.UserID, Items: cart.Items}
	if resp.Items == nil {
		resp.Items = []models.CartItem{}
	}
	if !cart.UpdatedAt.IsZero() {
		updated := cart.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}

// --- Visualizer credits and checkout ---

type SetCreditsRequest struct {
	UserID  string `json:"userId" validate:"nonblank"`
	Credits *int64 `json:"credits" validate:"required,gte=0"`
}

type ConsumeCreditRequest struct {
	UserID string `json:"userId" validate:"nonblank"`
}

// ConsumeCreditResponse reports the balance after one credit was used.
type ConsumeCreditResponse struct {
	Credits   int64 `json:"credits"`
	Remaining int64 `json:"remaining"`
}

// NeedsPaymentResponse is returned when the balance is exhausted.
type NeedsPaymentResponse struct {
	Error        string `json:"error"`
	NeedsPayment bool   `json:"needsPayment"`
}

type VisualizerCheckoutRequest struct {
	UserID         string   `json:"userId"`
	Email          string   `json:"email" validate:"omitempty,email"`
	Price          *float64 `json:"price" validate:"required"`
	ResultImageURL string   `json:"resultImageUrl" validate:"nonblank"`
	ProjectType    string   `json:"projectType"`
	Style          string   `json:"style"`
}

type PurchaseCreditsRequest struct {
	UserID  string   `json:"userId" validate:"nonblank"`
	Email   string   `json:"email" validate:"omitempty,email"`
	Credits int64    `json:"credits" validate:"required,gt=0"`
	Price   *float64 `json:"price" validate:"required"`
}

// --- Visualizer projects ---

type CreateVisualizerProjectRequest struct {
	UserID       string   `json:"userId" validate:"nonblank"`
	Title        string   `json:"title" validate:"nonblank"`
	ProjectType  string   `json:"projectType"`
	Budget       *float64 `json:"budget" validate:"omitempty,gte=0"`
	BeforeImages []string `json:"beforeImages" validate:"required,min=1,dive,nonblank"`
}

type AddResultRequest struct {
	ImageURL string `json:"imageUrl" validate:"nonblank"`
}

// --- Auth ---

type CreateSessionRequest struct {
	IDToken string `json:"idToken" validate:"nonblank"`
}

// PrincipalResponse describes the signed-in caller.
type PrincipalResponse struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
	Admin bool   `json:"admin"`
}

type SessionResponse struct {
	User      PrincipalResponse `json:"user"`
	ExpiresIn int64             `json:"expiresIn"`
}

type SetClaimsRequest struct {
	UID    string                 `json:"uid" validate:"nonblank"`
	Claims map[string]interface{} `json:"claims" validate:"required"`
}

// --- Search ---

type SearchResponse struct {
	Results []models.ServiceOffering `json:"results"`
}

// SuggestPackagesRequest is bound from the request body and passed through as the cache key source.
type SuggestPackagesRequest = core.SuggestRequest
