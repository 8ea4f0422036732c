// Package identity verifies users against the identity provider and manages
// their session cookies and custom claims.
package identity

import (
	"context"
	"errors"
	"time"

	"renovo-backend-go/internal/models"
)

// SessionDuration is the lifetime of a minted session cookie.
const SessionDuration = 5 * 24 * time.Hour

// ErrInvalidCredential is returned when a token or session cookie does not verify.
var ErrInvalidCredential = errors.New("invalid or expired credential")

// Principal is a verified user.
type Principal struct {
	UID    string                 `json:"uid"`
	Email  string                 `json:"email,omitempty"`
	Name   string                 `json:"name,omitempty"`
	Role   string                 `json:"role"`
	Admin  bool                   `json:"admin"`
	Claims map[string]interface{} `json:"-"`
}

// IsAdmin reports whether the verified claims grant admin access.
func (p *Principal) IsAdmin() bool {
	return p != nil && (p.Admin || p.Role == models.RoleAdmin)
}

// Provider is the identity-provider surface used by the HTTP layer.
type Provider interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Principal, error)
	CreateSessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error)
	// VerifySessionCookie checks signature, expiry and revocation.
	VerifySessionCookie(ctx context.Context, cookie string) (*Principal, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
	SetCustomClaims(ctx context.Context, uid string, claims map[string]interface{}) error
}

// PrincipalFromClaims builds a Principal from verified token claims.
func PrincipalFromClaims(uid string, claims map[string]interface{}) *Principal {
	p := &Principal{UID: uid, Role: models.RoleUser, Claims: claims}
	if email, ok := claims["email"].(string); ok {
		p.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		p.Name = name
	}
	if role, ok := claims["role"].(string); ok && role != "" {
		p.Role = role
	}
	if admin, ok := claims["admin"].(bool); ok {
		p.Admin = admin
	}
	return p
}
