package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"renovo-backend-go/internal/db"
	"renovo-backend-go/internal/identity"
	"renovo-backend-go/internal/models"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("admin privileges required")
	ErrInvalidClaims   = errors.New("invalid claims")
)

// Set-claims outcomes.
const (
	ClaimsStatusComplete = "complete"
	ClaimsStatusPartial  = "partial"
)

// Session is the result of a successful sign-in.
type Session struct {
	Cookie    string
	Principal *identity.Principal
	User      *models.User
}

// SetClaimsResult reports which of the two stores accepted the new role.
type SetClaimsResult struct {
	UID              string `json:"uid"`
	FirestoreUpdated bool   `json:"firestoreUpdated"`
	ClaimsUpdated    bool   `json:"claimsUpdated"`
	Status           string `json:"status"`
}

type authService struct {
	provider identity.Provider
	users    UserService
	userRepo db.UserRepository
	audit    AuditService
	logger   *zap.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(provider identity.Provider, users UserService, userRepo db.UserRepository, audit AuditService, logger *zap.Logger) AuthService {
	return &authService{provider: provider, users: users, userRepo: userRepo, audit: audit, logger: logger}
}

// StartSession exchanges an ID token for a session cookie and records the login.
func (s *authService) StartSession(ctx context.Context, idToken string) (*Session, error) {
	principal, err := s.provider.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	cookie, err := s.provider.CreateSessionCookie(ctx, idToken, identity.SessionDuration)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredential) {
			return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
		}
		return nil, fmt.Errorf("creating session for '%s': %w", principal.UID, err)
	}

	user, err := s.users.RecordLogin(ctx, principal.UID, principal.Email, principal.Name)
	if err != nil {
		return nil, err
	}
	return &Session{Cookie: cookie, Principal: principal, User: user}, nil
}

// EndSession revokes the refresh tokens of a verifiable session. Failures are logged only.
func (s *authService) EndSession(ctx context.Context, sessionCookie string) {
	if sessionCookie == "" {
		return
	}
	principal, err := s.provider.VerifySessionCookie(ctx, sessionCookie)
	if err != nil {
		return
	}
	if err := s.provider.RevokeRefreshTokens(ctx, principal.UID); err != nil {
		s.logger.Warn("Failed to revoke refresh tokens on logout", zap.String("uid", principal.UID), zap.Error(err))
	}
}

// SetClaims writes role and admin to the user document first, then to the
// identity provider. A failed provider write yields a partial result, not an error.
func (s *authService) SetClaims(ctx context.Context, actor *identity.Principal, uid string, claims map[string]interface{}) (*SetClaimsResult, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	role, admin, err := roleFromClaims(claims)
	if err != nil {
		return nil, err
	}

	result := &SetClaimsResult{UID: uid, Status: ClaimsStatusPartial}
	if err := s.userRepo.SetRole(ctx, uid, role, admin); err != nil {
		return nil, fmt.Errorf("failed to store role for user '%s': %w", uid, err)
	}
	result.FirestoreUpdated = true

	if err := s.provider.SetCustomClaims(ctx, uid, claims); err != nil {
		s.logger.Warn("Custom claims update failed after role was stored", zap.String("uid", uid), zap.Error(err))
	} else {
		result.ClaimsUpdated = true
		result.Status = ClaimsStatusComplete
	}

	s.audit.Record(ctx, actor.UID, AuditActionClaimsSet, "user", uid, map[string]interface{}{
		"role": role, "admin": admin, "status": result.Status,
	})
	return result, nil
}

// roleFromClaims reads "role" (string) and "admin" (bool). Role "admin" implies admin.
func roleFromClaims(claims map[string]interface{}) (string, bool, error) {
	if len(claims) == 0 {
		return "", false, fmt.Errorf("%w: claims must not be empty", ErrInvalidClaims)
	}
	role := models.RoleUser
	if raw, ok := claims["role"]; ok {
		r, isString := raw.(string)
		if !isString || r == "" {
			return "", false, fmt.Errorf("%w: role must be a non-empty string", ErrInvalidClaims)
		}
		role = r
	}
	admin := role == models.RoleAdmin
	if raw, ok := claims["admin"]; ok {
		a, isBool := raw.(bool)
		if !isBool {
			return "", false, fmt.Errorf("%w: admin must be a boolean", ErrInvalidClaims)
		}
		admin = admin || a
	}
	return role, admin, nil
}
