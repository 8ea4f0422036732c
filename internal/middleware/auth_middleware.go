package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"renovo-backend-go/internal/identity"
)

// Cookie names. The session cookie holds a provider-signed session; the debug
// cookie mirrors the uid for local tooling and is never trusted.
const (
	SessionCookieName = "auth-token"
	DebugCookieName   = "auth-token-debug"
)

const principalKey = "principal"

// ErrorResponse mirrors api.ErrorResponse to avoid an import cycle.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// AuthMiddleware resolves the caller from a session cookie or a Bearer ID token.
type AuthMiddleware struct {
	provider identity.Provider
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(provider identity.Provider, logger *zap.Logger) *AuthMiddleware {
	if provider == nil {
		panic("identity provider is not initialized for AuthMiddleware")
	}
	return &AuthMiddleware{provider: provider, logger: logger}
}

// Authenticate stores the verified principal in the context when credentials
// are present and valid. It never rejects a request.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if principal := m.resolve(c); principal != nil {
			c.Set(principalKey, principal)
		}
		c.Next()
	}
}

// RequireAuth rejects requests without a verified principal with 401.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := m.ensurePrincipal(c); !ok {
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects non-admin principals with 403. It implies RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := m.ensurePrincipal(c)
		if !ok {
			return
		}
		if !principal.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Admin privileges required"})
			return
		}
		c.Next()
	}
}

// ensurePrincipal resolves the caller when Authenticate did not run, aborting
// with 401 when there is none.
func (m *AuthMiddleware) ensurePrincipal(c *gin.Context) (*identity.Principal, bool) {
	if principal, ok := PrincipalFrom(c); ok {
		return principal, true
	}
	principal := m.resolve(c)
	if principal == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return nil, false
	}
	c.Set(principalKey, principal)
	return principal, true
}

func (m *AuthMiddleware) resolve(c *gin.Context) *identity.Principal {
	ctx := c.Request.Context()
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		principal, err := m.provider.VerifySessionCookie(ctx, cookie)
		if err == nil {
			return principal
		}
		m.logger.Debug("Session cookie rejected", zap.Error(err))
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil
	}
	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return nil
	}
	principal, err := m.provider.VerifyIDToken(ctx, token)
	if err != nil {
		m.logger.Debug("Bearer token rejected", zap.Error(err))
		return nil
	}
	return principal
}

// PrincipalFrom returns the principal set by the auth middleware.
func PrincipalFrom(c *gin.Context) (*identity.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	principal, ok := v.(*identity.Principal)
	return principal, ok && principal != nil
}
