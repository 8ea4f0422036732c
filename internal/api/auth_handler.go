package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"renovo-backend-go/internal/core"
	"renovo-backend-go/internal/identity"
	"renovo-backend-go/internal/middleware"
)

// AuthHandler handles session and admin claim endpoints.
type AuthHandler struct {
	auth          core.AuthService
	secureCookies bool
	logger        *zap.Logger
}

// NewAuthHandler creates a new AuthHandler. In release mode cookies are Secure
// and the debug cookie is not issued.
func NewAuthHandler(auth core.AuthService, release bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, secureCookies: release, logger: logger}
}

func principalResponse(p *identity.Principal) PrincipalResponse {
	return PrincipalResponse{UID: p.UID, Email: p.Email, Name: p.Name, Role: p.Role, Admin: p.IsAdmin()}
}

func (h *AuthHandler) mapAuthErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
	case errors.Is(err, core.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Admin privileges required"})
	case errors.Is(err, core.ErrInvalidClaims):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid claims", Details: err.Error()})
	default:
		internalError(c, h.logger, "Auth operation failed", err)
	}
}

func (h *AuthHandler) setCookie(c *gin.Context, name, value string, maxAge int, httpOnly bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", h.secureCookies, httpOnly)
}

// CreateSession handles POST /api/auth/session
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	session, err := h.auth.StartSession(c.Request.Context(), req.IDToken)
	if err != nil {
		h.mapAuthErrorToStatus(c, err)
		return
	}

	maxAge := int(identity.SessionDuration.Seconds())
	h.setCookie(c, middleware.SessionCookieName, session.Cookie, maxAge, true)
	if !h.secureCookies {
		h.setCookie(c, middleware.DebugCookieName, session.Principal.UID, maxAge, false)
	}
	c.JSON(http.StatusOK, SessionResponse{User: principalResponse(session.Principal), ExpiresIn: int64(maxAge)})
}

// Logout handles POST /api/auth/logout. It always clears both cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		h.auth.EndSession(c.Request.Context(), cookie)
	}
	h.setCookie(c, middleware.SessionCookieName, "", -1, true)
	h.setCookie(c, middleware.DebugCookieName, "", -1, false)
	c.JSON(http.StatusOK, SuccessResponse{Message: "Logged out"})
}

// LogoutOptions handles OPTIONS /api/auth/logout
func (h *AuthHandler) LogoutOptions(c *gin.Context) {
	c.Header("Allow", "POST, OPTIONS")
	c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
	c.Status(http.StatusNoContent)
}

// Me handles GET /api/auth/me. RequireAuth runs first.
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}
	c.JSON(http.StatusOK, principalResponse(principal))
}

// SetClaims handles POST /api/admin/set-claims. RequireAdmin runs first.
func (h *AuthHandler) SetClaims(c *gin.Context) {
	var req SetClaimsRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, _ := middleware.PrincipalFrom(c)
	result, err := h.auth.SetClaims(c.Request.Context(), actor, req.UID, req.Claims)
	if err != nil {
		h.mapAuthErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
