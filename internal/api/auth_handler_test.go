package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renovo-backend-go/internal/core"
	"renovo-backend-go/internal/middleware"
	"renovo-backend-go/internal/models"
)

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/auth/session", map[string]string{"idToken": "bogus"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/auth/session", map[string]string{"idToken": "token-u1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	session := findCookie(w.Result().Cookies(), middleware.SessionCookieName)
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.NotNil(t, findCookie(w.Result().Cookies(), middleware.DebugCookieName))
	assert.Equal(t, "u1", decode[SessionResponse](t, w).User.UID)

	withSession := func(r *http.Request) { r.AddCookie(session) }
	w = s.do(http.MethodGet, "/api/auth/me", nil, withSession)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", decode[PrincipalResponse](t, w).UID)

	w = s.do(http.MethodPost, "/api/auth/logout", nil, withSession)
	require.Equal(t, http.StatusOK, w.Code)
	for _, name := range []string{middleware.SessionCookieName, middleware.DebugCookieName} {
		cleared := findCookie(w.Result().Cookies(), name)
		require.NotNil(t, cleared, name)
		assert.Empty(t, cleared.Value)
		assert.Negative(t, cleared.MaxAge)
	}

	// The session was revoked, so the cookie no longer authenticates.
	w = s.do(http.MethodGet, "/api/auth/me", nil, withSession)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout_WithoutSessionStillClears(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, findCookie(w.Result().Cookies(), middleware.SessionCookieName))

	w = s.do(http.MethodOptions, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "POST, OPTIONS", w.Header().Get("Allow"))
}

func TestSetClaims(t *testing.T) {
	s := newTestServer(t)
	body := map[string]interface{}{"uid": "u1", "claims": map[string]interface{}{"role": "admin"}}

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/admin/set-claims", body).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/admin/set-claims", body, withBearer("token-u1")).Code)

	w := s.do(http.MethodPost, "/api/admin/set-claims", body, withBearer("token-admin"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[core.SetClaimsResult](t, w)
	assert.Equal(t, core.ClaimsStatusComplete, result.Status)
	assert.True(t, result.FirestoreUpdated)
	assert.True(t, result.ClaimsUpdated)

	user, err := s.store.Users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.True(t, user.Admin)

	// u1 now carries admin claims.
	w = s.do(http.MethodGet, "/api/auth/me", nil, withBearer("token-u1"))
	assert.True(t, decode[PrincipalResponse](t, w).Admin)
}

func TestSetClaims_Partial(t *testing.T) {
	s := newTestServer(t)
	s.provider.ClaimsErr = errors.New("identity backend down")

	w := s.do(http.MethodPost, "/api/admin/set-claims", map[string]interface{}{
		"uid": "u1", "claims": map[string]interface{}{"role": "editor"},
	}, withBearer("token-admin"))
	require.Equal(t, http.StatusOK, w.Code)
	result := decode[core.SetClaimsResult](t, w)
	assert.Equal(t, core.ClaimsStatusPartial, result.Status)
	assert.True(t, result.FirestoreUpdated)
	assert.False(t, result.ClaimsUpdated)
}

func TestSetClaims_InvalidClaims(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/admin/set-claims", map[string]interface{}{
		"uid": "u1", "claims": map[string]interface{}{"admin": "yes"},
	}, withBearer("token-admin"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/admin/set-claims", map[string]interface{}{"uid": "u1"}, withBearer("token-admin"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "claims is required", decode[ErrorResponse](t, w).Error)
}
