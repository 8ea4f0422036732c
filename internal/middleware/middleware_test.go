package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"renovo-backend-go/internal/identity"
	"renovo-backend-go/internal/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newProvider(t *testing.T) (*identity.StaticProvider, string) {
	t.Helper()
	provider := identity.NewStaticProvider()
	provider.Register("id-user", identity.Principal{UID: "u1", Email: "u1@example.com"})
	provider.Register("id-admin", identity.Principal{UID: "root", Admin: true})
	cookie, err := provider.CreateSessionCookie(context.Background(), "id-user", identity.SessionDuration)
	require.NoError(t, err)
	return provider, cookie
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestEdgeGate(t *testing.T) {
	provider, cookie := newProvider(t)
	r := gin.New()
	r.Use(EdgeGate(provider, []string{"/admin", "/account"}, zap.NewNop()))
	ok := func(c *gin.Context) { c.String(http.StatusOK, "page") }
	r.GET("/admin/users", ok)
	r.GET("/administrator", ok)
	r.GET("/shop", ok)

	tests := []struct {
		name     string
		path     string
		cookie   string
		wantCode int
		wantLoc  string
	}{
		{name: "public page", path: "/shop", wantCode: http.StatusOK},
		{name: "missing cookie", path: "/admin/users", wantCode: http.StatusFound, wantLoc: "/login?redirect=%2Fadmin%2Fusers"},
		{name: "forged cookie", path: "/admin/users", cookie: "anything-admin", wantCode: http.StatusFound, wantLoc: "/login?redirect=%2Fadmin%2Fusers"},
		{name: "verified cookie", path: "/admin/users", cookie: cookie, wantCode: http.StatusOK},
		{name: "segment boundary", path: "/administrator", wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.cookie})
			}
			w := serve(r, req)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantLoc != "" {
				assert.Equal(t, tt.wantLoc, w.Header().Get("Location"))
			}
		})
	}
}

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	provider, cookie := newProvider(t)
	auth := NewAuthMiddleware(provider, zap.NewNop())
	r := gin.New()
	r.GET("/me", auth.RequireAuth(), func(c *gin.Context) {
		p, _ := PrincipalFrom(c)
		c.String(http.StatusOK, p.UID)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookie})
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "bearer id-admin")
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "root", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
}

func TestAuthMiddleware_RequireAdmin(t *testing.T) {
	provider, cookie := newProvider(t)
	auth := NewAuthMiddleware(provider, zap.NewNop())
	calls := 0
	r := gin.New()
	r.POST("/admin", auth.RequireAdmin(), func(c *gin.Context) {
		calls++
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusUnauthorized, serve(r, httptest.NewRequest(http.MethodPost, "/admin", nil)).Code)

	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookie})
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)
	assert.Zero(t, calls)

	req = httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.Header.Set("Authorization", "Bearer id-admin")
	assert.Equal(t, http.StatusNoContent, serve(r, req).Code)
	assert.Equal(t, 1, calls)
}

func TestAuthenticate_NeverRejects(t *testing.T) {
	provider, _ := newProvider(t)
	r := gin.New()
	r.Use(NewAuthMiddleware(provider, zap.NewNop()).Authenticate())
	r.GET("/", func(c *gin.Context) {
		_, ok := PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale"})
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFrom(c)) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	const inbound = "0b7f3f2e-4a8e-4f55-9d2a-3c8e6f1d2b10"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, inbound)
	assert.Equal(t, inbound, serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	assert.NotEqual(t, "<script>", serve(r, req).Body.String())
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2)
	r := gin.New()
	r.POST("/api/leads", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/leads", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		codes = append(codes, serve(r, req).Code)
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodPost, "/api/leads", nil)
	req.RemoteAddr = "198.51.100.9:1234"
	assert.Equal(t, http.StatusCreated, serve(r, req).Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), RecoveryMiddleware(zap.NewNop()))
	r.GET("/boom/:id", func(c *gin.Context) { panic("kaboom") })

	before := testutil.ToFloat64(metrics.PanicsRecovered.WithLabelValues("/boom/:id"))
	w := serve(r, httptest.NewRequest(http.MethodGet, "/boom/7", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"An unexpected internal server error occurred."}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "kaboom")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.PanicsRecovered.WithLabelValues("/boom/:id")))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	provider, cookie := newProvider(t)
	r := gin.New()
	r.Use(RequestID(), RequestLogger(zap.New(core)), NewAuthMiddleware(provider, zap.NewNop()).Authenticate())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/projects/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/api/fail", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	req := httptest.NewRequest(http.MethodGet, "/api/projects/p1?expand=1", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookie})
	serve(r, req)
	serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/api/fail", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)

	first := entries[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/api/projects/:id", first["route"])
	assert.Equal(t, "/api/projects/p1", first["path"])
	assert.Equal(t, "u1", first["uid"])
	assert.Equal(t, "expand=1", first["query"])
	assert.NotEmpty(t, first["request_id"])

	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[3].Level)
	assert.Equal(t, "unmatched", entries[3].ContextMap()["route"])
}
