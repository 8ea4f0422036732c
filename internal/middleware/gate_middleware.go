package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"renovo-backend-go/internal/identity"
)

// EdgeGate redirects page requests under prefixes to /login unless they carry
// a session cookie that verifies against the identity provider.
func EdgeGate(provider identity.Provider, prefixes []string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !underPrefix(path, prefixes) {
			c.Next()
			return
		}

		cookie, err := c.Cookie(SessionCookieName)
		if err == nil && cookie != "" {
			principal, verr := provider.VerifySessionCookie(c.Request.Context(), cookie)
			if verr == nil {
				c.Set(principalKey, principal)
				c.Next()
				return
			}
			logger.Info("Edge gate rejected session cookie", zap.String("path", path), zap.Error(verr))
		}

		c.Redirect(http.StatusFound, "/login?redirect="+url.QueryEscape(path))
		c.Abort()
	}
}

// underPrefix matches whole path segments: /admin and /admin/x, not /administrator.
func underPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		p = strings.TrimRight(p, "/")
		if p == "" {
			continue
		}
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
