package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"renovo-backend-go/internal/config"
)

// CORSMiddleware allows the comma separated origins in CLIENT_URL, falling back
// to APP_BASE_URL. Credentials are allowed so the session cookie travels.
func CORSMiddleware(appConfig *config.Config) gin.HandlerFunc {
	if appConfig == nil {
		panic("CORSMiddleware requires a loaded config")
	}

	var origins []string
	for _, o := range strings.Split(appConfig.ClientURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, strings.TrimRight(o, "/"))
		}
	}
	if len(origins) == 0 {
		origins = []string{strings.TrimRight(appConfig.AppBaseURL, "/")}
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
