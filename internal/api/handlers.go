package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"renovo-backend-go/internal/middleware"
	"renovo-backend-go/internal/validation"
)

// bindJSON decodes and validates the request body, writing a 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return false
	}
	if err := validation.ValidateStruct(req); err != nil {
		var fieldErr *validation.FieldError
		if errors.As(err, &fieldErr) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: fieldErr.Message})
			return false
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return false
	}
	return true
}

// requireQuery returns the trimmed query parameter or writes a 400.
func requireQuery(c *gin.Context, name string) (string, bool) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: name + " is required"})
		return "", false
	}
	return v, true
}

// internalError logs err and writes a generic 500.
func internalError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	logger.Error(msg, zap.Error(err), zap.String("request_id", middleware.RequestIDFrom(c)))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
}

// authorizeUser rejects callers acting on another user's documents. Anonymous
// callers pass; an authenticated caller must be that user or an admin.
func authorizeUser(c *gin.Context, userID string) bool {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok || principal.UID == userID || principal.IsAdmin() {
		return true
	}
	c.JSON(http.StatusForbidden, ErrorResponse{Error: "Cannot act on another user's account"})
	return false
}
