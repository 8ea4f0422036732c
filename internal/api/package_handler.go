package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"renovo-backend-go/internal/core"
)

// PackageHandler serves package suggestions.
type PackageHandler struct {
	packages core.PackageService
	logger   *zap.Logger
}

// NewPackageHandler creates a new PackageHandler.
func NewPackageHandler(packages core.PackageService, logger *zap.Logger) *PackageHandler {
	return &PackageHandler{packages: packages, logger: logger}
}

// Suggest handles POST /api/packages/suggest. Cached payloads are written
// byte-for-byte; X-Cache reports HIT or MISS.
func (h *PackageHandler) Suggest(c *gin.Context) {
	var req SuggestPackagesRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Budget != nil && *req.Budget < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "budget must not be negative"})
		return
	}

	payload, cached, err := h.packages.Suggest(c.Request.Context(), req)
	if err != nil {
		internalError(c, h.logger, "Package suggestion failed", err)
		return
	}
	if cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}
