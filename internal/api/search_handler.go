package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"renovo-backend-go/internal/models"
	"renovo-backend-go/internal/search"
)

// SearchHandler exposes catalog search.
type SearchHandler struct {
	searcher search.Searcher
	logger   *zap.Logger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searcher search.Searcher, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{searcher: searcher, logger: logger}
}

// Search handles GET /api/search?q=&limit=
func (h *SearchHandler) Search(c *gin.Context) {
	limit := search.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be an integer"})
			return
		}
		limit = search.ClampLimit(n)
	}

	results, err := h.searcher.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		if search.IsUnavailable(err) {
			h.logger.Warn("Search upstream unavailable", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Search is temporarily unavailable"})
			return
		}
		internalError(c, h.logger, "Search failed", err)
		return
	}
	if results == nil {
		results = []models.ServiceOffering{}
	}
	c.JSON(http.StatusOK, SearchResponse{Results: results})
}
