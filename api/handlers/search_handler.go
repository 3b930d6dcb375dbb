package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/pahe-web-go/internal/app"
	"github.com/yourusername/pahe-web-go/internal/domain"
	"go.uber.org/zap"
)

// SearchHandler handles search requests
type SearchHandler struct {
	search *app.SearchService
	logger *zap.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(search *app.SearchService, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		search: search,
		logger: logger,
	}
}

// SearchRequest represents the POST /search payload
type SearchRequest struct {
	Query string `json:"query"`
}

// Search handles POST /search
func (h *SearchHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	results, err := h.search.Search(c.Request.Context(), req.Query)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyQuery):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrResultParse):
			respondError(c, http.StatusBadGateway, domain.ErrResultParse.Error())
		case errors.Is(err, domain.ErrScriptFailed):
			respondError(c, http.StatusBadGateway, err.Error())
		default:
			h.logger.Error("Search failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"results": results,
	})
}
