package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/pahe-web-go/internal/app"
	"go.uber.org/zap"
)

// LibraryHandler serves the download history
type LibraryHandler struct {
	library *app.LibraryService
	logger  *zap.Logger
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(library *app.LibraryService, logger *zap.Logger) *LibraryHandler {
	return &LibraryHandler{
		library: library,
		logger:  logger,
	}
}

// ListDownloads handles GET /downloads
func (h *LibraryHandler) ListDownloads(c *gin.Context) {
	records, err := h.library.List()
	if err != nil {
		h.logger.Error("Failed to list downloads", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to list downloads")
		return
	}

	c.JSON(http.StatusOK, gin.H{"downloads": records})
}
