package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/pahe-web-go/internal/app"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	supervisor *app.Supervisor
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(supervisor *app.Supervisor) *HealthHandler {
	return &HealthHandler{
		supervisor: supervisor,
	}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Download struct {
		Active bool `json:"active"`
	} `json:"download"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	}
	response.Download.Active = h.supervisor.Active()

	c.JSON(http.StatusOK, response)
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
