package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/pahe-web-go/internal/app"
	"github.com/yourusername/pahe-web-go/internal/domain"
	"go.uber.org/zap"
)

func healthRouter(supervisor *app.Supervisor) *gin.Engine {
	h := NewHealthHandler(supervisor)
	router := gin.New()
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	return router
}

func TestHealth_Idle(t *testing.T) {
	supervisor := app.NewSupervisor(&fakeLauncher{}, "", zap.NewNop())
	router := healthRouter(supervisor)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.False(t, resp.Download.Active)
}

func TestHealth_ReportsActiveDownload(t *testing.T) {
	launcher := &fakeLauncher{}
	supervisor := app.NewSupervisor(launcher, "", zap.NewNop())
	router := healthRouter(supervisor)

	events, err := supervisor.Start(&domain.DownloadRequest{
		Title: "One Piece", StartEpisode: 1, Quality: domain.Quality1080,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Download.Active)

	launcher.procs[0].finish()
	for range events {
	}
}

func TestReady(t *testing.T) {
	supervisor := app.NewSupervisor(&fakeLauncher{}, "", zap.NewNop())
	router := healthRouter(supervisor)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready"}`, w.Body.String())
}
