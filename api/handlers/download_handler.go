package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/pahe-web-go/internal/app"
	"github.com/yourusername/pahe-web-go/internal/domain"
	"go.uber.org/zap"
)

// DownloadHandler handles download streaming and cancellation
type DownloadHandler struct {
	supervisor *app.Supervisor
	library    *app.LibraryService
	hub        *ActivityHub
	logger     *zap.Logger
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(supervisor *app.Supervisor, library *app.LibraryService, hub *ActivityHub, logger *zap.Logger) *DownloadHandler {
	return &DownloadHandler{
		supervisor: supervisor,
		library:    library,
		hub:        hub,
		logger:     logger,
	}
}

// StartDownloadRequest represents the POST /download payload
type StartDownloadRequest struct {
	Anime struct {
		Title string `json:"title"`
	} `json:"anime"`
	Settings struct {
		StartEpisode int    `json:"startEpisode"`
		EndEpisode   int    `json:"endEpisode"`
		Quality      int    `json:"quality"`
		PreferDub    bool   `json:"preferDub"`
		OutputDir    string `json:"outputDir"`
	} `json:"settings"`
}

// StartDownload handles POST /download. On acceptance the response is a
// chunked body of newline-delimited JSON stream events; all errors before
// the first byte use the plain JSON envelope instead.
func (h *DownloadHandler) StartDownload(c *gin.Context) {
	var payload StartDownloadRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req := &domain.DownloadRequest{
		Title:        payload.Anime.Title,
		StartEpisode: payload.Settings.StartEpisode,
		EndEpisode:   payload.Settings.EndEpisode,
		Quality:      domain.Quality(payload.Settings.Quality),
		PreferDub:    payload.Settings.PreferDub,
		OutputDir:    payload.Settings.OutputDir,
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.supervisor.Start(req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDownloadActive):
			respondError(c, http.StatusConflict, domain.ErrDownloadActive.Error())
		case errors.Is(err, domain.ErrSpawn):
			h.logger.Error("Failed to spawn script", zap.Error(err))
			respondError(c, http.StatusInternalServerError, err.Error())
		default:
			h.logger.Error("Failed to start download", zap.Error(err))
			respondError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	record, err := h.library.Begin(req)
	if err != nil {
		// History is best-effort; the run itself is already live.
		h.logger.Error("Failed to record download", zap.Error(err))
	}

	c.Writer.Header().Set("Content-Type", "application/x-ndjson")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	outcome, errMsg := h.streamEvents(c, events)

	if record != nil {
		h.library.Finish(record, outcome, errMsg)
	}
}

// streamEvents relays events to the response body, flushing after every
// record, until the stream ends or the client goes away. The returned
// outcome is what the stream actually observed: a stream that ends without
// a complete event was cancelled.
func (h *DownloadHandler) streamEvents(c *gin.Context, events <-chan domain.StreamEvent) (app.RunOutcome, string) {
	enc := json.NewEncoder(c.Writer)
	ctx := c.Request.Context()

	outcome := app.OutcomeCancelled
	lastErr := ""

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return outcome, lastErr
			}

			if h.hub != nil {
				h.hub.Broadcast(ev)
			}

			if ev.IsComplete() {
				if ev.Succeeded() {
					outcome = app.OutcomeCompleted
				} else {
					outcome = app.OutcomeFailed
					if lastErr == "" {
						lastErr = "downloader script exited with an error"
					}
				}
			} else if ev.Log != nil && ev.Log.Type == domain.LogError {
				lastErr = ev.Log.Message
			}

			if err := enc.Encode(ev); err != nil {
				h.logger.Warn("Client write failed, cancelling run", zap.Error(err))
				h.supervisor.Cancel()
				drain(events)
				return app.OutcomeCancelled, ""
			}
			c.Writer.Flush()

		case <-ctx.Done():
			h.logger.Info("Client disconnected, cancelling run")
			h.supervisor.Cancel()
			drain(events)
			return app.OutcomeCancelled, ""
		}
	}
}

// drain consumes the remainder of a cancelled stream so the producer side
// can observe the exit and release the slot.
func drain(events <-chan domain.StreamEvent) {
	for range events {
	}
}

// CancelDownload handles POST /download/cancel. Best-effort and idempotent:
// it kills whichever run holds the global slot, or does nothing.
func (h *DownloadHandler) CancelDownload(c *gin.Context) {
	h.supervisor.Cancel()
	c.JSON(http.StatusOK, gin.H{})
}
