package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yourusername/pahe-web-go/internal/domain"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Same-host UI; no cross-origin restriction needed
	},
}

// ActivityHub mirrors the live download event stream to any number of
// websocket observers (for example a second browser tab watching progress).
// Broadcast never blocks the download stream: slow observers miss events.
type ActivityHub struct {
	logger  *zap.Logger
	mu      sync.RWMutex
	clients map[*websocket.Conn]chan domain.StreamEvent
}

// NewActivityHub creates a new activity hub
func NewActivityHub(logger *zap.Logger) *ActivityHub {
	return &ActivityHub{
		logger:  logger,
		clients: make(map[*websocket.Conn]chan domain.StreamEvent),
	}
}

// Broadcast fans an event out to all connected observers, dropping it for
// any observer whose buffer is full.
func (h *ActivityHub) Broadcast(ev domain.StreamEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.clients {
		select {
		case ch <- ev:
		default:
		}
	}
}

// HandleWebSocket handles GET /ws/activity
func (h *ActivityHub) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}
	defer conn.Close()

	ch := make(chan domain.StreamEvent, 100)

	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	h.logger.Info("Activity observer connected",
		zap.String("remote_addr", c.Request.RemoteAddr))

	// Reader goroutine: only there to notice the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case ev := <-ch:
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			return
		}
	}
}
