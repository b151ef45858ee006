package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/onnwee/storefront-admin/internal/logger"
	"github.com/onnwee/storefront-admin/internal/metrics"
)

const (
	// Time allowed to write a message to the peer
	liveWriteWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	livePongWait = 60 * time.Second

	// Send pings with this period (must be less than livePongWait)
	livePingPeriod = 30 * time.Second
)

var liveUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS middleware handles origin policy
		return true
	},
}

// LiveStatsHandler streams dashboard snapshots over a WebSocket. Each
// connection gets its own push loop; a snapshot is sent on connect and then
// on every tick. The loop reads through the same cache as the REST endpoint,
// so an unchanged dashboard costs one cache hit per tick.
type LiveStatsHandler struct {
	stats    DashboardProvider
	interval time.Duration
}

// NewLiveStatsHandler creates a live stats handler pushing at the given
// interval.
func NewLiveStatsHandler(p DashboardProvider, interval time.Duration) *LiveStatsHandler {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &LiveStatsHandler{stats: p, interval: interval}
}

// ServeWS upgrades the connection and starts the push loop.
// GET /api/admin/stats/live
func (h *LiveStatsHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := liveUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response
		logger.ErrorContext(r.Context(), "Failed to upgrade live stats connection", "error", err)
		return
	}

	metrics.LiveStatsConnections.Inc()
	defer metrics.LiveStatsConnections.Dec()
	defer conn.Close()

	go h.readPump(conn)
	h.writePump(r, conn)
}

// readPump drains client messages so pongs are processed; the client is not
// expected to send anything meaningful.
func (h *LiveStatsHandler) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(livePongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *LiveStatsHandler) writePump(r *http.Request, conn *websocket.Conn) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	pinger := time.NewTicker(livePingPeriod)
	defer pinger.Stop()

	// Initial snapshot on connect
	if err := h.push(r, conn); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if err := h.push(r, conn); err != nil {
				return
			}
		case <-pinger.C:
			conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *LiveStatsHandler) push(r *http.Request, conn *websocket.Conn) error {
	snap, err := h.stats.Dashboard(r.Context())
	if err != nil {
		// Keep the connection; the next tick retries
		logger.WarnContext(r.Context(), "Live stats computation failed", "error", err)
		return nil
	}

	payload, err := json.Marshal(map[string]interface{}{
		"type":    "stats",
		"payload": snap,
	})
	if err != nil {
		logger.Error("Failed to marshal live stats message", "error", err)
		return nil
	}

	conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return err
	}
	metrics.LiveStatsMessagesSent.Inc()
	return nil
}
