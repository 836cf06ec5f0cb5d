package websocket

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"chartsnap-backend/internal/progress"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// Handler streams fetch job progress lines to websocket clients.
type Handler struct {
	hub *progress.Hub
}

func NewHandler(hub *progress.Hub) *Handler {
	return &Handler{hub: hub}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	slog.Info("progress feed client connected", "remote", r.RemoteAddr)

	lines, cancel := h.hub.Subscribe()
	defer cancel()

	// Drain reads so close frames are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
				slog.Debug("progress feed write failed", "error", err)
				return
			}
		case <-ping.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
