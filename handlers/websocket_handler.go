package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/portal-arena/auth"
	"github.com/Dosada05/portal-arena/realtime"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Any origin is accepted; lock this down once the client is served
		// from a fixed domain.
		return true
	},
}

type WebSocketHandler struct {
	hub          *realtime.Hub
	capabilities *auth.Manager
}

func NewWebSocketHandler(hub *realtime.Hub, capabilities *auth.Manager) *WebSocketHandler {
	return &WebSocketHandler{
		hub:          hub,
		capabilities: capabilities,
	}
}

// ServeWs handles GET /ws. An optional ?token= carries the viewer's
// capability; connections without one (or with a bad one) are observers and
// can only watch. Room membership is driven by join/leave messages on the
// connection itself.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	var capability *auth.Capability
	if token := r.URL.Query().Get("token"); token != "" {
		verified, err := h.capabilities.Verify(token)
		if err != nil {
			slog.Warn("websocket connection with invalid capability token", slog.Any("error", err))
		} else {
			capability = verified
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		slog.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := realtime.NewClient(h.hub, conn, capability)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
