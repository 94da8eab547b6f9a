package handler

import (
	"net/http"

	"github.com/mcoot/minigolf-go/internal/realtime/ws"
)

// SocketHandler upgrades game clients to the realtime channel
type SocketHandler struct {
	hub     *ws.Hub
	handler ws.Handler
}

// NewSocketHandler creates a new SocketHandler
func NewSocketHandler(hub *ws.Hub, handler ws.Handler) *SocketHandler {
	return &SocketHandler{hub: hub, handler: handler}
}

// Socket handles GET /socket
func (h *SocketHandler) Socket(w http.ResponseWriter, r *http.Request) {
	ws.ServeWS(w, r, h.hub, h.handler)
}
