package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/minigolf-go/internal/model"
	"github.com/mcoot/minigolf-go/internal/services/session"
	"github.com/mcoot/minigolf-go/internal/web/sse"
)

// RoomHandler serves the spectator stream of a room
type RoomHandler struct {
	controller *session.Controller
	hubManager *sse.HubManager
	logger     *slog.Logger
}

// NewRoomHandler creates a new RoomHandler
func NewRoomHandler(controller *session.Controller, hubManager *sse.HubManager, logger *slog.Logger) *RoomHandler {
	return &RoomHandler{
		controller: controller,
		hubManager: hubManager,
		logger:     logger,
	}
}

// Events handles GET /rooms/{roomId}/events
func (h *RoomHandler) Events(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["roomId"])
	password := r.URL.Query().Get("password")

	if _, err := h.controller.Authorize(r.Context(), roomID, password); err != nil {
		switch {
		case errors.Is(err, model.ErrRoomNotFound):
			http.Error(w, "Room not found", http.StatusNotFound)
		case errors.Is(err, model.ErrWrongPassword):
			http.Error(w, "Wrong password", http.StatusForbidden)
		default:
			h.logger.Error("authorize spectator",
				slog.String("room_id", string(roomID)),
				slog.String("error", err.Error()),
			)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	sse.ServeSSE(w, r, h.hubManager.GetOrCreateHub(roomID))
}
