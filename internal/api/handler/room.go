package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/minigolf-go/internal/api/apierr"
	"github.com/mcoot/minigolf-go/internal/api/request"
	"github.com/mcoot/minigolf-go/internal/api/response"
	"github.com/mcoot/minigolf-go/internal/model"
	"github.com/mcoot/minigolf-go/internal/services/session"
)

const maxRoomNameLength = 64

// RoomHandler handles room endpoints
type RoomHandler struct {
	controller *session.Controller
	logger     *slog.Logger
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(controller *session.Controller, logger *slog.Logger) *RoomHandler {
	return &RoomHandler{
		controller: controller,
		logger:     logger,
	}
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	infos, err := h.controller.Rooms(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomSummariesFromInfos(infos))
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Invalid JSON body"))
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("name is required"))
		return
	}
	if len(req.Name) > maxRoomNameLength {
		apierr.WriteError(w, apierr.NewInvalidRequestError("name is too long"))
		return
	}

	room, err := h.controller.NewRoom(r.Context(), req.Name, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomCreated{RoomID: string(room.ID)})
}

// Get handles GET /api/v1/rooms/{roomId}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["roomId"])
	password := r.URL.Query().Get("password")

	room, players, err := h.controller.RoomSnapshot(r.Context(), roomID, password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomDetail{
		Room:    response.RoomFromModel(room),
		Players: players,
	})
}

func (h *RoomHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if apierr.Status(err) >= http.StatusInternalServerError {
		h.logger.Error("room request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	apierr.WriteError(w, err)
}
