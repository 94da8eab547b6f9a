package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/minigolf-go/internal/api/apierr"
	"github.com/mcoot/minigolf-go/internal/api/handler"
	"github.com/mcoot/minigolf-go/internal/api/middleware"
	"github.com/mcoot/minigolf-go/internal/services/session"
)

// PathPrefix is where the API is mounted
const PathPrefix = "/api/v1"

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger     *slog.Logger
	Controller *session.Controller
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	Register(r, cfg)
	return r
}

// Register mounts the API routes under PathPrefix on an existing router
func Register(r *mux.Router, cfg RouterConfig) {
	roomHandler := handler.NewRoomHandler(cfg.Controller, cfg.Logger.With(slog.String("component", "api")))

	api := r.PathPrefix(PathPrefix).Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	api.HandleFunc("/health", handler.Health).Methods(http.MethodGet)

	api.HandleFunc("/rooms", roomHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/rooms", roomHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{roomId}", roomHandler.Get).Methods(http.MethodGet)

	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewNotFoundError())
	})
}
