package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/minigolf-go/internal/realtime/ws"
	"github.com/mcoot/minigolf-go/internal/services/session"
	"github.com/mcoot/minigolf-go/internal/web/handler"
	"github.com/mcoot/minigolf-go/internal/web/middleware"
	"github.com/mcoot/minigolf-go/internal/web/sse"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger     *slog.Logger
	Controller *session.Controller
	Hub        *ws.Hub
	HubManager *sse.HubManager
	StaticDir  string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	hubManager := cfg.HubManager
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
	}

	socketHandler := handler.NewSocketHandler(cfg.Hub, cfg.Controller)
	roomHandler := handler.NewRoomHandler(cfg.Controller, hubManager, cfg.Logger.With(slog.String("component", "web")))

	r.HandleFunc("/socket", socketHandler.Socket).Methods(http.MethodGet)
	r.HandleFunc("/rooms/{roomId}/events", roomHandler.Events).Methods(http.MethodGet)

	// Static files
	if cfg.StaticDir != "" {
		homeHandler := handler.NewHomeHandler(cfg.StaticDir)
		r.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
		r.PathPrefix("/").Handler(homeHandler.Static()).Methods(http.MethodGet, http.MethodHead)
	}

	return r
}
