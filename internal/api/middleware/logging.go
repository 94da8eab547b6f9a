package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/minigolf-go/internal/middleware"
)

// Logging tags API request logs with the api component
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger.With(slog.String("component", "api")))
}
