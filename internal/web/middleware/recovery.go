package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/minigolf-go/internal/middleware"
)

// Recovery creates panic recovery middleware for the web interface
// Returns an HTML error page on panic
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, webPanicHandler)
}

func webPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Mini Golf: errore</title></head>
<body>
<h1>Errore interno</h1>
<p>Qualcosa è andato storto. Riprova tra poco.</p>
<p><a href="/">Torna al campo</a></p>
</body>
</html>`))
}
