package handler

import (
	"net/http"
	"os"
	"path/filepath"
)

const indexFile = "index.html"

// HomeHandler serves the game client from the static directory
type HomeHandler struct {
	staticDir string
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(staticDir string) *HomeHandler {
	return &HomeHandler{staticDir: staticDir}
}

// Home serves index.html
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(h.staticDir, indexFile)
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeFile(w, r, path)
}

// Static serves everything else under the static directory
func (h *HomeHandler) Static() http.Handler {
	return http.FileServer(http.Dir(h.staticDir))
}
