package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/yegors/preflight/pkg/logger"
)

// StaticFileHandler serves the planner UI from a directory. Paths without a
// file extension that do not exist fall back to index.html so client side
// routes survive a reload.
type StaticFileHandler struct {
	staticDir string
	logger    *logger.Logger
}

// NewStaticFileHandler creates a new static file handler
func NewStaticFileHandler(staticDir string, log *logger.Logger) *StaticFileHandler {
	return &StaticFileHandler{
		staticDir: staticDir,
		logger:    log.Named("static-handler"),
	}
}

// ServeHTTP serves static files
func (h *StaticFileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	absStaticDir, err := filepath.Abs(h.staticDir)
	if err != nil {
		h.logger.Error("Failed to get absolute path for static directory", logger.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Clean the path to prevent directory traversal attacks
	path := strings.TrimPrefix(filepath.Clean("/"+r.URL.Path), "/")
	fullPath := filepath.Join(absStaticDir, path)

	if fullPath != absStaticDir && !strings.HasPrefix(fullPath, absStaticDir+string(filepath.Separator)) {
		h.logger.Warn("Attempted directory traversal",
			logger.String("requested_path", r.URL.Path),
			logger.String("static_dir", absStaticDir))
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	fileInfo, err := os.Stat(fullPath)
	switch {
	case err == nil && fileInfo.IsDir():
		fullPath = filepath.Join(fullPath, "index.html")
		if _, err := os.Stat(fullPath); err != nil {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
	case os.IsNotExist(err) && filepath.Ext(path) == "":
		fullPath = filepath.Join(absStaticDir, "index.html")
		if _, err := os.Stat(fullPath); err != nil {
			http.NotFound(w, r)
			return
		}
	case os.IsNotExist(err):
		h.logger.Debug("File not found", logger.String("path", fullPath))
		http.NotFound(w, r)
		return
	case err != nil:
		h.logger.Error("Failed to stat file", logger.Error(err), logger.String("path", fullPath))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// The UI is edited in place; never let the browser keep a stale copy
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	h.logger.Debug("Serving static file",
		logger.String("requested_path", r.URL.Path),
		logger.String("file_path", fullPath))

	http.ServeFile(w, r, fullPath)
}
