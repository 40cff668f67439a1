package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scour/internal/common"
	"github.com/ternarybob/scour/internal/interfaces"
)

type APIHandler struct {
	index  interfaces.IndexService
	logger arbor.ILogger
}

func NewAPIHandler(index interfaces.IndexService) *APIHandler {
	return &APIHandler{
		index:  index,
		logger: common.GetLogger(),
	}
}

// VersionHandler returns version information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version":    common.GetVersion(),
		"build":      common.Build,
		"git_commit": common.GitCommit,
	})
}

// HealthHandler reports service health. The service itself answering means
// storage and handlers are up; the search backend is probed explicitly and
// degrades the status rather than failing it.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	if err := h.index.Health(r.Context()); err != nil {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":      "ok",
		"meilisearch": "available",
	})
}

// NotFoundHandler handles 404 errors with JSON response
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"error":   "Not Found",
		"path":    r.URL.Path,
		"message": "The requested endpoint does not exist",
	})
}
