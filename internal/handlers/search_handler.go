package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scour/internal/common"
	"github.com/ternarybob/scour/internal/interfaces"
	"github.com/ternarybob/scour/internal/models"
)

// SearchHandler is the query passthrough to the index gateway.
type SearchHandler struct {
	index  interfaces.IndexService
	logger arbor.ILogger
}

func NewSearchHandler(index interfaces.IndexService) *SearchHandler {
	return &SearchHandler{
		index:  index,
		logger: common.GetLogger(),
	}
}

// SearchHandler runs a ranked full-text query, optionally domain-scoped
func (h *SearchHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if !DecodeJSONBody(w, r, &req) {
		return
	}
	if req.Query == "" {
		WriteError(w, http.StatusBadRequest, "Query is required")
		return
	}

	result, err := h.index.Search(r.Context(), &req)
	if err != nil {
		h.logger.Error().Err(err).Str("query", req.Query).Msg("Search failed")
		WriteError(w, http.StatusServiceUnavailable, "Search backend unavailable")
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// StatsHandler reports index document counts
func (h *SearchHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.index.Stats(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to get index stats")
		WriteError(w, http.StatusServiceUnavailable, "Search backend unavailable")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"document_count": stats.NumberOfDocuments,
		"indexing":       stats.IsIndexing,
	})
}
