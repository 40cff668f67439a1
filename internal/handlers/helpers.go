package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ternarybob/scour/internal/models"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a standard success JSON response.
func WriteSuccess(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": message,
	})
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// WriteDomainError maps a service error onto its HTTP status and writes the
// standard error body. Unrecognized errors become a 500 with a generic
// message so internal detail never leaks to clients.
func WriteDomainError(w http.ResponseWriter, err error) error {
	switch {
	case errors.Is(err, models.ErrSiteNotFound), errors.Is(err, models.ErrTaskNotFound):
		return WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrDuplicateDomain):
		return WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrCrawlInProgress):
		return WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrCrawlLimitReached):
		return WriteError(w, http.StatusTooManyRequests, err.Error())
	default:
		return WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// DecodeJSONBody parses the request body into dst. A malformed body writes a
// 400 and returns false.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// GetPaginationParams extracts 1-based pagination parameters from the query
// string. Defaults to page 1 with 20 items; page_size is capped at 100.
func GetPaginationParams(r *http.Request) (page, pageSize int) {
	page = 1
	pageSize = 20

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p >= 1 {
			page = p
		}
	}

	if pageSizeStr := r.URL.Query().Get("page_size"); pageSizeStr != "" {
		if ps, err := strconv.Atoi(pageSizeStr); err == nil && ps >= 1 && ps <= 100 {
			pageSize = ps
		}
	}

	return page, pageSize
}
