package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scour/internal/common"
	"github.com/ternarybob/scour/internal/interfaces"
	"github.com/ternarybob/scour/internal/models"
)

// CrawlHandler exposes ad-hoc crawl triggering and task inspection.
type CrawlHandler struct {
	supervisor interfaces.CrawlSupervisor
	tasks      interfaces.TaskStorage
	validate   *validator.Validate
	logger     arbor.ILogger
}

func NewCrawlHandler(supervisor interfaces.CrawlSupervisor, tasks interfaces.TaskStorage) *CrawlHandler {
	return &CrawlHandler{
		supervisor: supervisor,
		tasks:      tasks,
		validate:   validator.New(),
		logger:     common.GetLogger(),
	}
}

// StartCrawlHandler launches an ad-hoc crawl from a raw URL
func (h *CrawlHandler) StartCrawlHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CrawlRequest
	if !DecodeJSONBody(w, r, &req) {
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid crawl request: "+err.Error())
		return
	}

	task, err := h.supervisor.StartAdHocCrawl(r.Context(), &req)
	if err != nil {
		h.logger.Warn().Err(err).Str("url", req.URL).Msg("Failed to launch ad-hoc crawl")
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"task_id": task.ID,
		"status":  string(task.Status),
	})
}

// ListTasksHandler returns a page of crawl tasks, newest first
func (h *CrawlHandler) ListTasksHandler(w http.ResponseWriter, r *http.Request) {
	page, pageSize := GetPaginationParams(r)

	tasks, total, err := h.tasks.ListTasks(r.Context(), page, pageSize)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list tasks")
		WriteError(w, http.StatusInternalServerError, "Failed to list tasks")
		return
	}

	if tasks == nil {
		tasks = []*models.CrawlTask{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":     tasks,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetTaskHandler returns one crawl task by ID
func (h *CrawlHandler) GetTaskHandler(w http.ResponseWriter, r *http.Request, taskID string) {
	task, err := h.tasks.GetTask(r.Context(), taskID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, task)
}
