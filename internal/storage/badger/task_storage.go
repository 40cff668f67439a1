package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scour/internal/common"
	"github.com/ternarybob/scour/internal/interfaces"
	"github.com/ternarybob/scour/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// TaskStorage implements the TaskStorage interface for Badger
type TaskStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewTaskStorage creates a new TaskStorage instance
func NewTaskStorage(db *BadgerDB, logger arbor.ILogger) interfaces.TaskStorage {
	return &TaskStorage{
		db:     db,
		logger: logger,
	}
}

func (s *TaskStorage) CreateTask(ctx context.Context, task *models.CrawlTask) error {
	if task.ID == "" {
		task.ID = common.NewTaskID()
	}
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}
	task.CreatedAt = time.Now().UTC()

	if err := s.db.Store().Insert(task.ID, task); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

func (s *TaskStorage) GetTask(ctx context.Context, id string) (*models.CrawlTask, error) {
	var task models.CrawlTask
	if err := s.db.Store().Get(id, &task); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, models.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

// PatchTask applies the writable fields onto the stored record. Once a task
// reaches success or failed it rejects every further patch, so terminal
// states are immutable. The supervisor guarantees a single writer per task,
// which makes read-modify-write safe here.
func (s *TaskStorage) PatchTask(ctx context.Context, id string, patch *models.TaskPatch) (*models.CrawlTask, error) {
	var task models.CrawlTask
	if err := s.db.Store().Get(id, &task); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, models.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	if task.Status.Terminal() {
		return nil, models.ErrTaskTerminal
	}

	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Progress != nil {
		task.Progress = *patch.Progress
	}
	if patch.TotalPages != nil {
		task.TotalPages = *patch.TotalPages
	}
	if patch.SuccessPages != nil {
		task.SuccessPages = *patch.SuccessPages
	}
	if patch.FailedPages != nil {
		task.FailedPages = *patch.FailedPages
	}
	if patch.ErrorMessage != nil {
		task.ErrorMessage = models.TruncateError(*patch.ErrorMessage)
	}
	if patch.StartedAt != nil {
		task.StartedAt = patch.StartedAt
	}
	if patch.FinishedAt != nil {
		task.FinishedAt = patch.FinishedAt
	}

	if err := s.db.Store().Update(id, &task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return &task, nil
}

func (s *TaskStorage) ListTasks(ctx context.Context, page, pageSize int) ([]*models.CrawlTask, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	total, err := s.CountTasks(ctx)
	if err != nil {
		return nil, 0, err
	}

	var tasks []models.CrawlTask
	query := badgerhold.Where("ID").Ne("").
		SortBy("CreatedAt").Reverse().
		Skip((page - 1) * pageSize).
		Limit(pageSize)
	if err := s.db.Store().Find(&tasks, query); err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	result := make([]*models.CrawlTask, len(tasks))
	for i := range tasks {
		result[i] = &tasks[i]
	}
	return result, total, nil
}

func (s *TaskStorage) ListTasksByStatus(ctx context.Context, status models.TaskStatus) ([]*models.CrawlTask, error) {
	var tasks []models.CrawlTask
	if err := s.db.Store().Find(&tasks, badgerhold.Where("Status").Eq(status)); err != nil {
		return nil, fmt.Errorf("failed to list tasks by status: %w", err)
	}

	result := make([]*models.CrawlTask, len(tasks))
	for i := range tasks {
		result[i] = &tasks[i]
	}
	return result, nil
}

func (s *TaskStorage) CountTasks(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.CrawlTask{}, nil)
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
