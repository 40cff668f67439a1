package badger

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scour/internal/models"
)

func testTask(startURL string) *models.CrawlTask {
	return &models.CrawlTask{
		StartURL:       startURL,
		MaxDepth:       2,
		MaxPages:       10,
		SameDomainOnly: true,
	}
}

func statusPtr(s models.TaskStatus) *models.TaskStatus { return &s }
func intPtr(i int) *int                                { return &i }
func strPtr(s string) *string                          { return &s }

func TestTaskLifecycle(t *testing.T) {
	db := newTestDB(t)
	storage := NewTaskStorage(db, arbor.NewLogger())
	ctx := context.Background()

	// 1. Create starts the task pending
	task := testTask("https://example.com/")
	if err := storage.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.ID == "" {
		t.Fatal("CreateTask did not assign an ID")
	}
	if task.Status != models.TaskStatusPending {
		t.Errorf("Status = %s, want pending", task.Status)
	}

	// 2. Transition to running with a start time
	now := time.Now().UTC()
	updated, err := storage.PatchTask(ctx, task.ID, &models.TaskPatch{
		Status:    statusPtr(models.TaskStatusRunning),
		StartedAt: &now,
	})
	if err != nil {
		t.Fatalf("PatchTask to running: %v", err)
	}
	if updated.Status != models.TaskStatusRunning {
		t.Errorf("Status = %s, want running", updated.Status)
	}
	if updated.StartedAt == nil {
		t.Error("StartedAt not set")
	}

	// 3. Progress updates during the run
	updated, err = storage.PatchTask(ctx, task.ID, &models.TaskPatch{
		Progress:     intPtr(30),
		TotalPages:   intPtr(4),
		SuccessPages: intPtr(3),
		FailedPages:  intPtr(0),
	})
	if err != nil {
		t.Fatalf("PatchTask progress: %v", err)
	}
	if updated.Progress != 30 || updated.TotalPages != 4 || updated.SuccessPages != 3 {
		t.Errorf("counters = %+v", updated)
	}

	// 4. Terminal transition
	finished := time.Now().UTC()
	updated, err = storage.PatchTask(ctx, task.ID, &models.TaskPatch{
		Status:     statusPtr(models.TaskStatusSuccess),
		Progress:   intPtr(100),
		FinishedAt: &finished,
	})
	if err != nil {
		t.Fatalf("PatchTask to success: %v", err)
	}
	if updated.Status != models.TaskStatusSuccess || updated.FinishedAt == nil {
		t.Errorf("terminal task = %+v", updated)
	}

	// 5. Terminal tasks reject every further patch
	if _, err := storage.PatchTask(ctx, task.ID, &models.TaskPatch{Progress: intPtr(0)}); !errors.Is(err, models.ErrTaskTerminal) {
		t.Errorf("patch after terminal = %v, want ErrTaskTerminal", err)
	}

	// 6. The stored record is unchanged by the rejected patch
	got, err := storage.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.Progress != 100 || got.Status != models.TaskStatusSuccess {
		t.Errorf("task mutated after terminal: %+v", got)
	}
}

func TestTaskErrorMessageTruncated(t *testing.T) {
	db := newTestDB(t)
	storage := NewTaskStorage(db, arbor.NewLogger())
	ctx := context.Background()

	task := testTask("https://example.com/")
	if err := storage.CreateTask(ctx, task); err != nil {
		t.Fatal(err)
	}

	long := make([]byte, models.MaxErrorMessageLen+100)
	for i := range long {
		long[i] = 'e'
	}
	updated, err := storage.PatchTask(ctx, task.ID, &models.TaskPatch{
		Status:       statusPtr(models.TaskStatusFailed),
		ErrorMessage: strPtr(string(long)),
	})
	if err != nil {
		t.Fatalf("PatchTask: %v", err)
	}
	if len(updated.ErrorMessage) != models.MaxErrorMessageLen {
		t.Errorf("error message length = %d, want %d", len(updated.ErrorMessage), models.MaxErrorMessageLen)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	db := newTestDB(t)
	storage := NewTaskStorage(db, arbor.NewLogger())

	if _, err := storage.GetTask(context.Background(), "nope"); !errors.Is(err, models.ErrTaskNotFound) {
		t.Errorf("GetTask = %v, want ErrTaskNotFound", err)
	}
	if _, err := storage.PatchTask(context.Background(), "nope", &models.TaskPatch{}); !errors.Is(err, models.ErrTaskNotFound) {
		t.Errorf("PatchTask = %v, want ErrTaskNotFound", err)
	}
}

func TestListTasksPagination(t *testing.T) {
	db := newTestDB(t)
	storage := NewTaskStorage(db, arbor.NewLogger())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		task := testTask(fmt.Sprintf("https://example.com/%d", i))
		if err := storage.CreateTask(ctx, task); err != nil {
			t.Fatal(err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	page1, total, err := storage.ListTasks(ctx, 1, 2)
	if err != nil {
		t.Fatalf("ListTasks page 1: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(page1) != 2 {
		t.Fatalf("page 1 size = %d, want 2", len(page1))
	}
	// Newest first
	if page1[0].StartURL != "https://example.com/4" {
		t.Errorf("first item = %s, want the newest task", page1[0].StartURL)
	}

	page3, _, err := storage.ListTasks(ctx, 3, 2)
	if err != nil {
		t.Fatalf("ListTasks page 3: %v", err)
	}
	if len(page3) != 1 {
		t.Errorf("page 3 size = %d, want 1", len(page3))
	}

	empty, _, err := storage.ListTasks(ctx, 4, 2)
	if err != nil {
		t.Fatalf("ListTasks past end: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("page past end size = %d, want 0", len(empty))
	}
}

func TestListTasksByStatus(t *testing.T) {
	db := newTestDB(t)
	storage := NewTaskStorage(db, arbor.NewLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		task := testTask(fmt.Sprintf("https://example.com/%d", i))
		if err := storage.CreateTask(ctx, task); err != nil {
			t.Fatal(err)
		}
		if i == 0 {
			if _, err := storage.PatchTask(ctx, task.ID, &models.TaskPatch{Status: statusPtr(models.TaskStatusRunning)}); err != nil {
				t.Fatal(err)
			}
		}
	}

	running, err := storage.ListTasksByStatus(ctx, models.TaskStatusRunning)
	if err != nil {
		t.Fatalf("ListTasksByStatus: %v", err)
	}
	if len(running) != 1 {
		t.Errorf("running tasks = %d, want 1", len(running))
	}

	pending, err := storage.ListTasksByStatus(ctx, models.TaskStatusPending)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 {
		t.Errorf("pending tasks = %d, want 2", len(pending))
	}
}
