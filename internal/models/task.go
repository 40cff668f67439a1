package models

import "time"

// TaskStatus is the lifecycle state of a crawl task.
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusRunning TaskStatus = "running"
	TaskStatusSuccess TaskStatus = "success"
	TaskStatusFailed  TaskStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusSuccess || s == TaskStatusFailed
}

// MaxErrorMessageLen caps the persisted error message of a failed task.
const MaxErrorMessageLen = 2000

// CrawlTask is one crawl run. The start_url/max_depth/max_pages/
// same_domain_only fields are a snapshot taken at creation time, so later
// site edits never affect an in-flight or historical run.
type CrawlTask struct {
	ID             string     `json:"id"`
	SiteID         *string    `json:"site_id,omitempty"` // nil for ad-hoc crawls
	StartURL       string     `json:"start_url"`
	MaxDepth       int        `json:"max_depth"`
	MaxPages       int        `json:"max_pages"`
	SameDomainOnly bool       `json:"same_domain_only"`
	Status         TaskStatus `json:"status"`
	Progress       int        `json:"progress"` // 0-100
	TotalPages     int        `json:"total_pages"`
	SuccessPages   int        `json:"success_pages"`
	FailedPages    int        `json:"failed_pages"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TaskPatch carries the writable subset of a task's fields. Nil fields are
// left unchanged. Everything outside this set is append-once.
type TaskPatch struct {
	Status       *TaskStatus
	Progress     *int
	TotalPages   *int
	SuccessPages *int
	FailedPages  *int
	ErrorMessage *string
	StartedAt    *time.Time
	FinishedAt   *time.Time
}

// CrawlRequest is the body of an ad-hoc crawl trigger. Omitted limits take
// the configured defaults.
type CrawlRequest struct {
	URL               string `json:"url" validate:"required,url"`
	MaxDepth          *int   `json:"max_depth" validate:"omitempty,min=0"`
	MaxPages          *int   `json:"max_pages" validate:"omitempty,min=1"`
	SameDomainOnly    *bool  `json:"same_domain_only"`
	DomainRestriction string `json:"domain_restriction,omitempty"`
	SiteID            string `json:"site_id,omitempty"`
}

// TaskProgress computes percent complete from processed page counts against
// the run's page cap, floored and capped at 100.
func TaskProgress(successPages, failedPages, maxPages int) int {
	if maxPages <= 0 {
		return 0
	}
	progress := (successPages + failedPages) * 100 / maxPages
	if progress > 100 {
		progress = 100
	}
	if progress < 0 {
		progress = 0
	}
	return progress
}

// TruncateError clips an error message to the persisted limit.
func TruncateError(msg string) string {
	if len(msg) > MaxErrorMessageLen {
		return msg[:MaxErrorMessageLen]
	}
	return msg
}
