// -----------------------------------------------------------------------
// Last Modified: Wednesday, 19th August 2026 10:05:12 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package interfaces

import (
	"context"
	"time"

	"github.com/ternarybob/scour/internal/models"
)

// SiteStorage - interface for crawl site persistence
type SiteStorage interface {
	// CRUD operations
	CreateSite(ctx context.Context, site *models.Site) error
	GetSite(ctx context.Context, id string) (*models.Site, error)
	GetSiteByDomain(ctx context.Context, domain string) (*models.Site, error)
	UpdateSite(ctx context.Context, site *models.Site) error
	DeleteSite(ctx context.Context, id string) error

	// List operations, ordered by created_at DESC
	ListSites(ctx context.Context) ([]*models.Site, error)
	ListEnabledSites(ctx context.Context) ([]*models.Site, error)

	// SetLastCrawlAt stamps the site when a run is launched for it
	SetLastCrawlAt(ctx context.Context, id string, at time.Time) error

	// Stats operations
	CountSites(ctx context.Context) (int, error)
}

// TaskStorage - interface for crawl task persistence
type TaskStorage interface {
	CreateTask(ctx context.Context, task *models.CrawlTask) error
	GetTask(ctx context.Context, id string) (*models.CrawlTask, error)

	// PatchTask applies the writable subset of task fields and returns the
	// updated record. Terminal tasks reject further patches.
	PatchTask(ctx context.Context, id string, patch *models.TaskPatch) (*models.CrawlTask, error)

	// List operations, ordered by created_at DESC
	ListTasks(ctx context.Context, page, pageSize int) ([]*models.CrawlTask, int, error)
	ListTasksByStatus(ctx context.Context, status models.TaskStatus) ([]*models.CrawlTask, error)

	// Stats operations
	CountTasks(ctx context.Context) (int, error)
}

// StorageManager - composite interface for all storage operations
type StorageManager interface {
	Sites() SiteStorage
	Tasks() TaskStorage
	Close() error
}
