package interfaces

import (
	"context"

	"github.com/ternarybob/scour/internal/models"
)

// CrawlSupervisor is the process-wide registry of in-flight crawl tasks. It
// allocates task IDs, persists the pending record, and spawns one crawl
// engine per launched task. Handlers and the scheduler go through it; they
// never construct engines themselves.
type CrawlSupervisor interface {
	// StartSiteCrawl launches a crawl for a registered site using the
	// site's snapshot attributes. Returns models.ErrCrawlInProgress when
	// the site already has a running task, and models.ErrCrawlLimitReached
	// when the concurrent-crawl cap is hit.
	StartSiteCrawl(ctx context.Context, site *models.Site) (*models.CrawlTask, error)

	// StartAdHocCrawl launches a one-off crawl not tied to a site.
	StartAdHocCrawl(ctx context.Context, req *models.CrawlRequest) (*models.CrawlTask, error)

	// RunningCount returns the number of tasks currently executing.
	RunningCount() int
}
