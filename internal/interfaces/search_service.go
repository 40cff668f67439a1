package interfaces

import (
	"context"

	"github.com/ternarybob/scour/internal/models"
)

// IndexService is a thin client over the full-text search backend. It hides
// engine specifics so crawling and querying code never touch the backend SDK
// directly. Implementations must be safe for concurrent use; the crawl
// engines and API handlers share one instance.
type IndexService interface {
	// EnsureIndex creates the document index and applies its settings if it
	// does not exist yet. Idempotent.
	EnsureIndex(ctx context.Context) error

	// UpsertBatch adds or replaces a batch of documents keyed by ID.
	// An empty batch is a no-op.
	UpsertBatch(ctx context.Context, docs []*models.Document) error

	// DeleteByDomain removes every document whose domain matches exactly.
	DeleteByDomain(ctx context.Context, domain string) error

	// Search runs a ranked full-text query with optional domain scoping.
	Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, error)

	// Stats reports document counts for the index.
	Stats(ctx context.Context) (*models.IndexStats, error)

	// Health checks reachability of the search backend.
	Health(ctx context.Context) error
}
