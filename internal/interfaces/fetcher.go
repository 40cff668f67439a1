package interfaces

import (
	"context"

	"github.com/ternarybob/scour/internal/models"
)

// Fetcher retrieves one URL and extracts its textual content and internal
// links. Implementations decide transport, timeouts, and extraction; the
// crawl engine only sees the resulting Page. A returned error means the
// fetch itself could not run; an unusable response (non-HTML, HTTP error)
// comes back as a Page with Success=false.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*models.Page, error)
}
