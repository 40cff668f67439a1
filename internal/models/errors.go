package models

import "errors"

// Sentinel errors surfaced by storage and the crawl supervisor.
// Handlers translate these into HTTP status codes.
var (
	ErrSiteNotFound      = errors.New("site not found")
	ErrTaskNotFound      = errors.New("task not found")
	ErrDuplicateDomain   = errors.New("a site with this domain already exists")
	ErrTaskTerminal      = errors.New("task is in a terminal state")
	ErrCrawlInProgress   = errors.New("a crawl is already running for this site")
	ErrCrawlLimitReached = errors.New("maximum concurrent crawls reached")
)
