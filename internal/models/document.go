package models

import "time"

// MaxContentChars caps the content stored per document; longer extractions
// are clipped before indexing.
const MaxContentChars = 50000

// Document is one indexed page. The ID is derived from the normalized URL,
// so re-crawling a page in any later run upserts the same index entry.
type Document struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Domain    string `json:"domain"`
	CrawledAt string `json:"crawled_at"` // RFC3339 UTC; sorts chronologically as a string
}

// NewDocument builds an index document from extracted page content. The
// title falls back to the URL when extraction found none, and content is
// clipped to MaxContentChars characters.
func NewDocument(id, url, title, content, domain string, crawledAt time.Time) *Document {
	if title == "" {
		title = url
	}
	if len(content) > MaxContentChars {
		if runes := []rune(content); len(runes) > MaxContentChars {
			content = string(runes[:MaxContentChars])
		}
	}
	return &Document{
		ID:        id,
		URL:       url,
		Title:     title,
		Content:   content,
		Domain:    domain,
		CrawledAt: crawledAt.UTC().Format(time.RFC3339),
	}
}
