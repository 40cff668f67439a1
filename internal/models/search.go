package models

// SearchRequest is the body of a search call. Domain narrows results to one
// site's documents; paging is 1-based.
type SearchRequest struct {
	Query    string `json:"query" validate:"required"`
	Domain   string `json:"domain,omitempty"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// Normalize applies paging defaults and bounds in place.
func (r *SearchRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = 20
	}
	if r.PageSize > 100 {
		r.PageSize = 100
	}
}

// SearchHit is one ranked result.
type SearchHit struct {
	ID        string  `json:"id"`
	URL       string  `json:"url"`
	Title     string  `json:"title"`
	Snippet   string  `json:"content_snippet"`
	Domain    string  `json:"domain"`
	CrawledAt string  `json:"crawled_at"`
	Score     float64 `json:"score"`
}

// SearchResult is a page of ranked hits.
type SearchResult struct {
	Hits     []SearchHit `json:"hits"`
	Total    int64       `json:"total"`
	Query    string      `json:"query"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// IndexStats reports document counts from the search backend.
type IndexStats struct {
	NumberOfDocuments int64 `json:"number_of_documents"`
	IsIndexing        bool  `json:"is_indexing"`
}
