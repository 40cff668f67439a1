package models

// Page is the outcome of fetching a single URL. Success reports whether the
// response carried usable content. Links holds href values exactly as they
// appeared in the page; the crawl engine resolves them against the page URL.
type Page struct {
	URL     string   `json:"url"`
	Success bool     `json:"success"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Links   []string `json:"links,omitempty"`
}
