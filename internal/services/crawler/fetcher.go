package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scour/internal/common"
	"github.com/ternarybob/scour/internal/models"
)

// HTTPFetcher retrieves pages over plain HTTP and converts the main
// content to markdown. A non-nil error means the request could not be
// made at all; an unusable response (non-2xx status, non-HTML body,
// nothing extractable) comes back as a Page with Success=false.
type HTTPFetcher struct {
	client *http.Client
	config *common.CrawlerConfig
	logger arbor.ILogger
}

// NewHTTPFetcher creates a new HTTPFetcher instance.
func NewHTTPFetcher(config *common.CrawlerConfig, logger arbor.ILogger) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: config.FetchTimeout},
		config: config,
		logger: logger,
	}
}

// Fetch downloads a single page and extracts title, links and markdown content.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (*models.Page, error) {
	page := &models.Page{URL: pageURL}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid fetch url %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.logger.Debug().Str("url", pageURL).Int("status", resp.StatusCode).Msg("Fetch returned non-success status")
		return page, nil
	}

	if !isHTMLContent(resp.Header.Get("Content-Type")) {
		f.logger.Debug().Str("url", pageURL).Str("content_type", resp.Header.Get("Content-Type")).Msg("Skipping non-HTML content")
		return page, nil
	}

	body := io.LimitReader(resp.Body, int64(f.config.MaxBodySize))
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		f.logger.Debug().Err(err).Str("url", pageURL).Msg("Failed to parse HTML")
		return page, nil
	}

	// Links come off the full DOM before any boilerplate is stripped,
	// otherwise nav links to the rest of the site would be lost.
	page.Links = extractLinks(doc)
	page.Title = strings.TrimSpace(doc.Find("title").First().Text())
	page.Content = f.extractMarkdown(doc, pageURL)
	page.Success = page.Content != ""

	return page, nil
}

// isHTMLContent checks if the content type indicates HTML.
// Empty content type is treated as HTML since some servers omit it.
func isHTMLContent(contentType string) bool {
	if contentType == "" {
		return true
	}
	ct := strings.ToLower(strings.TrimSpace(contentType))
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}

// extractLinks collects every unique href from anchor tags, unresolved.
func extractLinks(doc *goquery.Document) []string {
	seen := make(map[string]struct{})
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		if _, ok := seen[href]; ok {
			return
		}
		seen[href] = struct{}{}
		links = append(links, href)
	})

	return links
}

// extractMarkdown finds the main content area and converts it to markdown.
// Prefers semantic content containers; falls back to the body with
// navigation and script noise removed.
func (f *HTTPFetcher) extractMarkdown(doc *goquery.Document, pageURL string) string {
	content := doc.Find("main, article, [role=main]").First()

	if content.Length() == 0 {
		doc.Find("nav, header, footer, aside, script, style, noscript").Remove()
		content = doc.Find("body").First()
	}
	if content.Length() == 0 {
		return ""
	}

	html, err := content.Html()
	if err != nil {
		f.logger.Warn().Err(err).Str("url", pageURL).Msg("Failed to serialize content for markdown conversion")
		return ""
	}

	converter := md.NewConverter(pageURL, true, nil)
	markdown, err := converter.ConvertString(html)
	if err != nil {
		f.logger.Warn().Err(err).Str("url", pageURL).Msg("Failed to convert HTML to markdown")
		return ""
	}

	return strings.TrimSpace(markdown)
}
