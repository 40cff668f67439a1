package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/meilisearch/meilisearch-go"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scour/internal/common"
	"github.com/ternarybob/scour/internal/models"
)

// Index settings applied by EnsureIndex. Relevancy order of searchable
// attributes matters: title outranks content outranks url.
var (
	searchableAttributes = []string{"title", "content", "url"}
	filterableAttributes = []string{"domain", "crawled_at"}
	sortableAttributes   = []string{"crawled_at"}
)

const (
	cropLength      = 200 // words kept around the match by the backend
	maxSnippetChars = 300
	indexPrimaryKey = "id"
)

// MeiliSearchService implements IndexService against a Meilisearch backend
type MeiliSearchService struct {
	client meilisearch.ServiceManager
	index  string
	logger arbor.ILogger
}

// NewMeiliSearchService creates a Meilisearch-backed index service
func NewMeiliSearchService(config *common.MeiliConfig, logger arbor.ILogger) *MeiliSearchService {
	var opts []meilisearch.Option
	if config.APIKey != "" {
		opts = append(opts, meilisearch.WithAPIKey(config.APIKey))
	}

	return &MeiliSearchService{
		client: meilisearch.New(config.URL, opts...),
		index:  config.Index,
		logger: logger,
	}
}

// EnsureIndex creates the document index if missing and applies the
// searchable/filterable/sortable settings. Safe to call on every startup.
func (s *MeiliSearchService) EnsureIndex(ctx context.Context) error {
	if _, err := s.client.GetIndex(s.index); err != nil {
		if _, err := s.client.CreateIndex(&meilisearch.IndexConfig{
			Uid:        s.index,
			PrimaryKey: indexPrimaryKey,
		}); err != nil {
			return fmt.Errorf("failed to create index %s: %w", s.index, err)
		}
		s.logger.Info().Str("index", s.index).Msg("Created search index")
	}

	settings := &meilisearch.Settings{
		SearchableAttributes: searchableAttributes,
		FilterableAttributes: filterableAttributes,
		SortableAttributes:   sortableAttributes,
	}
	if _, err := s.client.Index(s.index).UpdateSettings(settings); err != nil {
		return fmt.Errorf("failed to apply index settings: %w", err)
	}
	return nil
}

// UpsertBatch adds or replaces documents keyed by ID. An empty batch is a
// no-op so callers can flush unconditionally.
func (s *MeiliSearchService) UpsertBatch(ctx context.Context, docs []*models.Document) error {
	if len(docs) == 0 {
		return nil
	}

	if _, err := s.client.Index(s.index).AddDocuments(docs, nil); err != nil {
		return fmt.Errorf("failed to index batch of %d documents: %w", len(docs), err)
	}

	s.logger.Debug().Int("count", len(docs)).Msg("Indexed document batch")
	return nil
}

// DeleteByDomain removes every document whose domain matches exactly.
func (s *MeiliSearchService) DeleteByDomain(ctx context.Context, domain string) error {
	filter := buildDomainFilter(common.NormalizeDomain(domain))
	if _, err := s.client.Index(s.index).DeleteDocumentsByFilter(filter, nil); err != nil {
		return fmt.Errorf("failed to delete documents for domain %s: %w", domain, err)
	}

	s.logger.Info().Str("domain", domain).Msg("Purged indexed documents for domain")
	return nil
}

// Search runs a ranked query with cropped content snippets, optionally
// scoped to one domain.
func (s *MeiliSearchService) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, error) {
	req.Normalize()

	searchReq := &meilisearch.SearchRequest{
		Limit:            int64(req.PageSize),
		Offset:           int64((req.Page - 1) * req.PageSize),
		AttributesToCrop: []string{"content"},
		CropLength:       cropLength,
		ShowRankingScore: true,
	}
	if req.Domain != "" {
		searchReq.Filter = buildDomainFilter(common.NormalizeDomain(req.Domain))
	}

	resp, err := s.client.Index(s.index).Search(req.Query, searchReq)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]models.SearchHit, 0, len(resp.Hits))
	for _, raw := range resp.Hits {
		hit, err := decodeHit(raw)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Skipping undecodable search hit")
			continue
		}
		hits = append(hits, hit)
	}

	return &models.SearchResult{
		Hits:     hits,
		Total:    resp.EstimatedTotalHits,
		Query:    req.Query,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// Stats reports document counts for the index.
func (s *MeiliSearchService) Stats(ctx context.Context) (*models.IndexStats, error) {
	stats, err := s.client.Index(s.index).GetStats()
	if err != nil {
		return nil, fmt.Errorf("failed to get index stats: %w", err)
	}
	return &models.IndexStats{
		NumberOfDocuments: stats.NumberOfDocuments,
		IsIndexing:        stats.IsIndexing,
	}, nil
}

// Health checks reachability of the search backend.
func (s *MeiliSearchService) Health(ctx context.Context) error {
	if _, err := s.client.Health(); err != nil {
		return fmt.Errorf("meilisearch unreachable: %w", err)
	}
	return nil
}

// buildDomainFilter produces an exact-match filter expression. Quotes and
// backslashes in the value are escaped so the expression stays well-formed.
func buildDomainFilter(domain string) string {
	escaped := strings.ReplaceAll(domain, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `domain = "` + escaped + `"`
}

// rawHit mirrors an index document plus the highlight and score fields the
// backend attaches to each search result.
type rawHit struct {
	ID           string        `json:"id"`
	URL          string        `json:"url"`
	Title        string        `json:"title"`
	Content      string        `json:"content"`
	Domain       string        `json:"domain"`
	CrawledAt    string        `json:"crawled_at"`
	Formatted    *rawFormatted `json:"_formatted"`
	RankingScore float64       `json:"_rankingScore"`
}

type rawFormatted struct {
	Content string `json:"content"`
}

// decodeHit converts one backend hit into a SearchHit. The cropped content
// from _formatted is preferred for the snippet; the raw content is the
// fallback when cropping returned nothing.
func decodeHit(raw interface{}) (models.SearchHit, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return models.SearchHit{}, fmt.Errorf("failed to re-encode hit: %w", err)
	}

	var h rawHit
	if err := json.Unmarshal(data, &h); err != nil {
		return models.SearchHit{}, fmt.Errorf("failed to decode hit: %w", err)
	}

	snippet := h.Content
	if h.Formatted != nil && h.Formatted.Content != "" {
		snippet = h.Formatted.Content
	}

	return models.SearchHit{
		ID:        h.ID,
		URL:       h.URL,
		Title:     h.Title,
		Snippet:   truncateSnippet(snippet),
		Domain:    h.Domain,
		CrawledAt: h.CrawledAt,
		Score:     h.RankingScore,
	}, nil
}

// truncateSnippet clips a snippet to its character budget without splitting
// a rune.
func truncateSnippet(s string) string {
	if len(s) <= maxSnippetChars {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxSnippetChars {
		return s
	}
	return string(runes[:maxSnippetChars])
}
