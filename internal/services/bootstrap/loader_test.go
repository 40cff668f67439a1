package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scour/internal/models"
)

// Minimal in-memory site store for loader tests

type seedSiteStore struct {
	byDomain map[string]*models.Site
}

func newSeedSiteStore() *seedSiteStore {
	return &seedSiteStore{byDomain: make(map[string]*models.Site)}
}

func (s *seedSiteStore) CreateSite(ctx context.Context, site *models.Site) error {
	if _, ok := s.byDomain[site.Domain]; ok {
		return models.ErrDuplicateDomain
	}
	s.byDomain[site.Domain] = site
	return nil
}

func (s *seedSiteStore) GetSite(ctx context.Context, id string) (*models.Site, error) {
	return nil, models.ErrSiteNotFound
}

func (s *seedSiteStore) GetSiteByDomain(ctx context.Context, domain string) (*models.Site, error) {
	site, ok := s.byDomain[domain]
	if !ok {
		return nil, models.ErrSiteNotFound
	}
	return site, nil
}

func (s *seedSiteStore) UpdateSite(ctx context.Context, site *models.Site) error { return nil }
func (s *seedSiteStore) DeleteSite(ctx context.Context, id string) error         { return nil }
func (s *seedSiteStore) ListSites(ctx context.Context) ([]*models.Site, error)   { return nil, nil }
func (s *seedSiteStore) ListEnabledSites(ctx context.Context) ([]*models.Site, error) {
	return nil, nil
}
func (s *seedSiteStore) SetLastCrawlAt(ctx context.Context, id string, at time.Time) error {
	return nil
}
func (s *seedSiteStore) CountSites(ctx context.Context) (int, error) { return len(s.byDomain), nil }

func TestLoadCreatesSites(t *testing.T) {
	store := newSeedSiteStore()
	loader := NewLoader(store, arbor.NewLogger())

	seed := []byte(`
sites:
  - domain: docs.example.com
    name: Example Docs
    start_url: https://docs.example.com/
    max_depth: 2
    max_pages: 50
    crawl_frequency_minutes: 60
  - domain: blog.example.com
    start_url: https://blog.example.com/
`)

	created, err := loader.Load(context.Background(), seed)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if created != 2 {
		t.Fatalf("Expected 2 sites created, got %d", created)
	}

	full := store.byDomain["docs.example.com"]
	if full == nil {
		t.Fatal("Expected docs.example.com to be created")
	}
	if full.Name != "Example Docs" || full.MaxDepth != 2 || full.MaxPages != 50 || full.CrawlFrequencyMinutes != 60 {
		t.Errorf("Expected explicit seed values applied, got %+v", full)
	}

	minimal := store.byDomain["blog.example.com"]
	if minimal == nil {
		t.Fatal("Expected blog.example.com to be created")
	}
	if minimal.MaxDepth != 3 || minimal.MaxPages != 100 || !minimal.SameDomainOnly ||
		minimal.CrawlFrequencyMinutes != 1440 || !minimal.Enabled {
		t.Errorf("Expected defaults on minimal seed, got %+v", minimal)
	}
	if minimal.Name != "blog.example.com" {
		t.Errorf("Expected name to default to domain, got %q", minimal.Name)
	}
}

func TestLoadNormalizesDomain(t *testing.T) {
	store := newSeedSiteStore()
	loader := NewLoader(store, arbor.NewLogger())

	seed := []byte(`
sites:
  - domain: Docs.Example.COM
    start_url: https://docs.example.com/
`)

	if _, err := loader.Load(context.Background(), seed); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := store.byDomain["docs.example.com"]; !ok {
		t.Error("Expected domain lowercased before registration")
	}
}

func TestLoadSkipsExistingDomain(t *testing.T) {
	store := newSeedSiteStore()
	store.byDomain["docs.example.com"] = &models.Site{ID: "existing", Domain: "docs.example.com", MaxPages: 7}
	loader := NewLoader(store, arbor.NewLogger())

	seed := []byte(`
sites:
  - domain: docs.example.com
    start_url: https://docs.example.com/
    max_pages: 500
`)

	created, err := loader.Load(context.Background(), seed)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if created != 0 {
		t.Errorf("Expected no sites created, got %d", created)
	}
	if store.byDomain["docs.example.com"].MaxPages != 7 {
		t.Error("Expected existing site left untouched")
	}
}

func TestLoadSkipsInvalidSeed(t *testing.T) {
	store := newSeedSiteStore()
	loader := NewLoader(store, arbor.NewLogger())

	seed := []byte(`
sites:
  - domain: missing-url.example.com
  - domain: good.example.com
    start_url: https://good.example.com/
`)

	created, err := loader.Load(context.Background(), seed)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if created != 1 {
		t.Errorf("Expected only the valid seed created, got %d", created)
	}
	if _, ok := store.byDomain["missing-url.example.com"]; ok {
		t.Error("Expected seed without start_url to be skipped")
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	loader := NewLoader(newSeedSiteStore(), arbor.NewLogger())
	if _, err := loader.Load(context.Background(), []byte("sites: [unclosed")); err == nil {
		t.Error("Expected parse error for malformed YAML")
	}
}

func TestLoadFileMissing(t *testing.T) {
	loader := NewLoader(newSeedSiteStore(), arbor.NewLogger())
	if _, err := loader.LoadFile(context.Background(), "/nonexistent/sites.yaml"); err == nil {
		t.Error("Expected error for missing file")
	}
}
