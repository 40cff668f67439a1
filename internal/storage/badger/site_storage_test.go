package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scour/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// newTestDB opens a throwaway badger store for one test.
func newTestDB(t *testing.T) *BadgerDB {
	t.Helper()

	tmpDir := t.TempDir()
	options := badgerhold.DefaultOptions
	options.Dir = tmpDir
	options.ValueDir = tmpDir
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	return &BadgerDB{store: store, logger: arbor.NewLogger()}
}

func testSite(domain string) *models.Site {
	return &models.Site{
		Domain:                domain,
		Name:                  domain,
		StartURL:              "https://" + domain + "/",
		MaxDepth:              3,
		MaxPages:              100,
		SameDomainOnly:        true,
		CrawlFrequencyMinutes: 1440,
		Enabled:               true,
	}
}

func TestSiteLifecycle(t *testing.T) {
	db := newTestDB(t)
	storage := NewSiteStorage(db, arbor.NewLogger())
	ctx := context.Background()

	// 1. Create assigns identity and timestamps
	site := testSite("example.com")
	if err := storage.CreateSite(ctx, site); err != nil {
		t.Fatalf("CreateSite: %v", err)
	}
	if site.ID == "" {
		t.Fatal("CreateSite did not assign an ID")
	}
	if site.CreatedAt.IsZero() || site.UpdatedAt.IsZero() {
		t.Error("CreateSite did not set timestamps")
	}

	// 2. Read back by ID and by domain
	got, err := storage.GetSite(ctx, site.ID)
	if err != nil {
		t.Fatalf("GetSite: %v", err)
	}
	if got.Domain != "example.com" {
		t.Errorf("Domain = %q", got.Domain)
	}

	byDomain, err := storage.GetSiteByDomain(ctx, "example.com")
	if err != nil {
		t.Fatalf("GetSiteByDomain: %v", err)
	}
	if byDomain.ID != site.ID {
		t.Errorf("GetSiteByDomain returned %q, want %q", byDomain.ID, site.ID)
	}

	// 3. A second site on the same domain is rejected
	dup := testSite("example.com")
	if err := storage.CreateSite(ctx, dup); !errors.Is(err, models.ErrDuplicateDomain) {
		t.Errorf("duplicate create error = %v, want ErrDuplicateDomain", err)
	}

	// 4. Update persists changes and bumps updated_at
	prevUpdated := got.UpdatedAt
	time.Sleep(5 * time.Millisecond)
	got.Name = "Example Site"
	if err := storage.UpdateSite(ctx, got); err != nil {
		t.Fatalf("UpdateSite: %v", err)
	}
	updated, err := storage.GetSite(ctx, site.ID)
	if err != nil {
		t.Fatalf("GetSite after update: %v", err)
	}
	if updated.Name != "Example Site" {
		t.Errorf("Name = %q after update", updated.Name)
	}
	if !updated.UpdatedAt.After(prevUpdated) {
		t.Error("UpdateSite did not bump updated_at")
	}

	// 5. Delete removes the record
	if err := storage.DeleteSite(ctx, site.ID); err != nil {
		t.Fatalf("DeleteSite: %v", err)
	}
	if _, err := storage.GetSite(ctx, site.ID); !errors.Is(err, models.ErrSiteNotFound) {
		t.Errorf("GetSite after delete = %v, want ErrSiteNotFound", err)
	}
	if err := storage.DeleteSite(ctx, site.ID); !errors.Is(err, models.ErrSiteNotFound) {
		t.Errorf("second delete = %v, want ErrSiteNotFound", err)
	}
}

func TestSiteDomainConflictOnUpdate(t *testing.T) {
	db := newTestDB(t)
	storage := NewSiteStorage(db, arbor.NewLogger())
	ctx := context.Background()

	first := testSite("one.example.com")
	second := testSite("two.example.com")
	if err := storage.CreateSite(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := storage.CreateSite(ctx, second); err != nil {
		t.Fatal(err)
	}

	second.Domain = "one.example.com"
	if err := storage.UpdateSite(ctx, second); !errors.Is(err, models.ErrDuplicateDomain) {
		t.Errorf("UpdateSite onto existing domain = %v, want ErrDuplicateDomain", err)
	}
}

func TestListSites(t *testing.T) {
	db := newTestDB(t)
	storage := NewSiteStorage(db, arbor.NewLogger())
	ctx := context.Background()

	domains := []string{"a.example.com", "b.example.com", "c.example.com"}
	for _, d := range domains {
		site := testSite(d)
		if d == "b.example.com" {
			site.Enabled = false
		}
		if err := storage.CreateSite(ctx, site); err != nil {
			t.Fatal(err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	all, err := storage.ListSites(ctx)
	if err != nil {
		t.Fatalf("ListSites: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListSites returned %d sites, want 3", len(all))
	}
	// Newest first
	if all[0].Domain != "c.example.com" || all[2].Domain != "a.example.com" {
		t.Errorf("ListSites order: %s, %s, %s", all[0].Domain, all[1].Domain, all[2].Domain)
	}

	enabled, err := storage.ListEnabledSites(ctx)
	if err != nil {
		t.Fatalf("ListEnabledSites: %v", err)
	}
	if len(enabled) != 2 {
		t.Fatalf("ListEnabledSites returned %d sites, want 2", len(enabled))
	}
	for _, s := range enabled {
		if !s.Enabled {
			t.Errorf("ListEnabledSites returned disabled site %s", s.Domain)
		}
	}

	count, err := storage.CountSites(ctx)
	if err != nil {
		t.Fatalf("CountSites: %v", err)
	}
	if count != 3 {
		t.Errorf("CountSites = %d, want 3", count)
	}
}

func TestSetLastCrawlAt(t *testing.T) {
	db := newTestDB(t)
	storage := NewSiteStorage(db, arbor.NewLogger())
	ctx := context.Background()

	site := testSite("example.com")
	if err := storage.CreateSite(ctx, site); err != nil {
		t.Fatal(err)
	}
	prevUpdated := site.UpdatedAt

	stamp := time.Date(2026, 8, 18, 10, 0, 0, 0, time.UTC)
	if err := storage.SetLastCrawlAt(ctx, site.ID, stamp); err != nil {
		t.Fatalf("SetLastCrawlAt: %v", err)
	}

	got, err := storage.GetSite(ctx, site.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.LastCrawlAt == nil || !got.LastCrawlAt.Equal(stamp) {
		t.Errorf("LastCrawlAt = %v, want %v", got.LastCrawlAt, stamp)
	}
	if !got.UpdatedAt.Equal(prevUpdated) {
		t.Error("SetLastCrawlAt changed updated_at; it tracks admin edits only")
	}

	if err := storage.SetLastCrawlAt(ctx, "missing", stamp); !errors.Is(err, models.ErrSiteNotFound) {
		t.Errorf("SetLastCrawlAt for unknown site = %v, want ErrSiteNotFound", err)
	}
}
