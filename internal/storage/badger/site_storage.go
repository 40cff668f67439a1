package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scour/internal/common"
	"github.com/ternarybob/scour/internal/interfaces"
	"github.com/ternarybob/scour/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// SiteStorage implements the SiteStorage interface for Badger
type SiteStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSiteStorage creates a new SiteStorage instance
func NewSiteStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SiteStorage {
	return &SiteStorage{
		db:     db,
		logger: logger,
	}
}

func (s *SiteStorage) CreateSite(ctx context.Context, site *models.Site) error {
	if site.ID == "" {
		site.ID = common.NewSiteID()
	}
	now := time.Now().UTC()
	site.CreatedAt = now
	site.UpdatedAt = now

	if err := s.db.Store().Insert(site.ID, site); err != nil {
		if err == badgerhold.ErrUniqueExists {
			return models.ErrDuplicateDomain
		}
		return fmt.Errorf("failed to save site: %w", err)
	}
	return nil
}

func (s *SiteStorage) GetSite(ctx context.Context, id string) (*models.Site, error) {
	var site models.Site
	if err := s.db.Store().Get(id, &site); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, models.ErrSiteNotFound
		}
		return nil, fmt.Errorf("failed to get site: %w", err)
	}
	return &site, nil
}

func (s *SiteStorage) GetSiteByDomain(ctx context.Context, domain string) (*models.Site, error) {
	var sites []models.Site
	if err := s.db.Store().Find(&sites, badgerhold.Where("Domain").Eq(domain).Limit(1)); err != nil {
		return nil, fmt.Errorf("failed to get site by domain: %w", err)
	}
	if len(sites) == 0 {
		return nil, models.ErrSiteNotFound
	}
	return &sites[0], nil
}

func (s *SiteStorage) UpdateSite(ctx context.Context, site *models.Site) error {
	site.UpdatedAt = time.Now().UTC()

	if err := s.db.Store().Update(site.ID, site); err != nil {
		if err == badgerhold.ErrNotFound {
			return models.ErrSiteNotFound
		}
		if err == badgerhold.ErrUniqueExists {
			return models.ErrDuplicateDomain
		}
		return fmt.Errorf("failed to update site: %w", err)
	}
	return nil
}

func (s *SiteStorage) DeleteSite(ctx context.Context, id string) error {
	if err := s.db.Store().Delete(id, &models.Site{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return models.ErrSiteNotFound
		}
		return fmt.Errorf("failed to delete site: %w", err)
	}
	return nil
}

func (s *SiteStorage) ListSites(ctx context.Context) ([]*models.Site, error) {
	var sites []models.Site
	query := badgerhold.Where("ID").Ne("").SortBy("CreatedAt").Reverse()
	if err := s.db.Store().Find(&sites, query); err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}

	result := make([]*models.Site, len(sites))
	for i := range sites {
		result[i] = &sites[i]
	}
	return result, nil
}

func (s *SiteStorage) ListEnabledSites(ctx context.Context) ([]*models.Site, error) {
	var sites []models.Site
	query := badgerhold.Where("Enabled").Eq(true).SortBy("CreatedAt").Reverse()
	if err := s.db.Store().Find(&sites, query); err != nil {
		return nil, fmt.Errorf("failed to list enabled sites: %w", err)
	}

	result := make([]*models.Site, len(sites))
	for i := range sites {
		result[i] = &sites[i]
	}
	return result, nil
}

// SetLastCrawlAt stamps the launch time without touching updated_at, which
// tracks admin edits only.
func (s *SiteStorage) SetLastCrawlAt(ctx context.Context, id string, at time.Time) error {
	var site models.Site
	if err := s.db.Store().Get(id, &site); err != nil {
		if err == badgerhold.ErrNotFound {
			return models.ErrSiteNotFound
		}
		return fmt.Errorf("failed to get site: %w", err)
	}

	at = at.UTC()
	site.LastCrawlAt = &at
	if err := s.db.Store().Update(id, &site); err != nil {
		return fmt.Errorf("failed to update last_crawl_at: %w", err)
	}
	return nil
}

func (s *SiteStorage) CountSites(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Site{}, nil)
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
