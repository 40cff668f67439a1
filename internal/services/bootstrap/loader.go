package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"gopkg.in/yaml.v3"

	"github.com/ternarybob/scour/internal/common"
	"github.com/ternarybob/scour/internal/interfaces"
	"github.com/ternarybob/scour/internal/models"
)

// SiteSeed is one entry in the bootstrap sites file. Same optional fields
// and defaults as the site create API.
type SiteSeed struct {
	Domain                string `yaml:"domain" validate:"required,hostname_rfc1123"`
	Name                  string `yaml:"name"`
	StartURL              string `yaml:"start_url" validate:"required,url"`
	MaxDepth              *int   `yaml:"max_depth" validate:"omitempty,min=0"`
	MaxPages              *int   `yaml:"max_pages" validate:"omitempty,min=1"`
	SameDomainOnly        *bool  `yaml:"same_domain_only"`
	CrawlFrequencyMinutes *int   `yaml:"crawl_frequency_minutes" validate:"omitempty,min=1"`
	Enabled               *bool  `yaml:"enabled"`
}

type seedFile struct {
	Sites []SiteSeed `yaml:"sites"`
}

// Loader seeds the site registry from a YAML file at startup. Domains that
// are already registered are left untouched, so the file can stay in place
// across restarts without clobbering edits made through the API.
type Loader struct {
	sites    interfaces.SiteStorage
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewLoader creates a new bootstrap loader.
func NewLoader(sites interfaces.SiteStorage, logger arbor.ILogger) *Loader {
	return &Loader{
		sites:    sites,
		validate: validator.New(),
		logger:   logger,
	}
}

// LoadFile reads the given sites file and registers the sites it declares.
// Returns the number of sites created.
func (l *Loader) LoadFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read sites file %s: %w", path, err)
	}
	return l.Load(ctx, data)
}

// Load parses YAML seed content and registers missing sites. Invalid entries
// are logged and skipped; a storage failure aborts the load.
func (l *Loader) Load(ctx context.Context, data []byte) (int, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return 0, fmt.Errorf("failed to parse sites file: %w", err)
	}

	created := 0
	for i := range file.Sites {
		seed := &file.Sites[i]
		if err := l.validate.Struct(seed); err != nil {
			l.logger.Warn().Err(err).Str("domain", seed.Domain).Msg("Skipping invalid site seed")
			continue
		}

		domain := common.NormalizeDomain(seed.Domain)
		if _, err := l.sites.GetSiteByDomain(ctx, domain); err == nil {
			l.logger.Debug().Str("domain", domain).Msg("Seed site already registered")
			continue
		} else if !errors.Is(err, models.ErrSiteNotFound) {
			return created, fmt.Errorf("failed to look up site %s: %w", domain, err)
		}

		create := &models.SiteCreate{
			Domain:                domain,
			Name:                  seed.Name,
			StartURL:              seed.StartURL,
			MaxDepth:              seed.MaxDepth,
			MaxPages:              seed.MaxPages,
			SameDomainOnly:        seed.SameDomainOnly,
			CrawlFrequencyMinutes: seed.CrawlFrequencyMinutes,
			Enabled:               seed.Enabled,
		}
		site := create.ToSite()
		if err := l.sites.CreateSite(ctx, site); err != nil {
			if errors.Is(err, models.ErrDuplicateDomain) {
				continue
			}
			return created, fmt.Errorf("failed to create site %s: %w", domain, err)
		}

		l.logger.Info().Str("domain", domain).Str("start_url", site.StartURL).Msg("Bootstrap site registered")
		created++
	}

	return created, nil
}
