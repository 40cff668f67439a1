package models

import "time"

// Site is a registered crawl target: one domain, one seed URL, and the
// traversal limits applied to every run against it.
type Site struct {
	ID                    string     `json:"id"`
	Domain                string     `json:"domain" badgerhold:"unique"` // lowercased, no port
	Name                  string     `json:"name"`
	StartURL              string     `json:"start_url"`
	MaxDepth              int        `json:"max_depth"`
	MaxPages              int        `json:"max_pages"`
	SameDomainOnly        bool       `json:"same_domain_only"`
	CrawlFrequencyMinutes int        `json:"crawl_frequency_minutes"`
	Enabled               bool       `json:"enabled"`
	LastCrawlAt           *time.Time `json:"last_crawl_at,omitempty"` // set by the supervisor at run start
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// SiteCreate is the request body for registering a site. Omitted optional
// fields take the documented defaults (max_depth=3, max_pages=100,
// same_domain_only=true, crawl_frequency_minutes=1440, enabled=true).
type SiteCreate struct {
	Domain                string `json:"domain" validate:"required,hostname_rfc1123"`
	Name                  string `json:"name"`
	StartURL              string `json:"start_url" validate:"required,url"`
	MaxDepth              *int   `json:"max_depth" validate:"omitempty,min=0"`
	MaxPages              *int   `json:"max_pages" validate:"omitempty,min=1"`
	SameDomainOnly        *bool  `json:"same_domain_only"`
	CrawlFrequencyMinutes *int   `json:"crawl_frequency_minutes" validate:"omitempty,min=1"`
	Enabled               *bool  `json:"enabled"`
}

// ToSite materializes a Site from the create request, applying defaults for
// omitted fields. ID and timestamps are assigned by storage.
func (c *SiteCreate) ToSite() *Site {
	site := &Site{
		Domain:                c.Domain,
		Name:                  c.Name,
		StartURL:              c.StartURL,
		MaxDepth:              3,
		MaxPages:              100,
		SameDomainOnly:        true,
		CrawlFrequencyMinutes: 1440,
		Enabled:               true,
	}
	if site.Name == "" {
		site.Name = c.Domain
	}
	if c.MaxDepth != nil {
		site.MaxDepth = *c.MaxDepth
	}
	if c.MaxPages != nil {
		site.MaxPages = *c.MaxPages
	}
	if c.SameDomainOnly != nil {
		site.SameDomainOnly = *c.SameDomainOnly
	}
	if c.CrawlFrequencyMinutes != nil {
		site.CrawlFrequencyMinutes = *c.CrawlFrequencyMinutes
	}
	if c.Enabled != nil {
		site.Enabled = *c.Enabled
	}
	return site
}

// SitePatch is a partial update. Nil fields are left unchanged.
type SitePatch struct {
	Domain                *string `json:"domain" validate:"omitempty,hostname_rfc1123"`
	Name                  *string `json:"name"`
	StartURL              *string `json:"start_url" validate:"omitempty,url"`
	MaxDepth              *int    `json:"max_depth" validate:"omitempty,min=0"`
	MaxPages              *int    `json:"max_pages" validate:"omitempty,min=1"`
	SameDomainOnly        *bool   `json:"same_domain_only"`
	CrawlFrequencyMinutes *int    `json:"crawl_frequency_minutes" validate:"omitempty,min=1"`
	Enabled               *bool   `json:"enabled"`
}

// ApplyPatch copies the set fields of the patch onto the site.
func (s *Site) ApplyPatch(patch *SitePatch) {
	if patch.Domain != nil {
		s.Domain = *patch.Domain
	}
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.StartURL != nil {
		s.StartURL = *patch.StartURL
	}
	if patch.MaxDepth != nil {
		s.MaxDepth = *patch.MaxDepth
	}
	if patch.MaxPages != nil {
		s.MaxPages = *patch.MaxPages
	}
	if patch.SameDomainOnly != nil {
		s.SameDomainOnly = *patch.SameDomainOnly
	}
	if patch.CrawlFrequencyMinutes != nil {
		s.CrawlFrequencyMinutes = *patch.CrawlFrequencyMinutes
	}
	if patch.Enabled != nil {
		s.Enabled = *patch.Enabled
	}
}

// DueForCrawl reports whether the site should be crawled at the given time:
// never crawled before, or the configured frequency has elapsed since the
// last run started. Disabled sites are never due.
func (s *Site) DueForCrawl(now time.Time) bool {
	if !s.Enabled {
		return false
	}
	if s.LastCrawlAt == nil {
		return true
	}
	return now.Sub(*s.LastCrawlAt) >= time.Duration(s.CrawlFrequencyMinutes)*time.Minute
}
