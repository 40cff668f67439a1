package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scour/internal/interfaces"
	"github.com/ternarybob/scour/internal/models"
)

// Service runs the periodic site scan: every tick it loads the enabled
// sites and asks the supervisor to launch a crawl for each one whose
// frequency has elapsed. Overlap protection lives in the supervisor, not
// here; a missed tick is simply picked up on the next one.
type Service struct {
	sites      interfaces.SiteStorage
	supervisor interfaces.CrawlSupervisor
	cron       *cron.Cron
	interval   time.Duration
	logger     arbor.ILogger

	mu           sync.Mutex
	isProcessing bool
	running      bool
}

// NewService creates a new scheduler service.
func NewService(sites interfaces.SiteStorage, supervisor interfaces.CrawlSupervisor, interval time.Duration, logger arbor.ILogger) *Service {
	return &Service{
		sites:      sites,
		supervisor: supervisor,
		cron:       cron.New(),
		interval:   interval,
		logger:     logger,
	}
}

// Start begins the periodic scan.
func (s *Service) Start() error {
	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, s.runScan); err != nil {
		return fmt.Errorf("failed to schedule site scan: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().Str("interval", s.interval.String()).Msg("Scheduler started")
	return nil
}

// Stop halts the scan. In-flight crawls are unaffected.
func (s *Service) Stop() {
	if !s.running {
		return
	}
	s.cron.Stop()
	s.running = false
	s.logger.Info().Msg("Scheduler stopped")
}

// IsRunning returns true if the scan loop is active.
func (s *Service) IsRunning() bool {
	return s.running
}

// runScan is the cron entrypoint. Panics are contained here so a bad tick
// cannot take down the cron goroutine.
func (s *Service) runScan() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Str("panic", fmt.Sprintf("%v", r)).Msg("Recovered from panic in site scan")
		}
	}()

	s.mu.Lock()
	if s.isProcessing {
		s.mu.Unlock()
		s.logger.Debug().Msg("Previous site scan still running, skipping tick")
		return
	}
	s.isProcessing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isProcessing = false
		s.mu.Unlock()
	}()

	s.ScanOnce(context.Background(), time.Now().UTC())
}

// ScanOnce performs a single due-site scan at the given time. Launch
// failures are logged and never abort the scan.
func (s *Service) ScanOnce(ctx context.Context, now time.Time) {
	sites, err := s.sites.ListEnabledSites(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Site scan failed to list enabled sites")
		return
	}

	launched := 0
	for _, site := range sites {
		if !site.DueForCrawl(now) {
			continue
		}

		_, err := s.supervisor.StartSiteCrawl(ctx, site)
		switch {
		case err == nil:
			launched++
		case errors.Is(err, models.ErrCrawlInProgress):
			s.logger.Debug().Str("domain", site.Domain).Msg("Site crawl already in flight, skipping")
		case errors.Is(err, models.ErrCrawlLimitReached):
			s.logger.Warn().Str("domain", site.Domain).Msg("Crawl limit reached, site deferred to next tick")
		default:
			s.logger.Error().Err(err).Str("domain", site.Domain).Msg("Failed to launch scheduled crawl")
		}
	}

	if launched > 0 {
		s.logger.Info().Int("launched", launched).Int("enabled_sites", len(sites)).Msg("Site scan complete")
	}
}
