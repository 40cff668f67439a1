package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scour/internal/common"
	"github.com/ternarybob/scour/internal/handlers"
	"github.com/ternarybob/scour/internal/interfaces"
	"github.com/ternarybob/scour/internal/services/bootstrap"
	"github.com/ternarybob/scour/internal/services/crawler"
	"github.com/ternarybob/scour/internal/services/scheduler"
	"github.com/ternarybob/scour/internal/services/search"
	"github.com/ternarybob/scour/internal/storage"
)

// App holds all application components and dependencies. Everything is
// constructed once in New and threaded through explicitly; the only global
// is the logger.
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	StorageManager interfaces.StorageManager
	SearchService  interfaces.IndexService
	Fetcher        interfaces.Fetcher
	Supervisor     *crawler.Supervisor
	Scheduler      *scheduler.Service

	// HTTP handlers
	SiteHandler   *handlers.SiteHandler
	CrawlHandler  *handlers.CrawlHandler
	SearchHandler *handlers.SearchHandler
	APIHandler    *handlers.APIHandler
}

// New wires the application together: storage, search index, crawl
// supervisor, scheduler, and handlers. Startup order matters: orphaned
// tasks are swept before anything can launch a crawl, and bootstrap sites
// are registered before the scheduler's first tick can see them.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	a := &App{
		Config: config,
		Logger: logger,
	}

	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.StorageManager = storageManager

	a.SearchService = search.NewMeiliSearchService(&config.Meili, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// A missing search backend degrades the service rather than blocking
	// startup; /health reports it and crawls fail their batches until it
	// comes back.
	if err := a.SearchService.EnsureIndex(ctx); err != nil {
		logger.Warn().Err(err).Str("url", config.Meili.URL).Msg("Search index unavailable, starting degraded")
	}

	a.Fetcher = crawler.NewHTTPFetcher(&config.Crawler, logger)
	a.Supervisor = crawler.NewSupervisor(storageManager, a.SearchService, a.Fetcher, config, logger)

	if err := a.Supervisor.SweepOrphanedTasks(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to sweep orphaned tasks")
	}

	if config.Bootstrap.SitesFile != "" {
		loader := bootstrap.NewLoader(storageManager.Sites(), logger)
		created, err := loader.LoadFile(ctx, config.Bootstrap.SitesFile)
		if err != nil {
			logger.Warn().Err(err).Str("file", config.Bootstrap.SitesFile).Msg("Failed to load bootstrap sites")
		} else if created > 0 {
			logger.Info().Int("created", created).Str("file", config.Bootstrap.SitesFile).Msg("Bootstrap sites registered")
		}
	}

	a.Scheduler = scheduler.NewService(storageManager.Sites(), a.Supervisor, config.SchedulerInterval(), logger)
	if config.Scheduler.Enabled {
		if err := a.Scheduler.Start(); err != nil {
			a.StorageManager.Close()
			return nil, fmt.Errorf("failed to start scheduler: %w", err)
		}
	} else {
		logger.Info().Msg("Periodic re-crawl scheduler disabled by configuration")
	}

	a.SiteHandler = handlers.NewSiteHandler(storageManager.Sites(), a.SearchService, a.Supervisor, &config.Crawler)
	a.CrawlHandler = handlers.NewCrawlHandler(a.Supervisor, storageManager.Tasks())
	a.SearchHandler = handlers.NewSearchHandler(a.SearchService)
	a.APIHandler = handlers.NewAPIHandler(a.SearchService)

	logger.Info().Msg("Application initialized")
	return a, nil
}

// Close shuts the application down in reverse dependency order: stop
// launching crawls, stop the running ones, then release storage. In-flight
// engines get a bounded window to finalize their task records.
func (a *App) Close() error {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}

	if a.Supervisor != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Supervisor.Stop(ctx); err != nil {
			a.Logger.Warn().Err(err).Msg("Supervisor did not stop cleanly")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}

	a.Logger.Info().Msg("Application closed")
	return nil
}
