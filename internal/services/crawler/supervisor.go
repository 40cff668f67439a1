package crawler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scour/internal/common"
	"github.com/ternarybob/scour/internal/interfaces"
	"github.com/ternarybob/scour/internal/models"
)

// Supervisor owns the registry of in-flight crawls. It allocates task IDs,
// persists the pending record, and spawns one engine per launched task. A
// site can have at most one running task; the total number of concurrent
// tasks is capped by configuration.
type Supervisor struct {
	storage interfaces.StorageManager
	index   interfaces.IndexService
	fetcher interfaces.Fetcher
	config  *common.Config
	logger  arbor.ILogger

	mu      sync.Mutex
	running map[string]string // task id -> site id ("" for ad-hoc)
	bySite  map[string]string // site id -> task id

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSupervisor creates a new Supervisor instance.
func NewSupervisor(storage interfaces.StorageManager, index interfaces.IndexService, fetcher interfaces.Fetcher, config *common.Config, logger arbor.ILogger) *Supervisor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Supervisor{
		storage: storage,
		index:   index,
		fetcher: fetcher,
		config:  config,
		logger:  logger,
		running: make(map[string]string),
		bySite:  make(map[string]string),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// StartSiteCrawl launches a crawl for a registered site, snapshotting the
// site's limits into the task record.
func (s *Supervisor) StartSiteCrawl(ctx context.Context, site *models.Site) (*models.CrawlTask, error) {
	siteID := site.ID
	task := &models.CrawlTask{
		SiteID:         &siteID,
		StartURL:       site.StartURL,
		MaxDepth:       site.MaxDepth,
		MaxPages:       site.MaxPages,
		SameDomainOnly: site.SameDomainOnly,
	}
	return s.launch(ctx, task, common.NormalizeDomain(site.Domain), siteID)
}

// StartAdHocCrawl launches a one-off crawl. Omitted limits take the
// configured defaults; the crawl domain comes from the explicit restriction
// when given, otherwise from the start URL's host.
func (s *Supervisor) StartAdHocCrawl(ctx context.Context, req *models.CrawlRequest) (*models.CrawlTask, error) {
	task := &models.CrawlTask{
		StartURL:       req.URL,
		MaxDepth:       s.config.Crawler.DefaultMaxDepth,
		MaxPages:       s.config.Crawler.DefaultMaxPages,
		SameDomainOnly: true,
	}
	if req.MaxDepth != nil {
		task.MaxDepth = *req.MaxDepth
	}
	if req.MaxPages != nil {
		task.MaxPages = *req.MaxPages
	}
	if req.SameDomainOnly != nil {
		task.SameDomainOnly = *req.SameDomainOnly
	}

	siteID := ""
	if req.SiteID != "" {
		siteID = req.SiteID
		task.SiteID = &siteID
	}

	baseDomain := common.NormalizeDomain(req.DomainRestriction)
	if baseDomain == "" {
		baseDomain = common.URLHost(req.URL)
	}
	if baseDomain == "" {
		return nil, fmt.Errorf("cannot derive crawl domain from url %q", req.URL)
	}

	return s.launch(ctx, task, baseDomain, siteID)
}

// launch reserves a registry slot, persists the pending task, and spawns the
// engine. The slot is reserved before any storage write so two concurrent
// launches for the same site cannot both pass the overlap check.
func (s *Supervisor) launch(ctx context.Context, task *models.CrawlTask, baseDomain, siteID string) (*models.CrawlTask, error) {
	task.ID = common.NewTaskID()
	task.Status = models.TaskStatusPending

	s.mu.Lock()
	if siteID != "" {
		if taskID, exists := s.bySite[siteID]; exists {
			s.mu.Unlock()
			s.logger.Debug().Str("site_id", siteID).Str("task_id", taskID).Msg("Site already has a crawl in flight")
			return nil, models.ErrCrawlInProgress
		}
	}
	if len(s.running) >= s.config.Crawler.Concurrency {
		s.mu.Unlock()
		return nil, models.ErrCrawlLimitReached
	}
	s.running[task.ID] = siteID
	if siteID != "" {
		s.bySite[siteID] = task.ID
	}
	s.mu.Unlock()

	if err := s.storage.Tasks().CreateTask(ctx, task); err != nil {
		s.remove(task.ID, siteID)
		return nil, fmt.Errorf("failed to persist task: %w", err)
	}

	if siteID != "" {
		if err := s.storage.Sites().SetLastCrawlAt(ctx, siteID, time.Now().UTC()); err != nil {
			s.logger.Warn().Err(err).Str("site_id", siteID).Msg("Failed to stamp last_crawl_at")
		}
	}

	engine := NewEngine(task, baseDomain, s.fetcher, s.storage.Tasks(), s.index, s.config.CrawlDelay(), s.logger)

	s.wg.Add(1)
	common.SafeGo(s.logger, "crawl-"+task.ID, func() {
		defer s.wg.Done()
		defer s.remove(task.ID, siteID)
		if err := engine.Run(s.ctx); err != nil {
			s.logger.Warn().Err(err).Str("task_id", task.ID).Msg("Crawl ended with error")
		}
	})

	s.logger.Info().
		Str("task_id", task.ID).
		Str("site_id", siteID).
		Str("url", task.StartURL).
		Msg("Crawl task launched")

	return task, nil
}

func (s *Supervisor) remove(taskID, siteID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, taskID)
	if siteID != "" && s.bySite[siteID] == taskID {
		delete(s.bySite, siteID)
	}
}

// RunningCount returns the number of tasks currently executing.
func (s *Supervisor) RunningCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.running)
}

// SweepOrphanedTasks fails any task still marked running in storage. Called
// once at startup: a running record with no live engine can only be a
// leftover from a previous process.
func (s *Supervisor) SweepOrphanedTasks(ctx context.Context) error {
	orphans, err := s.storage.Tasks().ListTasksByStatus(ctx, models.TaskStatusRunning)
	if err != nil {
		return fmt.Errorf("failed to list running tasks: %w", err)
	}

	swept := 0
	for _, task := range orphans {
		now := time.Now().UTC()
		failed := models.TaskStatusFailed
		msg := "process restart"
		patch := &models.TaskPatch{Status: &failed, ErrorMessage: &msg, FinishedAt: &now}
		if _, err := s.storage.Tasks().PatchTask(ctx, task.ID, patch); err != nil {
			s.logger.Warn().Err(err).Str("task_id", task.ID).Msg("Failed to sweep orphaned task")
			continue
		}
		swept++
	}

	if swept > 0 {
		s.logger.Info().Int("count", swept).Msg("Swept orphaned running tasks to failed")
	}
	return nil
}

// Stop cancels all running engines and waits for them to finalize, up to the
// context deadline. Engines observe the cancellation at their next iteration
// boundary and write a failed terminal record before exiting.
func (s *Supervisor) Stop(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.logger.Warn().Int("remaining", s.RunningCount()).Msg("Shutdown deadline reached with crawls still finalizing")
		return ctx.Err()
	}
}
