package crawler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/scour/internal/common"
	"github.com/ternarybob/scour/internal/interfaces"
	"github.com/ternarybob/scour/internal/models"
)

// documentBatchSize is how many documents accumulate before a flush to the index.
const documentBatchSize = 10

// frontierEntry is one pending (url, depth) pair in the BFS queue.
type frontierEntry struct {
	url   string
	depth int
}

// Engine executes a single crawl task: breadth-first traversal from the
// start URL, bounded by the task's depth and page limits. One engine per
// task; the engine owns all task writes while it runs.
type Engine struct {
	task       *models.CrawlTask
	baseDomain string

	fetcher interfaces.Fetcher
	tasks   interfaces.TaskStorage
	index   interfaces.IndexService
	limiter *rate.Limiter
	logger  arbor.ILogger

	frontier     []frontierEntry
	visited      map[string]struct{}
	batch        []*models.Document
	successPages int
	failedPages  int
}

// NewEngine creates an engine for one task. delay paces fetch attempts;
// zero or negative disables pacing.
func NewEngine(task *models.CrawlTask, baseDomain string, fetcher interfaces.Fetcher, tasks interfaces.TaskStorage, index interfaces.IndexService, delay time.Duration, logger arbor.ILogger) *Engine {
	return &Engine{
		task:       task,
		baseDomain: baseDomain,
		fetcher:    fetcher,
		tasks:      tasks,
		index:      index,
		limiter:    rate.NewLimiter(rate.Every(delay), 1),
		logger:     logger,
		visited:    make(map[string]struct{}),
	}
}

// Run executes the crawl to completion. The task always reaches a terminal
// state: a deferred finalizer writes failed with the error message on any
// error or panic, success otherwise.
func (e *Engine) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("crawl panicked: %v", r)
			e.logger.Error().
				Str("task_id", e.task.ID).
				Str("panic", fmt.Sprintf("%v", r)).
				Str("stack", common.GetStackTrace()).
				Msg("Crawl panicked")
		}
		e.finalize(err)
	}()

	e.logger.Info().
		Str("task_id", e.task.ID).
		Str("url", e.task.StartURL).
		Str("domain", e.baseDomain).
		Int("max_depth", e.task.MaxDepth).
		Int("max_pages", e.task.MaxPages).
		Msg("Starting crawl")

	return e.crawl(ctx)
}

func (e *Engine) crawl(ctx context.Context) error {
	now := time.Now().UTC()
	running := models.TaskStatusRunning
	if _, err := e.tasks.PatchTask(ctx, e.task.ID, &models.TaskPatch{Status: &running, StartedAt: &now}); err != nil {
		return fmt.Errorf("failed to mark task running: %w", err)
	}

	start, err := common.NormalizeURL(e.task.StartURL)
	if err != nil {
		return fmt.Errorf("invalid start url %q: %w", e.task.StartURL, err)
	}
	e.frontier = append(e.frontier, frontierEntry{url: start, depth: 0})

	for len(e.frontier) > 0 && e.successPages+e.failedPages < e.task.MaxPages {
		// Cancellation is only observed between iterations, never mid-fetch.
		if ctx.Err() != nil {
			return fmt.Errorf("crawl interrupted: %w", ctx.Err())
		}

		entry := e.frontier[0]
		e.frontier = e.frontier[1:]

		current, err := common.NormalizeURL(entry.url)
		if err != nil {
			continue
		}

		// Visited before fetch, so failures are not retried within the run.
		if _, ok := e.visited[current]; ok {
			continue
		}
		e.visited[current] = struct{}{}

		// Off-domain URLs land in visited but never consume a page slot.
		if e.task.SameDomainOnly && !common.SameDomain(common.URLHost(current), e.baseDomain) {
			continue
		}

		e.reportProgress(ctx)

		if err := e.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("crawl interrupted: %w", err)
		}

		page, err := e.fetcher.Fetch(ctx, current)
		if err != nil || page == nil || !page.Success || strings.TrimSpace(page.Content) == "" {
			e.failedPages++
			if err != nil {
				e.logger.Debug().Err(err).Str("url", current).Msg("Fetch failed")
			} else {
				e.logger.Debug().Str("url", current).Msg("Page yielded no content")
			}
			continue
		}

		doc := models.NewDocument(common.DocumentID(current), current, page.Title, page.Content, e.baseDomain, time.Now().UTC())
		e.batch = append(e.batch, doc)
		e.successPages++

		if len(e.batch) >= documentBatchSize {
			e.flushBatch(ctx)
		}

		if entry.depth < e.task.MaxDepth {
			e.enqueueLinks(current, entry.depth, page.Links)
		}
	}

	e.flushBatch(ctx)
	return nil
}

// enqueueLinks resolves discovered hrefs against the page they came from and
// appends unvisited ones to the frontier. Duplicates within the frontier are
// fine; dedup happens at pop time.
func (e *Engine) enqueueLinks(pageURL string, depth int, links []string) {
	for _, href := range links {
		abs := common.ResolveLink(pageURL, href)
		if abs == "" {
			continue
		}
		if _, ok := e.visited[abs]; ok {
			continue
		}
		e.frontier = append(e.frontier, frontierEntry{url: abs, depth: depth + 1})
	}
}

// reportProgress writes the running counters to storage before each fetch.
// Best-effort: a write failure is logged and the crawl continues.
func (e *Engine) reportProgress(ctx context.Context) {
	progress := models.TaskProgress(e.successPages, e.failedPages, e.task.MaxPages)
	total := len(e.visited)
	success := e.successPages
	failed := e.failedPages

	patch := &models.TaskPatch{
		Progress:     &progress,
		TotalPages:   &total,
		SuccessPages: &success,
		FailedPages:  &failed,
	}
	if _, err := e.tasks.PatchTask(ctx, e.task.ID, patch); err != nil {
		e.logger.Warn().Err(err).Str("task_id", e.task.ID).Msg("Failed to write crawl progress")
	}
}

// flushBatch pushes pending documents to the index. Documents that never
// reach the index move from the success count to the failed count.
func (e *Engine) flushBatch(ctx context.Context) {
	if len(e.batch) == 0 {
		return
	}
	n := len(e.batch)
	if err := e.index.UpsertBatch(ctx, e.batch); err != nil {
		e.successPages -= n
		e.failedPages += n
		e.logger.Error().Err(err).Int("count", n).Str("task_id", e.task.ID).Msg("Failed to flush document batch")
	}
	e.batch = e.batch[:0]
}

// finalize writes the terminal task record. It runs on every exit path and
// uses a fresh context so a cancelled run can still reach storage.
func (e *Engine) finalize(runErr error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now().UTC()
	total := len(e.visited)
	success := e.successPages
	failed := e.failedPages

	patch := &models.TaskPatch{
		TotalPages:   &total,
		SuccessPages: &success,
		FailedPages:  &failed,
		FinishedAt:   &now,
	}

	var status models.TaskStatus
	var progress int
	if runErr != nil {
		status = models.TaskStatusFailed
		progress = models.TaskProgress(success, failed, e.task.MaxPages)
		msg := models.TruncateError(runErr.Error())
		patch.ErrorMessage = &msg
	} else {
		status = models.TaskStatusSuccess
		progress = 100
	}
	patch.Status = &status
	patch.Progress = &progress

	if _, err := e.tasks.PatchTask(ctx, e.task.ID, patch); err != nil {
		e.logger.Error().Err(err).
			Str("task_id", e.task.ID).
			Str("status", string(status)).
			Msg("Failed to finalize task; record will be swept on next startup")
		return
	}

	e.logger.Info().
		Str("task_id", e.task.ID).
		Str("status", string(status)).
		Int("total_pages", total).
		Int("success_pages", success).
		Int("failed_pages", failed).
		Msg("Crawl finished")
}
