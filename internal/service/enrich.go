package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"newsreader/internal/config"
	"newsreader/internal/domain"
)

// Enricher fills in fullContent and readingTime for newly discovered
// articles in the background. Work is partitioned into batches of at most
// the configured concurrency; a batch is a hard join point, so at no
// instant are more than Concurrency extractions in flight and a slow task
// delays only its own batch.
type Enricher struct {
	articles  ArticleStore
	extractor Extractor
	cfg       config.EnrichmentConfig
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewEnricher(articles ArticleStore, extractor Extractor, cfg config.EnrichmentConfig, logger *slog.Logger) *Enricher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Enricher{
		articles:  articles,
		extractor: extractor,
		cfg:       cfg,
		logger:    logger.With("component", "enricher"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Enqueue schedules tasks in queue order and returns immediately.
func (e *Enricher) Enqueue(tasks []domain.EnrichmentTask) {
	if len(tasks) == 0 {
		return
	}

	e.logger.Info("enrichment queued", "tasks", len(tasks))

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.run(e.ctx, tasks)
	}()
}

// Drain blocks until every queued task has finished.
func (e *Enricher) Drain() {
	e.wg.Wait()
}

// Close cancels in-flight work and waits for it to stop.
func (e *Enricher) Close() {
	e.cancel()
	e.wg.Wait()
}

func (e *Enricher) run(ctx context.Context, tasks []domain.EnrichmentTask) {
	limit := e.cfg.Concurrency
	if limit <= 0 {
		limit = 1
	}

	for start := 0; start < len(tasks); start += limit {
		end := start + limit
		if end > len(tasks) {
			end = len(tasks)
		}

		var wg sync.WaitGroup
		for _, task := range tasks[start:end] {
			wg.Add(1)
			go func(task domain.EnrichmentTask) {
				defer wg.Done()
				e.process(ctx, task)
			}(task)
		}
		wg.Wait()

		// Throttle between batches, except after the final one.
		if end < len(tasks) {
			select {
			case <-ctx.Done():
				return
			case <-time.After(e.cfg.BatchDelay):
			}
		}
	}
}

func (e *Enricher) process(ctx context.Context, task domain.EnrichmentTask) {
	taskCtx, cancel := context.WithTimeout(ctx, e.cfg.TaskTimeout)
	defer cancel()

	extraction, err := e.extractor.Extract(taskCtx, task.URL)
	if err != nil {
		// Failure leaves the article untouched; it stays usable without
		// full content.
		if errors.Is(err, context.DeadlineExceeded) {
			e.logger.Warn("extraction timed out", "article", task.ArticleID, "url", task.URL)
		} else {
			e.logger.Warn("extraction failed", "article", task.ArticleID, "url", task.URL, "error", err)
		}
		return
	}

	// Re-read right before writing: the article may have been mutated by
	// the user since insertion, and only the content fields belong to this
	// pipeline.
	if _, err := e.articles.GetByID(ctx, task.ArticleID); err != nil {
		if !errors.Is(err, domain.ErrArticleNotFound) {
			e.logger.Warn("article lookup failed", "article", task.ArticleID, "error", err)
		}
		return
	}

	if err := e.articles.UpdateContent(ctx, task.ArticleID, extraction.TextContent, extraction.ReadingTime); err != nil {
		e.logger.Warn("content update failed", "article", task.ArticleID, "error", err)
		return
	}

	e.logger.Debug("article enriched", "article", task.ArticleID, "reading_time", extraction.ReadingTime)
}
