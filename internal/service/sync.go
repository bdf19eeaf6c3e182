package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"newsreader/internal/domain"
)

// SyncService drives one pass over all enabled sources: fetch, dedup,
// insert, then hand new articles to the enrichment queue.
type SyncService struct {
	sources   SourceStore
	articles  ArticleStore
	adapters  map[domain.SourceKind]Adapter
	enricher  EnrichmentQueue
	publisher Publisher
	logger    *slog.Logger

	mu     sync.Mutex
	status domain.SyncStatus
}

func NewSyncService(
	sources SourceStore,
	articles ArticleStore,
	adapters map[domain.SourceKind]Adapter,
	enricher EnrichmentQueue,
	publisher Publisher,
	logger *slog.Logger,
) *SyncService {
	return &SyncService{
		sources:   sources,
		articles:  articles,
		adapters:  adapters,
		enricher:  enricher,
		publisher: publisher,
		logger:    logger.With("component", "sync"),
	}
}

// Status returns a snapshot of the current pass's progress.
func (s *SyncService) Status() domain.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// SyncAll runs one sync pass. Sources are processed sequentially so there
// is always a well-defined current source and at most one adapter call
// outstanding. A failing source is recorded on its Source row and the pass
// moves on; only the absence of enabled sources aborts the pass.
func (s *SyncService) SyncAll(ctx context.Context) (*domain.SyncStats, error) {
	startTime := time.Now()

	enabled, err := s.sources.GetEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("load enabled sources: %w", err)
	}
	if len(enabled) == 0 {
		return nil, domain.ErrNoEnabledSources
	}

	s.setStatus(domain.SyncStatus{Running: true})
	defer func() {
		s.mu.Lock()
		s.status.Running = false
		s.status.CurrentSource = ""
		s.mu.Unlock()
	}()

	s.logger.Info("starting sync", "sources", len(enabled))

	stats := &domain.SyncStats{Sources: len(enabled)}
	var queue []domain.EnrichmentTask

	for i, src := range enabled {
		s.setStatus(domain.SyncStatus{
			Running:       true,
			Progress:      float64(i) / float64(len(enabled)) * 100,
			CurrentSource: src.Name,
		})

		adapter, ok := s.adapters[src.Kind]
		if !ok {
			s.recordFailure(ctx, src, fmt.Errorf("no adapter for source kind %q", src.Kind))
			stats.Failed++
			continue
		}

		candidates, err := adapter.Fetch(ctx, src)
		if err != nil {
			s.recordFailure(ctx, src, err)
			stats.Failed++
			continue
		}

		if err := s.sources.UpdateFetchStatus(ctx, src.ID, domain.FetchStatusSuccess, "", time.Now().UTC()); err != nil {
			s.logger.Warn("failed to record fetch status", "source", src.ID, "error", err)
		}

		stats.Fetched += len(candidates)

		newFromSource := 0
		for j := range candidates {
			candidate := &candidates[j]

			if _, err := s.articles.GetByID(ctx, candidate.ID); err == nil {
				stats.Skipped++
				continue
			} else if !errors.Is(err, domain.ErrArticleNotFound) {
				s.logger.Warn("dedup lookup failed", "article", candidate.ID, "error", err)
				continue
			}

			if err := s.articles.Insert(ctx, candidate); err != nil {
				s.logger.Warn("insert failed", "article", candidate.ID, "url", candidate.URL, "error", err)
				continue
			}
			stats.New++
			newFromSource++

			queue = append(queue, domain.EnrichmentTask{ArticleID: candidate.ID, URL: candidate.URL})

			if s.publisher != nil {
				if err := s.publisher.Publish(ctx, candidate); err != nil {
					s.logger.Warn("publish failed", "article", candidate.ID, "error", err)
				}
			}
		}

		s.logger.Info("source synced",
			"source", src.Name,
			"fetched", len(candidates),
			"new", newFromSource,
		)
	}

	s.setStatus(domain.SyncStatus{Running: true, Progress: 100})

	// Hand off without waiting: the pass is complete once ingestion is done,
	// enrichment proceeds on its own.
	if len(queue) > 0 {
		s.enricher.Enqueue(queue)
	}

	stats.Duration = time.Since(startTime)

	s.logger.Info("sync completed",
		"failed", stats.Failed,
		"fetched", stats.Fetched,
		"new", stats.New,
		"skipped", stats.Skipped,
		"queued_for_enrichment", len(queue),
		"duration", stats.Duration,
	)

	return stats, nil
}

func (s *SyncService) setStatus(status domain.SyncStatus) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// recordFailure marks the source row with the error; status tracking is a
// durable side effect even when the fetch produced nothing.
func (s *SyncService) recordFailure(ctx context.Context, src domain.Source, fetchErr error) {
	s.logger.Error("source fetch failed", "source", src.Name, "error", fetchErr)

	if err := s.sources.UpdateFetchStatus(ctx, src.ID, domain.FetchStatusError, fetchErr.Error(), time.Now().UTC()); err != nil {
		s.logger.Warn("failed to record fetch error", "source", src.ID, "error", err)
	}
}
