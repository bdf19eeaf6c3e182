package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"newsreader/internal/domain"
)

type ArticleStore interface {
	// GetByID returns domain.ErrArticleNotFound for unknown ids.
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	Insert(ctx context.Context, article *domain.Article) error
	// UpdateContent writes only the enrichment fields, leaving user state alone.
	UpdateContent(ctx context.Context, id string, fullContent string, readingTime int) error
}

type SourceStore interface {
	GetEnabled(ctx context.Context) ([]domain.Source, error)
	UpdateFetchStatus(ctx context.Context, id string, status domain.FetchStatus, errMessage string, at time.Time) error
}

// Adapter turns a source into candidate article records.
type Adapter interface {
	Fetch(ctx context.Context, src domain.Source) ([]domain.Article, error)
}

type Extractor interface {
	Extract(ctx context.Context, url string) (*domain.Extraction, error)
}

// EnrichmentQueue accepts tasks without blocking the caller.
type EnrichmentQueue interface {
	Enqueue(tasks []domain.EnrichmentTask)
}

type Publisher interface {
	Publish(ctx context.Context, article *domain.Article) error
	Close() error
}
