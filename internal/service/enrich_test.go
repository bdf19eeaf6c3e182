package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"newsreader/internal/config"
	"newsreader/internal/domain"
	"newsreader/internal/service/mocks"
)

type EnricherTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	articles  *mocks.MockArticleStore
	extractor *mocks.MockExtractor

	cfg    config.EnrichmentConfig
	logger *slog.Logger
}

func (s *EnricherTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.articles = mocks.NewMockArticleStore(s.ctrl)
	s.extractor = mocks.NewMockExtractor(s.ctrl)

	s.cfg = config.EnrichmentConfig{
		Concurrency: 3,
		BatchDelay:  time.Millisecond,
		TaskTimeout: time.Second,
	}

	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func (s *EnricherTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestEnricherTestSuite(t *testing.T) {
	suite.Run(t, new(EnricherTestSuite))
}

func (s *EnricherTestSuite) newEnricher() *Enricher {
	return NewEnricher(s.articles, s.extractor, s.cfg, s.logger)
}

func (s *EnricherTestSuite) TestEnqueue_EnrichesAllTasks() {
	tasks := []domain.EnrichmentTask{
		{ArticleID: "a1", URL: "https://example.com/1"},
		{ArticleID: "a2", URL: "https://example.com/2"},
	}

	for _, task := range tasks {
		task := task
		s.extractor.EXPECT().Extract(gomock.Any(), task.URL).Return(&domain.Extraction{
			TextContent: "full text for " + task.ArticleID,
			ReadingTime: 4,
		}, nil)
		s.articles.EXPECT().GetByID(gomock.Any(), task.ArticleID).Return(&domain.Article{ID: task.ArticleID}, nil)
		s.articles.EXPECT().UpdateContent(gomock.Any(), task.ArticleID, "full text for "+task.ArticleID, 4).Return(nil)
	}

	enricher := s.newEnricher()
	enricher.Enqueue(tasks)
	enricher.Drain()
}

func (s *EnricherTestSuite) TestEnqueue_FailedExtractionLeavesArticleUntouched() {
	tasks := []domain.EnrichmentTask{
		{ArticleID: "bad", URL: "https://example.com/bad"},
		{ArticleID: "good", URL: "https://example.com/good"},
	}

	s.extractor.EXPECT().Extract(gomock.Any(), "https://example.com/bad").Return(nil, errors.New("boilerplate only"))

	s.extractor.EXPECT().Extract(gomock.Any(), "https://example.com/good").Return(&domain.Extraction{
		TextContent: "body",
		ReadingTime: 1,
	}, nil)
	s.articles.EXPECT().GetByID(gomock.Any(), "good").Return(&domain.Article{ID: "good"}, nil)
	s.articles.EXPECT().UpdateContent(gomock.Any(), "good", "body", 1).Return(nil)

	enricher := s.newEnricher()
	enricher.Enqueue(tasks)
	enricher.Drain()
}

func (s *EnricherTestSuite) TestEnqueue_TimeoutOnlyAffectsItsTask() {
	tasks := []domain.EnrichmentTask{
		{ArticleID: "slow", URL: "https://example.com/slow"},
		{ArticleID: "fast", URL: "https://example.com/fast"},
	}

	s.extractor.EXPECT().Extract(gomock.Any(), "https://example.com/slow").
		DoAndReturn(func(ctx context.Context, url string) (*domain.Extraction, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	s.extractor.EXPECT().Extract(gomock.Any(), "https://example.com/fast").Return(&domain.Extraction{
		TextContent: "body",
		ReadingTime: 1,
	}, nil)
	s.articles.EXPECT().GetByID(gomock.Any(), "fast").Return(&domain.Article{ID: "fast"}, nil)
	s.articles.EXPECT().UpdateContent(gomock.Any(), "fast", "body", 1).Return(nil)

	cfg := s.cfg
	cfg.TaskTimeout = 20 * time.Millisecond

	enricher := NewEnricher(s.articles, s.extractor, cfg, s.logger)
	enricher.Enqueue(tasks)
	enricher.Drain()
}

func (s *EnricherTestSuite) TestEnqueue_DeletedArticleSkipped() {
	tasks := []domain.EnrichmentTask{{ArticleID: "gone", URL: "https://example.com/gone"}}

	s.extractor.EXPECT().Extract(gomock.Any(), "https://example.com/gone").Return(&domain.Extraction{
		TextContent: "body",
		ReadingTime: 1,
	}, nil)
	s.articles.EXPECT().GetByID(gomock.Any(), "gone").Return(nil, domain.ErrArticleNotFound)

	enricher := s.newEnricher()
	enricher.Enqueue(tasks)
	enricher.Drain()
}

func (s *EnricherTestSuite) TestEnqueue_EmptyQueueIsNoop() {
	enricher := s.newEnricher()
	enricher.Enqueue(nil)
	enricher.Drain()
}

// trackingExtractor counts concurrently running extractions.
type trackingExtractor struct {
	mu          sync.Mutex
	inFlight    int
	maxInFlight int
	calls       int
}

func (t *trackingExtractor) Extract(ctx context.Context, url string) (*domain.Extraction, error) {
	t.mu.Lock()
	t.inFlight++
	t.calls++
	if t.inFlight > t.maxInFlight {
		t.maxInFlight = t.inFlight
	}
	t.mu.Unlock()

	time.Sleep(10 * time.Millisecond)

	t.mu.Lock()
	t.inFlight--
	t.mu.Unlock()

	return &domain.Extraction{TextContent: "body", ReadingTime: 1}, nil
}

// memoryArticleStore records content updates without a database.
type memoryArticleStore struct {
	mu      sync.Mutex
	updated map[string]string
}

func newMemoryArticleStore() *memoryArticleStore {
	return &memoryArticleStore{updated: make(map[string]string)}
}

func (m *memoryArticleStore) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	return &domain.Article{ID: id}, nil
}

func (m *memoryArticleStore) Insert(ctx context.Context, article *domain.Article) error {
	return nil
}

func (m *memoryArticleStore) UpdateContent(ctx context.Context, id string, fullContent string, readingTime int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updated[id] = fullContent
	return nil
}

func (s *EnricherTestSuite) TestRun_ConcurrencyNeverExceedsLimit() {
	extractor := &trackingExtractor{}
	store := newMemoryArticleStore()

	enricher := NewEnricher(store, extractor, s.cfg, s.logger)

	tasks := make([]domain.EnrichmentTask, 10)
	for i := range tasks {
		tasks[i] = domain.EnrichmentTask{
			ArticleID: string(rune('a' + i)),
			URL:       "https://example.com/post",
		}
	}

	enricher.Enqueue(tasks)
	enricher.Drain()

	s.Equal(10, extractor.calls)
	s.LessOrEqual(extractor.maxInFlight, s.cfg.Concurrency)
	s.Len(store.updated, 10)
}

func (s *EnricherTestSuite) TestClose_StopsBetweenBatches() {
	extractor := &trackingExtractor{}
	store := newMemoryArticleStore()

	cfg := s.cfg
	cfg.BatchDelay = time.Hour

	enricher := NewEnricher(store, extractor, cfg, s.logger)

	tasks := make([]domain.EnrichmentTask, 6)
	for i := range tasks {
		tasks[i] = domain.EnrichmentTask{
			ArticleID: string(rune('a' + i)),
			URL:       "https://example.com/post",
		}
	}

	enricher.Enqueue(tasks)

	// The first batch of 3 runs, then the worker parks on the delay.
	time.Sleep(50 * time.Millisecond)
	enricher.Close()

	s.Equal(3, extractor.calls)
}
