package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/lo"

	"newsreader/internal/domain"
)

type ArticleStore struct {
	db *sqlx.DB
}

func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

const articleColumns = `
	id, url, source_id, title, author, published_at, fetched_at,
	excerpt, full_content, image_url, categories, reading_time_minutes,
	is_read, is_starred, read_progress, last_read_at, source_kind`

func (s *ArticleStore) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	var row dbArticle
	err := s.db.GetContext(ctx, &row,
		`SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrArticleNotFound
	}
	if err != nil {
		return nil, err
	}

	article := row.toDomain()
	return &article, nil
}

func (s *ArticleStore) GetAll(ctx context.Context) ([]domain.Article, error) {
	var rows []dbArticle
	err := s.db.SelectContext(ctx, &rows,
		`SELECT `+articleColumns+` FROM articles ORDER BY published_at DESC`)
	if err != nil {
		return nil, err
	}

	return lo.Map(rows, func(row dbArticle, _ int) domain.Article {
		return row.toDomain()
	}), nil
}

func (s *ArticleStore) GetBySource(ctx context.Context, sourceID string) ([]domain.Article, error) {
	var rows []dbArticle
	err := s.db.SelectContext(ctx, &rows,
		`SELECT `+articleColumns+` FROM articles WHERE source_id = $1 ORDER BY published_at DESC`, sourceID)
	if err != nil {
		return nil, err
	}

	return lo.Map(rows, func(row dbArticle, _ int) domain.Article {
		return row.toDomain()
	}), nil
}

func (s *ArticleStore) Insert(ctx context.Context, article *domain.Article) error {
	row := fromDomain(article)

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO articles (
			id, url, source_id, title, author, published_at, fetched_at,
			excerpt, full_content, image_url, categories, reading_time_minutes,
			is_read, is_starred, read_progress, last_read_at, source_kind
		) VALUES (
			:id, :url, :source_id, :title, :author, :published_at, :fetched_at,
			:excerpt, :full_content, :image_url, :categories, :reading_time_minutes,
			:is_read, :is_starred, :read_progress, :last_read_at, :source_kind
		)`, row)
	return err
}

func (s *ArticleStore) Update(ctx context.Context, article *domain.Article) error {
	row := fromDomain(article)

	res, err := s.db.NamedExecContext(ctx, `
		UPDATE articles SET
			url = :url,
			source_id = :source_id,
			title = :title,
			author = :author,
			published_at = :published_at,
			fetched_at = :fetched_at,
			excerpt = :excerpt,
			full_content = :full_content,
			image_url = :image_url,
			categories = :categories,
			reading_time_minutes = :reading_time_minutes,
			is_read = :is_read,
			is_starred = :is_starred,
			read_progress = :read_progress,
			last_read_at = :last_read_at,
			source_kind = :source_kind
		WHERE id = :id`, row)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// UpdateContent writes only the enrichment fields. User state on the row
// (read/star/progress) is never touched here.
func (s *ArticleStore) UpdateContent(ctx context.Context, id string, fullContent string, readingTime int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE articles
		SET full_content = $2, reading_time_minutes = $3
		WHERE id = $1`, id, fullContent, readingTime)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (s *ArticleStore) SetStarred(ctx context.Context, id string, starred bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE articles SET is_starred = $2 WHERE id = $1`, id, starred)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (s *ArticleStore) UpdateReadState(ctx context.Context, id string, isRead bool, progress int, lastReadAt time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE articles
		SET is_read = $2, read_progress = $3, last_read_at = $4
		WHERE id = $1`, id, isRead, progress, lastReadAt)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (s *ArticleStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

type dbArticle struct {
	ID           string         `db:"id"`
	URL          string         `db:"url"`
	SourceID     string         `db:"source_id"`
	Title        string         `db:"title"`
	Author       *string        `db:"author"`
	PublishedAt  time.Time      `db:"published_at"`
	FetchedAt    time.Time      `db:"fetched_at"`
	Excerpt      string         `db:"excerpt"`
	FullContent  *string        `db:"full_content"`
	ImageURL     *string        `db:"image_url"`
	Categories   pq.StringArray `db:"categories"`
	ReadingTime  *int           `db:"reading_time_minutes"`
	IsRead       bool           `db:"is_read"`
	IsStarred    bool           `db:"is_starred"`
	ReadProgress int            `db:"read_progress"`
	LastReadAt   *time.Time     `db:"last_read_at"`
	SourceKind   string         `db:"source_kind"`
}

func (r dbArticle) toDomain() domain.Article {
	return domain.Article{
		ID:           r.ID,
		URL:          r.URL,
		SourceID:     r.SourceID,
		Title:        r.Title,
		Author:       r.Author,
		PublishedAt:  r.PublishedAt,
		FetchedAt:    r.FetchedAt,
		Excerpt:      r.Excerpt,
		FullContent:  r.FullContent,
		ImageURL:     r.ImageURL,
		Categories:   []string(r.Categories),
		ReadingTime:  r.ReadingTime,
		IsRead:       r.IsRead,
		IsStarred:    r.IsStarred,
		ReadProgress: r.ReadProgress,
		LastReadAt:   r.LastReadAt,
		SourceKind:   domain.SourceKind(r.SourceKind),
	}
}

func fromDomain(a *domain.Article) dbArticle {
	categories := a.Categories
	if categories == nil {
		categories = []string{}
	}

	return dbArticle{
		ID:           a.ID,
		URL:          a.URL,
		SourceID:     a.SourceID,
		Title:        a.Title,
		Author:       a.Author,
		PublishedAt:  a.PublishedAt,
		FetchedAt:    a.FetchedAt,
		Excerpt:      a.Excerpt,
		FullContent:  a.FullContent,
		ImageURL:     a.ImageURL,
		Categories:   pq.StringArray(categories),
		ReadingTime:  a.ReadingTime,
		IsRead:       a.IsRead,
		IsStarred:    a.IsStarred,
		ReadProgress: a.ReadProgress,
		LastReadAt:   a.LastReadAt,
		SourceKind:   string(a.SourceKind),
	}
}
