package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"newsreader/internal/domain"
)

type SourceStore struct {
	db *sqlx.DB
}

func NewSourceStore(db *sqlx.DB) *SourceStore {
	return &SourceStore{db: db}
}

const sourceColumns = `
	id, name, kind, locator, update_frequency_minutes, enabled,
	last_fetch_at, last_fetch_status, last_error_message,
	list_selector, link_selector, title_selector`

func (s *SourceStore) GetAll(ctx context.Context) ([]domain.Source, error) {
	var rows []dbSource
	err := s.db.SelectContext(ctx, &rows,
		`SELECT `+sourceColumns+` FROM sources ORDER BY id`)
	if err != nil {
		return nil, err
	}

	return lo.Map(rows, func(row dbSource, _ int) domain.Source {
		return row.toDomain()
	}), nil
}

func (s *SourceStore) GetByID(ctx context.Context, id string) (*domain.Source, error) {
	var row dbSource
	err := s.db.GetContext(ctx, &row,
		`SELECT `+sourceColumns+` FROM sources WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSourceNotFound
	}
	if err != nil {
		return nil, err
	}

	src := row.toDomain()
	return &src, nil
}

// GetEnabled returns enabled sources in their stable (id) order; the sync
// pass processes them in exactly this order.
func (s *SourceStore) GetEnabled(ctx context.Context) ([]domain.Source, error) {
	var rows []dbSource
	err := s.db.SelectContext(ctx, &rows,
		`SELECT `+sourceColumns+` FROM sources WHERE enabled ORDER BY id`)
	if err != nil {
		return nil, err
	}

	return lo.Map(rows, func(row dbSource, _ int) domain.Source {
		return row.toDomain()
	}), nil
}

// Insert participates in an ambient transaction when one is present on
// the context (used by first-start seeding).
func (s *SourceStore) Insert(ctx context.Context, src domain.Source) error {
	row := sourceFromDomain(src)

	_, err := sqlx.NamedExecContext(ctx, GetExecutor(ctx, s.db), `
		INSERT INTO sources (
			id, name, kind, locator, update_frequency_minutes, enabled,
			last_fetch_at, last_fetch_status, last_error_message,
			list_selector, link_selector, title_selector
		) VALUES (
			:id, :name, :kind, :locator, :update_frequency_minutes, :enabled,
			:last_fetch_at, :last_fetch_status, :last_error_message,
			:list_selector, :link_selector, :title_selector
		)`, row)
	return err
}

func (s *SourceStore) Update(ctx context.Context, src domain.Source) error {
	row := sourceFromDomain(src)

	res, err := s.db.NamedExecContext(ctx, `
		UPDATE sources SET
			name = :name,
			kind = :kind,
			locator = :locator,
			update_frequency_minutes = :update_frequency_minutes,
			enabled = :enabled,
			list_selector = :list_selector,
			link_selector = :link_selector,
			title_selector = :title_selector
		WHERE id = :id`, row)
	if err != nil {
		return err
	}
	return checkSourceAffected(res)
}

// UpdateFetchStatus records the outcome of a fetch attempt. A success
// clears any previous error message.
func (s *SourceStore) UpdateFetchStatus(ctx context.Context, id string, status domain.FetchStatus, errMessage string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sources
		SET last_fetch_status = $2, last_error_message = NULLIF($3, ''), last_fetch_at = $4
		WHERE id = $1`, id, string(status), errMessage, at)
	if err != nil {
		return err
	}
	return checkSourceAffected(res)
}

func (s *SourceStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sources WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkSourceAffected(res)
}

func checkSourceAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrSourceNotFound
	}
	return nil
}

type dbSource struct {
	ID              string     `db:"id"`
	Name            string     `db:"name"`
	Kind            string     `db:"kind"`
	Locator         string     `db:"locator"`
	UpdateFrequency int        `db:"update_frequency_minutes"`
	Enabled         bool       `db:"enabled"`
	LastFetchAt     *time.Time `db:"last_fetch_at"`
	LastFetchStatus *string    `db:"last_fetch_status"`
	LastErrorMsg    *string    `db:"last_error_message"`
	ListSelector    *string    `db:"list_selector"`
	LinkSelector    *string    `db:"link_selector"`
	TitleSelector   *string    `db:"title_selector"`
}

func (r dbSource) toDomain() domain.Source {
	src := domain.Source{
		ID:               r.ID,
		Name:             r.Name,
		Kind:             domain.SourceKind(r.Kind),
		Locator:          r.Locator,
		UpdateFrequency:  r.UpdateFrequency,
		Enabled:          r.Enabled,
		LastFetchAt:      r.LastFetchAt,
		LastErrorMessage: r.LastErrorMsg,
	}
	if r.LastFetchStatus != nil {
		src.LastFetchStatus = domain.FetchStatus(*r.LastFetchStatus)
	}
	if src.Kind == domain.SourceKindScrape && r.ListSelector != nil && r.LinkSelector != nil {
		src.Scrape = &domain.ScrapeConfig{
			ListSelector: *r.ListSelector,
			LinkSelector: *r.LinkSelector,
		}
		if r.TitleSelector != nil {
			src.Scrape.TitleSelector = *r.TitleSelector
		}
	}
	return src
}

func sourceFromDomain(src domain.Source) dbSource {
	row := dbSource{
		ID:              src.ID,
		Name:            src.Name,
		Kind:            string(src.Kind),
		Locator:         src.Locator,
		UpdateFrequency: src.UpdateFrequency,
		Enabled:         src.Enabled,
		LastFetchAt:     src.LastFetchAt,
		LastErrorMsg:    src.LastErrorMessage,
	}
	if src.LastFetchStatus != "" {
		status := string(src.LastFetchStatus)
		row.LastFetchStatus = &status
	}
	if src.Scrape != nil {
		row.ListSelector = &src.Scrape.ListSelector
		row.LinkSelector = &src.Scrape.LinkSelector
		if src.Scrape.TitleSelector != "" {
			row.TitleSelector = &src.Scrape.TitleSelector
		}
	}
	return row
}
