package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"newsreader/internal/domain"
)

// Adapter extracts candidate articles from a listing page using the
// source's configured CSS selectors.
type Adapter struct {
	client *http.Client
	logger *slog.Logger
}

func New(client *http.Client, logger *slog.Logger) *Adapter {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Adapter{
		client: client,
		logger: logger.With("adapter", "scrape"),
	}
}

// Fetch downloads the listing page and walks the configured list selector.
// Scraped listings carry no publish-date signal, so publishedAt is the
// fetch time.
func (a *Adapter) Fetch(ctx context.Context, src domain.Source) ([]domain.Article, error) {
	if src.Locator == "" {
		return nil, fmt.Errorf("source %s: scrape locator is required", src.ID)
	}
	if src.Scrape == nil {
		return nil, fmt.Errorf("source %s: scrape selectors are required", src.ID)
	}

	base, err := url.Parse(src.Locator)
	if err != nil {
		return nil, fmt.Errorf("source %s: invalid locator: %w", src.ID, err)
	}

	doc, err := a.fetchDocument(ctx, src.Locator)
	if err != nil {
		return nil, err
	}

	cfg := src.Scrape
	titleSelector := cfg.TitleSelector
	if titleSelector == "" {
		titleSelector = cfg.LinkSelector
	}

	fetchedAt := time.Now().UTC()

	var articles []domain.Article
	doc.Find(cfg.ListSelector).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Find(cfg.LinkSelector).First().Attr("href")
		title := strings.TrimSpace(sel.Find(titleSelector).First().Text())
		if !ok || href == "" || title == "" {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			a.logger.Debug("skipping element with unparsable link", "source", src.ID, "href", href)
			return
		}
		abs := base.ResolveReference(ref).String()

		articles = append(articles, domain.Article{
			ID:          domain.ArticleID(abs, fetchedAt),
			URL:         abs,
			SourceID:    src.ID,
			Title:       title,
			PublishedAt: fetchedAt,
			FetchedAt:   fetchedAt,
			Excerpt:     "",
			Categories:  []string{},
			SourceKind:  domain.SourceKindScrape,
		})
	})

	return articles, nil
}

func (a *Adapter) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "newsreader/1.0")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch page: %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	return doc, nil
}
