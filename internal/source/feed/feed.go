package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/SlyMarbo/rss"

	"newsreader/internal/domain"
)

var (
	imgPattern = regexp.MustCompile(`<img[^>]+src="([^">]+)"`)
	tagPattern = regexp.MustCompile(`<[^>]*>`)
)

// Adapter turns a feed source into candidate articles.
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
		logger: logger.With("adapter", "feed"),
	}
}

// Fetch downloads and parses the source's feed. Candidates carry a derived
// id but none of the persisted-only state.
func (a *Adapter) Fetch(ctx context.Context, src domain.Source) ([]domain.Article, error) {
	if src.Locator == "" {
		return nil, fmt.Errorf("source %s: feed locator is required", src.ID)
	}

	feed, err := a.loadFeed(ctx, src.Locator)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	fetchedAt := time.Now().UTC()

	articles := make([]domain.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		itemURL := item.Link
		if itemURL == "" {
			itemURL = item.ID
		}
		if itemURL == "" {
			a.logger.Debug("skipping feed item without link", "source", src.ID, "title", item.Title)
			continue
		}

		publishedAt := fetchedAt
		if item.DateValid {
			publishedAt = item.Date.UTC()
		}

		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = "Untitled"
		}

		excerpt := strings.TrimSpace(item.Summary)
		if excerpt == "" {
			excerpt = strings.TrimSpace(tagPattern.ReplaceAllString(item.Content, " "))
		}

		categories := item.Categories
		if categories == nil {
			categories = []string{}
		}

		art := domain.Article{
			ID:          domain.ArticleID(itemURL, publishedAt),
			URL:         itemURL,
			SourceID:    src.ID,
			Title:       title,
			PublishedAt: publishedAt,
			FetchedAt:   fetchedAt,
			Excerpt:     excerpt,
			Categories:  categories,
			SourceKind:  domain.SourceKindFeed,
		}

		if img := itemImage(item); img != "" {
			art.ImageURL = &img
		}

		rt := readingTime(excerpt)
		art.ReadingTime = &rt

		articles = append(articles, art)
	}

	return articles, nil
}

// loadFeed races the blocking rss fetch against ctx cancellation.
func (a *Adapter) loadFeed(ctx context.Context, locator string) (*rss.Feed, error) {
	var (
		feedCh = make(chan *rss.Feed, 1)
		errCh  = make(chan error, 1)
	)

	go func() {
		feed, err := rss.FetchByClient(locator, a.client)
		if err != nil {
			errCh <- err
			return
		}
		feedCh <- feed
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-errCh:
		return nil, err
	case feed := <-feedCh:
		return feed, nil
	}
}

// itemImage picks the article image: explicit enclosure first, then the
// feed-level media image, then the first <img> embedded in the item body.
func itemImage(item *rss.Item) string {
	for _, enc := range item.Enclosures {
		if enc.URL != "" {
			return enc.URL
		}
	}
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	if m := imgPattern.FindStringSubmatch(item.Content); m != nil {
		return m[1]
	}
	return ""
}

// readingTime estimates minutes at 200 words per minute, rounded up,
// never below one minute.
func readingTime(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 1
	}
	return (words + 199) / 200
}
