package extract

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"

	"newsreader/internal/domain"
)

// Client pulls readable full text out of an article page. It applies no
// timeout of its own; the caller bounds each call through ctx.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

func New(client *http.Client, logger *slog.Logger) *Client {
	if client == nil {
		client = &http.Client{}
	}
	return &Client{
		httpClient: client,
		logger:     logger.With("component", "extract"),
	}
}

func (c *Client) Extract(ctx context.Context, rawURL string) (*domain.Extraction, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("extraction url is required")
	}

	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %s: %w", rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "newsreader/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch article: %s", resp.Status)
	}

	article, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return nil, fmt.Errorf("extract content: %w", err)
	}

	words := len(strings.Fields(article.TextContent))

	return &domain.Extraction{
		Title:       article.Title,
		Byline:      article.Byline,
		TextContent: article.TextContent,
		Excerpt:     article.Excerpt,
		SiteName:    article.SiteName,
		ReadingTime: (words + 199) / 200,
	}, nil
}
