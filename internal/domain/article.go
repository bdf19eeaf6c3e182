package domain

import "time"

// SourceKind discriminates how a source's articles are discovered.
type SourceKind string

const (
	SourceKindFeed   SourceKind = "feed"
	SourceKindScrape SourceKind = "selector-scrape"
)

// FetchStatus is the outcome of the most recent fetch attempt for a source.
type FetchStatus string

const (
	FetchStatusSuccess FetchStatus = "success"
	FetchStatusError   FetchStatus = "error"
)

// ScrapeConfig holds the CSS selectors for a selector-scrape source.
// Present iff the source kind is selector-scrape.
type ScrapeConfig struct {
	ListSelector  string
	LinkSelector  string
	TitleSelector string // optional, falls back to LinkSelector text
}

// Source is a configured content origin (a feed or a scraped listing page).
type Source struct {
	ID              string
	Name            string
	Kind            SourceKind
	Locator         string // feed URL or scrape target URL
	UpdateFrequency int    // minutes between updates
	Enabled         bool

	// Fetch tracking, mutated only by the sync pass.
	LastFetchAt      *time.Time
	LastFetchStatus  FetchStatus
	LastErrorMessage *string

	Scrape *ScrapeConfig
}

// Article is one discovered content item.
type Article struct {
	ID          string
	URL         string
	SourceID    string
	Title       string
	Author      *string
	PublishedAt time.Time
	FetchedAt   time.Time

	Excerpt     string
	FullContent *string // absent until enrichment succeeds
	ImageURL    *string

	Categories  []string
	ReadingTime *int // minutes

	IsRead       bool
	IsStarred    bool
	ReadProgress int // 0-100
	LastReadAt   *time.Time

	SourceKind SourceKind
}

// EnrichmentTask references a newly inserted article whose full text is
// still missing. Ephemeral: queued after a sync pass, consumed, discarded.
type EnrichmentTask struct {
	ArticleID string
	URL       string
}

// Extraction is the readable full text pulled out of an article page.
type Extraction struct {
	Title       string
	Byline      string
	TextContent string
	Excerpt     string
	SiteName    string
	ReadingTime int // minutes
}
