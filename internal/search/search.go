package search

import (
	"sort"
	"strings"

	"newsreader/internal/domain"
)

// Scoring weights, highest priority first.
const (
	scoreTitleExact   = 10
	scoreTitlePartial = 5
	scoreExcerpt      = 3
	scoreFullContent  = 1
)

// Rank filters and orders articles by relevance to a free-text query.
// A blank or whitespace-only query returns the input unchanged and
// unscored. Ties keep the input's relative (chronological) order.
// Rank never mutates the articles.
func Rank(articles []domain.Article, query string) []domain.Article {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return articles
	}

	type scored struct {
		article domain.Article
		score   int
	}

	results := make([]scored, 0, len(articles))
	for _, article := range articles {
		if s := Score(article, normalized); s > 0 {
			results = append(results, scored{article: article, score: s})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	out := make([]domain.Article, len(results))
	for i, r := range results {
		out[i] = r.article
	}
	return out
}

// Score rates one article against an already-normalized (lowercased,
// trimmed, non-empty) query. Exact and partial title matches are
// mutually exclusive.
func Score(article domain.Article, normalizedQuery string) int {
	title := strings.ToLower(article.Title)
	excerpt := strings.ToLower(article.Excerpt)

	score := 0
	if title == normalizedQuery {
		score += scoreTitleExact
	} else if strings.Contains(title, normalizedQuery) {
		score += scoreTitlePartial
	}

	if strings.Contains(excerpt, normalizedQuery) {
		score += scoreExcerpt
	}

	if article.FullContent != nil && strings.Contains(strings.ToLower(*article.FullContent), normalizedQuery) {
		score += scoreFullContent
	}

	return score
}
