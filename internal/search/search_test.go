package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"newsreader/internal/domain"
	"newsreader/testdata/utils"
)

func TestRank_BlankQueryReturnsInputUnchanged(t *testing.T) {
	articles := []domain.Article{
		{ID: "1", Title: "Newest"},
		{ID: "2", Title: "Older"},
	}

	assert.Equal(t, articles, Rank(articles, ""))
	assert.Equal(t, articles, Rank(articles, "   "))
}

func TestRank_ExcludesNonMatching(t *testing.T) {
	articles := []domain.Article{
		{ID: "1", Title: "Go generics explained"},
		{ID: "2", Title: "Cooking with cast iron"},
	}

	results := Rank(articles, "generics")

	assert.Len(t, results, 1)
	assert.Equal(t, "1", results[0].ID)
}

func TestRank_TitleMatchOutranksExcerptMatch(t *testing.T) {
	articles := []domain.Article{
		{ID: "excerpt-only", Title: "Weekly roundup", Excerpt: "async runtimes compared"},
		{ID: "title-match", Title: "Async state machines", Excerpt: "nothing relevant"},
	}

	results := Rank(articles, "async")

	assert.Len(t, results, 2)
	assert.Equal(t, "title-match", results[0].ID)
	assert.Equal(t, "excerpt-only", results[1].ID)
}

func TestRank_ExactTitleOutranksPartial(t *testing.T) {
	articles := []domain.Article{
		{ID: "partial", Title: "AI is everywhere"},
		{ID: "exact", Title: "AI"},
	}

	results := Rank(articles, "ai")

	assert.Equal(t, "exact", results[0].ID)
	assert.Equal(t, "partial", results[1].ID)
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	articles := []domain.Article{
		{ID: "first", Title: "Rust in production"},
		{ID: "second", Title: "Rust for embedded"},
	}

	results := Rank(articles, "rust")

	assert.Equal(t, "first", results[0].ID)
	assert.Equal(t, "second", results[1].ID)
}

func TestRank_QueryIsCaseInsensitive(t *testing.T) {
	articles := []domain.Article{{ID: "1", Title: "Kubernetes Networking"}}

	assert.Len(t, Rank(articles, "KUBERNETES"), 1)
	assert.Len(t, Rank(articles, "  kubernetes  "), 1)
}

func TestScore_Weights(t *testing.T) {
	tests := []struct {
		name    string
		article domain.Article
		want    int
	}{
		{
			name:    "exact title",
			article: domain.Article{Title: "databases"},
			want:    10,
		},
		{
			name:    "partial title",
			article: domain.Article{Title: "databases at scale"},
			want:    5,
		},
		{
			name:    "excerpt only",
			article: domain.Article{Title: "unrelated", Excerpt: "graph databases compared"},
			want:    3,
		},
		{
			name:    "full content only",
			article: domain.Article{Title: "unrelated", FullContent: utils.Ptr("deep dive into databases")},
			want:    1,
		},
		{
			name: "partial title plus excerpt plus content",
			article: domain.Article{
				Title:       "databases at scale",
				Excerpt:     "modern databases",
				FullContent: utils.Ptr("databases everywhere"),
			},
			want: 9,
		},
		{
			name:    "no match",
			article: domain.Article{Title: "gardening", Excerpt: "tomatoes"},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.article, "databases"))
		})
	}
}

func TestScore_ExactAndPartialTitleAreExclusive(t *testing.T) {
	// An exact match must not also collect the partial bonus.
	assert.Equal(t, 10, Score(domain.Article{Title: "ai"}, "ai"))
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	articles := []domain.Article{
		{ID: "1", Title: "zeta match"},
		{ID: "2", Title: "match"},
		{ID: "3", Title: "no hit"},
	}

	Rank(articles, "match")

	assert.Equal(t, "1", articles[0].ID)
	assert.Equal(t, "2", articles[1].ID)
	assert.Equal(t, "3", articles[2].ID)
}
