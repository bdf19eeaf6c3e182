package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestArticleID_Deterministic(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	first := ArticleID("https://example.com/post", ts)
	second := ArticleID("https://example.com/post", ts)

	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestArticleID_StableAcrossRestarts(t *testing.T) {
	// Golden values: ids already persisted by earlier runs must not change.
	cases := []struct {
		url  string
		ts   time.Time
		want string
	}{
		{
			url:  "https://example.com/post",
			ts:   time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
			want: "pynprj",
		},
		{
			url:  "https://news.ycombinator.com/item?id=1",
			ts:   time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
			want: "45ah5v",
		},
		{
			url:  "https://example.com/ünïcode",
			ts:   time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
			want: "vurp07",
		},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ArticleID(tc.url, tc.ts), tc.url)
	}
}

func TestArticleID_TimestampChangesID(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	base := ArticleID("https://example.com/post", ts)
	shifted := ArticleID("https://example.com/post", ts.Add(time.Millisecond))

	assert.NotEqual(t, base, shifted)
}

func TestArticleID_NormalizesToUTC(t *testing.T) {
	utc := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	offset := utc.In(time.FixedZone("UTC+3", 3*60*60))

	assert.Equal(t, ArticleID("https://example.com/post", utc), ArticleID("https://example.com/post", offset))
}
