package extract

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func articlePage() string {
	paragraph := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 30)

	var b strings.Builder
	b.WriteString(`<html><head><title>Fox Chronicles</title></head><body><article>`)
	b.WriteString(`<h1>Fox Chronicles</h1>`)
	for i := 0; i < 5; i++ {
		b.WriteString("<p>" + paragraph + "</p>")
	}
	b.WriteString(`</article></body></html>`)
	return b.String()
}

func TestExtract_ReturnsReadableContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articlePage()))
	}))
	defer srv.Close()

	client := New(srv.Client(), testLogger())

	extraction, err := client.Extract(context.Background(), srv.URL+"/fox")
	require.NoError(t, err)

	assert.Contains(t, extraction.TextContent, "quick brown fox")
	assert.GreaterOrEqual(t, extraction.ReadingTime, 1)
}

func TestExtract_ReadingTimeScalesWithLength(t *testing.T) {
	// 450 words of body text is a 3 minute read at 200 wpm.
	paragraph := strings.Repeat("word ", 450)
	page := `<html><head><title>Long</title></head><body><article><p>` + paragraph + `</p></article></body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	client := New(srv.Client(), testLogger())

	extraction, err := client.Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 3, extraction.ReadingTime)
}

func TestExtract_EmptyURL(t *testing.T) {
	client := New(nil, testLogger())

	_, err := client.Extract(context.Background(), "")
	assert.Error(t, err)
}

func TestExtract_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := New(srv.Client(), testLogger())

	_, err := client.Extract(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestExtract_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := New(srv.Client(), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Extract(ctx, srv.URL)
	assert.Error(t, err)
}
