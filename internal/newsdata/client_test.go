package newsdata

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/iadityasingh7/news/internal/news"
	"github.com/iadityasingh7/news/internal/notice"
)

type recorder struct {
	mu      sync.Mutex
	notices []notice.Notice
}

func (r *recorder) Notify(n notice.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *recorder) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	rec := &recorder{}
	c := New(Config{BaseURL: srv.URL, APIKey: "test-key"},
		WithHTTPClient(srv.Client()),
		WithNotifier(rec),
	)
	return c, rec
}

func jsonHandler(t *testing.T, payload interface{}, seen *url.URL) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			*seen = *r.URL
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encoding payload: %v", err)
		}
	}
}

func TestFetchFirstPage(t *testing.T) {
	payload := map[string]interface{}{
		"status": "success",
		"results": []map[string]interface{}{
			{
				"title":       "Bitcoin tops 100k",
				"description": "Crypto markets rally.",
				"image_url":   "https://img.example.com/btc.png",
				"link":        "https://example.com/btc",
				"source_name": "CoinDesk",
				"article_id":  "a1",
				"pubDate":     "2025-01-02 03:04:05",
				"category":    []string{"business"},
			},
			{
				"title":     nil,
				"link":      nil,
				"image_url": "  ",
			},
		},
		"nextPage": "p2",
	}

	var seen url.URL
	c, rec := newTestClient(t, jsonHandler(t, payload, &seen))

	page, err := c.Fetch(context.Background(), news.Crypto, "")

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(page.Articles))
	assert.Equal(t, "p2", page.NextCursor)

	a := page.Articles[0]
	assert.Equal(t, "Bitcoin tops 100k", a.Title)
	assert.Equal(t, "Crypto markets rally.", a.Snippet)
	assert.Equal(t, "https://img.example.com/btc.png", a.ThumbnailURL)
	assert.Equal(t, "https://example.com/btc", a.URL)
	assert.Equal(t, "CoinDesk", a.Publisher)
	assert.Equal(t, "a1", a.ArticleID)

	b := page.Articles[1]
	assert.Equal(t, news.FallbackTitle, b.Title)
	assert.Equal(t, news.FallbackURL, b.URL)
	assert.Equal(t, news.FallbackPublisher, b.Publisher)
	assert.Equal(t, "", b.ThumbnailURL)

	assert.Equal(t, "/crypto", seen.Path)
	q := seen.Query()
	assert.Equal(t, "test-key", q.Get("apikey"))
	assert.Equal(t, "en", q.Get("language"))
	assert.Equal(t, "9", q.Get("size"))
	assert.Equal(t, "1", q.Get("removeduplicate"))
	assert.Equal(t, "", q.Get("page"))

	assert.Equal(t, 0, len(rec.notices))
}

func TestFetchForwardsCursor(t *testing.T) {
	payload := map[string]interface{}{
		"status":  "success",
		"results": []map[string]interface{}{{"title": "x", "link": "https://example.com/x"}},
	}
	var seen url.URL
	c, _ := newTestClient(t, jsonHandler(t, payload, &seen))

	page, err := c.Fetch(context.Background(), news.Market, "cursor-123")

	assert.Equal(t, nil, err)
	assert.Equal(t, "cursor-123", seen.Query().Get("page"))
	assert.Equal(t, "", page.NextCursor)
}

func TestFetchNumericCursor(t *testing.T) {
	payload := map[string]interface{}{
		"status":   "success",
		"results":  []map[string]interface{}{{"title": "x"}},
		"nextPage": 1712345,
	}
	c, _ := newTestClient(t, jsonHandler(t, payload, nil))

	page, err := c.Fetch(context.Background(), news.Latest, "")

	assert.Equal(t, nil, err)
	assert.Equal(t, "1712345", page.NextCursor)
}

func TestFetchEmptyFirstPageRaisesNotice(t *testing.T) {
	payload := map[string]interface{}{"status": "success", "results": []interface{}{}, "nextPage": "ignored"}
	c, rec := newTestClient(t, jsonHandler(t, payload, nil))

	page, err := c.Fetch(context.Background(), news.Crypto, "")

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(page.Articles))
	assert.Equal(t, "", page.NextCursor)
	assert.Equal(t, 1, len(rec.notices))
	assert.Equal(t, notice.Warn, rec.notices[0].Level)
	assert.Equal(t, msgNoResults, rec.notices[0].Message)
}

func TestFetchEmptyContinuationIsSilent(t *testing.T) {
	payload := map[string]interface{}{"status": "success", "results": []interface{}{}}
	c, rec := newTestClient(t, jsonHandler(t, payload, nil))

	page, err := c.Fetch(context.Background(), news.Crypto, "p3")

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(page.Articles))
	assert.Equal(t, 0, len(rec.notices))
}

func TestFetchNonSuccessStatusIsEmpty(t *testing.T) {
	payload := map[string]interface{}{
		"status":  "error",
		"results": map[string]interface{}{"message": "quota exceeded"},
	}
	c, rec := newTestClient(t, jsonHandler(t, payload, nil))

	page, err := c.Fetch(context.Background(), news.Latest, "")

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(page.Articles))
	assert.Equal(t, 1, len(rec.notices))
}

func TestFetchHTTPErrorFirstPage(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	})

	_, err := c.Fetch(context.Background(), news.Market, "")

	var ne *news.NetworkError
	assert.Equal(t, true, errors.As(err, &ne))
	assert.Equal(t, http.StatusUnauthorized, ne.Status)
	assert.Equal(t, news.Market, ne.Category)
	assert.Equal(t, false, IsTransport(err))
	assert.Equal(t, 1, len(rec.notices))
	assert.Equal(t, notice.Error, rec.notices[0].Level)
	assert.Equal(t, msgFetchFailed, rec.notices[0].Message)
}

func TestFetchHTTPErrorContinuationIsSilent(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Fetch(context.Background(), news.Market, "p2")

	assert.Equal(t, true, news.IsNetwork(err))
	assert.Equal(t, 0, len(rec.notices))
}

func TestFetchMalformedBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	_, err := c.Fetch(context.Background(), news.Latest, "")

	assert.Equal(t, true, news.IsNetwork(err))
}

func TestFetchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	rec := &recorder{}
	c := New(Config{BaseURL: base}, WithNotifier(rec))

	_, err := c.Fetch(context.Background(), news.Latest, "")

	assert.Equal(t, true, news.IsNetwork(err))
	assert.Equal(t, true, IsTransport(err))
	assert.Equal(t, 1, len(rec.notices))
}

func TestFetchRejectsLikes(t *testing.T) {
	called := false
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := c.Fetch(context.Background(), news.Likes, "")

	assert.NotEqual(t, nil, err)
	assert.Equal(t, false, called)
	assert.Equal(t, 0, len(rec.notices))
}

func TestParseCursor(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"abc"`, "abc"},
		{`42`, "42"},
		{`null`, ""},
		{``, ""},
		{`{"x":1}`, ""},
	}
	for _, tt := range tests {
		got := parseCursor(json.RawMessage(tt.input))
		if got != tt.want {
			t.Errorf("parseCursor(%s) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNewDefaults(t *testing.T) {
	c := New(Config{BaseURL: "https://example.com/api/"})
	assert.Equal(t, "https://example.com/api", c.cfg.BaseURL)
	assert.Equal(t, DefaultPageSize, c.cfg.PageSize)
	assert.Equal(t, DefaultLanguage, c.cfg.Language)
	assert.Equal(t, DefaultTimeout, c.cfg.Timeout)
}
