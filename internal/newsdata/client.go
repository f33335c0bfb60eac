// Package newsdata fetches pages of categorized articles from a
// newsdata.io-style API and normalizes them. It holds no state between calls.
package newsdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/iadityasingh7/news/internal/news"
	"github.com/iadityasingh7/news/internal/notice"
)

const (
	DefaultBaseURL  = "https://newsdata.io/api/1"
	DefaultLanguage = "en"
	DefaultPageSize = 9
	DefaultTimeout  = 15 * time.Second

	msgFetchFailed = "Error while fetching news"
	msgNoResults   = "Error while fetching news - No results found"
)

// Config describes how to reach the API.
type Config struct {
	BaseURL           string
	APIKey            string
	Language          string
	PageSize          int
	Timeout           time.Duration
	RequestsPerSecond float64
}

type Client struct {
	cfg      Config
	http     *http.Client
	limiter  *rate.Limiter
	notifier notice.Notifier
	logger   *log.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithNotifier(n notice.Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	c := &Client{
		cfg:      cfg,
		http:     &http.Client{Timeout: cfg.Timeout},
		limiter:  rate.NewLimiter(limit, 1),
		notifier: notice.Discard,
		logger:   log.New(io.Discard),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type response struct {
	Status   string          `json:"status"`
	Results  json.RawMessage `json:"results"`
	NextPage json.RawMessage `json:"nextPage"`
}

// Fetch requests one page of category. An empty cursor asks for the first
// page. First-page failures and empty first pages raise a notice; for
// continuation requests both are silent.
func (c *Client) Fetch(ctx context.Context, category news.Category, cursor string) (news.Page, error) {
	if !category.Fetchable() {
		return news.Page{}, fmt.Errorf("category %q is not fetchable", category)
	}
	firstPage := cursor == ""

	page, err := c.fetch(ctx, category, cursor)
	if err != nil {
		c.logger.Warn("fetch failed", "category", category, "cursor", cursor, "err", err)
		if firstPage {
			c.notifier.Notify(notice.New(notice.Error, msgFetchFailed))
		}
		return news.Page{}, err
	}

	if len(page.Articles) == 0 {
		c.logger.Info("no results", "category", category, "cursor", cursor)
		if firstPage {
			c.notifier.Notify(notice.New(notice.Warn, msgNoResults))
		}
		return news.Page{}, nil
	}

	c.logger.Debug("fetched page", "category", category, "count", len(page.Articles), "next", page.NextCursor)
	return page, nil
}

func (c *Client) fetch(ctx context.Context, category news.Category, cursor string) (news.Page, error) {
	fail := func(status int, err error) (news.Page, error) {
		return news.Page{}, &news.NetworkError{Category: category, Cursor: cursor, Status: status, Err: err}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fail(0, fmt.Errorf("rate limiter: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(category, cursor), nil)
	if err != nil {
		return fail(0, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fail(resp.StatusCode, fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(body))))
	}

	var raw response
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return fail(0, fmt.Errorf("decoding response: %w", err))
	}

	// Any non-success body, including error payloads where results is an
	// object, counts as an empty page.
	if raw.Status != "success" {
		c.logger.Warn("api status", "category", category, "status", raw.Status)
		return news.Page{}, nil
	}

	var results []news.Raw
	if len(raw.Results) > 0 && string(raw.Results) != "null" {
		if err := json.Unmarshal(raw.Results, &results); err != nil {
			return fail(0, fmt.Errorf("decoding results: %w", err))
		}
	}
	if len(results) == 0 {
		return news.Page{}, nil
	}

	articles := make([]news.Article, 0, len(results))
	for _, r := range results {
		articles = append(articles, news.Normalize(r))
	}
	return news.Page{Articles: articles, NextCursor: parseCursor(raw.NextPage)}, nil
}

func (c *Client) requestURL(category news.Category, cursor string) string {
	params := url.Values{
		"apikey":          {c.cfg.APIKey},
		"language":        {c.cfg.Language},
		"size":            {strconv.Itoa(c.cfg.PageSize)},
		"removeduplicate": {"1"},
	}
	if cursor != "" {
		params.Set("page", cursor)
	}
	return c.cfg.BaseURL + "/" + url.PathEscape(string(category)) + "?" + params.Encode()
}

// parseCursor accepts the cursor as a JSON string or number; null and
// anything else mean no further pages.
func parseCursor(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// IsTransport reports whether err came from the network itself rather than
// from an API response, which the view uses as an offline signal.
func IsTransport(err error) bool {
	var ne *news.NetworkError
	if !errors.As(err, &ne) || ne.Status != 0 {
		return false
	}
	var ue *url.Error
	return errors.As(ne.Err, &ue)
}
