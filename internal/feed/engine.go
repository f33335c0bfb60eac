// Package feed is the reader's state engine. It owns the selected category,
// the per-category article lists and cursors, the loading flags and the last
// error, and coordinates the fetch client and the favorites store.
//
// Only SelectCategory, LoadCategory, LoadMore and ToggleLike (plus Reload,
// which invalidates and reloads one category) mutate state. Everything else
// reads a Snapshot.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/iadityasingh7/news/internal/news"
)

// Fetcher retrieves one page of a category. An empty cursor asks for the
// first page.
type Fetcher interface {
	Fetch(ctx context.Context, category news.Category, cursor string) (news.Page, error)
}

// Favorites is the persisted likes list.
type Favorites interface {
	List() []news.Article
	Add(a news.Article) []news.Article
	Remove(url string) []news.Article
	Contains(url string) bool
}

type Engine struct {
	mu      sync.Mutex
	state   State
	fetcher Fetcher
	likes   Favorites
	logger  *log.Logger
	session string

	subMu   sync.Mutex
	subs    map[int]func(news.Category)
	nextSub int
}

type Option func(*Engine)

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithStartCategory overrides the initial selection (latest by default).
func WithStartCategory(c news.Category) Option {
	return func(e *Engine) { e.state.Current = c }
}

// New creates the engine for one session. Caches start empty.
func New(fetcher Fetcher, likes Favorites, opts ...Option) *Engine {
	e := &Engine{
		state:   newState(news.Latest),
		fetcher: fetcher,
		likes:   likes,
		logger:  log.New(io.Discard),
		session: uuid.NewString(),
		subs:    make(map[int]func(news.Category)),
	}
	for _, o := range opts {
		o(e)
	}
	e.logger = e.logger.With("session", e.session)
	if e.state.Current == news.Likes {
		e.state.Articles[news.Likes] = e.likes.List()
	}
	return e
}

// Session identifies this engine in logs.
func (e *Engine) Session() string {
	return e.session
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// Liked reports whether url is in the favorites.
func (e *Engine) Liked(url string) bool {
	return e.likes.Contains(url)
}

// Subscribe registers fn to be called after every SelectCategory. fn runs on
// the caller's goroutine and must not call back into SelectCategory.
func (e *Engine) Subscribe(fn func(news.Category)) (cancel func()) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	return func() {
		e.subMu.Lock()
		defer e.subMu.Unlock()
		delete(e.subs, id)
	}
}

// SelectCategory switches the current category and clears the error. It
// never fetches; likes are repopulated from the favorites store right away.
func (e *Engine) SelectCategory(c news.Category) {
	e.mu.Lock()
	e.state.Current = c
	e.state.Err = ""
	if c == news.Likes {
		e.state.Articles[news.Likes] = e.likes.List()
	}
	e.mu.Unlock()

	e.logger.Debug("category selected", "category", c)

	e.subMu.Lock()
	fns := make([]func(news.Category), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.subMu.Unlock()
	for _, fn := range fns {
		fn(c)
	}
}

// LoadCategory makes sure the first page of c is cached. A category with at
// least one cached article is a cache hit and its cursor is left alone.
// Likes is never fetched. On failure the error is recorded in state and
// returned; cached data is untouched.
//
// Callers must not run two LoadCategory calls for the same category at once.
func (e *Engine) LoadCategory(ctx context.Context, c news.Category) ([]news.Article, error) {
	if !c.Fetchable() {
		return nil, nil
	}

	e.mu.Lock()
	if cached := e.state.Articles[c]; len(cached) > 0 {
		out := make([]news.Article, len(cached))
		copy(out, cached)
		e.mu.Unlock()
		e.logger.Debug("cache hit", "category", c, "count", len(out))
		return out, nil
	}
	e.state.Fetching[c] = FirstPage
	e.state.Err = ""
	e.mu.Unlock()

	return e.fetchFirst(ctx, c)
}

// fetchFirst requests the first page of c. The caller has already marked c
// as FirstPage under e.mu.
func (e *Engine) fetchFirst(ctx context.Context, c news.Category) ([]news.Article, error) {
	page, err := e.fetcher.Fetch(ctx, c, "")

	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.state.Fetching, c)
	if err != nil {
		e.state.Err = errorMessage(c, err)
		e.logger.Warn("load failed", "category", c, "err", err)
		return nil, fmt.Errorf("loading %s: %w", c, err)
	}

	articles := page.Articles
	if articles == nil {
		articles = []news.Article{}
	}
	e.state.Articles[c] = articles
	e.state.Cursors[c] = page.NextCursor
	e.state.Err = ""
	e.logger.Info("loaded", "category", c, "count", len(articles), "more", page.NextCursor != "")

	out := make([]news.Article, len(articles))
	copy(out, articles)
	return out, nil
}

// LoadMore appends the next page of c. It is a no-op unless c is fetchable,
// nothing is in flight for c, c has a cursor and no error is set; the check
// and the in-flight flag are applied atomically before the request starts,
// so repeated calls while one is pending do nothing.
//
// A failed continuation clears the cursor, so pagination for c stays off
// until the category is reloaded.
func (e *Engine) LoadMore(ctx context.Context, c news.Category) error {
	e.mu.Lock()
	if !e.state.CanLoadMore(c) {
		e.mu.Unlock()
		return nil
	}
	cursor := e.state.Cursors[c]
	e.state.Fetching[c] = NextPage
	e.state.Err = ""
	e.mu.Unlock()

	page, err := e.fetcher.Fetch(ctx, c, cursor)

	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.state.Fetching, c)
	if err != nil {
		e.state.Err = errorMessage(c, err)
		e.state.Cursors[c] = ""
		e.logger.Warn("load more failed, pagination closed", "category", c, "cursor", cursor, "err", err)
		return fmt.Errorf("loading more %s: %w", c, err)
	}

	e.state.Articles[c] = append(e.state.Articles[c], page.Articles...)
	e.state.Cursors[c] = page.NextCursor
	e.state.Err = ""
	e.logger.Debug("loaded more", "category", c, "added", len(page.Articles), "total", len(e.state.Articles[c]))
	return nil
}

// ToggleLike removes a from the favorites if its URL is liked, otherwise adds
// it, and mirrors the result into the likes category. It returns the new
// liked status.
func (e *Engine) ToggleLike(a news.Article) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	var (
		likes []news.Article
		liked bool
	)
	if e.likes.Contains(a.URL) {
		likes = e.likes.Remove(a.URL)
	} else {
		likes = e.likes.Add(a)
		liked = true
	}
	e.state.Articles[news.Likes] = likes
	e.logger.Debug("like toggled", "url", a.URL, "liked", liked, "total", len(likes))
	return liked
}

// Reload drops the cached list and cursor of c and fetches its first page
// again. This is the only way to resume pagination after a failed load-more.
// While any fetch for c is in flight Reload does nothing and returns the
// cached list.
func (e *Engine) Reload(ctx context.Context, c news.Category) ([]news.Article, error) {
	if !c.Fetchable() {
		return nil, nil
	}

	e.mu.Lock()
	if kind := e.state.Fetching[c]; kind != Idle {
		out := make([]news.Article, len(e.state.Articles[c]))
		copy(out, e.state.Articles[c])
		e.mu.Unlock()
		e.logger.Debug("reload skipped, fetch in flight", "category", c, "kind", kind)
		return out, nil
	}
	delete(e.state.Articles, c)
	delete(e.state.Cursors, c)
	e.state.Fetching[c] = FirstPage
	e.state.Err = ""
	e.mu.Unlock()

	return e.fetchFirst(ctx, c)
}

func errorMessage(c news.Category, err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("Loading %s news timed out or was cancelled", c)
	}
	var ne *news.NetworkError
	if errors.As(err, &ne) {
		what := "load"
		if ne.Continuation() {
			what = "load more"
		}
		if ne.Status != 0 {
			return fmt.Sprintf("Couldn't %s %s news (HTTP %d)", what, c, ne.Status)
		}
		return fmt.Sprintf("Couldn't %s %s news: %v", what, c, ne.Err)
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Something went wrong"
}
