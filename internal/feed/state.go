package feed

import "github.com/iadityasingh7/news/internal/news"

// FetchKind describes what, if anything, is in flight for a category.
type FetchKind int

const (
	Idle FetchKind = iota
	FirstPage
	NextPage
)

// State is a read-only snapshot of the engine. Snapshots are deep copies.
type State struct {
	Current  news.Category
	Articles map[news.Category][]news.Article
	// Cursors holds the continuation token per category; "" means no
	// further pages or not fetched yet.
	Cursors  map[news.Category]string
	Fetching map[news.Category]FetchKind

	// Loading is true while the first page of Current is in flight,
	// LoadingMore while a subsequent page of Current is.
	Loading     bool
	LoadingMore bool

	// Err is the last load failure, "" when unset.
	Err string
}

func newState(start news.Category) State {
	return State{
		Current:  start,
		Articles: make(map[news.Category][]news.Article),
		Cursors:  make(map[news.Category]string),
		Fetching: make(map[news.Category]FetchKind),
	}
}

// CurrentArticles returns the list for the selected category.
func (s State) CurrentArticles() []news.Article {
	return s.Articles[s.Current]
}

// HasMore reports whether c has a continuation cursor.
func (s State) HasMore(c news.Category) bool {
	return c.Fetchable() && s.Cursors[c] != ""
}

// CanLoadMore evaluates the load-more preconditions for c.
func (s State) CanLoadMore(c news.Category) bool {
	return c.Fetchable() &&
		s.Fetching[c] == Idle &&
		s.Cursors[c] != "" &&
		s.Err == ""
}

func (s State) clone() State {
	out := State{
		Current:  s.Current,
		Articles: make(map[news.Category][]news.Article, len(s.Articles)),
		Cursors:  make(map[news.Category]string, len(s.Cursors)),
		Fetching: make(map[news.Category]FetchKind, len(s.Fetching)),
		Err:      s.Err,
	}
	for c, list := range s.Articles {
		cp := make([]news.Article, len(list))
		copy(cp, list)
		out.Articles[c] = cp
	}
	for c, cur := range s.Cursors {
		out.Cursors[c] = cur
	}
	for c, k := range s.Fetching {
		if k != Idle {
			out.Fetching[c] = k
		}
	}
	out.Loading = out.Fetching[out.Current] == FirstPage
	out.LoadingMore = out.Fetching[out.Current] == NextPage
	return out
}
