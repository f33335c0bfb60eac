package tui

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iadityasingh7/news/internal/favorites"
	"github.com/iadityasingh7/news/internal/feed"
	"github.com/iadityasingh7/news/internal/kv"
	"github.com/iadityasingh7/news/internal/news"
	"github.com/iadityasingh7/news/internal/notice"
)

// pagedFetcher serves fixed pages per category and cursor.
type pagedFetcher struct {
	mu    sync.Mutex
	pages map[string]news.Page
	errs  map[string]error
	calls int
}

func (f *pagedFetcher) Fetch(_ context.Context, c news.Category, cursor string) (news.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	key := string(c) + "|" + cursor
	if err := f.errs[key]; err != nil {
		return news.Page{}, err
	}
	return f.pages[key], nil
}

func stories(prefix string, n int) []news.Article {
	out := make([]news.Article, n)
	for i := range out {
		u := "https://example.com/" + prefix + "/" + string(rune('a'+i))
		out[i] = news.Article{Title: prefix + " story " + string(rune('a'+i)), URL: u, Publisher: "Wire"}
	}
	return out
}

func newTestApp(t *testing.T, f *pagedFetcher) (*App, *feed.Engine) {
	t.Helper()
	likes := favorites.New(kv.NewMemory())
	engine := feed.New(f, likes)
	app := NewApp(context.Background(), RunOpts{
		Engine:            engine,
		Notices:           notice.NewQueue(4),
		NoticeTTL:         time.Second,
		PrefetchThreshold: 2,
	})
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return app, engine
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// load runs the engine call a loadCategoryCmd would run and feeds the result
// back into the app.
func load(t *testing.T, app *App, engine *feed.Engine, c news.Category) {
	t.Helper()
	_, err := engine.LoadCategory(context.Background(), c)
	app.Update(categoryLoadedMsg{category: c, err: err})
}

func TestAppInitialLoad(t *testing.T) {
	f := &pagedFetcher{pages: map[string]news.Page{
		"latest|": {Articles: stories("latest", 3)},
	}}
	app, engine := newTestApp(t, f)

	if cmd := app.Init(); cmd == nil {
		t.Fatal("expected init commands")
	}
	if !app.loading[news.Latest] {
		t.Fatal("expected latest marked in flight")
	}
	// A second request while the first is in flight is suppressed.
	if cmd := app.loadCategoryCmd(news.Latest, false); cmd != nil {
		t.Error("expected duplicate first-page load to be suppressed")
	}

	load(t, app, engine, news.Latest)
	if app.loading[news.Latest] {
		t.Error("expected in-flight flag cleared")
	}
	if len(app.visible()) != 3 {
		t.Errorf("expected 3 articles, got %d", len(app.visible()))
	}
	if !strings.Contains(app.View(), "latest story a") {
		t.Error("expected first article rendered")
	}
}

func TestAppCategorySwitchTriggersLoad(t *testing.T) {
	f := &pagedFetcher{pages: map[string]news.Page{
		"latest|": {Articles: stories("latest", 5)},
		"market|": {Articles: stories("market", 2)},
	}}
	app, engine := newTestApp(t, f)
	load(t, app, engine, news.Latest)
	app.cursor = 3

	app.Update(key("2"))
	if engine.Snapshot().Current != news.Market {
		t.Fatalf("expected market selected, got %s", engine.Snapshot().Current)
	}
	if app.cursor != 0 {
		t.Errorf("expected cursor reset on category switch, got %d", app.cursor)
	}

	var sel news.Category
	select {
	case sel = <-app.selected:
	default:
		t.Fatal("expected subscription to deliver the selection")
	}
	_, cmd := app.Update(categorySelectedMsg{category: sel})
	if cmd == nil || !app.loading[news.Market] {
		t.Fatal("expected market load to be dispatched")
	}
	load(t, app, engine, news.Market)
	if len(app.visible()) != 2 {
		t.Errorf("expected 2 market articles, got %d", len(app.visible()))
	}
}

func TestAppLikesTabDoesNotFetch(t *testing.T) {
	f := &pagedFetcher{}
	app, _ := newTestApp(t, f)

	app.Update(key("4"))
	app.Update(categorySelectedMsg{category: <-app.selected})
	if app.loading[news.Likes] {
		t.Error("likes must never be fetched")
	}
	if f.calls != 0 {
		t.Errorf("expected no fetches, got %d", f.calls)
	}
	if !strings.Contains(app.View(), "No liked articles yet") {
		t.Error("expected empty likes message")
	}
}

func TestAppToggleLike(t *testing.T) {
	f := &pagedFetcher{pages: map[string]news.Page{
		"latest|": {Articles: stories("latest", 3)},
	}}
	app, engine := newTestApp(t, f)
	load(t, app, engine, news.Latest)

	app.Update(key("j"))
	app.Update(key("l"))
	second := stories("latest", 3)[1]
	if !engine.Liked(second.URL) {
		t.Fatal("expected second article liked")
	}
	if !app.liked[second.URL] {
		t.Error("expected liked marker refreshed")
	}
	if app.notice == nil || app.notice.Message != "Added to likes" {
		t.Errorf("expected like notice, got %+v", app.notice)
	}

	app.Update(key(" "))
	if engine.Liked(second.URL) {
		t.Error("expected space to unlike")
	}
	if got := engine.Snapshot().Articles[news.Likes]; len(got) != 0 {
		t.Errorf("expected likes empty, got %d", len(got))
	}
}

func TestAppInfiniteScroll(t *testing.T) {
	f := &pagedFetcher{pages: map[string]news.Page{
		"latest|":   {Articles: stories("p1", 5), NextCursor: "c2"},
		"latest|c2": {Articles: stories("p2", 5)},
	}}
	app, engine := newTestApp(t, f)
	load(t, app, engine, news.Latest)

	// threshold 2 of 5 rows: moving to index 2 is near the end
	app.Update(key("j"))
	_, cmd := app.Update(key("j"))
	if cmd == nil {
		t.Fatal("expected load more near the end of the list")
	}

	err := engine.LoadMore(context.Background(), news.Latest)
	app.Update(moreLoadedMsg{category: news.Latest, err: err})
	if len(app.visible()) != 10 {
		t.Fatalf("expected 10 articles after append, got %d", len(app.visible()))
	}
	if app.snap.HasMore(news.Latest) {
		t.Error("expected pagination exhausted")
	}

	app.Update(key("G"))
	if app.cursor != 9 {
		t.Errorf("expected cursor at end, got %d", app.cursor)
	}
	if cmd := app.maybeLoadMore(); cmd != nil {
		t.Error("expected no load more without a cursor")
	}
}

func TestAppFilter(t *testing.T) {
	f := &pagedFetcher{pages: map[string]news.Page{
		"latest|": {Articles: []news.Article{
			{Title: "Bitcoin climbs", URL: "https://x/1"},
			{Title: "Stocks slide", URL: "https://x/2"},
		}},
	}}
	app, engine := newTestApp(t, f)
	load(t, app, engine, news.Latest)

	app.Update(key("/"))
	if app.mode != modeFilter {
		t.Fatal("expected filter mode")
	}
	for _, r := range "stock" {
		app.Update(key(string(r)))
	}
	if got := app.visible(); len(got) != 1 || got[0].URL != "https://x/2" {
		t.Errorf("unexpected filtered list %+v", got)
	}

	app.Update(key("esc"))
	if app.mode != modeNormal || len(app.visible()) != 2 {
		t.Error("expected esc to clear the filter")
	}
}

func TestAppOfflineIndicator(t *testing.T) {
	netErr := &news.NetworkError{
		Category: news.Latest,
		Err:      &url.Error{Op: "Get", URL: "https://api", Err: http.ErrHandlerTimeout},
	}
	f := &pagedFetcher{errs: map[string]error{"latest|": netErr}}
	app, engine := newTestApp(t, f)
	load(t, app, engine, news.Latest)

	if !app.offline {
		t.Fatal("expected offline after a transport failure")
	}
	if app.snap.Err == "" {
		t.Error("expected error in snapshot")
	}
	if !strings.Contains(app.View(), "offline") {
		t.Error("expected offline indicator in the status bar")
	}

	f.errs = nil
	f.pages = map[string]news.Page{"latest|": {Articles: stories("latest", 1)}}
	load(t, app, engine, news.Latest)
	if app.offline {
		t.Error("expected offline cleared after a successful load")
	}
}

func TestAppNoticeExpires(t *testing.T) {
	app, _ := newTestApp(t, &pagedFetcher{})

	_, cmd := app.Update(noticeMsg{notice: notice.New(notice.Warn, "Error while fetching news - No results found")})
	if cmd == nil || app.notice == nil {
		t.Fatal("expected notice shown with an expiry")
	}
	first := app.noticeSeq

	app.showNotice(notice.New(notice.Info, "newer"))
	app.Update(noticeExpiredMsg{seq: first})
	if app.notice == nil || app.notice.Message != "newer" {
		t.Error("stale expiry must not hide a newer notice")
	}
	app.Update(noticeExpiredMsg{seq: app.noticeSeq})
	if app.notice != nil {
		t.Error("expected notice dismissed")
	}
}

func TestAppHelpToggle(t *testing.T) {
	app, _ := newTestApp(t, &pagedFetcher{})
	app.Update(key("?"))
	if app.mode != modeHelp || !strings.Contains(app.View(), "keyboard shortcuts") {
		t.Fatal("expected help view")
	}
	app.Update(key("?"))
	if app.mode != modeNormal {
		t.Error("expected help closed")
	}
}

func TestAppQueuedSelectionLoadsCurrentCategory(t *testing.T) {
	f := &pagedFetcher{pages: map[string]news.Page{
		"latest|": {Articles: stories("latest", 2)},
		"market|": {Articles: stories("market", 2)},
		"crypto|": {Articles: stories("crypto", 2)},
	}}
	app, engine := newTestApp(t, f)

	// More switches than the selection queue holds; the last one is dropped.
	for _, k := range []string{"2", "3", "2", "3", "1"} {
		app.Update(key(k))
	}
	if len(app.selected) != cap(app.selected) {
		t.Fatalf("expected a full selection queue, got %d", len(app.selected))
	}
	if engine.Snapshot().Current != news.Latest {
		t.Fatalf("expected latest selected, got %s", engine.Snapshot().Current)
	}

	queued := <-app.selected
	if queued != news.Market {
		t.Fatalf("expected the oldest queued selection, got %s", queued)
	}
	_, cmd := app.Update(categorySelectedMsg{category: queued})
	if cmd == nil || !app.loading[news.Latest] {
		t.Fatal("expected the current category to be loaded")
	}
	if app.loading[news.Market] {
		t.Error("a stale selection must not load its own category")
	}
}
