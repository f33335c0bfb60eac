package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/iadityasingh7/news/internal/browser"
	"github.com/iadityasingh7/news/internal/feed"
	"github.com/iadityasingh7/news/internal/news"
	"github.com/iadityasingh7/news/internal/newsdata"
	"github.com/iadityasingh7/news/internal/notice"
	"github.com/iadityasingh7/news/internal/update"
)

// Feed is the part of the engine the view drives.
type Feed interface {
	Snapshot() feed.State
	SelectCategory(c news.Category)
	LoadCategory(ctx context.Context, c news.Category) ([]news.Article, error)
	LoadMore(ctx context.Context, c news.Category) error
	Reload(ctx context.Context, c news.Category) ([]news.Article, error)
	ToggleLike(a news.Article) bool
	Liked(url string) bool
	Subscribe(fn func(news.Category)) (cancel func())
}

type focusPane int

const (
	focusList focusPane = iota
	focusPreview
)

type mode int

const (
	modeNormal mode = iota
	modeFilter
	modeHelp
)

type App struct {
	ctx     context.Context
	engine  Feed
	notices *notice.Queue
	logger  *log.Logger

	snap  feed.State
	liked map[string]bool

	cursor        int
	previewScroll int
	focus         focusPane
	mode          mode

	width  int
	height int

	filterInput textinput.Model
	spinner     spinner.Model

	// selected receives category changes from the engine subscription.
	selected    chan news.Category
	unsubscribe func()

	// loading guards against a second LoadCategory for a category whose
	// first page is still in flight.
	loading   map[news.Category]bool
	pending   int
	offline   bool
	notice    *notice.Notice
	noticeSeq int
	noticeTTL time.Duration
	threshold int

	version      string
	checkUpdates bool
	currentDate  string
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Engine            Feed
	Notices           *notice.Queue
	Logger            *log.Logger
	NoticeTTL         time.Duration
	PrefetchThreshold int
	Version           string
	CheckUpdates      bool
}

func NewApp(ctx context.Context, opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "Filter by title..."
	ti.Prompt = filterPromptStyle.Render("/ ")
	ti.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	ttl := opts.NoticeTTL
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	notices := opts.Notices
	if notices == nil {
		notices = notice.NewQueue(8)
	}

	a := &App{
		ctx:          ctx,
		engine:       opts.Engine,
		notices:      notices,
		logger:       logger,
		liked:        make(map[string]bool),
		filterInput:  ti,
		spinner:      sp,
		selected:     make(chan news.Category, 4),
		loading:      make(map[news.Category]bool),
		noticeTTL:    ttl,
		threshold:    opts.PrefetchThreshold,
		version:      opts.Version,
		checkUpdates: opts.CheckUpdates,
		currentDate:  time.Now().Format("Jan 2"),
	}
	a.unsubscribe = a.engine.Subscribe(func(c news.Category) {
		select {
		case a.selected <- c:
		default:
			// a selection is already queued; its handler loads whatever
			// category is current by then
		}
	})
	a.refresh()
	return a
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		waitForSelection(a.selected),
		waitForNotice(a.notices),
		a.loadCategoryCmd(a.snap.Current, false),
	}
	if a.checkUpdates {
		cmds = append(cmds, checkUpdateCmd(a.ctx, a.version))
	}
	return tea.Batch(cmds...)
}

func waitForSelection(ch <-chan news.Category) tea.Cmd {
	return func() tea.Msg {
		return categorySelectedMsg{category: <-ch}
	}
}

func waitForNotice(q *notice.Queue) tea.Cmd {
	return func() tea.Msg {
		return noticeMsg{notice: <-q.C()}
	}
}

func checkUpdateCmd(ctx context.Context, version string) tea.Cmd {
	return func() tea.Msg {
		res := update.Check(ctx, version)
		if res == nil {
			return nil
		}
		return updateAvailableMsg{result: res}
	}
}

// loadCategoryCmd fetches the first page of c unless it is not fetchable or
// already in flight. reload drops the cache first.
func (a *App) loadCategoryCmd(c news.Category, reload bool) tea.Cmd {
	if !c.Fetchable() || a.loading[c] {
		return nil
	}
	a.loading[c] = true
	a.pending++

	ctx, engine := a.ctx, a.engine
	load := func() tea.Msg {
		var err error
		if reload {
			_, err = engine.Reload(ctx, c)
		} else {
			_, err = engine.LoadCategory(ctx, c)
		}
		return categoryLoadedMsg{category: c, err: err}
	}
	return tea.Batch(load, a.spinner.Tick)
}

// loadMoreCmd asks the engine for the next page. The engine re-checks the
// preconditions atomically; the snapshot check here only avoids spawning
// commands that would be no-ops.
func (a *App) loadMoreCmd(c news.Category) tea.Cmd {
	if !a.snap.CanLoadMore(c) {
		return nil
	}
	a.pending++

	ctx, engine := a.ctx, a.engine
	load := func() tea.Msg {
		return moreLoadedMsg{category: c, err: engine.LoadMore(ctx, c)}
	}
	return tea.Batch(load, a.spinner.Tick)
}

func (a *App) done() {
	if a.pending > 0 {
		a.pending--
	}
}

func openArticleCmd(article news.Article) tea.Cmd {
	return func() tea.Msg {
		if err := browser.OpenArticle(article); err != nil {
			return openFailedMsg{err: err}
		}
		return nil
	}
}

// refresh pulls a fresh snapshot and recomputes liked markers for the
// current list.
func (a *App) refresh() {
	a.snap = a.engine.Snapshot()
	liked := make(map[string]bool)
	for _, art := range a.snap.CurrentArticles() {
		if _, seen := liked[art.URL]; !seen {
			liked[art.URL] = a.engine.Liked(art.URL)
		}
	}
	a.liked = liked
	a.clampCursor()
}

func (a *App) visible() []news.Article {
	return filterByTitle(a.snap.CurrentArticles(), a.filterInput.Value())
}

func (a *App) selectedArticle() *news.Article {
	list := a.visible()
	if a.cursor < 0 || a.cursor >= len(list) {
		return nil
	}
	art := list[a.cursor]
	return &art
}

func (a *App) clampCursor() {
	n := len(a.visible())
	if a.cursor >= n {
		a.cursor = max(0, n-1)
	}
}

// maybeLoadMore triggers the next page when the cursor nears the end of an
// unfiltered list.
func (a *App) maybeLoadMore() tea.Cmd {
	if a.filterInput.Value() != "" {
		return nil
	}
	list := a.snap.CurrentArticles()
	if !nearEnd(a.cursor, len(list), a.threshold) {
		return nil
	}
	return a.loadMoreCmd(a.snap.Current)
}

func (a *App) showNotice(n notice.Notice) tea.Cmd {
	a.noticeSeq++
	a.notice = &n
	seq := a.noticeSeq
	return tea.Tick(a.noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case categorySelectedMsg:
		a.cursor = 0
		a.previewScroll = 0
		a.refresh()
		if msg.category != a.snap.Current {
			a.logger.Debug("stale selection", "queued", msg.category, "current", a.snap.Current)
		}
		return a, tea.Batch(waitForSelection(a.selected), a.loadCategoryCmd(a.snap.Current, false))

	case categoryLoadedMsg:
		delete(a.loading, msg.category)
		a.done()
		a.offline = newsdata.IsTransport(msg.err)
		if msg.err != nil {
			a.logger.Debug("view saw load failure", "category", msg.category, "err", msg.err)
		}
		a.refresh()
		return a, a.maybeLoadMore()

	case moreLoadedMsg:
		a.done()
		a.offline = newsdata.IsTransport(msg.err)
		a.refresh()
		return a, nil

	case noticeMsg:
		return a, tea.Batch(waitForNotice(a.notices), a.showNotice(msg.notice))

	case noticeExpiredMsg:
		if msg.seq == a.noticeSeq {
			a.notice = nil
		}
		return a, nil

	case openFailedMsg:
		return a, a.showNotice(notice.New(notice.Warn, "Couldn't open article: "+msg.err.Error()))

	case updateAvailableMsg:
		return a, a.showNotice(notice.New(notice.Info, msg.result.Message()))

	case spinner.TickMsg:
		if a.pending > 0 {
			a.refresh()
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) selectCategory(c news.Category) (tea.Model, tea.Cmd) {
	if a.mode == modeFilter {
		a.filterInput.Blur()
		a.mode = modeNormal
	}
	a.filterInput.SetValue("")
	a.engine.SelectCategory(c)
	a.cursor = 0
	a.previewScroll = 0
	a.refresh()
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, a.quit()
	}

	switch a.mode {
	case modeFilter:
		return a.handleFilterKey(msg)
	case modeHelp:
		if msg.String() == "?" || msg.String() == "esc" || msg.String() == "q" {
			a.mode = modeNormal
		}
		return a, nil
	}

	key := msg.String()
	if c, ok := categoryByKey(key); ok {
		return a.selectCategory(c)
	}

	switch key {
	case "q":
		return a, a.quit()
	case "tab":
		return a.selectCategory(nextCategory(a.snap.Current, 1))
	case "shift+tab":
		return a.selectCategory(nextCategory(a.snap.Current, -1))
	case "j", "down":
		if a.focus == focusList && a.cursor < len(a.visible())-1 {
			a.cursor++
			a.previewScroll = 0
			return a, a.maybeLoadMore()
		} else if a.focus == focusPreview {
			a.previewScroll++
		}
		return a, nil
	case "k", "up":
		if a.focus == focusList && a.cursor > 0 {
			a.cursor--
			a.previewScroll = 0
		} else if a.focus == focusPreview && a.previewScroll > 0 {
			a.previewScroll--
		}
		return a, nil
	case "G", "end":
		if n := len(a.visible()); n > 0 {
			a.cursor = n - 1
			a.previewScroll = 0
		}
		return a, a.maybeLoadMore()
	case "g", "home":
		a.cursor = 0
		a.previewScroll = 0
		return a, nil
	case "h", "left", "right":
		if a.focus == focusList {
			a.focus = focusPreview
		} else {
			a.focus = focusList
		}
		return a, nil
	case "l", " ":
		if art := a.selectedArticle(); art != nil {
			liked := a.engine.ToggleLike(*art)
			a.refresh()
			text := "Removed from likes"
			if liked {
				text = "Added to likes"
			}
			return a, a.showNotice(notice.New(notice.Info, text))
		}
		return a, nil
	case "o", "enter":
		if art := a.selectedArticle(); art != nil {
			return a, openArticleCmd(*art)
		}
		return a, nil
	case "R":
		return a, a.loadCategoryCmd(a.snap.Current, true)
	case "/":
		a.mode = modeFilter
		a.filterInput.Focus()
		return a, textinput.Blink
	case "esc":
		if a.filterInput.Value() != "" {
			a.filterInput.SetValue("")
			a.cursor = 0
		}
		return a, nil
	case "?":
		a.mode = modeHelp
		return a, nil
	}

	return a, nil
}

func (a *App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.filterInput.SetValue("")
		a.filterInput.Blur()
		a.cursor = 0
		return a, nil
	case "enter":
		a.mode = modeNormal
		a.filterInput.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.filterInput, cmd = a.filterInput.Update(msg)
	a.cursor = 0
	return a, cmd
}

func (a *App) quit() tea.Cmd {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	return tea.Quit
}

func (a *App) status() statusInfo {
	s := statusInfo{
		count:   len(a.visible()),
		label:   a.snap.Current.Title(),
		hasMore: a.snap.HasMore(a.snap.Current),
		filter:  a.filterInput.Value(),
		offline: a.offline,
		err:     a.snap.Err,
		notice:  a.notice,
		hints:   "tab category  l like  o open  / filter  ? help  q quit",
	}
	if a.snap.Loading || a.snap.LoadingMore {
		s.busy = a.spinner.View()
	}
	if a.mode == modeFilter {
		s.hints = "esc clear  enter keep"
	}
	return s
}

func (a *App) listContent(width, height int) string {
	articles := a.visible()
	if len(articles) == 0 {
		switch {
		case a.snap.Loading:
			return renderSkeleton(width, height)
		case a.filterInput.Value() != "":
			return lipglossCenter(noMatchesText, width, height)
		case a.snap.Current == news.Likes:
			return lipglossCenter(emptyLikesText, width, height)
		default:
			return lipglossCenter(emptyArticlesText, width, height)
		}
	}

	footer := ""
	if a.snap.LoadingMore {
		footer = a.spinner.View() + " " + itemTimeStyle.Render("loading more...")
	}
	return renderList(articles, a.liked, a.cursor, height, width, footer)
}

func (a *App) View() string {
	if a.width == 0 {
		return renderSplash(0, 0)
	}

	if a.mode == modeHelp {
		return a.renderHelp()
	}

	headerHeight := 1
	tabsHeight := 1
	statusHeight := 1
	contentHeight := a.height - headerHeight - tabsHeight - statusHeight - 2 // borders

	if contentHeight < 3 {
		return renderSplash(a.width, a.height)
	}

	listWidth := int(float64(a.width) * 0.4)
	previewWidth := a.width - listWidth

	headerLeft := headerStyle.Render("news")
	headerRight := headerDateStyle.Render(a.currentDate)
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	tabs := renderTabs(a.snap.Current, len(a.snap.Articles[news.Likes]), a.width)
	if a.mode == modeFilter {
		tabs = a.filterInput.View()
	}

	innerListW := listWidth - 4
	listContent := a.listContent(innerListW, contentHeight)
	listStyle := listPaneStyle
	if a.focus == focusList {
		listStyle = listPaneActiveStyle
	}
	listPane := listStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)

	selected := a.selectedArticle()
	liked := selected != nil && a.liked[selected.URL]
	previewContent := renderPreview(selected, liked, previewWidth-4, contentHeight, a.previewScroll)
	previewStyle := previewPaneStyle
	if a.focus == focusPreview {
		previewStyle = previewPaneActiveStyle
	}
	previewPane := previewStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)

	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)
	status := renderStatusBar(a.status(), a.width)

	return lipgloss.JoinVertical(lipgloss.Left, header, tabs, content, status)
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("news")
	dim := helpDimStyle

	help := title + dim.Render(" keyboard shortcuts") + "\n\n" +
		dim.Render("Categories") + "\n" +
		"  tab, shift+tab  Next / previous category\n" +
		"  1-4             Latest, Market, Crypto, Likes\n" +
		"  R               Reload the current category\n\n" +
		dim.Render("Navigation") + "\n" +
		"  j/k, ↑/↓        Move through the list\n" +
		"  g/G             First / last article\n" +
		"  h, ←/→          Switch focus between list and preview\n\n" +
		dim.Render("Actions") + "\n" +
		"  l, space        Like or unlike the article\n" +
		"  o, enter        Open article in browser\n" +
		"  /               Filter loaded articles by title\n\n" +
		dim.Render("General") + "\n" +
		"  ?               Toggle this help\n" +
		"  q, ctrl+c       Quit"

	card := helpCardStyle.Render(help)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI application.
func Run(ctx context.Context, opts RunOpts) error {
	app := NewApp(ctx, opts)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if app.unsubscribe != nil {
		app.unsubscribe()
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
