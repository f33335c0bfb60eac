package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/iadityasingh7/news/internal/news"
)

const heart = "♥"

func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

func renderListItem(a news.Article, selected, liked bool, width int) string {
	if width < 10 {
		width = 30
	}

	var title string
	if selected {
		title = itemSelectedStyle.Render("> " + truncateStr(a.Title, width-4))
	} else {
		title = itemTitleStyle.Render("  " + truncateStr(a.Title, width-4))
	}

	meta := "  "
	if liked {
		meta += likedStyle.Render(heart) + " "
	}
	meta += itemSourceStyle.Render(a.Publisher)
	if ago := relativeTime(a.Published()); ago != "" {
		meta += " " + itemTimeStyle.Render("· "+ago)
	}

	return title + "\n" + meta
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// visibleRange returns the window [start, end) of items that keeps cursor on
// screen when each item takes itemHeight lines.
func visibleRange(cursor, n, height, itemHeight int) (int, int) {
	visible := height / itemHeight
	if visible < 1 {
		visible = 1
	}
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > n {
		end = n
		start = end - visible
		if start < 0 {
			start = 0
		}
	}
	return start, end
}

// renderList draws the article list. footer, when set, is appended below the
// last item (the "loading more" row).
func renderList(articles []news.Article, liked map[string]bool, cursor, height, width int, footer string) string {
	rows := height
	if footer != "" {
		rows -= 2
	}
	// Each item is 2 lines + 1 blank line
	start, end := visibleRange(cursor, len(articles), rows, 3)

	var b strings.Builder
	for i := start; i < end; i++ {
		a := articles[i]
		b.WriteString(renderListItem(a, i == cursor, liked[a.URL], width))
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}
	if footer != "" {
		b.WriteString("\n\n  " + footer)
	}
	return b.String()
}
