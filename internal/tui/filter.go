package tui

import (
	"strings"

	"github.com/iadityasingh7/news/internal/news"
)

// filterByTitle keeps the articles whose title contains query, ignoring case.
// An empty query returns the list unchanged.
func filterByTitle(articles []news.Article, query string) []news.Article {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return articles
	}
	var out []news.Article
	for _, a := range articles {
		if strings.Contains(strings.ToLower(a.Title), q) {
			out = append(out, a)
		}
	}
	return out
}

// nearEnd reports whether cursor is within threshold rows of the last of n
// items.
func nearEnd(cursor, n, threshold int) bool {
	if n == 0 {
		return false
	}
	return cursor >= n-1-threshold
}
