package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/iadityasingh7/news/internal/news"
)

// nextCategory cycles through the tab order; step is +1 or -1.
func nextCategory(current news.Category, step int) news.Category {
	all := news.AllCategories
	idx := 0
	for i, c := range all {
		if c == current {
			idx = i
			break
		}
	}
	idx = (idx + step + len(all)) % len(all)
	return all[idx]
}

// categoryByKey maps the number keys 1-4 to tabs.
func categoryByKey(key string) (news.Category, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return "", false
	}
	idx := int(key[0] - '1')
	if idx >= len(news.AllCategories) {
		return "", false
	}
	return news.AllCategories[idx], true
}

func renderTabs(current news.Category, likes int, width int) string {
	sep := tabSeparatorStyle.Render(" · ")

	var row string
	for i, c := range news.AllCategories {
		label := fmt.Sprintf("%d %s", i+1, c.Title())
		if c == news.Likes && likes > 0 {
			label += fmt.Sprintf(" (%d)", likes)
		}
		style := tabInactiveStyle
		if c == current {
			style = tabActiveStyle
		}

		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += style.Render(label)
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	barStyle := lipgloss.NewStyle().
		Background(colorSurface).
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}
