package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iadityasingh7/news/internal/news"
)

func renderPreview(article *news.Article, liked bool, width, height, scroll int) string {
	if article == nil {
		return lipglossCenter("Select an article", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	titleText := article.Title
	if liked {
		titleText = heart + " " + titleText
	}
	title := previewTitleStyle.Width(contentWidth).Render(titleText)

	meta := article.Publisher
	if t := article.Published(); !t.IsZero() {
		meta = fmt.Sprintf("%s · %s", meta, t.Format("Jan 2, 2006"))
	}
	source := previewSourceStyle.Render(meta)

	image := "(no image)"
	if article.HasThumbnail() {
		image = "image: " + article.ThumbnailURL
	}
	thumb := itemTimeStyle.Width(contentWidth).Render(image)

	desc := article.Snippet
	if desc == "" {
		desc = "(No description available)"
	}
	body := previewBodyStyle.Width(contentWidth).Render(wrapText(desc, contentWidth))

	linkText := "(no link)"
	if article.HasLink() {
		linkText = "Read more: " + article.URL
	}
	link := previewLinkStyle.Width(contentWidth).Render(linkText)

	content := lipgloss.JoinVertical(lipgloss.Left, title, source, thumb, "", body, "", link)

	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len([]rune(line))+1+len([]rune(w)) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
