package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	emptyLikesText    = "No liked articles yet. Press l to save your favorites."
	emptyArticlesText = "No articles found"
	noMatchesText     = "No articles match the filter"
)

var asciiLogo = []string{
	`███╗   ██╗███████╗██╗    ██╗███████╗`,
	`████╗  ██║██╔════╝██║    ██║██╔════╝`,
	`██╔██╗ ██║█████╗  ██║ █╗ ██║███████╗`,
	`██║╚██╗██║██╔══╝  ██║███╗██║╚════██║`,
	`██║ ╚████║███████╗╚███╔███╔╝███████║`,
	`╚═╝  ╚═══╝╚══════╝ ╚══╝╚══╝ ╚══════╝`,
}

// renderSplash is shown before the first window size arrives or when the
// terminal is too small for the two panes.
func renderSplash(width, height int) string {
	logoStyle := lipgloss.NewStyle().Foreground(colorAccent)
	labelStyle := lipgloss.NewStyle().Foreground(colorText)

	var lines []string
	for _, l := range asciiLogo {
		lines = append(lines, logoStyle.Render(l))
	}
	lines = append(lines, "", labelStyle.Render("loading..."))

	content := strings.Join(lines, "\n")
	if width == 0 || height == 0 {
		return content
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// renderSkeleton draws placeholder rows while the first page is in flight.
func renderSkeleton(width, height int) string {
	if width < 10 {
		width = 10
	}
	rows := height / 3
	if rows < 1 {
		rows = 1
	}
	bar := func(w int) string { return strings.Repeat("░", w) }

	var b strings.Builder
	for i := 0; i < rows; i++ {
		w := width - 4 - (i%3)*4
		if w < 4 {
			w = 4
		}
		b.WriteString("  " + skeletonStyle.Render(bar(w)) + "\n")
		b.WriteString("  " + skeletonStyle.Render(bar(w/3)))
		if i < rows-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func lipglossCenter(s string, width, height int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + s
}
