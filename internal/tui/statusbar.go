package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/iadityasingh7/news/internal/notice"
)

type statusInfo struct {
	count   int
	label   string
	hasMore bool
	filter  string
	busy    string // spinner frame, "" when idle
	offline bool
	err     string
	notice  *notice.Notice
	hints   string
}

func noticeStyle(l notice.Level) lipgloss.Style {
	switch l {
	case notice.Error:
		return noticeErrorStyle
	case notice.Warn:
		return noticeWarnStyle
	default:
		return noticeInfoStyle
	}
}

func renderStatusBar(s statusInfo, width int) string {
	left := ""
	if s.offline {
		left += offlineStyle.Render("offline") + " "
	}
	if s.busy != "" {
		left += s.busy + " "
	}
	left += fmt.Sprintf("%d articles · %s", s.count, s.label)
	if s.hasMore {
		left += " · more"
	}
	if s.filter != "" {
		left += fmt.Sprintf(" · %q", s.filter)
	}

	switch {
	case s.err != "":
		left += "  " + noticeErrorStyle.Render(s.err)
	case s.notice != nil:
		left += "  " + noticeStyle(s.notice.Level).Render(s.notice.Message)
	}

	right := " " + s.hints + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 0 {
		gap = 0
		right = ""
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right
	return statusBarStyle.Width(width).Render(bar)
}
