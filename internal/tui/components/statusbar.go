package components

import (
	"strings"

	"github.com/theirongolddev/tripvault/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// NoticeLevel colors the status bar message.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeSuccess
	NoticeError
)

// RenderStatusBar renders the bottom bar: key hints on the left, the
// latest notice and the render sequence on the right.
func RenderStatusBar(width int, notice string, level NoticeLevel, right string) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	noticeStyle := lipgloss.NewStyle().Background(t.Surface).Bold(true)
	switch level {
	case NoticeSuccess:
		noticeStyle = noticeStyle.Foreground(t.Total)
	case NoticeError:
		noticeStyle = noticeStyle.Foreground(t.Error)
	default:
		noticeStyle = noticeStyle.Foreground(t.Accent)
	}

	left := base.Render(" [?]help  [q]uit")
	if notice != "" {
		left += base.Render("  ") + noticeStyle.Render(notice)
	}
	rightStr := base.Render(right + " ")

	padding := width - lipgloss.Width(left) - lipgloss.Width(rightStr)
	if padding < 0 {
		padding = 0
	}
	return left + base.Render(strings.Repeat(" ", padding)) + rightStr
}
