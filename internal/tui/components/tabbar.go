package components

import (
	"strings"

	"github.com/theirongolddev/tripvault/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Pill is one choice in a toggle group.
type Pill struct {
	Label string
	Key   rune // shortcut shown after the label, 0 for none
}

func pillText(p Pill, active bool) string {
	if active || p.Key == 0 {
		return p.Label
	}
	return p.Label + "[" + string(p.Key) + "]"
}

// PillVisualWidth returns the rendered width of a pill including padding.
// Mouse hit-testing relies on it matching RenderPills.
func PillVisualWidth(p Pill, active bool) int {
	return lipgloss.Width(pillText(p, active)) + 2
}

// RenderPills renders a toggle group with the active pill highlighted.
// Pills are separated by a single column.
func RenderPills(pills []Pill, activeIdx int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.Background).
		Background(t.Accent).
		Bold(true).
		Padding(0, 1)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.SurfaceHover).
		Padding(0, 1)

	sep := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	parts := make([]string, len(pills))
	for i, p := range pills {
		if i == activeIdx {
			parts[i] = activeStyle.Render(pillText(p, true))
		} else {
			parts[i] = inactiveStyle.Render(pillText(p, false))
		}
	}
	return strings.Join(parts, sep)
}

// PillAt returns the index of the pill under column x of a RenderPills
// output starting at column 0, or -1.
func PillAt(pills []Pill, activeIdx, x int) int {
	pos := 0
	for i, p := range pills {
		w := PillVisualWidth(p, i == activeIdx)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1
	}
	return -1
}
