// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"time"

	"github.com/theirongolddev/tripvault/internal/model"
	"github.com/theirongolddev/tripvault/internal/money"
)

// FormatPercent formats a whole-number share, e.g. 42 -> "42%".
func FormatPercent(pct int) string {
	return fmt.Sprintf("%d%%", pct)
}

// FormatKm formats a distance, e.g. 1240 -> "1,240 km".
func FormatKm(km float64) string {
	return money.FormatGrouped(km) + " km"
}

// FormatPeople formats a party size, e.g. 1 -> "1 person", 3 -> "3 people".
func FormatPeople(n float64) string {
	if n == 1 {
		return "1 person"
	}
	return money.FormatInput(n) + " people"
}

// FormatMode returns the display label of a share mode.
func FormatMode(m model.ShareMode) string {
	if m == model.ModePerPerson {
		return "per person"
	}
	return "group"
}

// FormatTime formats a timestamp in local time. The zero time is "-".
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// FormatAge formats how long ago t was, relative to now.
// e.g., 45s -> "just now", 5m -> "5m ago", 26h -> "1d ago"
func FormatAge(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// Truncate shortens s to limit runes, ending in an ellipsis when cut.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	return string(runes[:limit-1]) + "…"
}
