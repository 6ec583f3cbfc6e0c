package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/theirongolddev/tripvault/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22, false)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22, true)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}

	for i, line := range lines {
		if i >= shortLines && !strings.Contains(line, "\x1b[") {
			t.Errorf("line %d has no ANSI codes, padding would render unstyled", i)
		}
	}
}

func TestCardRowWidthConsistency(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "A", 30, false)
	tallCard := ContentCard("Tall", "A\nB\nC\nD\nE\nF", 20, false)

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")

	want := lipgloss.Width(lines[0])
	for i, line := range lines {
		if w := lipgloss.Width(line); w != want {
			t.Errorf("line %d width = %d, want %d", i, w, want)
		}
	}
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, tc := range []struct{ total, n int }{{80, 3}, {121, 4}, {10, 1}, {7, 3}} {
		sum := 0
		for _, w := range LayoutRow(tc.total, tc.n) {
			sum += w
		}
		if sum != tc.total {
			t.Fatalf("LayoutRow(%d, %d) sums to %d", tc.total, tc.n, sum)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow with n=0 should be nil")
	}
}

func TestFormatAmountShort(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{950, "950"},
		{2000, "2k"},
		{2500, "2.5k"},
		{150000, "1.5L"},
		{20000000, "2Cr"},
	}
	for _, tc := range tests {
		if got := FormatAmountShort(tc.in); got != tc.want {
			t.Fatalf("FormatAmountShort(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPillAtMatchesWidths(t *testing.T) {
	pills := []Pill{{Label: "Budget", Key: '1'}, {Label: "Standard", Key: '2'}, {Label: "Luxury", Key: '3'}}
	for active := range pills {
		pos := 0
		for i, p := range pills {
			w := PillVisualWidth(p, i == active)
			if got := PillAt(pills, active, pos+w/2); got != i {
				t.Fatalf("active=%d x=%d -> pill %d, want %d", active, pos+w/2, got, i)
			}
			pos += w
			if got := PillAt(pills, active, pos); got != -1 {
				t.Fatalf("active=%d separator x=%d -> pill %d, want -1", active, pos, got)
			}
			pos++
		}
	}
	rendered := RenderPills(pills, 1)
	want := 0
	for i, p := range pills {
		want += PillVisualWidth(p, i == 1)
	}
	want += len(pills) - 1
	if got := lipgloss.Width(rendered); got != want {
		t.Fatalf("rendered width = %d, want %d", got, want)
	}
}
