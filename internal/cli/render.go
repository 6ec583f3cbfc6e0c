package cli

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/tripvault/internal/model"
	"github.com/theirongolddev/tripvault/internal/money"
	"github.com/theirongolddev/tripvault/internal/pipeline"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	totalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorGreen)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// Separator is a row value that renders as a horizontal rule.
const Separator = "---"

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// pad pads s to w display columns. Widths count runes as columns so the
// currency sign lines up.
func pad(s string, w int, right bool) string {
	gap := w - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

func rule(left, mid, right string, widths []int) string {
	var b strings.Builder
	b.WriteString(dimStyle.Render(left))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < len(widths)-1 {
			b.WriteString(dimStyle.Render(mid))
		}
	}
	b.WriteString(dimStyle.Render(right))
	b.WriteString("\n")
	return b.String()
}

// RenderTable renders a bordered table. The first column is left-aligned,
// the rest right-aligned. A row of just Separator draws a rule; the last
// row is bold when its first cell is "Total".
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			widths[i] = max(widths[i], lipgloss.Width(h))
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols {
					widths[i] = max(widths[i], lipgloss.Width(cell))
				}
			}
		}
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	b.WriteString(rule("╭", "┬", "╮", widths))

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(" " + pad(h, widths[i], i > 0) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
		b.WriteString(rule("├", "┼", "┤", widths))
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == Separator {
			b.WriteString(rule("├", "┼", "┤", widths))
			continue
		}
		style := valueStyle
		if len(row) > 0 && row[0] == "Total" {
			style = totalStyle
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(style.Render(" " + pad(cell, widths[i], i > 0) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	b.WriteString(rule("╰", "┴", "╯", widths))
	return b.String()
}

// RenderSparkline generates a unicode block sparkline from a series of values.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		peak = max(peak, v)
	}
	if peak <= 0 {
		peak = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		b.WriteRune(blocks[max(0, min(idx, len(blocks)-1))])
	}
	return b.String()
}

// RenderHorizontalBar renders one share bar: label, bar and percentage.
func RenderHorizontalBar(label string, pct int, labelW, maxWidth int) string {
	barLen := min(max(pct*maxWidth/100, 0), maxWidth)
	return fmt.Sprintf("  %s %s%s %s",
		mutedStyle.Render(pad(label, labelW, false)),
		valueStyle.Render(strings.Repeat("█", barLen)),
		dimStyle.Render(strings.Repeat("░", maxWidth-barLen)),
		FormatPercent(pct))
}

// SummaryTable lays out the headline totals and the category split.
func SummaryTable(it model.Itinerary, res pipeline.Result, symbol string) Table {
	cur := func(v float64) string { return money.FormatCurrency(symbol, v) }

	rows := [][]string{
		{"People", FormatPeople(res.People)},
		{"Days", fmt.Sprintf("%d", res.DayCount)},
		{"Tier", fmt.Sprintf("%s (x%s)", it.Trip.Tier, money.FormatInput(res.Multiplier))},
		{Separator},
	}
	for i, key := range pipeline.CategoryKeys {
		rows = append(rows, []string{
			pipeline.CategoryLabels[i],
			fmt.Sprintf("%s  %4s", cur(res.Categories.Get(key)), FormatPercent(res.Pct.Get(key))),
		})
	}
	rows = append(rows,
		[]string{"Trip-wide", cur(res.GlobalCustom)},
		[]string{Separator},
		[]string{"Per person", cur(res.PerPerson)},
		[]string{"Daily average", cur(res.DailyAvg)},
		[]string{"Total", cur(res.TripTotal)},
	)
	return Table{Headers: []string{"Metric", "Value"}, Rows: rows}
}

// DaysTable lists each day with its tier-adjusted category totals.
func DaysTable(it model.Itinerary, res pipeline.Result, symbol string) Table {
	cur := func(v float64) string { return money.FormatCurrency(symbol, v) }

	headers := append([]string{"Day"}, pipeline.CategoryLabels...)
	headers = append(headers, "Total")

	rows := make([][]string, 0, len(it.Days)+2)
	for i, d := range it.Days {
		if i >= len(res.Days) {
			break
		}
		adj := res.Days[i].Categories.Scale(res.Multiplier)
		row := []string{fmt.Sprintf("%d. %s", i+1, Truncate(d.Title, 24))}
		for _, v := range adj.Values() {
			row = append(row, cur(v))
		}
		rows = append(rows, append(row, cur(res.Days[i].DayTotal*res.Multiplier)))
	}

	total := []string{"Total"}
	for _, v := range res.Categories.Values() {
		total = append(total, cur(v))
	}
	rows = append(rows, []string{Separator}, append(total, cur(res.DaysTotal)))

	return Table{Headers: headers, Rows: rows}
}
