package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/tripvault/internal/model"
	"github.com/theirongolddev/tripvault/internal/planner"
	"github.com/theirongolddev/tripvault/internal/tui/components"
	"github.com/theirongolddev/tripvault/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// tierRow is the screen row of the tier pills; tierLabel precedes them.
const (
	tierRow   = 1
	tierLabel = " Tier "
)

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.form != nil {
		return a.viewForm()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  tripvault needs at least %d columns.\n",
		a.width, minTerminalWidth)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3).
		Render(lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Render(a.spinner.View()) +
			lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(" Loading plan..."))
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewForm() string {
	t := theme.Active
	body := a.form.View()
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Top, body,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.KeyHint).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Days", []struct{ key, desc string }{
			{"j k", "Select day"},
			{"J K", "Move day down / up"},
			{"a A", "Add day / copy last day"},
			{"d x", "Duplicate / remove day"},
			{"Enter", "Collapse / expand"},
			{"e", "Edit day"},
			{"n", "Add expense line"},
			{"c", "Toggle cab / self-drive"},
		}},
		{"Trip", []struct{ key, desc string }{
			{"s", "Trip setup"},
			{"1 2 3 t", "Pick / cycle tier"},
			{"+ -", "People"},
			{"v m", "Cycle vehicle / default split"},
			{"R", "Reset planner"},
		}},
		{"Share", []struct{ key, desc string }{
			{"l", "Share link"},
			{"^s S", "Save / save as new"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := a.viewHeader(w)
	statusBar := a.viewStatusBar(w)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	top := a.viewSummary(cw)
	daysH := contentH - lipgloss.Height(top)
	content := top + "\n" + a.viewDays(cw, daysH)

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// viewHeader renders the title row and the tier row at tierRow.
func (a App) viewHeader(w int) string {
	t := theme.Active
	row := lipgloss.NewStyle().Background(t.Surface).Width(w)
	logo := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	name := a.it.Trip.Name
	if name == "" {
		name = "Untitled trip"
	}
	route := ""
	if a.it.Trip.StartCity != "" || a.it.Trip.EndCity != "" {
		route = muted.Render("  " + a.it.Trip.StartCity + " → " + a.it.Trip.EndCity)
	}
	title := logo.Render(" ◈ tripvault") + muted.Render(" · ") + accent.Render(name) + route

	split := "Group split"
	if a.it.Trip.Mode() == model.ModePerPerson {
		split = "Per-person split"
	}
	tiers := muted.Render(tierLabel) +
		components.RenderPills(tierPills(), a.activeTier()) +
		muted.Render(fmt.Sprintf("   %s · %s · %s", a.headline.People, split, vehicleLabel(a.it.Trip.Vehicle)))

	return row.Render(title) + "\n" + row.Render(tiers)
}

func vehicleLabel(v model.Vehicle) string {
	if v == "" {
		return "Car"
	}
	return strings.ToUpper(string(v[:1])) + string(v[1:])
}

// viewSummary renders the animated headline cards, category bars and the
// per-day chart.
func (a App) viewSummary(cw int) string {
	hl := a.headline
	days := hl.Days
	if hl.AutoDays > 0 {
		days = fmt.Sprintf("%s · dates: %d days, %d nights", hl.Days, hl.AutoDays, hl.AutoNights)
	}
	metrics := []components.Metric{
		{Label: hl.Total.Label, Value: a.renderer.Money(a.tweenValue(hl.Total.ID, hl.Total.To)), Caption: hl.Tier},
		{Label: hl.PerPerson.Label, Value: a.renderer.Money(a.tweenValue(hl.PerPerson.ID, hl.PerPerson.To)), Caption: hl.People},
		{Label: hl.DailyAvg.Label, Value: a.renderer.Money(a.tweenValue(hl.DailyAvg.ID, hl.DailyAvg.To)), Caption: days},
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Where the money goes", a.viewCategories(components.CardInnerWidth(halves[0])), halves[0], false),
		components.ContentCard("Per day", a.viewDayChart(components.CardInnerWidth(halves[1])), halves[1], false),
	}))
	return b.String()
}

// tweenValue returns the value shown now for an animated metric.
func (a App) tweenValue(id string, fallback float64) float64 {
	tw, ok := a.tweens[id]
	if !ok {
		return fallback
	}
	return tw.At(a.now)
}

func (a App) viewCategories(innerW int) string {
	t := theme.Active
	labelW := 10
	amountW := 14
	barW := max(4, innerW-labelW-amountW-8)

	lines := make([]string, len(a.categories))
	for i, c := range a.categories {
		lines[i] = components.ShareBar(c.Amount.Label, c.Amount.Text, c.Pct, t.Category(c.Key), labelW, barW)
	}
	return strings.Join(lines, "\n")
}

func (a App) viewDayChart(innerW int) string {
	t := theme.Active
	values := make([]float64, len(a.res.Days))
	labels := make([]string, len(a.res.Days))
	for i, d := range a.res.Days {
		values[i] = d.DayTotal * a.res.Multiplier
		labels[i] = fmt.Sprintf("D%d", i+1)
	}
	return components.BarChart(values, labels, t.Trend, innerW, 5)
}

// viewDays renders as many day cards as fit in height, scrolled so the
// selected day is visible.
func (a App) viewDays(cw, height int) string {
	cards := make([]string, 0, len(a.it.Days)+1)
	for i := range a.it.Days {
		cards = append(cards, a.viewDayCard(i, cw))
	}
	if len(a.it.GlobalCustom) > 0 {
		cards = append(cards, a.viewGlobalCard(cw))
	}

	start := 0
	used := 0
	for i := a.cursor; i >= 0 && i < len(cards); i-- {
		used += lipgloss.Height(cards[i])
		if used > height && i < a.cursor {
			break
		}
		start = i
	}
	return strings.Join(cards[start:], "\n")
}

func (a App) viewDayCard(i, cw int) string {
	t := theme.Active
	d := a.it.Days[i]
	focused := i == a.cursor

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	pill := lipgloss.NewStyle().Foreground(t.KeyHint).Background(t.SurfaceHover).Padding(0, 1)
	total := lipgloss.NewStyle().Foreground(t.Total).Background(t.Surface).Bold(true)

	var dayTotal, fuel float64
	if i < len(a.res.Days) {
		dayTotal = a.res.Days[i].DayTotal * a.res.Multiplier
		fuel = a.res.Days[i].Fuel * a.res.Multiplier
	}

	marker := "▸"
	if !d.Collapsed {
		marker = "▾"
	}
	title := fmt.Sprintf("%s Day %d · %s", marker, i+1, d.Title)

	var b strings.Builder
	if d.Locations != "" {
		b.WriteString(value.Render(d.Locations) + "\n")
	}
	if d.Collapsed {
		b.WriteString(total.Render("Day total: " + a.renderer.Money(dayTotal)))
		return components.ContentCard(title, b.String(), cw, focused)
	}

	if d.TransportMode == model.TransportCab {
		b.WriteString(muted.Render("Cab ") + value.Render(a.renderer.Money(float64(d.CabCost))))
	} else {
		b.WriteString(muted.Render(fmt.Sprintf("%s km ", num(d.Distance))) + pill.Render(a.renderer.FuelPill(a.it.Trip, fuel)))
	}
	b.WriteString("\n")

	stay := d.Stay.Name
	if stay == "" {
		stay = "-"
	}
	b.WriteString(muted.Render("Stay ") + value.Render(stay) + muted.Render(" · ") + value.Render(a.renderer.Money(float64(d.Stay.Cost))))
	b.WriteString("\n")

	meals := make([]string, len(model.FoodSlots))
	for j, slot := range model.FoodSlots {
		fs := d.Food.Slot(slot)
		meals[j] = fmt.Sprintf("%s %s%s", slot, a.renderer.Money(float64(fs.Amount)), modeSuffix(fs.Mode))
	}
	b.WriteString(muted.Render("Food ") + value.Render(strings.Join(meals, " · ")))
	b.WriteString("\n")

	for _, group := range []struct {
		label string
		items []model.LineItem
	}{{"Activities", d.Activities}, {"Custom", d.CustomExpenses}} {
		if len(group.items) == 0 {
			continue
		}
		b.WriteString(muted.Render(group.label+" ") + value.Render(a.lineSummary(group.items)))
		b.WriteString("\n")
	}
	if m := d.Misc.Sum(); m > 0 {
		b.WriteString(muted.Render("Misc ") + value.Render(a.renderer.Money(m)) + "\n")
	}
	if d.ImportantPlans != "" {
		b.WriteString(muted.Render("Plans ") + value.Render(d.ImportantPlans) + "\n")
	}
	b.WriteString(total.Render("Day total: " + a.renderer.Money(dayTotal)))

	return components.ContentCard(title, b.String(), cw, focused)
}

func (a App) viewGlobalCard(cw int) string {
	t := theme.Active
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	total := lipgloss.NewStyle().Foreground(t.Total).Background(t.Surface).Bold(true)
	body := value.Render(a.lineSummary(a.it.GlobalCustom)) + "\n" +
		total.Render("Trip-wide: "+a.renderer.Money(a.res.GlobalCustom))
	return components.ContentCard("Trip-wide expenses", body, cw, false)
}

func (a App) lineSummary(items []model.LineItem) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s %s%s", it.Name, a.renderer.Money(float64(it.Cost)), modeSuffix(it.Mode))
	}
	return strings.Join(parts, " · ")
}

func modeSuffix(m model.ShareMode) string {
	if m == model.ModePerPerson {
		return "/pp"
	}
	return ""
}

func (a App) viewStatusBar(w int) string {
	text := ""
	level := components.NoticeInfo
	if n := a.notice; n != nil {
		text = n.Text
		if n.Link != "" {
			text += " " + n.Link
		}
		switch n.Kind {
		case planner.NoticeSuccess:
			level = components.NoticeSuccess
		case planner.NoticeError:
			level = components.NoticeError
		}
	}
	right := fmt.Sprintf("render #%d", a.seq)
	if a.saving {
		right = a.spinner.View() + " saving · " + right
	}
	return components.RenderStatusBar(w, text, level, right)
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
