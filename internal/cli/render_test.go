package cli

import (
	"strings"
	"testing"

	"github.com/theirongolddev/tripvault/internal/model"
	"github.com/theirongolddev/tripvault/internal/money"
	"github.com/theirongolddev/tripvault/internal/pipeline"

	"github.com/charmbracelet/lipgloss"
)

func testItinerary() model.Itinerary {
	ids := &model.SequenceSource{}
	it := model.NewItinerary(model.DefaultTripSetup(), ids)
	it.Days[0].Title = "Arrive"
	it.Days[0].Stay.Cost = 2000
	it.Days[0].TransportMode = model.TransportCab
	it.Days[0].CabCost = 1500
	it.Days = append(it.Days, model.NewDay(2, model.ModeGroup, ids))
	it.Days[1].Stay.Cost = 1000
	it.GlobalCustom = append(it.GlobalCustom, model.LineItem{ID: "g1", Name: "Insurance", Cost: 500})
	return it
}

func TestRenderTableAlignsColumns(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Day", "Total"},
		Rows: [][]string{
			{"Arrive", money.FormatCurrency("₹", 1500)},
			{Separator},
			{"Total", money.FormatCurrency("₹", 125000)},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	w := lipgloss.Width(lines[0])
	for i, l := range lines {
		if lipgloss.Width(l) != w {
			t.Fatalf("line %d width %d, want %d:\n%s", i, lipgloss.Width(l), w, out)
		}
	}
	if !strings.Contains(out, "₹1,25,000") {
		t.Fatalf("missing grouped total:\n%s", out)
	}
}

func TestRenderTableEmpty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Fatalf("empty table rendered %q", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline(nil); got != "" {
		t.Fatalf("nil values = %q", got)
	}
	got := []rune(RenderSparkline([]float64{0, 50, 100}))
	if len(got) != 3 || got[0] != '▁' || got[2] != '█' {
		t.Fatalf("sparkline = %q", string(got))
	}
}

func TestRenderHorizontalBar(t *testing.T) {
	out := RenderHorizontalBar("Stay", 50, 10, 20)
	if !strings.Contains(out, "Stay") || !strings.HasSuffix(out, "50%") {
		t.Fatalf("bar = %q", out)
	}
	if n := strings.Count(out, "█"); n != 10 {
		t.Fatalf("filled cells = %d, want 10", n)
	}
	over := RenderHorizontalBar("Food", 140, 10, 20)
	if strings.Contains(over, "░") {
		t.Fatalf("overfull bar should be solid: %q", over)
	}
}

func TestSummaryTable(t *testing.T) {
	it := testItinerary()
	res := pipeline.Aggregate(it)
	tbl := SummaryTable(it, res, "₹")

	last := tbl.Rows[len(tbl.Rows)-1]
	if last[0] != "Total" || last[1] != money.FormatCurrency("₹", res.TripTotal) {
		t.Fatalf("last row = %v, want total %v", last, res.TripTotal)
	}
	var found bool
	for _, r := range tbl.Rows {
		if r[0] == "Trip-wide" {
			found = true
			if r[1] != "₹500" {
				t.Fatalf("trip-wide = %q", r[1])
			}
		}
	}
	if !found {
		t.Fatal("no trip-wide row")
	}
}

func TestDaysTable(t *testing.T) {
	it := testItinerary()
	res := pipeline.Aggregate(it)
	tbl := DaysTable(it, res, "₹")

	if len(tbl.Headers) != len(pipeline.CategoryKeys)+2 {
		t.Fatalf("headers = %v", tbl.Headers)
	}
	// two days, a separator, the total row
	if len(tbl.Rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(tbl.Rows))
	}
	if !strings.HasPrefix(tbl.Rows[0][0], "1. Arrive") {
		t.Fatalf("first day label = %q", tbl.Rows[0][0])
	}
	total := tbl.Rows[3]
	if total[len(total)-1] != money.FormatCurrency("₹", res.DaysTotal) {
		t.Fatalf("days total = %q, want %v", total[len(total)-1], res.DaysTotal)
	}
}
