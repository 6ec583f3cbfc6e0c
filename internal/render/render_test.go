package render

import (
	"bytes"
	"io/fs"
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/tripvault/internal/model"
	"github.com/theirongolddev/tripvault/internal/money"
	"github.com/theirongolddev/tripvault/internal/pipeline"
	"github.com/theirongolddev/tripvault/internal/planner"
)

func newRenderer(t *testing.T, opts Options) *Renderer {
	t.Helper()
	r, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func samplePlan() model.Itinerary {
	ids := &model.SequenceSource{}
	it := model.NewItinerary(model.DefaultTripSetup(), ids)
	it.Trip.Name = "Coastal run"
	d := &it.Days[0]
	d.Distance = 240
	d.Stay = model.Stay{Name: "Beach hut", Cost: 0.1 + 0.2}
	d.Food.Lunch.Amount = 350
	d.CustomExpenses = append(d.CustomExpenses, model.NewCustomLine("Ferry", model.ModePerPerson, ids))
	it.Days = append(it.Days, model.NewDay(2, model.ModeGroup, ids))
	it.Days[1].TransportMode = model.TransportCab
	it.Days[1].CabCost = 1800
	it.GlobalCustom = append(it.GlobalCustom, model.NewCustomLine("Insurance", model.ModeGroup, ids))
	return it
}

func TestRenderDaysIsPure(t *testing.T) {
	it := samplePlan()
	res := pipeline.Aggregate(it)

	a, err := newRenderer(t, Options{}).DaysHTML(it, res)
	if err != nil {
		t.Fatalf("DaysHTML: %v", err)
	}
	r := newRenderer(t, Options{})
	b, _ := r.DaysHTML(it, res)
	c, _ := r.DaysHTML(it, res)
	if a != b || b != c {
		t.Fatal("equal input rendered different day cards")
	}
	if n := strings.Count(a, `class="day-card`); n != 2 {
		t.Fatalf("day cards = %d, want 2", n)
	}
}

func TestRenderDaysEscapesUserText(t *testing.T) {
	it := samplePlan()
	it.Days[0].Title = `"><script>alert(1)</script>`
	it.Days[0].Locations = "</textarea><b>x</b>"

	out, err := newRenderer(t, Options{}).DaysHTML(it, pipeline.Aggregate(it))
	if err != nil {
		t.Fatalf("DaysHTML: %v", err)
	}
	if strings.Contains(out, "<script>") || strings.Contains(out, "<b>x</b>") {
		t.Fatalf("user text rendered unescaped:\n%s", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Fatal("escaped title missing")
	}
}

var stayCostInput = regexp.MustCompile(`value="([^"]*)" data-day-field="stay.cost"`)

func TestRenderDaysValuesRoundTrip(t *testing.T) {
	it := samplePlan()
	out, _ := newRenderer(t, Options{}).DaysHTML(it, pipeline.Aggregate(it))

	m := stayCostInput.FindStringSubmatch(out)
	if m == nil {
		t.Fatal("stay cost input not found")
	}
	got, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		t.Fatalf("parse %q: %v", m[1], err)
	}
	if got != float64(it.Days[0].Stay.Cost) {
		t.Fatalf("stay cost = %v, want exactly %v", got, float64(it.Days[0].Stay.Cost))
	}
}

func TestRenderDaysPillsAndTotals(t *testing.T) {
	it := samplePlan()
	res := pipeline.Aggregate(it)
	out, _ := newRenderer(t, Options{}).DaysHTML(it, res)

	// 240 km / 18 km/l * 105
	if !strings.Contains(out, "Fuel: Rs 1,400 · Mileage: 18 km/l") {
		t.Fatalf("fuel pill missing:\n%s", out)
	}
	if !strings.Contains(out, "Day total: Rs 1,800") {
		t.Fatal("cab day total missing")
	}

	it.Trip.Tier = model.TierLuxury
	out, _ = newRenderer(t, Options{}).DaysHTML(it, pipeline.Aggregate(it))
	if !strings.Contains(out, "Day total: Rs 2,250") {
		t.Fatal("day total is not tier adjusted")
	}
}

func TestHeadlineAnimatesFromLastRender(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	r := newRenderer(t, Options{Now: func() time.Time { return now }})
	it := samplePlan()

	first := r.Headline(it, pipeline.Aggregate(it))
	if first.Total.From != 0 {
		t.Fatalf("first From = %v, want 0", first.Total.From)
	}

	it.Days[0].Stay.Cost = 5000
	second := r.Headline(it, pipeline.Aggregate(it))
	if second.Total.From != first.Total.To {
		t.Fatalf("second From = %v, want %v", second.Total.From, first.Total.To)
	}
	if second.Total.To <= first.Total.To {
		t.Fatalf("To = %v, want more than %v", second.Total.To, first.Total.To)
	}
	if second.Total.Text != money.FormatCurrency("Rs ", second.Total.To) {
		t.Fatalf("Text = %q", second.Total.Text)
	}
	if second.Days != "2 days" || second.People != "2 people" || second.Tier != "Standard mode" {
		t.Fatalf("tags = %q %q %q", second.Days, second.People, second.Tier)
	}
}

type chartRecorder struct{ got []ChartData }

func (c *chartRecorder) UpdateChart(d ChartData) { c.got = append(c.got, d) }

func TestChart(t *testing.T) {
	it := samplePlan()
	res := pipeline.Aggregate(it)

	rec := &chartRecorder{}
	data := newRenderer(t, Options{Chart: rec}).Chart(res)
	if len(rec.got) != 1 {
		t.Fatalf("sink calls = %d, want 1", len(rec.got))
	}
	if len(data.Labels) != 5 || data.Labels[0] != "Stay" || data.Colors[4] != "#e11d48" {
		t.Fatalf("chart = %+v", data)
	}
	for i, key := range pipeline.CategoryKeys {
		if math.Abs(data.Values[i]-res.Categories.Get(key)) > 1e-9 {
			t.Fatalf("value[%d] = %v, want %v", i, data.Values[i], res.Categories.Get(key))
		}
	}

	// No sink is fine.
	newRenderer(t, Options{}).Chart(res)
}

func TestUpdate(t *testing.T) {
	r := newRenderer(t, Options{})
	it := samplePlan()
	res := pipeline.Aggregate(it)

	u, err := r.Update(planner.Frame{Seq: 3, Itinerary: it, Result: res})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if u.Days != "" || u.GlobalCustom != "" {
		t.Fatal("totals-only update carried markup")
	}
	if len(u.Categories) != 5 || u.TripName != "Coastal run" {
		t.Fatalf("update = %+v", u)
	}

	u, err = r.Update(planner.Frame{Seq: 4, Full: true, Itinerary: it, Result: res, Notice: &planner.Notice{Kind: planner.NoticeInfo, Text: "hi"}})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !strings.Contains(u.Days, "Beach hut") || !strings.Contains(u.GlobalCustom, "Insurance") {
		t.Fatal("full update missing markup")
	}
	if u.Notice == nil || u.Notice.Text != "hi" {
		t.Fatalf("notice = %+v", u.Notice)
	}
}

func TestPage(t *testing.T) {
	r := newRenderer(t, Options{Symbol: "₹"})
	it := samplePlan()
	it.Trip.StartDate, it.Trip.EndDate = "2026-12-20", "2026-12-24"

	var buf bytes.Buffer
	err := r.Page(&buf, PageInput{Itinerary: it, Result: pipeline.Aggregate(it), SavedTripsURL: "http://x.test/home/saved/", RemoteEnabled: true})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`id="metric-trip-total"`,
		`<span id="auto-days">5</span>`,
		`<span id="auto-nights">4</span>`,
		`id="day-cards"`,
		`id="bar-stay"`,
		`data-chart="`,
		`<title>Coastal run · tripvault</title>`,
		"Insurance",
		"₹",
		`id="save-trip"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q", want)
		}
	}

	buf.Reset()
	_ = r.Page(&buf, PageInput{Itinerary: it, Result: pipeline.Aggregate(it)})
	if strings.Contains(buf.String(), `id="save-trip"`) {
		t.Error("save button shown without a remote")
	}
}

func TestStatic(t *testing.T) {
	for _, name := range []string{"planner.js", "planner.css"} {
		if _, err := fs.Stat(Static(), name); err != nil {
			t.Errorf("static %s: %v", name, err)
		}
	}
}
