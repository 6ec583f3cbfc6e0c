package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/tripvault/internal/model"
	"github.com/theirongolddev/tripvault/internal/money"
	"github.com/theirongolddev/tripvault/internal/pipeline"
)

// Element ids of the animated headline figures.
const (
	MetricTripTotal = "metric-trip-total"
	MetricPerPerson = "metric-per-person"
	MetricDailyAvg  = "metric-daily-avg"
)

// ChartColors are the slice colors matching pipeline.CategoryLabels.
var ChartColors = []string{"#22d3ee", "#3b82f6", "#a855f7", "#f97316", "#e11d48"}

// ChartData is the payload handed to a chart.
type ChartData struct {
	Labels []string  `json:"labels"`
	Colors []string  `json:"colors"`
	Values []float64 `json:"values"`
}

// ChartSink receives chart payloads. Hosts without a chart pass nil.
type ChartSink interface {
	UpdateChart(ChartData)
}

// ChartFor builds the category chart payload from res.
func ChartFor(res pipeline.Result) ChartData {
	return ChartData{
		Labels: append([]string(nil), pipeline.CategoryLabels...),
		Colors: append([]string(nil), ChartColors...),
		Values: res.Categories.Values(),
	}
}

// Metric is one animated figure. Clients ease from From to To over
// money.AnimationDuration.
type Metric struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Text  string  `json:"text"`
}

// Headline is the hero block above the day cards.
type Headline struct {
	Total      Metric `json:"total"`
	PerPerson  Metric `json:"perPerson"`
	DailyAvg   Metric `json:"dailyAvg"`
	Tier       string `json:"tier"`
	People     string `json:"people"`
	Days       string `json:"days"`
	AutoDays   int    `json:"autoDays"`
	AutoNights int    `json:"autoNights"`
}

// CategoryRow is one category total with its share bar.
type CategoryRow struct {
	Key    string `json:"key"`
	Color  string `json:"color"`
	Amount Metric `json:"amount"`
	Pct    int    `json:"pct"`
}

// fromFunc picks the starting value of an animated metric.
type fromFunc func(id string, to float64) float64

func fromZero(string, float64) float64 { return 0 }

func (r *Renderer) animated(now time.Time) fromFunc {
	return func(id string, to float64) float64 {
		return r.anim.Animate(id, to, now).From
	}
}

func (r *Renderer) metric(id, label string, v float64, from fromFunc) Metric {
	return Metric{ID: id, Label: label, From: from(id, v), To: v, Text: r.Money(v)}
}

func (r *Renderer) headline(it model.Itinerary, res pipeline.Result, from fromFunc) Headline {
	return Headline{
		Total:      r.metric(MetricTripTotal, "Trip total", res.TripTotal, from),
		PerPerson:  r.metric(MetricPerPerson, "Per person", res.PerPerson, from),
		DailyAvg:   r.metric(MetricDailyAvg, "Daily average", res.DailyAvg, from),
		Tier:       capitalize(string(it.Trip.Tier)) + " mode",
		People:     fmt.Sprintf("%s people", money.FormatInput(money.Numberify(it.Trip.People))),
		Days:       fmt.Sprintf("%d days", len(it.Days)),
		AutoDays:   it.Trip.AutoDays(),
		AutoNights: it.Trip.AutoNights(),
	}
}

func (r *Renderer) categories(res pipeline.Result, from fromFunc) []CategoryRow {
	rows := make([]CategoryRow, len(pipeline.CategoryKeys))
	for i, key := range pipeline.CategoryKeys {
		rows[i] = CategoryRow{
			Key:    key,
			Color:  ChartColors[i],
			Amount: r.metric("total-"+key, pipeline.CategoryLabels[i], res.Categories.Get(key), from),
			Pct:    res.Pct.Get(key),
		}
	}
	return rows
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Option is a labelled choice in a toggle group or select.
type Option struct {
	Value  string
	Label  string
	Active bool
}

type lineRow struct {
	ID   string
	Name string
	Cost string
	Mode model.ShareMode
}

// lineView is a line row tagged with its owner: activity, custom or global.
type lineView struct {
	Line lineRow
	Kind string
}

type modeToggle struct {
	Mode   model.ShareMode
	Action string
}

type foodRow struct {
	Key    string
	Label  string
	Amount string
	Mode   model.ShareMode
}

type fieldRow struct {
	Field string
	Label string
	Value string
}

type panelView struct {
	Key   string
	Label string
	Open  bool
}

type dayCard struct {
	Seq            int
	ID             string
	Title          string
	Locations      string
	ImportantPlans string
	Collapsed      bool
	Self           bool
	Distance       string
	CabCost        string
	FuelPill       string
	StayName       string
	StayCost       string
	Panels         map[string]panelView
	Food           []foodRow
	Misc           []fieldRow
	Activities     []lineRow
	Custom         []lineRow
	Total          string
}

type daysView struct {
	Cards []dayCard
}

var panelLabels = map[string]string{
	model.PanelStay:       "Stay",
	model.PanelFood:       "Food (Breakfast, Lunch, Dinner)",
	model.PanelActivities: "Activities",
	model.PanelMisc:       "Misc + Custom",
}

func lines(items []model.LineItem) []lineRow {
	out := make([]lineRow, len(items))
	for i, it := range items {
		out[i] = lineRow{ID: it.ID, Name: it.Name, Cost: num(it.Cost), Mode: it.Mode}
	}
	return out
}

func num(v money.Number) string { return money.FormatInput(float64(v)) }

// FuelPill describes the self-driven transport cost of a day.
func (r *Renderer) FuelPill(trip model.TripSetup, fuel float64) string {
	cost := r.Money(fuel)
	switch trip.Vehicle {
	case model.VehicleBike:
		return fmt.Sprintf("Fuel: %s · Mileage: %s km/l", cost, num(trip.BikeMileage))
	case model.VehicleTrain, model.VehicleFlight:
		return fmt.Sprintf("Tickets: %s · %s", cost, capitalize(string(trip.Vehicle)))
	}
	return fmt.Sprintf("Fuel: %s · Mileage: %s km/l", cost, num(trip.Mileage))
}

func (r *Renderer) daysView(it model.Itinerary, res pipeline.Result) daysView {
	cards := make([]dayCard, len(it.Days))
	for i, d := range it.Days {
		var totals pipeline.DayTotals
		if i < len(res.Days) {
			totals = res.Days[i]
		}

		panels := make(map[string]panelView, len(model.Panels))
		for _, p := range model.Panels {
			panels[p] = panelView{Key: p, Label: panelLabels[p], Open: d.Panels.Open(p)}
		}

		food := make([]foodRow, len(model.FoodSlots))
		for j, slot := range model.FoodSlots {
			fs := d.Food.Slot(slot)
			food[j] = foodRow{Key: slot, Label: capitalize(slot), Amount: num(fs.Amount), Mode: fs.Mode}
		}

		cards[i] = dayCard{
			Seq:            i + 1,
			ID:             d.ID,
			Title:          d.Title,
			Locations:      d.Locations,
			ImportantPlans: d.ImportantPlans,
			Collapsed:      d.Collapsed,
			Self:           d.TransportMode != model.TransportCab,
			Distance:       num(d.Distance),
			CabCost:        num(d.CabCost),
			FuelPill:       r.FuelPill(it.Trip, totals.Fuel*res.Multiplier),
			StayName:       d.Stay.Name,
			StayCost:       num(d.Stay.Cost),
			Panels:         panels,
			Food:           food,
			Misc: []fieldRow{
				{Field: "misc.parking", Label: "Parking", Value: num(d.Misc.Parking)},
				{Field: "misc.toll", Label: "Toll", Value: num(d.Misc.Toll)},
				{Field: "misc.snacks", Label: "Snacks", Value: num(d.Misc.Snacks)},
				{Field: "misc.buffer", Label: "Emergency buffer", Value: num(d.Misc.Buffer)},
			},
			Activities: lines(d.Activities),
			Custom:     lines(d.CustomExpenses),
			Total:      r.Money(totals.DayTotal * res.Multiplier),
		}
	}
	return daysView{Cards: cards}
}

func options[T ~string](values []T, active T) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Value: string(v), Label: capitalize(string(v)), Active: v == active}
	}
	return out
}
