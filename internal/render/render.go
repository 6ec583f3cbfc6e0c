// Package render turns planner frames into HTML and the JSON updates
// streamed to the browser.
package render

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"github.com/theirongolddev/tripvault/internal/model"
	"github.com/theirongolddev/tripvault/internal/money"
	"github.com/theirongolddev/tripvault/internal/pipeline"
	"github.com/theirongolddev/tripvault/internal/planner"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the page's scripts and styles.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Options configures a Renderer.
type Options struct {
	Symbol   string
	Chart    ChartSink
	Animator *money.Animator
	Now      func() time.Time
}

// Renderer projects itineraries and totals into views.
type Renderer struct {
	tmpl   *template.Template
	symbol string
	chart  ChartSink
	anim   *money.Animator
	now    func() time.Time
}

// New parses the embedded templates.
func New(opts Options) (*Renderer, error) {
	if opts.Symbol == "" {
		opts.Symbol = money.DefaultSymbol
	}
	if opts.Animator == nil {
		opts.Animator = money.NewAnimator()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	r := &Renderer{
		symbol: opts.Symbol,
		chart:  opts.Chart,
		anim:   opts.Animator,
		now:    opts.Now,
	}

	funcMap := template.FuncMap{
		"money": r.Money,
		"num":   func(v any) string { return money.FormatInput(money.Numberify(v)) },
		"json": func(v any) (string, error) {
			b, err := json.Marshal(v)
			return string(b), err
		},
		"toggle": func(mode model.ShareMode, action string) modeToggle {
			return modeToggle{Mode: mode, Action: action}
		},
		"row": func(line lineRow, kind string) lineView {
			return lineView{Line: line, Kind: kind}
		},
	}
	tmpl, err := template.New("base").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// Money formats v with the currency symbol.
func (r *Renderer) Money(v float64) string { return money.FormatCurrency(r.symbol, v) }

// Symbol returns the currency prefix.
func (r *Renderer) Symbol() string { return r.symbol }

// RenderDays writes the day cards. The output depends only on it and
// res, so equal input gives identical bytes.
func (r *Renderer) RenderDays(w io.Writer, it model.Itinerary, res pipeline.Result) error {
	return r.tmpl.ExecuteTemplate(w, "days", r.daysView(it, res))
}

// DaysHTML returns RenderDays output as a string.
func (r *Renderer) DaysHTML(it model.Itinerary, res pipeline.Result) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderDays(&buf, it, res); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// GlobalHTML returns the trip-wide custom expense list.
func (r *Renderer) GlobalHTML(it model.Itinerary) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "global", lines(it.GlobalCustom)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Headline returns the hero figures animating from whatever was
// rendered last for each element.
func (r *Renderer) Headline(it model.Itinerary, res pipeline.Result) Headline {
	return r.headline(it, res, r.animated(r.now()))
}

// Categories returns the category rows animating from the last render.
func (r *Renderer) Categories(res pipeline.Result) []CategoryRow {
	return r.categories(res, r.animated(r.now()))
}

// Chart builds the chart payload and hands it to the chart sink, if any.
func (r *Renderer) Chart(res pipeline.Result) ChartData {
	data := ChartFor(res)
	if r.chart != nil {
		r.chart.UpdateChart(data)
	}
	return data
}

// Update is one streamed render, sent as the SSE "render" event.
type Update struct {
	Seq          int64           `json:"seq"`
	Full         bool            `json:"full"`
	TripName     string          `json:"tripName"`
	Headline     Headline        `json:"headline"`
	Categories   []CategoryRow   `json:"categories"`
	Days         string          `json:"days,omitempty"`
	GlobalCustom string          `json:"globalCustom,omitempty"`
	Chart        ChartData       `json:"chart"`
	Notice       *planner.Notice `json:"notice,omitempty"`
}

// Update converts a frame. Full frames include rebuilt day cards.
func (r *Renderer) Update(f planner.Frame) (Update, error) {
	u := Update{
		Seq:        f.Seq,
		Full:       f.Full,
		TripName:   f.Itinerary.Trip.Name,
		Headline:   r.Headline(f.Itinerary, f.Result),
		Categories: r.Categories(f.Result),
		Chart:      r.Chart(f.Result),
		Notice:     f.Notice,
	}
	if !f.Full {
		return u, nil
	}
	days, err := r.DaysHTML(f.Itinerary, f.Result)
	if err != nil {
		return u, fmt.Errorf("rendering days: %w", err)
	}
	global, err := r.GlobalHTML(f.Itinerary)
	if err != nil {
		return u, fmt.Errorf("rendering global lines: %w", err)
	}
	u.Days, u.GlobalCustom = days, global
	return u, nil
}

// PageData is everything the full planner page shows.
type PageData struct {
	Title         string
	Trip          model.TripSetup
	Vehicles      []Option
	Tiers         []Option
	Modes         []Option
	Headline      Headline
	Categories    []CategoryRow
	Days          daysView
	Global        []lineRow
	Chart         ChartData
	Seq           int64
	SavedTripsURL string
	RemoteEnabled bool
}

// PageInput is what a host knows when serving the page.
type PageInput struct {
	Itinerary     model.Itinerary
	Result        pipeline.Result
	Seq           int64
	SavedTripsURL string
	RemoteEnabled bool
}

// PageData builds the page view. Headline figures animate up from zero,
// like a fresh load.
func (r *Renderer) PageData(in PageInput) PageData {
	it, res := in.Itinerary, in.Result
	title := it.Trip.Name
	if title == "" {
		title = "Trip planner"
	}
	return PageData{
		Title:         title,
		Trip:          it.Trip,
		Vehicles:      options(model.Vehicles, it.Trip.Vehicle),
		Tiers:         options(model.Tiers, it.Trip.Tier),
		Modes:         modeOptions(it.Trip.Mode()),
		Headline:      r.headline(it, res, fromZero),
		Categories:    r.categories(res, fromZero),
		Days:          r.daysView(it, res),
		Global:        lines(it.GlobalCustom),
		Chart:         ChartFor(res),
		Seq:           in.Seq,
		SavedTripsURL: in.SavedTripsURL,
		RemoteEnabled: in.RemoteEnabled,
	}
}

// Page writes the full planner page.
func (r *Renderer) Page(w io.Writer, in PageInput) error {
	return r.tmpl.ExecuteTemplate(w, "page", r.PageData(in))
}

func modeOptions(active model.ShareMode) []Option {
	return []Option{
		{Value: string(model.ModeGroup), Label: "Group", Active: active == model.ModeGroup},
		{Value: string(model.ModePerPerson), Label: "Per person", Active: active == model.ModePerPerson},
	}
}
