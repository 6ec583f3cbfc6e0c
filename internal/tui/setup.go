package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/tripvault/internal/config"
	"github.com/theirongolddev/tripvault/internal/model"
	"github.com/theirongolddev/tripvault/internal/money"
	"github.com/theirongolddev/tripvault/internal/planner"
	"github.com/theirongolddev/tripvault/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues backs the configuration form.
type setupValues struct {
	cfg config.Config

	symbol    string
	vehicle   string
	mileage   string
	fuelPrice string
	people    string
	mode      string
	tier      string
	theme     string
	remoteURL string
	addr      string
}

func newSetupValues(cfg config.Config) *setupValues {
	p := cfg.Planner
	return &setupValues{
		cfg:       cfg,
		symbol:    p.Symbol(),
		vehicle:   p.Vehicle,
		mileage:   money.FormatInput(p.Mileage),
		fuelPrice: money.FormatInput(p.FuelPrice),
		people:    strconv.Itoa(p.People),
		mode:      p.DefaultMode,
		tier:      p.Tier,
		theme:     theme.ByName(cfg.Appearance.Theme).Name,
		remoteURL: cfg.Remote.BaseURL,
		addr:      cfg.Server.Addr,
	}
}

func validatePeople(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 100 {
		return fmt.Errorf("enter 1 to 100")
	}
	return nil
}

func (v *setupValues) form() *huh.Form {
	themes := make([]huh.Option[string], len(theme.All))
	for i, t := range theme.All {
		themes[i] = huh.NewOption(t.Name, t.Name)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to tripvault").
				Description("New trips start from these defaults. Run `tripvault setup` to change them later."),
			huh.NewInput().Title("Currency symbol").Value(&v.symbol).CharLimit(4),
			huh.NewSelect[string]().Title("Vehicle").
				Options(stringOptions(model.Vehicles, "Car", "Bike", "Train", "Flight")...).
				Value(&v.vehicle),
			numberInput("Car mileage (km/l)", &v.mileage),
			numberInput("Fuel price", &v.fuelPrice),
		).Title("Trip defaults"),
		huh.NewGroup(
			huh.NewInput().Title("People").Value(&v.people).Validate(validatePeople),
			huh.NewSelect[string]().Title("Default split").Options(modeOptions()...).Value(&v.mode),
			huh.NewSelect[string]().Title("Tier").
				Options(stringOptions(model.Tiers, "Budget", "Standard", "Luxury")...).
				Value(&v.tier),
		).Title("Party"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Color theme").Options(themes...).Value(&v.theme),
			huh.NewInput().Title("Save service URL").
				Description("Leave blank to plan offline.").
				Placeholder("https://example.com").
				Value(&v.remoteURL),
			huh.NewInput().Title("Local server address").Value(&v.addr),
		).Title("Appearance and services"),
	)
}

// config returns the edited configuration, validated.
func (v *setupValues) config() (config.Config, error) {
	cfg := v.cfg
	cfg.Planner.CurrencySymbol = strings.TrimSpace(v.symbol)
	cfg.Planner.Vehicle = v.vehicle
	cfg.Planner.Mileage = money.ParseNumber(v.mileage)
	cfg.Planner.FuelPrice = money.ParseNumber(v.fuelPrice)
	cfg.Planner.People, _ = strconv.Atoi(strings.TrimSpace(v.people))
	cfg.Planner.DefaultMode = v.mode
	cfg.Planner.Tier = v.tier
	cfg.Appearance.Theme = v.theme
	cfg.Remote.BaseURL = strings.TrimSpace(v.remoteURL)
	cfg.Server.Addr = strings.TrimSpace(v.addr)
	return cfg, cfg.Validate()
}

// RunSetup runs the configuration form in the terminal and writes the
// result to path.
func RunSetup(path string) error {
	cfg, err := config.LoadFrom(path)
	if err != nil {
		cfg = config.DefaultConfig()
	}
	v := newSetupValues(cfg)
	if err := v.form().Run(); err != nil {
		return fmt.Errorf("setup form: %w", err)
	}
	next, err := v.config()
	if err != nil {
		return err
	}
	if err := config.SaveTo(path, next); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	theme.SetActive(next.Appearance.Theme)
	return nil
}

// startSetup opens the first-run form inside the planner.
func (a *App) startSetup() {
	cfg, err := config.LoadFrom(a.configPath)
	if err != nil {
		cfg = config.DefaultConfig()
	}
	a.setupVals = newSetupValues(cfg)
	a.form = a.setupVals.form()
	a.formKind = formSetup
}

// finishSetup saves the first-run answers. The trip under edit picks up
// the new defaults only for fields the user has not touched.
func (a *App) finishSetup() {
	a.needSetup = false
	cfg, err := a.setupVals.config()
	if err == nil {
		err = config.SaveTo(a.configPath, cfg)
	}
	if err != nil {
		a.session.Notify(planner.Notice{Kind: planner.NoticeError, Text: "Could not save config: " + err.Error()})
		return
	}
	theme.SetActive(cfg.Appearance.Theme)

	defaults := cfg.Planner.TripDefaults()
	cur := a.session.Itinerary().Trip
	stock := model.DefaultTripSetup()
	for _, f := range []struct {
		field      string
		cur, stock any
		value      any
	}{
		{planner.TripVehicle, cur.Vehicle, stock.Vehicle, string(defaults.Vehicle)},
		{planner.TripMileage, cur.Mileage, stock.Mileage, defaults.Mileage},
		{planner.TripFuelPrice, cur.FuelPrice, stock.FuelPrice, defaults.FuelPrice},
		{planner.TripPeople, cur.People, stock.People, defaults.People},
		{planner.TripDefaultMode, cur.DefaultMode, stock.DefaultMode, string(defaults.DefaultMode)},
		{planner.TripTier, cur.Tier, stock.Tier, string(defaults.Tier)},
	} {
		if f.cur == f.stock {
			a.session.SetTripField(f.field, f.value)
		}
	}
	a.session.Notify(planner.Notice{Kind: planner.NoticeSuccess, Text: "Saved " + a.configPath})
}
