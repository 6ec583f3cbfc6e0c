package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/theirongolddev/tripvault/internal/model"
	"github.com/theirongolddev/tripvault/internal/money"
	"github.com/theirongolddev/tripvault/internal/planner"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

type formKind int

const (
	formNone formKind = iota
	formSetup
	formTrip
	formDay
	formLine
	formReset
)

// Line kinds offered by the add-line form.
const (
	lineActivity = "activity"
	lineCustom   = "custom"
	lineGlobal   = "global"
)

type tripValues struct {
	name, startDate, endDate, startCity, endCity string
	distance                                     string
	vehicle                                      string
	mileage, fuelPrice                           string
	bikeMileage, bikeFuelPrice                   string
	trainTicket, flightTicket                    string
	people                                       string
	mode, tier                                   string
}

type dayValues struct {
	dayID                         string
	title, locations, plans       string
	distance, cabCost             string
	stayName, stayCost            string
	breakfast, lunch, dinner      string
	parking, toll, snacks, buffer string
}

type lineValues struct {
	dayID string
	kind  string
	name  string
	cost  string
	mode  string
}

func num(v money.Number) string { return money.FormatInput(float64(v)) }

func validateNumber(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if money.ParseNumber(s) == 0 && strings.Trim(s, "0.") != "" {
		return errors.New("enter a number")
	}
	return nil
}

func validateDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func numberInput(title string, v *string) *huh.Input {
	return huh.NewInput().Title(title).Value(v).Validate(validateNumber)
}

func stringOptions[T ~string](values []T, labels ...string) []huh.Option[string] {
	opts := make([]huh.Option[string], len(values))
	for i, v := range values {
		label := string(v)
		if i < len(labels) {
			label = labels[i]
		}
		opts[i] = huh.NewOption(label, string(v))
	}
	return opts
}

func modeOptions() []huh.Option[string] {
	return stringOptions([]model.ShareMode{model.ModeGroup, model.ModePerPerson}, "Group", "Per person")
}

func (a *App) openForm(kind formKind, f *huh.Form) tea.Cmd {
	f = f.WithShowHelp(true)
	if a.width > 0 {
		f = f.WithWidth(min(a.width, maxContentWidth)).WithHeight(a.height)
	}
	a.form = f
	a.formKind = kind
	return f.Init()
}

func (a *App) startTripForm() tea.Cmd {
	t := a.it.Trip
	v := &tripValues{
		name:          t.Name,
		startDate:     t.StartDate,
		endDate:       t.EndDate,
		startCity:     t.StartCity,
		endCity:       t.EndCity,
		distance:      num(t.ApproxDistance),
		vehicle:       string(t.Vehicle),
		mileage:       num(t.Mileage),
		fuelPrice:     num(t.FuelPrice),
		bikeMileage:   num(t.BikeMileage),
		bikeFuelPrice: num(t.BikeFuelPrice),
		trainTicket:   num(t.TrainTicket),
		flightTicket:  num(t.FlightTicket),
		people:        num(t.People),
		mode:          string(t.Mode()),
		tier:          string(t.Tier),
	}
	a.tripVals = v

	f := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Trip name").Value(&v.name),
			huh.NewInput().Title("Start date").Placeholder("YYYY-MM-DD").Value(&v.startDate).Validate(validateDate),
			huh.NewInput().Title("End date").Placeholder("YYYY-MM-DD").Value(&v.endDate).Validate(validateDate),
			huh.NewInput().Title("Start city").Value(&v.startCity),
			huh.NewInput().Title("End city").Value(&v.endCity),
			numberInput("Approx. distance (km)", &v.distance),
		).Title("Trip"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Vehicle").
				Options(stringOptions(model.Vehicles, "Car", "Bike", "Train", "Flight")...).
				Value(&v.vehicle),
			numberInput("Car mileage (km/l)", &v.mileage),
			numberInput("Car fuel price", &v.fuelPrice),
			numberInput("Bike mileage (km/l)", &v.bikeMileage),
			numberInput("Bike fuel price", &v.bikeFuelPrice),
			numberInput("Train ticket", &v.trainTicket),
			numberInput("Flight ticket", &v.flightTicket),
		).Title("Getting around"),
		huh.NewGroup(
			numberInput("People", &v.people),
			huh.NewSelect[string]().Title("Default split").Options(modeOptions()...).Value(&v.mode),
			huh.NewSelect[string]().Title("Tier").
				Options(stringOptions(model.Tiers, "Budget", "Standard", "Luxury")...).
				Value(&v.tier),
		).Title("Party"),
	)
	return a.openForm(formTrip, f)
}

func (a *App) applyTripForm() {
	v := a.tripVals
	s := a.session
	for _, f := range []struct{ field, value string }{
		{planner.TripName, v.name},
		{planner.TripStartDate, v.startDate},
		{planner.TripEndDate, v.endDate},
		{planner.TripStartCity, v.startCity},
		{planner.TripEndCity, v.endCity},
		{planner.TripApproxDistance, v.distance},
		{planner.TripVehicle, v.vehicle},
		{planner.TripMileage, v.mileage},
		{planner.TripFuelPrice, v.fuelPrice},
		{planner.TripBikeMileage, v.bikeMileage},
		{planner.TripBikeFuelPrice, v.bikeFuelPrice},
		{planner.TripTrainTicket, v.trainTicket},
		{planner.TripFlightTicket, v.flightTicket},
		{planner.TripPeople, v.people},
		{planner.TripDefaultMode, v.mode},
		{planner.TripTier, v.tier},
	} {
		s.SetTripField(f.field, f.value)
	}
}

func (a *App) startDayForm(d model.Day) tea.Cmd {
	v := &dayValues{
		dayID:     d.ID,
		title:     d.Title,
		locations: d.Locations,
		plans:     d.ImportantPlans,
		distance:  num(d.Distance),
		cabCost:   num(d.CabCost),
		stayName:  d.Stay.Name,
		stayCost:  num(d.Stay.Cost),
		breakfast: num(d.Food.Breakfast.Amount),
		lunch:     num(d.Food.Lunch.Amount),
		dinner:    num(d.Food.Dinner.Amount),
		parking:   num(d.Misc.Parking),
		toll:      num(d.Misc.Toll),
		snacks:    num(d.Misc.Snacks),
		buffer:    num(d.Misc.Buffer),
	}
	a.dayVals = v

	f := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&v.title),
			huh.NewInput().Title("Locations").Value(&v.locations),
			huh.NewText().Title("Important plans").Value(&v.plans).Lines(3),
			numberInput("Distance (km)", &v.distance),
			numberInput("Cab cost", &v.cabCost),
		).Title(d.Title),
		huh.NewGroup(
			huh.NewInput().Title("Stay").Value(&v.stayName),
			numberInput("Stay cost", &v.stayCost),
			numberInput("Breakfast", &v.breakfast),
			numberInput("Lunch", &v.lunch),
			numberInput("Dinner", &v.dinner),
		).Title("Stay and food"),
		huh.NewGroup(
			numberInput("Parking", &v.parking),
			numberInput("Toll", &v.toll),
			numberInput("Snacks", &v.snacks),
			numberInput("Buffer", &v.buffer),
		).Title("Misc"),
	)
	return a.openForm(formDay, f)
}

func (a *App) applyDayForm() {
	v := a.dayVals
	for _, f := range []struct{ field, value string }{
		{planner.DayTitle, v.title},
		{planner.DayLocations, v.locations},
		{planner.DayImportantPlans, v.plans},
		{planner.DayDistance, v.distance},
		{planner.DayCabCost, v.cabCost},
		{planner.DayStayName, v.stayName},
		{planner.DayStayCost, v.stayCost},
		{planner.FoodAmountField(model.SlotBreakfast), v.breakfast},
		{planner.FoodAmountField(model.SlotLunch), v.lunch},
		{planner.FoodAmountField(model.SlotDinner), v.dinner},
		{planner.DayMiscParking, v.parking},
		{planner.DayMiscToll, v.toll},
		{planner.DayMiscSnacks, v.snacks},
		{planner.DayMiscBuffer, v.buffer},
	} {
		a.session.SetDayField(v.dayID, f.field, f.value)
	}
}

func (a *App) startLineForm(dayID string) tea.Cmd {
	v := &lineValues{dayID: dayID, kind: lineActivity, mode: string(a.it.Trip.Mode())}
	a.lineVals = v

	f := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Add to").Options(
				huh.NewOption("Activity on this day", lineActivity),
				huh.NewOption("Custom item on this day", lineCustom),
				huh.NewOption("Trip-wide expense", lineGlobal),
			).Value(&v.kind),
			huh.NewInput().Title("Name").Value(&v.name),
			numberInput("Cost", &v.cost),
			huh.NewSelect[string]().Title("Split").Options(modeOptions()...).Value(&v.mode),
		).Title("New expense line"),
	)
	return a.openForm(formLine, f)
}

// applyLineForm adds the line and fills it in. Untouched names keep the
// default line name.
func (a *App) applyLineForm() {
	v := a.lineVals
	s := a.session

	var update func(id, field string, value any) bool
	var id string
	switch v.kind {
	case lineActivity:
		id, _ = s.AddActivity(v.dayID)
		update = func(id, field string, value any) bool { return s.UpdateActivity(v.dayID, id, field, value) }
	case lineCustom:
		id, _ = s.AddCustom(v.dayID)
		update = func(id, field string, value any) bool { return s.UpdateCustom(v.dayID, id, field, value) }
	default:
		id = s.AddGlobalCustom()
		update = s.UpdateGlobalCustom
	}
	if id == "" {
		return
	}
	if name := strings.TrimSpace(v.name); name != "" {
		update(id, planner.ItemName, name)
	}
	update(id, planner.ItemCost, v.cost)
	update(id, planner.ItemMode, v.mode)
}

func (a *App) startResetForm() tea.Cmd {
	confirmed := false
	a.confirm = &confirmed
	f := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Reset the planner?").
			Description("Days and trip-wide expenses are cleared. Trip setup is kept.").
			Affirmative("Reset").
			Negative("Cancel").
			Value(a.confirm),
	))
	return a.openForm(formReset, f)
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		switch a.formKind {
		case formSetup:
			a.finishSetup()
		case formTrip:
			a.applyTripForm()
		case formDay:
			a.applyDayForm()
		case formLine:
			a.applyLineForm()
		case formReset:
			if *a.confirm {
				a.session.Reset()
				a.cursor = 0
			}
		}
		a.closeForm()
		return a, nil
	case huh.StateAborted:
		if a.formKind == formSetup {
			a.needSetup = false
		}
		a.closeForm()
		return a, nil
	}
	return a, cmd
}

func (a *App) closeForm() {
	a.form = nil
	a.formKind = formNone
	a.tripVals = nil
	a.dayVals = nil
	a.lineVals = nil
	a.confirm = nil
}
