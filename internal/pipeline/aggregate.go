// Package pipeline derives every monetary total from an itinerary.
// Nothing here mutates its input or keeps state between calls.
package pipeline

import (
	"math"

	"github.com/theirongolddev/tripvault/internal/config"
	"github.com/theirongolddev/tripvault/internal/model"
	"github.com/theirongolddev/tripvault/internal/money"
)

// minMileage keeps fuel cost finite when mileage is zero or unset.
const minMileage = 0.1

// Category keys in display order.
const (
	CatStay       = "stay"
	CatTransport  = "transport"
	CatFood       = "food"
	CatActivities = "activities"
	CatMisc       = "misc"
)

// CategoryKeys lists the cost categories in display order.
var CategoryKeys = []string{CatStay, CatTransport, CatFood, CatActivities, CatMisc}

// CategoryLabels are the display labels matching CategoryKeys.
var CategoryLabels = []string{"Stay", "Transport", "Food", "Activities", "Misc"}

// Categories holds one amount per cost category.
type Categories struct {
	Stay       float64 `json:"stay"`
	Transport  float64 `json:"transport"`
	Food       float64 `json:"food"`
	Activities float64 `json:"activities"`
	Misc       float64 `json:"misc"`
}

// Sum returns the total across categories.
func (c Categories) Sum() float64 {
	return c.Stay + c.Transport + c.Food + c.Activities + c.Misc
}

// Scale returns every category multiplied by m.
func (c Categories) Scale(m float64) Categories {
	return Categories{
		Stay:       c.Stay * m,
		Transport:  c.Transport * m,
		Food:       c.Food * m,
		Activities: c.Activities * m,
		Misc:       c.Misc * m,
	}
}

// Add returns the element-wise sum of c and o.
func (c Categories) Add(o Categories) Categories {
	return Categories{
		Stay:       c.Stay + o.Stay,
		Transport:  c.Transport + o.Transport,
		Food:       c.Food + o.Food,
		Activities: c.Activities + o.Activities,
		Misc:       c.Misc + o.Misc,
	}
}

// Values returns the amounts in CategoryKeys order.
func (c Categories) Values() []float64 {
	return []float64{c.Stay, c.Transport, c.Food, c.Activities, c.Misc}
}

// Get returns the amount for a category key.
func (c Categories) Get(key string) float64 {
	switch key {
	case CatStay:
		return c.Stay
	case CatTransport:
		return c.Transport
	case CatFood:
		return c.Food
	case CatActivities:
		return c.Activities
	case CatMisc:
		return c.Misc
	}
	return 0
}

// Shares holds whole-number percent-of-total per category.
type Shares struct {
	Stay       int `json:"stay"`
	Transport  int `json:"transport"`
	Food       int `json:"food"`
	Activities int `json:"activities"`
	Misc       int `json:"misc"`
}

// Get returns the share for a category key.
func (s Shares) Get(key string) int {
	switch key {
	case CatStay:
		return s.Stay
	case CatTransport:
		return s.Transport
	case CatFood:
		return s.Food
	case CatActivities:
		return s.Activities
	case CatMisc:
		return s.Misc
	}
	return 0
}

// DayTotals are the unscaled costs of a single day.
type DayTotals struct {
	DayID      string     `json:"dayId"`
	Categories Categories `json:"categories"`
	DayTotal   float64    `json:"dayTotal"`
	// Fuel is the self-driven transport cost, 0 on cab days.
	Fuel float64 `json:"fuel"`
}

// Result is everything derived from one itinerary snapshot.
type Result struct {
	Days []DayTotals `json:"days"`

	// Base sums are before the tier multiplier.
	Base      Categories `json:"base"`
	BaseTotal float64    `json:"baseTotal"`
	BaseFuel  float64    `json:"baseFuel"`

	Multiplier   float64    `json:"multiplier"`
	Categories   Categories `json:"categories"`
	DaysTotal    float64    `json:"daysTotal"`
	GlobalCustom float64    `json:"globalCustom"`
	TripTotal    float64    `json:"tripTotal"`
	PerPerson    float64    `json:"perPerson"`
	DailyAvg     float64    `json:"dailyAvg"`
	Pct          Shares     `json:"pct"`

	People   float64 `json:"people"`
	DayCount int     `json:"dayCount"`
}

// Aggregate computes totals using the stock tier multipliers.
func Aggregate(it model.Itinerary) Result {
	return AggregateWith(it, config.DefaultTiers)
}

// AggregateWith computes totals using the given tier table. Day-derived
// categories are scaled by the tier multiplier; global custom lines are
// added to the trip total unscaled.
func AggregateWith(it model.Itinerary, tiers config.TierTable) Result {
	people := it.Trip.PartySize()
	multiplier := tiers.Multiplier(it.Trip.Tier)

	res := Result{
		Days:       make([]DayTotals, 0, len(it.Days)),
		Multiplier: multiplier,
		People:     people,
		DayCount:   len(it.Days),
	}

	for _, d := range it.Days {
		dt := CalcDay(d, it.Trip)
		res.Days = append(res.Days, dt)
		res.Base = res.Base.Add(dt.Categories)
		res.BaseTotal += dt.DayTotal
		res.BaseFuel += dt.Fuel
	}

	res.Categories = res.Base.Scale(multiplier)
	res.DaysTotal = res.BaseTotal * multiplier
	res.GlobalCustom = LineTotal(it.GlobalCustom, people)
	res.TripTotal = res.DaysTotal + res.GlobalCustom
	res.PerPerson = res.TripTotal / people
	res.DailyAvg = res.TripTotal / math.Max(float64(len(it.Days)), 1)
	res.Pct = shares(res.Categories, res.TripTotal)

	return res
}

// CalcDay computes the unscaled category costs of d under trip.
func CalcDay(d model.Day, trip model.TripSetup) DayTotals {
	people := trip.PartySize()

	transport := 0.0
	fuel := 0.0
	if d.TransportMode == model.TransportCab {
		transport = money.Numberify(d.CabCost)
	} else {
		transport = selfTransport(money.Numberify(d.Distance), trip, people)
		fuel = transport
	}

	food := 0.0
	for _, slot := range model.FoodSlots {
		s := d.Food.Slot(slot)
		food += ShareCost(money.Numberify(s.Amount), s.Mode, people)
	}

	cats := Categories{
		Stay:       money.Numberify(d.Stay.Cost),
		Transport:  transport,
		Food:       food,
		Activities: LineTotal(d.Activities, people),
		Misc:       d.Misc.Sum() + LineTotal(d.CustomExpenses, people),
	}

	return DayTotals{
		DayID:      d.ID,
		Categories: cats,
		DayTotal:   cats.Sum(),
		Fuel:       fuel,
	}
}

// selfTransport prices a self-driven day from the trip's vehicle settings.
func selfTransport(distance float64, trip model.TripSetup, people float64) float64 {
	switch trip.Vehicle {
	case model.VehicleCar:
		mileage := math.Max(money.Numberify(trip.Mileage), minMileage)
		return distance / mileage * money.Numberify(trip.FuelPrice)
	case model.VehicleBike:
		mileage := math.Max(money.Numberify(trip.BikeMileage), minMileage)
		return distance / mileage * money.Numberify(trip.FuelPrice)
	case model.VehicleTrain:
		return money.Numberify(trip.TrainTicket) * people
	case model.VehicleFlight:
		return money.Numberify(trip.FlightTicket) * people
	}
	return 0
}

// ShareCost applies the group/per-person rule to a single amount.
func ShareCost(amount float64, mode model.ShareMode, people float64) float64 {
	if mode == model.ModePerPerson {
		return amount * people
	}
	return amount
}

// LineTotal sums line items under the group/per-person rule.
func LineTotal(items []model.LineItem, people float64) float64 {
	total := 0.0
	for _, it := range items {
		total += ShareCost(money.Numberify(it.Cost), it.Mode, people)
	}
	return total
}

func shares(c Categories, total float64) Shares {
	denom := math.Max(total, 1)
	pct := func(v float64) int {
		return int(math.Floor(v/denom*100 + 0.5))
	}
	return Shares{
		Stay:       pct(c.Stay),
		Transport:  pct(c.Transport),
		Food:       pct(c.Food),
		Activities: pct(c.Activities),
		Misc:       pct(c.Misc),
	}
}
