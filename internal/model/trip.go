// Package model defines the itinerary entities shared by the planner,
// the aggregation pipeline and every renderer.
package model

import (
	"math"
	"time"

	"github.com/theirongolddev/tripvault/internal/money"
)

// Vehicle is the trip-wide way of getting around on self-driven days.
type Vehicle string

const (
	VehicleCar    Vehicle = "car"
	VehicleBike   Vehicle = "bike"
	VehicleTrain  Vehicle = "train"
	VehicleFlight Vehicle = "flight"
)

// Vehicles lists the valid vehicle kinds in display order.
var Vehicles = []Vehicle{VehicleCar, VehicleBike, VehicleTrain, VehicleFlight}

// ShareMode decides whether a cost is paid once or once per traveller.
type ShareMode string

const (
	ModeGroup     ShareMode = "group"
	ModePerPerson ShareMode = "per-person"
)

// Tier is the pricing preference applied to itinerary costs.
type Tier string

const (
	TierBudget   Tier = "budget"
	TierStandard Tier = "standard"
	TierLuxury   Tier = "luxury"
)

// Tiers lists the valid tiers in display order.
var Tiers = []Tier{TierBudget, TierStandard, TierLuxury}

// dateLayout is the format of TripSetup start and end dates.
const dateLayout = "2006-01-02"

// TripSetup holds the trip-wide settings. There is exactly one per itinerary.
type TripSetup struct {
	Name           string       `json:"name"`
	StartDate      string       `json:"startDate"`
	EndDate        string       `json:"endDate"`
	StartCity      string       `json:"startCity"`
	EndCity        string       `json:"endCity"`
	ApproxDistance money.Number `json:"approxDistance"`
	Vehicle        Vehicle      `json:"vehicle" validate:"omitempty,oneof=car bike train flight"`
	Mileage        money.Number `json:"mileage"`
	FuelPrice      money.Number `json:"fuelPrice"`
	BikeMileage    money.Number `json:"bikeMileage"`
	BikeFuelPrice  money.Number `json:"bikeFuelPrice"`
	TrainTicket    money.Number `json:"trainTicket"`
	FlightTicket   money.Number `json:"flightTicket"`
	People         money.Number `json:"people"`
	DefaultMode    ShareMode    `json:"defaultMode" validate:"omitempty,oneof=group per-person"`
	Tier           Tier         `json:"tier" validate:"omitempty,oneof=budget standard luxury"`
}

// PartySize returns the traveller count used in arithmetic, floored to 1.
func (t TripSetup) PartySize() float64 {
	return math.Max(money.Numberify(t.People), 1)
}

// Mode returns the default share mode, falling back to group.
func (t TripSetup) Mode() ShareMode {
	if t.DefaultMode == ModePerPerson {
		return ModePerPerson
	}
	return ModeGroup
}

// AutoDays returns the inclusive day count between the start and end
// dates, or 0 when either is missing, malformed, or end precedes start.
func (t TripSetup) AutoDays() int {
	if t.StartDate == "" || t.EndDate == "" {
		return 0
	}
	start, err := time.Parse(dateLayout, t.StartDate)
	if err != nil {
		return 0
	}
	end, err := time.Parse(dateLayout, t.EndDate)
	if err != nil {
		return 0
	}
	diff := end.Sub(start)
	if diff < 0 {
		return 0
	}
	return int(diff/(24*time.Hour)) + 1
}

// AutoNights returns AutoDays minus one, never negative.
func (t TripSetup) AutoNights() int {
	if d := t.AutoDays(); d > 0 {
		return d - 1
	}
	return 0
}

// ValidVehicle reports whether v is a known vehicle kind.
func ValidVehicle(v string) bool {
	for _, k := range Vehicles {
		if string(k) == v {
			return true
		}
	}
	return false
}

// ValidTier reports whether v is a known tier.
func ValidTier(v string) bool {
	for _, k := range Tiers {
		if string(k) == v {
			return true
		}
	}
	return false
}

// ValidMode reports whether v is a known share mode.
func ValidMode(v string) bool {
	return v == string(ModeGroup) || v == string(ModePerPerson)
}
