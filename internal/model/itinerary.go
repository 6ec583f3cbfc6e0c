package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Itinerary is the single source of truth for a plan: trip setup, ordered
// days and the trip-wide custom lines. It is also the draft, share-link
// and remote-save document.
type Itinerary struct {
	Trip         TripSetup  `json:"trip"`
	Days         []Day      `json:"days" validate:"dive"`
	GlobalCustom []LineItem `json:"globalCustom" validate:"dive"`
}

// DefaultTripSetup returns the setup a brand-new plan starts with.
func DefaultTripSetup() TripSetup {
	return TripSetup{
		Vehicle:       VehicleCar,
		Mileage:       18,
		FuelPrice:     105,
		BikeMileage:   50,
		BikeFuelPrice: 100,
		People:        2,
		DefaultMode:   ModeGroup,
		Tier:          TierStandard,
	}
}

// NewItinerary returns a plan with the given setup and one template day.
func NewItinerary(trip TripSetup, ids IDSource) Itinerary {
	return Itinerary{
		Trip:         trip,
		Days:         []Day{NewDay(1, trip.Mode(), ids)},
		GlobalCustom: []LineItem{},
	}
}

// Clone returns a deep copy of it.
func (it Itinerary) Clone() Itinerary {
	c := it
	if it.Days != nil {
		c.Days = make([]Day, len(it.Days))
		for i, d := range it.Days {
			c.Days[i] = d.Clone()
		}
	}
	c.GlobalCustom = cloneItems(it.GlobalCustom)
	return c
}

// Overlay decodes a plan document on top of it. Trip fields present in
// data replace the current ones and the rest are kept. Days are kept when
// data carries none, while the trip-wide lines are reset.
func (it Itinerary) Overlay(data []byte) (Itinerary, error) {
	out := it.Clone()
	doc := struct {
		Trip         *TripSetup `json:"trip"`
		Days         []Day      `json:"days"`
		GlobalCustom []LineItem `json:"globalCustom"`
	}{Trip: &out.Trip}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Itinerary{}, err
	}

	if doc.Days != nil {
		out.Days = doc.Days
	}
	out.GlobalCustom = doc.GlobalCustom
	if out.GlobalCustom == nil {
		out.GlobalCustom = []LineItem{}
	}
	return out, nil
}

// DayIndex returns the position of the day with the given id, or -1.
func (it *Itinerary) DayIndex(id string) int {
	for i := range it.Days {
		if it.Days[i].ID == id {
			return i
		}
	}
	return -1
}

// Day returns a pointer to the day with the given id, or nil.
func (it *Itinerary) Day(id string) *Day {
	if i := it.DayIndex(id); i >= 0 {
		return &it.Days[i]
	}
	return nil
}

// EnsureDay appends a template day when the plan has none.
func (it *Itinerary) EnsureDay(ids IDSource) {
	if len(it.Days) == 0 {
		it.Days = []Day{NewDay(1, it.Trip.Mode(), ids)}
	}
	if it.GlobalCustom == nil {
		it.GlobalCustom = []LineItem{}
	}
}

var validate = validator.New()

// ErrInvalidItinerary wraps structural validation failures.
var ErrInvalidItinerary = errors.New("model: invalid itinerary")

// Validate checks enum fields throughout the plan. Numeric fields are never
// rejected; they are coerced on decode.
func (it Itinerary) Validate() error {
	if err := validate.Struct(it); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed %q", ErrInvalidItinerary, verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidItinerary, err)
	}
	return nil
}
