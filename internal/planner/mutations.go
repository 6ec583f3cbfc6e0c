package planner

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/tripvault/internal/model"
	"github.com/theirongolddev/tripvault/internal/money"
)

// Trip setup fields accepted by SetTripField.
const (
	TripName           = "name"
	TripStartDate      = "startDate"
	TripEndDate        = "endDate"
	TripStartCity      = "startCity"
	TripEndCity        = "endCity"
	TripApproxDistance = "approxDistance"
	TripVehicle        = "vehicle"
	TripMileage        = "mileage"
	TripFuelPrice      = "fuelPrice"
	TripBikeMileage    = "bikeMileage"
	TripBikeFuelPrice  = "bikeFuelPrice"
	TripTrainTicket    = "trainTicket"
	TripFlightTicket   = "flightTicket"
	TripPeople         = "people"
	TripDefaultMode    = "defaultMode"
	TripTier           = "tier"
)

// Day fields accepted by SetDayField. Food amounts use FoodAmountField.
const (
	DayTitle          = "title"
	DayLocations      = "locations"
	DayImportantPlans = "importantPlans"
	DayDistance       = "distance"
	DayCabCost        = "cabCost"
	DayStayName       = "stay.name"
	DayStayCost       = "stay.cost"
	DayMiscParking    = "misc.parking"
	DayMiscToll       = "misc.toll"
	DayMiscSnacks     = "misc.snacks"
	DayMiscBuffer     = "misc.buffer"
)

// Line item fields accepted by the Update* operations.
const (
	ItemName = "name"
	ItemCost = "cost"
	ItemMode = "mode"
)

// Names given to lines added after a day is created.
const (
	NewActivityName = "New activity"
	NewCustomName   = "Custom item"
)

// AddKind selects how AddDay builds the new day.
type AddKind int

const (
	AddFromTemplate AddKind = iota
	AddCopyLast
)

// FoodAmountField returns the SetDayField name of a meal slot's amount.
func FoodAmountField(slot string) string { return "food." + slot + ".amount" }

func textOf(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// SetTripField sets one trip setup field. Numeric fields are coerced;
// an invalid enum value or unknown field is ignored and reports false.
func (s *Session) SetTripField(field string, value any) bool {
	full := false
	switch field {
	case TripVehicle, TripTier, TripPeople, TripDefaultMode:
		full = true
	}
	return s.mutate(full, func(it *model.Itinerary) bool {
		t := &it.Trip
		switch field {
		case TripName:
			t.Name = textOf(value)
		case TripStartDate:
			t.StartDate = textOf(value)
		case TripEndDate:
			t.EndDate = textOf(value)
		case TripStartCity:
			t.StartCity = textOf(value)
		case TripEndCity:
			t.EndCity = textOf(value)
		case TripApproxDistance:
			t.ApproxDistance = money.Number(money.Numberify(value))
		case TripMileage:
			t.Mileage = money.Number(money.Numberify(value))
		case TripFuelPrice:
			t.FuelPrice = money.Number(money.Numberify(value))
		case TripBikeMileage:
			t.BikeMileage = money.Number(money.Numberify(value))
		case TripBikeFuelPrice:
			t.BikeFuelPrice = money.Number(money.Numberify(value))
		case TripTrainTicket:
			t.TrainTicket = money.Number(money.Numberify(value))
		case TripFlightTicket:
			t.FlightTicket = money.Number(money.Numberify(value))
		case TripPeople:
			t.People = money.Number(money.Numberify(value))
		case TripVehicle:
			v := textOf(value)
			if !model.ValidVehicle(v) {
				return false
			}
			t.Vehicle = model.Vehicle(v)
		case TripDefaultMode:
			v := textOf(value)
			if !model.ValidMode(v) {
				return false
			}
			t.DefaultMode = model.ShareMode(v)
		case TripTier:
			v := textOf(value)
			if !model.ValidTier(v) {
				return false
			}
			t.Tier = model.Tier(v)
		default:
			return false
		}
		return true
	})
}

// AddDay appends a day and returns its id. AddCopyLast deep-copies the
// last day under fresh ids.
func (s *Session) AddDay(kind AddKind) string {
	var id string
	s.mutate(true, func(it *model.Itinerary) bool {
		seq := len(it.Days) + 1
		var d model.Day
		if kind == AddCopyLast && len(it.Days) > 0 {
			d = it.Days[len(it.Days)-1].Clone()
			d.Reassign(s.ids)
			d.Title = fmt.Sprintf("Day %d", seq)
		} else {
			d = model.NewDay(seq, it.Trip.Mode(), s.ids)
		}
		it.Days = append(it.Days, d)
		id = d.ID
		return true
	})
	return id
}

// DuplicateDay inserts a deep copy of the day right after it and returns
// the copy's id.
func (s *Session) DuplicateDay(dayID string) (string, bool) {
	var id string
	ok := s.mutate(true, func(it *model.Itinerary) bool {
		i := it.DayIndex(dayID)
		if i < 0 {
			return false
		}
		d := it.Days[i].Clone()
		d.Reassign(s.ids)
		d.Title = it.Days[i].Title + " copy"
		it.Days = append(it.Days[:i+1], append([]model.Day{d}, it.Days[i+1:]...)...)
		id = d.ID
		return true
	})
	return id, ok
}

// RemoveDay deletes a day. The sole remaining day is never removed.
func (s *Session) RemoveDay(dayID string) bool {
	return s.mutate(true, func(it *model.Itinerary) bool {
		if len(it.Days) <= 1 {
			return false
		}
		i := it.DayIndex(dayID)
		if i < 0 {
			return false
		}
		it.Days = append(it.Days[:i], it.Days[i+1:]...)
		return true
	})
}

// ReorderDays puts the days in the given id order. ids must name every
// day exactly once; otherwise the order is left alone.
func (s *Session) ReorderDays(ids []string) bool {
	return s.mutate(true, func(it *model.Itinerary) bool {
		if len(ids) != len(it.Days) {
			return false
		}
		out := make([]model.Day, 0, len(ids))
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			i := it.DayIndex(id)
			if i < 0 || seen[id] {
				return false
			}
			seen[id] = true
			out = append(out, it.Days[i])
		}
		it.Days = out
		return true
	})
}

// MoveDay shifts a day by delta positions, clamped to the ends.
func (s *Session) MoveDay(dayID string, delta int) bool {
	it := s.Itinerary()
	i := it.DayIndex(dayID)
	if i < 0 {
		return false
	}
	j := min(max(i+delta, 0), len(it.Days)-1)
	if i == j {
		return false
	}
	ids := make([]string, len(it.Days))
	for k, d := range it.Days {
		ids[k] = d.ID
	}
	ids = append(ids[:i], ids[i+1:]...)
	ids = append(ids[:j], append([]string{dayID}, ids[j:]...)...)
	return s.ReorderDays(ids)
}

// ToggleCollapse flips a day card between collapsed and expanded.
func (s *Session) ToggleCollapse(dayID string) bool {
	return s.withDay(dayID, true, func(d *model.Day) bool {
		d.Collapsed = !d.Collapsed
		return true
	})
}

// TogglePanel flips one collapsible panel of a day card.
func (s *Session) TogglePanel(dayID, panel string) bool {
	return s.withDay(dayID, true, func(d *model.Day) bool {
		return d.Panels.Toggle(panel)
	})
}

// SetDayField sets a scalar day field. Numeric fields are coerced.
func (s *Session) SetDayField(dayID, field string, value any) bool {
	return s.withDay(dayID, false, func(d *model.Day) bool {
		num := func() money.Number { return money.Number(money.Numberify(value)) }
		switch field {
		case DayTitle:
			d.Title = textOf(value)
		case DayLocations:
			d.Locations = textOf(value)
		case DayImportantPlans:
			d.ImportantPlans = textOf(value)
		case DayDistance:
			d.Distance = num()
		case DayCabCost:
			d.CabCost = num()
		case DayStayName:
			d.Stay.Name = textOf(value)
		case DayStayCost:
			d.Stay.Cost = num()
		case DayMiscParking:
			d.Misc.Parking = num()
		case DayMiscToll:
			d.Misc.Toll = num()
		case DayMiscSnacks:
			d.Misc.Snacks = num()
		case DayMiscBuffer:
			d.Misc.Buffer = num()
		default:
			slot, ok := foodSlotOf(field)
			if !ok {
				return false
			}
			d.Food.Slot(slot).Amount = num()
		}
		return true
	})
}

func foodSlotOf(field string) (string, bool) {
	rest, ok := strings.CutPrefix(field, "food.")
	if !ok {
		return "", false
	}
	slot, ok := strings.CutSuffix(rest, ".amount")
	if !ok {
		return "", false
	}
	for _, s := range model.FoodSlots {
		if s == slot {
			return slot, true
		}
	}
	return "", false
}

// SetFoodMode switches a meal slot between group and per-person.
func (s *Session) SetFoodMode(dayID, slot string, mode model.ShareMode) bool {
	if !model.ValidMode(string(mode)) {
		return false
	}
	return s.withDay(dayID, true, func(d *model.Day) bool {
		fs := d.Food.Slot(slot)
		if fs == nil {
			return false
		}
		fs.Mode = mode
		return true
	})
}

// SetTransportMode switches a day between self-driven and cab.
func (s *Session) SetTransportMode(dayID string, mode model.TransportMode) bool {
	if mode != model.TransportSelf && mode != model.TransportCab {
		return false
	}
	return s.withDay(dayID, true, func(d *model.Day) bool {
		d.TransportMode = mode
		return true
	})
}

// AddActivity appends a "New activity" line to a day.
func (s *Session) AddActivity(dayID string) (string, bool) {
	var id string
	ok := s.withDay(dayID, true, func(d *model.Day) bool {
		line := model.NewActivity(NewActivityName, s.mode(), s.ids)
		d.Activities = append(d.Activities, line)
		id = line.ID
		return true
	})
	return id, ok
}

// RemoveActivity deletes an activity line.
func (s *Session) RemoveActivity(dayID, actID string) bool {
	return s.withDay(dayID, true, func(d *model.Day) bool {
		return removeItem(&d.Activities, actID)
	})
}

// UpdateActivity sets the name, cost or mode of an activity line.
func (s *Session) UpdateActivity(dayID, actID, field string, value any) bool {
	return s.withDay(dayID, field == ItemMode, func(d *model.Day) bool {
		return updateItem(d.Activities, actID, field, value)
	})
}

// AddCustom appends a "Custom item" line to a day's misc expenses.
func (s *Session) AddCustom(dayID string) (string, bool) {
	var id string
	ok := s.withDay(dayID, true, func(d *model.Day) bool {
		line := model.NewCustomLine(NewCustomName, s.mode(), s.ids)
		d.CustomExpenses = append(d.CustomExpenses, line)
		id = line.ID
		return true
	})
	return id, ok
}

// RemoveCustom deletes a day's custom expense line.
func (s *Session) RemoveCustom(dayID, lineID string) bool {
	return s.withDay(dayID, true, func(d *model.Day) bool {
		return removeItem(&d.CustomExpenses, lineID)
	})
}

// UpdateCustom sets the name, cost or mode of a day's custom line.
func (s *Session) UpdateCustom(dayID, lineID, field string, value any) bool {
	return s.withDay(dayID, field == ItemMode, func(d *model.Day) bool {
		return updateItem(d.CustomExpenses, lineID, field, value)
	})
}

// AddGlobalCustom appends a trip-wide custom line.
func (s *Session) AddGlobalCustom() string {
	var id string
	s.mutate(true, func(it *model.Itinerary) bool {
		line := model.NewCustomLine(NewCustomName, it.Trip.Mode(), s.ids)
		it.GlobalCustom = append(it.GlobalCustom, line)
		id = line.ID
		return true
	})
	return id
}

// RemoveGlobalCustom deletes a trip-wide custom line.
func (s *Session) RemoveGlobalCustom(lineID string) bool {
	return s.mutate(true, func(it *model.Itinerary) bool {
		return removeItem(&it.GlobalCustom, lineID)
	})
}

// UpdateGlobalCustom sets the name, cost or mode of a trip-wide line.
func (s *Session) UpdateGlobalCustom(lineID, field string, value any) bool {
	return s.mutate(field == ItemMode, func(it *model.Itinerary) bool {
		return updateItem(it.GlobalCustom, lineID, field, value)
	})
}

// Reset keeps the trip setup and starts over with one blank day.
func (s *Session) Reset() {
	s.mutate(true, func(it *model.Itinerary) bool {
		it.Days = []model.Day{model.NewDay(1, it.Trip.Mode(), s.ids)}
		it.GlobalCustom = []model.LineItem{}
		return true
	})
}

// Replace swaps in a whole plan, e.g. one loaded from the save service.
func (s *Session) Replace(next model.Itinerary) {
	next = next.Clone()
	next.EnsureDay(s.ids)
	s.mutate(true, func(it *model.Itinerary) bool {
		*it = next
		return true
	})
}

// withDay runs fn against the day with the given id.
func (s *Session) withDay(dayID string, full bool, fn func(d *model.Day) bool) bool {
	return s.mutate(full, func(it *model.Itinerary) bool {
		d := it.Day(dayID)
		if d == nil {
			return false
		}
		return fn(d)
	})
}

// mode reads the default share mode. Callers hold s.mu.
func (s *Session) mode() model.ShareMode { return s.it.Trip.Mode() }

func removeItem(items *[]model.LineItem, id string) bool {
	i := model.FindItem(*items, id)
	if i < 0 {
		return false
	}
	*items = append((*items)[:i], (*items)[i+1:]...)
	return true
}

func updateItem(items []model.LineItem, id, field string, value any) bool {
	i := model.FindItem(items, id)
	if i < 0 {
		return false
	}
	line := &items[i]
	switch field {
	case ItemName:
		line.Name = textOf(value)
	case ItemCost:
		line.Cost = money.Number(money.Numberify(value))
	case ItemMode:
		v := textOf(value)
		if !model.ValidMode(v) {
			return false
		}
		line.Mode = model.ShareMode(v)
	default:
		return false
	}
	return true
}
