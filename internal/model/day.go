package model

import (
	"fmt"

	"github.com/theirongolddev/tripvault/internal/money"
)

// TransportMode says how a day's travel is paid for.
type TransportMode string

const (
	TransportSelf TransportMode = "self"
	TransportCab  TransportMode = "cab"
)

// Food slot names.
const (
	SlotBreakfast = "breakfast"
	SlotLunch     = "lunch"
	SlotDinner    = "dinner"
)

// FoodSlots lists the fixed meal slots in display order.
var FoodSlots = []string{SlotBreakfast, SlotLunch, SlotDinner}

// Panel names of the collapsible sections of a day card.
const (
	PanelStay       = "stay"
	PanelFood       = "food"
	PanelActivities = "activities"
	PanelMisc       = "misc"
)

// Panels lists the collapsible panels in display order.
var Panels = []string{PanelStay, PanelFood, PanelActivities, PanelMisc}

// Stay is a day's accommodation, always priced for the whole group.
type Stay struct {
	Name string       `json:"name"`
	Cost money.Number `json:"cost"`
}

// FoodSlot is one meal's spend.
type FoodSlot struct {
	Amount money.Number `json:"amount"`
	Mode   ShareMode    `json:"mode" validate:"omitempty,oneof=group per-person"`
}

// Food holds the three fixed meal slots.
type Food struct {
	Breakfast FoodSlot `json:"breakfast"`
	Lunch     FoodSlot `json:"lunch"`
	Dinner    FoodSlot `json:"dinner"`
}

// Slot returns the named slot, or nil for an unknown name.
func (f *Food) Slot(name string) *FoodSlot {
	switch name {
	case SlotBreakfast:
		return &f.Breakfast
	case SlotLunch:
		return &f.Lunch
	case SlotDinner:
		return &f.Dinner
	}
	return nil
}

// Misc holds the flat, group-priced incidentals of a day.
type Misc struct {
	Parking money.Number `json:"parking"`
	Toll    money.Number `json:"toll"`
	Snacks  money.Number `json:"snacks"`
	Buffer  money.Number `json:"buffer"`
}

// Sum returns the total of the four misc fields.
func (m Misc) Sum() float64 {
	return money.Numberify(m.Parking) + money.Numberify(m.Toll) +
		money.Numberify(m.Snacks) + money.Numberify(m.Buffer)
}

// PanelState records which day-card panels are expanded. UI only.
type PanelState struct {
	Stay       bool `json:"stay"`
	Food       bool `json:"food"`
	Activities bool `json:"activities"`
	Misc       bool `json:"misc"`
}

// Toggle flips the named panel and reports whether the name was known.
func (p *PanelState) Toggle(name string) bool {
	switch name {
	case PanelStay:
		p.Stay = !p.Stay
	case PanelFood:
		p.Food = !p.Food
	case PanelActivities:
		p.Activities = !p.Activities
	case PanelMisc:
		p.Misc = !p.Misc
	default:
		return false
	}
	return true
}

// Open reports whether the named panel is expanded.
func (p PanelState) Open(name string) bool {
	switch name {
	case PanelStay:
		return p.Stay
	case PanelFood:
		return p.Food
	case PanelActivities:
		return p.Activities
	case PanelMisc:
		return p.Misc
	}
	return false
}

// LineItem is an activity or a custom expense line.
type LineItem struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Cost money.Number `json:"cost"`
	Mode ShareMode    `json:"mode" validate:"omitempty,oneof=group per-person"`
}

// Day is one day of the itinerary.
type Day struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Locations      string        `json:"locations"`
	ImportantPlans string        `json:"importantPlans"`
	Distance       money.Number  `json:"distance"`
	TransportMode  TransportMode `json:"transportMode" validate:"omitempty,oneof=self cab"`
	CabCost        money.Number  `json:"cabCost"`
	Stay           Stay          `json:"stay"`
	Food           Food          `json:"food"`
	Activities     []LineItem    `json:"activities" validate:"dive"`
	Misc           Misc          `json:"misc"`
	CustomExpenses []LineItem    `json:"customExpenses" validate:"dive"`
	Collapsed      bool          `json:"collapsed"`
	Panels         PanelState    `json:"panels"`
}

// NewDay returns the blank template for the seq-th day: one placeholder
// activity and every meal slot in the given mode.
func NewDay(seq int, mode ShareMode, ids IDSource) Day {
	return Day{
		ID:            ids.NewID(PrefixDay),
		Title:         fmt.Sprintf("Day %d", seq),
		TransportMode: TransportSelf,
		Food: Food{
			Breakfast: FoodSlot{Mode: mode},
			Lunch:     FoodSlot{Mode: mode},
			Dinner:    FoodSlot{Mode: mode},
		},
		Activities:     []LineItem{NewActivity("Activity", mode, ids)},
		CustomExpenses: []LineItem{},
	}
}

// NewActivity returns a zero-cost activity.
func NewActivity(name string, mode ShareMode, ids IDSource) LineItem {
	return LineItem{ID: ids.NewID(PrefixActivity), Name: name, Mode: mode}
}

// NewCustomLine returns a zero-cost custom expense line.
func NewCustomLine(name string, mode ShareMode, ids IDSource) LineItem {
	return LineItem{ID: ids.NewID(PrefixCustom), Name: name, Mode: mode}
}

// Clone returns a deep copy of d. Ids are kept.
func (d Day) Clone() Day {
	c := d
	c.Activities = cloneItems(d.Activities)
	c.CustomExpenses = cloneItems(d.CustomExpenses)
	return c
}

// Reassign gives d and every line item it owns fresh ids.
func (d *Day) Reassign(ids IDSource) {
	d.ID = ids.NewID(PrefixDay)
	for i := range d.Activities {
		d.Activities[i].ID = ids.NewID(PrefixActivity)
	}
	for i := range d.CustomExpenses {
		d.CustomExpenses[i].ID = ids.NewID(PrefixCustom)
	}
}

func cloneItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

// FindItem returns the index of the item with the given id, or -1.
func FindItem(items []LineItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
