package remote

import (
	"time"

	"github.com/theirongolddev/tripvault/internal/model"
)

// SavePayload is the body of a save request. A nil ID creates a new trip.
type SavePayload struct {
	ID           *int64           `json:"id"`
	Trip         model.TripSetup  `json:"trip"`
	Days         []model.Day      `json:"days"`
	GlobalCustom []model.LineItem `json:"globalCustom"`
}

// NewSavePayload builds the save body for it.
func NewSavePayload(id *int64, it model.Itinerary) SavePayload {
	days := it.Days
	if days == nil {
		days = []model.Day{}
	}
	global := it.GlobalCustom
	if global == nil {
		global = []model.LineItem{}
	}
	return SavePayload{ID: id, Trip: it.Trip, Days: days, GlobalCustom: global}
}

// SaveResult is the server's reply to a save.
type SaveResult struct {
	Success  bool   `json:"success"`
	TripID   int64  `json:"trip_id"`
	Message  string `json:"message"`
	TripName string `json:"trip_name"`
}

// TripSummary is one row of the saved-trip list.
type TripSummary struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type listResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Trips   []TripSummary `json:"trips"`
}

type getResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Trip     model.Itinerary `json:"trip"`
	TripName string          `json:"trip_name"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
