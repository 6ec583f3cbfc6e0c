package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/theirongolddev/tripvault/internal/model"
	"github.com/theirongolddev/tripvault/internal/planner"
)

// Action names accepted by POST /api/actions.
const (
	ActSetTrip            = "set-trip"
	ActAddDay             = "add-day"
	ActDuplicateDay       = "duplicate-day"
	ActRemoveDay          = "remove-day"
	ActReorderDays        = "reorder-days"
	ActCollapseDay        = "collapse-day"
	ActTogglePanel        = "toggle-panel"
	ActSetDay             = "set-day"
	ActTransportMode      = "transport-mode"
	ActSetFoodMode        = "set-food-mode"
	ActAddActivity        = "add-activity"
	ActRemoveActivity     = "remove-activity"
	ActUpdateActivity     = "update-activity"
	ActAddCustom          = "add-custom"
	ActRemoveCustom       = "remove-custom"
	ActUpdateCustom       = "update-custom"
	ActAddGlobalCustom    = "add-global-custom"
	ActRemoveGlobalCustom = "remove-global-custom"
	ActUpdateGlobalCustom = "update-global-custom"
	ActReset              = "reset"
)

// ActionRequest is the body of POST /api/actions.
type ActionRequest struct {
	Action string   `json:"action" validate:"required,oneof=set-trip add-day duplicate-day remove-day reorder-days collapse-day toggle-panel set-day transport-mode set-food-mode add-activity remove-activity update-activity add-custom remove-custom update-custom add-global-custom remove-global-custom update-global-custom reset"`
	DayID  string   `json:"dayId" validate:"required_if=Action duplicate-day,required_if=Action remove-day,required_if=Action collapse-day,required_if=Action toggle-panel,required_if=Action set-day,required_if=Action transport-mode,required_if=Action set-food-mode,required_if=Action add-activity,required_if=Action add-custom"`
	ItemID string   `json:"itemId"`
	Field  string   `json:"field"`
	Value  any      `json:"value"`
	Mode   string   `json:"mode"`
	Panel  string   `json:"panel" validate:"omitempty,oneof=stay food activities misc"`
	Slot   string   `json:"slot" validate:"omitempty,oneof=breakfast lunch dinner"`
	IDs    []string `json:"ids" validate:"required_if=Action reorder-days"`
}

type actionResponse struct {
	OK     bool   `json:"ok"`
	ID     string `json:"id,omitempty"`
	Error  string `json:"error,omitempty"`
	Action string `json:"action,omitempty"`
}

var validate = validator.New()

// errBadAction marks a request that failed validation.
var errBadAction = errors.New("invalid action")

func decodeAction(w http.ResponseWriter, r *http.Request) (ActionRequest, error) {
	var req ActionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("%w: %v", errBadAction, err)
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return req, fmt.Errorf("%w: %s failed %q", errBadAction, verrs[0].Field(), verrs[0].Tag())
		}
		return req, fmt.Errorf("%w: %v", errBadAction, err)
	}
	return req, nil
}

func (s *Service) handleAction(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAction(w, r)
	if err != nil {
		s.metrics.actions.WithLabelValues("invalid", "rejected").Inc()
		writeJSON(w, http.StatusBadRequest, actionResponse{Error: err.Error()})
		return
	}

	id, ok := s.apply(req)
	result := "noop"
	if ok {
		result = "applied"
	}
	s.metrics.actions.WithLabelValues(req.Action, result).Inc()
	s.log.Debug("action", "action", req.Action, "day", req.DayID, "item", req.ItemID, "field", req.Field, "ok", ok)

	writeJSON(w, http.StatusOK, actionResponse{OK: ok, ID: id, Action: req.Action})
}

// apply runs req against the session. It returns the id of anything
// created and whether the plan changed.
func (s *Service) apply(req ActionRequest) (string, bool) {
	sess := s.session
	switch req.Action {
	case ActSetTrip:
		return "", sess.SetTripField(req.Field, req.Value)
	case ActAddDay:
		kind := planner.AddFromTemplate
		if req.Mode == "copy-last" {
			kind = planner.AddCopyLast
		}
		return sess.AddDay(kind), true
	case ActDuplicateDay:
		return sess.DuplicateDay(req.DayID)
	case ActRemoveDay:
		return "", sess.RemoveDay(req.DayID)
	case ActReorderDays:
		return "", sess.ReorderDays(req.IDs)
	case ActCollapseDay:
		return "", sess.ToggleCollapse(req.DayID)
	case ActTogglePanel:
		return "", sess.TogglePanel(req.DayID, req.Panel)
	case ActSetDay:
		return "", sess.SetDayField(req.DayID, req.Field, req.Value)
	case ActTransportMode:
		return "", sess.SetTransportMode(req.DayID, model.TransportMode(req.Mode))
	case ActSetFoodMode:
		return "", sess.SetFoodMode(req.DayID, req.Slot, model.ShareMode(req.Mode))
	case ActAddActivity:
		return sess.AddActivity(req.DayID)
	case ActRemoveActivity:
		return "", sess.RemoveActivity(req.DayID, req.ItemID)
	case ActUpdateActivity:
		return "", sess.UpdateActivity(req.DayID, req.ItemID, req.Field, req.Value)
	case ActAddCustom:
		return sess.AddCustom(req.DayID)
	case ActRemoveCustom:
		return "", sess.RemoveCustom(req.DayID, req.ItemID)
	case ActUpdateCustom:
		return "", sess.UpdateCustom(req.DayID, req.ItemID, req.Field, req.Value)
	case ActAddGlobalCustom:
		return sess.AddGlobalCustom(), true
	case ActRemoveGlobalCustom:
		return "", sess.RemoveGlobalCustom(req.ItemID)
	case ActUpdateGlobalCustom:
		return "", sess.UpdateGlobalCustom(req.ItemID, req.Field, req.Value)
	case ActReset:
		sess.Reset()
		return "", true
	}
	return "", false
}
