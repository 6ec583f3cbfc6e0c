package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/theirongolddev/tripvault/internal/model"
	"github.com/theirongolddev/tripvault/internal/remote"
	"github.com/theirongolddev/tripvault/internal/share"
	"github.com/theirongolddev/tripvault/internal/store"
)

// DefaultAutosaveInterval is how often Autosave rewrites the draft.
const DefaultAutosaveInterval = 5 * time.Second

// DraftSource loads the saved draft on top of a starting plan.
type DraftSource interface {
	LoadDraftOnto(base model.Itinerary) (model.Itinerary, time.Time, error)
}

// Saver is the remote save endpoint.
type Saver interface {
	Save(ctx context.Context, id *int64, it model.Itinerary) (remote.SaveResult, error)
	SavedTripsURL() string
}

// TripIDCache remembers the server id of the plan being edited.
type TripIDCache interface {
	CurrentTripID() (int64, bool, error)
	SetCurrentTripID(id int64) error
}

// Hydrate builds the starting plan: the defaults, overlaid by the saved
// draft if there is a usable one, then by the shared plan when token
// decodes. Each layer only replaces what it carries. The result always has
// at least one day.
func Hydrate(drafts DraftSource, token string, defaults model.TripSetup, ids model.IDSource, log *slog.Logger) model.Itinerary {
	if log == nil {
		log = slog.Default()
	}
	if ids == nil {
		ids = model.UUIDSource{}
	}

	it := model.NewItinerary(defaults, ids)

	if drafts != nil {
		draft, at, err := drafts.LoadDraftOnto(it)
		switch {
		case errors.Is(err, store.ErrNoDraft):
			log.Debug("no saved draft")
		case err != nil:
			log.Warn("ignoring saved draft", "err", err)
		default:
			log.Debug("loaded draft", "saved_at", at, "days", len(draft.Days))
			it = draft
		}
	}

	if token != "" {
		shared, err := share.DecodeOnto(token, it)
		if err != nil {
			log.Debug("ignoring share link", "err", err)
		} else {
			it = shared
		}
	}

	it.EnsureDay(ids)
	return it
}

// SaveDraft writes the current plan to the draft store now.
func (s *Session) SaveDraft() error {
	if s.drafts == nil {
		return nil
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	return s.drafts.SaveDraft(s.Itinerary())
}

// Autosave rewrites the draft every interval until ctx is canceled.
func (s *Session) Autosave(ctx context.Context, interval time.Duration) {
	if s.drafts == nil {
		return
	}
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if len(s.Itinerary().Days) == 0 {
				continue
			}
			if err := s.SaveDraft(); err != nil {
				s.log.Warn("autosave failed", "err", err)
			}
		}
	}
}

// SaveOutcome describes a finished remote save.
type SaveOutcome struct {
	Result  remote.SaveResult
	Created bool
	Notice  Notice
}

// Save sends the plan to the save service. asNew forces a new record and
// marks the trip name as a copy. The notice is also published on the next
// frame. Local state is untouched when the save fails, apart from the copy
// rename.
func (s *Session) Save(ctx context.Context, saver Saver, cache TripIDCache, asNew bool) (SaveOutcome, error) {
	var id *int64
	if !asNew && cache != nil {
		cached, ok, err := cache.CurrentTripID()
		if err != nil {
			s.log.Warn("reading cached trip id", "err", err)
		} else if ok {
			id = &cached
		}
	}

	if asNew {
		s.mutate(true, func(it *model.Itinerary) bool {
			name := remote.CopyName(it.Trip.Name)
			if name == it.Trip.Name {
				return false
			}
			it.Trip.Name = name
			return true
		})
	}

	out := SaveOutcome{Created: id == nil}
	res, err := saver.Save(ctx, id, s.Itinerary())
	out.Result = res
	if err != nil {
		out.Notice = saveFailureNotice(err)
		s.log.Warn("remote save failed", "err", err)
		s.Notify(out.Notice)
		return out, err
	}

	if cache != nil {
		if err := cache.SetCurrentTripID(res.TripID); err != nil {
			s.log.Warn("caching trip id", "trip_id", res.TripID, "err", err)
		}
	}

	out.Notice = Notice{Kind: NoticeSuccess, Text: res.Message}
	if out.Notice.Text == "" {
		out.Notice.Text = "Trip saved."
	}
	if out.Created {
		out.Notice.Link = saver.SavedTripsURL()
	}
	s.log.Info("trip saved", "trip_id", res.TripID, "created", out.Created)
	s.Notify(out.Notice)
	return out, nil
}

func saveFailureNotice(err error) Notice {
	var auth *remote.AuthError
	if errors.As(err, &auth) {
		return Notice{Kind: NoticeError, Text: "Please log in to save trips.", Link: auth.LoginURL}
	}
	var se *remote.SaveError
	if errors.As(err, &se) && se.Message != "" {
		return Notice{Kind: NoticeError, Text: "Error: " + se.Message}
	}
	return Notice{Kind: NoticeError, Text: fmt.Sprintf("Failed to save trip. %v", err)}
}
