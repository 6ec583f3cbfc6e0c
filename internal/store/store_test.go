package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/theirongolddev/tripvault/internal/model"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "drafts.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDraftRoundTrip(t *testing.T) {
	s := openTemp(t)
	fixed := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	ids := &model.SequenceSource{}
	it := model.NewItinerary(model.DefaultTripSetup(), ids)
	it.Trip.Name = "Monsoon loop"
	it.Days[0].Panels.Stay = true
	it.Days[0].Collapsed = true
	it.Days[0].Misc.Toll = 240

	if err := s.SaveDraft(it); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	got, at, err := s.LoadDraft()
	if err != nil {
		t.Fatalf("LoadDraft: %v", err)
	}
	if !reflect.DeepEqual(got, it) {
		t.Fatalf("draft mismatch:\n got %+v\nwant %+v", got, it)
	}
	if !at.Equal(fixed) {
		t.Fatalf("draft time = %v, want %v", at, fixed)
	}

	stamp, ok, err := s.Get(KeyDraftTime)
	if err != nil || !ok {
		t.Fatalf("Get(%s) = %q, %v, %v", KeyDraftTime, stamp, ok, err)
	}
	if _, err := time.Parse(time.RFC3339, stamp); err != nil {
		t.Fatalf("draft time %q is not ISO-8601: %v", stamp, err)
	}
}

func TestLoadDraftMissing(t *testing.T) {
	s := openTemp(t)
	if _, _, err := s.LoadDraft(); !errors.Is(err, ErrNoDraft) {
		t.Fatalf("LoadDraft = %v, want ErrNoDraft", err)
	}
}

func TestLoadDraftCorrupt(t *testing.T) {
	s := openTemp(t)
	if err := s.Set(KeyDraft, "{not json"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.LoadDraft(); !errors.Is(err, ErrCorruptDraft) {
		t.Fatalf("LoadDraft = %v, want ErrCorruptDraft", err)
	}
}

func TestLoadDraftOntoMergesTrip(t *testing.T) {
	s := openTemp(t)
	if err := s.Set(KeyDraft, `{"trip":{"name":"Old draft","mileage":22}}`); err != nil {
		t.Fatal(err)
	}

	base := model.NewItinerary(model.DefaultTripSetup(), &model.SequenceSource{})
	got, _, err := s.LoadDraftOnto(base)
	if err != nil {
		t.Fatalf("LoadDraftOnto: %v", err)
	}
	if got.Trip.Name != "Old draft" || got.Trip.Mileage != 22 {
		t.Fatalf("trip = %+v", got.Trip)
	}
	if got.Trip.FuelPrice != 105 || got.Trip.People != 2 || got.Trip.Vehicle != model.VehicleCar {
		t.Fatalf("defaults not kept: %+v", got.Trip)
	}
	if len(got.Days) != 1 || got.Days[0].ID != base.Days[0].ID {
		t.Fatalf("days = %+v, want the base day", got.Days)
	}
}

func TestClearDraft(t *testing.T) {
	s := openTemp(t)
	if err := s.SaveDraft(model.NewItinerary(model.DefaultTripSetup(), &model.SequenceSource{})); err != nil {
		t.Fatal(err)
	}
	if err := s.ClearDraft(); err != nil {
		t.Fatalf("ClearDraft: %v", err)
	}
	if _, ok, _ := s.Get(KeyDraftTime); ok {
		t.Fatal("draft time survived ClearDraft")
	}
	if _, _, err := s.LoadDraft(); !errors.Is(err, ErrNoDraft) {
		t.Fatalf("LoadDraft after clear = %v", err)
	}
}

func TestCurrentTripID(t *testing.T) {
	s := openTemp(t)

	if _, ok, err := s.CurrentTripID(); ok || err != nil {
		t.Fatalf("fresh store has trip id (ok=%v err=%v)", ok, err)
	}
	if err := s.SetCurrentTripID(41); err != nil {
		t.Fatal(err)
	}
	if err := s.SetCurrentTripID(42); err != nil {
		t.Fatal(err)
	}
	id, ok, err := s.CurrentTripID()
	if err != nil || !ok || id != 42 {
		t.Fatalf("CurrentTripID = %d, %v, %v; want 42", id, ok, err)
	}
	if err := s.ClearCurrentTripID(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.CurrentTripID(); ok {
		t.Fatal("trip id survived ClearCurrentTripID")
	}
}
