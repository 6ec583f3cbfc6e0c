package planner

import (
	"context"
	"encoding/base64"
	"errors"
	"math"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/theirongolddev/tripvault/internal/model"
	"github.com/theirongolddev/tripvault/internal/pipeline"
	"github.com/theirongolddev/tripvault/internal/remote"
	"github.com/theirongolddev/tripvault/internal/share"
	"github.com/theirongolddev/tripvault/internal/store"
)

type memDrafts struct {
	mu    sync.Mutex
	saves int
	last  model.Itinerary
	err   error
}

func (m *memDrafts) SaveDraft(it model.Itinerary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saves++
	m.last = it
	return nil
}

func (m *memDrafts) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func newSession(t *testing.T, opts Options) *Session {
	t.Helper()
	if opts.IDs == nil {
		opts.IDs = &model.SequenceSource{}
	}
	if opts.FastWindow == 0 {
		opts.FastWindow = time.Hour
	}
	if opts.SlowWindow == 0 {
		opts.SlowWindow = time.Hour
	}
	s := New(model.Itinerary{Trip: model.DefaultTripSetup()}, opts)
	t.Cleanup(s.Close)
	return s
}

func firstDayID(s *Session) string { return s.Itinerary().Days[0].ID }

func TestNewEnsuresOneDay(t *testing.T) {
	s := newSession(t, Options{})
	it := s.Itinerary()
	if len(it.Days) != 1 {
		t.Fatalf("days = %d, want 1", len(it.Days))
	}
	if it.GlobalCustom == nil {
		t.Fatal("GlobalCustom is nil, want empty slice")
	}
}

func TestRemoveSoleDayIsNoop(t *testing.T) {
	s := newSession(t, Options{})
	if s.RemoveDay(firstDayID(s)) {
		t.Fatal("RemoveDay on the sole day reported a change")
	}
	if s.Pending() {
		t.Fatal("no-op removal scheduled a render")
	}
	if n := len(s.Itinerary().Days); n != 1 {
		t.Fatalf("days = %d, want 1", n)
	}

	second := s.AddDay(AddFromTemplate)
	if !s.RemoveDay(second) {
		t.Fatal("RemoveDay(second) = false")
	}
	if s.RemoveDay("day-missing") {
		t.Fatal("RemoveDay(unknown) = true")
	}
}

func TestDuplicateDayFreshIDs(t *testing.T) {
	s := newSession(t, Options{})
	src := firstDayID(s)
	s.AddDay(AddFromTemplate)
	s.SetDayField(src, DayStayCost, "1200")
	s.AddCustom(src)

	dup, ok := s.DuplicateDay(src)
	if !ok {
		t.Fatal("DuplicateDay = false")
	}
	it := s.Itinerary()
	if len(it.Days) != 3 {
		t.Fatalf("days = %d, want 3", len(it.Days))
	}
	orig, copyDay := it.Days[0], it.Days[1]
	if copyDay.ID != dup {
		t.Fatalf("copy inserted at %q, want %q right after source", copyDay.ID, dup)
	}
	if copyDay.ID == orig.ID {
		t.Fatal("copy shares the source day id")
	}
	if copyDay.Title != "Day 1 copy" {
		t.Fatalf("title = %q, want %q", copyDay.Title, "Day 1 copy")
	}
	if copyDay.Stay.Cost != 1200 {
		t.Fatalf("stay cost = %v, want 1200", copyDay.Stay.Cost)
	}
	if copyDay.Activities[0].ID == orig.Activities[0].ID {
		t.Fatal("copied activity kept its id")
	}
	if copyDay.CustomExpenses[0].ID == orig.CustomExpenses[0].ID {
		t.Fatal("copied custom line kept its id")
	}

	if _, ok := s.DuplicateDay("nope"); ok {
		t.Fatal("DuplicateDay(unknown) = true")
	}
}

func TestAddDayCopyLast(t *testing.T) {
	s := newSession(t, Options{})
	first := firstDayID(s)
	s.SetDayField(first, DayDistance, 240)
	s.SetDayField(first, DayTitle, "Drive to Goa")

	id := s.AddDay(AddCopyLast)
	it := s.Itinerary()
	last := it.Days[1]
	if last.ID != id || last.ID == first {
		t.Fatalf("new day id = %q, want fresh id %q", last.ID, id)
	}
	if last.Title != "Day 2" {
		t.Fatalf("title = %q, want Day 2", last.Title)
	}
	if last.Distance != 240 {
		t.Fatalf("distance = %v, want 240", last.Distance)
	}
}

func TestReorderDays(t *testing.T) {
	s := newSession(t, Options{})
	a := firstDayID(s)
	b := s.AddDay(AddFromTemplate)
	c := s.AddDay(AddFromTemplate)

	tests := []struct {
		name string
		ids  []string
		ok   bool
		want []string
	}{
		{"permutation", []string{c, a, b}, true, []string{c, a, b}},
		{"missing id", []string{a, b}, false, []string{c, a, b}},
		{"unknown id", []string{a, b, "x"}, false, []string{c, a, b}},
		{"duplicate id", []string{a, a, b}, false, []string{c, a, b}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.ReorderDays(tt.ids); got != tt.ok {
				t.Fatalf("ReorderDays = %v, want %v", got, tt.ok)
			}
			days := s.Itinerary().Days
			for i, id := range tt.want {
				if days[i].ID != id {
					t.Fatalf("day[%d] = %q, want %q", i, days[i].ID, id)
				}
			}
		})
	}

	if !s.MoveDay(a, 1) {
		t.Fatal("MoveDay = false")
	}
	if got := s.Itinerary().Days[2].ID; got != a {
		t.Fatalf("last day = %q, want %q", got, a)
	}
	if s.MoveDay(a, 1) {
		t.Fatal("MoveDay past the end reported a change")
	}
}

func TestSetTripField(t *testing.T) {
	s := newSession(t, Options{})

	if !s.SetTripField(TripPeople, "4 people") {
		t.Fatal("SetTripField(people) = false")
	}
	if !s.SetTripField(TripFuelPrice, "abc") {
		t.Fatal("SetTripField(fuelPrice) = false")
	}
	if s.SetTripField(TripVehicle, "rocket") {
		t.Fatal("invalid vehicle accepted")
	}
	if s.SetTripField(TripTier, "gold") {
		t.Fatal("invalid tier accepted")
	}
	if s.SetTripField("colour", "red") {
		t.Fatal("unknown field accepted")
	}
	s.SetTripField(TripTier, "luxury")
	s.SetTripField(TripName, "Goa")

	trip := s.Itinerary().Trip
	if trip.People != 4 || trip.FuelPrice != 0 {
		t.Fatalf("people = %v fuel = %v, want 4 and 0", trip.People, trip.FuelPrice)
	}
	if trip.Vehicle != model.VehicleCar || trip.Tier != model.TierLuxury || trip.Name != "Goa" {
		t.Fatalf("trip = %+v", trip)
	}
}

func TestSetDayFieldFood(t *testing.T) {
	s := newSession(t, Options{})
	id := firstDayID(s)

	if !s.SetDayField(id, FoodAmountField(model.SlotLunch), "350") {
		t.Fatal("SetDayField(food.lunch.amount) = false")
	}
	if s.SetDayField(id, "food.brunch.amount", 1) {
		t.Fatal("unknown slot accepted")
	}
	if s.SetDayField("nope", DayTitle, "x") {
		t.Fatal("unknown day accepted")
	}
	if got := s.Itinerary().Days[0].Food.Lunch.Amount; got != 350 {
		t.Fatalf("lunch = %v, want 350", got)
	}
}

func TestLineModeFixedAtCreation(t *testing.T) {
	s := newSession(t, Options{})
	id := firstDayID(s)

	before, _ := s.AddActivity(id)
	s.SetTripField(TripDefaultMode, string(model.ModePerPerson))
	after, _ := s.AddActivity(id)

	acts := s.Itinerary().Days[0].Activities
	modes := map[string]model.ShareMode{}
	for _, a := range acts {
		modes[a.ID] = a.Mode
	}
	if modes[before] != model.ModeGroup {
		t.Fatalf("earlier line mode = %q, want group", modes[before])
	}
	if modes[after] != model.ModePerPerson {
		t.Fatalf("later line mode = %q, want per-person", modes[after])
	}
	if acts[len(acts)-1].Name != NewActivityName {
		t.Fatalf("name = %q, want %q", acts[len(acts)-1].Name, NewActivityName)
	}
}

func TestLineItems(t *testing.T) {
	s := newSession(t, Options{})
	day := firstDayID(s)

	line, ok := s.AddCustom(day)
	if !ok {
		t.Fatal("AddCustom = false")
	}
	if !s.UpdateCustom(day, line, ItemCost, "500") {
		t.Fatal("UpdateCustom(cost) = false")
	}
	if s.UpdateCustom(day, line, ItemMode, "everyone") {
		t.Fatal("invalid mode accepted")
	}
	if s.UpdateCustom(day, "custom-x", ItemName, "x") {
		t.Fatal("unknown line accepted")
	}

	g := s.AddGlobalCustom()
	s.UpdateGlobalCustom(g, ItemCost, 1000)
	s.UpdateGlobalCustom(g, ItemMode, string(model.ModePerPerson))

	_, res := s.Snapshot()
	// 500 misc, 1000 x 2 people unscaled.
	if math.Abs(res.TripTotal-2500) > 1e-9 {
		t.Fatalf("TripTotal = %.2f, want 2500", res.TripTotal)
	}

	if !s.RemoveCustom(day, line) || !s.RemoveGlobalCustom(g) {
		t.Fatal("remove reported no change")
	}
	act := s.Itinerary().Days[0].Activities[0].ID
	if !s.RemoveActivity(day, act) {
		t.Fatal("RemoveActivity = false")
	}
	_, res = s.Snapshot()
	if res.TripTotal != 0 {
		t.Fatalf("TripTotal = %.2f, want 0", res.TripTotal)
	}
}

func TestTogglesAndModes(t *testing.T) {
	s := newSession(t, Options{})
	id := firstDayID(s)

	s.ToggleCollapse(id)
	s.TogglePanel(id, model.PanelFood)
	if s.TogglePanel(id, "garage") {
		t.Fatal("unknown panel accepted")
	}
	s.SetTransportMode(id, model.TransportCab)
	if s.SetTransportMode(id, "teleport") {
		t.Fatal("unknown transport mode accepted")
	}
	s.SetFoodMode(id, model.SlotDinner, model.ModePerPerson)

	d := s.Itinerary().Days[0]
	if !d.Collapsed || !d.Panels.Food || d.Panels.Stay {
		t.Fatalf("ui state = collapsed %v panels %+v", d.Collapsed, d.Panels)
	}
	if d.TransportMode != model.TransportCab || d.Food.Dinner.Mode != model.ModePerPerson {
		t.Fatalf("modes = %q %q", d.TransportMode, d.Food.Dinner.Mode)
	}
}

func TestResetKeepsTrip(t *testing.T) {
	s := newSession(t, Options{})
	s.SetTripField(TripName, "Ladakh")
	s.AddDay(AddFromTemplate)
	s.AddGlobalCustom()

	s.Reset()
	it := s.Itinerary()
	if it.Trip.Name != "Ladakh" {
		t.Fatalf("trip name = %q, want Ladakh", it.Trip.Name)
	}
	if len(it.Days) != 1 || len(it.GlobalCustom) != 0 {
		t.Fatalf("days = %d global = %d, want 1 and 0", len(it.Days), len(it.GlobalCustom))
	}
	if it.Days[0].Title != "Day 1" {
		t.Fatalf("title = %q, want Day 1", it.Days[0].Title)
	}
}

func TestReplaceEnsuresDay(t *testing.T) {
	s := newSession(t, Options{})
	s.Replace(model.Itinerary{Trip: model.TripSetup{Name: "Empty"}})
	it := s.Itinerary()
	if it.Trip.Name != "Empty" || len(it.Days) != 1 {
		t.Fatalf("replaced plan = %+v", it)
	}
}

func TestFlushPublishesFrames(t *testing.T) {
	drafts := &memDrafts{}
	s := newSession(t, Options{Drafts: drafts})
	_, ch := s.Subscribe(4)

	s.SetDayField(firstDayID(s), DayStayCost, 900)
	s.Flush()
	f := <-ch
	if f.Full {
		t.Fatal("field edit produced a full frame")
	}
	if math.Abs(f.Result.TripTotal-900) > 1e-9 {
		t.Fatalf("TripTotal = %.2f, want 900", f.Result.TripTotal)
	}

	s.SetDayField(firstDayID(s), DayStayCost, 1000)
	s.AddDay(AddFromTemplate)
	s.Flush()
	f = <-ch
	if !f.Full || len(f.Itinerary.Days) != 2 {
		t.Fatalf("frame full=%v days=%d, want full with 2 days", f.Full, len(f.Itinerary.Days))
	}
	if s.Pending() {
		t.Fatal("full pass left the totals pass pending")
	}
	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra frame %d", extra.Seq)
	default:
	}
	if drafts.count() != 2 {
		t.Fatalf("draft saves = %d, want 2", drafts.count())
	}
}

func TestDebounceCoalescesBurst(t *testing.T) {
	s := newSession(t, Options{FastWindow: 20 * time.Millisecond, SlowWindow: 20 * time.Millisecond})
	_, ch := s.Subscribe(8)
	id := firstDayID(s)

	for i := 0; i < 10; i++ {
		s.SetDayField(id, DayDistance, i)
	}

	select {
	case f := <-ch:
		if f.Itinerary.Days[0].Distance != 9 {
			t.Fatalf("distance = %v, want 9", f.Itinerary.Days[0].Distance)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no frame after burst")
	}

	select {
	case f := <-ch:
		t.Fatalf("burst produced a second frame %d", f.Seq)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSubscriberDropsWhenFull(t *testing.T) {
	s := newSession(t, Options{})
	id, ch := s.Subscribe(1)
	for i := 0; i < 3; i++ {
		s.AddDay(AddFromTemplate)
		s.Flush()
	}
	if f := <-ch; f.Seq != 1 {
		t.Fatalf("buffered frame seq = %d, want 1", f.Seq)
	}
	s.Unsubscribe(id)
	if _, open := <-ch; open {
		t.Fatal("channel still open after Unsubscribe")
	}
	if s.Subscribers() != 0 {
		t.Fatalf("subscribers = %d, want 0", s.Subscribers())
	}
}

func TestNoticeRidesNextFrame(t *testing.T) {
	s := newSession(t, Options{})
	_, ch := s.Subscribe(4)

	s.Notify(Notice{Kind: NoticeInfo, Text: "Shareable link copied"})
	s.Flush()
	if f := <-ch; f.Notice == nil || f.Notice.Text != "Shareable link copied" {
		t.Fatalf("notice = %+v", f.Notice)
	}
	s.Refresh()
	s.Flush()
	if f := <-ch; f.Notice != nil {
		t.Fatalf("notice repeated on later frame: %+v", f.Notice)
	}
}

func TestDraftSaveFailureKeepsRendering(t *testing.T) {
	drafts := &memDrafts{err: errors.New("disk full")}
	s := newSession(t, Options{Drafts: drafts})
	_, ch := s.Subscribe(4)

	s.AddDay(AddFromTemplate)
	s.Flush()
	if f := <-ch; len(f.Itinerary.Days) != 2 {
		t.Fatalf("days = %d, want 2", len(f.Itinerary.Days))
	}
}

func TestDraftRoundTripThroughStore(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "drafts.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer func() { _ = st.Close() }()

	ids := &model.SequenceSource{}
	s := New(model.Itinerary{Trip: model.DefaultTripSetup()}, Options{IDs: ids, Drafts: st, FastWindow: time.Hour, SlowWindow: time.Hour})
	id := firstDayID(s)
	s.ToggleCollapse(id)
	s.TogglePanel(id, model.PanelMisc)
	s.SetDayField(id, DayMiscToll, "250")
	s.Close()

	it := Hydrate(st, "", model.DefaultTripSetup(), ids, nil)
	d := it.Days[0]
	if d.ID != id || !d.Collapsed || !d.Panels.Misc || d.Misc.Toll != 250 {
		t.Fatalf("hydrated day = %+v", d)
	}
}

type fakeDrafts struct {
	doc string
	err error
}

func (f fakeDrafts) LoadDraftOnto(base model.Itinerary) (model.Itinerary, time.Time, error) {
	if f.err != nil {
		return model.Itinerary{}, time.Time{}, f.err
	}
	it, err := base.Overlay([]byte(f.doc))
	return it, time.Time{}, err
}

func TestHydrate(t *testing.T) {
	ids := &model.SequenceSource{}
	draft := fakeDrafts{doc: `{"trip":{"name":"Draft","mileage":20},"days":[{"id":"dd","title":"Draft day","distance":180}]}`}
	shared := model.NewItinerary(model.DefaultTripSetup(), ids)
	shared.Trip.Name = "Shared"
	token, err := share.Encode(shared)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	partial := base64.StdEncoding.EncodeToString([]byte(`{"trip":{"name":"Partial"}}`))

	tests := []struct {
		name    string
		drafts  DraftSource
		token   string
		want    string
		mileage float64
		dayID   string
	}{
		{"nothing saved", fakeDrafts{err: store.ErrNoDraft}, "", "", 18, ""},
		{"corrupt draft", fakeDrafts{err: store.ErrCorruptDraft}, "", "", 18, ""},
		{"draft", draft, "", "Draft", 20, "dd"},
		{"share wins", draft, token, "Shared", 18, shared.Days[0].ID},
		{"partial share keeps draft", draft, partial, "Partial", 20, "dd"},
		{"bad share ignored", draft, "%%%not-base64", "Draft", 20, "dd"},
		{"no store", nil, token, "Shared", 18, shared.Days[0].ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := Hydrate(tt.drafts, tt.token, model.DefaultTripSetup(), ids, nil)
			if it.Trip.Name != tt.want {
				t.Fatalf("trip name = %q, want %q", it.Trip.Name, tt.want)
			}
			if math.Abs(float64(it.Trip.Mileage)-tt.mileage) > 1e-9 {
				t.Fatalf("mileage = %v, want %v", it.Trip.Mileage, tt.mileage)
			}
			if len(it.Days) == 0 {
				t.Fatal("hydrated plan has no days")
			}
			if tt.dayID != "" && it.Days[0].ID != tt.dayID {
				t.Fatalf("first day = %q, want %q", it.Days[0].ID, tt.dayID)
			}
			if it.GlobalCustom == nil {
				t.Fatal("globalCustom is nil")
			}
		})
	}

	// A draft that only names the trip still prices with the default car.
	it := Hydrate(fakeDrafts{doc: `{"trip":{"name":"Only name"}}`}, "", model.DefaultTripSetup(), ids, nil)
	if len(it.Days) != 1 {
		t.Fatalf("days = %d, want 1", len(it.Days))
	}
	d := it.Days[0]
	d.Distance = 180
	if fuel := pipeline.CalcDay(d, it.Trip).Fuel; math.Abs(fuel-1050) > 1e-9 {
		t.Fatalf("fuel = %v, want 1050", fuel)
	}
}

func TestAutosave(t *testing.T) {
	drafts := &memDrafts{}
	s := newSession(t, Options{Drafts: drafts})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Autosave(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for drafts.count() < 2 {
		select {
		case <-deadline:
			t.Fatalf("autosave wrote %d drafts, want at least 2", drafts.count())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}

type fakeSaver struct {
	gotID  *int64
	gotIt  model.Itinerary
	result remote.SaveResult
	err    error
}

func (f *fakeSaver) Save(_ context.Context, id *int64, it model.Itinerary) (remote.SaveResult, error) {
	f.gotID = id
	f.gotIt = it
	return f.result, f.err
}

func (f *fakeSaver) SavedTripsURL() string { return "http://trips.test/home/saved/" }

type memIDs struct {
	id  int64
	set bool
}

func (m *memIDs) CurrentTripID() (int64, bool, error) { return m.id, m.set, nil }
func (m *memIDs) SetCurrentTripID(id int64) error {
	m.id, m.set = id, true
	return nil
}

func TestSave(t *testing.T) {
	s := newSession(t, Options{})
	s.SetTripField(TripName, "Goa")
	cache := &memIDs{}
	saver := &fakeSaver{result: remote.SaveResult{Success: true, TripID: 42, Message: "Trip 'Goa' saved successfully!"}}

	out, err := s.Save(context.Background(), saver, cache, false)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saver.gotID != nil || !out.Created {
		t.Fatalf("first save sent id %v created=%v, want nil and created", saver.gotID, out.Created)
	}
	if cache.id != 42 || out.Notice.Link == "" {
		t.Fatalf("cache = %d notice = %+v", cache.id, out.Notice)
	}

	saver.result.TripID = 42
	out, err = s.Save(context.Background(), saver, cache, false)
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if saver.gotID == nil || *saver.gotID != 42 || out.Created || out.Notice.Link != "" {
		t.Fatalf("update sent id %v created=%v link=%q", saver.gotID, out.Created, out.Notice.Link)
	}

	saver.result.TripID = 43
	if _, err := s.Save(context.Background(), saver, cache, true); err != nil {
		t.Fatalf("save as new: %v", err)
	}
	if saver.gotID != nil {
		t.Fatalf("save as new sent id %d", *saver.gotID)
	}
	if saver.gotIt.Trip.Name != "Goa (copy)" || s.Itinerary().Trip.Name != "Goa (copy)" {
		t.Fatalf("names = %q / %q, want copy suffix", saver.gotIt.Trip.Name, s.Itinerary().Trip.Name)
	}
	if cache.id != 43 {
		t.Fatalf("cached id = %d, want 43", cache.id)
	}

	if _, err := s.Save(context.Background(), saver, cache, true); err != nil {
		t.Fatalf("second save as new: %v", err)
	}
	if s.Itinerary().Trip.Name != "Goa (copy)" {
		t.Fatalf("name = %q, copy suffix applied twice", s.Itinerary().Trip.Name)
	}
}

func TestSaveFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantText string
		wantLink string
	}{
		{"unauthorized", &remote.AuthError{LoginURL: "http://trips.test/user/login/"}, "Please log in to save trips.", "http://trips.test/user/login/"},
		{"server said no", &remote.SaveError{Status: 400, Message: "Invalid JSON data"}, "Error: Invalid JSON data", ""},
		{"transport", &remote.SaveError{Err: errors.New("connection refused")}, "Failed to save trip. remote: connection refused", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, Options{})
			_, ch := s.Subscribe(4)
			cache := &memIDs{id: 7, set: true}
			before := s.Itinerary()

			out, err := s.Save(context.Background(), &fakeSaver{err: tt.err}, cache, false)
			if !errors.Is(err, tt.err) {
				t.Fatalf("Save err = %v, want %v", err, tt.err)
			}
			if out.Notice.Kind != NoticeError || out.Notice.Text != tt.wantText || out.Notice.Link != tt.wantLink {
				t.Fatalf("notice = %+v", out.Notice)
			}
			if cache.id != 7 {
				t.Fatalf("cached id changed to %d", cache.id)
			}
			if s.Itinerary().Trip != before.Trip {
				t.Fatal("failed save changed the plan")
			}

			s.Flush()
			if f := <-ch; f.Notice == nil || f.Notice.Kind != NoticeError {
				t.Fatalf("frame notice = %+v", f.Notice)
			}
		})
	}
}

func TestDebouncer(t *testing.T) {
	var runs atomic.Int32
	d := NewDebouncer(time.Hour, func() { runs.Add(1) })

	if d.Flush() {
		t.Fatal("Flush ran with nothing pending")
	}
	d.Trigger()
	d.Trigger()
	if !d.Flush() || runs.Load() != 1 {
		t.Fatalf("runs = %d, want 1", runs.Load())
	}

	d.Trigger()
	if !d.Cancel() || d.Pending() {
		t.Fatal("Cancel did not drop the pending run")
	}
	d.Stop()
	d.Trigger()
	if d.Pending() {
		t.Fatal("stopped debouncer accepted a trigger")
	}
	if runs.Load() != 1 {
		t.Fatalf("runs = %d, want 1", runs.Load())
	}
}
