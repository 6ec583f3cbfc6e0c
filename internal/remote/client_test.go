package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/theirongolddev/tripvault/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL, opts...)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func plan() model.Itinerary {
	return model.NewItinerary(model.DefaultTripSetup(), &model.SequenceSource{})
}

func TestSaveSendsCSRFAndPayload(t *testing.T) {
	var got SavePayload
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != savePath || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if tok := r.Header.Get(csrfHeader); tok != "tok123" {
			t.Errorf("%s = %q, want tok123", csrfHeader, tok)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"success": true, "trip_id": 17, "message": "Trip 'x' saved successfully!"}`))
	}, WithCSRFToken("tok123"))

	res, err := c.Save(context.Background(), nil, plan())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if res.TripID != 17 || !res.Success {
		t.Fatalf("result = %+v", res)
	}
	if got.ID != nil {
		t.Fatalf("payload id = %v, want null", *got.ID)
	}
	if len(got.Days) != 1 || got.GlobalCustom == nil {
		t.Fatalf("payload = %+v", got)
	}
}

func TestSaveSendsExistingID(t *testing.T) {
	var raw map[string]json.RawMessage
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		_, _ = w.Write([]byte(`{"success": true, "trip_id": 9, "message": "updated"}`))
	}, WithCSRFToken("t"))

	id := int64(9)
	if _, err := c.Save(context.Background(), &id, plan()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if string(raw["id"]) != "9" {
		t.Fatalf("id = %s, want 9", raw["id"])
	}
}

func TestSaveUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, WithCSRFToken("t"))

	_, err := c.Save(context.Background(), nil, plan())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Save = %v, want ErrUnauthorized", err)
	}
	var ae *AuthError
	if !errors.As(err, &ae) || ae.LoginURL != c.LoginURL() {
		t.Fatalf("AuthError = %+v, want login url %s", ae, c.LoginURL())
	}
}

func TestSaveFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"server error", http.StatusInternalServerError, `oops`, "remote: unexpected status 500"},
		{"not found", http.StatusNotFound, `{"success": false, "message": "Trip not found"}`, "remote: Trip not found (HTTP 404)"},
		{"explicit failure", http.StatusOK, `{"success": false, "message": "Invalid JSON data"}`, "remote: Invalid JSON data (HTTP 200)"},
		{"malformed", http.StatusOK, `{"success": tru`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, WithCSRFToken("t"))

			_, err := c.Save(context.Background(), nil, plan())
			var se *SaveError
			if !errors.As(err, &se) {
				t.Fatalf("Save = %v, want *SaveError", err)
			}
			if tt.wantMsg != "" && err.Error() != tt.wantMsg {
				t.Fatalf("error = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestSaveTransportError(t *testing.T) {
	c, err := NewClient("http://127.0.0.1:1", WithCSRFToken("t"))
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Save(context.Background(), nil, plan())
	var se *SaveError
	if !errors.As(err, &se) {
		t.Fatalf("Save = %v, want *SaveError", err)
	}
}

func TestEnsureCSRFPrimesCookie(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case loginPath:
			http.SetCookie(w, &http.Cookie{Name: csrfCookie, Value: "primed", Path: "/"})
		case savePath:
			if got := r.Header.Get(csrfHeader); got != "primed" {
				t.Errorf("%s = %q, want primed", csrfHeader, got)
			}
			_, _ = w.Write([]byte(`{"success": true, "trip_id": 1, "message": "ok"}`))
		}
	})

	if _, err := c.Save(context.Background(), nil, plan()); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func TestCopyName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Goa", "Goa (copy)"},
		{"Goa (copy)", "Goa (copy)"},
		{"", "Untitled Trip (copy)"},
	}
	for _, tt := range tests {
		if got := CopyName(tt.in); got != tt.want {
			t.Errorf("CopyName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestListGetDelete(t *testing.T) {
	stored := plan()
	stored.Trip.Name = "Hampi"
	storedJSON, _ := json.Marshal(stored)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == listPath:
			_, _ = w.Write([]byte(`{"success": true, "trips": [{"id": 3, "name": "Hampi", "created_at": "2026-01-02T03:04:05Z", "updated_at": "2026-01-02T03:04:05Z"}]}`))
		case r.URL.Path == "/home/api/trip/3/":
			_, _ = w.Write([]byte(`{"success": true, "trip_name": "Hampi", "trip": ` + string(storedJSON) + `}`))
		case r.URL.Path == "/home/api/trip/3/delete/" && r.Method == http.MethodDelete:
			_, _ = w.Write([]byte(`{"success": true, "message": "Trip 'Hampi' deleted successfully!"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success": false, "message": "Trip not found"}`))
		}
	}, WithCSRFToken("t"))

	ctx := context.Background()
	trips, err := c.List(ctx)
	if err != nil || len(trips) != 1 || trips[0].ID != 3 {
		t.Fatalf("List = %+v, %v", trips, err)
	}

	it, name, err := c.Get(ctx, 3)
	if err != nil || name != "Hampi" || it.Trip.Name != "Hampi" || len(it.Days) != 1 {
		t.Fatalf("Get = %+v, %q, %v", it, name, err)
	}

	if _, _, err := c.Get(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(99) = %v, want ErrNotFound", err)
	}

	msg, err := c.Delete(ctx, 3)
	if err != nil || msg == "" {
		t.Fatalf("Delete = %q, %v", msg, err)
	}
}

func TestNewClientRejectsBadBase(t *testing.T) {
	for _, base := range []string{"", "ftp://x", "::"} {
		if _, err := NewClient(base); err == nil {
			t.Errorf("NewClient(%q) succeeded", base)
		}
	}
}
