package cmd

import (
	"reflect"
	"testing"

	"github.com/theirongolddev/tripvault/internal/model"
	"github.com/theirongolddev/tripvault/internal/share"
)

func TestPlanTokenAcceptsLinkOrToken(t *testing.T) {
	it := model.NewItinerary(model.DefaultTripSetup(), &model.SequenceSource{})
	token, err := share.Encode(it)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	link, err := share.Link("http://127.0.0.1:8790/", it)
	if err != nil {
		t.Fatalf("Link: %v", err)
	}

	defer func() { flagPlan = "" }()

	flagPlan = link
	if got := planToken(); got != token {
		t.Fatalf("planToken(link) = %q, want %q", got, token)
	}
	flagPlan = "  " + token + " "
	if got := planToken(); got != token {
		t.Fatalf("planToken(token) = %q, want %q", got, token)
	}
	flagPlan = ""
	if got := planToken(); got != "" {
		t.Fatalf("planToken(empty) = %q", got)
	}
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"serve", "--detach", "--addr", "127.0.0.1:9000", "--detach=true"})
	want := []string{"serve", "--addr", "127.0.0.1:9000"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("filterDetachArg = %v, want %v", got, want)
	}
}

func TestParseTripID(t *testing.T) {
	if id, err := parseTripID("42"); err != nil || id != 42 {
		t.Fatalf("parseTripID(42) = %d, %v", id, err)
	}
	for _, bad := range []string{"", "0", "-3", "abc"} {
		if _, err := parseTripID(bad); err == nil {
			t.Fatalf("parseTripID(%q) accepted", bad)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "not set"},
		{"abc", "****"},
		{"abcdefgh", "ab..."},
		{"abcdefghijklmnop", "abcd...mnop"},
	}
	for _, tt := range tests {
		if got := maskSecret(tt.in); got != tt.want {
			t.Fatalf("maskSecret(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPIDFileRoundTrip(t *testing.T) {
	path := t.TempDir() + "/tripvault.pid"
	if err := writePID(path, 4321); err != nil {
		t.Fatalf("writePID: %v", err)
	}
	pid, err := readPID(path)
	if err != nil || pid != 4321 {
		t.Fatalf("readPID = %d, %v", pid, err)
	}
	if err := ensureServerNotRunning(t.TempDir() + "/missing.pid"); err != nil {
		t.Fatalf("missing pid file: %v", err)
	}
}
