package middleware

import (
	"testing"
	"time"
)

func TestValidReqID(t *testing.T) {
	for id, ok := range map[string]bool{
		"3b241101-e2bb-4255-8caf-4136c566a962": true,  // uuid v4
		"3B241101-E2BB-4255-8CAF-4136C566A962": true,  // case-insensitive
		"a1b2c3d4e5f60718293a4b5c6d7e8f90":     true,  // 32 hex
		"  a1b2c3d4e5f60718293a4b5c6d7e8f90 ":  true,  // trimmed
		"3b241101-e2bb-4255-8caf":              false, // truncated
		"not-a-request-id":                     false,
		"":                                     false,
	} {
		if got := validReqID(id); got != ok {
			t.Errorf("validReqID(%q) = %v, want %v", id, got, ok)
		}
	}
}

func TestParseAxRequestAt(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
	}{
		{"1736123456", time.Unix(1736123456, 0).UTC()},
		{"1736123456789", time.UnixMilli(1736123456789).UTC()},
		{"2026-08-29T10:00:00Z", time.Date(2026, time.August, 29, 10, 0, 0, 0, time.UTC)},
		{"2026-08-29T10:00:00+05:30", time.Date(2026, time.August, 29, 4, 30, 0, 0, time.UTC)},
		{"2026-08-29T10:00:00.123456789Z", time.Date(2026, time.August, 29, 10, 0, 0, 123456789, time.UTC)},
	}
	for _, tc := range cases {
		got, err := parseAxRequestAt(tc.raw)
		if err != nil {
			t.Errorf("parseAxRequestAt(%q): %v", tc.raw, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("parseAxRequestAt(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}

	for _, raw := range []string{
		"",
		"2026-08-29T10:00:00", // naive, no zone
		"29/08/2026",
		"next tuesday",
	} {
		if _, err := parseAxRequestAt(raw); err == nil {
			t.Errorf("parseAxRequestAt(%q): expected error", raw)
		}
	}
}

func TestBuildKey(t *testing.T) {
	got := buildKey("POST", "/api/v1/application", "a1b2", "req-1")
	want := "idemp:ax:post:/api/v1/application:a1b2:req-1"
	if got != want {
		t.Fatalf("buildKey = %q, want %q", got, want)
	}
}

func TestBodyHash(t *testing.T) {
	a := bodyHash([]byte(`{"x":1}`))
	b := bodyHash([]byte(`{"x":1}`))
	c := bodyHash([]byte(`{"x":2}`))
	if a != b {
		t.Fatal("same body must hash equal")
	}
	if a == c {
		t.Fatal("different bodies must hash different")
	}
	if len(a) != 64 {
		t.Fatalf("hash length = %d", len(a))
	}
}
