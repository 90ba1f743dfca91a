package appnum

import (
	"strings"
	"testing"
	"time"
)

func TestForYear_Format(t *testing.T) {
	for i := 0; i < 200; i++ {
		n := ForYear(2026)
		if !Valid(n) {
			t.Fatalf("invalid application number %q", n)
		}
		if !strings.HasPrefix(n, "APP-2026-") {
			t.Fatalf("wrong year prefix: %q", n)
		}
		if len(n) != 14 {
			t.Fatalf("length %d for %q, want 14", len(n), n)
		}
	}
}

func TestNew_UsesCurrentYear(t *testing.T) {
	year := time.Now().UTC().Format("2006")
	if n := New(); !strings.HasPrefix(n, "APP-"+year+"-") {
		t.Fatalf("got %q, want prefix APP-%s-", n, year)
	}
}

func TestValid(t *testing.T) {
	for _, bad := range []string{"", "APP-26-04213", "APP-2026-4213", "app-2026-04213", "APP-2026-042130"} {
		if Valid(bad) {
			t.Fatalf("expected %q to be invalid", bad)
		}
	}
}
