package appnum

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"regexp"
	"time"
)

// Application numbers look like APP-2026-04213. The 5-digit suffix is random
// and NOT guaranteed unique: the caller must rely on the store's uniqueness
// constraint and regenerate on collision.

var pattern = regexp.MustCompile(`^APP-\d{4}-\d{5}$`)

// New returns an application number for the current year.
func New() string { return ForYear(time.Now().UTC().Year()) }

// ForYear returns APP-{year}-{5-digit zero-padded random}.
func ForYear(year int) string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	n := binary.BigEndian.Uint64(b[:]) % 100_000
	return fmt.Sprintf("APP-%04d-%05d", year, n)
}

// Valid reports whether s has the application-number shape.
func Valid(s string) bool { return pattern.MatchString(s) }
