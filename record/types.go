package record

import (
	"fmt"
	"strings"
	"time"
)

// Date represents a calendar date without a time component. Invoice and due
// dates are compared at day granularity; the zero Date means "not extracted".
type Date struct {
	time.Time

	// raw preserves an extracted value that matched no accepted layout,
	// so a missing-date finding can point at what extraction produced.
	raw string
}

// dateLayouts lists the formats accepted at the extraction boundary, most
// specific first. ISO 8601 is canonical; the rest cover layouts commonly
// found on scanned invoices.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"02.01.2006",
	"02-01-2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// ParseDate parses a date string against the accepted layouts.
// Returns an error if no layout matches.
func ParseDate(s string) (*Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &Date{Time: t}, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date %q", s)
}

// NewDate parses an ISO 8601 (YYYY-MM-DD) date string.
func NewDate(s string) (*Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %s", s)
	}
	return &Date{Time: t}, nil
}

// MustDate parses an ISO 8601 date string and panics on error.
// Use only in tests or when the input is known to be valid.
func MustDate(s string) *Date {
	d, err := NewDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// NewDateFromTime creates a Date from a time.Time, truncated to the day.
func NewDateFromTime(t time.Time) *Date {
	return &Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// IsZero returns true if the Date is nil or the zero time. Nil-safe so
// optional dates can be checked without a preceding nil guard.
func (d *Date) IsZero() bool {
	if d == nil {
		return true
	}
	return d.Time.IsZero()
}

// String returns the date in ISO 8601 format.
func (d *Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format("2006-01-02")
}

// Before reports whether d is strictly before other. Both must be non-zero.
func (d *Date) Before(other *Date) bool {
	if d.IsZero() || other.IsZero() {
		return false
	}
	return d.Time.Before(other.Time)
}

// Equal reports whether two dates fall on the same day.
// Nil-safe: two zero dates compare equal.
func (d *Date) Equal(other *Date) bool {
	if d.IsZero() && other.IsZero() {
		return true
	}
	if d.IsZero() || other.IsZero() {
		return false
	}
	return d.Time.Equal(other.Time)
}

// MarshalJSON encodes the date as an ISO 8601 string, or null when zero.
func (d *Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

// UnmarshalJSON decodes a date from a JSON string. Extraction may emit dates
// in any of the accepted layouts; a string that matches none of them decodes
// to the zero Date rather than failing the whole batch, so the presence
// rules can report it as a missing field.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		d.Time = time.Time{}
		d.raw = s
		return nil
	}
	d.Time = parsed.Time
	d.raw = ""
	return nil
}

// Raw returns the extracted value when it matched no accepted layout, and
// "" for parsed or absent dates. Nil-safe.
func (d *Date) Raw() string {
	if d == nil {
		return ""
	}
	return d.raw
}
