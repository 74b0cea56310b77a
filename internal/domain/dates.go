package domain

import (
	"strings"
	"time"
)

// Date layouts used across the configuration and results documents.
// Calendars store ISO dates; the organized results render dd/mm/yyyy
// for the viewer.
const (
	ISODateLayout     = "2006-01-02"
	DisplayDateLayout = "02/01/2006"
)

// ParseISODate parses a calendar date, reporting ok=false for anything
// malformed.
func ParseISODate(s string) (time.Time, bool) {
	t, err := time.Parse(ISODateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ToISODate canonicalizes a date spelled either way. Availability lists
// in hand-edited documents mix ISO and dd/mm/yyyy.
func ToISODate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if t, ok := ParseISODate(s); ok {
		return t.Format(ISODateLayout), true
	}
	if t, err := time.Parse(DisplayDateLayout, s); err == nil {
		return t.Format(ISODateLayout), true
	}
	return "", false
}

// FormatDisplayDates renders dates as dd/mm/yyyy strings, preserving
// order.
func FormatDisplayDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(DisplayDateLayout)
	}
	return out
}
