package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the date format users type and the bot prints
const DateLayout = "2006-01-02"

// StartOfDay returns midnight of t's calendar day in t's location
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar date
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DateKey returns the date in YYYY-MM-DD format
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date as midnight in loc.
// An empty string yields fallback.
func ParseDate(s string, loc *time.Location, fallback time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// DisplayDate returns a user-friendly label for date relative to now
func DisplayDate(date, now time.Time) string {
	switch {
	case SameDay(date, now):
		return "Today"
	case SameDay(date, now.AddDate(0, 0, 1)):
		return "Tomorrow"
	case SameDay(date, now.AddDate(0, 0, -1)):
		return "Yesterday"
	}
	return date.Format("2 Jan 2006")
}
