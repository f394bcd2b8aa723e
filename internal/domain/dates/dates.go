package dates

import (
	"fmt"
	"time"
)

// Date keys are canonical YYYY-MM-DD strings derived from local calendar
// fields, never UTC. Streaks, weekly windows and navigation all compose
// from the three primitives below so every layer agrees on what "a day" is.

// FormatKey renders the local calendar date of t as a zero-padded key.
func FormatKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// ParseKey parses a date key into local midnight of that calendar day.
func ParseKey(key string) (time.Time, error) {
	var year, month, day int
	if _, err := fmt.Sscanf(key, "%d-%d-%d", &year, &month, &day); err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("invalid date key %q", key)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), nil
}

// AddDays shifts a key by n calendar days (n may be negative). The shift is
// anchored at local noon so daylight-saving transitions cannot move the
// result across a day boundary.
func AddDays(key string, n int) (string, error) {
	t, err := ParseKey(key)
	if err != nil {
		return "", err
	}
	noon := time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.Local)
	return FormatKey(noon.AddDate(0, 0, n)), nil
}

// Today returns the key for the current local calendar day.
func Today() string {
	return FormatKey(time.Now())
}
