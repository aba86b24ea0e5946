package util

import (
	"strconv"
	"time"
)

// DateLayout is the wire format for game dates.
const DateLayout = "2006-01-02"

// ParseTime tries RFC3339, RFC3339Nano, date-only, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// ParseDate parses a YYYY-MM-DD string as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders t as YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// TruncateToDay drops the time-of-day component, keeping UTC midnight.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts calendar days in [from, to] inclusive.
func DaysBetween(from, to time.Time) int {
	from, to = TruncateToDay(from), TruncateToDay(to)
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

// EachDay calls fn for every calendar day in [from, to] inclusive, stopping
// early when fn returns false.
func EachDay(from, to time.Time, fn func(day time.Time) bool) {
	for d := TruncateToDay(from); !d.After(TruncateToDay(to)); d = d.AddDate(0, 0, 1) {
		if !fn(d) {
			return
		}
	}
}

// LastNDays returns the inclusive [from, to] window ending at today UTC.
func LastNDays(n int) (time.Time, time.Time) {
	to := TruncateToDay(time.Now())
	from := to.AddDate(0, 0, -(n - 1))
	return from, to
}
