package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeDateOnly(t *testing.T) {
	got, ok := ParseTime("2024-10-10")
	if !ok {
		t.Fatalf("expected ok")
	}
	if FormatDate(got) != "2024-10-10" {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2024, 10, 1, 13, 0, 0, 0, time.UTC)
	to := time.Date(2024, 10, 7, 2, 0, 0, 0, time.UTC)
	if got := DaysBetween(from, to); got != 7 {
		t.Fatalf("expected 7 days, got %d", got)
	}
	if got := DaysBetween(to, from); got != 0 {
		t.Fatalf("expected 0 for inverted range, got %d", got)
	}
	if got := DaysBetween(from, from); got != 1 {
		t.Fatalf("expected 1 for same day, got %d", got)
	}
}

func TestEachDay(t *testing.T) {
	from := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC)

	var days []string
	EachDay(from, to, func(d time.Time) bool {
		days = append(days, FormatDate(d))
		return true
	})
	if len(days) != 5 || days[0] != "2024-10-01" || days[4] != "2024-10-05" {
		t.Fatalf("unexpected days %v", days)
	}

	count := 0
	EachDay(from, to, func(d time.Time) bool {
		count++
		return count < 2
	})
	if count != 2 {
		t.Fatalf("expected early stop after 2, got %d", count)
	}
}
