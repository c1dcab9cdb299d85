package controllers

import (
	"time"
)

const dateLayout = "2006-01-02"

// Date classification relative to "today". The directly-editable window is
// today plus the single preceding business day.
type dateClass int

const (
	dateToday dateClass = iota
	datePrevBusinessDay
	datePast
	dateFuture
)

// toDateOnly truncates to midnight so comparisons ignore the clock.
func toDateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// PreviousBusinessDay returns yesterday, or the preceding Friday when today
// is a Monday. Weekend "todays" still resolve to the prior calendar day.
func PreviousBusinessDay(today time.Time) time.Time {
	today = toDateOnly(today)
	if today.Weekday() == time.Monday {
		return today.AddDate(0, 0, -3)
	}
	return today.AddDate(0, 0, -1)
}

// ClassifyDate buckets a target date relative to today.
func ClassifyDate(date, today time.Time) dateClass {
	date = toDateOnly(date)
	today = toDateOnly(today)

	switch {
	case date.Equal(today):
		return dateToday
	case date.Equal(PreviousBusinessDay(today)):
		return datePrevBusinessDay
	case date.After(today):
		return dateFuture
	default:
		return datePast
	}
}

// IsDirectlyEditable reports whether a non-admin may write status and time
// logs for the date without an approved edit request.
func IsDirectlyEditable(date, today time.Time) bool {
	switch ClassifyDate(date, today) {
	case dateToday, datePrevBusinessDay:
		return true
	default:
		return false
	}
}

// CanUpdateStatus reports whether a non-admin may write status/notes for the
// date directly. Unlike time logs, future dates are allowed (planned leave
// and availability are announced ahead of time).
func CanUpdateStatus(date, today time.Time) bool {
	return IsDirectlyEditable(date, today) || ClassifyDate(date, today) == dateFuture
}

// parseDate parses a YYYY-MM-DD request value.
func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

// now is swapped out in tests to pin "today".
var now = time.Now
