package utils

import (
	"time"
)

// AddMonths adds calendar months, clamping to the last day when the target
// month is shorter (Jan 31 + 1 month = Feb 28/29, not Mar 2).
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	totalMonths := int(month) - 1 + months
	targetYear := year + totalMonths/12
	targetMonth := time.Month(totalMonths%12 + 1)
	if totalMonths < 0 && totalMonths%12 != 0 {
		targetYear--
		targetMonth = time.Month(totalMonths%12 + 13)
	}

	if last := DaysInMonth(targetYear, targetMonth); day > last {
		day = last
	}

	h, min, sec := t.Clock()
	return time.Date(targetYear, targetMonth, day, h, min, sec, t.Nanosecond(), t.Location())
}

// AddYears behaves like AddMonths for whole years (Feb 29 clamps to Feb 28
// in non-leap years).
func AddYears(t time.Time, years int) time.Time {
	return AddMonths(t, years*12)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// NextOccurrence returns the next calendar occurrence of (month, day) on or
// after the reference date. If the date this year is already past, it rolls
// to next year.
func NextOccurrence(ref time.Time, month time.Month, day int) time.Time {
	candidate := time.Date(ref.Year(), month, day, 0, 0, 0, 0, ref.Location())
	refDay := StartOfDay(ref)
	if candidate.Before(refDay) {
		candidate = time.Date(ref.Year()+1, month, day, 0, 0, 0, 0, ref.Location())
	}
	return candidate
}

// StartOfDay truncates to midnight in the value's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the first instant of the following day, so day windows
// compose as half-open intervals.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1)
}
