package utils

import (
	"testing"
	"time"
)

func TestAddMonths(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		months   int
		expected string
	}{
		{"simple add", "2023-01-15", 12, "2024-01-15"},
		{"clamps to end of February", "2023-01-31", 1, "2023-02-28"},
		{"clamps to leap February", "2024-01-31", 1, "2024-02-29"},
		{"crosses year boundary", "2023-11-20", 3, "2024-02-20"},
		{"negative months", "2023-03-31", -1, "2023-02-28"},
		{"zero months", "2023-06-10", 0, "2023-06-10"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input, err := time.Parse("2006-01-02", tc.input)
			if err != nil {
				t.Fatalf("bad input date: %v", err)
			}
			got := AddMonths(input, tc.months).Format("2006-01-02")
			if got != tc.expected {
				t.Errorf("AddMonths(%s, %d) = %s, want %s",
					tc.input, tc.months, got, tc.expected)
			}
		})
	}
}

func TestAddYears(t *testing.T) {
	input := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	got := AddYears(input, 4)
	want := time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("AddYears(2024-02-29, 4) = %v, want %v", got, want)
	}

	got = AddYears(input, 1)
	want = time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("AddYears(2024-02-29, 1) = %v, want %v", got, want)
	}
}

func TestNextOccurrence(t *testing.T) {
	testCases := []struct {
		name     string
		ref      string
		month    time.Month
		day      int
		expected string
	}{
		{"before the date this year", "2024-02-01", time.April, 15, "2024-04-15"},
		{"exactly on the date", "2024-04-15", time.April, 15, "2024-04-15"},
		{"after the date rolls to next year", "2024-05-01", time.April, 15, "2025-04-15"},
		{"november target from summer", "2024-07-10", time.November, 15, "2024-11-15"},
		{"december reference rolls over", "2024-12-01", time.November, 15, "2025-11-15"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ref, err := time.Parse("2006-01-02", tc.ref)
			if err != nil {
				t.Fatalf("bad reference date: %v", err)
			}
			got := NextOccurrence(ref, tc.month, tc.day).Format("2006-01-02")
			if got != tc.expected {
				t.Errorf("NextOccurrence(%s, %v, %d) = %s, want %s",
					tc.ref, tc.month, tc.day, got, tc.expected)
			}
		})
	}
}

func TestDayBoundaries(t *testing.T) {
	at := time.Date(2024, 6, 1, 15, 30, 45, 123, time.UTC)

	start := StartOfDay(at)
	if start.Hour() != 0 || start.Minute() != 0 || start.Day() != 1 {
		t.Errorf("StartOfDay = %v", start)
	}

	end := EndOfDay(at)
	if end.Day() != 2 || end.Hour() != 0 {
		t.Errorf("EndOfDay = %v", end)
	}
}
