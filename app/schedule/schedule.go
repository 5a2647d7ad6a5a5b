package schedule

import (
	"errors"
	"strings"
	"time"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

var ErrInvalidFrequency = errors.New("invalid frequency")

func ParseFrequency(value string) (Frequency, error) {
	switch Frequency(strings.ToLower(strings.TrimSpace(value))) {
	case FrequencyDaily:
		return FrequencyDaily, nil
	case FrequencyWeekly:
		return FrequencyWeekly, nil
	case FrequencyMonthly:
		return FrequencyMonthly, nil
	default:
		return "", ErrInvalidFrequency
	}
}

// Next returns the payment instant following ref for the given frequency.
// The result is always strictly after ref. Monthly advancement clamps to the
// last day of the target month: Jan 31 -> Feb 28 (29 in leap years), so twelve
// monthly steps from any date stay within the following calendar year.
func Next(ref time.Time, frequency Frequency) time.Time {
	switch frequency {
	case FrequencyDaily:
		return ref.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return ref.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return addMonthClamped(ref)
	default:
		return ref
	}
}

func addMonthClamped(ref time.Time) time.Time {
	year, month, day := ref.Date()
	hour, minute, sec := ref.Clock()

	targetYear := year
	targetMonth := month + 1
	if targetMonth > time.December {
		targetMonth = time.January
		targetYear++
	}

	if dim := daysIn(targetYear, targetMonth); day > dim {
		day = dim
	}

	return time.Date(targetYear, targetMonth, day, hour, minute, sec, ref.Nanosecond(), ref.Location())
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the following month is this month's last day.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
