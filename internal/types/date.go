package types

import (
	"fmt"
	"time"
)

// NextBillingDate calculates the next billing date based on the given start
// time, billing period unit (the frequency multiplier) and billing period.
// For example:
// - If billing period is MONTHLY and unit is 2, we add two months.
// - If billing period is ANNUAL and unit is 1, we add one year.
// This leverages clamped date arithmetic which properly handles leap years
// and month-boundary issues (Jan 31 + 1 month = Feb 28/29).
func NextBillingDate(start time.Time, unit int, period BillingPeriod) (time.Time, error) {
	if unit <= 0 {
		return start, fmt.Errorf("billing period unit must be a positive integer, got %d", unit)
	}

	switch period {
	case BILLING_PERIOD_DAILY:
		return AddClampedDate(start, 0, 0, unit), nil
	case BILLING_PERIOD_WEEKLY:
		// 1 week = 7 days
		return AddClampedDate(start, 0, 0, 7*unit), nil
	case BILLING_PERIOD_MONTHLY:
		return AddClampedDate(start, 0, unit, 0), nil
	case BILLING_PERIOD_ANNUAL:
		return AddClampedDate(start, unit, 0, 0), nil
	default:
		return start, fmt.Errorf("invalid billing period type: %s", period)
	}
}

// PreviousBillingDate is the inverse of NextBillingDate: it walks one cadence
// unit backwards from the given boundary.
func PreviousBillingDate(start time.Time, unit int, period BillingPeriod) (time.Time, error) {
	if unit <= 0 {
		return start, fmt.Errorf("billing period unit must be a positive integer, got %d", unit)
	}

	switch period {
	case BILLING_PERIOD_DAILY:
		return AddClampedDate(start, 0, 0, -unit), nil
	case BILLING_PERIOD_WEEKLY:
		return AddClampedDate(start, 0, 0, -7*unit), nil
	case BILLING_PERIOD_MONTHLY:
		return AddClampedDate(start, 0, -unit, 0), nil
	case BILLING_PERIOD_ANNUAL:
		return AddClampedDate(start, -unit, 0, 0), nil
	default:
		return start, fmt.Errorf("invalid billing period type: %s", period)
	}
}

// AddClampedDate adds the given years, months and days to t, clamping the
// day of month to the last valid day of the resulting month instead of
// rolling over the way time.AddDate does.
func AddClampedDate(t time.Time, years, months, days int) time.Time {
	y, m, d := t.Date()
	h, min, sec := t.Clock()

	newY := y + years
	newM := time.Month(int(m) + months)

	// If we move beyond December, it adjusts correctly,
	// for example adding 2 months to November will land on January next year.
	for newM > 12 {
		newM -= 12
		newY++
	}
	for newM < 1 {
		newM += 12
		newY--
	}

	// Find the last valid day of the new month
	firstOfNextMonth := time.Date(newY, newM+1, 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfNextMonth.Add(-24 * time.Hour).Day()

	newD := d
	if newD > lastDay {
		newD = lastDay
	}

	result := time.Date(newY, newM, newD, h, min, sec, t.Nanosecond(), t.Location())
	if days != 0 {
		result = result.AddDate(0, 0, days)
	}
	return result
}

// CalculateCalendarBillingAnchor returns the first calendar-aligned boundary
// strictly after the given start date: the next midnight for daily periods,
// next Monday for weekly, first of next month for monthly and January 1st of
// next year for annual periods.
func CalculateCalendarBillingAnchor(start time.Time, period BillingPeriod) time.Time {
	loc := start.Location()
	switch period {
	case BILLING_PERIOD_DAILY:
		return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	case BILLING_PERIOD_WEEKLY:
		day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
		offset := (int(time.Monday) - int(day.Weekday()) + 7) % 7
		if offset == 0 {
			offset = 7
		}
		return day.AddDate(0, 0, offset)
	case BILLING_PERIOD_MONTHLY:
		return time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, 1, 0)
	case BILLING_PERIOD_ANNUAL:
		return time.Date(start.Year()+1, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return start
	}
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetweenInclusive counts calendar days between from and to with the end
// day counted inclusively: days = (to + 1 day) - from at date granularity.
// Returns 0 when to falls before from.
func DaysBetweenInclusive(from, to time.Time) int {
	fromDay := StartOfDay(from)
	toDay := StartOfDay(to)
	if toDay.Before(fromDay) {
		return 0
	}

	// Count calendar days one at a time so DST transitions cannot skew the
	// result the way a raw duration division would.
	days := 0
	for current := fromDay; !current.After(toDay); current = current.AddDate(0, 0, 1) {
		days++
	}
	return days
}
