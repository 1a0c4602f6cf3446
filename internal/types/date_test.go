package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextBillingDate(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		unit   int
		period BillingPeriod
		want   time.Time
	}{
		{
			name:   "monthly_simple",
			start:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			unit:   1,
			period: BILLING_PERIOD_MONTHLY,
			want:   time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "monthly_clamped_to_february_leap",
			start:  time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			unit:   1,
			period: BILLING_PERIOD_MONTHLY,
			want:   time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "monthly_clamped_to_february_non_leap",
			start:  time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC),
			unit:   1,
			period: BILLING_PERIOD_MONTHLY,
			want:   time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "quarterly_rolls_over_year",
			start:  time.Date(2024, 11, 10, 0, 0, 0, 0, time.UTC),
			unit:   3,
			period: BILLING_PERIOD_MONTHLY,
			want:   time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "weekly_three_weeks",
			start:  time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
			unit:   3,
			period: BILLING_PERIOD_WEEKLY,
			want:   time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "daily_ten_days",
			start:  time.Date(2024, 2, 25, 0, 0, 0, 0, time.UTC),
			unit:   10,
			period: BILLING_PERIOD_DAILY,
			want:   time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "annual",
			start:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			unit:   1,
			period: BILLING_PERIOD_ANNUAL,
			want:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextBillingDate(tt.start, tt.unit, tt.period)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestNextBillingDate_InvalidInput(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := NextBillingDate(start, 0, BILLING_PERIOD_MONTHLY)
	assert.Error(t, err)

	_, err = NextBillingDate(start, 1, BillingPeriod("FORTNIGHTLY"))
	assert.Error(t, err)
}

func TestPreviousBillingDate(t *testing.T) {
	got, err := PreviousBillingDate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 1, BILLING_PERIOD_MONTHLY)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = PreviousBillingDate(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), 1, BILLING_PERIOD_WEEKLY)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestCalculateCalendarBillingAnchor(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		period BillingPeriod
		want   time.Time
	}{
		{
			name:   "daily_next_midnight",
			start:  time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC),
			period: BILLING_PERIOD_DAILY,
			want:   time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "weekly_next_monday_from_wednesday",
			start:  time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC),
			period: BILLING_PERIOD_WEEKLY,
			want:   time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "weekly_next_monday_from_monday",
			start:  time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
			period: BILLING_PERIOD_WEEKLY,
			want:   time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "monthly_first_of_next_month",
			start:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			period: BILLING_PERIOD_MONTHLY,
			want:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "annual_january_first",
			start:  time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC),
			period: BILLING_PERIOD_ANNUAL,
			want:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateCalendarBillingAnchor(tt.start, tt.period)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestDaysBetweenInclusive(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{
			name: "same_day_counts_one",
			from: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "full_january",
			from: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			want: 31,
		},
		{
			name: "mid_month_window",
			from: time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			want: 16,
		},
		{
			name: "time_of_day_ignored",
			from: time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC),
			to:   time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC),
			want: 2,
		},
		{
			name: "to_before_from_is_zero",
			from: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "leap_february",
			from: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			want: 29,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetweenInclusive(tt.from, tt.to))
		})
	}
}
