package proration

import (
	"time"

	"github.com/billforge/billforge/internal/domain/plan"
	"github.com/billforge/billforge/internal/domain/subscription"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
	"github.com/shopspring/decimal"
)

// ResolvedPeriod is the billing period containing a reference instant.
// Start and End are inclusive whole calendar days; PreviousStart is one
// cadence unit before Start.
type ResolvedPeriod struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	PreviousStart time.Time `json:"previous_start"`
}

// Days is the inclusive day count of the period.
func (p ResolvedPeriod) Days() int {
	return types.DaysBetweenInclusive(p.Start, p.End)
}

// ResolvePeriod derives the billing period containing the reference instant
// for the given subscription. Anniversary billing anchors periods to the
// subscription start date; calendar billing anchors them to calendar
// day/week/month/year boundaries, so the first period of a mid-month
// calendar subscription begins on the calendar boundary before its start.
// Pure function, no side effects.
func ResolvePeriod(sub *subscription.Subscription, p *plan.Plan, timestamp time.Time) (ResolvedPeriod, error) {
	if sub.StartedAt == nil {
		return ResolvedPeriod{}, ierr.NewError("subscription has not started").
			WithHint("Billing periods exist only for started subscriptions").
			WithReportableDetails(map[string]any{
				"subscription_id": sub.ID,
			}).
			Mark(ierr.ErrValidation)
	}
	if err := p.Validate(); err != nil {
		return ResolvedPeriod{}, err
	}

	base := types.StartOfDay(*sub.StartedAt)
	if !sub.IsAnniversary() {
		anchor := types.CalculateCalendarBillingAnchor(base, p.BillingPeriod)
		floor, err := types.PreviousBillingDate(anchor, 1, p.BillingPeriod)
		if err != nil {
			return ResolvedPeriod{}, ierr.WithError(err).Mark(ierr.ErrValidation)
		}
		base = floor
	}

	// Advance whole cadence units until the reference instant falls inside
	// [boundary(k), boundary(k+1)). Every boundary is computed from the
	// anchor itself, never from the previous boundary, so a month-end
	// anchor keeps its day instead of drifting after a clamped month.
	k := 0
	next, err := nthBoundary(base, 1, p)
	if err != nil {
		return ResolvedPeriod{}, ierr.WithError(err).Mark(ierr.ErrValidation)
	}
	for !timestamp.Before(next) {
		k++
		next, err = nthBoundary(base, k+1, p)
		if err != nil {
			return ResolvedPeriod{}, ierr.WithError(err).Mark(ierr.ErrValidation)
		}
	}

	start, err := nthBoundary(base, k, p)
	if err != nil {
		return ResolvedPeriod{}, ierr.WithError(err).Mark(ierr.ErrValidation)
	}
	previous, err := nthBoundary(base, k-1, p)
	if err != nil {
		return ResolvedPeriod{}, ierr.WithError(err).Mark(ierr.ErrValidation)
	}

	return ResolvedPeriod{
		Start:         start,
		End:           next.AddDate(0, 0, -1),
		PreviousStart: previous,
	}, nil
}

// nthBoundary is the n-th billing boundary counted in whole cadence units
// from the anchor; negative n walks backwards. The offset is applied to the
// anchor in one step, so clamping never compounds across periods.
func nthBoundary(anchor time.Time, n int, p *plan.Plan) (time.Time, error) {
	switch {
	case n == 0:
		return anchor, nil
	case n > 0:
		return types.NextBillingDate(anchor, n*p.BillingPeriodCount, p.BillingPeriod)
	default:
		return types.PreviousBillingDate(anchor, -n*p.BillingPeriodCount, p.BillingPeriod)
	}
}

// SingleDayPrice is the price of one calendar day within the period:
// plan.AmountCents divided by the period's inclusive day count, or by the
// day count from optionalFrom through period end when optionalFrom is set.
// The division is kept at full decimal precision; rounding happens only on
// the terminal amount.
func SingleDayPrice(p *plan.Plan, period ResolvedPeriod, optionalFrom *time.Time) decimal.Decimal {
	from := period.Start
	if optionalFrom != nil {
		from = *optionalFrom
	}
	duration := types.DaysBetweenInclusive(from, period.End)
	if duration <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(p.AmountCents).Div(decimal.NewFromInt(int64(duration)))
}
