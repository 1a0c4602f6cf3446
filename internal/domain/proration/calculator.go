package proration

import (
	"context"
	"fmt"
	"time"

	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
	"github.com/shopspring/decimal"
)

// Calculator selects one of four billing strategies for a subscription fee.
// The branches form an explicit ordered priority list and the first branch
// whose predicate matches wins, which keeps the selection auditable and each
// strategy independently testable.
type Calculator struct {
	branches []branch
}

type branch struct {
	name    BranchType
	applies func(in calcInput) bool
	amount  func(in calcInput) decimal.Decimal
}

// calcInput bundles the params with the facts derived from them once per
// calculation: the resolved period, the trial end date and the day price.
type calcInput struct {
	ProrationParams
	period   ResolvedPeriod
	trialEnd time.Time
	dayPrice decimal.Decimal
}

// NewCalculator creates a day-based proration calculator.
func NewCalculator() *Calculator {
	return &Calculator{
		branches: []branch{
			{name: BranchTerminated, applies: terminatedApplies, amount: proratedWindowAmount},
			{name: BranchUpgraded, applies: upgradedApplies, amount: proratedWindowAmount},
			{name: BranchFullPeriod, applies: fullPeriodApplies, amount: fullPeriodAmount},
			{name: BranchFirstSubscription, applies: alwaysApplies, amount: proratedWindowAmount},
		},
	}
}

// Calculate returns the amount owed for the subscription's recurring fee
// within the supplied boundaries. Every valid input combination maps to a
// defined amount, possibly zero; the arithmetic itself never fails.
func (c *Calculator) Calculate(ctx context.Context, params ProrationParams) (*ProrationResult, error) {
	if err := validateParams(params); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("invalid proration params: %v", err).
			Mark(ierr.ErrValidation)
	}

	period, err := ResolvePeriod(params.Subscription, params.Plan, params.Boundaries.Timestamp)
	if err != nil {
		return nil, err
	}

	in := calcInput{
		ProrationParams: params,
		period:          period,
		trialEnd:        params.Subscription.TrialEndDate(params.Plan),
		dayPrice:        SingleDayPrice(params.Plan, period, nil),
	}

	for _, b := range c.branches {
		if !b.applies(in) {
			continue
		}
		amount := clampAmount(b.amount(in), params.Plan.AmountCents)
		return &ProrationResult{
			Amount:      amount,
			AmountCents: RoundAmountCents(amount),
			Branch:      b.name,
			Period:      period,
		}, nil
	}

	// Unreachable: the last branch always applies.
	return nil, ierr.NewError("no billing strategy matched").Mark(ierr.ErrSystem)
}

// terminatedApplies matches arrears subscriptions that were terminated and
// not superseded by a downgrade replacement: either the termination was an
// upgrade (the upgrade branch of the new subscription bills the remainder)
// or there is no next subscription at all.
func terminatedApplies(in calcInput) bool {
	s := in.Subscription
	return s.IsTerminated() &&
		!in.Plan.PayInAdvance &&
		(s.Upgraded || s.NextSubscriptionID == "")
}

// upgradedApplies matches the first invoice of a subscription that replaced
// a previous one through an upgrade: the elapsed days since the upgrade
// effective date are billed at the new plan's day price.
func upgradedApplies(in calcInput) bool {
	s := in.Subscription
	return s.PreviousSubscriptionID != "" &&
		in.InvoiceCount <= 1 &&
		in.PreviousSubscriptionUpgraded
}

// fullPeriodApplies matches subscriptions billing a whole period. The
// conditions are evaluated as enumerated: pay-in-advance anniversary plans,
// a prior subscription fee, arrears subscriptions that started before the
// previous period began, and pay-in-advance subscriptions started in the
// past.
func fullPeriodApplies(in calcInput) bool {
	s := in.Subscription
	if in.Plan.PayInAdvance && s.IsAnniversary() {
		return true
	}
	if in.HasEarlierSubscriptionFee {
		return true
	}
	if !s.StartedInPast(in.Boundaries.Timestamp) {
		return false
	}
	if types.StartOfDay(*s.StartedAt).Before(in.period.PreviousStart) {
		return true
	}
	return in.Plan.PayInAdvance
}

func alwaysApplies(calcInput) bool {
	return true
}

// proratedWindowAmount bills the days between the period boundaries at the
// single day price, starting from the trial end when the trial reaches into
// the window. Terminated, upgraded and first-subscription billing all share
// this shape; only their predicates differ.
func proratedWindowAmount(in calcInput) decimal.Decimal {
	from := types.StartOfDay(in.Boundaries.From)
	to := types.StartOfDay(in.Boundaries.To)

	if !in.trialEnd.IsZero() {
		if !in.trialEnd.Before(to) {
			// Trial covers the whole window
			return decimal.Zero
		}
		if in.trialEnd.After(from) {
			from = in.trialEnd
		}
	}

	days := types.DaysBetweenInclusive(from, to)
	return in.dayPrice.Mul(decimal.NewFromInt(int64(days)))
}

// fullPeriodAmount bills the whole plan amount, unless a trial ends partway
// through the period, in which case only the days from trial end through
// period end are billed, or the trial covers the period and nothing is.
func fullPeriodAmount(in calcInput) decimal.Decimal {
	from := types.StartOfDay(in.Boundaries.From)
	to := types.StartOfDay(in.Boundaries.To)

	if !in.trialEnd.IsZero() {
		if !in.trialEnd.Before(to) {
			return decimal.Zero
		}
		if in.trialEnd.After(from) {
			days := types.DaysBetweenInclusive(in.trialEnd, to)
			return in.dayPrice.Mul(decimal.NewFromInt(int64(days)))
		}
	}

	return decimal.NewFromInt(in.Plan.AmountCents)
}

// clampAmount bounds the result to [0, plan amount]: proration never exceeds
// the full-period price and never goes negative.
func clampAmount(amount decimal.Decimal, amountCents int64) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	full := decimal.NewFromInt(amountCents)
	if amount.GreaterThan(full) {
		return full
	}
	return amount
}

// validateParams checks if essential parameters are provided.
func validateParams(params ProrationParams) error {
	if params.Subscription == nil {
		return fmt.Errorf("subscription is required")
	}
	if params.Plan == nil {
		return fmt.Errorf("plan is required")
	}
	if params.Subscription.StartedAt == nil {
		return fmt.Errorf("subscription has not started")
	}
	if err := params.Boundaries.Validate(); err != nil {
		return err
	}
	return params.Plan.Validate()
}
