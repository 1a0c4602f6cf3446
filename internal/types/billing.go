package types

import (
	"time"

	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/samber/lo"
)

// BillingPeriod is the unit of a plan's billing cadence. Combined with a
// period count it defines the length of one billing period, for example
// MONTHLY with count 3 bills every quarter.
type BillingPeriod string

const (
	BILLING_PERIOD_DAILY   BillingPeriod = "DAILY"
	BILLING_PERIOD_WEEKLY  BillingPeriod = "WEEKLY"
	BILLING_PERIOD_MONTHLY BillingPeriod = "MONTHLY"
	BILLING_PERIOD_ANNUAL  BillingPeriod = "ANNUAL"
)

func (b BillingPeriod) String() string {
	return string(b)
}

func (b BillingPeriod) Validate() error {
	allowed := []BillingPeriod{
		BILLING_PERIOD_DAILY,
		BILLING_PERIOD_WEEKLY,
		BILLING_PERIOD_MONTHLY,
		BILLING_PERIOD_ANNUAL,
	}
	if !lo.Contains(allowed, b) {
		return ierr.NewError("invalid billing period").
			WithHint("Invalid billing period").
			WithReportableDetails(map[string]any{
				"billing_period": b,
				"allowed_values": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// FeeType is the kind of a fee line item. Only subscription fees are
// produced by this module; the constant leaves room for charge fees
// emitted by other billing flows.
type FeeType string

const (
	FeeTypeSubscription FeeType = "subscription"
)

// BillingPeriodBoundaries is the value object a billing run supplies per
// invoice: the edges of the period being billed and the reference instant
// of the run. Both edges are used inclusive of the whole calendar day.
type BillingPeriodBoundaries struct {
	From      time.Time `json:"from" validate:"required"`
	To        time.Time `json:"to" validate:"required"`
	Timestamp time.Time `json:"timestamp" validate:"required"`
}

func (b BillingPeriodBoundaries) Validate() error {
	if b.From.IsZero() || b.To.IsZero() || b.Timestamp.IsZero() {
		return ierr.NewError("invalid billing period boundaries").
			WithHint("Period boundaries and timestamp are required").
			Mark(ierr.ErrValidation)
	}
	if b.To.Before(b.From) {
		return ierr.NewError("invalid billing period boundaries").
			WithHint("Period end cannot be before period start").
			WithReportableDetails(map[string]any{
				"from": b.From,
				"to":   b.To,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
