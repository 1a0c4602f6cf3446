package plan

import (
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
)

// Plan is the billing terms template a subscription references. Plans are
// immutable for the lifetime of subscriptions referencing them; plan changes
// create a new plan version in the plan-management workflow.
type Plan struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	LookupKey   string `db:"lookup_key" json:"lookup_key"`
	Description string `db:"description" json:"description"`

	// AmountCents is the recurring fee for one whole billing period in minor
	// currency units.
	AmountCents    int64  `db:"amount_cents" json:"amount_cents"`
	AmountCurrency string `db:"amount_currency" json:"amount_currency"`

	// BillingPeriod and BillingPeriodCount define the period length, for
	// example MONTHLY with count 1.
	BillingPeriod      types.BillingPeriod `db:"billing_period" json:"billing_period"`
	BillingPeriodCount int                 `db:"billing_period_count" json:"billing_period_count"`

	// PayInAdvance bills at period start; otherwise the plan is billed in
	// arrears at period end.
	PayInAdvance bool `db:"pay_in_advance" json:"pay_in_advance"`

	// TrialPeriodDays is the free trial length counted from subscription
	// start. Zero means no trial.
	TrialPeriodDays int `db:"trial_period_days" json:"trial_period_days"`

	types.BaseModel
}

func (p *Plan) Validate() error {
	if p.AmountCents < 0 {
		return ierr.NewError("invalid plan amount").
			WithHint("Plan amount cannot be negative").
			WithReportableDetails(map[string]any{
				"plan_id":      p.ID,
				"amount_cents": p.AmountCents,
			}).
			Mark(ierr.ErrValidation)
	}
	if p.BillingPeriodCount <= 0 {
		return ierr.NewError("invalid billing period count").
			WithHint("Billing period count must be positive").
			WithReportableDetails(map[string]any{
				"plan_id":              p.ID,
				"billing_period_count": p.BillingPeriodCount,
			}).
			Mark(ierr.ErrValidation)
	}
	return p.BillingPeriod.Validate()
}

// HasTrial reports whether the plan grants a free trial period.
func (p *Plan) HasTrial() bool {
	return p.TrialPeriodDays > 0
}
