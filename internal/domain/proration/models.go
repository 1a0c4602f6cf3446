package proration

import (
	"github.com/billforge/billforge/internal/domain/plan"
	"github.com/billforge/billforge/internal/domain/subscription"
	"github.com/billforge/billforge/internal/types"
	"github.com/shopspring/decimal"
)

// BranchType names the billing strategy that produced an amount. The
// calculator evaluates branches in a fixed priority order and the first
// matching branch wins.
type BranchType string

const (
	BranchTerminated        BranchType = "terminated"
	BranchUpgraded          BranchType = "upgraded"
	BranchFullPeriod        BranchType = "full_period"
	BranchFirstSubscription BranchType = "first_subscription"
)

// ProrationParams carries every fact the calculator needs. The caller
// gathers collaborator state up front so the calculation itself stays pure.
type ProrationParams struct {
	Subscription *subscription.Subscription
	Plan         *plan.Plan
	Boundaries   types.BillingPeriodBoundaries

	// PreviousSubscriptionUpgraded is true when the subscription this one
	// replaced was itself terminated by an upgrade.
	PreviousSubscriptionUpgraded bool

	// InvoiceCount is how many invoices the subscription has been billed on
	// so far, including the one currently being computed.
	InvoiceCount int

	// HasEarlierSubscriptionFee reports whether a subscription-kind fee
	// already exists with a creation time earlier than the current invoice.
	HasEarlierSubscriptionFee bool
}

// ProrationResult is the outcome of one branch evaluation. Amount keeps the
// full decimal precision; AmountCents is the single terminal rounding of it.
type ProrationResult struct {
	// Amount is the unrounded fractional amount in minor currency units
	Amount decimal.Decimal

	// AmountCents is Amount rounded half-up to the nearest minor unit
	AmountCents int64

	// Branch is the strategy that produced the amount
	Branch BranchType

	// Period is the resolved billing period the day price was derived from
	Period ResolvedPeriod
}

// RoundAmountCents applies the terminal rounding rule: round half-up to the
// nearest minor currency unit. Rounding happens exactly once, here, so
// multi-day proration never compounds rounding error.
func RoundAmountCents(amount decimal.Decimal) int64 {
	return amount.Round(0).IntPart()
}
