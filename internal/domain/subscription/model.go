package subscription

import (
	"time"

	"github.com/billforge/billforge/internal/domain/plan"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
)

// Subscription represents a customer's enrollment in a plan over time.
// Upgrades and downgrades terminate the current subscription and create a
// replacement one linked through PreviousSubscriptionID/NextSubscriptionID.
type Subscription struct {
	// ID is the unique identifier for the subscription
	ID string `db:"id" json:"id"`

	// CustomerID is the identifier for the customer in our system
	CustomerID string `db:"customer_id" json:"customer_id"`

	// PlanID is the identifier for the plan in our system
	PlanID string `db:"plan_id" json:"plan_id"`

	// SubscriptionStatus is the status of the subscription
	SubscriptionStatus types.SubscriptionStatus `db:"subscription_status" json:"subscription_status"`

	// Currency is the currency of the subscription in lowercase 3 digit ISO codes
	Currency string `db:"currency" json:"currency"`

	// StartedAt is nil until the subscription is activated
	StartedAt *time.Time `db:"started_at" json:"started_at"`

	// TerminatedAt is set iff the subscription status is terminated
	TerminatedAt *time.Time `db:"terminated_at" json:"terminated_at"`

	// BillingTime aligns billing periods to the subscription start date
	// (anniversary) or to calendar boundaries.
	BillingTime types.BillingTime `db:"billing_time" json:"billing_time"`

	// PreviousSubscriptionID links to the subscription this one replaced
	// via upgrade or downgrade.
	PreviousSubscriptionID string `db:"previous_subscription_id" json:"previous_subscription_id"`

	// NextSubscriptionID links to the subscription that replaced this one.
	NextSubscriptionID string `db:"next_subscription_id" json:"next_subscription_id"`

	// Upgraded is set when this subscription was itself replaced by an
	// upgrade, as opposed to a downgrade or a plain termination.
	Upgraded bool `db:"upgraded" json:"upgraded"`

	types.BaseModel
}

func (s *Subscription) Validate() error {
	if err := s.SubscriptionStatus.Validate(); err != nil {
		return err
	}
	if err := s.BillingTime.Validate(); err != nil {
		return err
	}
	terminated := s.SubscriptionStatus == types.SubscriptionStatusTerminated
	if terminated != (s.TerminatedAt != nil) {
		return ierr.NewError("inconsistent termination state").
			WithHint("terminated_at must be set if and only if the subscription is terminated").
			WithReportableDetails(map[string]any{
				"subscription_id": s.ID,
				"status":          s.SubscriptionStatus,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsTerminated reports whether the subscription has been replaced or canceled.
func (s *Subscription) IsTerminated() bool {
	return s.SubscriptionStatus == types.SubscriptionStatusTerminated
}

// IsAnniversary reports whether billing periods align to the start date.
func (s *Subscription) IsAnniversary() bool {
	return s.BillingTime == types.BillingTimeAnniversary
}

// StartedInPast reports whether the subscription started strictly before the
// given reference instant, at date granularity.
func (s *Subscription) StartedInPast(reference time.Time) bool {
	if s.StartedAt == nil {
		return false
	}
	return types.StartOfDay(*s.StartedAt).Before(types.StartOfDay(reference))
}

// TrialEndDate derives the trial end from the subscription start and the
// plan's trial length. Returns the zero time when there is no trial or the
// subscription has not started.
func (s *Subscription) TrialEndDate(p *plan.Plan) time.Time {
	if s.StartedAt == nil || p == nil || !p.HasTrial() {
		return time.Time{}
	}
	return types.StartOfDay(*s.StartedAt).AddDate(0, 0, p.TrialPeriodDays)
}
