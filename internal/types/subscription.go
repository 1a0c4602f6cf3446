package types

import (
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/samber/lo"
)

// SubscriptionStatus is the status of a subscription
type SubscriptionStatus string

const (
	SubscriptionStatusPending    SubscriptionStatus = "pending"
	SubscriptionStatusActive     SubscriptionStatus = "active"
	SubscriptionStatusTerminated SubscriptionStatus = "terminated"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) Validate() error {
	allowed := []SubscriptionStatus{
		SubscriptionStatusPending,
		SubscriptionStatusActive,
		SubscriptionStatusTerminated,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid subscription status").
			WithHint("Invalid subscription status").
			WithReportableDetails(map[string]any{
				"status":         s,
				"allowed_status": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// BillingTime controls how billing period boundaries are aligned:
// to the subscription's own start date (anniversary) or to calendar
// day/week/month/year boundaries.
type BillingTime string

const (
	BillingTimeAnniversary BillingTime = "anniversary"
	BillingTimeCalendar    BillingTime = "calendar"
)

func (b BillingTime) String() string {
	return string(b)
}

func (b BillingTime) Validate() error {
	allowed := []BillingTime{
		BillingTimeAnniversary,
		BillingTimeCalendar,
	}
	if !lo.Contains(allowed, b) {
		return ierr.NewError("invalid billing time").
			WithHint("Invalid billing time").
			WithReportableDetails(map[string]any{
				"billing_time":   b,
				"allowed_values": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
