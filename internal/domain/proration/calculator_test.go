package proration

import (
	"context"
	"testing"
	"time"

	"github.com/billforge/billforge/internal/domain/plan"
	"github.com/billforge/billforge/internal/domain/subscription"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// April 2024 has 30 days, so a 3000-cent monthly plan prices each day at
// exactly 100 cents for calendar billing.
func monthlyPlan(amountCents int64, payInAdvance bool, trialDays int) *plan.Plan {
	return &plan.Plan{
		ID:                 "plan_test",
		Name:               "Test Plan",
		AmountCents:        amountCents,
		AmountCurrency:     "usd",
		BillingPeriod:      types.BILLING_PERIOD_MONTHLY,
		BillingPeriodCount: 1,
		PayInAdvance:       payInAdvance,
		TrialPeriodDays:    trialDays,
		BaseModel:          types.GetDefaultBaseModel(context.Background()),
	}
}

func activeSub(startedAt time.Time, billingTime types.BillingTime) *subscription.Subscription {
	return &subscription.Subscription{
		ID:                 "sub_test",
		CustomerID:         "cust_test",
		PlanID:             "plan_test",
		SubscriptionStatus: types.SubscriptionStatusActive,
		Currency:           "usd",
		StartedAt:          &startedAt,
		BillingTime:        billingTime,
		BaseModel:          types.GetDefaultBaseModel(context.Background()),
	}
}

func terminatedSub(startedAt, terminatedAt time.Time, upgraded bool, nextID string) *subscription.Subscription {
	s := activeSub(startedAt, types.BillingTimeCalendar)
	s.SubscriptionStatus = types.SubscriptionStatusTerminated
	s.TerminatedAt = &terminatedAt
	s.Upgraded = upgraded
	s.NextSubscriptionID = nextID
	return s
}

func boundaries(from, to, timestamp time.Time) types.BillingPeriodBoundaries {
	return types.BillingPeriodBoundaries{From: from, To: to, Timestamp: timestamp}
}

func TestCalculator_Calculate(t *testing.T) {
	apr1 := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	apr15 := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	apr16 := time.Date(2024, 4, 16, 0, 0, 0, 0, time.UTC)
	apr30 := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mar1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	calculator := NewCalculator()

	tests := []struct {
		name           string
		params         ProrationParams
		expectedCents  int64
		expectedBranch BranchType
		expectedError  string
	}{
		{
			name: "first_subscription_full_calendar_period",
			// Started on the period boundary, billed for the whole of April.
			params: ProrationParams{
				Subscription: activeSub(apr1, types.BillingTimeCalendar),
				Plan:         monthlyPlan(3000, false, 0),
				Boundaries:   boundaries(apr1, apr30, apr30),
				InvoiceCount: 1,
			},
			// 30 days x 100 = 3000
			expectedCents:  3000,
			expectedBranch: BranchFirstSubscription,
		},
		{
			name: "first_subscription_mid_period_prorated",
			// Started Apr 16 on a calendar plan: 15 of April's 30 days.
			params: ProrationParams{
				Subscription: activeSub(apr16, types.BillingTimeCalendar),
				Plan:         monthlyPlan(3000, false, 0),
				Boundaries:   boundaries(apr16, apr30, apr30),
				InvoiceCount: 1,
			},
			// 15 days x 100 = 1500
			expectedCents:  1500,
			expectedBranch: BranchFirstSubscription,
		},
		{
			name: "first_subscription_trial_shrinks_window",
			// 10-day trial from Apr 1 ends Apr 11; only Apr 11-30 is billed.
			params: ProrationParams{
				Subscription: activeSub(apr1, types.BillingTimeCalendar),
				Plan:         monthlyPlan(3000, false, 10),
				Boundaries:   boundaries(apr1, apr30, apr30),
				InvoiceCount: 1,
			},
			// 20 days x 100 = 2000
			expectedCents:  2000,
			expectedBranch: BranchFirstSubscription,
		},
		{
			name: "trial_covering_whole_window_bills_zero",
			params: ProrationParams{
				Subscription: activeSub(apr1, types.BillingTimeCalendar),
				Plan:         monthlyPlan(3000, false, 40),
				Boundaries:   boundaries(apr1, apr30, apr30),
				InvoiceCount: 1,
			},
			expectedCents:  0,
			expectedBranch: BranchFirstSubscription,
		},
		{
			name: "terminated_mid_period_prorated",
			// Arrears subscription terminated Apr 15 with no replacement.
			params: ProrationParams{
				Subscription: terminatedSub(jan1, apr15, false, ""),
				Plan:         monthlyPlan(3000, false, 0),
				Boundaries:   boundaries(apr1, apr15, apr15),
				InvoiceCount: 4,
			},
			// 15 days x 100 = 1500
			expectedCents:  1500,
			expectedBranch: BranchTerminated,
		},
		{
			name: "terminated_by_upgrade_prorated",
			params: ProrationParams{
				Subscription: terminatedSub(jan1, apr15, true, "sub_next"),
				Plan:         monthlyPlan(3000, false, 0),
				Boundaries:   boundaries(apr1, apr15, apr15),
				InvoiceCount: 4,
			},
			expectedCents:  1500,
			expectedBranch: BranchTerminated,
		},
		{
			name: "terminated_trial_shrinks_window",
			// Terminated Apr 15 with a 5-day trial from Apr 1: only the days
			// from trial end through termination are billed.
			params: ProrationParams{
				Subscription: terminatedSub(apr1, apr15, false, ""),
				Plan:         monthlyPlan(3000, false, 5),
				Boundaries:   boundaries(apr1, apr15, apr15),
				InvoiceCount: 1,
			},
			// days(Apr 6..Apr 15) = 10, 10 x 100 = 1000
			expectedCents:  1000,
			expectedBranch: BranchTerminated,
		},
		{
			name: "terminated_trial_covering_window_bills_zero",
			params: ProrationParams{
				Subscription: terminatedSub(apr1, apr15, false, ""),
				Plan:         monthlyPlan(3000, false, 20),
				Boundaries:   boundaries(apr1, apr15, apr15),
				InvoiceCount: 1,
			},
			expectedCents:  0,
			expectedBranch: BranchTerminated,
		},
		{
			name: "terminated_wins_over_full_period",
			// Both the terminated and full-period predicates hold; the
			// terminated branch has priority.
			params: ProrationParams{
				Subscription:              terminatedSub(jan1, apr15, false, ""),
				Plan:                      monthlyPlan(3000, false, 0),
				Boundaries:                boundaries(apr1, apr15, apr15),
				InvoiceCount:              4,
				HasEarlierSubscriptionFee: true,
			},
			expectedCents:  1500,
			expectedBranch: BranchTerminated,
		},
		{
			name: "downgrade_replacement_not_billed_as_terminated",
			// Terminated by a downgrade: the next subscription exists and the
			// termination was not an upgrade, so the full-period branch applies
			// and the old subscription is billed for its last whole period.
			params: ProrationParams{
				Subscription:              terminatedSub(jan1, apr15, false, "sub_next"),
				Plan:                      monthlyPlan(3000, false, 0),
				Boundaries:                boundaries(apr1, apr30, apr15),
				InvoiceCount:              4,
				HasEarlierSubscriptionFee: true,
			},
			expectedCents:  3000,
			expectedBranch: BranchFullPeriod,
		},
		{
			name: "upgrade_first_invoice_prorated",
			// Replacement subscription created by an upgrade on Apr 16; its
			// first invoice bills the remaining days at the new plan price.
			params: func() ProrationParams {
				s := activeSub(apr16, types.BillingTimeCalendar)
				s.PreviousSubscriptionID = "sub_prev"
				return ProrationParams{
					Subscription:                 s,
					Plan:                         monthlyPlan(3000, false, 0),
					Boundaries:                   boundaries(apr16, apr30, apr30),
					InvoiceCount:                 1,
					PreviousSubscriptionUpgraded: true,
				}
			}(),
			// 15 days x 100 = 1500
			expectedCents:  1500,
			expectedBranch: BranchUpgraded,
		},
		{
			name: "upgrade_trial_shrinks_window",
			// Upgrade on Apr 16 to a plan whose trial runs through Apr 26:
			// only the remaining 5 days are billed.
			params: func() ProrationParams {
				s := activeSub(apr16, types.BillingTimeCalendar)
				s.PreviousSubscriptionID = "sub_prev"
				return ProrationParams{
					Subscription:                 s,
					Plan:                         monthlyPlan(3000, false, 10),
					Boundaries:                   boundaries(apr16, apr30, apr30),
					InvoiceCount:                 1,
					PreviousSubscriptionUpgraded: true,
				}
			}(),
			// days(Apr 26..Apr 30) = 5, 5 x 100 = 500
			expectedCents:  500,
			expectedBranch: BranchUpgraded,
		},
		{
			name: "upgrade_trial_covering_window_bills_zero",
			params: func() ProrationParams {
				s := activeSub(apr16, types.BillingTimeCalendar)
				s.PreviousSubscriptionID = "sub_prev"
				return ProrationParams{
					Subscription:                 s,
					Plan:                         monthlyPlan(3000, false, 30),
					Boundaries:                   boundaries(apr16, apr30, apr30),
					InvoiceCount:                 1,
					PreviousSubscriptionUpgraded: true,
				}
			}(),
			expectedCents:  0,
			expectedBranch: BranchUpgraded,
		},
		{
			name: "upgrade_second_invoice_bills_full_period",
			params: func() ProrationParams {
				s := activeSub(apr16, types.BillingTimeCalendar)
				s.PreviousSubscriptionID = "sub_prev"
				return ProrationParams{
					Subscription:                 s,
					Plan:                         monthlyPlan(3000, false, 0),
					Boundaries:                   boundaries(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)),
					InvoiceCount:                 2,
					PreviousSubscriptionUpgraded: true,
					HasEarlierSubscriptionFee:    true,
				}
			}(),
			expectedCents:  3000,
			expectedBranch: BranchFullPeriod,
		},
		{
			name: "established_subscription_bills_full_period",
			// Started Jan 1, billed for April: started before the previous
			// period began, so no proration.
			params: ProrationParams{
				Subscription: activeSub(jan1, types.BillingTimeCalendar),
				Plan:         monthlyPlan(3000, false, 0),
				Boundaries:   boundaries(apr1, apr30, apr30),
				InvoiceCount: 4,
			},
			expectedCents:  3000,
			expectedBranch: BranchFullPeriod,
		},
		{
			name: "pay_in_advance_anniversary_bills_full_period",
			params: ProrationParams{
				Subscription: activeSub(apr1, types.BillingTimeAnniversary),
				Plan:         monthlyPlan(3000, true, 0),
				Boundaries:   boundaries(apr1, apr30, apr1),
				InvoiceCount: 1,
			},
			expectedCents:  3000,
			expectedBranch: BranchFullPeriod,
		},
		{
			name: "full_period_trial_ending_partway",
			// Established subscription whose trial ends Apr 11: only the 20
			// days from trial end through period end are billed.
			params: func() ProrationParams {
				s := activeSub(apr1, types.BillingTimeCalendar)
				return ProrationParams{
					Subscription:              s,
					Plan:                      monthlyPlan(3000, false, 10),
					Boundaries:                boundaries(apr1, apr30, apr30),
					InvoiceCount:              1,
					HasEarlierSubscriptionFee: true,
				}
			}(),
			// days(Apr 11..Apr 30) = 20, 20 x 100 = 2000
			expectedCents:  2000,
			expectedBranch: BranchFullPeriod,
		},
		{
			name: "amount_clamped_to_plan_price",
			// Boundaries wider than one period cannot bill more than the
			// full-period price.
			params: ProrationParams{
				Subscription: activeSub(apr1, types.BillingTimeCalendar),
				Plan:         monthlyPlan(3000, false, 0),
				Boundaries:   boundaries(mar1, apr30, apr30),
				InvoiceCount: 1,
			},
			// 61 days x 100 = 6100, clamped to 3000
			expectedCents:  3000,
			expectedBranch: BranchFirstSubscription,
		},
		{
			name: "terminal_rounding_half_up",
			// 1005 / 30 days = 33.5 per day; 15 days = 502.5 -> 503.
			params: ProrationParams{
				Subscription: activeSub(apr16, types.BillingTimeCalendar),
				Plan:         monthlyPlan(1005, false, 0),
				Boundaries:   boundaries(apr16, apr30, apr30),
				InvoiceCount: 1,
			},
			expectedCents:  503,
			expectedBranch: BranchFirstSubscription,
		},
		{
			name: "missing_subscription",
			params: ProrationParams{
				Plan:       monthlyPlan(3000, false, 0),
				Boundaries: boundaries(apr1, apr30, apr30),
			},
			expectedError: "subscription is required",
		},
		{
			name: "missing_plan",
			params: ProrationParams{
				Subscription: activeSub(apr1, types.BillingTimeCalendar),
				Boundaries:   boundaries(apr1, apr30, apr30),
			},
			expectedError: "plan is required",
		},
		{
			name: "subscription_not_started",
			params: func() ProrationParams {
				s := activeSub(apr1, types.BillingTimeCalendar)
				s.StartedAt = nil
				return ProrationParams{
					Subscription: s,
					Plan:         monthlyPlan(3000, false, 0),
					Boundaries:   boundaries(apr1, apr30, apr30),
				}
			}(),
			expectedError: "subscription has not started",
		},
		{
			name: "inverted_boundaries",
			params: ProrationParams{
				Subscription: activeSub(apr1, types.BillingTimeCalendar),
				Plan:         monthlyPlan(3000, false, 0),
				Boundaries:   boundaries(apr30, apr1, apr30),
			},
			expectedError: "invalid billing period boundaries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := calculator.Calculate(context.Background(), tt.params)
			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.True(t, ierr.IsValidation(err))
				return
			}
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.expectedBranch, result.Branch)
			assert.Equal(t, tt.expectedCents, result.AmountCents)
		})
	}
}

func TestCalculator_NeverNegative(t *testing.T) {
	apr1 := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	apr30 := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)

	calculator := NewCalculator()
	result, err := calculator.Calculate(context.Background(), ProrationParams{
		Subscription: activeSub(apr1, types.BillingTimeCalendar),
		Plan:         monthlyPlan(0, false, 0),
		Boundaries:   types.BillingPeriodBoundaries{From: apr1, To: apr30, Timestamp: apr30},
		InvoiceCount: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.AmountCents)
	assert.False(t, result.Amount.IsNegative())
}
