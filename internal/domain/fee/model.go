package fee

import (
	"time"

	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
)

// Fee is one monetary line item for one subscription within one invoice.
// At most one subscription-kind fee may exist per (invoice, subscription)
// pair; the billing service checks before creating and the repository
// enforces the constraint against races.
type Fee struct {
	ID string `db:"id" json:"id"`

	// InvoiceID is the invoice this fee belongs to
	InvoiceID string `db:"invoice_id" json:"invoice_id"`

	// SubscriptionID is the invoiceable this fee was computed for
	SubscriptionID string `db:"subscription_id" json:"subscription_id"`

	// FeeType is always subscription for fees produced by this module
	FeeType types.FeeType `db:"fee_type" json:"fee_type"`

	// AmountCents is the terminal rounded amount in minor currency units
	AmountCents int64  `db:"amount_cents" json:"amount_cents"`
	Currency    string `db:"currency" json:"currency"`

	// Units is always 1 for subscription fees
	Units int `db:"units" json:"units"`

	// PeriodStart and PeriodEnd snapshot the boundaries used to compute the
	// amount, so the fee stays auditable after the subscription moves on.
	PeriodStart time.Time `db:"period_start" json:"period_start"`
	PeriodEnd   time.Time `db:"period_end" json:"period_end"`

	// SequentialID is the gapless human-facing number within the owning
	// scope. Zero until assigned.
	SequentialID int64 `db:"sequential_id" json:"sequential_id"`

	types.BaseModel
}

func (f *Fee) Validate() error {
	if f.InvoiceID == "" || f.SubscriptionID == "" {
		return ierr.NewError("invalid fee").
			WithHint("Fee requires an invoice id and a subscription id").
			Mark(ierr.ErrValidation)
	}
	if f.AmountCents < 0 {
		return ierr.NewError("invalid fee amount").
			WithHint("Fee amount cannot be negative").
			WithReportableDetails(map[string]any{
				"fee_id":       f.ID,
				"amount_cents": f.AmountCents,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
