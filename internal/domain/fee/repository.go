package fee

import (
	"context"
	"time"
)

// Repository defines the interface for fee persistence. Create must fail
// with an already-exists error when a subscription-kind fee for the same
// (invoice, subscription) pair sneaks in concurrently.
type Repository interface {
	Create(ctx context.Context, fee *Fee) error
	Get(ctx context.Context, id string) (*Fee, error)
	Update(ctx context.Context, fee *Fee) error

	// GetByInvoiceAndSubscription returns the subscription-kind fee for the
	// pair, or a not-found error. This is the idempotency lookup.
	GetByInvoiceAndSubscription(ctx context.Context, invoiceID, subscriptionID string) (*Fee, error)

	// CountInvoicesForSubscription counts the distinct invoices the
	// subscription has been billed on so far.
	CountInvoicesForSubscription(ctx context.Context, subscriptionID string) (int, error)

	// ExistsCreatedBefore reports whether a subscription-kind fee for this
	// subscription exists with a creation time earlier than the given instant.
	ExistsCreatedBefore(ctx context.Context, subscriptionID string, before time.Time) (bool, error)
}
