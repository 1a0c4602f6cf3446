package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/billforge/billforge/internal/domain/fee"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
)

// InMemoryFeeStore implements fee.Repository, including the uniqueness
// constraint on (invoice, subscription, fee type) that the real schema
// enforces with a unique index.
type InMemoryFeeStore struct {
	*InMemoryStore[*fee.Fee]
	mu sync.Mutex
}

// NewInMemoryFeeStore creates a new in-memory fee store
func NewInMemoryFeeStore() *InMemoryFeeStore {
	return &InMemoryFeeStore{
		InMemoryStore: NewInMemoryStore[*fee.Fee](),
	}
}

func (s *InMemoryFeeStore) Create(ctx context.Context, f *fee.Fee) error {
	if f == nil {
		return fmt.Errorf("fee cannot be nil")
	}

	// Serialize the pair check and insert so concurrent creates hit the
	// same constraint a unique index would enforce.
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.All() {
		if existing.InvoiceID == f.InvoiceID &&
			existing.SubscriptionID == f.SubscriptionID &&
			existing.FeeType == f.FeeType &&
			existing.Status != types.StatusDeleted {
			return ierr.NewError("duplicate subscription fee").
				WithHint("A subscription fee already exists for this invoice").
				WithReportableDetails(map[string]any{
					"invoice_id":      f.InvoiceID,
					"subscription_id": f.SubscriptionID,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
	}

	return s.InMemoryStore.Create(ctx, f.ID, f)
}

func (s *InMemoryFeeStore) Get(ctx context.Context, id string) (*fee.Fee, error) {
	f, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return nil, ierr.NewError("fee not found").
				WithHintf("Fee %s does not exist", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, err
	}
	return f, nil
}

func (s *InMemoryFeeStore) Update(ctx context.Context, f *fee.Fee) error {
	return s.InMemoryStore.Update(ctx, f.ID, f)
}

func (s *InMemoryFeeStore) GetByInvoiceAndSubscription(ctx context.Context, invoiceID, subscriptionID string) (*fee.Fee, error) {
	for _, f := range s.All() {
		if f.InvoiceID == invoiceID &&
			f.SubscriptionID == subscriptionID &&
			f.FeeType == types.FeeTypeSubscription &&
			f.Status != types.StatusDeleted {
			return f, nil
		}
	}
	return nil, ierr.NewError("fee not found").
		WithHint("No subscription fee exists for this invoice").
		WithReportableDetails(map[string]any{
			"invoice_id":      invoiceID,
			"subscription_id": subscriptionID,
		}).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryFeeStore) CountInvoicesForSubscription(ctx context.Context, subscriptionID string) (int, error) {
	invoices := make(map[string]struct{})
	for _, f := range s.All() {
		if f.SubscriptionID == subscriptionID &&
			f.FeeType == types.FeeTypeSubscription &&
			f.Status != types.StatusDeleted {
			invoices[f.InvoiceID] = struct{}{}
		}
	}
	return len(invoices), nil
}

func (s *InMemoryFeeStore) ExistsCreatedBefore(ctx context.Context, subscriptionID string, before time.Time) (bool, error) {
	for _, f := range s.All() {
		if f.SubscriptionID == subscriptionID &&
			f.FeeType == types.FeeTypeSubscription &&
			f.Status != types.StatusDeleted &&
			f.CreatedAt.Before(before) {
			return true, nil
		}
	}
	return false, nil
}

var _ fee.Repository = (*InMemoryFeeStore)(nil)
