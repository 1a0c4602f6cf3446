package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domainFee "github.com/billforge/billforge/internal/domain/fee"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/postgres"
	"github.com/billforge/billforge/internal/types"
)

type feeRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewFeeRepository(client postgres.IClient, log *logger.Logger) domainFee.Repository {
	return &feeRepository{
		client: client,
		logger: log,
	}
}

// Create relies on the unique index on (invoice_id, subscription_id,
// fee_type) to reject race-lost duplicates; mapError surfaces those as
// already-exists.
func (r *feeRepository) Create(ctx context.Context, f *domainFee.Fee) error {
	query := `
		INSERT INTO fees (
			id, invoice_id, subscription_id, fee_type,
			amount_cents, currency, units,
			period_start, period_end, sequential_id,
			tenant_id, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :invoice_id, :subscription_id, :fee_type,
			:amount_cents, :currency, :units,
			:period_start, :period_end, :sequential_id,
			:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := postgres.NamedExec(ctx, r.client.Querier(ctx), query, f); err != nil {
		return mapError(err, "fee creation failed", map[string]any{
			"invoice_id":      f.InvoiceID,
			"subscription_id": f.SubscriptionID,
		})
	}
	return nil
}

func (r *feeRepository) Get(ctx context.Context, id string) (*domainFee.Fee, error) {
	query := `
		SELECT * FROM fees
		WHERE id = $1 AND tenant_id = $2 AND status != $3`

	var f domainFee.Fee
	err := r.client.Querier(ctx).GetContext(ctx, &f, query,
		id, types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("fee not found").
				WithHintf("Fee %s does not exist", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, mapError(err, "fee lookup failed", map[string]any{"fee_id": id})
	}
	return &f, nil
}

func (r *feeRepository) Update(ctx context.Context, f *domainFee.Fee) error {
	query := `
		UPDATE fees SET
			sequential_id = :sequential_id,
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id`

	if _, err := postgres.NamedExec(ctx, r.client.Querier(ctx), query, f); err != nil {
		return mapError(err, "fee update failed", map[string]any{"fee_id": f.ID})
	}
	return nil
}

func (r *feeRepository) GetByInvoiceAndSubscription(ctx context.Context, invoiceID, subscriptionID string) (*domainFee.Fee, error) {
	query := `
		SELECT * FROM fees
		WHERE invoice_id = $1 AND subscription_id = $2 AND fee_type = $3
			AND tenant_id = $4 AND status != $5
		LIMIT 1`

	var f domainFee.Fee
	err := r.client.Querier(ctx).GetContext(ctx, &f, query,
		invoiceID, subscriptionID, types.FeeTypeSubscription,
		types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("fee not found").
				WithHint("No subscription fee exists for this invoice").
				WithReportableDetails(map[string]any{
					"invoice_id":      invoiceID,
					"subscription_id": subscriptionID,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, mapError(err, "fee lookup failed", map[string]any{
			"invoice_id":      invoiceID,
			"subscription_id": subscriptionID,
		})
	}
	return &f, nil
}

func (r *feeRepository) CountInvoicesForSubscription(ctx context.Context, subscriptionID string) (int, error) {
	query := `
		SELECT COUNT(DISTINCT invoice_id) FROM fees
		WHERE subscription_id = $1 AND fee_type = $2
			AND tenant_id = $3 AND status != $4`

	var count int
	err := r.client.Querier(ctx).GetContext(ctx, &count, query,
		subscriptionID, types.FeeTypeSubscription,
		types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		return 0, mapError(err, "invoice count failed", map[string]any{"subscription_id": subscriptionID})
	}
	return count, nil
}

func (r *feeRepository) ExistsCreatedBefore(ctx context.Context, subscriptionID string, before time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM fees
			WHERE subscription_id = $1 AND fee_type = $2
				AND created_at < $3
				AND tenant_id = $4 AND status != $5
		)`

	var exists bool
	err := r.client.Querier(ctx).GetContext(ctx, &exists, query,
		subscriptionID, types.FeeTypeSubscription, before,
		types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		return false, mapError(err, "fee existence check failed", map[string]any{
			"subscription_id": subscriptionID,
			"before":          before.String(),
		})
	}
	return exists, nil
}
