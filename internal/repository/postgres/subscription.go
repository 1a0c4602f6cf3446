package postgres

import (
	"context"
	"database/sql"
	"errors"

	domainSub "github.com/billforge/billforge/internal/domain/subscription"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/postgres"
	"github.com/billforge/billforge/internal/types"
)

type subscriptionRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewSubscriptionRepository(client postgres.IClient, log *logger.Logger) domainSub.Repository {
	return &subscriptionRepository{
		client: client,
		logger: log,
	}
}

func (r *subscriptionRepository) Create(ctx context.Context, s *domainSub.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			id, customer_id, plan_id, subscription_status, currency,
			started_at, terminated_at, billing_time,
			previous_subscription_id, next_subscription_id, upgraded,
			tenant_id, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :customer_id, :plan_id, :subscription_status, :currency,
			:started_at, :terminated_at, :billing_time,
			:previous_subscription_id, :next_subscription_id, :upgraded,
			:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := postgres.NamedExec(ctx, r.client.Querier(ctx), query, s); err != nil {
		return mapError(err, "subscription creation failed", map[string]any{"subscription_id": s.ID})
	}
	return nil
}

func (r *subscriptionRepository) Get(ctx context.Context, id string) (*domainSub.Subscription, error) {
	query := `
		SELECT * FROM subscriptions
		WHERE id = $1 AND tenant_id = $2 AND status != $3`

	var s domainSub.Subscription
	err := r.client.Querier(ctx).GetContext(ctx, &s, query,
		id, types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("subscription not found").
				WithHintf("Subscription %s does not exist", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, mapError(err, "subscription lookup failed", map[string]any{"subscription_id": id})
	}
	return &s, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, s *domainSub.Subscription) error {
	query := `
		UPDATE subscriptions SET
			subscription_status = :subscription_status,
			started_at = :started_at,
			terminated_at = :terminated_at,
			previous_subscription_id = :previous_subscription_id,
			next_subscription_id = :next_subscription_id,
			upgraded = :upgraded,
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id`

	if _, err := postgres.NamedExec(ctx, r.client.Querier(ctx), query, s); err != nil {
		return mapError(err, "subscription update failed", map[string]any{"subscription_id": s.ID})
	}
	return nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE subscriptions SET status = $1, updated_at = NOW()
		WHERE id = $2 AND tenant_id = $3`

	if _, err := r.client.Querier(ctx).ExecContext(ctx, query,
		types.StatusDeleted, id, types.GetTenantID(ctx)); err != nil {
		return mapError(err, "subscription deletion failed", map[string]any{"subscription_id": id})
	}
	return nil
}
