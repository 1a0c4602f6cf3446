package postgres

import (
	"context"
	"database/sql"
	"errors"

	domainPlan "github.com/billforge/billforge/internal/domain/plan"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/postgres"
	"github.com/billforge/billforge/internal/types"
)

type planRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewPlanRepository(client postgres.IClient, log *logger.Logger) domainPlan.Repository {
	return &planRepository{
		client: client,
		logger: log,
	}
}

func (r *planRepository) Create(ctx context.Context, p *domainPlan.Plan) error {
	query := `
		INSERT INTO plans (
			id, name, lookup_key, description,
			amount_cents, amount_currency,
			billing_period, billing_period_count,
			pay_in_advance, trial_period_days,
			tenant_id, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :name, :lookup_key, :description,
			:amount_cents, :amount_currency,
			:billing_period, :billing_period_count,
			:pay_in_advance, :trial_period_days,
			:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := postgres.NamedExec(ctx, r.client.Querier(ctx), query, p); err != nil {
		return mapError(err, "plan creation failed", map[string]any{"plan_id": p.ID})
	}
	return nil
}

func (r *planRepository) Get(ctx context.Context, id string) (*domainPlan.Plan, error) {
	query := `
		SELECT * FROM plans
		WHERE id = $1 AND tenant_id = $2 AND status != $3`

	var p domainPlan.Plan
	err := r.client.Querier(ctx).GetContext(ctx, &p, query,
		id, types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("plan not found").
				WithHintf("Plan %s does not exist", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, mapError(err, "plan lookup failed", map[string]any{"plan_id": id})
	}
	return &p, nil
}

func (r *planRepository) Update(ctx context.Context, p *domainPlan.Plan) error {
	query := `
		UPDATE plans SET
			name = :name,
			lookup_key = :lookup_key,
			description = :description,
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id`

	if _, err := postgres.NamedExec(ctx, r.client.Querier(ctx), query, p); err != nil {
		return mapError(err, "plan update failed", map[string]any{"plan_id": p.ID})
	}
	return nil
}

func (r *planRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE plans SET status = $1, updated_at = NOW()
		WHERE id = $2 AND tenant_id = $3`

	if _, err := r.client.Querier(ctx).ExecContext(ctx, query,
		types.StatusDeleted, id, types.GetTenantID(ctx)); err != nil {
		return mapError(err, "plan deletion failed", map[string]any{"plan_id": id})
	}
	return nil
}
