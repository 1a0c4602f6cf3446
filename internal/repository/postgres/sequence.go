package postgres

import (
	"context"

	"github.com/billforge/billforge/internal/domain/sequence"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/postgres"
	"github.com/billforge/billforge/internal/types"
)

// sequenceRepository derives sequence state by scanning existing
// assignments in the fees table; there is no separate counter row to drift
// out of sync with reality.
type sequenceRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewSequenceRepository(client postgres.IClient, log *logger.Logger) sequence.Repository {
	return &sequenceRepository{
		client: client,
		logger: log,
	}
}

func (r *sequenceRepository) MaxValue(ctx context.Context, scope types.SequenceScope) (int64, error) {
	query := `
		SELECT COALESCE(MAX(sequential_id), 0) FROM fees
		WHERE fee_type = $1 AND tenant_id = $2 AND sequential_id > 0`

	var max int64
	err := r.client.Querier(ctx).GetContext(ctx, &max, query,
		scope.EntityType, scope.OwnerID)
	if err != nil {
		return 0, mapError(err, "sequence max lookup failed", map[string]any{"scope": scope.String()})
	}
	return max, nil
}

func (r *sequenceRepository) Exists(ctx context.Context, scope types.SequenceScope, value int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM fees
			WHERE fee_type = $1 AND tenant_id = $2 AND sequential_id = $3
		)`

	var exists bool
	err := r.client.Querier(ctx).GetContext(ctx, &exists, query,
		scope.EntityType, scope.OwnerID, value)
	if err != nil {
		return false, mapError(err, "sequence existence check failed", map[string]any{
			"scope": scope.String(),
			"value": value,
		})
	}
	return exists, nil
}
