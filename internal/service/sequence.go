package service

import (
	"context"

	"github.com/billforge/billforge/internal/domain/sequence"
	"github.com/billforge/billforge/internal/types"
)

// SequenceService assigns gapless sequential ids. NextSequentialID hands
// out the next free value in a scope; AssignFeeSequentialID numbers a
// persisted fee idempotently.
type SequenceService interface {
	NextSequentialID(ctx context.Context, scope types.SequenceScope) (int64, error)
	AssignFeeSequentialID(ctx context.Context, feeID string) (int64, error)
}

type sequenceService struct {
	ServiceParams
	generator *sequence.Generator
}

func NewSequenceService(params ServiceParams) SequenceService {
	return &sequenceService{
		ServiceParams: params,
		generator: sequence.NewGenerator(
			params.SequenceRepo,
			params.SequenceLocks,
			params.Config.Billing.SequenceLockTimeout,
			params.Logger,
		),
	}
}

func (s *sequenceService) NextSequentialID(ctx context.Context, scope types.SequenceScope) (int64, error) {
	return s.generator.Next(ctx, scope)
}

// AssignFeeSequentialID numbers the fee within its owning scope. Re-invoking
// on an already-numbered fee is a no-op returning the existing value. The
// lookup, assignment and write share one transaction, so the scope lock is
// held until the number is durably attached to the record.
func (s *sequenceService) AssignFeeSequentialID(ctx context.Context, feeID string) (int64, error) {
	var assigned int64
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		f, err := s.FeeRepo.Get(ctx, feeID)
		if err != nil {
			return err
		}
		if f.SequentialID > 0 {
			assigned = f.SequentialID
			return nil
		}

		scope := types.SequenceScope{
			EntityType: string(f.FeeType),
			OwnerID:    f.TenantID,
		}
		next, err := s.generator.Next(ctx, scope)
		if err != nil {
			return err
		}

		f.SequentialID = next
		if err := s.FeeRepo.Update(ctx, f); err != nil {
			return err
		}
		assigned = next
		return nil
	})
	if err != nil {
		return 0, err
	}
	return assigned, nil
}
