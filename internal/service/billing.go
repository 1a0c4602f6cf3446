package service

import (
	"context"

	domainFee "github.com/billforge/billforge/internal/domain/fee"
	"github.com/billforge/billforge/internal/domain/plan"
	"github.com/billforge/billforge/internal/domain/proration"
	"github.com/billforge/billforge/internal/domain/subscription"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
	"github.com/billforge/billforge/internal/validator"
)

// ComputeSubscriptionFeeRequest asks for the amount owed for a
// subscription's recurring fee within the given period boundaries, on
// behalf of the given invoice.
type ComputeSubscriptionFeeRequest struct {
	SubscriptionID string                        `json:"subscription_id" validate:"required"`
	InvoiceID      string                        `json:"invoice_id" validate:"required"`
	Boundaries     types.BillingPeriodBoundaries `json:"boundaries" validate:"required"`
}

// ComputeSubscriptionFeeResponse reports either the freshly computed fee or
// the fee a previous run already created for this (invoice, subscription)
// pair. AlreadyBilled distinguishes the two; the amounts are identical
// either way, which is what makes retries safe.
type ComputeSubscriptionFeeResponse struct {
	FeeID         string              `json:"fee_id"`
	AmountCents   int64               `json:"amount_cents"`
	Currency      string              `json:"currency"`
	Branch        proration.BranchType `json:"branch,omitempty"`
	AlreadyBilled bool                `json:"already_billed"`
}

// BillingService computes subscription fees. It decides how much to charge,
// never whether to invoice; the invoicing workflow owns that decision.
type BillingService interface {
	ComputeSubscriptionFee(ctx context.Context, req ComputeSubscriptionFeeRequest) (*ComputeSubscriptionFeeResponse, error)
}

type billingService struct {
	ServiceParams
	calculator *proration.Calculator
}

func NewBillingService(params ServiceParams) BillingService {
	return &billingService{
		ServiceParams: params,
		calculator:    proration.NewCalculator(),
	}
}

// ComputeSubscriptionFee runs the idempotency check first and short-circuits
// when a fee already exists, then selects a billing branch, rounds the
// terminal amount and persists the fee. The existence check and the create
// run inside one transaction, and a race-lost duplicate create degrades to
// the idempotent response rather than an error.
func (s *billingService) ComputeSubscriptionFee(ctx context.Context, req ComputeSubscriptionFeeRequest) (*ComputeSubscriptionFeeResponse, error) {
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}
	if err := req.Boundaries.Validate(); err != nil {
		return nil, err
	}

	sub, err := s.SubRepo.Get(ctx, req.SubscriptionID)
	if err != nil {
		return nil, err
	}
	p, err := s.PlanRepo.Get(ctx, sub.PlanID)
	if err != nil {
		return nil, err
	}

	var resp *ComputeSubscriptionFeeResponse
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		existing, err := s.FeeRepo.GetByInvoiceAndSubscription(ctx, req.InvoiceID, req.SubscriptionID)
		if err == nil {
			resp = existingFeeResponse(existing)
			return nil
		}
		if !ierr.IsNotFound(err) {
			return err
		}

		params, err := s.gatherProrationParams(ctx, req, sub, p)
		if err != nil {
			return err
		}

		result, err := s.calculator.Calculate(ctx, params)
		if err != nil {
			return err
		}

		newFee := &domainFee.Fee{
			ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_FEE),
			InvoiceID:      req.InvoiceID,
			SubscriptionID: req.SubscriptionID,
			FeeType:        types.FeeTypeSubscription,
			AmountCents:    result.AmountCents,
			Currency:       p.AmountCurrency,
			Units:          1,
			PeriodStart:    req.Boundaries.From,
			PeriodEnd:      req.Boundaries.To,
			BaseModel:      types.GetDefaultBaseModel(ctx),
		}
		if err := newFee.Validate(); err != nil {
			return err
		}

		if err := s.FeeRepo.Create(ctx, newFee); err != nil {
			if ierr.IsAlreadyExists(err) {
				// A concurrent run won the race; report its fee instead of
				// failing the operation.
				winner, getErr := s.FeeRepo.GetByInvoiceAndSubscription(ctx, req.InvoiceID, req.SubscriptionID)
				if getErr != nil {
					return getErr
				}
				resp = existingFeeResponse(winner)
				return nil
			}
			return err
		}

		s.Logger.Infow("created subscription fee",
			"fee_id", newFee.ID,
			"invoice_id", req.InvoiceID,
			"subscription_id", req.SubscriptionID,
			"branch", result.Branch,
			"amount_cents", result.AmountCents)

		resp = &ComputeSubscriptionFeeResponse{
			FeeID:       newFee.ID,
			AmountCents: newFee.AmountCents,
			Currency:    newFee.Currency,
			Branch:      result.Branch,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// gatherProrationParams collects the collaborator facts the calculator
// needs so the calculation itself stays pure.
func (s *billingService) gatherProrationParams(
	ctx context.Context,
	req ComputeSubscriptionFeeRequest,
	sub *subscription.Subscription,
	p *plan.Plan,
) (proration.ProrationParams, error) {
	invoiceCount, err := s.FeeRepo.CountInvoicesForSubscription(ctx, sub.ID)
	if err != nil {
		return proration.ProrationParams{}, err
	}

	hasEarlier, err := s.FeeRepo.ExistsCreatedBefore(ctx, sub.ID, req.Boundaries.Timestamp)
	if err != nil {
		return proration.ProrationParams{}, err
	}

	prevUpgraded := false
	if sub.PreviousSubscriptionID != "" {
		prev, err := s.SubRepo.Get(ctx, sub.PreviousSubscriptionID)
		if err != nil {
			if !ierr.IsNotFound(err) {
				return proration.ProrationParams{}, err
			}
		} else {
			prevUpgraded = prev.Upgraded
		}
	}

	return proration.ProrationParams{
		Subscription:                 sub,
		Plan:                         p,
		Boundaries:                   req.Boundaries,
		PreviousSubscriptionUpgraded: prevUpgraded,
		// The fee being computed counts as the current invoice
		InvoiceCount:              invoiceCount + 1,
		HasEarlierSubscriptionFee: hasEarlier,
	}, nil
}

func existingFeeResponse(f *domainFee.Fee) *ComputeSubscriptionFeeResponse {
	return &ComputeSubscriptionFeeResponse{
		FeeID:         f.ID,
		AmountCents:   f.AmountCents,
		Currency:      f.Currency,
		AlreadyBilled: true,
	}
}
