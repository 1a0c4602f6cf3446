package main

import (
	"context"
	"time"

	"github.com/billforge/billforge/internal/config"
	"github.com/billforge/billforge/internal/domain/fee"
	"github.com/billforge/billforge/internal/domain/plan"
	"github.com/billforge/billforge/internal/domain/sequence"
	"github.com/billforge/billforge/internal/domain/subscription"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/postgres"
	repo "github.com/billforge/billforge/internal/repository/postgres"
	"github.com/billforge/billforge/internal/service"
	"go.uber.org/fx"
)

func init() {
	// All billing date arithmetic happens in UTC
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			config.NewConfig,
			newLogger,

			repo.NewPlanRepository,
			repo.NewSubscriptionRepository,
			repo.NewFeeRepository,
			repo.NewSequenceRepository,
			postgres.NewAdvisoryLockManager,

			newServiceParams,
			service.NewBillingService,
			service.NewSequenceService,
		),
		postgres.Module(),
		fx.Invoke(announce),
	)

	app.Run()
}

func newLogger(cfg *config.Configuration) (*logger.Logger, error) {
	return logger.NewLogger(cfg.Logging.Level)
}

func newServiceParams(
	cfg *config.Configuration,
	log *logger.Logger,
	db postgres.IClient,
	subRepo subscription.Repository,
	planRepo plan.Repository,
	feeRepo fee.Repository,
	sequenceRepo sequence.Repository,
	locks sequence.LockManager,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:        log,
		Config:        cfg,
		DB:            db,
		SubRepo:       subRepo,
		PlanRepo:      planRepo,
		FeeRepo:       feeRepo,
		SequenceRepo:  sequenceRepo,
		SequenceLocks: locks,
	}
}

func announce(lc fx.Lifecycle, log *logger.Logger, _ service.BillingService, _ service.SequenceService) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("billforge started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("billforge stopped")
			return nil
		},
	})
}
