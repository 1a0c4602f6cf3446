package service

import (
	"github.com/billforge/billforge/internal/config"
	"github.com/billforge/billforge/internal/domain/fee"
	"github.com/billforge/billforge/internal/domain/plan"
	"github.com/billforge/billforge/internal/domain/sequence"
	"github.com/billforge/billforge/internal/domain/subscription"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	SubRepo  subscription.Repository
	PlanRepo plan.Repository
	FeeRepo  fee.Repository

	SequenceRepo  sequence.Repository
	SequenceLocks sequence.LockManager
}
