package sequence

import (
	"context"
	"time"

	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/types"
)

// DefaultLockTimeout bounds how long a caller waits for the scope lock.
const DefaultLockTimeout = 10 * time.Second

// Generator assigns strictly contiguous, monotonically increasing integers
// within a scope, safe across concurrent transactions. Assignment is
// linearized per scope by a cooperative named lock; distinct scopes never
// contend.
type Generator struct {
	repo        Repository
	locks       LockManager
	lockTimeout time.Duration
	logger      *logger.Logger
}

// NewGenerator creates a sequence generator. A non-positive lockTimeout
// falls back to DefaultLockTimeout.
func NewGenerator(repo Repository, locks LockManager, lockTimeout time.Duration, log *logger.Logger) *Generator {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &Generator{
		repo:        repo,
		locks:       locks,
		lockTimeout: lockTimeout,
		logger:      log,
	}
}

// Next returns the next free integer in the scope's series. Inside the scope
// lock it reads the current maximum and probes upward from max+1, skipping
// any value already present; the probing protects against inconsistencies
// left by earlier failed attempts instead of blindly incrementing into them.
//
// When the lock cannot be acquired within the bound the error is marked as
// a sequence timeout, fatal to the current operation: the generator never
// hands out a possibly-duplicate value after a timeout.
func (g *Generator) Next(ctx context.Context, scope types.SequenceScope) (int64, error) {
	if err := scope.Validate(); err != nil {
		return 0, err
	}

	var value int64
	err := g.locks.WithLock(ctx, scope.LockKey(), g.lockTimeout, func(ctx context.Context) error {
		max, err := g.repo.MaxValue(ctx, scope)
		if err != nil {
			return err
		}

		candidate := max + 1
		for {
			taken, err := g.repo.Exists(ctx, scope, candidate)
			if err != nil {
				return err
			}
			if !taken {
				break
			}
			candidate++
		}

		value = candidate
		return nil
	})
	if err != nil {
		if ierr.IsSequenceTimeout(err) {
			g.logger.Warnw("sequence lock acquisition timed out",
				"scope", scope.String(),
				"timeout", g.lockTimeout)
			return 0, err
		}
		return 0, err
	}

	g.logger.Debugw("assigned sequential id",
		"scope", scope.String(),
		"value", value)
	return value, nil
}
