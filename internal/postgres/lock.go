package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/billforge/billforge/internal/domain/sequence"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/cenkalti/backoff/v4"
)

// errLockHeld signals one failed try-acquire attempt inside the retry loop.
var errLockHeld = errors.New("advisory lock held by another session")

// AdvisoryLockManager implements the cooperative named-lock capability on
// top of postgres transaction-scoped advisory locks. The lock is taken with
// pg_try_advisory_xact_lock inside its own transaction, so the database
// releases it on every exit path — commit, rollback, or a severed
// connection — and the wrapped work shares the same transaction boundary.
type AdvisoryLockManager struct {
	client IClient
	logger *logger.Logger
}

func NewAdvisoryLockManager(client IClient, log *logger.Logger) sequence.LockManager {
	return &AdvisoryLockManager{
		client: client,
		logger: log,
	}
}

// WithLock acquires the named lock with a bounded wait and runs fn inside
// the holding transaction. On timeout it fails closed with a sequence
// timeout error; fn never runs without the lock.
func (m *AdvisoryLockManager) WithLock(ctx context.Context, key string, timeout time.Duration, fn func(ctx context.Context) error) error {
	return m.client.WithTx(ctx, func(ctx context.Context) error {
		if err := m.acquire(ctx, key, timeout); err != nil {
			return err
		}
		return fn(ctx)
	})
}

func (m *AdvisoryLockManager) acquire(ctx context.Context, key string, timeout time.Duration) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 50 * time.Millisecond
	policy.MaxInterval = 500 * time.Millisecond
	policy.MaxElapsedTime = timeout

	attempt := func() error {
		var acquired bool
		// hashtext maps the key into the advisory lock keyspace
		err := m.client.Querier(ctx).GetContext(ctx, &acquired,
			"SELECT pg_try_advisory_xact_lock(hashtext($1))", key)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !acquired {
			return errLockHeld
		}
		return nil
	}

	err := backoff.Retry(attempt, backoff.WithContext(policy, ctx))
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		// Caller cancellation is not a lock fault; surface it as-is.
		return err
	}

	if errors.Is(err, errLockHeld) || errors.Is(err, context.DeadlineExceeded) {
		return ierr.NewError("could not acquire sequence lock").
			WithHintf("Lock %q was not released within %s", key, timeout).
			WithReportableDetails(map[string]any{
				"lock_key": key,
				"timeout":  timeout.String(),
			}).
			Mark(ierr.ErrSequenceTimeout)
	}

	return ierr.WithError(err).
		WithHint("Advisory lock acquisition failed").
		Mark(ierr.ErrDatabase)
}
