package sequence

import (
	"context"
	"time"

	"github.com/billforge/billforge/internal/types"
)

// Repository reads previously assigned sequential ids. There is no counter
// table: the next value is derived from what is already assigned, which is
// what makes the series self-healing after partial failures.
type Repository interface {
	// MaxValue returns the highest sequential id assigned within the scope,
	// or 0 when the scope has no assignments yet.
	MaxValue(ctx context.Context, scope types.SequenceScope) (int64, error)

	// Exists reports whether the value is already assigned within the scope.
	Exists(ctx context.Context, scope types.SequenceScope, value int64) (bool, error)
}

// LockManager is the cooperative named-lock capability the persistence
// collaborator provides. WithLock acquires the named lock with a bounded
// wait, runs fn, and guarantees release on every exit path including
// errors and panics. Acquisition failure within the timeout surfaces as an
// error without fn ever running.
type LockManager interface {
	WithLock(ctx context.Context, key string, timeout time.Duration, fn func(ctx context.Context) error) error
}
