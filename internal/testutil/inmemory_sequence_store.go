package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/billforge/billforge/internal/domain/sequence"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
)

// InMemorySequenceStore implements sequence.Repository over the fee store,
// mirroring the production repository which derives sequence state by
// scanning assigned ids rather than keeping a counter.
type InMemorySequenceStore struct {
	fees *InMemoryFeeStore
}

func NewInMemorySequenceStore(fees *InMemoryFeeStore) *InMemorySequenceStore {
	return &InMemorySequenceStore{fees: fees}
}

func (s *InMemorySequenceStore) MaxValue(ctx context.Context, scope types.SequenceScope) (int64, error) {
	var max int64
	for _, f := range s.fees.All() {
		if string(f.FeeType) == scope.EntityType &&
			f.TenantID == scope.OwnerID &&
			f.SequentialID > max {
			max = f.SequentialID
		}
	}
	return max, nil
}

func (s *InMemorySequenceStore) Exists(ctx context.Context, scope types.SequenceScope, value int64) (bool, error) {
	for _, f := range s.fees.All() {
		if string(f.FeeType) == scope.EntityType &&
			f.TenantID == scope.OwnerID &&
			f.SequentialID == value {
			return true, nil
		}
	}
	return false, nil
}

var _ sequence.Repository = (*InMemorySequenceStore)(nil)

// InMemoryLockManager implements sequence.LockManager with channel-based
// locks. Hold lets a test occupy a lock to exercise the timeout path.
type InMemoryLockManager struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func NewInMemoryLockManager() *InMemoryLockManager {
	return &InMemoryLockManager{
		locks: make(map[string]chan struct{}),
	}
}

func (m *InMemoryLockManager) lockFor(key string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ch, ok := m.locks[key]; ok {
		return ch
	}
	ch := make(chan struct{}, 1)
	m.locks[key] = ch
	return ch
}

func (m *InMemoryLockManager) WithLock(ctx context.Context, key string, timeout time.Duration, fn func(ctx context.Context) error) error {
	ch := m.lockFor(key)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		defer func() { <-ch }()
		return fn(ctx)
	case <-timer.C:
	case <-ctx.Done():
	}

	return ierr.NewError("could not acquire sequence lock").
		WithHintf("Lock %q was not released within %s", key, timeout).
		Mark(ierr.ErrSequenceTimeout)
}

// Hold occupies the lock until the returned release function is called.
func (m *InMemoryLockManager) Hold(key string) (release func()) {
	ch := m.lockFor(key)
	ch <- struct{}{}
	return func() { <-ch }
}

var _ sequence.LockManager = (*InMemoryLockManager)(nil)
