package services

import (
	"context"
	"sort"
	"sync"
)

// AccountLockManager hands out one exclusive section per account ID.
// Channel-based locks keep acquisition cancellable: a caller whose context
// expires while waiting backs out cleanly instead of blocking forever behind
// a long-lived reconciliation session.
type AccountLockManager struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func NewAccountLockManager() *AccountLockManager {
	return &AccountLockManager{locks: make(map[string]chan struct{})}
}

func (m *AccountLockManager) lockFor(accountID string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.locks[accountID]
	if !ok {
		ch = make(chan struct{}, 1)
		m.locks[accountID] = ch
	}
	return ch
}

// Acquire claims the account's exclusive section, waiting until it is free or
// the context is done.
func (m *AccountLockManager) Acquire(ctx context.Context, accountID string) error {
	select {
	case m.lockFor(accountID) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees the account's exclusive section.
func (m *AccountLockManager) Release(accountID string) {
	select {
	case <-m.lockFor(accountID):
	default:
		// Releasing an unheld lock is a programming error; make it a no-op
		// rather than a hang.
	}
}

// AcquireAll claims every listed account's section in sorted ID order, the
// global ordering that prevents two multi-account postings from deadlocking.
// On failure every already-claimed section is released.
func (m *AccountLockManager) AcquireAll(ctx context.Context, accountIDs []string) (release func(), err error) {
	ids := make([]string, 0, len(accountIDs))
	seen := make(map[string]struct{}, len(accountIDs))
	for _, id := range accountIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	acquired := make([]string, 0, len(ids))
	releaseAcquired := func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			m.Release(acquired[i])
		}
	}

	for _, id := range ids {
		if err := m.Acquire(ctx, id); err != nil {
			releaseAcquired()
			return nil, err
		}
		acquired = append(acquired, id)
	}
	return releaseAcquired, nil
}
