package repositories

import (
	"context"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
)

// Snapshotter is implemented by the owning store: it can serialize its full
// state and be rebuilt from a snapshot.
type Snapshotter interface {
	// Snapshot returns a deep copy of the entire ledger state.
	Snapshot(ctx context.Context) (domain.Snapshot, error)

	// Restore replaces the entire ledger state with the snapshot's contents.
	Restore(ctx context.Context, snap domain.Snapshot) error
}

// SnapshotStore is the external persistence boundary. Implementations wrap
// their failures in apperrors.ErrStorage so callers can tell an unreachable
// medium apart from business-rule failures.
type SnapshotStore interface {
	// Save persists a snapshot.
	Save(ctx context.Context, snap domain.Snapshot) error

	// LoadLatest returns the most recently saved snapshot, or
	// apperrors.ErrNotFound when none has been persisted yet.
	LoadLatest(ctx context.Context) (domain.Snapshot, error)
}
