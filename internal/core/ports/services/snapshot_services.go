package services

import (
	"context"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
)

// SnapshotSvcFacade moves whole-ledger state across the persistence boundary.
type SnapshotSvcFacade interface {
	// Persist captures the current ledger state and writes it to the
	// configured snapshot store.
	Persist(ctx context.Context) (domain.SnapshotMeta, error)

	// RestoreLatest loads the most recent snapshot and replaces the ledger
	// state with it. A missing snapshot returns apperrors.ErrNotFound.
	RestoreLatest(ctx context.Context) (domain.SnapshotMeta, error)
}
