package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/middleware"
)

// snapshotService connects the in-memory ledger to the snapshot store. It is
// used at boot (restore), at shutdown (persist) and by the admin endpoint.
type snapshotService struct {
	ledger portsrepo.Snapshotter
	store  portsrepo.SnapshotStore
}

// NewSnapshotService creates a new snapshot service.
func NewSnapshotService(ledger portsrepo.Snapshotter, store portsrepo.SnapshotStore) portssvc.SnapshotSvcFacade {
	return &snapshotService{ledger: ledger, store: store}
}

var _ portssvc.SnapshotSvcFacade = (*snapshotService)(nil)

// Persist captures the current ledger state and writes it out.
func (s *snapshotService) Persist(ctx context.Context) (domain.SnapshotMeta, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	snap, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return domain.SnapshotMeta{}, err
	}
	if err := s.store.Save(ctx, snap); err != nil {
		logger.Error("Failed to persist snapshot", slog.String("error", err.Error()))
		return domain.SnapshotMeta{}, err
	}

	logger.Info("Snapshot persisted",
		slog.Int("accounts", len(snap.Accounts)),
		slog.Int("transactions", len(snap.Transactions)),
	)
	return snap.Meta, nil
}

// RestoreLatest replaces the ledger state with the newest stored snapshot.
func (s *snapshotService) RestoreLatest(ctx context.Context) (domain.SnapshotMeta, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	snap, err := s.store.LoadLatest(ctx)
	if err != nil {
		return domain.SnapshotMeta{}, err
	}
	if err := s.ledger.Restore(ctx, snap); err != nil {
		return domain.SnapshotMeta{}, err
	}

	logger.Info("Snapshot restored",
		slog.Int("accounts", len(snap.Accounts)),
		slog.Int("transactions", len(snap.Transactions)),
		slog.Time("taken_at", snap.Meta.Timestamp),
	)
	return snap.Meta, nil
}
