// Package pgsql implements the SnapshotStore port on PostgreSQL. Each save
// appends a row to the snapshots table; LoadLatest picks the newest one, so
// prior snapshots double as point-in-time backups.
package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const storageKind = "postgres"

// SnapshotRepository persists ledger snapshots as JSONB rows.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

var _ portsrepo.SnapshotStore = (*SnapshotRepository)(nil)

// NewSnapshotRepository creates a repository backed by the given pool.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// Save appends the snapshot as a new row.
func (r *SnapshotRepository) Save(ctx context.Context, snap domain.Snapshot) error {
	snap.Meta.Storage = storageKind

	payload, err := json.Marshal(snap)
	if err != nil {
		return apperrors.NewStorageError("encode snapshot", err)
	}

	const query = `
		INSERT INTO snapshots (version, taken_at, payload)
		VALUES ($1, $2, $3)`
	if _, err := r.pool.Exec(ctx, query, snap.Meta.Version, snap.Meta.Timestamp, payload); err != nil {
		return apperrors.NewStorageError("insert snapshot", err)
	}
	return nil
}

// LoadLatest returns the most recently taken snapshot.
func (r *SnapshotRepository) LoadLatest(ctx context.Context) (domain.Snapshot, error) {
	const query = `
		SELECT payload
		FROM snapshots
		ORDER BY taken_at DESC, snapshot_id DESC
		LIMIT 1`

	var payload []byte
	err := r.pool.QueryRow(ctx, query).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Snapshot{}, fmt.Errorf("no snapshot persisted: %w", apperrors.ErrNotFound)
		}
		return domain.Snapshot{}, apperrors.NewStorageError("query latest snapshot", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return domain.Snapshot{}, apperrors.NewStorageError("decode snapshot", err)
	}
	return snap, nil
}

// PruneOlderThan deletes snapshot rows taken before the cutoff, keeping the
// newest row regardless so a restore target always exists.
func (r *SnapshotRepository) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `
		DELETE FROM snapshots
		WHERE taken_at < $1
		  AND snapshot_id <> (SELECT snapshot_id FROM snapshots ORDER BY taken_at DESC, snapshot_id DESC LIMIT 1)`
	tag, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, apperrors.NewStorageError("prune snapshots", err)
	}
	return tag.RowsAffected(), nil
}
