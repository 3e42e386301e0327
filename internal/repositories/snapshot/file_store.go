// Package snapshot implements the SnapshotStore port over a single JSON file.
// Writes go through a temp file and an atomic rename, so a crash mid-save
// leaves the previous snapshot intact.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
)

const storageKind = "json_file"

// FileStore persists snapshots to a fixed path on the local filesystem.
type FileStore struct {
	path string
}

var _ portsrepo.SnapshotStore = (*FileStore)(nil)

// NewFileStore creates a store writing to the given path. The parent
// directory is created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save serializes the snapshot to the store's path atomically.
func (s *FileStore) Save(ctx context.Context, snap domain.Snapshot) error {
	snap.Meta.Storage = storageKind

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return apperrors.NewStorageError("create snapshot dir", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return apperrors.NewStorageError("encode snapshot", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".snapshot-*.json")
	if err != nil {
		return apperrors.NewStorageError("create temp snapshot", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperrors.NewStorageError("write snapshot", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return apperrors.NewStorageError("sync snapshot", err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewStorageError("close snapshot", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return apperrors.NewStorageError("replace snapshot", err)
	}
	return nil
}

// LoadLatest reads the snapshot from the store's path.
func (s *FileStore) LoadLatest(ctx context.Context) (domain.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Snapshot{}, fmt.Errorf("snapshot file %s: %w", s.path, apperrors.ErrNotFound)
		}
		return domain.Snapshot{}, apperrors.NewStorageError("read snapshot", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, apperrors.NewStorageError("decode snapshot", err)
	}
	return snap, nil
}
