package snapshot_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/internal/repositories/snapshot"
	"github.com/SscSPs/bookkeeping_app/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SaveAndLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "ledger.json")
	store := snapshot.NewFileStore(path)

	snap := domain.Snapshot{
		Meta: domain.SnapshotMeta{Version: 1, Timestamp: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)},
		Accounts: []domain.Account{{
			AccountID:      "acc-1",
			CompanyID:      "comp-1",
			AccountNumber:  "1010",
			Name:           "Business Checking",
			AccountType:    domain.Bank,
			CurrencyCode:   "USD",
			OpeningBalance: money.MustParse("10934.09"),
			IsActive:       true,
		}},
		Transactions: []domain.Transaction{{
			TransactionID:   "txn-1",
			AccountID:       "acc-1",
			Date:            time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Amount:          money.MustParse("1250.00"),
			TransactionType: domain.Debit,
			Seq:             1,
		}},
		NextSeq: 2,
	}
	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.LoadLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "json_file", loaded.Meta.Storage)
	require.Len(t, loaded.Accounts, 1)
	assert.Equal(t, money.MustParse("10934.09"), loaded.Accounts[0].OpeningBalance)
	require.Len(t, loaded.Transactions, 1)
	assert.Equal(t, uint64(1), loaded.Transactions[0].Seq)
	assert.Equal(t, uint64(2), loaded.NextSeq)
}

func TestFileStore_LoadMissingIsNotFound(t *testing.T) {
	store := snapshot.NewFileStore(filepath.Join(t.TempDir(), "nope.json"))
	_, err := store.LoadLatest(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.False(t, apperrors.IsRetryable(err))
}

func TestFileStore_SaveOverwritesPrevious(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewFileStore(filepath.Join(t.TempDir(), "ledger.json"))

	require.NoError(t, store.Save(ctx, domain.Snapshot{NextSeq: 5}))
	require.NoError(t, store.Save(ctx, domain.Snapshot{NextSeq: 9}))

	loaded, err := store.LoadLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), loaded.NextSeq)
}
