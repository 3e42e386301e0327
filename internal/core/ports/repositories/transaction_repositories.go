package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
)

// TransactionFilter narrows ListTransactions. Nil fields mean "no constraint".
type TransactionFilter struct {
	From       *time.Time // inclusive lower bound on date
	To         *time.Time // inclusive upper bound on date
	Reconciled *bool      // filter by reconciled flag
}

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction.
	FindTransactionByID(ctx context.Context, companyID string, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns the account's transactions matching the filter
	// in a stable total order: by date, ties broken by insertion sequence.
	ListTransactions(ctx context.Context, companyID string, accountID string, filter TransactionFilter) ([]domain.Transaction, error)

	// FindTransactionsByJournalID retrieves all transactions created by one journal.
	FindTransactionsByJournalID(ctx context.Context, companyID string, journalID string) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	// SaveTransaction appends a transaction after validating its account
	// reference. When ExternalRef is set, an existing transaction with the
	// same (accountID, date, amount, externalRef) makes the append fail with
	// apperrors.ErrDuplicate (import idempotence).
	SaveTransaction(ctx context.Context, txn *domain.Transaction) error

	// UpdateTransaction applies a patch. It fails with
	// apperrors.ErrTransactionImmutable when the transaction is reconciled
	// and the patch touches amount, date or direction.
	UpdateTransaction(ctx context.Context, companyID string, transactionID string, patch domain.TransactionPatch, actor string, now time.Time) (*domain.Transaction, error)

	// SetReconciled flips the reconciled flag on every listed transaction
	// atomically: either all ids are updated or none are.
	SetReconciled(ctx context.Context, companyID string, transactionIDs []string, value bool, actor string, now time.Time) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
