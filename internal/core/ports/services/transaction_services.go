package services

import (
	"context"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
)

// TransactionReaderSvc defines the read surface over the transaction store.
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a specific transaction.
	GetTransactionByID(ctx context.Context, companyID string, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns the account's transactions matching the
	// params in stable date order.
	ListTransactions(ctx context.Context, companyID string, accountID string, params dto.ListTransactionsParams) ([]domain.Transaction, error)
}

// TransactionWriterSvc defines direct-entry and import mutations.
type TransactionWriterSvc interface {
	// CreateTransaction appends a single directly entered transaction.
	CreateTransaction(ctx context.Context, companyID string, req dto.CreateTransactionRequest, actor string) (*domain.Transaction, error)

	// UpdateTransaction patches a transaction. Reconciled transactions must
	// be unreconciled before amount/date/direction edits.
	UpdateTransaction(ctx context.Context, companyID string, transactionID string, req dto.UpdateTransactionRequest, actor string) (*domain.Transaction, error)

	// ImportTransactions feeds a bank-feed batch through the import
	// boundary; duplicates by (account, date, amount, externalRef) are
	// silently dropped and counted.
	ImportTransactions(ctx context.Context, companyID string, req dto.ImportRequest, actor string) (*dto.ImportResultResponse, error)

	// UnreconcileTransaction clears the reconciled flag, restoring full
	// editability and reconciliation candidacy.
	UnreconcileTransaction(ctx context.Context, companyID string, transactionID string, actor string) (*domain.Transaction, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces.
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
