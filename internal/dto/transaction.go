package dto

import (
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/pkg/money"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines a direct-entry transaction append.
// Direction accepts DEBIT/CREDIT and the banking aliases DEPOSIT/WITHDRAWAL.
type CreateTransactionRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Date        time.Time       `json:"date" binding:"required" time_format:"2006-01-02"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Direction   string          `json:"direction" binding:"required,txdirection"`
	Category    string          `json:"category"`
	ExternalRef string          `json:"externalRef"`
}

// UpdateTransactionRequest defines the patchable fields of a transaction.
// Pointers distinguish "unset" from zero values.
type UpdateTransactionRequest struct {
	Date        *time.Time       `json:"date" time_format:"2006-01-02"`
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Direction   *string          `json:"direction" binding:"omitempty,txdirection"`
	Category    *string          `json:"category"`
}

// ImportLine is one bank-feed row handed across the import boundary.
// Amount is signed the way bank feeds deliver it: positive for a deposit,
// negative for a withdrawal.
type ImportLine struct {
	Date        time.Time       `json:"date" binding:"required" time_format:"2006-01-02"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	ExternalRef string          `json:"externalRef" binding:"required"`
}

// ImportRequest is a batch of bank lines for one account.
type ImportRequest struct {
	AccountID string       `json:"accountID" binding:"required"`
	Lines     []ImportLine `json:"lines" binding:"required,min=1,dive"`
}

// ImportResultResponse reports the outcome of an import batch. Duplicate
// lines are dropped silently and only counted.
type ImportResultResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string                 `json:"transactionID"`
	AccountID     string                 `json:"accountID"`
	JournalID     string                 `json:"journalID,omitempty"`
	Date          time.Time              `json:"date"`
	Description   string                 `json:"description"`
	Amount        money.Money            `json:"amount"`
	Direction     domain.TransactionType `json:"direction"`
	Category      string                 `json:"category"`
	Reconciled    bool                   `json:"reconciled"`
	ExternalRef   string                 `json:"externalRef,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	CreatedBy     string                 `json:"createdBy"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		AccountID:     txn.AccountID,
		JournalID:     txn.JournalID,
		Date:          txn.Date,
		Description:   txn.Description,
		Amount:        txn.Amount,
		Direction:     txn.TransactionType,
		Category:      txn.Category,
		Reconciled:    txn.Reconciled,
		ExternalRef:   txn.ExternalRef,
		CreatedAt:     txn.CreatedAt,
		CreatedBy:     txn.CreatedBy,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to DTOs.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToTransactionResponse(&txn)
	}
	return responses
}

// ListTransactionsParams defines query parameters for the account
// transaction query surface.
type ListTransactionsParams struct {
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Reconciled *bool      `form:"reconciled"`
}

// ListTransactionsResponse wraps the ordered transaction sequence.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}
