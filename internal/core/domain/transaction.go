package domain

import (
	"time"

	"github.com/SscSPs/bookkeeping_app/pkg/money"
)

// TransactionType indicates whether a transaction is a Debit or a Credit.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// Banking-flavored aliases accepted at the boundary. A deposit debits a bank
// account; a withdrawal credits it.
const (
	Deposit    = "DEPOSIT"
	Withdrawal = "WITHDRAWAL"
)

// NormalizeTransactionType maps boundary direction strings, including the
// Deposit/Withdrawal aliases, onto the canonical debit/credit types.
func NormalizeTransactionType(s string) (TransactionType, bool) {
	switch s {
	case string(Debit), Deposit:
		return Debit, true
	case string(Credit), Withdrawal:
		return Credit, true
	default:
		return "", false
	}
}

// Transaction represents a single monetary movement on one account.
//
// Amount is always positive; TransactionType carries the direction. Seq is
// assigned by the store on append and breaks date ties so orderings (and the
// running balances derived from them) are total and deterministic.
type Transaction struct {
	TransactionID   string          `json:"transactionID"`         // Primary Key (UUID)
	AccountID       string          `json:"accountID"`             // FK -> Account.accountID (Not Null)
	JournalID       string          `json:"journalID,omitempty"`   // Back-reference to the posting journal, if any
	Date            time.Time       `json:"date"`                  // Date the movement occurred
	Description     string          `json:"description"`           // Nullable
	Amount          money.Money     `json:"amount"`                // Positive, minor units
	TransactionType TransactionType `json:"transactionType"`       // DEBIT or CREDIT
	Category        string          `json:"category"`              // Nullable
	Reconciled      bool            `json:"reconciled"`            // Set by a completed reconciliation
	ExternalRef     string          `json:"externalRef,omitempty"` // Bank-feed identifier for imported rows
	Seq             uint64          `json:"seq"`                   // Insertion sequence, store-assigned
	AuditFields
}

// TransactionPatch carries the updatable fields of a transaction. Nil fields
// are left unchanged. Amount, date and direction count as immutable fields
// once the transaction is reconciled.
type TransactionPatch struct {
	Date            *time.Time
	Description     *string
	Amount          *money.Money
	TransactionType *TransactionType
	Category        *string
}

// TouchesImmutableFields reports whether the patch edits any field frozen by
// reconciliation.
func (p TransactionPatch) TouchesImmutableFields() bool {
	return p.Date != nil || p.Amount != nil || p.TransactionType != nil
}
