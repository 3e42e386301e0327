package domain

import (
	"time"

	"github.com/SscSPs/bookkeeping_app/pkg/money"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft  JournalStatus = "DRAFT"
	Posted JournalStatus = "POSTED"
)

// JournalLine is one leg of a journal entry. Exactly one of Debit and Credit
// is non-zero.
type JournalLine struct {
	AccountID string      `json:"accountID"`
	Debit     money.Money `json:"debit"`
	Credit    money.Money `json:"credit"`
}

// Amount returns the line's magnitude regardless of side.
func (l JournalLine) Amount() money.Money {
	if !l.Debit.IsZero() {
		return l.Debit
	}
	return l.Credit
}

// IsDebit reports which side the line sits on.
func (l JournalLine) IsDebit() bool { return !l.Debit.IsZero() }

// Journal represents a single balanced financial event. Lines are expanded
// into permanent transactions when the journal is posted; a posted journal is
// immutable and corrections go through a reversing entry.
type Journal struct {
	JournalID         string        `json:"journalID"`   // Primary Key (UUID)
	CompanyID         string        `json:"companyID"`   // Explicit company handle (Not Null)
	JournalDate       time.Time     `json:"journalDate"` // Date the event occurred
	Description       string        `json:"description"` // Nullable user description
	Reference         string        `json:"reference"`   // External document reference, nullable
	CurrencyCode      string        `json:"currencyCode"`
	Lines             []JournalLine `json:"lines"`
	Status            JournalStatus `json:"status"`
	OriginalJournalID string        `json:"originalJournalID,omitempty"` // Set on reversing entries
	AuditFields
}
