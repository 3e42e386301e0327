package domain

import (
	"github.com/SscSPs/bookkeeping_app/pkg/money"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
	// Bank accounts follow the asset sign convention but are flagged
	// separately because only they take part in bank reconciliation.
	Bank AccountType = "BANK"
)

// Account represents one entry in a company's chart of accounts.
type Account struct {
	AccountID      string      `json:"accountID"`      // Primary Key (UUID)
	CompanyID      string      `json:"companyID"`      // Explicit company handle (Not Null)
	AccountNumber  string      `json:"accountNumber"`  // Unique per company
	Name           string      `json:"name"`           // User-defined name
	AccountType    AccountType `json:"accountType"`    // ASSET, LIABILITY, etc.
	CurrencyCode   string      `json:"currencyCode"`   // ISO currency code
	OpeningBalance money.Money `json:"openingBalance"` // Signed, in minor units
	Description    string      `json:"description"`    // Nullable user description
	IsActive       bool        `json:"isActive"`       // Deactivation requires zero balance
	AuditFields
}

// DebitIncreases reports whether a debit raises this account type's balance.
func (t AccountType) DebitIncreases() bool {
	switch t {
	case Asset, Expense, Bank:
		return true
	default:
		return false
	}
}
