package dto

import (
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/pkg/money"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	AccountNumber  string             `json:"accountNumber" binding:"required"`
	Name           string             `json:"name" binding:"required"`
	AccountType    domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE BANK"`
	CurrencyCode   string             `json:"currencyCode" binding:"required,len=3"`
	OpeningBalance decimal.Decimal    `json:"openingBalance"` // Optional, defaults to zero
	Description    string             `json:"description"`    // Optional
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID      string             `json:"accountID"`
	CompanyID      string             `json:"companyID"`
	AccountNumber  string             `json:"accountNumber"`
	Name           string             `json:"name"`
	AccountType    domain.AccountType `json:"accountType"`
	CurrencyCode   string             `json:"currencyCode"`
	OpeningBalance money.Money        `json:"openingBalance"`
	Description    string             `json:"description"`
	IsActive       bool               `json:"isActive"`
	CreatedAt      time.Time          `json:"createdAt"`
	CreatedBy      string             `json:"createdBy"`
	LastUpdatedAt  time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy  string             `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      acc.AccountID,
		CompanyID:      acc.CompanyID,
		AccountNumber:  acc.AccountNumber,
		Name:           acc.Name,
		AccountType:    acc.AccountType,
		CurrencyCode:   acc.CurrencyCode,
		OpeningBalance: acc.OpeningBalance,
		Description:    acc.Description,
		IsActive:       acc.IsActive,
		CreatedAt:      acc.CreatedAt,
		CreatedBy:      acc.CreatedBy,
		LastUpdatedAt:  acc.LastUpdatedAt,
		LastUpdatedBy:  acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to response DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// BalanceParams defines query parameters for a balance query.
type BalanceParams struct {
	AsOf           *time.Time `form:"asOf" time_format:"2006-01-02"`
	ReconciledOnly bool       `form:"reconciledOnly,default=false"`
}

// AccountBalanceResponse defines the data returned for a balance query.
type AccountBalanceResponse struct {
	AccountID      string      `json:"accountID"`
	AsOf           time.Time   `json:"asOf"`
	ReconciledOnly bool        `json:"reconciledOnly"`
	Balance        money.Money `json:"balance"`
}

// UnreconciledCountResponse reports how many transactions on an account are
// still unreconciled.
type UnreconciledCountResponse struct {
	AccountID string `json:"accountID"`
	Count     int    `json:"count"`
}

// RunningBalancesParams defines query parameters for a running-balance query.
type RunningBalancesParams struct {
	Start time.Time `form:"start" time_format:"2006-01-02" binding:"required"`
	End   time.Time `form:"end" time_format:"2006-01-02" binding:"required"`
}

// RunningBalanceLineResponse is one statement line: a transaction and the
// cumulative balance after it.
type RunningBalanceLineResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Balance     money.Money         `json:"balance"`
}

// RunningBalancesResponse is the export surface consumed by statement
// formatting collaborators.
type RunningBalancesResponse struct {
	AccountID      string                       `json:"accountID"`
	OpeningBalance money.Money                  `json:"openingBalance"`
	Lines          []RunningBalanceLineResponse `json:"lines"`
}

// ToRunningBalancesResponse converts the calculator output for export.
func ToRunningBalancesResponse(accountID string, opening money.Money, lines []domain.RunningBalanceLine) RunningBalancesResponse {
	resp := RunningBalancesResponse{
		AccountID:      accountID,
		OpeningBalance: opening,
		Lines:          make([]RunningBalanceLineResponse, len(lines)),
	}
	for i, line := range lines {
		resp.Lines[i] = RunningBalanceLineResponse{
			Transaction: ToTransactionResponse(&line.Transaction),
			Balance:     line.Balance,
		}
	}
	return resp
}
