package dto

import (
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/pkg/money"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one leg of a journal entry draft. Exactly one of
// Debit and Credit must be present and positive.
type JournalLineRequest struct {
	AccountID string           `json:"accountID" binding:"required"`
	Debit     *decimal.Decimal `json:"debit"`
	Credit    *decimal.Decimal `json:"credit"`
}

// CreateJournalRequest defines the data needed to create a draft journal.
type CreateJournalRequest struct {
	Date         time.Time            `json:"date" binding:"required" time_format:"2006-01-02"`
	Description  string               `json:"description" binding:"required"`
	Reference    string               `json:"reference"`
	CurrencyCode string               `json:"currencyCode" binding:"required,len=3"`
	Lines        []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// JournalLineResponse mirrors a domain journal line.
type JournalLineResponse struct {
	AccountID string      `json:"accountID"`
	Debit     money.Money `json:"debit"`
	Credit    money.Money `json:"credit"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID         string                `json:"journalID"`
	CompanyID         string                `json:"companyID"`
	Date              time.Time             `json:"date"`
	Description       string                `json:"description"`
	Reference         string                `json:"reference"`
	CurrencyCode      string                `json:"currencyCode"`
	Status            domain.JournalStatus  `json:"status"`
	OriginalJournalID string                `json:"originalJournalID,omitempty"`
	Lines             []JournalLineResponse `json:"lines"`
	SumDebits         money.Money           `json:"sumDebits"`
	SumCredits        money.Money           `json:"sumCredits"`
	Transactions      []TransactionResponse `json:"transactions,omitempty"`
	CreatedAt         time.Time             `json:"createdAt"`
	CreatedBy         string                `json:"createdBy"`
}

// ToJournalResponse converts a domain.Journal (and optionally its posted
// transactions) to a response DTO.
func ToJournalResponse(j *domain.Journal, txns []domain.Transaction) JournalResponse {
	lines := make([]JournalLineResponse, len(j.Lines))
	var sumDebits, sumCredits money.Money
	for i, line := range j.Lines {
		lines[i] = JournalLineResponse{AccountID: line.AccountID, Debit: line.Debit, Credit: line.Credit}
		sumDebits = sumDebits.Add(line.Debit)
		sumCredits = sumCredits.Add(line.Credit)
	}
	return JournalResponse{
		JournalID:         j.JournalID,
		CompanyID:         j.CompanyID,
		Date:              j.JournalDate,
		Description:       j.Description,
		Reference:         j.Reference,
		CurrencyCode:      j.CurrencyCode,
		Status:            j.Status,
		OriginalJournalID: j.OriginalJournalID,
		Lines:             lines,
		SumDebits:         sumDebits,
		SumCredits:        sumCredits,
		Transactions:      ToTransactionResponses(txns),
		CreatedAt:         j.CreatedAt,
		CreatedBy:         j.CreatedBy,
	}
}

// ListJournalsParams holds parameters for listing journals.
type ListJournalsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListJournalsResponse wraps a page of journals and the next-page token.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}
