package dto

import (
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/pkg/money"
	"github.com/shopspring/decimal"
)

// StartReconciliationRequest opens a session against one bank statement.
type StartReconciliationRequest struct {
	AccountID              string          `json:"accountID" binding:"required"`
	StatementStart         time.Time       `json:"statementStart" binding:"required" time_format:"2006-01-02"`
	StatementEnd           time.Time       `json:"statementEnd" binding:"required" time_format:"2006-01-02"`
	StatementEndingBalance decimal.Decimal `json:"statementEndingBalance" binding:"required"`
}

// ToggleSelectRequest adds or removes one candidate transaction from the
// session's working selection.
type ToggleSelectRequest struct {
	TransactionID string `json:"transactionID" binding:"required"`
}

// ReconciliationSessionResponse defines the data returned for a session.
type ReconciliationSessionResponse struct {
	SessionID              string                      `json:"sessionID"`
	CompanyID              string                      `json:"companyID"`
	AccountID              string                      `json:"accountID"`
	StatementStart         time.Time                   `json:"statementStart"`
	StatementEnd           time.Time                   `json:"statementEnd"`
	StatementEndingBalance money.Money                 `json:"statementEndingBalance"`
	CandidateIDs           []string                    `json:"candidateIDs"`
	SelectedIDs            []string                    `json:"selectedIDs"`
	Status                 domain.ReconciliationStatus `json:"status"`
	CreatedAt              time.Time                   `json:"createdAt"`
	CreatedBy              string                      `json:"createdBy"`
	LastUpdatedAt          time.Time                   `json:"lastUpdatedAt"`
}

// ToReconciliationSessionResponse converts a domain session to its DTO.
func ToReconciliationSessionResponse(s *domain.ReconciliationSession) ReconciliationSessionResponse {
	return ReconciliationSessionResponse{
		SessionID:              s.SessionID,
		CompanyID:              s.CompanyID,
		AccountID:              s.AccountID,
		StatementStart:         s.StatementStart,
		StatementEnd:           s.StatementEnd,
		StatementEndingBalance: s.StatementEndingBalance,
		CandidateIDs:           s.CandidateIDs,
		SelectedIDs:            s.SelectedIDs,
		Status:                 s.Status,
		CreatedAt:              s.CreatedAt,
		CreatedBy:              s.CreatedBy,
		LastUpdatedAt:          s.LastUpdatedAt,
	}
}

// ToReconciliationSessionResponses converts a slice of sessions.
func ToReconciliationSessionResponses(sessions []domain.ReconciliationSession) []ReconciliationSessionResponse {
	res := make([]ReconciliationSessionResponse, len(sessions))
	for i, s := range sessions {
		res[i] = ToReconciliationSessionResponse(&s)
	}
	return res
}

// DifferenceResponse reports the current statement/book difference of an
// in-progress session.
type DifferenceResponse struct {
	SessionID  string      `json:"sessionID"`
	Difference money.Money `json:"difference"`
}
