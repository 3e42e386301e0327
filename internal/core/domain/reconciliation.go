package domain

import (
	"time"

	"github.com/SscSPs/bookkeeping_app/pkg/money"
)

// ReconciliationStatus is the state of a reconciliation session.
type ReconciliationStatus string

const (
	ReconciliationInProgress ReconciliationStatus = "IN_PROGRESS"
	ReconciliationCompleted  ReconciliationStatus = "COMPLETED"
	ReconciliationCancelled  ReconciliationStatus = "CANCELLED"
)

// Terminal reports whether the session can no longer change.
func (s ReconciliationStatus) Terminal() bool {
	return s == ReconciliationCompleted || s == ReconciliationCancelled
}

// ReconciliationSession is the working state of one bank reconciliation:
// a statement period and ending balance, the candidate set of unreconciled
// transactions loaded at start, and the user's current selection. Completed
// and cancelled sessions are retained as audit records.
type ReconciliationSession struct {
	SessionID              string               `json:"sessionID"` // Primary Key (UUID)
	CompanyID              string               `json:"companyID"`
	AccountID              string               `json:"accountID"`
	StatementStart         time.Time            `json:"statementStart"`
	StatementEnd           time.Time            `json:"statementEnd"`
	StatementEndingBalance money.Money          `json:"statementEndingBalance"`
	CandidateIDs           []string             `json:"candidateIDs"` // Unreconciled txns dated <= StatementEnd, load order
	SelectedIDs            []string             `json:"selectedIDs"`  // Subset of CandidateIDs, selection order
	Status                 ReconciliationStatus `json:"status"`
	AuditFields
}

// IsCandidate reports whether txID belongs to the session's candidate set.
func (s *ReconciliationSession) IsCandidate(txID string) bool {
	for _, id := range s.CandidateIDs {
		if id == txID {
			return true
		}
	}
	return false
}

// IsSelected reports whether txID is currently selected.
func (s *ReconciliationSession) IsSelected(txID string) bool {
	for _, id := range s.SelectedIDs {
		if id == txID {
			return true
		}
	}
	return false
}
