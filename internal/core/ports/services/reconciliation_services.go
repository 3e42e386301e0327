package services

import (
	"context"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/SscSPs/bookkeeping_app/pkg/money"
)

// ReconciliationSvcFacade drives the bank reconciliation state machine:
// NotStarted -> InProgress -> {Completed | Cancelled}.
type ReconciliationSvcFacade interface {
	// Start opens a session for the account and statement period, acquiring
	// the account's exclusive section for the session's lifetime. Fails with
	// apperrors.ErrSessionAlreadyActive when the account already has an
	// in-progress session.
	Start(ctx context.Context, companyID string, req dto.StartReconciliationRequest, actor string) (*domain.ReconciliationSession, error)

	// ToggleSelect adds or removes a candidate transaction from the working
	// selection. Fails with apperrors.ErrNotACandidate outside the
	// candidate set.
	ToggleSelect(ctx context.Context, companyID string, sessionID string, transactionID string, actor string) (*domain.ReconciliationSession, error)

	// Difference returns statementEndingBalance minus the reconciled balance
	// as of the statement date plus the selected signed amounts.
	Difference(ctx context.Context, companyID string, sessionID string) (money.Money, error)

	// Finish completes the session: within one minor unit of zero
	// difference, it atomically marks the selection reconciled and retains
	// the session as an audit record. Otherwise it fails with
	// apperrors.DifferenceNotZeroError.
	Finish(ctx context.Context, companyID string, sessionID string, actor string) (*domain.ReconciliationSession, error)

	// Cancel discards the working selection without touching the store.
	// Cancelling a finished or already cancelled session is a no-op.
	Cancel(ctx context.Context, companyID string, sessionID string, actor string) (*domain.ReconciliationSession, error)

	// ResumeSessions re-acquires the exclusive section of every in-progress
	// session. Called after a snapshot restore, which brings sessions back
	// without the lock holds they had before the restart.
	ResumeSessions(ctx context.Context) error

	// GetSession retrieves one session, including retained audit records.
	GetSession(ctx context.Context, companyID string, sessionID string) (*domain.ReconciliationSession, error)

	// ListSessions retrieves the account's session history.
	ListSessions(ctx context.Context, companyID string, accountID string) ([]domain.ReconciliationSession, error)
}
