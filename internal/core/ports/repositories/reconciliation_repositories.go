package repositories

import (
	"context"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
)

// ReconciliationReader defines read operations for reconciliation sessions
type ReconciliationReader interface {
	// FindSessionByID retrieves a session by its unique identifier.
	FindSessionByID(ctx context.Context, companyID string, sessionID string) (*domain.ReconciliationSession, error)

	// FindInProgressSessionByAccount returns the account's in-progress
	// session, or apperrors.ErrNotFound when none exists.
	FindInProgressSessionByAccount(ctx context.Context, companyID string, accountID string) (*domain.ReconciliationSession, error)

	// ListSessions retrieves the account's sessions, newest first, including
	// completed and cancelled audit records.
	ListSessions(ctx context.Context, companyID string, accountID string) ([]domain.ReconciliationSession, error)

	// ListInProgressSessions returns every in-progress session across all
	// companies, used to re-claim account sections after a restart.
	ListInProgressSessions(ctx context.Context) ([]domain.ReconciliationSession, error)
}

// ReconciliationWriter defines write operations for reconciliation sessions
type ReconciliationWriter interface {
	// CreateSession persists a new in-progress session. Exclusivity is
	// enforced here atomically: if the account already has an in-progress
	// session the call fails with apperrors.ErrSessionAlreadyActive.
	CreateSession(ctx context.Context, session domain.ReconciliationSession) error

	// UpdateSession persists selection or status changes.
	UpdateSession(ctx context.Context, session domain.ReconciliationSession) error
}

// ReconciliationRepositoryFacade combines all reconciliation repository interfaces.
type ReconciliationRepositoryFacade interface {
	ReconciliationReader
	ReconciliationWriter
}
