package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/SscSPs/bookkeeping_app/internal/middleware"
	"github.com/SscSPs/bookkeeping_app/internal/utils/accounting"
	"github.com/SscSPs/bookkeeping_app/pkg/money"
)

// reconcileEpsilon is the inclusive tolerance for finishing a session: a
// difference of at most one minor unit counts as zero.
const reconcileEpsilon = money.Money(1)

// reconciliationService drives the session state machine. An in-progress
// session holds its account's exclusive section, so the candidate set cannot
// shift under the user while they work through a statement.
type reconciliationService struct {
	sessionRepo portsrepo.ReconciliationRepositoryFacade
	txRepo      portsrepo.TransactionRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	balanceSvc  portssvc.BalanceSvcFacade
	locks       *AccountLockManager

	// held records the account sections this service acquired. Release on
	// the lock manager is not ownership-checked, so Finish and Cancel only
	// release sections recorded here; a session present in the store without
	// a recorded hold (a restored session before ResumeSessions, or one
	// written by another process) never frees a section it does not own.
	mu   sync.Mutex
	held map[string]bool
}

// NewReconciliationService creates a new reconciliation service.
func NewReconciliationService(
	sessionRepo portsrepo.ReconciliationRepositoryFacade,
	txRepo portsrepo.TransactionRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	balanceSvc portssvc.BalanceSvcFacade,
	locks *AccountLockManager,
) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		sessionRepo: sessionRepo,
		txRepo:      txRepo,
		accountRepo: accountRepo,
		balanceSvc:  balanceSvc,
		locks:       locks,
		held:        make(map[string]bool),
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// Start opens a session: it snapshots the account's unreconciled transactions
// dated up to the statement end as the candidate set, then claims the
// account's exclusive section for the session's lifetime.
func (s *reconciliationService) Start(ctx context.Context, companyID string, req dto.StartReconciliationRequest, actor string) (*domain.ReconciliationSession, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, companyID, req.AccountID)
	if err != nil {
		return nil, err
	}
	if account.AccountType != domain.Bank {
		return nil, fmt.Errorf("%w: account %s is not a bank account", apperrors.ErrValidation, req.AccountID)
	}
	if req.StatementEnd.Before(req.StatementStart) {
		return nil, fmt.Errorf("%w: statement end precedes statement start", apperrors.ErrValidation)
	}
	endingBalance, err := money.FromDecimal(req.StatementEndingBalance)
	if err != nil {
		return nil, fmt.Errorf("%w: statement ending balance: %v", apperrors.ErrValidation, err)
	}

	// Fast-fail before waiting on the lock: the common conflict is a
	// session someone forgot to finish, and blocking on its lock would look
	// like a hang.
	if _, err := s.sessionRepo.FindInProgressSessionByAccount(ctx, companyID, req.AccountID); err == nil {
		return nil, fmt.Errorf("account %s: %w", req.AccountID, apperrors.ErrSessionAlreadyActive)
	}

	if err := s.locks.Acquire(ctx, req.AccountID); err != nil {
		return nil, err
	}
	s.markHeld(req.AccountID)

	unreconciled := false
	candidates, err := s.txRepo.ListTransactions(ctx, companyID, req.AccountID, portsrepo.TransactionFilter{
		To:         &req.StatementEnd,
		Reconciled: &unreconciled,
	})
	if err != nil {
		s.releaseHeld(req.AccountID)
		return nil, err
	}
	candidateIDs := make([]string, len(candidates))
	for i, txn := range candidates {
		candidateIDs[i] = txn.TransactionID
	}

	now := time.Now().UTC()
	session := domain.ReconciliationSession{
		SessionID:              uuid.NewString(),
		CompanyID:              companyID,
		AccountID:              req.AccountID,
		StatementStart:         req.StatementStart,
		StatementEnd:           req.StatementEnd,
		StatementEndingBalance: endingBalance,
		CandidateIDs:           candidateIDs,
		SelectedIDs:            []string{},
		Status:                 domain.ReconciliationInProgress,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		s.releaseHeld(req.AccountID)
		return nil, err
	}

	logger.Info("Reconciliation session started",
		slog.String("session_id", session.SessionID),
		slog.String("account_id", session.AccountID),
		slog.Int("candidates", len(candidateIDs)),
	)
	return &session, nil
}

// ToggleSelect adds or removes one candidate from the working selection.
func (s *reconciliationService) ToggleSelect(ctx context.Context, companyID string, sessionID string, transactionID string, actor string) (*domain.ReconciliationSession, error) {
	session, err := s.inProgressSession(ctx, companyID, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsCandidate(transactionID) {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotACandidate)
	}

	if session.IsSelected(transactionID) {
		kept := make([]string, 0, len(session.SelectedIDs)-1)
		for _, id := range session.SelectedIDs {
			if id != transactionID {
				kept = append(kept, id)
			}
		}
		session.SelectedIDs = kept
	} else {
		session.SelectedIDs = append(session.SelectedIDs, transactionID)
	}
	session.LastUpdatedAt = time.Now().UTC()
	session.LastUpdatedBy = actor

	if err := s.sessionRepo.UpdateSession(ctx, *session); err != nil {
		return nil, err
	}
	return session, nil
}

// Difference returns the current statement/book difference: the statement
// ending balance minus the reconciled balance as of the statement end, minus
// the signed sum of the working selection. A difference of zero means the
// selection fully explains the statement.
func (s *reconciliationService) Difference(ctx context.Context, companyID string, sessionID string) (money.Money, error) {
	session, err := s.inProgressSession(ctx, companyID, sessionID)
	if err != nil {
		return money.Zero, err
	}
	return s.difference(ctx, session)
}

func (s *reconciliationService) difference(ctx context.Context, session *domain.ReconciliationSession) (money.Money, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, session.CompanyID, session.AccountID)
	if err != nil {
		return money.Zero, err
	}

	reconciledBalance, err := s.balanceSvc.Balance(ctx, session.CompanyID, session.AccountID, session.StatementEnd, true)
	if err != nil {
		return money.Zero, err
	}

	selectedSum := money.Zero
	for _, txID := range session.SelectedIDs {
		txn, err := s.txRepo.FindTransactionByID(ctx, session.CompanyID, txID)
		if err != nil {
			return money.Zero, err
		}
		signed, err := accounting.SignedTransactionAmount(*txn, account.AccountType)
		if err != nil {
			return money.Zero, err
		}
		selectedSum = selectedSum.Add(signed)
	}

	return session.StatementEndingBalance.Sub(reconciledBalance).Sub(selectedSum), nil
}

// Finish completes the session. Within one minor unit of zero difference it
// atomically marks the whole selection reconciled, retains the session as an
// audit record, and releases the account's exclusive section. Any larger
// difference rejects the finish and the session stays in progress.
func (s *reconciliationService) Finish(ctx context.Context, companyID string, sessionID string, actor string) (*domain.ReconciliationSession, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	session, err := s.inProgressSession(ctx, companyID, sessionID)
	if err != nil {
		return nil, err
	}

	diff, err := s.difference(ctx, session)
	if err != nil {
		return nil, err
	}
	if diff.Abs() > reconcileEpsilon {
		return nil, apperrors.DifferenceNotZeroError{Diff: diff}
	}

	now := time.Now().UTC()
	if len(session.SelectedIDs) > 0 {
		if err := s.txRepo.SetReconciled(ctx, companyID, session.SelectedIDs, true, actor, now); err != nil {
			return nil, err
		}
	}

	session.Status = domain.ReconciliationCompleted
	session.LastUpdatedAt = now
	session.LastUpdatedBy = actor
	if err := s.sessionRepo.UpdateSession(ctx, *session); err != nil {
		return nil, err
	}
	s.releaseHeld(session.AccountID)

	logger.Info("Reconciliation session completed",
		slog.String("session_id", session.SessionID),
		slog.String("account_id", session.AccountID),
		slog.Int("reconciled", len(session.SelectedIDs)),
		slog.String("difference", diff.String()),
	)
	return session, nil
}

// Cancel abandons the session without touching any transaction. Cancelling a
// session that is already terminal is a no-op.
func (s *reconciliationService) Cancel(ctx context.Context, companyID string, sessionID string, actor string) (*domain.ReconciliationSession, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	session, err := s.sessionRepo.FindSessionByID(ctx, companyID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status.Terminal() {
		return session, nil
	}

	session.Status = domain.ReconciliationCancelled
	session.LastUpdatedAt = time.Now().UTC()
	session.LastUpdatedBy = actor
	if err := s.sessionRepo.UpdateSession(ctx, *session); err != nil {
		return nil, err
	}
	s.releaseHeld(session.AccountID)

	logger.Info("Reconciliation session cancelled",
		slog.String("session_id", session.SessionID),
		slog.String("account_id", session.AccountID),
	)
	return session, nil
}

// ResumeSessions re-acquires the exclusive section of every in-progress
// session. A snapshot restore brings InProgress sessions back without the
// holds they had before the restart; until this runs those sessions do not
// actually guard their accounts.
func (s *reconciliationService) ResumeSessions(ctx context.Context) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	sessions, err := s.sessionRepo.ListInProgressSessions(ctx)
	if err != nil {
		return err
	}
	for _, session := range sessions {
		if err := s.locks.Acquire(ctx, session.AccountID); err != nil {
			return fmt.Errorf("resume session %s: %w", session.SessionID, err)
		}
		s.markHeld(session.AccountID)
		logger.Info("Reconciliation session resumed",
			slog.String("session_id", session.SessionID),
			slog.String("account_id", session.AccountID),
		)
	}
	return nil
}

// GetSession retrieves one session, including retained audit records.
func (s *reconciliationService) GetSession(ctx context.Context, companyID string, sessionID string) (*domain.ReconciliationSession, error) {
	return s.sessionRepo.FindSessionByID(ctx, companyID, sessionID)
}

// ListSessions retrieves the account's session history, newest first.
func (s *reconciliationService) ListSessions(ctx context.Context, companyID string, accountID string) ([]domain.ReconciliationSession, error) {
	return s.sessionRepo.ListSessions(ctx, companyID, accountID)
}

func (s *reconciliationService) markHeld(accountID string) {
	s.mu.Lock()
	s.held[accountID] = true
	s.mu.Unlock()
}

// releaseHeld frees the account's section only when this service acquired it.
func (s *reconciliationService) releaseHeld(accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.held[accountID] {
		delete(s.held, accountID)
		s.locks.Release(accountID)
	}
}

func (s *reconciliationService) inProgressSession(ctx context.Context, companyID, sessionID string) (*domain.ReconciliationSession, error) {
	session, err := s.sessionRepo.FindSessionByID(ctx, companyID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.ReconciliationInProgress {
		return nil, fmt.Errorf("session %s: %w", sessionID, apperrors.ErrSessionNotInProgress)
	}
	return session, nil
}
