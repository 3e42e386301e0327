package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
)

// FindSessionByID retrieves a session by its unique identifier.
func (l *Ledger) FindSessionByID(ctx context.Context, companyID string, sessionID string) (*domain.ReconciliationSession, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s, ok := l.sessions[sessionID]
	if !ok || s.CompanyID != companyID {
		return nil, fmt.Errorf("session %s: %w", sessionID, apperrors.ErrNotFound)
	}
	cp := copySession(s)
	return &cp, nil
}

// FindInProgressSessionByAccount returns the account's in-progress session.
func (l *Ledger) FindInProgressSessionByAccount(ctx context.Context, companyID string, accountID string) (*domain.ReconciliationSession, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, id := range l.sessionOrder {
		s := l.sessions[id]
		if s.CompanyID == companyID && s.AccountID == accountID && s.Status == domain.ReconciliationInProgress {
			cp := copySession(s)
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("in-progress session for account %s: %w", accountID, apperrors.ErrNotFound)
}

// ListSessions retrieves the account's sessions, newest first.
func (l *Ledger) ListSessions(ctx context.Context, companyID string, accountID string) ([]domain.ReconciliationSession, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	sessions := make([]domain.ReconciliationSession, 0)
	for i := len(l.sessionOrder) - 1; i >= 0; i-- {
		s := l.sessions[l.sessionOrder[i]]
		if s.CompanyID != companyID || s.AccountID != accountID {
			continue
		}
		sessions = append(sessions, copySession(s))
	}
	return sessions, nil
}

// ListInProgressSessions returns every in-progress session across all companies.
func (l *Ledger) ListInProgressSessions(ctx context.Context) ([]domain.ReconciliationSession, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	sessions := make([]domain.ReconciliationSession, 0)
	for _, id := range l.sessionOrder {
		s := l.sessions[id]
		if s.Status == domain.ReconciliationInProgress {
			sessions = append(sessions, copySession(s))
		}
	}
	return sessions, nil
}

// CreateSession persists a new in-progress session. The exclusivity check and
// the insert share one critical section, so two racing Start calls cannot
// both succeed.
func (l *Ledger) CreateSession(ctx context.Context, session domain.ReconciliationSession) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.sessions[session.SessionID]; exists {
		return fmt.Errorf("session %s: %w", session.SessionID, apperrors.ErrDuplicate)
	}
	for _, id := range l.sessionOrder {
		existing := l.sessions[id]
		if existing.CompanyID == session.CompanyID &&
			existing.AccountID == session.AccountID &&
			existing.Status == domain.ReconciliationInProgress {
			return fmt.Errorf("account %s: %w", session.AccountID, apperrors.ErrSessionAlreadyActive)
		}
	}

	cp := copySession(&session)
	l.sessions[session.SessionID] = &cp
	l.sessionOrder = append(l.sessionOrder, session.SessionID)
	return nil
}

// UpdateSession persists selection or status changes.
func (l *Ledger) UpdateSession(ctx context.Context, session domain.ReconciliationSession) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing, ok := l.sessions[session.SessionID]
	if !ok || existing.CompanyID != session.CompanyID {
		return fmt.Errorf("session %s: %w", session.SessionID, apperrors.ErrNotFound)
	}
	cp := copySession(&session)
	l.sessions[session.SessionID] = &cp
	return nil
}

func copySession(s *domain.ReconciliationSession) domain.ReconciliationSession {
	cp := *s
	cp.CandidateIDs = append([]string(nil), s.CandidateIDs...)
	cp.SelectedIDs = append([]string(nil), s.SelectedIDs...)
	return cp
}
