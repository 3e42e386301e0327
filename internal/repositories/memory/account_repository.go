package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
)

// FindAccountByID retrieves a specific account by its unique identifier.
func (l *Ledger) FindAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.findAccountLocked(companyID, accountID)
}

// findAccountLocked must be called with at least a read lock held.
func (l *Ledger) findAccountLocked(companyID, accountID string) (*domain.Account, error) {
	acc, ok := l.accounts[accountID]
	if !ok || acc.CompanyID != companyID {
		return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	cp := *acc
	return &cp, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs. Missing ids are
// simply absent from the result map.
func (l *Ledger) FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := l.accounts[id]; ok && acc.CompanyID == companyID {
			result[id] = *acc
		}
	}
	return result, nil
}

// FindAccountByNumber retrieves an account by its company-scoped number.
func (l *Ledger) FindAccountByNumber(ctx context.Context, companyID string, accountNumber string) (*domain.Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, id := range l.accountOrder {
		acc := l.accounts[id]
		if acc.CompanyID == companyID && acc.AccountNumber == accountNumber {
			cp := *acc
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("account number %s: %w", accountNumber, apperrors.ErrNotFound)
}

// ListAccounts retrieves a paginated list of accounts in creation order.
func (l *Ledger) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	accounts := make([]domain.Account, 0)
	skipped := 0
	for _, id := range l.accountOrder {
		acc := l.accounts[id]
		if acc.CompanyID != companyID {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		accounts = append(accounts, *acc)
		if limit > 0 && len(accounts) >= limit {
			break
		}
	}
	return accounts, nil
}

// SaveAccount persists a new account, enforcing account-number uniqueness
// within the company.
func (l *Ledger) SaveAccount(ctx context.Context, account domain.Account) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.accounts[account.AccountID]; exists {
		return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrDuplicate)
	}
	for _, id := range l.accountOrder {
		existing := l.accounts[id]
		if existing.CompanyID == account.CompanyID && existing.AccountNumber == account.AccountNumber {
			return fmt.Errorf("number %s: %w", account.AccountNumber, apperrors.ErrDuplicateAccountNumber)
		}
	}

	cp := account
	l.accounts[account.AccountID] = &cp
	l.accountOrder = append(l.accountOrder, account.AccountID)
	return nil
}

// UpdateAccount updates an existing account's details.
func (l *Ledger) UpdateAccount(ctx context.Context, account domain.Account) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing, ok := l.accounts[account.AccountID]
	if !ok || existing.CompanyID != account.CompanyID {
		return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrNotFound)
	}
	cp := account
	l.accounts[account.AccountID] = &cp
	return nil
}
