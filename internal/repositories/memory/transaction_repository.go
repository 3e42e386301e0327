package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
)

// FindTransactionByID retrieves a specific transaction.
func (l *Ledger) FindTransactionByID(ctx context.Context, companyID string, transactionID string) (*domain.Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.findTransactionLocked(companyID, transactionID)
}

func (l *Ledger) findTransactionLocked(companyID, transactionID string) (*domain.Transaction, error) {
	txn, ok := l.transactions[transactionID]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
	}
	acc, ok := l.accounts[txn.AccountID]
	if !ok || acc.CompanyID != companyID {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
	}
	cp := *txn
	return &cp, nil
}

// ListTransactions returns the account's transactions matching the filter in
// a stable total order: by date, ties broken by insertion sequence.
func (l *Ledger) ListTransactions(ctx context.Context, companyID string, accountID string, filter portsrepo.TransactionFilter) ([]domain.Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if _, err := l.findAccountLocked(companyID, accountID); err != nil {
		return nil, err
	}

	matched := make([]domain.Transaction, 0)
	for _, id := range l.txOrder {
		txn := l.transactions[id]
		if txn.AccountID != accountID {
			continue
		}
		if filter.From != nil && txn.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && txn.Date.After(*filter.To) {
			continue
		}
		if filter.Reconciled != nil && txn.Reconciled != *filter.Reconciled {
			continue
		}
		matched = append(matched, *txn)
	}
	sortTransactionsStable(matched)
	return matched, nil
}

// FindTransactionsByJournalID retrieves all transactions created by one journal.
func (l *Ledger) FindTransactionsByJournalID(ctx context.Context, companyID string, journalID string) ([]domain.Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	matched := make([]domain.Transaction, 0)
	for _, id := range l.txOrder {
		txn := l.transactions[id]
		if txn.JournalID != journalID {
			continue
		}
		acc, ok := l.accounts[txn.AccountID]
		if !ok || acc.CompanyID != companyID {
			continue
		}
		matched = append(matched, *txn)
	}
	sortTransactionsStable(matched)
	return matched, nil
}

// SaveTransaction appends a transaction. The account reference is validated
// and imported rows are deduplicated on (accountID, date, amount,
// externalRef). The store assigns the insertion sequence.
func (l *Ledger) SaveTransaction(ctx context.Context, txn *domain.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.saveTransactionLocked(txn)
}

func (l *Ledger) saveTransactionLocked(txn *domain.Transaction) error {
	if _, exists := l.transactions[txn.TransactionID]; exists {
		return fmt.Errorf("transaction %s: %w", txn.TransactionID, apperrors.ErrDuplicate)
	}
	acc, ok := l.accounts[txn.AccountID]
	if !ok {
		return fmt.Errorf("account %s: %w", txn.AccountID, apperrors.ErrNotFound)
	}
	if !acc.IsActive {
		return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, txn.AccountID)
	}
	if !txn.Amount.IsPositive() {
		return fmt.Errorf("%w: transaction amount must be positive", apperrors.ErrValidation)
	}
	if txn.ExternalRef != "" && l.hasImportDuplicateLocked(txn) {
		return fmt.Errorf("externalRef %s: %w", txn.ExternalRef, apperrors.ErrDuplicate)
	}

	cp := *txn
	cp.Seq = l.nextSeq
	l.nextSeq++
	l.transactions[cp.TransactionID] = &cp
	l.txOrder = append(l.txOrder, cp.TransactionID)
	txn.Seq = cp.Seq
	return nil
}

func (l *Ledger) hasImportDuplicateLocked(txn *domain.Transaction) bool {
	for _, id := range l.txOrder {
		existing := l.transactions[id]
		if existing.AccountID == txn.AccountID &&
			existing.ExternalRef == txn.ExternalRef &&
			existing.Amount == txn.Amount &&
			existing.Date.Equal(txn.Date) {
			return true
		}
	}
	return false
}

// UpdateTransaction applies a patch. Reconciled transactions refuse edits to
// amount, date and direction until explicitly unreconciled.
func (l *Ledger) UpdateTransaction(ctx context.Context, companyID string, transactionID string, patch domain.TransactionPatch, actor string, now time.Time) (*domain.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	txn, ok := l.transactions[transactionID]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
	}
	acc, ok := l.accounts[txn.AccountID]
	if !ok || acc.CompanyID != companyID {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
	}
	if txn.Reconciled && patch.TouchesImmutableFields() {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrTransactionImmutable)
	}
	if patch.Amount != nil && !patch.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: transaction amount must be positive", apperrors.ErrValidation)
	}

	if patch.Date != nil {
		txn.Date = *patch.Date
	}
	if patch.Description != nil {
		txn.Description = *patch.Description
	}
	if patch.Amount != nil {
		txn.Amount = *patch.Amount
	}
	if patch.TransactionType != nil {
		txn.TransactionType = *patch.TransactionType
	}
	if patch.Category != nil {
		txn.Category = *patch.Category
	}
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = actor

	cp := *txn
	return &cp, nil
}

// SetReconciled flips the reconciled flag on every listed transaction in one
// critical section: all ids are verified before any flag changes, so the
// update is all-or-nothing.
func (l *Ledger) SetReconciled(ctx context.Context, companyID string, transactionIDs []string, value bool, actor string, now time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	targets := make([]*domain.Transaction, 0, len(transactionIDs))
	for _, id := range transactionIDs {
		txn, ok := l.transactions[id]
		if !ok {
			return fmt.Errorf("transaction %s: %w", id, apperrors.ErrNotFound)
		}
		acc, ok := l.accounts[txn.AccountID]
		if !ok || acc.CompanyID != companyID {
			return fmt.Errorf("transaction %s: %w", id, apperrors.ErrNotFound)
		}
		targets = append(targets, txn)
	}
	for _, txn := range targets {
		txn.Reconciled = value
		txn.LastUpdatedAt = now
		txn.LastUpdatedBy = actor
	}
	return nil
}
