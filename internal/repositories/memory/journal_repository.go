package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/internal/utils/pagination"
)

// FindJournalByID retrieves a specific journal by its unique identifier.
func (l *Ledger) FindJournalByID(ctx context.Context, companyID string, journalID string) (*domain.Journal, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	j, ok := l.journals[journalID]
	if !ok || j.CompanyID != companyID {
		return nil, fmt.Errorf("journal %s: %w", journalID, apperrors.ErrNotFound)
	}
	cp := *j
	cp.Lines = append([]domain.JournalLine(nil), j.Lines...)
	return &cp, nil
}

// ListJournals retrieves journals newest first with token-based pagination.
// The token encodes the last returned journal's date and creation time.
func (l *Ledger) ListJournals(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	all := make([]domain.Journal, 0)
	for _, id := range l.journalOrder {
		j := l.journals[id]
		if j.CompanyID != companyID {
			continue
		}
		cp := *j
		cp.Lines = append([]domain.JournalLine(nil), j.Lines...)
		all = append(all, cp)
	}
	sort.Slice(all, func(i, k int) bool {
		if !all[i].JournalDate.Equal(all[k].JournalDate) {
			return all[i].JournalDate.After(all[k].JournalDate)
		}
		return all[i].CreatedAt.After(all[k].CreatedAt)
	})

	start := 0
	if nextToken != nil && *nextToken != "" {
		tokenDate, tokenCreated, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		for i, j := range all {
			if j.JournalDate.Equal(tokenDate) && j.CreatedAt.Equal(tokenCreated) {
				start = i + 1
				break
			}
		}
	}

	if limit <= 0 {
		limit = 10
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	page := all[start:end]

	var token *string
	if end < len(all) && len(page) > 0 {
		last := page[len(page)-1]
		t := pagination.EncodeToken(last.JournalDate, last.CreatedAt)
		token = &t
	}
	return page, token, nil
}

// SaveJournal persists a new draft journal.
func (l *Ledger) SaveJournal(ctx context.Context, journal domain.Journal) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.journals[journal.JournalID]; exists {
		return fmt.Errorf("journal %s: %w", journal.JournalID, apperrors.ErrDuplicate)
	}
	cp := journal
	cp.Lines = append([]domain.JournalLine(nil), journal.Lines...)
	l.journals[journal.JournalID] = &cp
	l.journalOrder = append(l.journalOrder, journal.JournalID)
	return nil
}

// PostJournal marks the journal posted and appends its expanded transactions
// in a single critical section. The transaction inserts are validated up
// front: a failure leaves the journal draft and appends nothing.
func (l *Ledger) PostJournal(ctx context.Context, journal domain.Journal, transactions []domain.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	stored, ok := l.journals[journal.JournalID]
	if !ok || stored.CompanyID != journal.CompanyID {
		return fmt.Errorf("journal %s: %w", journal.JournalID, apperrors.ErrNotFound)
	}
	if stored.Status == domain.Posted {
		return fmt.Errorf("journal %s: %w", journal.JournalID, apperrors.ErrAlreadyPosted)
	}

	for i := range transactions {
		txn := &transactions[i]
		if _, exists := l.transactions[txn.TransactionID]; exists {
			return fmt.Errorf("transaction %s: %w", txn.TransactionID, apperrors.ErrDuplicate)
		}
		acc, ok := l.accounts[txn.AccountID]
		if !ok || acc.CompanyID != journal.CompanyID {
			return fmt.Errorf("account %s: %w", txn.AccountID, apperrors.ErrNotFound)
		}
		if !txn.Amount.IsPositive() {
			return fmt.Errorf("%w: transaction amount must be positive", apperrors.ErrValidation)
		}
	}

	for i := range transactions {
		cp := transactions[i]
		cp.Seq = l.nextSeq
		l.nextSeq++
		l.transactions[cp.TransactionID] = &cp
		l.txOrder = append(l.txOrder, cp.TransactionID)
		transactions[i].Seq = cp.Seq
	}

	upd := journal
	upd.Status = domain.Posted
	upd.Lines = append([]domain.JournalLine(nil), journal.Lines...)
	l.journals[journal.JournalID] = &upd
	return nil
}
