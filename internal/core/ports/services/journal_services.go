package services

import (
	"context"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetJournalByID retrieves a journal and, when posted, its transactions.
	GetJournalByID(ctx context.Context, companyID string, journalID string) (*domain.Journal, []domain.Transaction, error)

	// ListJournals retrieves a token-paginated list of journals.
	ListJournals(ctx context.Context, companyID string, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)
}

// JournalWriterSvc defines the validator/poster operations.
type JournalWriterSvc interface {
	// CreateJournal persists a new draft after line-shape validation.
	CreateJournal(ctx context.Context, companyID string, req dto.CreateJournalRequest, actor string) (*domain.Journal, error)

	// PostJournal validates balance and expands the draft's lines into
	// permanent transactions, atomically. Fails with
	// apperrors.UnbalancedEntryError when debits != credits and
	// apperrors.ErrAlreadyPosted on a posted journal.
	PostJournal(ctx context.Context, companyID string, journalID string, actor string) (*domain.Journal, error)

	// ReverseJournal creates a new draft with every line's debit/credit
	// swapped, referencing the original. The original is not mutated.
	ReverseJournal(ctx context.Context, companyID string, journalID string, actor string) (*domain.Journal, error)
}

// JournalSvcFacade combines all journal-related service interfaces.
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
