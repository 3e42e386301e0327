package repositories

import (
	"context"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a specific journal by its unique identifier.
	FindJournalByID(ctx context.Context, companyID string, journalID string) (*domain.Journal, error)

	// ListJournals retrieves a paginated list of journals for a given company
	// using token-based pagination. It returns the journals, a token for the
	// next page, and an error.
	ListJournals(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Journal, *string, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveJournal persists a new draft journal.
	SaveJournal(ctx context.Context, journal domain.Journal) error

	// PostJournal marks the journal posted and appends its expanded
	// transactions in a single critical section: no concurrent reader may
	// observe the journal posted without its transactions or vice versa, and
	// a failure leaves neither behind.
	PostJournal(ctx context.Context, journal domain.Journal, transactions []domain.Transaction) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
