package services

import (
	"context"
	"fmt"
	"log/slog"
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

// journalService is the validator and poster for double-entry journals.
// Drafts are cheap and mutable; posting is the guarded transition that turns
// lines into permanent transactions.
type journalService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	txRepo      portsrepo.TransactionReader
	locks       *AccountLockManager
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, txRepo portsrepo.TransactionReader, locks *AccountLockManager) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		txRepo:      txRepo,
		locks:       locks,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateJournal persists a new draft after line-shape and account validation.
// Balance is not checked here: an unbalanced draft is legal and only posting
// enforces the invariant.
func (s *journalService) CreateJournal(ctx context.Context, companyID string, req dto.CreateJournalRequest, actor string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	lines, err := s.toDomainLines(req.Lines)
	if err != nil {
		return nil, err
	}
	if err := accounting.ValidateLineShapes(lines); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if err := s.validateLineAccounts(ctx, companyID, req.CurrencyCode, lines); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	journal := domain.Journal{
		JournalID:    uuid.NewString(),
		CompanyID:    companyID,
		JournalDate:  req.Date,
		Description:  req.Description,
		Reference:    req.Reference,
		CurrencyCode: req.CurrencyCode,
		Lines:        lines,
		Status:       domain.Draft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	if err := s.journalRepo.SaveJournal(ctx, journal); err != nil {
		logger.Error("Failed to save journal draft", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Journal draft created", slog.String("journal_id", journal.JournalID), slog.Int("lines", len(journal.Lines)))
	return &journal, nil
}

// PostJournal performs the Draft -> Posted transition: it checks that debits
// equal credits, claims every affected account's exclusive section, then
// atomically expands the lines into transactions. A failed post leaves no
// partial rows behind.
func (s *journalService) PostJournal(ctx context.Context, companyID string, journalID string, actor string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, err := s.journalRepo.FindJournalByID(ctx, companyID, journalID)
	if err != nil {
		return nil, err
	}
	if journal.Status == domain.Posted {
		return nil, fmt.Errorf("journal %s: %w", journalID, apperrors.ErrAlreadyPosted)
	}

	sumDebits, sumCredits := accounting.ComputeTotals(journal.Lines)
	if sumDebits != sumCredits {
		return nil, apperrors.UnbalancedEntryError{Diff: sumDebits.Sub(sumCredits)}
	}
	if err := s.validateLineAccounts(ctx, companyID, journal.CurrencyCode, journal.Lines); err != nil {
		return nil, err
	}

	accountIDs := make([]string, 0, len(journal.Lines))
	for _, line := range journal.Lines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	release, err := s.locks.AcquireAll(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	defer release()

	now := time.Now().UTC()
	txns := make([]domain.Transaction, 0, len(journal.Lines))
	for _, line := range journal.Lines {
		txType := domain.Credit
		if line.IsDebit() {
			txType = domain.Debit
		}
		txns = append(txns, domain.Transaction{
			TransactionID:   uuid.NewString(),
			AccountID:       line.AccountID,
			JournalID:       journal.JournalID,
			Date:            journal.JournalDate,
			Description:     journal.Description,
			Amount:          line.Amount(),
			TransactionType: txType,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actor,
				LastUpdatedAt: now,
				LastUpdatedBy: actor,
			},
		})
	}

	journal.Status = domain.Posted
	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = actor
	if err := s.journalRepo.PostJournal(ctx, *journal, txns); err != nil {
		logger.Error("Failed to post journal", slog.String("journal_id", journalID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Journal posted",
		slog.String("journal_id", journal.JournalID),
		slog.String("sum_debits", sumDebits.String()),
		slog.Int("transactions", len(txns)),
	)
	return journal, nil
}

// ReverseJournal creates a new draft whose lines swap every debit and credit
// of the original posted journal. The original is left untouched; the
// correction only takes effect when the reversing draft is itself posted.
func (s *journalService) ReverseJournal(ctx context.Context, companyID string, journalID string, actor string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.journalRepo.FindJournalByID(ctx, companyID, journalID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: only posted journals can be reversed", apperrors.ErrState)
	}

	reversedLines := make([]domain.JournalLine, len(original.Lines))
	for i, line := range original.Lines {
		reversedLines[i] = domain.JournalLine{
			AccountID: line.AccountID,
			Debit:     line.Credit,
			Credit:    line.Debit,
		}
	}

	now := time.Now().UTC()
	reversal := domain.Journal{
		JournalID:         uuid.NewString(),
		CompanyID:         companyID,
		JournalDate:       now,
		Description:       fmt.Sprintf("Reversal of: %s", original.Description),
		Reference:         original.Reference,
		CurrencyCode:      original.CurrencyCode,
		Lines:             reversedLines,
		Status:            domain.Draft,
		OriginalJournalID: original.JournalID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	if err := s.journalRepo.SaveJournal(ctx, reversal); err != nil {
		logger.Error("Failed to save reversing draft", slog.String("original_journal_id", journalID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Reversing draft created",
		slog.String("journal_id", reversal.JournalID),
		slog.String("original_journal_id", original.JournalID),
	)
	return &reversal, nil
}

// GetJournalByID retrieves a journal and, when posted, its transactions.
func (s *journalService) GetJournalByID(ctx context.Context, companyID string, journalID string) (*domain.Journal, []domain.Transaction, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, companyID, journalID)
	if err != nil {
		return nil, nil, err
	}
	if journal.Status != domain.Posted {
		return journal, nil, nil
	}
	txns, err := s.txRepo.FindTransactionsByJournalID(ctx, companyID, journalID)
	if err != nil {
		return nil, nil, err
	}
	return journal, txns, nil
}

// ListJournals retrieves a token-paginated page of journals.
func (s *journalService) ListJournals(ctx context.Context, companyID string, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	journals, nextToken, err := s.journalRepo.ListJournals(ctx, companyID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	resp := dto.ListJournalsResponse{
		Journals:  make([]dto.JournalResponse, len(journals)),
		NextToken: nextToken,
	}
	for i := range journals {
		resp.Journals[i] = dto.ToJournalResponse(&journals[i], nil)
	}
	return &resp, nil
}

func (s *journalService) toDomainLines(reqLines []dto.JournalLineRequest) ([]domain.JournalLine, error) {
	lines := make([]domain.JournalLine, len(reqLines))
	for i, rl := range reqLines {
		line := domain.JournalLine{AccountID: rl.AccountID}
		if rl.Debit != nil {
			debit, err := money.FromDecimal(*rl.Debit)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d debit: %v", apperrors.ErrValidation, i, err)
			}
			line.Debit = debit
		}
		if rl.Credit != nil {
			credit, err := money.FromDecimal(*rl.Credit)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d credit: %v", apperrors.ErrValidation, i, err)
			}
			line.Credit = credit
		}
		lines[i] = line
	}
	return lines, nil
}

// validateLineAccounts checks that every referenced account exists, is
// active, belongs to the company, and carries the journal's currency.
func (s *journalService) validateLineAccounts(ctx context.Context, companyID string, currencyCode string, lines []domain.JournalLine) error {
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.AccountID)
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, companyID, ids)
	if err != nil {
		return err
	}
	for _, line := range lines {
		acc, ok := accounts[line.AccountID]
		if !ok {
			return fmt.Errorf("account %s: %w", line.AccountID, apperrors.ErrNotFound)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, line.AccountID)
		}
		if acc.CurrencyCode != currencyCode {
			return fmt.Errorf("%w: account %s currency %s does not match journal currency %s",
				apperrors.ErrValidation, line.AccountID, acc.CurrencyCode, currencyCode)
		}
	}
	return nil
}
