package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/SscSPs/bookkeeping_app/internal/repositories/memory"
	"github.com/SscSPs/bookkeeping_app/pkg/money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

const testCompanyID = "comp-1"

type LedgerStoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Ledger
	now   time.Time
}

func (s *LedgerStoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewLedger()
	s.now = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
}

func (s *LedgerStoreTestSuite) newBankAccount(number string) domain.Account {
	acc := domain.Account{
		AccountID:     uuid.NewString(),
		CompanyID:     testCompanyID,
		AccountNumber: number,
		Name:          "Business Checking",
		AccountType:   domain.Bank,
		CurrencyCode:  "USD",
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     s.now,
			CreatedBy:     "tester",
			LastUpdatedAt: s.now,
			LastUpdatedBy: "tester",
		},
	}
	s.Require().NoError(s.store.SaveAccount(s.ctx, acc))
	return acc
}

func (s *LedgerStoreTestSuite) newTxn(accountID string, date time.Time, amount string, txType domain.TransactionType) domain.Transaction {
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		AccountID:       accountID,
		Date:            date,
		Description:     "test entry",
		Amount:          money.MustParse(amount),
		TransactionType: txType,
		AuditFields: domain.AuditFields{
			CreatedAt:     s.now,
			CreatedBy:     "tester",
			LastUpdatedAt: s.now,
			LastUpdatedBy: "tester",
		},
	}
	s.Require().NoError(s.store.SaveTransaction(s.ctx, &txn))
	return txn
}

// --- Account tests ---

func (s *LedgerStoreTestSuite) TestSaveAccount_DuplicateNumberRejected() {
	s.newBankAccount("1010")

	dup := domain.Account{
		AccountID:     uuid.NewString(),
		CompanyID:     testCompanyID,
		AccountNumber: "1010",
		Name:          "Second Checking",
		AccountType:   domain.Bank,
		CurrencyCode:  "USD",
		IsActive:      true,
	}
	err := s.store.SaveAccount(s.ctx, dup)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrDuplicateAccountNumber)
}

func (s *LedgerStoreTestSuite) TestSaveAccount_SameNumberDifferentCompanyAllowed() {
	s.newBankAccount("1010")

	other := domain.Account{
		AccountID:     uuid.NewString(),
		CompanyID:     "comp-2",
		AccountNumber: "1010",
		Name:          "Other Co Checking",
		AccountType:   domain.Bank,
		CurrencyCode:  "USD",
		IsActive:      true,
	}
	s.NoError(s.store.SaveAccount(s.ctx, other))
}

// --- Transaction ordering ---

func (s *LedgerStoreTestSuite) TestListTransactions_StableOrderOnEqualDates() {
	acc := s.newBankAccount("1010")
	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	first := s.newTxn(acc.AccountID, date, "100.00", domain.Debit)
	second := s.newTxn(acc.AccountID, date, "200.00", domain.Debit)
	third := s.newTxn(acc.AccountID, date, "300.00", domain.Debit)

	listed, err := s.store.ListTransactions(s.ctx, testCompanyID, acc.AccountID, portsrepo.TransactionFilter{})
	s.Require().NoError(err)
	s.Require().Len(listed, 3)
	s.Equal(first.TransactionID, listed[0].TransactionID)
	s.Equal(second.TransactionID, listed[1].TransactionID)
	s.Equal(third.TransactionID, listed[2].TransactionID)
}

func (s *LedgerStoreTestSuite) TestListTransactions_DateBeforeSequence() {
	acc := s.newBankAccount("1010")

	// Inserted out of date order; the listing must sort by date first.
	late := s.newTxn(acc.AccountID, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), "50.00", domain.Credit)
	early := s.newTxn(acc.AccountID, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "75.00", domain.Debit)

	listed, err := s.store.ListTransactions(s.ctx, testCompanyID, acc.AccountID, portsrepo.TransactionFilter{})
	s.Require().NoError(err)
	s.Require().Len(listed, 2)
	s.Equal(early.TransactionID, listed[0].TransactionID)
	s.Equal(late.TransactionID, listed[1].TransactionID)
}

func (s *LedgerStoreTestSuite) TestListTransactions_FilterByReconciled() {
	acc := s.newBankAccount("1010")
	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	matched := s.newTxn(acc.AccountID, date, "100.00", domain.Debit)
	other := s.newTxn(acc.AccountID, date, "200.00", domain.Debit)
	s.Require().NoError(s.store.SetReconciled(s.ctx, testCompanyID, []string{other.TransactionID}, true, "tester", s.now))

	unreconciled := false
	listed, err := s.store.ListTransactions(s.ctx, testCompanyID, acc.AccountID, portsrepo.TransactionFilter{Reconciled: &unreconciled})
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal(matched.TransactionID, listed[0].TransactionID)
}

// --- Import dedupe ---

func (s *LedgerStoreTestSuite) TestSaveTransaction_DuplicateExternalRefRejected() {
	acc := s.newBankAccount("1010")
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	original := domain.Transaction{
		TransactionID:   uuid.NewString(),
		AccountID:       acc.AccountID,
		Date:            date,
		Amount:          money.MustParse("42.50"),
		TransactionType: domain.Debit,
		ExternalRef:     "stmt-2024-03-0001",
	}
	s.Require().NoError(s.store.SaveTransaction(s.ctx, &original))

	dup := domain.Transaction{
		TransactionID:   uuid.NewString(),
		AccountID:       acc.AccountID,
		Date:            date,
		Amount:          money.MustParse("42.50"),
		TransactionType: domain.Debit,
		ExternalRef:     "stmt-2024-03-0001",
	}
	err := s.store.SaveTransaction(s.ctx, &dup)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrDuplicate)

	// Same ref but different amount is a distinct row.
	variant := domain.Transaction{
		TransactionID:   uuid.NewString(),
		AccountID:       acc.AccountID,
		Date:            date,
		Amount:          money.MustParse("43.00"),
		TransactionType: domain.Debit,
		ExternalRef:     "stmt-2024-03-0001",
	}
	s.NoError(s.store.SaveTransaction(s.ctx, &variant))
}

// --- Reconciled immutability ---

func (s *LedgerStoreTestSuite) TestUpdateTransaction_ReconciledRejectsAmountEdit() {
	acc := s.newBankAccount("1010")
	txn := s.newTxn(acc.AccountID, s.now, "100.00", domain.Debit)
	s.Require().NoError(s.store.SetReconciled(s.ctx, testCompanyID, []string{txn.TransactionID}, true, "tester", s.now))

	newAmount := money.MustParse("999.99")
	_, err := s.store.UpdateTransaction(s.ctx, testCompanyID, txn.TransactionID, domain.TransactionPatch{Amount: &newAmount}, "tester", s.now)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrTransactionImmutable)

	// Description stays editable.
	desc := "cleared per bank statement"
	updated, err := s.store.UpdateTransaction(s.ctx, testCompanyID, txn.TransactionID, domain.TransactionPatch{Description: &desc}, "tester", s.now)
	s.Require().NoError(err)
	s.Equal(desc, updated.Description)
}

func (s *LedgerStoreTestSuite) TestSetReconciled_AllOrNothing() {
	acc := s.newBankAccount("1010")
	txn := s.newTxn(acc.AccountID, s.now, "100.00", domain.Debit)

	err := s.store.SetReconciled(s.ctx, testCompanyID, []string{txn.TransactionID, "missing-id"}, true, "tester", s.now)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)

	got, err := s.store.FindTransactionByID(s.ctx, testCompanyID, txn.TransactionID)
	s.Require().NoError(err)
	s.False(got.Reconciled, "partial batch must not flip any flag")
}

// --- Journal posting atomicity ---

func (s *LedgerStoreTestSuite) TestPostJournal_AppendsTransactionsAndMarksPosted() {
	bank := s.newBankAccount("1010")
	revenue := domain.Account{
		AccountID:     uuid.NewString(),
		CompanyID:     testCompanyID,
		AccountNumber: "4000",
		Name:          "Sales Revenue",
		AccountType:   domain.Revenue,
		CurrencyCode:  "USD",
		IsActive:      true,
	}
	s.Require().NoError(s.store.SaveAccount(s.ctx, revenue))

	journal := domain.Journal{
		JournalID:    uuid.NewString(),
		CompanyID:    testCompanyID,
		JournalDate:  s.now,
		Description:  "March invoice",
		CurrencyCode: "USD",
		Status:       domain.Draft,
		Lines: []domain.JournalLine{
			{AccountID: bank.AccountID, Debit: money.MustParse("500.00")},
			{AccountID: revenue.AccountID, Credit: money.MustParse("500.00")},
		},
	}
	s.Require().NoError(s.store.SaveJournal(s.ctx, journal))

	txns := []domain.Transaction{
		{
			TransactionID:   uuid.NewString(),
			AccountID:       bank.AccountID,
			JournalID:       journal.JournalID,
			Date:            journal.JournalDate,
			Amount:          money.MustParse("500.00"),
			TransactionType: domain.Debit,
		},
		{
			TransactionID:   uuid.NewString(),
			AccountID:       revenue.AccountID,
			JournalID:       journal.JournalID,
			Date:            journal.JournalDate,
			Amount:          money.MustParse("500.00"),
			TransactionType: domain.Credit,
		},
	}
	s.Require().NoError(s.store.PostJournal(s.ctx, journal, txns))

	stored, err := s.store.FindJournalByID(s.ctx, testCompanyID, journal.JournalID)
	s.Require().NoError(err)
	s.Equal(domain.Posted, stored.Status)

	linked, err := s.store.FindTransactionsByJournalID(s.ctx, testCompanyID, journal.JournalID)
	s.Require().NoError(err)
	s.Len(linked, 2)
}

func (s *LedgerStoreTestSuite) TestPostJournal_AlreadyPostedRejected() {
	bank := s.newBankAccount("1010")

	journal := domain.Journal{
		JournalID:    uuid.NewString(),
		CompanyID:    testCompanyID,
		JournalDate:  s.now,
		CurrencyCode: "USD",
		Status:       domain.Draft,
		Lines: []domain.JournalLine{
			{AccountID: bank.AccountID, Debit: money.MustParse("10.00")},
			{AccountID: bank.AccountID, Credit: money.MustParse("10.00")},
		},
	}
	s.Require().NoError(s.store.SaveJournal(s.ctx, journal))
	s.Require().NoError(s.store.PostJournal(s.ctx, journal, nil))

	err := s.store.PostJournal(s.ctx, journal, nil)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrAlreadyPosted)
}

func (s *LedgerStoreTestSuite) TestPostJournal_BadAccountLeavesNothingBehind() {
	bank := s.newBankAccount("1010")

	journal := domain.Journal{
		JournalID:    uuid.NewString(),
		CompanyID:    testCompanyID,
		JournalDate:  s.now,
		CurrencyCode: "USD",
		Status:       domain.Draft,
		Lines: []domain.JournalLine{
			{AccountID: bank.AccountID, Debit: money.MustParse("10.00")},
			{AccountID: "no-such-account", Credit: money.MustParse("10.00")},
		},
	}
	s.Require().NoError(s.store.SaveJournal(s.ctx, journal))

	txns := []domain.Transaction{
		{TransactionID: uuid.NewString(), AccountID: bank.AccountID, JournalID: journal.JournalID, Date: s.now, Amount: money.MustParse("10.00"), TransactionType: domain.Debit},
		{TransactionID: uuid.NewString(), AccountID: "no-such-account", JournalID: journal.JournalID, Date: s.now, Amount: money.MustParse("10.00"), TransactionType: domain.Credit},
	}
	err := s.store.PostJournal(s.ctx, journal, txns)
	s.Require().Error(err)

	stored, err := s.store.FindJournalByID(s.ctx, testCompanyID, journal.JournalID)
	s.Require().NoError(err)
	s.Equal(domain.Draft, stored.Status)

	linked, err := s.store.FindTransactionsByJournalID(s.ctx, testCompanyID, journal.JournalID)
	s.Require().NoError(err)
	s.Empty(linked)
}

// --- Reconciliation session exclusivity ---

func (s *LedgerStoreTestSuite) TestCreateSession_SecondInProgressRejected() {
	acc := s.newBankAccount("1010")

	first := domain.ReconciliationSession{
		SessionID: uuid.NewString(),
		CompanyID: testCompanyID,
		AccountID: acc.AccountID,
		Status:    domain.ReconciliationInProgress,
	}
	s.Require().NoError(s.store.CreateSession(s.ctx, first))

	second := domain.ReconciliationSession{
		SessionID: uuid.NewString(),
		CompanyID: testCompanyID,
		AccountID: acc.AccountID,
		Status:    domain.ReconciliationInProgress,
	}
	err := s.store.CreateSession(s.ctx, second)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrSessionAlreadyActive)

	// A completed session frees the account for a new one.
	first.Status = domain.ReconciliationCompleted
	s.Require().NoError(s.store.UpdateSession(s.ctx, first))
	s.NoError(s.store.CreateSession(s.ctx, second))
}

// --- Snapshot round trip ---

func (s *LedgerStoreTestSuite) TestSnapshotRestore_RoundTrip() {
	acc := s.newBankAccount("1010")
	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	t1 := s.newTxn(acc.AccountID, date, "100.00", domain.Debit)
	t2 := s.newTxn(acc.AccountID, date, "200.00", domain.Credit)

	snap, err := s.store.Snapshot(s.ctx)
	s.Require().NoError(err)

	fresh := memory.NewLedger()
	s.Require().NoError(fresh.Restore(s.ctx, snap))

	listed, err := fresh.ListTransactions(s.ctx, testCompanyID, acc.AccountID, portsrepo.TransactionFilter{})
	s.Require().NoError(err)
	s.Require().Len(listed, 2)
	s.Equal(t1.TransactionID, listed[0].TransactionID)
	s.Equal(t2.TransactionID, listed[1].TransactionID)

	// Seq allocation resumes past the restored rows.
	t3 := domain.Transaction{
		TransactionID:   uuid.NewString(),
		AccountID:       acc.AccountID,
		Date:            date,
		Amount:          money.MustParse("5.00"),
		TransactionType: domain.Debit,
	}
	s.Require().NoError(fresh.SaveTransaction(s.ctx, &t3))
	s.Greater(t3.Seq, t2.Seq)
}

func TestLedgerStoreTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerStoreTestSuite))
}
