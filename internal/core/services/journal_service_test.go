package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/core/services"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/SscSPs/bookkeeping_app/pkg/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockJournalRepository is a mock type for the JournalRepositoryFacade interface
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, companyID string, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, companyID, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) ListJournals(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken)
	var journals []domain.Journal
	if args.Get(0) != nil {
		journals = args.Get(0).([]domain.Journal)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return journals, token, args.Error(2)
}

func (m *MockJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal) error {
	args := m.Called(ctx, journal)
	return args.Error(0)
}

func (m *MockJournalRepository) PostJournal(ctx context.Context, journal domain.Journal, transactions []domain.Transaction) error {
	args := m.Called(ctx, journal, transactions)
	return args.Error(0)
}

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByNumber(ctx context.Context, companyID string, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockTransactionReader is a mock type for the TransactionReader interface
type MockTransactionReader struct {
	mock.Mock
}

func (m *MockTransactionReader) FindTransactionByID(ctx context.Context, companyID string, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, companyID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionReader) ListTransactions(ctx context.Context, companyID string, accountID string, filter portsrepo.TransactionFilter) ([]domain.Transaction, error) {
	args := m.Called(ctx, companyID, accountID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionReader) FindTransactionsByJournalID(ctx context.Context, companyID string, journalID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, companyID, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// --- Test Suite Setup ---

type JournalServiceTestSuite struct {
	suite.Suite
	ctx             context.Context
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	mockTxReader    *MockTransactionReader
	service         portssvc.JournalSvcFacade

	companyID string
	bankAcc   domain.Account
	revAcc    domain.Account
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockTxReader = new(MockTransactionReader)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountRepo, suite.mockTxReader, services.NewAccountLockManager())

	suite.companyID = "comp-1"
	suite.bankAcc = domain.Account{
		AccountID:    uuid.NewString(),
		CompanyID:    suite.companyID,
		AccountType:  domain.Bank,
		CurrencyCode: "USD",
		IsActive:     true,
	}
	suite.revAcc = domain.Account{
		AccountID:    uuid.NewString(),
		CompanyID:    suite.companyID,
		AccountType:  domain.Revenue,
		CurrencyCode: "USD",
		IsActive:     true,
	}
}

func (suite *JournalServiceTestSuite) accountsByID() map[string]domain.Account {
	return map[string]domain.Account{
		suite.bankAcc.AccountID: suite.bankAcc,
		suite.revAcc.AccountID:  suite.revAcc,
	}
}

func (suite *JournalServiceTestSuite) draftJournal(debit, credit string) *domain.Journal {
	return &domain.Journal{
		JournalID:    uuid.NewString(),
		CompanyID:    suite.companyID,
		JournalDate:  time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Description:  "March invoice",
		CurrencyCode: "USD",
		Status:       domain.Draft,
		Lines: []domain.JournalLine{
			{AccountID: suite.bankAcc.AccountID, Debit: money.MustParse(debit)},
			{AccountID: suite.revAcc.AccountID, Credit: money.MustParse(credit)},
		},
	}
}

// --- Test Cases ---

func (suite *JournalServiceTestSuite) TestCreateJournal_Success() {
	debit := decimal.NewFromFloat(500.00)
	credit := decimal.NewFromFloat(500.00)
	req := dto.CreateJournalRequest{
		Date:         time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Description:  "March invoice",
		CurrencyCode: "USD",
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.bankAcc.AccountID, Debit: &debit},
			{AccountID: suite.revAcc.AccountID, Credit: &credit},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, suite.companyID, mock.Anything).Return(suite.accountsByID(), nil)
	suite.mockJournalRepo.On("SaveJournal", suite.ctx, mock.AnythingOfType("domain.Journal")).Return(nil)

	journal, err := suite.service.CreateJournal(suite.ctx, suite.companyID, req, "tester")

	suite.Require().NoError(err)
	suite.Equal(domain.Draft, journal.Status)
	suite.Len(journal.Lines, 2)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateJournal_BothSidesSetRejected() {
	debit := decimal.NewFromFloat(500.00)
	req := dto.CreateJournalRequest{
		Date:         time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Description:  "bad line",
		CurrencyCode: "USD",
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.bankAcc.AccountID, Debit: &debit, Credit: &debit},
			{AccountID: suite.revAcc.AccountID, Credit: &debit},
		},
	}

	_, err := suite.service.CreateJournal(suite.ctx, suite.companyID, req, "tester")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_UnbalancedDraftAllowed() {
	// An unbalanced draft is legal; only posting enforces the balance.
	debit := decimal.NewFromFloat(1000.00)
	credit := decimal.NewFromFloat(900.00)
	req := dto.CreateJournalRequest{
		Date:         time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Description:  "will not balance",
		CurrencyCode: "USD",
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.bankAcc.AccountID, Debit: &debit},
			{AccountID: suite.revAcc.AccountID, Credit: &credit},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, suite.companyID, mock.Anything).Return(suite.accountsByID(), nil)
	suite.mockJournalRepo.On("SaveJournal", suite.ctx, mock.AnythingOfType("domain.Journal")).Return(nil)

	journal, err := suite.service.CreateJournal(suite.ctx, suite.companyID, req, "tester")

	suite.Require().NoError(err)
	suite.Equal(domain.Draft, journal.Status)
}

func (suite *JournalServiceTestSuite) TestPostJournal_UnbalancedRejectedWithDiff() {
	journal := suite.draftJournal("1000.00", "900.00")
	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, suite.companyID, journal.JournalID).Return(journal, nil)

	_, err := suite.service.PostJournal(suite.ctx, suite.companyID, journal.JournalID, "tester")

	suite.Require().Error(err)
	var unbalanced apperrors.UnbalancedEntryError
	suite.Require().ErrorAs(err, &unbalanced)
	suite.Equal(money.MustParse("100.00"), unbalanced.Diff)
	suite.ErrorIs(err, apperrors.ErrInvariant)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostJournal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostJournal_Success() {
	journal := suite.draftJournal("500.00", "500.00")
	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, suite.companyID, journal.JournalID).Return(journal, nil)
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, suite.companyID, mock.Anything).Return(suite.accountsByID(), nil)
	suite.mockJournalRepo.On("PostJournal", suite.ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.Transaction")).Return(nil)

	posted, err := suite.service.PostJournal(suite.ctx, suite.companyID, journal.JournalID, "tester")

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, posted.Status)

	// One transaction per line, amounts positive, direction per side.
	call := suite.mockJournalRepo.Calls[len(suite.mockJournalRepo.Calls)-1]
	txns := call.Arguments.Get(2).([]domain.Transaction)
	suite.Require().Len(txns, 2)
	suite.Equal(domain.Debit, txns[0].TransactionType)
	suite.Equal(money.MustParse("500.00"), txns[0].Amount)
	suite.Equal(domain.Credit, txns[1].TransactionType)
	suite.Equal(journal.JournalID, txns[0].JournalID)
}

func (suite *JournalServiceTestSuite) TestPostJournal_AlreadyPostedRejected() {
	journal := suite.draftJournal("500.00", "500.00")
	journal.Status = domain.Posted
	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, suite.companyID, journal.JournalID).Return(journal, nil)

	_, err := suite.service.PostJournal(suite.ctx, suite.companyID, journal.JournalID, "tester")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyPosted)
}

func (suite *JournalServiceTestSuite) TestPostJournal_InactiveAccountRejected() {
	journal := suite.draftJournal("500.00", "500.00")
	inactive := suite.revAcc
	inactive.IsActive = false
	accounts := map[string]domain.Account{
		suite.bankAcc.AccountID: suite.bankAcc,
		suite.revAcc.AccountID:  inactive,
	}

	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, suite.companyID, journal.JournalID).Return(journal, nil)
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, suite.companyID, mock.Anything).Return(accounts, nil)

	_, err := suite.service.PostJournal(suite.ctx, suite.companyID, journal.JournalID, "tester")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostJournal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostJournal_CurrencyMismatchRejected() {
	journal := suite.draftJournal("500.00", "500.00")
	foreign := suite.revAcc
	foreign.CurrencyCode = "EUR"
	accounts := map[string]domain.Account{
		suite.bankAcc.AccountID: suite.bankAcc,
		suite.revAcc.AccountID:  foreign,
	}

	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, suite.companyID, journal.JournalID).Return(journal, nil)
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, suite.companyID, mock.Anything).Return(accounts, nil)

	_, err := suite.service.PostJournal(suite.ctx, suite.companyID, journal.JournalID, "tester")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostJournal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseJournal_SwapsSidesIntoNewDraft() {
	journal := suite.draftJournal("500.00", "500.00")
	journal.Status = domain.Posted
	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, suite.companyID, journal.JournalID).Return(journal, nil)
	suite.mockJournalRepo.On("SaveJournal", suite.ctx, mock.AnythingOfType("domain.Journal")).Return(nil)

	reversal, err := suite.service.ReverseJournal(suite.ctx, suite.companyID, journal.JournalID, "tester")

	suite.Require().NoError(err)
	suite.Equal(domain.Draft, reversal.Status)
	suite.Equal(journal.JournalID, reversal.OriginalJournalID)
	suite.NotEqual(journal.JournalID, reversal.JournalID)
	suite.Require().Len(reversal.Lines, 2)
	suite.Equal(money.MustParse("500.00"), reversal.Lines[0].Credit)
	suite.True(reversal.Lines[0].Debit.IsZero())
	suite.Equal(money.MustParse("500.00"), reversal.Lines[1].Debit)
}

func (suite *JournalServiceTestSuite) TestReverseJournal_DraftRejected() {
	journal := suite.draftJournal("500.00", "500.00")
	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, suite.companyID, journal.JournalID).Return(journal, nil)

	_, err := suite.service.ReverseJournal(suite.ctx, suite.companyID, journal.JournalID, "tester")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrState)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
