package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/core/services"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/SscSPs/bookkeeping_app/internal/repositories/memory"
	"github.com/SscSPs/bookkeeping_app/internal/utils/accounting"
	"github.com/SscSPs/bookkeeping_app/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type BalanceServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	ledger     *memory.Ledger
	accountSvc portssvc.AccountSvcFacade
	txSvc      portssvc.TransactionSvcFacade
	balanceSvc portssvc.BalanceSvcFacade
	companyID  string
}

func (suite *BalanceServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.ledger = memory.NewLedger()
	suite.companyID = "comp-1"

	locks := services.NewAccountLockManager()
	suite.balanceSvc = services.NewBalanceService(suite.ledger, suite.ledger)
	suite.accountSvc = services.NewAccountService(suite.ledger, suite.balanceSvc)
	suite.txSvc = services.NewTransactionService(suite.ledger, suite.ledger, locks)
}

func (suite *BalanceServiceTestSuite) createAccount(number string, accType domain.AccountType, opening string) *domain.Account {
	acc, err := suite.accountSvc.CreateAccount(suite.ctx, suite.companyID, dto.CreateAccountRequest{
		AccountNumber:  number,
		Name:           string(accType) + " account",
		AccountType:    accType,
		CurrencyCode:   "USD",
		OpeningBalance: decimal.RequireFromString(opening),
	}, "tester")
	suite.Require().NoError(err)
	return acc
}

func (suite *BalanceServiceTestSuite) addTxn(accountID string, day int, amount, direction string) *domain.Transaction {
	txn, err := suite.txSvc.CreateTransaction(suite.ctx, suite.companyID, dto.CreateTransactionRequest{
		AccountID: accountID,
		Date:      time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.RequireFromString(amount),
		Direction: direction,
	}, "tester")
	suite.Require().NoError(err)
	return txn
}

// --- Test Cases ---

func (suite *BalanceServiceTestSuite) TestBalance_SignConventionPerAccountType() {
	asOf := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	// A debit raises asset-side balances and lowers liability-side ones.
	cases := []struct {
		accType  domain.AccountType
		expected string
	}{
		{domain.Asset, "60.00"},
		{domain.Bank, "60.00"},
		{domain.Expense, "60.00"},
		{domain.Liability, "-60.00"},
		{domain.Equity, "-60.00"},
		{domain.Revenue, "-60.00"},
	}
	for i, tc := range cases {
		acc := suite.createAccount(string(rune('1'+i))+"000", tc.accType, "0.00")
		suite.addTxn(acc.AccountID, 5, "100.00", string(domain.Debit))
		suite.addTxn(acc.AccountID, 6, "40.00", string(domain.Credit))

		balance, err := suite.balanceSvc.Balance(suite.ctx, suite.companyID, acc.AccountID, asOf, false)
		suite.Require().NoError(err)
		suite.Equal(money.MustParse(tc.expected), balance, "account type %s", tc.accType)
	}
}

func (suite *BalanceServiceTestSuite) TestBalance_AsOfCutsOffLaterTransactions() {
	acc := suite.createAccount("1010", domain.Bank, "100.00")
	suite.addTxn(acc.AccountID, 5, "50.00", domain.Deposit)
	suite.addTxn(acc.AccountID, 20, "30.00", domain.Withdrawal)

	balance, err := suite.balanceSvc.Balance(suite.ctx, suite.companyID, acc.AccountID, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), false)
	suite.Require().NoError(err)
	suite.Equal(money.MustParse("150.00"), balance)

	balance, err = suite.balanceSvc.Balance(suite.ctx, suite.companyID, acc.AccountID, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), false)
	suite.Require().NoError(err)
	suite.Equal(money.MustParse("120.00"), balance)
}

func (suite *BalanceServiceTestSuite) TestBalance_AdditiveOverSubperiods() {
	// balance(t2) - balance(t1) equals the signed sum of the movements in
	// (t1, t2], with boundary dates landing on the inclusive side of each
	// as-of cutoff.
	acc := suite.createAccount("1010", domain.Bank, "500.00")
	suite.addTxn(acc.AccountID, 1, "100.00", domain.Deposit)
	suite.addTxn(acc.AccountID, 10, "40.00", domain.Withdrawal) // exactly on t1
	suite.addTxn(acc.AccountID, 11, "25.00", domain.Deposit)
	suite.addTxn(acc.AccountID, 20, "10.00", domain.Withdrawal) // exactly on t2
	suite.addTxn(acc.AccountID, 21, "99.00", domain.Deposit)

	t1 := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	b1, err := suite.balanceSvc.Balance(suite.ctx, suite.companyID, acc.AccountID, t1, false)
	suite.Require().NoError(err)
	b2, err := suite.balanceSvc.Balance(suite.ctx, suite.companyID, acc.AccountID, t2, false)
	suite.Require().NoError(err)

	// The window sum recomputed independently from the listed rows.
	from := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	listed, err := suite.txSvc.ListTransactions(suite.ctx, suite.companyID, acc.AccountID, dto.ListTransactionsParams{From: &from, To: &t2})
	suite.Require().NoError(err)
	suite.Require().Len(listed, 2)

	windowSum := money.Zero
	for _, txn := range listed {
		signed, err := accounting.SignedTransactionAmount(txn, domain.Bank)
		suite.Require().NoError(err)
		windowSum = windowSum.Add(signed)
	}

	suite.Equal(money.MustParse("15.00"), windowSum)
	suite.Equal(windowSum, b2.Sub(b1))
}

func (suite *BalanceServiceTestSuite) TestRunningBalances_SeededAndCumulative() {
	acc := suite.createAccount("1010", domain.Bank, "100.00")
	before := suite.addTxn(acc.AccountID, 1, "25.00", domain.Deposit)
	inWindow1 := suite.addTxn(acc.AccountID, 10, "50.00", domain.Deposit)
	inWindow2 := suite.addTxn(acc.AccountID, 10, "30.00", domain.Withdrawal)
	after := suite.addTxn(acc.AccountID, 28, "10.00", domain.Deposit)

	seed, lines, err := suite.balanceSvc.RunningBalances(suite.ctx, suite.companyID, acc.AccountID,
		time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
	)
	suite.Require().NoError(err)

	// Seed covers opening balance plus the March 1 deposit.
	suite.Equal(money.MustParse("125.00"), seed)
	suite.Require().Len(lines, 2)
	suite.Equal(inWindow1.TransactionID, lines[0].Transaction.TransactionID)
	suite.Equal(money.MustParse("175.00"), lines[0].Balance)
	suite.Equal(inWindow2.TransactionID, lines[1].Transaction.TransactionID)
	suite.Equal(money.MustParse("145.00"), lines[1].Balance)

	// Window rows never include movements outside [start, end].
	for _, line := range lines {
		suite.NotEqual(before.TransactionID, line.Transaction.TransactionID)
		suite.NotEqual(after.TransactionID, line.Transaction.TransactionID)
	}
}

func (suite *BalanceServiceTestSuite) TestRunningBalances_LastLineMatchesBalance() {
	// The final running figure and the as-of balance are computed through the
	// same signed sum, so they must agree.
	acc := suite.createAccount("1010", domain.Bank, "10934.09")
	suite.addTxn(acc.AccountID, 3, "253.75", domain.Withdrawal)
	suite.addTxn(acc.AccountID, 10, "1250.00", domain.Deposit)
	suite.addTxn(acc.AccountID, 17, "187.45", domain.Withdrawal)
	suite.addTxn(acc.AccountID, 24, "3501.00", domain.Deposit)

	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	_, lines, err := suite.balanceSvc.RunningBalances(suite.ctx, suite.companyID, acc.AccountID,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), end)
	suite.Require().NoError(err)
	suite.Require().Len(lines, 4)
	suite.Equal(money.MustParse("15243.89"), lines[3].Balance)

	balance, err := suite.balanceSvc.Balance(suite.ctx, suite.companyID, acc.AccountID, end, false)
	suite.Require().NoError(err)
	suite.Equal(lines[3].Balance, balance)
}

func (suite *BalanceServiceTestSuite) TestUnreconciledCount() {
	acc := suite.createAccount("1010", domain.Bank, "0.00")
	t1 := suite.addTxn(acc.AccountID, 5, "10.00", domain.Deposit)
	suite.addTxn(acc.AccountID, 6, "20.00", domain.Deposit)

	count, err := suite.balanceSvc.UnreconciledCount(suite.ctx, suite.companyID, acc.AccountID)
	suite.Require().NoError(err)
	suite.Equal(2, count)

	suite.Require().NoError(suite.ledger.SetReconciled(suite.ctx, suite.companyID, []string{t1.TransactionID}, true, "tester", time.Now().UTC()))

	count, err = suite.balanceSvc.UnreconciledCount(suite.ctx, suite.companyID, acc.AccountID)
	suite.Require().NoError(err)
	suite.Equal(1, count)
}

func TestBalanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BalanceServiceTestSuite))
}
