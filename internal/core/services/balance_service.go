package services

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/utils/accounting"
	"github.com/SscSPs/bookkeeping_app/pkg/money"
)

// balanceService derives every balance figure from the transaction store.
// Balances are never stored: they are always opening balance plus the signed
// sum of matching transactions, so the three consumers (dashboards,
// statements, reconciliation) cannot drift apart.
type balanceService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	txRepo      portsrepo.TransactionRepositoryFacade
}

// NewBalanceService creates a new balance calculator.
func NewBalanceService(accountRepo portsrepo.AccountRepositoryFacade, txRepo portsrepo.TransactionRepositoryFacade) portssvc.BalanceSvcFacade {
	return &balanceService{
		accountRepo: accountRepo,
		txRepo:      txRepo,
	}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// Balance returns the signed balance as of the given instant.
func (s *balanceService) Balance(ctx context.Context, companyID string, accountID string, asOf time.Time, reconciledOnly bool) (money.Money, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		return money.Zero, err
	}

	filter := portsrepo.TransactionFilter{To: &asOf}
	if reconciledOnly {
		t := true
		filter.Reconciled = &t
	}
	txns, err := s.txRepo.ListTransactions(ctx, companyID, accountID, filter)
	if err != nil {
		return money.Zero, err
	}

	balance := account.OpeningBalance
	for _, txn := range txns {
		signed, err := accounting.SignedTransactionAmount(txn, account.AccountType)
		if err != nil {
			return money.Zero, err
		}
		balance = balance.Add(signed)
	}
	return balance, nil
}

// RunningBalances pairs each transaction in [start, end] with the cumulative
// balance after it, seeded from the balance immediately before start. Within
// one date, rows accumulate in insertion order, so the output is
// deterministic for any input ordering.
func (s *balanceService) RunningBalances(ctx context.Context, companyID string, accountID string, start, end time.Time) (money.Money, []domain.RunningBalanceLine, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		return money.Zero, nil, err
	}

	// Everything strictly before the window seeds the running figure.
	before, err := s.txRepo.ListTransactions(ctx, companyID, accountID, portsrepo.TransactionFilter{})
	if err != nil {
		return money.Zero, nil, err
	}

	seed := account.OpeningBalance
	window := make([]domain.Transaction, 0)
	for _, txn := range before {
		if txn.Date.Before(start) {
			signed, err := accounting.SignedTransactionAmount(txn, account.AccountType)
			if err != nil {
				return money.Zero, nil, err
			}
			seed = seed.Add(signed)
			continue
		}
		if !txn.Date.After(end) {
			window = append(window, txn)
		}
	}

	lines := make([]domain.RunningBalanceLine, 0, len(window))
	running := seed
	for _, txn := range window {
		signed, err := accounting.SignedTransactionAmount(txn, account.AccountType)
		if err != nil {
			return money.Zero, nil, err
		}
		running = running.Add(signed)
		lines = append(lines, domain.RunningBalanceLine{Transaction: txn, Balance: running})
	}
	return seed, lines, nil
}

// UnreconciledCount counts the account's unreconciled transactions.
func (s *balanceService) UnreconciledCount(ctx context.Context, companyID string, accountID string) (int, error) {
	f := false
	txns, err := s.txRepo.ListTransactions(ctx, companyID, accountID, portsrepo.TransactionFilter{Reconciled: &f})
	if err != nil {
		return 0, err
	}
	return len(txns), nil
}
