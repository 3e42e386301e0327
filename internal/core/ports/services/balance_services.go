package services

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/pkg/money"
)

// BalanceSvcFacade derives balances from the transaction store. It is a
// read-only consumer: dashboards, statements and the reconciliation
// difference all go through it.
type BalanceSvcFacade interface {
	// Balance returns the signed account balance as of the given instant,
	// seeded from the opening balance. With reconciledOnly set, only
	// reconciled transactions contribute.
	Balance(ctx context.Context, companyID string, accountID string, asOf time.Time, reconciledOnly bool) (money.Money, error)

	// RunningBalances returns, in date order, each transaction in
	// [start, end] paired with the cumulative balance after it, seeded from
	// the balance immediately before start. It also returns that seed.
	RunningBalances(ctx context.Context, companyID string, accountID string, start, end time.Time) (money.Money, []domain.RunningBalanceLine, error)

	// UnreconciledCount counts the account's unreconciled transactions.
	UnreconciledCount(ctx context.Context, companyID string, accountID string) (int, error)
}
