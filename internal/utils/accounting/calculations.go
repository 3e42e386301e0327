package accounting

import (
	"fmt"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/pkg/money"
)

// SignedAmount applies the account-type sign convention to a transaction
// amount. The same rule is used by balance calculation, journal validation
// and reconciliation difference math so the three can never disagree.
//
// DEBIT to ASSET/BANK/EXPENSE -> Positive (+)
// CREDIT to ASSET/BANK/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
func SignedAmount(amount money.Money, txType domain.TransactionType, accountType domain.AccountType) (money.Money, error) {
	isDebit := txType == domain.Debit

	switch accountType {
	case domain.Asset, domain.Bank, domain.Expense:
		if !isDebit {
			return amount.Neg(), nil
		}
		return amount, nil
	case domain.Liability, domain.Equity, domain.Revenue:
		if isDebit {
			return amount.Neg(), nil
		}
		return amount, nil
	default:
		return money.Zero, fmt.Errorf("unknown account type %q", accountType)
	}
}

// SignedTransactionAmount is SignedAmount for a stored transaction.
func SignedTransactionAmount(txn domain.Transaction, accountType domain.AccountType) (money.Money, error) {
	return SignedAmount(txn.Amount, txn.TransactionType, accountType)
}

// ComputeTotals sums the debit and credit sides of a journal's lines in
// minor units. The Draft -> Posted transition requires the two to be equal.
func ComputeTotals(lines []domain.JournalLine) (sumDebits, sumCredits money.Money) {
	for _, line := range lines {
		sumDebits = sumDebits.Add(line.Debit)
		sumCredits = sumCredits.Add(line.Credit)
	}
	return sumDebits, sumCredits
}

// ValidateLineShapes checks that every line carries a positive amount on
// exactly one side.
func ValidateLineShapes(lines []domain.JournalLine) error {
	for i, line := range lines {
		debitSet := !line.Debit.IsZero()
		creditSet := !line.Credit.IsZero()
		if debitSet == creditSet {
			return fmt.Errorf("line %d must have exactly one of debit or credit set", i)
		}
		if line.Amount() < 0 {
			return fmt.Errorf("line %d amount must be positive", i)
		}
	}
	return nil
}
