// Package apperrors defines the error taxonomy of the ledger core.
//
// Business-rule failures are ordinary returned errors grouped into four
// categories (validation, invariant, state, not-found) so handlers can map
// them to responses without string matching. Storage faults are a distinct
// fifth category and the only one eligible for caller-side retry.
package apperrors

import (
	"errors"
	"fmt"

	"github.com/SscSPs/bookkeeping_app/pkg/money"
)

// Category sentinels. Specific errors wrap exactly one of these.
var (
	// ErrValidation indicates malformed input (missing account, bad amount).
	ErrValidation = errors.New("validation error")

	// ErrInvariant indicates a bookkeeping invariant would be violated.
	ErrInvariant = errors.New("invariant violation")

	// ErrState indicates the operation is not legal in the entity's current state.
	ErrState = errors.New("state error")

	// ErrNotFound indicates that a requested resource could not be found.
	ErrNotFound = errors.New("resource not found")

	// ErrStorage indicates the persistence collaborator is unavailable.
	ErrStorage = errors.New("storage error")
)

// Specific business errors.
var (
	// ErrDuplicate indicates an attempt to create a resource that already exists.
	ErrDuplicate = fmt.Errorf("%w: resource already exists", ErrValidation)

	// ErrDuplicateAccountNumber indicates the account number is already taken
	// within the company.
	ErrDuplicateAccountNumber = fmt.Errorf("%w: account number already in use", ErrValidation)

	// ErrNonzeroBalance rejects deactivation of an account whose balance is not zero.
	ErrNonzeroBalance = fmt.Errorf("%w: account balance must be zero", ErrState)

	// ErrAlreadyPosted rejects posting a journal that is already posted.
	ErrAlreadyPosted = fmt.Errorf("%w: journal is already posted", ErrState)

	// ErrSessionAlreadyActive rejects a second in-progress reconciliation
	// session on the same account.
	ErrSessionAlreadyActive = fmt.Errorf("%w: reconciliation session already in progress for account", ErrState)

	// ErrSessionNotInProgress rejects work against a completed or cancelled session.
	ErrSessionNotInProgress = fmt.Errorf("%w: reconciliation session is not in progress", ErrState)

	// ErrNotACandidate rejects selecting a transaction outside the session's
	// candidate set.
	ErrNotACandidate = fmt.Errorf("%w: transaction is not a reconciliation candidate", ErrState)

	// ErrTransactionImmutable rejects edits to amount/date/direction of a
	// reconciled transaction.
	ErrTransactionImmutable = fmt.Errorf("%w: reconciled transaction is immutable", ErrState)
)

// UnbalancedEntryError reports a journal whose debit and credit totals differ.
// Diff is debits minus credits in minor units.
type UnbalancedEntryError struct {
	Diff money.Money
}

func (e UnbalancedEntryError) Error() string {
	return fmt.Sprintf("journal does not balance: debits minus credits is %s", e.Diff.String())
}

// Unwrap classifies the error as an invariant violation.
func (e UnbalancedEntryError) Unwrap() error { return ErrInvariant }

// DifferenceNotZeroError reports a reconciliation whose statement/book
// difference exceeds the finishing epsilon.
type DifferenceNotZeroError struct {
	Diff money.Money
}

func (e DifferenceNotZeroError) Error() string {
	return fmt.Sprintf("reconciliation difference is %s, not zero", e.Diff.String())
}

// Unwrap classifies the error as an invariant violation.
func (e DifferenceNotZeroError) Unwrap() error { return ErrInvariant }

// NewStorageError wraps a persistence fault so callers can distinguish it
// from business-rule failures.
func NewStorageError(op string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, cause)
}

// IsRetryable reports whether the error is a storage fault, the only
// category callers may retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStorage)
}
