package services

import (
	"context"
	"errors"
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
	"github.com/SscSPs/bookkeeping_app/pkg/money"
)

// transactionService handles direct entry, patching and bank-feed imports.
type transactionService struct {
	txRepo      portsrepo.TransactionRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	locks       *AccountLockManager
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(txRepo portsrepo.TransactionRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, locks *AccountLockManager) portssvc.TransactionSvcFacade {
	return &transactionService{
		txRepo:      txRepo,
		accountRepo: accountRepo,
		locks:       locks,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// CreateTransaction appends a single directly entered transaction under the
// account's exclusive section.
func (s *transactionService) CreateTransaction(ctx context.Context, companyID string, req dto.CreateTransactionRequest, actor string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txType, ok := domain.NormalizeTransactionType(req.Direction)
	if !ok {
		return nil, fmt.Errorf("%w: unknown direction %q", apperrors.ErrValidation, req.Direction)
	}
	amount, err := money.FromDecimal(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: amount: %v", apperrors.ErrValidation, err)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	if _, err := s.accountRepo.FindAccountByID(ctx, companyID, req.AccountID); err != nil {
		return nil, err
	}

	if err := s.locks.Acquire(ctx, req.AccountID); err != nil {
		return nil, err
	}
	defer s.locks.Release(req.AccountID)

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		AccountID:       req.AccountID,
		Date:            req.Date,
		Description:     req.Description,
		Amount:          amount,
		TransactionType: txType,
		Category:        req.Category,
		ExternalRef:     req.ExternalRef,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	if err := s.txRepo.SaveTransaction(ctx, &txn); err != nil {
		logger.Error("Failed to save transaction", slog.String("account_id", req.AccountID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("account_id", txn.AccountID),
		slog.String("amount", txn.Amount.String()),
		slog.String("direction", string(txn.TransactionType)),
	)
	return &txn, nil
}

// UpdateTransaction patches a transaction. Amount, date and direction of a
// reconciled transaction stay frozen until it is unreconciled.
func (s *transactionService) UpdateTransaction(ctx context.Context, companyID string, transactionID string, req dto.UpdateTransactionRequest, actor string) (*domain.Transaction, error) {
	existing, err := s.txRepo.FindTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		return nil, err
	}

	patch := domain.TransactionPatch{
		Date:        req.Date,
		Description: req.Description,
		Category:    req.Category,
	}
	if req.Amount != nil {
		amount, err := money.FromDecimal(*req.Amount)
		if err != nil {
			return nil, fmt.Errorf("%w: amount: %v", apperrors.ErrValidation, err)
		}
		patch.Amount = &amount
	}
	if req.Direction != nil {
		txType, ok := domain.NormalizeTransactionType(*req.Direction)
		if !ok {
			return nil, fmt.Errorf("%w: unknown direction %q", apperrors.ErrValidation, *req.Direction)
		}
		patch.TransactionType = &txType
	}

	if err := s.locks.Acquire(ctx, existing.AccountID); err != nil {
		return nil, err
	}
	defer s.locks.Release(existing.AccountID)

	return s.txRepo.UpdateTransaction(ctx, companyID, transactionID, patch, actor, time.Now().UTC())
}

// ImportTransactions feeds a bank-feed batch through the import boundary.
// Rows that duplicate an existing (account, date, amount, externalRef) tuple
// are dropped silently; the result reports both counts.
func (s *transactionService) ImportTransactions(ctx context.Context, companyID string, req dto.ImportRequest, actor string) (*dto.ImportResultResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByID(ctx, companyID, req.AccountID); err != nil {
		return nil, err
	}

	if err := s.locks.Acquire(ctx, req.AccountID); err != nil {
		return nil, err
	}
	defer s.locks.Release(req.AccountID)

	now := time.Now().UTC()
	result := dto.ImportResultResponse{}
	for i, line := range req.Lines {
		amount, err := money.FromDecimal(line.Amount)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: amount: %v", apperrors.ErrValidation, i, err)
		}
		if amount.IsZero() {
			return nil, fmt.Errorf("%w: line %d: amount must be nonzero", apperrors.ErrValidation, i)
		}
		// Bank feeds sign the amount: positive lands as a deposit, negative
		// as a withdrawal, stored as a positive magnitude.
		txType := domain.Debit
		if !amount.IsPositive() {
			txType = domain.Credit
			amount = amount.Neg()
		}

		txn := domain.Transaction{
			TransactionID:   uuid.NewString(),
			AccountID:       req.AccountID,
			Date:            line.Date,
			Description:     line.Description,
			Amount:          amount,
			TransactionType: txType,
			ExternalRef:     line.ExternalRef,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actor,
				LastUpdatedAt: now,
				LastUpdatedBy: actor,
			},
		}
		err = s.txRepo.SaveTransaction(ctx, &txn)
		switch {
		case err == nil:
			result.Imported++
		case errors.Is(err, apperrors.ErrDuplicate):
			result.Skipped++
		default:
			return nil, err
		}
	}

	logger.Info("Import batch processed",
		slog.String("account_id", req.AccountID),
		slog.Int("imported", result.Imported),
		slog.Int("skipped", result.Skipped),
	)
	return &result, nil
}

// UnreconcileTransaction clears the reconciled flag, restoring editability
// and future reconciliation candidacy.
func (s *transactionService) UnreconcileTransaction(ctx context.Context, companyID string, transactionID string, actor string) (*domain.Transaction, error) {
	txn, err := s.txRepo.FindTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		return nil, err
	}
	if !txn.Reconciled {
		return txn, nil
	}

	if err := s.locks.Acquire(ctx, txn.AccountID); err != nil {
		return nil, err
	}
	defer s.locks.Release(txn.AccountID)

	now := time.Now().UTC()
	if err := s.txRepo.SetReconciled(ctx, companyID, []string{transactionID}, false, actor, now); err != nil {
		return nil, err
	}
	return s.txRepo.FindTransactionByID(ctx, companyID, transactionID)
}

// GetTransactionByID retrieves a specific transaction.
func (s *transactionService) GetTransactionByID(ctx context.Context, companyID string, transactionID string) (*domain.Transaction, error) {
	return s.txRepo.FindTransactionByID(ctx, companyID, transactionID)
}

// ListTransactions returns the account's transactions matching the params in
// stable date order.
func (s *transactionService) ListTransactions(ctx context.Context, companyID string, accountID string, params dto.ListTransactionsParams) ([]domain.Transaction, error) {
	filter := portsrepo.TransactionFilter{
		From:       params.From,
		To:         params.To,
		Reconciled: params.Reconciled,
	}
	return s.txRepo.ListTransactions(ctx, companyID, accountID, filter)
}
