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
	"github.com/SscSPs/bookkeeping_app/pkg/money"
)

// accountService manages the chart of accounts.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	balanceSvc  portssvc.BalanceSvcFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, balanceSvc portssvc.BalanceSvcFacade) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		balanceSvc:  balanceSvc,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount persists a new account after validating the opening balance
// precision and account-number uniqueness.
func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, actor string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	opening, err := money.FromDecimal(req.OpeningBalance)
	if err != nil {
		return nil, fmt.Errorf("%w: opening balance: %v", apperrors.ErrValidation, err)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		CompanyID:      companyID,
		AccountNumber:  req.AccountNumber,
		Name:           req.Name,
		AccountType:    req.AccountType,
		CurrencyCode:   req.CurrencyCode,
		OpeningBalance: opening,
		Description:    req.Description,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Account created",
		slog.String("account_id", account.AccountID),
		slog.String("account_number", account.AccountNumber),
		slog.String("account_type", string(account.AccountType)),
	)
	return &account, nil
}

// DeactivateAccount marks an account inactive. An account holding a nonzero
// balance cannot be deactivated.
func (s *accountService) DeactivateAccount(ctx context.Context, companyID string, accountID string, actor string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return nil
	}

	balance, err := s.balanceSvc.Balance(ctx, companyID, accountID, time.Now().UTC(), false)
	if err != nil {
		return err
	}
	if !balance.IsZero() {
		return fmt.Errorf("account %s holds %s: %w", accountID, balance.String(), apperrors.ErrNonzeroBalance)
	}

	account.IsActive = false
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = actor
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to deactivate account", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return err
	}

	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}

// GetAccountByID retrieves a specific account.
func (s *accountService) GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, companyID, accountID)
}

// GetAccountsByIDs retrieves multiple accounts by their IDs.
func (s *accountService) GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	return s.accountRepo.FindAccountsByIDs(ctx, companyID, accountIDs)
}

// ListAccounts retrieves a paginated list of accounts.
func (s *accountService) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.accountRepo.ListAccounts(ctx, companyID, limit, offset)
}
