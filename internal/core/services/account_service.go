package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/biz_admin_app/internal/apperrors"
	"github.com/SscSPs/biz_admin_app/internal/core/domain"
	portsrepo "github.com/SscSPs/biz_admin_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/biz_admin_app/internal/core/ports/services"
	"github.com/SscSPs/biz_admin_app/internal/dto"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	txnCreator  portssvc.TransactionCreator
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountCompanyAuthorizer adds the company authorizer dependency
func WithAccountCompanyAuthorizer(authorizer portssvc.CompanyAuthorizerSvc) AccountServiceOption {
	return func(s *accountService) {
		s.CompanyAuthorizer = authorizer
	}
}

// WithTransactionCreator adds the transaction engine dependency used by
// balance adjustments.
func WithTransactionCreator(creator portssvc.TransactionCreator) AccountServiceOption {
	return func(s *accountService) {
		s.txnCreator = creator
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, creatorUserID, companyID, domain.RoleMember); err != nil {
		s.LogError(ctx, err, "User not authorized to create account",
			slog.String("user_id", creatorUserID),
			slog.String("company_id", companyID))
		return nil, err
	}

	allowNegative := req.AllowNegativeBalance
	if req.AccountType == domain.CreditCard {
		// Credit cards carry debt; the overdraft policy cannot be disabled.
		allowNegative = true
	}

	if !allowNegative && req.InitialBalance.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: initial balance %s is negative but account disallows negative balance",
			apperrors.ErrValidation, req.InitialBalance.String())
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:            uuid.NewString(),
		CompanyID:            companyID,
		Name:                 req.Name,
		AccountType:          req.AccountType,
		Balance:              req.InitialBalance,
		AllowNegativeBalance: allowNegative,
		IsActive:             true,
		Version:              1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID),
			slog.String("company_id", companyID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("company_id", companyID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, companyID string, accountID string, requestingUserID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID",
				slog.String("account_id", accountID))
		}
		return nil, err
	}

	if account.CompanyID != companyID {
		s.LogDebug(ctx, "Account found but belongs to different company",
			slog.String("account_id", accountID),
			slog.String("account_company", account.CompanyID),
			slog.String("requested_company", companyID))
		// Obscure existence across tenants
		return nil, apperrors.ErrNotFound
	}

	return account, nil
}

func (s *accountService) GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string, requestingUserID string) (map[string]domain.Account, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to find accounts by IDs",
			slog.String("account_ids", fmt.Sprintf("%v", accountIDs)))
		return nil, err
	}

	for _, account := range accounts {
		if account.CompanyID != companyID {
			s.LogDebug(ctx, "Account found but belongs to different company",
				slog.String("account_id", account.AccountID),
				slog.String("account_company", account.CompanyID),
				slog.String("requested_company", companyID))
			return nil, apperrors.ErrNotFound
		}
	}

	return accounts, nil
}

func (s *accountService) ListAccounts(ctx context.Context, companyID string, requestingUserID string, limit int, offset int) ([]domain.Account, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, companyID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts",
			slog.String("company_id", companyID),
			slog.Int("limit", limit),
			slog.Int("offset", offset))
		return nil, fmt.Errorf("failed to list accounts for company %s: %w", companyID, err)
	}

	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, companyID, accountID, userID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		// Description currently only affects the audit trail entry.
		updated = true
	}
	if !updated {
		s.LogDebug(ctx, "No fields provided for account update",
			slog.String("account_id", accountID))
		return account, nil
	}

	now := time.Now().UTC()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccountDetails(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account",
			slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully",
		slog.String("account_id", account.AccountID),
		slog.String("company_id", account.CompanyID))
	return account, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, companyID string, accountID string, userID string) error {
	// Accounts with history are never hard-deleted; deactivation keeps the
	// ledger replayable.
	if _, err := s.GetAccountByID(ctx, companyID, accountID, userID); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account",
			slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deactivated successfully",
		slog.String("account_id", accountID),
		slog.String("company_id", companyID))
	return nil
}

// AdjustBalance moves the account to the requested target balance by posting
// a synthetic INCOME or EXPENSE through the transaction engine. The engine's
// conditioned write path handles concurrent activity; if the balance moves
// between the read here and the engine's own fresh read, the resulting
// balance still lands exactly one delta away from what the engine saw.
func (s *accountService) AdjustBalance(ctx context.Context, companyID string, accountID string, req dto.AdjustBalanceRequest, userID string) (*domain.Transaction, error) {
	if s.txnCreator == nil {
		return nil, fmt.Errorf("%w: balance adjustment requires the transaction engine", apperrors.ErrInternal)
	}

	account, err := s.GetAccountByID(ctx, companyID, accountID, userID)
	if err != nil {
		return nil, err
	}

	delta := req.TargetBalance.Sub(account.Balance)
	if delta.IsZero() {
		return nil, fmt.Errorf("%w: balance is already %s", apperrors.ErrValidation, req.TargetBalance.String())
	}

	txnReq := dto.CreateTransactionRequest{
		Description:     fmt.Sprintf("Balance adjustment: %s", req.Reason),
		TransactionDate: time.Now().UTC(),
	}
	if delta.IsPositive() {
		txnReq.TransactionType = domain.Income
		txnReq.Amount = delta
		txnReq.ToAccountID = &accountID
	} else {
		txnReq.TransactionType = domain.Expense
		txnReq.Amount = delta.Neg()
		txnReq.FromAccountID = &accountID
	}

	txn, err := s.txnCreator.CreateTransaction(ctx, companyID, txnReq, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to post balance adjustment",
			slog.String("account_id", accountID),
			slog.String("target_balance", req.TargetBalance.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Balance adjusted",
		slog.String("account_id", accountID),
		slog.String("transaction_id", txn.TransactionID),
		slog.String("delta", delta.String()))
	return txn, nil
}
