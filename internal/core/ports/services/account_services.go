package services

import (
	"context"

	"github.com/SscSPs/biz_admin_app/internal/core/domain"
	"github.com/SscSPs/biz_admin_app/internal/dto"
)

// AccountSvcFacade defines the account lifecycle operations.
type AccountSvcFacade interface {
	// CreateAccount creates an account with an initial balance.
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// GetAccountByID retrieves an account scoped to the company.
	GetAccountByID(ctx context.Context, companyID string, accountID string, requestingUserID string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts scoped to the company.
	GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string, requestingUserID string) (map[string]domain.Account, error)

	// ListAccounts retrieves the company's active accounts.
	ListAccounts(ctx context.Context, companyID string, requestingUserID string, limit int, offset int) ([]domain.Account, error)

	// UpdateAccount updates mutable account details (name, description).
	UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeactivateAccount soft-deletes an account. Accounts with transaction
	// history are never hard-deleted.
	DeactivateAccount(ctx context.Context, companyID string, accountID string, userID string) error

	// AdjustBalance moves an account to a target balance by posting a
	// synthetic INCOME or EXPENSE transaction through the engine, so the
	// ledger replay invariant keeps holding.
	AdjustBalance(ctx context.Context, companyID string, accountID string, req dto.AdjustBalanceRequest, userID string) (*domain.Transaction, error)
}

// TransactionCreator is the slice of the transaction engine the account
// service needs for balance adjustments.
type TransactionCreator interface {
	CreateTransaction(ctx context.Context, companyID string, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error)
}
