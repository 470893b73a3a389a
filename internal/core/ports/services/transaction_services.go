package services

import (
	"context"

	"github.com/SscSPs/biz_admin_app/internal/core/domain"
	"github.com/SscSPs/biz_admin_app/internal/dto"
)

// TransactionSvcFacade is the public entry point of the transaction engine.
type TransactionSvcFacade interface {
	// CreateTransaction validates and applies a transaction atomically,
	// returning the COMPLETED record or one of the closed set of typed
	// errors (apperrors.ErrInvalidAmount, ErrAccountNotFound,
	// ErrAccountInactive, ErrCrossCompanyAccount, ErrInsufficientFunds,
	// ErrConcurrencyConflict).
	CreateTransaction(ctx context.Context, companyID string, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error)

	// GetTransactionByID retrieves a single transaction scoped to the company.
	GetTransactionByID(ctx context.Context, companyID string, transactionID string, requestingUserID string) (*domain.Transaction, error)

	// ListTransactionsByAccount retrieves a token-paginated list of the
	// transactions touching an account, newest first.
	ListTransactionsByAccount(ctx context.Context, companyID string, accountID string, requestingUserID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// ListTransactionsByCompany retrieves a token-paginated list of the
	// company's transactions, newest first.
	ListTransactionsByCompany(ctx context.Context, companyID string, requestingUserID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}
