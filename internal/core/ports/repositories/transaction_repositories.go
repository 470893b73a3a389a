package repositories

import (
	"context"

	"github.com/SscSPs/biz_admin_app/internal/core/domain"
)

// TransactionReader defines read operations for ledger data. Writes go
// exclusively through TxStore so a ledger row can never exist without its
// balance mutation.
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByAccountID retrieves a paginated list of transactions touching
	// a specific account using token-based pagination, newest first.
	// It returns the transactions, a token for the next page, and an error.
	ListTransactionsByAccountID(ctx context.Context, companyID, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// ListTransactionsByCompany retrieves a paginated list of a company's
	// transactions using token-based pagination, newest first.
	ListTransactionsByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionRepositoryFacade combines all ledger-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
}
