package dto

import (
	"time"

	"github.com/SscSPs/biz_admin_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to create a transaction.
// Which of fromAccountID/toAccountID are required depends on the type; the
// service enforces that before any store access.
type CreateTransactionRequest struct {
	Description     string                 `json:"description" binding:"required"`
	Amount          decimal.Decimal        `json:"amount" binding:"required"`
	TransactionType domain.TransactionType `json:"transactionType" binding:"required,oneof=INCOME EXPENSE TRANSFER"`
	FromAccountID   *string                `json:"fromAccountID"` // Required for EXPENSE and TRANSFER
	ToAccountID     *string                `json:"toAccountID"`   // Required for INCOME and TRANSFER
	CategoryID      *string                `json:"categoryID"`    // Optional
	TransactionDate time.Time              `json:"transactionDate" binding:"required"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID   string                   `json:"transactionID"`
	CompanyID       string                   `json:"companyID"`
	TransactionType domain.TransactionType   `json:"transactionType"`
	Amount          decimal.Decimal          `json:"amount"`
	Status          domain.TransactionStatus `json:"status"`
	FromAccountID   *string                  `json:"fromAccountID,omitempty"`
	ToAccountID     *string                  `json:"toAccountID,omitempty"`
	Description     string                   `json:"description"`
	CategoryID      *string                  `json:"categoryID,omitempty"`
	TransactionDate time.Time                `json:"transactionDate"`
	CreatedAt       time.Time                `json:"createdAt"`
	CreatedBy       string                   `json:"createdBy"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		CompanyID:       txn.CompanyID,
		TransactionType: txn.TransactionType,
		Amount:          txn.Amount,
		Status:          txn.Status,
		FromAccountID:   txn.FromAccountID,
		ToAccountID:     txn.ToAccountID,
		Description:     txn.Description,
		CategoryID:      txn.CategoryID,
		TransactionDate: txn.TransactionDate,
		CreatedAt:       txn.CreatedAt,
		CreatedBy:       txn.CreatedBy,
	}
}

// ToTransactionResponses converts a slice of domain transactions to DTOs
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
