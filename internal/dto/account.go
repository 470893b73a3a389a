package dto

import (
	"time"

	"github.com/SscSPs/biz_admin_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name                 string             `json:"name" binding:"required"`
	AccountType          domain.AccountType `json:"accountType" binding:"required,oneof=CHECKING SAVINGS CREDIT_CARD INVESTMENT CASH"`
	InitialBalance       decimal.Decimal    `json:"initialBalance"`
	AllowNegativeBalance bool               `json:"allowNegativeBalance"` // Forced true for CREDIT_CARD
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID            string             `json:"accountID"`
	CompanyID            string             `json:"companyID"`
	Name                 string             `json:"name"`
	AccountType          domain.AccountType `json:"accountType"`
	Balance              decimal.Decimal    `json:"balance"`
	AllowNegativeBalance bool               `json:"allowNegativeBalance"`
	IsActive             bool               `json:"isActive"`
	CreatedAt            time.Time          `json:"createdAt"`
	CreatedBy            string             `json:"createdBy"`
	LastUpdatedAt        time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy        string             `json:"lastUpdatedBy"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
// Balance is deliberately absent: it moves only through transactions.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// AdjustBalanceRequest sets an account to a target balance. The delta is
// posted as a synthetic transaction so the audit trail stays complete.
type AdjustBalanceRequest struct {
	TargetBalance decimal.Decimal `json:"targetBalance" binding:"required"`
	Reason        string          `json:"reason" binding:"required"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:            acc.AccountID,
		CompanyID:            acc.CompanyID,
		Name:                 acc.Name,
		AccountType:          acc.AccountType,
		Balance:              acc.Balance,
		AllowNegativeBalance: acc.AllowNegativeBalance,
		IsActive:             acc.IsActive,
		CreatedAt:            acc.CreatedAt,
		CreatedBy:            acc.CreatedBy,
		LastUpdatedAt:        acc.LastUpdatedAt,
		LastUpdatedBy:        acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to response DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}
