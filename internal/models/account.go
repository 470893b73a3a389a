package models

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the kind of financial account.
type AccountType string

const (
	Checking   AccountType = "CHECKING"
	Savings    AccountType = "SAVINGS"
	CreditCard AccountType = "CREDIT_CARD"
	Investment AccountType = "INVESTMENT"
	Cash       AccountType = "CASH"
)

// Account represents a financial account row.
// The version column is the optimistic-concurrency token: every balance
// write is conditioned on it and increments it.
type Account struct {
	AccountID            string          `db:"account_id"`
	CompanyID            string          `db:"company_id"`
	Name                 string          `db:"name"`
	AccountType          AccountType     `db:"account_type"`
	Balance              decimal.Decimal `db:"balance"`
	AllowNegativeBalance bool            `db:"allow_negative_balance"`
	IsActive             bool            `db:"is_active"`
	Version              int64           `db:"version"`
	AuditFields                          // Embed common audit fields
}
