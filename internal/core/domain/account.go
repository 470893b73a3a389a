package domain

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

// Account represents a financial account within the core domain.
// This is the primary representation used by services.
type Account struct {
	AccountID            string          `json:"accountID"` // Primary Key (e.g., UUID)
	CompanyID            string          `json:"companyID"` // FK -> companies.company_id (NON-NULL, tenant boundary)
	Name                 string          `json:"name"`      // User-defined name
	AccountType          AccountType     `json:"accountType"`
	Balance              decimal.Decimal `json:"balance"`              // Current balance; mutated only by committed transactions
	AllowNegativeBalance bool            `json:"allowNegativeBalance"` // Always true for CREDIT_CARD accounts
	IsActive             bool            `json:"isActive"`             // Soft delete or status flag
	Version              int64           `json:"-"`                    // Concurrency token; incremented on every balance write
	AuditFields                          // Embed CreatedAt, CreatedBy, etc.
}

// CanBeDebited reports whether subtracting amount would violate the
// account's negative-balance policy.
func (a Account) CanBeDebited(amount decimal.Decimal) bool {
	if a.AllowNegativeBalance {
		return true
	}
	return a.Balance.Sub(amount).GreaterThanOrEqual(decimal.Zero)
}
