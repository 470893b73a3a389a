package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates the economic direction of a transaction.
type TransactionType string

const (
	Income   TransactionType = "INCOME"
	Expense  TransactionType = "EXPENSE"
	Transfer TransactionType = "TRANSFER"
)

// TransactionStatus indicates the state of a transaction.
type TransactionStatus string

const (
	Pending   TransactionStatus = "PENDING"
	Completed TransactionStatus = "COMPLETED"
	Canceled  TransactionStatus = "CANCELED"
)

// Transaction represents a single money movement against one or two accounts.
// Once COMPLETED it is an append-only audit fact; corrections post a further
// compensating transaction instead of mutating the record.
type Transaction struct {
	TransactionID   string            `json:"transactionID"` // Primary Key (e.g., UUID)
	CompanyID       string            `json:"companyID"`     // FK -> companies.company_id (Not Null)
	TransactionType TransactionType   `json:"transactionType"`
	Amount          decimal.Decimal   `json:"amount"` // Positive value; precise decimal type
	Status          TransactionStatus `json:"status"`
	FromAccountID   *string           `json:"fromAccountID"` // Required for EXPENSE and TRANSFER
	ToAccountID     *string           `json:"toAccountID"`   // Required for INCOME and TRANSFER
	Description     string            `json:"description"`
	CategoryID      *string           `json:"categoryID"` // Opaque reference, categorization is external
	TransactionDate time.Time         `json:"transactionDate"`
	AuditFields
}

// AccountIDs returns the IDs of every account the transaction touches,
// debited account first.
func (t Transaction) AccountIDs() []string {
	ids := make([]string, 0, 2)
	if t.FromAccountID != nil {
		ids = append(ids, *t.FromAccountID)
	}
	if t.ToAccountID != nil {
		ids = append(ids, *t.ToAccountID)
	}
	return ids
}

// BalanceDeltas returns the signed balance change the transaction applies to
// each account it touches. TRANSFER nets to zero across the pair.
func (t Transaction) BalanceDeltas() map[string]decimal.Decimal {
	deltas := make(map[string]decimal.Decimal, 2)
	if t.FromAccountID != nil {
		deltas[*t.FromAccountID] = deltas[*t.FromAccountID].Sub(t.Amount)
	}
	if t.ToAccountID != nil {
		deltas[*t.ToAccountID] = deltas[*t.ToAccountID].Add(t.Amount)
	}
	return deltas
}
