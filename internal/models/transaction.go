package models

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

// Transaction represents a ledger row. COMPLETED rows are append-only.
type Transaction struct {
	TransactionID   string            `db:"transaction_id"`
	CompanyID       string            `db:"company_id"`
	TransactionType TransactionType   `db:"transaction_type"`
	Amount          decimal.Decimal   `db:"amount"`
	Status          TransactionStatus `db:"status"`
	FromAccountID   *string           `db:"from_account_id"` // Nullable
	ToAccountID     *string           `db:"to_account_id"`   // Nullable
	Description     string            `db:"description"`
	CategoryID      *string           `db:"category_id"` // Nullable
	TransactionDate time.Time         `db:"transaction_date"`
	AuditFields
}
