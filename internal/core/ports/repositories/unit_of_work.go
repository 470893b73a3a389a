package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/biz_admin_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TxStore exposes the operations available inside a single atomic unit of
// work: fresh conditioned reads, compare-and-swap balance writes, and the
// ledger append. A balance mutation and its ledger row always travel through
// the same TxStore so one cannot commit without the other.
type TxStore interface {
	// FindAccountsByIDs re-reads the current state (balance and version
	// token) of the given accounts inside the unit of work.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ApplyBalanceChange writes newBalance to the account, conditioned on
	// the version token still matching expectedVersion. A lost race yields
	// apperrors.ErrConcurrencyConflict and poisons the unit of work.
	ApplyBalanceChange(ctx context.Context, accountID string, newBalance decimal.Decimal, expectedVersion int64, userID string, now time.Time) error

	// SaveTransaction appends the ledger record within the unit of work.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
}

// UnitOfWork runs fn inside one atomic unit against the store. fn returning
// an error aborts the whole unit; otherwise it commits. Commit itself may
// report apperrors.ErrConcurrencyConflict for stores that verify version
// tokens at commit time.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, store TxStore) error) error
}
