package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/biz_admin_app/internal/apperrors"
	"github.com/SscSPs/biz_admin_app/internal/core/domain"
	portsrepo "github.com/SscSPs/biz_admin_app/internal/core/ports/repositories"
	"github.com/SscSPs/biz_admin_app/internal/utils/mapping"
)

// PgxUnitOfWork runs atomic units against PostgreSQL. Each unit is a single
// database transaction; balance writes inside it are conditioned on the
// account's version token rather than on row locks.
type PgxUnitOfWork struct {
	BaseRepository
}

// newPgxUnitOfWork creates a unit-of-work runner backed by the pool.
func newPgxUnitOfWork(pool *pgxpool.Pool) portsrepo.UnitOfWork {
	return &PgxUnitOfWork{BaseRepository{Pool: pool}}
}

// Ensure PgxUnitOfWork implements portsrepo.UnitOfWork
var _ portsrepo.UnitOfWork = (*PgxUnitOfWork)(nil)

// WithinTx begins a transaction, hands fn a TxStore bound to it, and commits
// if fn succeeds. Any error from fn rolls the whole unit back.
func (u *PgxUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, store portsrepo.TxStore) error) error {
	tx, err := u.Begin(ctx)
	if err != nil {
		return err
	}
	defer u.Rollback(ctx, tx) // no-op once committed

	if err := fn(ctx, &pgxTxStore{tx: tx}); err != nil {
		return err
	}

	return u.Commit(ctx, tx)
}

// pgxTxStore implements TxStore against one open pgx transaction.
type pgxTxStore struct {
	tx pgx.Tx
}

var _ portsrepo.TxStore = (*pgxTxStore)(nil)

func (s *pgxTxStore) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return queryAccountsByIDs(ctx, s.tx, accountIDs)
}

// ApplyBalanceChange writes the new balance conditioned on the version token.
// When the row exists but the token moved, another writer got there first and
// the caller must retry from a fresh read.
func (s *pgxTxStore) ApplyBalanceChange(ctx context.Context, accountID string, newBalance decimal.Decimal, expectedVersion int64, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = $2, version = version + 1, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1 AND version = $5;
	`
	cmdTag, err := s.tx.Exec(ctx, query, accountID, newBalance, now, userID, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to apply balance change to account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s version %d is stale",
			apperrors.ErrConcurrencyConflict, accountID, expectedVersion)
	}
	return nil
}

// SaveTransaction appends the ledger row inside the unit of work.
func (s *pgxTxStore) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)

	query := `
		INSERT INTO transactions (transaction_id, company_id, transaction_type, amount, status, from_account_id, to_account_id, description, category_id, transaction_date, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := s.tx.Exec(ctx, query,
		m.TransactionID,
		m.CompanyID,
		m.TransactionType,
		m.Amount,
		m.Status,
		m.FromAccountID,
		m.ToAccountID,
		m.Description,
		m.CategoryID,
		m.TransactionDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: transaction with ID %s already exists", apperrors.ErrDuplicate, m.TransactionID)
		}
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
	}
	return nil
}
