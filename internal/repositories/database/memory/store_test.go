package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/biz_admin_app/internal/apperrors"
	"github.com/SscSPs/biz_admin_app/internal/core/domain"
	portsrepo "github.com/SscSPs/biz_admin_app/internal/core/ports/repositories"
	"github.com/SscSPs/biz_admin_app/internal/repositories/database/memory"
)

func seedAccount(t *testing.T, store *memory.Store, companyID string, balance int64) domain.Account {
	t.Helper()
	now := time.Now().UTC()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   companyID,
		Name:        "Seeded",
		AccountType: domain.Checking,
		Balance:     decimal.NewFromInt(balance),
		Version:     1,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "seed",
			LastUpdatedAt: now,
			LastUpdatedBy: "seed",
		},
	}
	require.NoError(t, store.SaveAccount(context.Background(), account))
	return account
}

func TestWithinTx_CommitAppliesBalanceAndBumpsVersion(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	companyID := uuid.NewString()
	account := seedAccount(t, store, companyID, 1000)
	now := time.Now().UTC()

	err := store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxStore) error {
		if err := tx.ApplyBalanceChange(ctx, account.AccountID, decimal.NewFromInt(750), account.Version, "writer", now); err != nil {
			return err
		}
		from := account.AccountID
		return tx.SaveTransaction(ctx, domain.Transaction{
			TransactionID:   uuid.NewString(),
			CompanyID:       companyID,
			TransactionType: domain.Expense,
			Amount:          decimal.NewFromInt(250),
			Status:          domain.Completed,
			FromAccountID:   &from,
			TransactionDate: now,
			AuditFields:     domain.AuditFields{CreatedAt: now},
		})
	})
	require.NoError(t, err)

	updated, err := store.FindAccountByID(ctx, account.AccountID)
	require.NoError(t, err)
	require.True(t, updated.Balance.Equal(decimal.NewFromInt(750)))
	require.Equal(t, int64(2), updated.Version)
	require.Equal(t, "writer", updated.LastUpdatedBy)
}

func TestWithinTx_StaleVersionRejectsWholeUnit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	companyID := uuid.NewString()
	account := seedAccount(t, store, companyID, 1000)
	now := time.Now().UTC()

	txnID := uuid.NewString()
	err := store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxStore) error {
		// Version 99 never matches the live token.
		if err := tx.ApplyBalanceChange(ctx, account.AccountID, decimal.NewFromInt(500), 99, "writer", now); err != nil {
			return err
		}
		return tx.SaveTransaction(ctx, domain.Transaction{
			TransactionID:   txnID,
			CompanyID:       companyID,
			TransactionType: domain.Expense,
			Amount:          decimal.NewFromInt(500),
			Status:          domain.Completed,
			TransactionDate: now,
		})
	})
	require.ErrorIs(t, err, apperrors.ErrConcurrencyConflict)

	// Nothing from the failed unit is visible.
	unchanged, findErr := store.FindAccountByID(ctx, account.AccountID)
	require.NoError(t, findErr)
	require.True(t, unchanged.Balance.Equal(decimal.NewFromInt(1000)))
	require.Equal(t, int64(1), unchanged.Version)

	_, findErr = store.FindTransactionByID(ctx, txnID)
	require.ErrorIs(t, findErr, apperrors.ErrNotFound)
}

func TestWithinTx_DuplicateTransactionLeavesBalancesUntouched(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	companyID := uuid.NewString()
	account := seedAccount(t, store, companyID, 1000)
	now := time.Now().UTC()

	txnID := uuid.NewString()
	writeOnce := func(expectedVersion int64) error {
		return store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxStore) error {
			if err := tx.ApplyBalanceChange(ctx, account.AccountID, decimal.NewFromInt(900), expectedVersion, "writer", now); err != nil {
				return err
			}
			return tx.SaveTransaction(ctx, domain.Transaction{
				TransactionID:   txnID,
				CompanyID:       companyID,
				TransactionType: domain.Expense,
				Amount:          decimal.NewFromInt(100),
				Status:          domain.Completed,
				TransactionDate: now,
			})
		})
	}

	require.NoError(t, writeOnce(1))

	err := writeOnce(2)
	require.ErrorIs(t, err, apperrors.ErrDuplicate)

	// The duplicate unit must not have re-applied the balance change.
	unchanged, findErr := store.FindAccountByID(ctx, account.AccountID)
	require.NoError(t, findErr)
	require.Equal(t, int64(2), unchanged.Version)
	require.True(t, unchanged.Balance.Equal(decimal.NewFromInt(900)))
}

func TestListTransactions_PaginatesNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	companyID := uuid.NewString()
	account := seedAccount(t, store, companyID, 0)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		to := account.AccountID
		err := store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxStore) error {
			return tx.SaveTransaction(ctx, domain.Transaction{
				TransactionID:   uuid.NewString(),
				CompanyID:       companyID,
				TransactionType: domain.Income,
				Amount:          decimal.NewFromInt(int64(i + 1)),
				Status:          domain.Completed,
				ToAccountID:     &to,
				TransactionDate: base.Add(time.Duration(i) * time.Hour),
				AuditFields:     domain.AuditFields{CreatedAt: base.Add(time.Duration(i) * time.Hour)},
			})
		})
		require.NoError(t, err)
	}

	firstPage, token, err := store.ListTransactionsByAccountID(ctx, companyID, account.AccountID, 2, nil)
	require.NoError(t, err)
	require.Len(t, firstPage, 2)
	require.NotNil(t, token)
	// Newest first: the amount written last comes back first.
	require.True(t, firstPage[0].Amount.Equal(decimal.NewFromInt(5)))

	secondPage, token, err := store.ListTransactionsByAccountID(ctx, companyID, account.AccountID, 2, token)
	require.NoError(t, err)
	require.Len(t, secondPage, 2)
	require.True(t, secondPage[0].Amount.Equal(decimal.NewFromInt(3)))
	require.NotNil(t, token)

	lastPage, token, err := store.ListTransactionsByAccountID(ctx, companyID, account.AccountID, 2, token)
	require.NoError(t, err)
	require.Len(t, lastPage, 1)
	require.True(t, lastPage[0].Amount.Equal(decimal.NewFromInt(1)))
	require.Nil(t, token)
}
