package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/biz_admin_app/internal/apperrors"
	"github.com/SscSPs/biz_admin_app/internal/core/domain"
	portssvc "github.com/SscSPs/biz_admin_app/internal/core/ports/services"
	"github.com/SscSPs/biz_admin_app/internal/core/services"
	"github.com/SscSPs/biz_admin_app/internal/dto"
	"github.com/SscSPs/biz_admin_app/internal/repositories/database/memory"
)

// stressEnv wires real services against the in-memory store so concurrent
// writers genuinely race on version tokens.
type stressEnv struct {
	store     *memory.Store
	container *portssvc.ServiceContainer
	companyID string
	userID    string
}

func newStressEnv(t *testing.T) *stressEnv {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	repos := store.RepositoryProvider()

	companySvc := services.NewCompanyService(repos.CompanyRepo)
	// A generous retry budget: contention should resolve by retrying, not by
	// spurious exhaustion.
	txnSvc := services.NewTransactionService(repos.UnitOfWork, repos.TransactionRepo,
		services.WithCompanyAuthorizer(companySvc),
		services.WithMaxAttempts(200),
		services.WithRetryBackoff(100*time.Microsecond),
	)
	accountSvc := services.NewAccountService(repos.AccountRepo,
		services.WithAccountCompanyAuthorizer(companySvc),
		services.WithTransactionCreator(txnSvc),
	)

	env := &stressEnv{
		store: store,
		container: &portssvc.ServiceContainer{
			Account:     accountSvc,
			Transaction: txnSvc,
			Company:     companySvc,
		},
		userID: uuid.NewString(),
	}

	company, err := companySvc.CreateCompany(ctx, "Stress Test Co", "", env.userID)
	require.NoError(t, err)
	env.companyID = company.CompanyID

	return env
}

func (e *stressEnv) createAccount(t *testing.T, name string, balance int64) *domain.Account {
	t.Helper()
	account, err := e.container.Account.CreateAccount(context.Background(), e.companyID, dto.CreateAccountRequest{
		Name:           name,
		AccountType:    domain.Checking,
		InitialBalance: decimal.NewFromInt(balance),
	}, e.userID)
	require.NoError(t, err)
	return account
}

func (e *stressEnv) accountBalance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	account, err := e.container.Account.GetAccountByID(context.Background(), e.companyID, accountID, e.userID)
	require.NoError(t, err)
	return account.Balance
}

// replayLedger recomputes an account's balance from its initial balance plus
// every completed transaction touching it.
func (e *stressEnv) replayLedger(t *testing.T, accountID string, initial int64) decimal.Decimal {
	t.Helper()
	ctx := context.Background()

	balance := decimal.NewFromInt(initial)
	var nextToken *string
	for {
		resp, err := e.container.Transaction.ListTransactionsByAccount(ctx, e.companyID, accountID, e.userID, dto.ListTransactionsParams{
			Limit:     50,
			NextToken: nextToken,
		})
		require.NoError(t, err)
		for _, txn := range resp.Transactions {
			require.Equal(t, domain.Completed, txn.Status)
			if txn.FromAccountID != nil && *txn.FromAccountID == accountID {
				balance = balance.Sub(txn.Amount)
			}
			if txn.ToAccountID != nil && *txn.ToAccountID == accountID {
				balance = balance.Add(txn.Amount)
			}
		}
		if resp.NextToken == nil {
			break
		}
		nextToken = resp.NextToken
	}
	return balance
}

func TestConcurrentExpenses_AllApplyExactlyOnce(t *testing.T) {
	env := newStressEnv(t)
	account := env.createAccount(t, "Operating", 10000)

	const writers = 50
	var wg sync.WaitGroup
	errs := make([]error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.container.Transaction.CreateTransaction(context.Background(), env.companyID, dto.CreateTransactionRequest{
				Description:     "concurrent expense",
				Amount:          decimal.NewFromInt(100),
				TransactionType: domain.Expense,
				FromAccountID:   &account.AccountID,
				TransactionDate: time.Now().UTC(),
			}, env.userID)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoErrorf(t, err, "writer %d failed", i)
	}

	// 10000 - 50*100, with no lost or double-applied updates.
	finalBalance := env.accountBalance(t, account.AccountID)
	require.True(t, finalBalance.Equal(decimal.NewFromInt(5000)),
		"expected 5000, got %s", finalBalance.String())

	// The ledger replays to the same balance.
	replayed := env.replayLedger(t, account.AccountID, 10000)
	require.True(t, replayed.Equal(finalBalance),
		"replay %s != balance %s", replayed.String(), finalBalance.String())
}

func TestConcurrentTransfers_ConserveMoney(t *testing.T) {
	env := newStressEnv(t)
	accountX := env.createAccount(t, "Account X", 5000)
	accountY := env.createAccount(t, "Account Y", 3000)

	const transfersEachWay = 15
	var wg sync.WaitGroup
	errs := make([]error, transfersEachWay*2)

	transfer := func(i int, from, to string) {
		defer wg.Done()
		_, errs[i] = env.container.Transaction.CreateTransaction(context.Background(), env.companyID, dto.CreateTransactionRequest{
			Description:     "shuffle",
			Amount:          decimal.NewFromInt(50),
			TransactionType: domain.Transfer,
			FromAccountID:   &from,
			ToAccountID:     &to,
			TransactionDate: time.Now().UTC(),
		}, env.userID)
	}

	for i := 0; i < transfersEachWay; i++ {
		wg.Add(2)
		go transfer(i*2, accountX.AccountID, accountY.AccountID)
		go transfer(i*2+1, accountY.AccountID, accountX.AccountID)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoErrorf(t, err, "transfer %d failed", i)
	}

	balanceX := env.accountBalance(t, accountX.AccountID)
	balanceY := env.accountBalance(t, accountY.AccountID)

	// Equal counts in each direction cancel out, and no money is created or
	// destroyed in between.
	require.True(t, balanceX.Equal(decimal.NewFromInt(5000)), "X: %s", balanceX.String())
	require.True(t, balanceY.Equal(decimal.NewFromInt(3000)), "Y: %s", balanceY.String())
	require.True(t, balanceX.Add(balanceY).Equal(decimal.NewFromInt(8000)))

	replayedX := env.replayLedger(t, accountX.AccountID, 5000)
	require.True(t, replayedX.Equal(balanceX))
}

func TestConcurrentOverdraft_OnlyFundedExpensesSucceed(t *testing.T) {
	env := newStressEnv(t)
	account := env.createAccount(t, "Tight Budget", 200)

	const writers = 10
	var wg sync.WaitGroup
	errs := make([]error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.container.Transaction.CreateTransaction(context.Background(), env.companyID, dto.CreateTransactionRequest{
				Description:     "overdraft race",
				Amount:          decimal.NewFromInt(100),
				TransactionType: domain.Expense,
				FromAccountID:   &account.AccountID,
				TransactionDate: time.Now().UTC(),
			}, env.userID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	rejected := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, apperrors.ErrInsufficientFunds):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// 200 funds exactly two 100 expenses; everyone else must see a clean
	// insufficient-funds rejection, never a partial write.
	require.Equal(t, 2, succeeded)
	require.Equal(t, writers-2, rejected)

	finalBalance := env.accountBalance(t, account.AccountID)
	require.True(t, finalBalance.Equal(decimal.Zero), "final: %s", finalBalance.String())
}

func TestAdjustBalance_PostsSyntheticTransaction(t *testing.T) {
	env := newStressEnv(t)
	account := env.createAccount(t, "Drifted", 900)

	txn, err := env.container.Account.AdjustBalance(context.Background(), env.companyID, account.AccountID, dto.AdjustBalanceRequest{
		TargetBalance: decimal.NewFromInt(1250),
		Reason:        "bank statement reconciliation",
	}, env.userID)
	require.NoError(t, err)
	require.Equal(t, domain.Income, txn.TransactionType)
	require.True(t, txn.Amount.Equal(decimal.NewFromInt(350)))

	finalBalance := env.accountBalance(t, account.AccountID)
	require.True(t, finalBalance.Equal(decimal.NewFromInt(1250)))

	// The adjustment is an ordinary ledger row, so replay still matches.
	replayed := env.replayLedger(t, account.AccountID, 900)
	require.True(t, replayed.Equal(finalBalance))
}
