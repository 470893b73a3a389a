// Package memory provides an in-process implementation of the repository
// ports. It exists for tests that exercise the transaction engine under real
// goroutine concurrency without a database; its unit of work verifies version
// tokens at commit time so lost races surface exactly as they do in pgsql.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/biz_admin_app/internal/apperrors"
	"github.com/SscSPs/biz_admin_app/internal/core/domain"
	portsrepo "github.com/SscSPs/biz_admin_app/internal/core/ports/repositories"
	"github.com/SscSPs/biz_admin_app/internal/utils/pagination"
)

// Store holds all state behind one mutex. Reads copy values out so callers
// never share memory with the store.
type Store struct {
	mu           sync.Mutex
	accounts     map[string]domain.Account
	transactions map[string]domain.Transaction
	companies    map[string]domain.Company
	memberships  map[string]domain.UserCompany // keyed userID|companyID
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]domain.Account),
		transactions: make(map[string]domain.Transaction),
		companies:    make(map[string]domain.Company),
		memberships:  make(map[string]domain.UserCompany),
	}
}

// RepositoryProvider exposes the store through the same provider shape the
// pgsql container produces.
func (s *Store) RepositoryProvider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     s,
		TransactionRepo: s,
		CompanyRepo:     s,
		UnitOfWork:      s,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade     = (*Store)(nil)
	_ portsrepo.TransactionRepositoryFacade = (*Store)(nil)
	_ portsrepo.CompanyRepositoryFacade     = (*Store)(nil)
	_ portsrepo.UnitOfWork                  = (*Store)(nil)
)

func membershipKey(userID, companyID string) string {
	return userID + "|" + companyID
}

// --- AccountRepositoryFacade ---

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[account.AccountID]; exists {
		return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
	}
	s.accounts[account.AccountID] = account
	return nil
}

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, found := s.accounts[accountID]
	if !found {
		return nil, apperrors.ErrNotFound
	}
	return &account, nil
}

func (s *Store) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if account, found := s.accounts[id]; found {
			result[id] = account
		}
	}
	return result, nil
}

func (s *Store) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := []domain.Account{}
	for _, account := range s.accounts {
		if account.CompanyID == companyID && account.IsActive {
			accounts = append(accounts, account)
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Name < accounts[j].Name
	})

	if offset >= len(accounts) {
		return []domain.Account{}, nil
	}
	end := offset + limit
	if end > len(accounts) {
		end = len(accounts)
	}
	return accounts[offset:end], nil
}

func (s *Store) UpdateAccountDetails(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, found := s.accounts[account.AccountID]
	if !found {
		return apperrors.ErrNotFound
	}
	existing.Name = account.Name
	existing.LastUpdatedAt = account.LastUpdatedAt
	existing.LastUpdatedBy = account.LastUpdatedBy
	s.accounts[account.AccountID] = existing
	return nil
}

func (s *Store) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, found := s.accounts[accountID]
	if !found || !account.IsActive {
		return apperrors.ErrNotFound
	}
	account.IsActive = false
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID
	s.accounts[accountID] = account
	return nil
}

// --- TransactionRepositoryFacade ---

func (s *Store) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, found := s.transactions[transactionID]
	if !found {
		return nil, apperrors.ErrNotFound
	}
	return &txn, nil
}

func (s *Store) ListTransactionsByAccountID(ctx context.Context, companyID, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	matches := func(txn domain.Transaction) bool {
		if txn.CompanyID != companyID {
			return false
		}
		if txn.FromAccountID != nil && *txn.FromAccountID == accountID {
			return true
		}
		return txn.ToAccountID != nil && *txn.ToAccountID == accountID
	}
	return s.listTransactions(matches, limit, nextToken)
}

func (s *Store) ListTransactionsByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	matches := func(txn domain.Transaction) bool {
		return txn.CompanyID == companyID
	}
	return s.listTransactions(matches, limit, nextToken)
}

func (s *Store) listTransactions(matches func(domain.Transaction) bool, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	s.mu.Lock()
	all := make([]domain.Transaction, 0, len(s.transactions))
	for _, txn := range s.transactions {
		if matches(txn) {
			all = append(all, txn)
		}
	}
	s.mu.Unlock()

	// Newest first, matching the pgsql ordering.
	sort.Slice(all, func(i, j int) bool {
		if !all[i].TransactionDate.Equal(all[j].TransactionDate) {
			return all[i].TransactionDate.After(all[j].TransactionDate)
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if nextToken != nil && *nextToken != "" {
		txnDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		filtered := all[:0]
		for _, txn := range all {
			if txn.TransactionDate.Before(txnDate) ||
				(txn.TransactionDate.Equal(txnDate) && txn.CreatedAt.Before(createdAt)) {
				filtered = append(filtered, txn)
			}
		}
		all = filtered
	}

	var newNextToken *string
	if len(all) > limit {
		all = all[:limit]
		last := all[len(all)-1]
		token := pagination.EncodeToken(last.TransactionDate, last.CreatedAt)
		newNextToken = &token
	}

	return all, newNextToken, nil
}

// --- CompanyRepositoryFacade ---

func (s *Store) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	company, found := s.companies[companyID]
	if !found {
		return nil, apperrors.ErrNotFound
	}
	return &company, nil
}

func (s *Store) FindUserCompanyRole(ctx context.Context, userID string, companyID string) (*domain.UserCompany, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	membership, found := s.memberships[membershipKey(userID, companyID)]
	if !found {
		return nil, apperrors.ErrNotFound
	}
	return &membership, nil
}

func (s *Store) SaveCompany(ctx context.Context, company domain.Company, creatorMembership domain.UserCompany) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.companies[company.CompanyID]; exists {
		return fmt.Errorf("%w: company with ID %s already exists", apperrors.ErrDuplicate, company.CompanyID)
	}
	s.companies[company.CompanyID] = company
	s.memberships[membershipKey(creatorMembership.UserID, creatorMembership.CompanyID)] = creatorMembership
	return nil
}

func (s *Store) AddUserToCompany(ctx context.Context, membership domain.UserCompany) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := membershipKey(membership.UserID, membership.CompanyID)
	if _, exists := s.memberships[key]; exists {
		return fmt.Errorf("%w: user %s already belongs to company %s", apperrors.ErrDuplicate, membership.UserID, membership.CompanyID)
	}
	s.memberships[key] = membership
	return nil
}

// --- UnitOfWork ---

type balanceChange struct {
	accountID       string
	newBalance      decimal.Decimal
	expectedVersion int64
	userID          string
	now             time.Time
}

// memTxStore stages writes for one unit of work. Reads see committed state;
// staged writes become visible only when the unit commits.
type memTxStore struct {
	store   *Store
	changes []balanceChange
	txns    []domain.Transaction
}

var _ portsrepo.TxStore = (*memTxStore)(nil)

func (t *memTxStore) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return t.store.FindAccountsByIDs(ctx, accountIDs)
}

func (t *memTxStore) ApplyBalanceChange(ctx context.Context, accountID string, newBalance decimal.Decimal, expectedVersion int64, userID string, now time.Time) error {
	t.changes = append(t.changes, balanceChange{
		accountID:       accountID,
		newBalance:      newBalance,
		expectedVersion: expectedVersion,
		userID:          userID,
		now:             now,
	})
	return nil
}

func (t *memTxStore) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	t.txns = append(t.txns, txn)
	return nil
}

// WithinTx runs fn with a staging store, then commits under the lock. Every
// staged balance change is verified against the live version token first; if
// any token moved since the read, nothing is applied and the unit fails with
// ErrConcurrencyConflict.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, store portsrepo.TxStore) error) error {
	txStore := &memTxStore{store: s}

	if err := fn(ctx, txStore); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, change := range txStore.changes {
		account, found := s.accounts[change.accountID]
		if !found {
			return fmt.Errorf("%w: ID %s", apperrors.ErrAccountNotFound, change.accountID)
		}
		if account.Version != change.expectedVersion {
			return fmt.Errorf("%w: account %s version %d is stale",
				apperrors.ErrConcurrencyConflict, change.accountID, change.expectedVersion)
		}
	}

	for _, txn := range txStore.txns {
		if _, exists := s.transactions[txn.TransactionID]; exists {
			return fmt.Errorf("%w: transaction with ID %s already exists", apperrors.ErrDuplicate, txn.TransactionID)
		}
	}

	for _, change := range txStore.changes {
		account := s.accounts[change.accountID]
		account.Balance = change.newBalance
		account.Version++
		account.LastUpdatedAt = change.now
		account.LastUpdatedBy = change.userID
		s.accounts[change.accountID] = account
	}

	for _, txn := range txStore.txns {
		s.transactions[txn.TransactionID] = txn
	}

	return nil
}
