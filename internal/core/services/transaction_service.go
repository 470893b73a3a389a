package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/biz_admin_app/internal/apperrors"
	"github.com/SscSPs/biz_admin_app/internal/core/domain"
	portsrepo "github.com/SscSPs/biz_admin_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/biz_admin_app/internal/core/ports/services"
	"github.com/SscSPs/biz_admin_app/internal/dto"
)

const (
	defaultMaxAttempts  = 5
	defaultRetryBackoff = 10 * time.Millisecond
)

// transactionService is the transaction engine's orchestrator. All
// coordination happens through the store's conditioned writes; the service
// holds no cross-request state, so any number of goroutines may call it
// concurrently.
type transactionService struct {
	BaseService
	uow          portsrepo.UnitOfWork
	txnRepo      portsrepo.TransactionRepositoryFacade
	maxAttempts  int
	retryBackoff time.Duration
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionService)

// WithMaxAttempts sets the retry budget for conditioned-write conflicts.
func WithMaxAttempts(n int) TransactionServiceOption {
	return func(s *transactionService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithRetryBackoff sets the base backoff between conflict retries.
func WithRetryBackoff(d time.Duration) TransactionServiceOption {
	return func(s *transactionService) {
		if d > 0 {
			s.retryBackoff = d
		}
	}
}

// WithCompanyAuthorizer adds the company authorizer dependency
func WithCompanyAuthorizer(authorizer portssvc.CompanyAuthorizerSvc) TransactionServiceOption {
	return func(s *transactionService) {
		s.CompanyAuthorizer = authorizer
	}
}

// NewTransactionService creates the transaction engine entry point.
func NewTransactionService(uow portsrepo.UnitOfWork, txnRepo portsrepo.TransactionRepositoryFacade, options ...TransactionServiceOption) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		uow:          uow,
		txnRepo:      txnRepo,
		maxAttempts:  defaultMaxAttempts,
		retryBackoff: defaultRetryBackoff,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure transactionService implements the TransactionSvcFacade interface
var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// CreateTransaction validates and applies a transaction atomically.
//
// Each attempt runs one atomic unit of work: re-read the involved accounts
// (balance plus version token), re-run the validator against those fresh
// values, write the new balances conditioned on the version tokens, and
// append the COMPLETED ledger record. A lost conditioned write aborts the
// unit and retries with jittered backoff; business-rule rejections abort
// without retry. Exhausting the budget surfaces ErrConcurrencyConflict;
// resubmission is the caller's decision.
func (s *transactionService) CreateTransaction(ctx context.Context, companyID string, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error) {
	if err := validateRequestShape(req); err != nil {
		return nil, err
	}

	if err := s.AuthorizeUser(ctx, creatorUserID, companyID, domain.RoleMember); err != nil {
		s.LogWarn(ctx, "Authorization failed for CreateTransaction",
			slog.String("user_id", creatorUserID),
			slog.String("company_id", companyID))
		return nil, err
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		CompanyID:       companyID,
		TransactionType: req.TransactionType,
		Amount:          req.Amount,
		Status:          domain.Pending,
		FromAccountID:   req.FromAccountID,
		ToAccountID:     req.ToAccountID,
		Description:     req.Description,
		CategoryID:      req.CategoryID,
		TransactionDate: req.TransactionDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := s.sleepBackoff(ctx, attempt); err != nil {
				return nil, err
			}
		}

		err := s.uow.WithinTx(ctx, func(ctx context.Context, store portsrepo.TxStore) error {
			return s.applyTransaction(ctx, store, companyID, &txn, creatorUserID, now)
		})
		if err == nil {
			s.LogInfo(ctx, "Transaction completed",
				slog.String("transaction_id", txn.TransactionID),
				slog.String("company_id", companyID),
				slog.String("type", string(txn.TransactionType)),
				slog.Int("attempt", attempt))
			return &txn, nil
		}
		if errors.Is(err, apperrors.ErrConcurrencyConflict) {
			s.LogDebug(ctx, "Conditioned write lost the race, retrying",
				slog.String("transaction_id", txn.TransactionID),
				slog.Int("attempt", attempt))
			continue
		}
		// Business rejections and infrastructure failures are never retried.
		if !apperrors.IsBusinessRejection(err) {
			s.LogError(ctx, err, "Failed to apply transaction",
				slog.String("transaction_id", txn.TransactionID),
				slog.String("company_id", companyID))
		}
		return nil, err
	}

	s.LogWarn(ctx, "Retry budget exhausted for transaction",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("company_id", companyID),
		slog.Int("attempts", s.maxAttempts))
	return nil, fmt.Errorf("transaction %s not applied after %d attempts: %w",
		txn.TransactionID, s.maxAttempts, apperrors.ErrConcurrencyConflict)
}

// applyTransaction is one attempt inside one atomic unit: fresh read,
// re-validate, conditioned balance writes, ledger append. The unit commits
// all of it or none of it; a half-applied TRANSFER is never observable.
func (s *transactionService) applyTransaction(ctx context.Context, store portsrepo.TxStore, companyID string, txn *domain.Transaction, userID string, now time.Time) error {
	accounts, err := store.FindAccountsByIDs(ctx, txn.AccountIDs())
	if err != nil {
		return err
	}

	if err := validateTransaction(companyID, *txn, accounts); err != nil {
		return err
	}

	deltas := txn.BalanceDeltas()

	// Write in stable account-id order so two writers touching the same
	// pair of accounts cannot deadlock inside the store.
	accountIDs := make([]string, 0, len(deltas))
	for accID := range deltas {
		accountIDs = append(accountIDs, accID)
	}
	sort.Strings(accountIDs)

	for _, accID := range accountIDs {
		acc := accounts[accID]
		newBalance := acc.Balance.Add(deltas[accID])
		if err := store.ApplyBalanceChange(ctx, accID, newBalance, acc.Version, userID, now); err != nil {
			return err
		}
	}

	txn.Status = domain.Completed
	return store.SaveTransaction(ctx, *txn)
}

// sleepBackoff waits before the given (second or later) attempt. The delay
// doubles per attempt, capped at 64x the base, with a uniform jitter so
// colliding writers spread out.
func (s *transactionService) sleepBackoff(ctx context.Context, attempt int) error {
	shift := attempt - 2
	if shift > 6 {
		shift = 6
	}
	backoff := s.retryBackoff << shift
	backoff += time.Duration(rand.Int63n(int64(backoff)))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(backoff):
		return nil
	}
}

// GetTransactionByID retrieves a specific transaction scoped to the company.
func (s *transactionService) GetTransactionByID(ctx context.Context, companyID string, transactionID string, requestingUserID string) (*domain.Transaction, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction by ID",
				slog.String("transaction_id", transactionID))
		}
		return nil, err
	}

	if txn.CompanyID != companyID {
		s.LogDebug(ctx, "Transaction found but belongs to different company",
			slog.String("transaction_id", transactionID),
			slog.String("transaction_company", txn.CompanyID),
			slog.String("requested_company", companyID))
		// Obscure existence across tenants
		return nil, apperrors.ErrNotFound
	}

	return txn, nil
}

// ListTransactionsByAccount retrieves transactions touching a specific account.
func (s *transactionService) ListTransactionsByAccount(ctx context.Context, companyID string, accountID string, requestingUserID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	txns, nextToken, err := s.txnRepo.ListTransactionsByAccountID(ctx, companyID, accountID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions by account",
			slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

// ListTransactionsByCompany retrieves the company's transactions.
func (s *transactionService) ListTransactionsByCompany(ctx context.Context, companyID string, requestingUserID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	txns, nextToken, err := s.txnRepo.ListTransactionsByCompany(ctx, companyID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions by company",
			slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}
