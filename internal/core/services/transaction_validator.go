package services

import (
	"fmt"

	"github.com/SscSPs/biz_admin_app/internal/apperrors"
	"github.com/SscSPs/biz_admin_app/internal/core/domain"
	"github.com/SscSPs/biz_admin_app/internal/dto"
	"github.com/shopspring/decimal"
)

// validateRequestShape rejects malformed requests before any store access:
// non-positive amounts and account references that do not match the
// transaction type.
func validateRequestShape(req dto.CreateTransactionRequest) error {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: got %s", apperrors.ErrInvalidAmount, req.Amount.String())
	}

	switch req.TransactionType {
	case domain.Income:
		if req.ToAccountID == nil || *req.ToAccountID == "" {
			return fmt.Errorf("%w: toAccountID is required for INCOME", apperrors.ErrValidation)
		}
	case domain.Expense:
		if req.FromAccountID == nil || *req.FromAccountID == "" {
			return fmt.Errorf("%w: fromAccountID is required for EXPENSE", apperrors.ErrValidation)
		}
	case domain.Transfer:
		if req.FromAccountID == nil || *req.FromAccountID == "" || req.ToAccountID == nil || *req.ToAccountID == "" {
			return fmt.Errorf("%w: fromAccountID and toAccountID are required for TRANSFER", apperrors.ErrValidation)
		}
		if *req.FromAccountID == *req.ToAccountID {
			return fmt.Errorf("%w: cannot transfer from an account to itself", apperrors.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, req.TransactionType)
	}
	return nil
}

// validateTransaction checks a proposed transaction against the business
// rules, given the current state of every account it touches. It is pure:
// no side effects, no store access. Because balances move between the
// initial read and the write, the mutator re-runs this against freshly read
// accounts inside every atomic unit.
//
// The rejection set is closed: ErrInvalidAmount, ErrAccountNotFound,
// ErrAccountInactive, ErrCrossCompanyAccount, ErrInsufficientFunds.
func validateTransaction(companyID string, txn domain.Transaction, accounts map[string]domain.Account) error {
	if txn.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: got %s", apperrors.ErrInvalidAmount, txn.Amount.String())
	}

	for _, accID := range txn.AccountIDs() {
		acc, found := accounts[accID]
		if !found {
			return fmt.Errorf("%w: ID %s", apperrors.ErrAccountNotFound, accID)
		}
		if acc.CompanyID != companyID {
			return fmt.Errorf("%w: account %s", apperrors.ErrCrossCompanyAccount, accID)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: account %s", apperrors.ErrAccountInactive, accID)
		}
	}

	if txn.FromAccountID != nil {
		from := accounts[*txn.FromAccountID]
		if !from.CanBeDebited(txn.Amount) {
			return fmt.Errorf("%w: account %s has %s, needs %s",
				apperrors.ErrInsufficientFunds, from.AccountID, from.Balance.String(), txn.Amount.String())
		}
	}

	return nil
}
