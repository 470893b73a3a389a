package mapping

import (
	"github.com/SscSPs/biz_admin_app/internal/core/domain"
	"github.com/SscSPs/biz_admin_app/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		CompanyID:       d.CompanyID,
		TransactionType: models.TransactionType(d.TransactionType),
		Amount:          d.Amount,
		Status:          models.TransactionStatus(d.Status),
		FromAccountID:   d.FromAccountID,
		ToAccountID:     d.ToAccountID,
		Description:     d.Description,
		CategoryID:      d.CategoryID,
		TransactionDate: d.TransactionDate,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		CompanyID:       m.CompanyID,
		TransactionType: domain.TransactionType(m.TransactionType),
		Amount:          m.Amount,
		Status:          domain.TransactionStatus(m.Status),
		FromAccountID:   m.FromAccountID,
		ToAccountID:     m.ToAccountID,
		Description:     m.Description,
		CategoryID:      m.CategoryID,
		TransactionDate: m.TransactionDate,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to a slice of domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
