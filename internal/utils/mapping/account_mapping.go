package mapping

import (
	"github.com/SscSPs/biz_admin_app/internal/core/domain"
	"github.com/SscSPs/biz_admin_app/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:            d.AccountID,
		CompanyID:            d.CompanyID,
		Name:                 d.Name,
		AccountType:          models.AccountType(d.AccountType),
		Balance:              d.Balance,
		AllowNegativeBalance: d.AllowNegativeBalance,
		IsActive:             d.IsActive,
		Version:              d.Version,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:            m.AccountID,
		CompanyID:            m.CompanyID,
		Name:                 m.Name,
		AccountType:          domain.AccountType(m.AccountType),
		Balance:              m.Balance,
		AllowNegativeBalance: m.AllowNegativeBalance,
		IsActive:             m.IsActive,
		Version:              m.Version,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
