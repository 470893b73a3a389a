package services

import (
	portsrepo "github.com/SscSPs/biz_admin_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/biz_admin_app/internal/core/ports/services"
	"github.com/SscSPs/biz_admin_app/pkg/config"
)

// NewServiceContainer wires the services together. The company service is
// built first because it authorizes every other service; the transaction
// engine is built before the account service because balance adjustments
// post through it.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	companySvc := NewCompanyService(repos.CompanyRepo)

	txnOptions := []TransactionServiceOption{
		WithCompanyAuthorizer(companySvc),
	}
	if cfg != nil {
		txnOptions = append(txnOptions,
			WithMaxAttempts(cfg.TxnMaxAttempts),
			WithRetryBackoff(cfg.TxnRetryBackoff),
		)
	}
	transactionSvc := NewTransactionService(repos.UnitOfWork, repos.TransactionRepo, txnOptions...)

	accountSvc := NewAccountService(repos.AccountRepo,
		WithAccountCompanyAuthorizer(companySvc),
		WithTransactionCreator(transactionSvc),
	)

	return &portssvc.ServiceContainer{
		Account:     accountSvc,
		Transaction: transactionSvc,
		Company:     companySvc,
	}
}
