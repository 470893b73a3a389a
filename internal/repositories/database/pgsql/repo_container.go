package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/SscSPs/biz_admin_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every PostgreSQL-backed repository to the pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		CompanyRepo:     newPgxCompanyRepository(dbPool),
		UnitOfWork:      newPgxUnitOfWork(dbPool),
	}
}
