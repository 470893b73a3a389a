package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/biz_admin_app/internal/apperrors"
	"github.com/SscSPs/biz_admin_app/internal/core/domain"
	portsrepo "github.com/SscSPs/biz_admin_app/internal/core/ports/repositories"
	"github.com/SscSPs/biz_admin_app/internal/models"
	"github.com/SscSPs/biz_admin_app/internal/utils/mapping"
)

type PgxCompanyRepository struct {
	BaseRepository
}

// newPgxCompanyRepository creates a new repository for company (tenant) data.
func newPgxCompanyRepository(pool *pgxpool.Pool) portsrepo.CompanyRepositoryFacade {
	return &PgxCompanyRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxCompanyRepository implements portsrepo.CompanyRepositoryFacade
var _ portsrepo.CompanyRepositoryFacade = (*PgxCompanyRepository)(nil)

// FindCompanyByID retrieves a specific company by its unique identifier.
func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `
		SELECT company_id, name, description, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM companies
		WHERE company_id = $1;
	`
	var m models.Company
	err := r.Pool.QueryRow(ctx, query, companyID).Scan(
		&m.CompanyID,
		&m.Name,
		&m.Description,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find company by ID %s: %w", companyID, err)
	}

	domainCompany := mapping.ToDomainCompany(m)
	return &domainCompany, nil
}

// FindUserCompanyRole retrieves the membership row linking a user to a company.
func (r *PgxCompanyRepository) FindUserCompanyRole(ctx context.Context, userID string, companyID string) (*domain.UserCompany, error) {
	query := `
		SELECT user_id, company_id, role, created_at, created_by, last_updated_at, last_updated_by
		FROM user_companies
		WHERE user_id = $1 AND company_id = $2;
	`
	var m models.UserCompany
	err := r.Pool.QueryRow(ctx, query, userID, companyID).Scan(
		&m.UserID,
		&m.CompanyID,
		&m.Role,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find membership for user %s in company %s: %w", userID, companyID, err)
	}

	domainMembership := mapping.ToDomainUserCompany(m)
	return &domainMembership, nil
}

// SaveCompany persists a new company together with its creator's admin
// membership in one transaction.
func (r *PgxCompanyRepository) SaveCompany(ctx context.Context, company domain.Company, creatorMembership domain.UserCompany) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	companyModel := mapping.ToModelCompany(company)
	companyQuery := `
		INSERT INTO companies (company_id, name, description, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, companyQuery,
		companyModel.CompanyID,
		companyModel.Name,
		companyModel.Description,
		companyModel.IsActive,
		companyModel.CreatedAt,
		companyModel.CreatedBy,
		companyModel.LastUpdatedAt,
		companyModel.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: company with ID %s already exists", apperrors.ErrDuplicate, companyModel.CompanyID)
		}
		return fmt.Errorf("failed to save company %s: %w", companyModel.CompanyID, err)
	}

	if err := insertMembership(ctx, tx, creatorMembership); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// AddUserToCompany persists a membership row.
func (r *PgxCompanyRepository) AddUserToCompany(ctx context.Context, membership domain.UserCompany) error {
	return insertMembership(ctx, r.Pool, membership)
}

func insertMembership(ctx context.Context, q querier, membership domain.UserCompany) error {
	m := mapping.ToModelUserCompany(membership)
	query := `
		INSERT INTO user_companies (user_id, company_id, role, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := q.Exec(ctx, query,
		m.UserID,
		m.CompanyID,
		m.Role,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: user %s already belongs to company %s", apperrors.ErrDuplicate, m.UserID, m.CompanyID)
		}
		return fmt.Errorf("failed to add user %s to company %s: %w", m.UserID, m.CompanyID, err)
	}
	return nil
}
