package repositories

import (
	"context"

	"github.com/SscSPs/biz_admin_app/internal/core/domain"
)

// CompanyReader defines read operations for company (tenant) data
type CompanyReader interface {
	// FindCompanyByID retrieves a specific company by its unique identifier.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// FindUserCompanyRole retrieves the membership row linking a user to a company.
	FindUserCompanyRole(ctx context.Context, userID string, companyID string) (*domain.UserCompany, error)
}

// CompanyWriter defines write operations for company data
type CompanyWriter interface {
	// SaveCompany persists a new company and its creator's admin membership.
	SaveCompany(ctx context.Context, company domain.Company, creatorMembership domain.UserCompany) error

	// AddUserToCompany persists a membership row.
	AddUserToCompany(ctx context.Context, membership domain.UserCompany) error
}

// CompanyRepositoryFacade combines all company-related repository interfaces
type CompanyRepositoryFacade interface {
	CompanyReader
	CompanyWriter
}
