package services

import (
	"context"

	"github.com/SscSPs/biz_admin_app/internal/core/domain"
)

// CompanyAuthorizerSvc checks whether a user may act within a company.
type CompanyAuthorizerSvc interface {
	// AuthorizeUserAction returns nil when userID holds at least
	// requiredRole in companyID, apperrors.ErrForbidden or ErrNotFound otherwise.
	AuthorizeUserAction(ctx context.Context, userID string, companyID string, requiredRole domain.UserCompanyRole) error
}

// CompanySvcFacade defines tenant management operations.
type CompanySvcFacade interface {
	CompanyAuthorizerSvc

	// CreateCompany creates a company; the creator becomes its admin.
	CreateCompany(ctx context.Context, name, description, creatorUserID string) (*domain.Company, error)

	// FindCompanyByID retrieves a company.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// AddUserToCompany grants targetUserID a role, performed by addingUserID (admin).
	AddUserToCompany(ctx context.Context, addingUserID, targetUserID, companyID string, role domain.UserCompanyRole) error
}
