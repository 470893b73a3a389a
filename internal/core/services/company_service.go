package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/biz_admin_app/internal/apperrors"
	"github.com/SscSPs/biz_admin_app/internal/core/domain"
	portsrepo "github.com/SscSPs/biz_admin_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/biz_admin_app/internal/core/ports/services"
)

// roleRank orders membership roles so "at least this role" checks are a
// simple comparison.
var roleRank = map[domain.UserCompanyRole]int{
	domain.RoleReadOnly: 1,
	domain.RoleMember:   2,
	domain.RoleAdmin:    3,
}

// companyService implements the CompanySvcFacade interface
type companyService struct {
	BaseService
	companyRepo portsrepo.CompanyRepositoryFacade
}

// NewCompanyService creates a new company service
func NewCompanyService(repo portsrepo.CompanyRepositoryFacade) portssvc.CompanySvcFacade {
	return &companyService{
		companyRepo: repo,
	}
}

// Ensure companyService implements the CompanySvcFacade interface
var _ portssvc.CompanySvcFacade = (*companyService)(nil)

// AuthorizeUserAction checks whether userID holds at least requiredRole in
// companyID. A user with no membership gets ErrNotFound rather than
// ErrForbidden so company existence leaks nothing.
func (s *companyService) AuthorizeUserAction(ctx context.Context, userID string, companyID string, requiredRole domain.UserCompanyRole) error {
	membership, err := s.companyRepo.FindUserCompanyRole(ctx, userID, companyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "User has no membership in company",
				slog.String("user_id", userID),
				slog.String("company_id", companyID))
			return apperrors.ErrNotFound
		}
		s.LogError(ctx, err, "Failed to look up company membership",
			slog.String("user_id", userID),
			slog.String("company_id", companyID))
		return err
	}

	if roleRank[membership.Role] < roleRank[requiredRole] {
		s.LogWarn(ctx, "User role insufficient for action",
			slog.String("user_id", userID),
			slog.String("company_id", companyID),
			slog.String("user_role", string(membership.Role)),
			slog.String("required_role", string(requiredRole)))
		return fmt.Errorf("%w: requires %s role", apperrors.ErrForbidden, requiredRole)
	}

	return nil
}

func (s *companyService) CreateCompany(ctx context.Context, name, description, creatorUserID string) (*domain.Company, error) {
	now := time.Now().UTC()
	company := domain.Company{
		CompanyID:   uuid.NewString(),
		Name:        name,
		Description: description,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	// The creator's admin membership is written in the same call so a
	// company can never exist without an administrator.
	membership := domain.UserCompany{
		UserID:    creatorUserID,
		CompanyID: company.CompanyID,
		Role:      domain.RoleAdmin,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.companyRepo.SaveCompany(ctx, company, membership); err != nil {
		s.LogError(ctx, err, "Failed to save company",
			slog.String("company_name", name))
		return nil, err
	}

	s.LogInfo(ctx, "Company created successfully",
		slog.String("company_id", company.CompanyID),
		slog.String("created_by", creatorUserID))
	return &company, nil
}

func (s *companyService) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find company by ID",
				slog.String("company_id", companyID))
		}
		return nil, err
	}
	return company, nil
}

func (s *companyService) AddUserToCompany(ctx context.Context, addingUserID, targetUserID, companyID string, role domain.UserCompanyRole) error {
	if err := s.AuthorizeUserAction(ctx, addingUserID, companyID, domain.RoleAdmin); err != nil {
		return err
	}

	if _, ok := roleRank[role]; !ok {
		return fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, role)
	}

	now := time.Now().UTC()
	membership := domain.UserCompany{
		UserID:    targetUserID,
		CompanyID: companyID,
		Role:      role,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     addingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: addingUserID,
		},
	}

	if err := s.companyRepo.AddUserToCompany(ctx, membership); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogDebug(ctx, "User already belongs to company",
				slog.String("user_id", targetUserID),
				slog.String("company_id", companyID))
		} else {
			s.LogError(ctx, err, "Failed to add user to company",
				slog.String("user_id", targetUserID),
				slog.String("company_id", companyID))
		}
		return err
	}

	s.LogInfo(ctx, "User added to company",
		slog.String("user_id", targetUserID),
		slog.String("company_id", companyID),
		slog.String("role", string(role)))
	return nil
}
