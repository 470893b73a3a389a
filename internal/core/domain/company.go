package domain

// UserCompanyRole defines the role a user holds within a company.
type UserCompanyRole string

const (
	RoleAdmin    UserCompanyRole = "ADMIN"
	RoleMember   UserCompanyRole = "MEMBER"
	RoleReadOnly UserCompanyRole = "READ_ONLY"
)

// Company is the tenant boundary: it owns a set of accounts, and every
// validation and aggregate invariant is scoped to one company.
type Company struct {
	CompanyID   string `json:"companyID"` // Primary Key (e.g., UUID)
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
	AuditFields
}

// UserCompany links a user to a company with a role.
type UserCompany struct {
	UserID    string          `json:"userID"`
	CompanyID string          `json:"companyID"`
	Role      UserCompanyRole `json:"role"`
	AuditFields
}
