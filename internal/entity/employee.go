package entity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Employee struct {
	ID         uint64  `json:"id" db:"id"`
	CompanyID  uint64  `json:"company_id" db:"company_id"`
	FirstName  string  `json:"first_name" db:"first_name"`
	LastName   string  `json:"last_name" db:"last_name"`
	MiddleName *string `json:"middle_name" db:"middle_name"`
	Phone      *string `json:"phone" db:"phone"`

	Email    *string `json:"email" db:"email"`
	Password *string `json:"password,omitempty" db:"password"`
	Role     string  `json:"role" db:"role"`
	IsActive bool    `json:"is_active" db:"is_active"`

	DepartmentID       *uint64 `json:"department_id" db:"department_id"`
	ManagerID          *uint64 `json:"manager_id" db:"manager_id"`
	WorkplaceID        *uint64 `json:"workplace_id" db:"workplace_id"`
	WorkplaceSectionID *uint64 `json:"workplace_section_id" db:"workplace_section_id"`
	Position           *string `json:"position" db:"position"`

	HireDate *time.Time `json:"hire_date" db:"hire_date"`
	FireDate *time.Time `json:"fire_date" db:"fire_date"`

	// ApprovalChain is a derived value cached by the hierarchy resolver.
	// nil means "never resolved"; an empty slice means "resolved, no approvers".
	ApprovalChain []ChainEntry `json:"approval_chain" db:"approval_chain"`

	Status    string     `json:"status" db:"status"`
	CreatedAt *time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

type GetEmployeesParams struct {
	CompanyID    *uint64
	Role         *string
	DepartmentID *uint64
	WorkplaceID  *uint64
	Status       *string
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Claims struct {
	jwt.RegisteredClaims

	ID        uint64 `json:"id"`
	CompanyID uint64 `json:"company_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenID   string `json:"token_id"`
}
