package user

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"vasilestie-backend/internal/rbac"
)

// ========================================
// AUTH DTOs
// ========================================

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone,omitempty"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("invalid email format"),
			validation.Length(5, 255),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be 8-128 characters"),
		),
		validation.Field(&r.FullName,
			validation.Required.Error("full name is required"),
			validation.Length(2, 100),
		),
		validation.Field(&r.Phone,
			validation.When(r.Phone != "",
				validation.Length(7, 20),
			),
		),
	)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		// Format check only. is.Email resolves the domain via DNS, which
		// would reject logins for already-registered accounts whenever a
		// lookup fails.
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginResponse carries both tokens out of the service. The handler moves
// RefreshToken into an httpOnly cookie and blanks the field before writing
// the response body.
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         UserDTO   `json:"user"`
}

// ========================================
// TEAM MANAGEMENT DTOs
// ========================================

type CreateTeamMemberRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

func (r CreateTeamMemberRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(8, 128).Error("password must be 8-128 characters"),
		),
		validation.Field(&r.FullName, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Role,
			validation.Required,
			validation.By(validateStaffRole),
		),
	)
}

type UpdateTeamMemberRequest struct {
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role,omitempty"`
	Status   string `json:"status,omitempty"`
}

func (r UpdateTeamMemberRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName,
			validation.When(r.FullName != "", validation.Length(2, 100)),
		),
		validation.Field(&r.Role,
			validation.When(r.Role != "", validation.By(validateStaffRole)),
		),
		validation.Field(&r.Status,
			validation.When(r.Status != "", validation.By(validateStatus)),
		),
	)
}

func validateStaffRole(value interface{}) error {
	role, _ := value.(string)
	if !rbac.IsStaff(rbac.Role(role)) {
		return ErrInvalidRole
	}
	return nil
}

func validateStatus(value interface{}) error {
	status, _ := value.(string)
	if !Status(status).IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// ========================================
// USER ADMINISTRATION DTOs
// ========================================

type UpdateUserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (r UpdateUserStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.By(validateStatus)),
	)
}

type ListUsersRequest struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Role   string `form:"role"`
	Status string `form:"status"`
	Search string `form:"search"`
}

func (r *ListUsersRequest) SetDefaults() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = 10
	}
	if r.Limit > 100 {
		r.Limit = 100
	}
}

func (r ListUsersRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status,
			validation.When(r.Status != "", validation.By(validateStatus)),
		),
	)
}

// ========================================
// RESPONSE DTOs
// ========================================

type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Phone       *string    `json:"phone,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
