package user

import (
	"time"

	"github.com/google/uuid"

	"vasilestie-backend/internal/rbac"
)

// User maps 1:1 to the users table. Covers both marketplace accounts and
// back office staff, distinguished by role.
type User struct {
	ID    uuid.UUID `db:"id" json:"id"`
	Email string    `db:"email" json:"email"`

	PasswordHash string `db:"password_hash" json:"-"`

	FullName string  `db:"full_name" json:"full_name"`
	Phone    *string `db:"phone" json:"phone,omitempty"`

	Role   rbac.Role `db:"role" json:"role"`
	Status Status    `db:"status" json:"status"`

	EmailVerifiedAt *time.Time `db:"email_verified_at" json:"email_verified_at,omitempty"`
	LastLoginAt     *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Status enum for account state.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

// IsValid reports whether the status is one of the three known states.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Session is one refresh token grant. The raw token never touches the
// database, only its SHA-256 hash.
type Session struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	TokenHash string    `db:"token_hash" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ToDTO strips credentials before the entity leaves the service layer.
func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Phone:       u.Phone,
		Role:        string(u.Role),
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
