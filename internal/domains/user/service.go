package user

import (
	"context"

	"github.com/google/uuid"

	"vasilestie-backend/internal/rbac"
)

// Actor identifies the authenticated caller for operations whose rules
// depend on who is asking.
type Actor struct {
	ID   uuid.UUID
	Role rbac.Role
}

// Service is the business logic contract.
type Service interface {
	// Authentication
	Register(ctx context.Context, req RegisterRequest) (*UserDTO, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*LoginResponse, error)
	Logout(ctx context.Context, refreshToken string) error

	// Team management (admin tier)
	ListTeam(ctx context.Context) ([]UserDTO, error)
	CreateTeamMember(ctx context.Context, actor Actor, req CreateTeamMemberRequest) (*UserDTO, error)
	UpdateTeamMember(ctx context.Context, actor Actor, targetID uuid.UUID, req UpdateTeamMemberRequest) (*UserDTO, error)
	DeleteTeamMember(ctx context.Context, actor Actor, targetID uuid.UUID) error

	// User administration (back office)
	ListUsers(ctx context.Context, req *ListUsersRequest) ([]UserDTO, int64, error)
	UpdateUserStatus(ctx context.Context, actor Actor, targetID uuid.UUID, status Status) (*UserDTO, error)

	// Background maintenance
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}
