package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository is the data access contract for accounts and sessions.
// Tx variants run inside a caller-managed transaction so mutations can
// commit atomically with their audit entry.
type Repository interface {
	// Accounts
	Create(ctx context.Context, u *User) error
	CreateTx(ctx context.Context, tx pgx.Tx, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter *ListUsersRequest) ([]User, int64, error)
	ListByRoles(ctx context.Context, roles []string) ([]User, error)
	UpdateTx(ctx context.Context, tx pgx.Tx, u *User) error
	UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status Status) error
	DeleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error

	// Sessions
	CreateSession(ctx context.Context, session *Session) error
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
	DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error
	DeleteSessionsByUserTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}
