package craftsman

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository is the data access contract for craftsman profiles.
type Repository interface {
	Create(ctx context.Context, c *Craftsman) error
	GetByID(ctx context.Context, id uuid.UUID) (*Craftsman, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Craftsman, error)
	List(ctx context.Context, filter *ListRequest) ([]Craftsman, int64, error)
	Update(ctx context.Context, c *Craftsman) error

	// ApproveTx and RejectTx run inside the caller's transaction together
	// with the audit append.
	ApproveTx(ctx context.Context, tx pgx.Tx, c *Craftsman) error
	RejectTx(ctx context.Context, tx pgx.Tx, c *Craftsman) error

	// ExpireOverdue persists lazy expiry: flips every ACTIVE row whose end
	// date has passed to EXPIRED. Returns the number of rows flipped.
	ExpireOverdue(ctx context.Context) (int64, error)
}
