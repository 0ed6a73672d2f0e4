package audit

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository persists activity log entries.
//
// RecordTx exists so a mutation and its log row commit atomically. When the
// surrounding transaction rolls back, the log row disappears with it.
type Repository interface {
	Record(ctx context.Context, entry *Entry) error
	RecordTx(ctx context.Context, tx pgx.Tx, entry *Entry) error
	List(ctx context.Context, filter *ListFilter) ([]Entry, int64, error)
}
