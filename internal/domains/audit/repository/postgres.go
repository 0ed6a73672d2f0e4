package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vasilestie-backend/internal/domains/audit"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) audit.Repository {
	return &postgresRepository{pool: pool}
}

const insertEntryQuery = `
	INSERT INTO activity_logs (actor_user_id, action, details)
	VALUES ($1, $2, $3)
	RETURNING id, created_at`

func (r *postgresRepository) Record(ctx context.Context, entry *audit.Entry) error {
	details, err := marshalDetails(entry.Details)
	if err != nil {
		return err
	}

	err = r.pool.QueryRow(ctx, insertEntryQuery,
		entry.ActorUserID, entry.Action, details,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}

	return nil
}

// RecordTx writes the entry inside an open transaction so the log row
// commits or rolls back together with the mutation it describes.
func (r *postgresRepository) RecordTx(ctx context.Context, tx pgx.Tx, entry *audit.Entry) error {
	details, err := marshalDetails(entry.Details)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx, insertEntryQuery,
		entry.ActorUserID, entry.Action, details,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}

	return nil
}

func (r *postgresRepository) List(ctx context.Context, filter *audit.ListFilter) ([]audit.Entry, int64, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT l.id, l.actor_user_id, COALESCE(u.email, ''), l.action, l.details, l.created_at
		FROM activity_logs l
		LEFT JOIN users u ON u.id = l.actor_user_id
		WHERE 1=1`)

	var countBuilder strings.Builder
	countBuilder.WriteString(`SELECT COUNT(*) FROM activity_logs l WHERE 1=1`)

	args := []interface{}{}
	argPos := 1

	if filter.Action != "" {
		clause := fmt.Sprintf(" AND l.action = $%d", argPos)
		queryBuilder.WriteString(clause)
		countBuilder.WriteString(clause)
		args = append(args, filter.Action)
		argPos++
	}

	if filter.ActorUserID != nil {
		clause := fmt.Sprintf(" AND l.actor_user_id = $%d", argPos)
		queryBuilder.WriteString(clause)
		countBuilder.WriteString(clause)
		args = append(args, *filter.ActorUserID)
		argPos++
	}

	if filter.From != nil {
		clause := fmt.Sprintf(" AND l.created_at >= $%d", argPos)
		queryBuilder.WriteString(clause)
		countBuilder.WriteString(clause)
		args = append(args, *filter.From)
		argPos++
	}

	if filter.To != nil {
		clause := fmt.Sprintf(" AND l.created_at <= $%d", argPos)
		queryBuilder.WriteString(clause)
		countBuilder.WriteString(clause)
		args = append(args, *filter.To)
		argPos++
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countBuilder.String(), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count activity logs: %w", err)
	}

	// Newest first, stable within the same instant.
	queryBuilder.WriteString(" ORDER BY l.created_at DESC, l.id DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1))
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()

	entries := []audit.Entry{}
	for rows.Next() {
		var entry audit.Entry
		var details []byte
		if err := rows.Scan(
			&entry.ID, &entry.ActorUserID, &entry.ActorEmail,
			&entry.Action, &details, &entry.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan activity log: %w", err)
		}

		if len(details) > 0 {
			if err := json.Unmarshal(details, &entry.Details); err != nil {
				return nil, 0, fmt.Errorf("unmarshal log details: %w", err)
			}
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate activity logs: %w", err)
	}

	return entries, total, nil
}

func marshalDetails(details map[string]interface{}) ([]byte, error) {
	if details == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("marshal log details: %w", err)
	}
	return data, nil
}
