package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vasilestie-backend/internal/domains/newsletter"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) newsletter.Repository {
	return &postgresRepository{pool: pool}
}

const subscriptionColumns = `id, email, subscribed, unsubscribe_token, created_at, unsubscribed_at`

func scanSubscription(row pgx.Row) (*newsletter.Subscription, error) {
	var s newsletter.Subscription
	err := row.Scan(
		&s.ID, &s.Email, &s.Subscribed, &s.UnsubscribeToken,
		&s.CreatedAt, &s.UnsubscribedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*newsletter.Subscription, error) {
	query := fmt.Sprintf(`SELECT %s FROM newsletter_subscriptions WHERE email = $1`, subscriptionColumns)

	s, err := scanSubscription(r.pool.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, pgx.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription by email: %w", err)
	}
	return s, nil
}

func (r *postgresRepository) Create(ctx context.Context, sub *newsletter.Subscription) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO newsletter_subscriptions (id, email, subscribed, unsubscribe_token, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		sub.ID, sub.Email, sub.Subscribed, sub.UnsubscribeToken, sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

// Resubscribe reactivates a previously unsubscribed row with a fresh token.
func (r *postgresRepository) Resubscribe(ctx context.Context, sub *newsletter.Subscription) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE newsletter_subscriptions
		SET subscribed = true, unsubscribe_token = $2, unsubscribed_at = NULL
		WHERE id = $1`,
		sub.ID, sub.UnsubscribeToken,
	)
	if err != nil {
		return fmt.Errorf("resubscribe: %w", err)
	}
	return nil
}

// UnsubscribeByToken is a single conditional update so a double-submitted
// token is a clean no-op race, not a partial write.
func (r *postgresRepository) UnsubscribeByToken(ctx context.Context, token string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE newsletter_subscriptions
		SET subscribed = false, unsubscribed_at = NOW()
		WHERE unsubscribe_token = $1 AND subscribed = true`,
		token,
	)
	if err != nil {
		return false, fmt.Errorf("unsubscribe by token: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) List(ctx context.Context, filter *newsletter.ListFilter) ([]newsletter.Subscription, int64, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s FROM newsletter_subscriptions WHERE 1=1`, subscriptionColumns))

	var countBuilder strings.Builder
	countBuilder.WriteString(`SELECT COUNT(*) FROM newsletter_subscriptions WHERE 1=1`)

	args := []interface{}{}
	argPos := 1

	if filter.Subscribed != nil {
		clause := fmt.Sprintf(" AND subscribed = $%d", argPos)
		queryBuilder.WriteString(clause)
		countBuilder.WriteString(clause)
		args = append(args, *filter.Subscribed)
		argPos++
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countBuilder.String(), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count subscriptions: %w", err)
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1))
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	subs := []newsletter.Subscription{}
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate subscriptions: %w", err)
	}

	return subs, total, nil
}
