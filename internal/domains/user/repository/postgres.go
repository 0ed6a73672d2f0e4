package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	user "vasilestie-backend/internal/domains/user"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) user.Repository {
	return &postgresRepository{pool: pool}
}

const userColumns = `id, email, password_hash, full_name, phone, role, status,
	email_verified_at, last_login_at, created_at, updated_at`

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone,
		&u.Role, &u.Status, &u.EmailVerifiedAt, &u.LastLoginAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ========================================
// ACCOUNTS
// ========================================

const insertUserQuery = `
	INSERT INTO users (id, email, password_hash, full_name, phone, role, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func (r *postgresRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.pool.Exec(ctx, insertUserQuery,
		u.ID, u.Email, u.PasswordHash, u.FullName, u.Phone,
		u.Role, u.Status, u.CreatedAt, u.UpdatedAt,
	)
	return translateUserError(err)
}

func (r *postgresRepository) CreateTx(ctx context.Context, tx pgx.Tx, u *user.User) error {
	_, err := tx.Exec(ctx, insertUserQuery,
		u.ID, u.Email, u.PasswordHash, u.FullName, u.Phone,
		u.Role, u.Status, u.CreatedAt, u.UpdatedAt,
	)
	return translateUserError(err)
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *postgresRepository) List(ctx context.Context, filter *user.ListUsersRequest) ([]user.User, int64, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s FROM users WHERE 1=1`, userColumns))

	var countBuilder strings.Builder
	countBuilder.WriteString(`SELECT COUNT(*) FROM users WHERE 1=1`)

	args := []interface{}{}
	argPos := 1

	if filter.Role != "" {
		clause := fmt.Sprintf(" AND role = $%d", argPos)
		queryBuilder.WriteString(clause)
		countBuilder.WriteString(clause)
		args = append(args, filter.Role)
		argPos++
	}

	if filter.Status != "" {
		clause := fmt.Sprintf(" AND status = $%d", argPos)
		queryBuilder.WriteString(clause)
		countBuilder.WriteString(clause)
		args = append(args, filter.Status)
		argPos++
	}

	if filter.Search != "" {
		clause := fmt.Sprintf(" AND (email ILIKE $%d OR full_name ILIKE $%d)", argPos, argPos)
		queryBuilder.WriteString(clause)
		countBuilder.WriteString(clause)
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countBuilder.String(), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1))
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}

	return users, total, nil
}

func (r *postgresRepository) ListByRoles(ctx context.Context, roles []string) ([]user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE role = ANY($1) ORDER BY created_at ASC`, userColumns)

	rows, err := r.pool.Query(ctx, query, roles)
	if err != nil {
		return nil, fmt.Errorf("list users by roles: %w", err)
	}
	defer rows.Close()

	users := []user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

func (r *postgresRepository) UpdateTx(ctx context.Context, tx pgx.Tx, u *user.User) error {
	tag, err := tx.Exec(ctx, `
		UPDATE users
		SET full_name = $2, role = $3, status = $4, updated_at = NOW()
		WHERE id = $1`,
		u.ID, u.FullName, u.Role, u.Status,
	)
	if err != nil {
		return translateUserError(err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status user.Status) error {
	tag, err := tx.Exec(ctx, `
		UPDATE users SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update user status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) DeleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// ========================================
// SESSIONS
// ========================================

func (r *postgresRepository) CreateSession(ctx context.Context, session *user.Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (id, user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		session.ID, session.UserID, session.TokenHash, session.ExpiresAt, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetSessionByTokenHash(ctx context.Context, tokenHash string) (*user.Session, error) {
	var s user.Session
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, token_hash, expires_at, created_at
		FROM sessions
		WHERE token_hash = $1 AND expires_at > NOW()`,
		tokenHash,
	).Scan(&s.ID, &s.UserID, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

func (r *postgresRepository) DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *postgresRepository) DeleteSessionsByUserTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	_, err := tx.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}

func (r *postgresRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// translateUserError maps unique constraint violations on users.email to
// the domain sentinel.
func translateUserError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return user.ErrEmailAlreadyExists
	}

	return fmt.Errorf("user write: %w", err)
}
