package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"vasilestie-backend/internal/domains/craftsman"
	"vasilestie-backend/pkg/cache"
)

const (
	craftsmanCacheKeyPrefix = "craftsman:id:"
	craftsmanCacheTTL       = 15 * time.Minute

	craftsmanListCacheKeyPrefix = "craftsman:list:"
	craftsmanListCacheTTL       = 5 * time.Minute
)

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, c cache.Cache) craftsman.Repository {
	return &postgresRepository{
		pool:  pool,
		cache: c,
	}
}

const craftsmanColumns = `id, user_id, business_name, slug, description, category,
	county, city, address, phone, experience_years, rating, review_count,
	verified, subscription_status, subscription_plan, subscription_price,
	subscription_start_date, subscription_end_date, created_at, updated_at`

func scanCraftsman(row pgx.Row) (*craftsman.Craftsman, error) {
	var c craftsman.Craftsman
	err := row.Scan(
		&c.ID, &c.UserID, &c.BusinessName, &c.Slug, &c.Description, &c.Category,
		&c.County, &c.City, &c.Address, &c.Phone, &c.ExperienceYears,
		&c.Rating, &c.ReviewCount, &c.Verified,
		&c.SubscriptionStatus, &c.SubscriptionPlan, &c.SubscriptionPrice,
		&c.SubscriptionStartDate, &c.SubscriptionEndDate,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepository) Create(ctx context.Context, c *craftsman.Craftsman) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO craftsmen (
			id, user_id, business_name, slug, description, category,
			county, city, address, phone, experience_years,
			rating, review_count, verified,
			subscription_status, subscription_plan, subscription_price,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		c.ID, c.UserID, c.BusinessName, c.Slug, c.Description, c.Category,
		c.County, c.City, c.Address, c.Phone, c.ExperienceYears,
		c.Rating, c.ReviewCount, c.Verified,
		c.SubscriptionStatus, c.SubscriptionPlan, c.SubscriptionPrice,
		c.CreatedAt, c.UpdatedAt,
	)
	return translateCraftsmanError(err)
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*craftsman.Craftsman, error) {
	cacheKey := craftsmanCacheKeyPrefix + id.String()

	var cached craftsman.Craftsman
	found, err := r.cache.Get(ctx, cacheKey, &cached)
	if err == nil && found {
		return &cached, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM craftsmen WHERE id = $1`, craftsmanColumns)

	c, err := scanCraftsman(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, craftsman.ErrCraftsmanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get craftsman by id: %w", err)
	}

	_ = r.cache.Set(ctx, cacheKey, c, craftsmanCacheTTL)
	return c, nil
}

func (r *postgresRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*craftsman.Craftsman, error) {
	query := fmt.Sprintf(`SELECT %s FROM craftsmen WHERE user_id = $1`, craftsmanColumns)

	c, err := scanCraftsman(r.pool.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, craftsman.ErrCraftsmanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get craftsman by user id: %w", err)
	}
	return c, nil
}

type cachedListing struct {
	Items []craftsman.Craftsman `json:"items"`
	Total int64                 `json:"total"`
}

// listCacheKey returns a cache key for the hot unfiltered first pages of
// the public directory, or "" when the request is not cacheable.
func listCacheKey(filter *craftsman.ListRequest) string {
	if !filter.PublicOnly || filter.County != "" || filter.Category != "" ||
		filter.Search != "" || filter.Page > 3 {
		return ""
	}
	return fmt.Sprintf("%sp%d:l%d", craftsmanListCacheKeyPrefix, filter.Page, filter.Limit)
}

func (r *postgresRepository) List(ctx context.Context, filter *craftsman.ListRequest) ([]craftsman.Craftsman, int64, error) {
	cacheKey := listCacheKey(filter)
	if cacheKey != "" {
		var cached cachedListing
		found, err := r.cache.Get(ctx, cacheKey, &cached)
		if err == nil && found {
			return cached.Items, cached.Total, nil
		}
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s FROM craftsmen WHERE 1=1`, craftsmanColumns))

	var countBuilder strings.Builder
	countBuilder.WriteString(`SELECT COUNT(*) FROM craftsmen WHERE 1=1`)

	args := []interface{}{}
	argPos := 1

	if filter.PublicOnly {
		// Directory shows verified, currently-active subscriptions only.
		// The end-date check covers rows the sweep has not flipped yet.
		clause := fmt.Sprintf(
			" AND verified = true AND subscription_status = 'ACTIVE' AND subscription_end_date >= $%d",
			argPos,
		)
		queryBuilder.WriteString(clause)
		countBuilder.WriteString(clause)
		args = append(args, time.Now())
		argPos++
	}

	if filter.Status != "" && !filter.PublicOnly {
		clause := fmt.Sprintf(" AND subscription_status = $%d", argPos)
		queryBuilder.WriteString(clause)
		countBuilder.WriteString(clause)
		args = append(args, filter.Status)
		argPos++
	}

	if filter.County != "" {
		clause := fmt.Sprintf(" AND county = $%d", argPos)
		queryBuilder.WriteString(clause)
		countBuilder.WriteString(clause)
		args = append(args, filter.County)
		argPos++
	}

	if filter.Category != "" {
		clause := fmt.Sprintf(" AND category = $%d", argPos)
		queryBuilder.WriteString(clause)
		countBuilder.WriteString(clause)
		args = append(args, filter.Category)
		argPos++
	}

	if filter.Search != "" {
		clause := fmt.Sprintf(" AND (business_name ILIKE $%d OR description ILIKE $%d)", argPos, argPos)
		queryBuilder.WriteString(clause)
		countBuilder.WriteString(clause)
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countBuilder.String(), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count craftsmen: %w", err)
	}

	queryBuilder.WriteString(" ORDER BY rating DESC, review_count DESC, created_at DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1))
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list craftsmen: %w", err)
	}
	defer rows.Close()

	craftsmen := []craftsman.Craftsman{}
	for rows.Next() {
		c, err := scanCraftsman(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan craftsman: %w", err)
		}
		craftsmen = append(craftsmen, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate craftsmen: %w", err)
	}

	if cacheKey != "" {
		_ = r.cache.Set(ctx, cacheKey, cachedListing{Items: craftsmen, Total: total}, craftsmanListCacheTTL)
	}

	return craftsmen, total, nil
}

func (r *postgresRepository) Update(ctx context.Context, c *craftsman.Craftsman) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE craftsmen
		SET business_name = $2, slug = $3, description = $4, category = $5,
			county = $6, city = $7, address = $8, phone = $9,
			experience_years = $10, updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.BusinessName, c.Slug, c.Description, c.Category,
		c.County, c.City, c.Address, c.Phone, c.ExperienceYears,
	)
	if err != nil {
		return translateCraftsmanError(err)
	}
	if tag.RowsAffected() == 0 {
		return craftsman.ErrCraftsmanNotFound
	}

	r.invalidate(ctx, c.ID)
	return nil
}

// ApproveTx activates the subscription: verified=true, status ACTIVE,
// window re-based to now+30d and the plan price snapshotted. Runs in the
// caller's transaction.
func (r *postgresRepository) ApproveTx(ctx context.Context, tx pgx.Tx, c *craftsman.Craftsman) error {
	err := tx.QueryRow(ctx, `
		UPDATE craftsmen
		SET verified = true,
			subscription_status = $2,
			subscription_plan = $3,
			subscription_price = $4,
			subscription_start_date = $5,
			subscription_end_date = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		c.ID, c.SubscriptionStatus, c.SubscriptionPlan, c.SubscriptionPrice,
		c.SubscriptionStartDate, c.SubscriptionEndDate,
	).Scan(&c.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return craftsman.ErrCraftsmanNotFound
	}
	if err != nil {
		return fmt.Errorf("approve craftsman: %w", err)
	}

	r.invalidate(ctx, c.ID)
	return nil
}

// RejectTx deactivates: verified=false, status INACTIVE, dates cleared.
func (r *postgresRepository) RejectTx(ctx context.Context, tx pgx.Tx, c *craftsman.Craftsman) error {
	err := tx.QueryRow(ctx, `
		UPDATE craftsmen
		SET verified = false,
			subscription_status = $2,
			subscription_start_date = NULL,
			subscription_end_date = NULL,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		c.ID, c.SubscriptionStatus,
	).Scan(&c.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return craftsman.ErrCraftsmanNotFound
	}
	if err != nil {
		return fmt.Errorf("reject craftsman: %w", err)
	}

	r.invalidate(ctx, c.ID)
	return nil
}

func (r *postgresRepository) ExpireOverdue(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE craftsmen
		SET subscription_status = 'EXPIRED', updated_at = NOW()
		WHERE subscription_status = 'ACTIVE' AND subscription_end_date < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("expire overdue subscriptions: %w", err)
	}

	if tag.RowsAffected() > 0 {
		_ = r.cache.DeletePattern(ctx, craftsmanCacheKeyPrefix+"*")
		_ = r.cache.DeletePattern(ctx, craftsmanListCacheKeyPrefix+"*")
	}
	return tag.RowsAffected(), nil
}

func (r *postgresRepository) invalidate(ctx context.Context, id uuid.UUID) {
	_ = r.cache.Delete(ctx, craftsmanCacheKeyPrefix+id.String())
	_ = r.cache.DeletePattern(ctx, craftsmanListCacheKeyPrefix+"*")
}

func translateCraftsmanError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch {
		case strings.Contains(pgErr.ConstraintName, "slug"):
			return craftsman.ErrSlugAlreadyExists
		case strings.Contains(pgErr.ConstraintName, "user_id"):
			return craftsman.ErrAlreadyOnboarded
		}
	}

	return fmt.Errorf("craftsman write: %w", err)
}
