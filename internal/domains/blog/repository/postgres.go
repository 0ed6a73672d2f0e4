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

	"vasilestie-backend/internal/domains/blog"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) blog.Repository {
	return &postgresRepository{pool: pool}
}

// ========================================
// POSTS
// ========================================

const postColumns = `id, title, slug, excerpt, content, published, published_at,
	featured, category_id, author_id, tags, created_at, updated_at`

func scanPost(row pgx.Row) (*blog.Post, error) {
	var p blog.Post
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content,
		&p.Published, &p.PublishedAt, &p.Featured,
		&p.CategoryID, &p.AuthorID, &p.Tags,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepository) CreatePost(ctx context.Context, p *blog.Post) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO blog_posts (
			id, title, slug, excerpt, content, published, featured,
			category_id, author_id, tags, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.Title, p.Slug, p.Excerpt, p.Content, p.Published, p.Featured,
		p.CategoryID, p.AuthorID, p.Tags, p.CreatedAt, p.UpdatedAt,
	)
	return translateBlogError(err)
}

func (r *postgresRepository) GetPostByID(ctx context.Context, id uuid.UUID) (*blog.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM blog_posts WHERE id = $1`, postColumns)

	p, err := scanPost(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, blog.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post by id: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) GetPostBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM blog_posts WHERE slug = $1`, postColumns)

	p, err := scanPost(r.pool.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, blog.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post by slug: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) ListPosts(ctx context.Context, filter *blog.ListPostsRequest) ([]blog.Post, int64, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s FROM blog_posts p WHERE 1=1`,
		prefixColumns(postColumns, "p.")))

	var countBuilder strings.Builder
	countBuilder.WriteString(`SELECT COUNT(*) FROM blog_posts p WHERE 1=1`)

	args := []interface{}{}
	argPos := 1

	if filter.PublishedOnly {
		clause := " AND p.published = true"
		queryBuilder.WriteString(clause)
		countBuilder.WriteString(clause)
	}

	if filter.Category != "" {
		clause := fmt.Sprintf(
			" AND p.category_id = (SELECT id FROM blog_categories WHERE slug = $%d)", argPos)
		queryBuilder.WriteString(clause)
		countBuilder.WriteString(clause)
		args = append(args, filter.Category)
		argPos++
	}

	if filter.Search != "" {
		clause := fmt.Sprintf(" AND (p.title ILIKE $%d OR p.excerpt ILIKE $%d)", argPos, argPos)
		queryBuilder.WriteString(clause)
		countBuilder.WriteString(clause)
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	if filter.Featured != nil {
		clause := fmt.Sprintf(" AND p.featured = $%d", argPos)
		queryBuilder.WriteString(clause)
		countBuilder.WriteString(clause)
		args = append(args, *filter.Featured)
		argPos++
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countBuilder.String(), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	queryBuilder.WriteString(" ORDER BY COALESCE(p.published_at, p.created_at) DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1))
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []blog.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate posts: %w", err)
	}

	return posts, total, nil
}

func (r *postgresRepository) UpdatePost(ctx context.Context, p *blog.Post) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE blog_posts
		SET title = $2, slug = $3, excerpt = $4, content = $5, featured = $6,
			category_id = $7, tags = $8, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.Title, p.Slug, p.Excerpt, p.Content, p.Featured,
		p.CategoryID, p.Tags,
	)
	if err != nil {
		return translateBlogError(err)
	}
	if tag.RowsAffected() == 0 {
		return blog.ErrPostNotFound
	}
	return nil
}

func (r *postgresRepository) DeletePost(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return blog.ErrPostNotFound
	}
	return nil
}

// SetPublishedTx persists the publication flag and its timestamp in the
// caller's transaction.
func (r *postgresRepository) SetPublishedTx(ctx context.Context, tx pgx.Tx, p *blog.Post) error {
	err := tx.QueryRow(ctx, `
		UPDATE blog_posts
		SET published = $2, published_at = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		p.ID, p.Published, p.PublishedAt,
	).Scan(&p.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return blog.ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("set post published: %w", err)
	}
	return nil
}

// ========================================
// CATEGORIES
// ========================================

const categoryColumns = `id, name, slug, description, color, icon, created_at, updated_at`

func scanCategory(row pgx.Row) (*blog.Category, error) {
	var c blog.Category
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color, &c.Icon,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepository) CreateCategory(ctx context.Context, c *blog.Category) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO blog_categories (id, name, slug, description, color, icon, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Name, c.Slug, c.Description, c.Color, c.Icon, c.CreatedAt, c.UpdatedAt,
	)
	return translateBlogError(err)
}

func (r *postgresRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*blog.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM blog_categories WHERE id = $1`, categoryColumns)

	c, err := scanCategory(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, blog.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category by id: %w", err)
	}
	return c, nil
}

func (r *postgresRepository) ListCategories(ctx context.Context) ([]blog.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM blog_categories ORDER BY name ASC`, categoryColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []blog.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

func (r *postgresRepository) UpdateCategory(ctx context.Context, c *blog.Category) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE blog_categories
		SET name = $2, slug = $3, description = $4, color = $5, icon = $6, updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.Name, c.Slug, c.Description, c.Color, c.Icon,
	)
	if err != nil {
		return translateBlogError(err)
	}
	if tag.RowsAffected() == 0 {
		return blog.ErrCategoryNotFound
	}
	return nil
}

func (r *postgresRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blog_categories WHERE id = $1`, id)
	if err != nil {
		// Restricted by the posts foreign key.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return blog.ErrCategoryHasPosts
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return blog.ErrCategoryNotFound
	}
	return nil
}

// ========================================
// HELPERS
// ========================================

func prefixColumns(columns, prefix string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = prefix + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}

func translateBlogError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return blog.ErrSlugAlreadyExists
		case "23503":
			return blog.ErrCategoryNotFound
		}
	}

	return fmt.Errorf("blog write: %w", err)
}
