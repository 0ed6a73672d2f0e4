package blog

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository is the data access contract for posts and categories.
type Repository interface {
	// Posts
	CreatePost(ctx context.Context, p *Post) error
	GetPostByID(ctx context.Context, id uuid.UUID) (*Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*Post, error)
	ListPosts(ctx context.Context, filter *ListPostsRequest) ([]Post, int64, error)
	UpdatePost(ctx context.Context, p *Post) error
	DeletePost(ctx context.Context, id uuid.UUID) error
	SetPublishedTx(ctx context.Context, tx pgx.Tx, p *Post) error

	// Categories
	CreateCategory(ctx context.Context, c *Category) error
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}
