package blog

import (
	"context"

	"github.com/google/uuid"
)

// Service is the business logic contract for blog content.
type Service interface {
	// Public reads
	ListPublished(ctx context.Context, req *ListPostsRequest) ([]Post, int64, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*Post, error)
	ListCategories(ctx context.Context) ([]Category, error)

	// Back office: articles
	ListAll(ctx context.Context, req *ListPostsRequest) ([]Post, int64, error)
	CreatePost(ctx context.Context, authorID uuid.UUID, req CreatePostRequest) (*Post, error)
	UpdatePost(ctx context.Context, postID uuid.UUID, req UpdatePostRequest) (*Post, error)
	DeletePost(ctx context.Context, postID uuid.UUID) error
	TogglePublish(ctx context.Context, actorID uuid.UUID, postID uuid.UUID, desired *bool) (*Post, error)

	// Back office: categories
	CreateCategory(ctx context.Context, req CategoryRequest) (*Category, error)
	UpdateCategory(ctx context.Context, categoryID uuid.UUID, req CategoryRequest) (*Category, error)
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error
}
