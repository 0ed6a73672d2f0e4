package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"vasilestie-backend/internal/domains/audit"
	"vasilestie-backend/internal/domains/blog"
	"vasilestie-backend/internal/shared/utils"
	"vasilestie-backend/pkg/database"
)

type blogService struct {
	repo      blog.Repository
	auditRepo audit.Repository
	db        database.TxStarter
}

func NewBlogService(repo blog.Repository, auditRepo audit.Repository, db database.TxStarter) blog.Service {
	return &blogService{
		repo:      repo,
		auditRepo: auditRepo,
		db:        db,
	}
}

// ========================================
// PUBLIC READS
// ========================================

func (s *blogService) ListPublished(ctx context.Context, req *blog.ListPostsRequest) ([]blog.Post, int64, error) {
	req.SetDefaults()
	req.PublishedOnly = true

	return s.repo.ListPosts(ctx, req)
}

func (s *blogService) GetPublishedBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	p, err := s.repo.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	// Drafts do not exist for the public site.
	if !p.Published {
		return nil, blog.ErrPostNotFound
	}

	return p, nil
}

func (s *blogService) ListCategories(ctx context.Context) ([]blog.Category, error) {
	return s.repo.ListCategories(ctx)
}

// ========================================
// BACK OFFICE: ARTICLES
// ========================================

func (s *blogService) ListAll(ctx context.Context, req *blog.ListPostsRequest) ([]blog.Post, int64, error) {
	req.SetDefaults()
	req.PublishedOnly = false

	return s.repo.ListPosts(ctx, req)
}

func (s *blogService) CreatePost(ctx context.Context, authorID uuid.UUID, req blog.CreatePostRequest) (*blog.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetCategoryByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &blog.Post{
		ID:         uuid.New(),
		Title:      req.Title,
		Slug:       utils.GenerateSlug(req.Title),
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		Published:  false,
		Featured:   req.Featured,
		CategoryID: req.CategoryID,
		AuthorID:   authorID,
		Tags:       req.Tags,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	if err := s.repo.CreatePost(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *blogService) UpdatePost(ctx context.Context, postID uuid.UUID, req blog.UpdatePostRequest) (*blog.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		p.Title = req.Title
		p.Slug = utils.GenerateSlug(req.Title)
	}
	if req.Excerpt != "" {
		p.Excerpt = req.Excerpt
	}
	if req.Content != "" {
		p.Content = req.Content
	}
	if req.Featured != nil {
		p.Featured = *req.Featured
	}
	if req.CategoryID != nil {
		if _, err := s.repo.GetCategoryByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		p.CategoryID = *req.CategoryID
	}
	if req.Tags != nil {
		p.Tags = req.Tags
	}

	if err := s.repo.UpdatePost(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *blogService) DeletePost(ctx context.Context, postID uuid.UUID) error {
	return s.repo.DeletePost(ctx, postID)
}

// TogglePublish flips the publication flag, or forces it when desired is
// given. false→true stamps published_at, true→false clears it; re-setting
// the current state touches only updated_at and writes no audit entry.
func (s *blogService) TogglePublish(ctx context.Context, actorID uuid.UUID, postID uuid.UUID, desired *bool) (*blog.Post, error) {
	p, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	target := !p.Published
	if desired != nil {
		target = *desired
	}

	changed := target != p.Published

	p.Published = target
	if changed {
		if target {
			now := time.Now()
			p.PublishedAt = &now
		} else {
			p.PublishedAt = nil
		}
	}

	err = database.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		if err := s.repo.SetPublishedTx(ctx, tx, p); err != nil {
			return err
		}

		if !changed {
			return nil
		}

		action := audit.ActionArticlePublished
		if !target {
			action = audit.ActionArticleUnpublished
		}

		return s.auditRepo.RecordTx(ctx, tx, &audit.Entry{
			ActorUserID: actorID,
			Action:      action,
			Details: map[string]interface{}{
				"post_id": postID.String(),
				"slug":    p.Slug,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	return p, nil
}

// ========================================
// BACK OFFICE: CATEGORIES
// ========================================

func (s *blogService) CreateCategory(ctx context.Context, req blog.CategoryRequest) (*blog.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	c := &blog.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Slug:        utils.GenerateSlug(req.Name),
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *blogService) UpdateCategory(ctx context.Context, categoryID uuid.UUID, req blog.CategoryRequest) (*blog.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	c.Name = req.Name
	c.Slug = utils.GenerateSlug(req.Name)
	c.Description = req.Description
	c.Color = req.Color
	c.Icon = req.Icon

	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *blogService) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	return s.repo.DeleteCategory(ctx, categoryID)
}
