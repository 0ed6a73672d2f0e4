package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vasilestie-backend/internal/domains/audit"
	"vasilestie-backend/internal/domains/blog"
	"vasilestie-backend/internal/domains/blog/service"
)

// ========================================
// TEST DOUBLES
// ========================================

type fakeTx struct {
	pgx.Tx
	committed bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error { return nil }

type fakeTxStarter struct {
	tx *fakeTx
}

func (s *fakeTxStarter) Begin(ctx context.Context) (pgx.Tx, error) {
	return s.tx, nil
}

type stubRepo struct {
	blog.Repository

	getPostByID     func(ctx context.Context, id uuid.UUID) (*blog.Post, error)
	getPostBySlug   func(ctx context.Context, slug string) (*blog.Post, error)
	createPost      func(ctx context.Context, p *blog.Post) error
	setPublishedTx  func(ctx context.Context, tx pgx.Tx, p *blog.Post) error
	getCategoryByID func(ctx context.Context, id uuid.UUID) (*blog.Category, error)
}

func (r *stubRepo) GetPostByID(ctx context.Context, id uuid.UUID) (*blog.Post, error) {
	return r.getPostByID(ctx, id)
}

func (r *stubRepo) GetPostBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	return r.getPostBySlug(ctx, slug)
}

func (r *stubRepo) CreatePost(ctx context.Context, p *blog.Post) error {
	return r.createPost(ctx, p)
}

func (r *stubRepo) SetPublishedTx(ctx context.Context, tx pgx.Tx, p *blog.Post) error {
	return r.setPublishedTx(ctx, tx, p)
}

func (r *stubRepo) GetCategoryByID(ctx context.Context, id uuid.UUID) (*blog.Category, error) {
	return r.getCategoryByID(ctx, id)
}

type stubAuditRepo struct {
	audit.Repository

	entries []audit.Entry
}

func (r *stubAuditRepo) RecordTx(ctx context.Context, tx pgx.Tx, entry *audit.Entry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func newService(repo *stubRepo, auditRepo *stubAuditRepo, tx *fakeTx) blog.Service {
	return service.NewBlogService(repo, auditRepo, &fakeTxStarter{tx: tx})
}

func draftPost(id uuid.UUID) *blog.Post {
	return &blog.Post{
		ID:         id,
		Title:      "Cum alegi un electrician autorizat",
		Slug:       "cum-alegi-un-electrician-autorizat",
		Content:    "Conținutul articolului.",
		Published:  false,
		CategoryID: uuid.New(),
		AuthorID:   uuid.New(),
	}
}

// ========================================
// PUBLISH TOGGLE
// ========================================

func TestTogglePublishFlipsDraftToPublished(t *testing.T) {
	id := uuid.New()
	actorID := uuid.New()
	tx := &fakeTx{}

	var saved *blog.Post
	repo := &stubRepo{
		getPostByID: func(ctx context.Context, got uuid.UUID) (*blog.Post, error) {
			return draftPost(id), nil
		},
		setPublishedTx: func(ctx context.Context, gotTx pgx.Tx, p *blog.Post) error {
			saved = p
			return nil
		},
	}
	auditRepo := &stubAuditRepo{}

	before := time.Now()
	result, err := newService(repo, auditRepo, tx).TogglePublish(context.Background(), actorID, id, nil)
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.True(t, result.Published)
	require.NotNil(t, result.PublishedAt)
	assert.False(t, result.PublishedAt.Before(before))

	require.Len(t, auditRepo.entries, 1)
	entry := auditRepo.entries[0]
	assert.Equal(t, audit.ActionArticlePublished, entry.Action)
	assert.Equal(t, actorID, entry.ActorUserID)
	assert.Equal(t, id.String(), entry.Details["post_id"])
	assert.True(t, tx.committed)
}

func TestTogglePublishFlipsPublishedToDraft(t *testing.T) {
	id := uuid.New()
	tx := &fakeTx{}

	now := time.Now()
	published := draftPost(id)
	published.Published = true
	published.PublishedAt = &now

	repo := &stubRepo{
		getPostByID: func(ctx context.Context, got uuid.UUID) (*blog.Post, error) {
			return published, nil
		},
		setPublishedTx: func(ctx context.Context, gotTx pgx.Tx, p *blog.Post) error {
			return nil
		},
	}
	auditRepo := &stubAuditRepo{}

	result, err := newService(repo, auditRepo, tx).TogglePublish(context.Background(), uuid.New(), id, nil)
	require.NoError(t, err)

	assert.False(t, result.Published)
	assert.Nil(t, result.PublishedAt)

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, audit.ActionArticleUnpublished, auditRepo.entries[0].Action)
}

func TestTogglePublishForcedSameStateSkipsAudit(t *testing.T) {
	// Forcing the current state is a no-op publish-wise: the timestamp
	// stays put and no audit entry is written.
	id := uuid.New()
	tx := &fakeTx{}

	publishedAt := time.Now().Add(-48 * time.Hour)
	published := draftPost(id)
	published.Published = true
	published.PublishedAt = &publishedAt

	repo := &stubRepo{
		getPostByID: func(ctx context.Context, got uuid.UUID) (*blog.Post, error) {
			return published, nil
		},
		setPublishedTx: func(ctx context.Context, gotTx pgx.Tx, p *blog.Post) error {
			return nil
		},
	}
	auditRepo := &stubAuditRepo{}

	force := true
	result, err := newService(repo, auditRepo, tx).TogglePublish(context.Background(), uuid.New(), id, &force)
	require.NoError(t, err)

	assert.True(t, result.Published)
	require.NotNil(t, result.PublishedAt)
	assert.True(t, result.PublishedAt.Equal(publishedAt), "original publish timestamp must survive")
	assert.Empty(t, auditRepo.entries)
}

func TestTogglePublishForcedDesiredState(t *testing.T) {
	id := uuid.New()
	repo := &stubRepo{
		getPostByID: func(ctx context.Context, got uuid.UUID) (*blog.Post, error) {
			return draftPost(id), nil
		},
		setPublishedTx: func(ctx context.Context, gotTx pgx.Tx, p *blog.Post) error {
			return nil
		},
	}
	auditRepo := &stubAuditRepo{}

	force := true
	result, err := newService(repo, auditRepo, &fakeTx{}).TogglePublish(context.Background(), uuid.New(), id, &force)
	require.NoError(t, err)

	assert.True(t, result.Published)
	require.Len(t, auditRepo.entries, 1)
}

func TestTogglePublishUnknownPost(t *testing.T) {
	repo := &stubRepo{
		getPostByID: func(ctx context.Context, got uuid.UUID) (*blog.Post, error) {
			return nil, blog.ErrPostNotFound
		},
	}

	_, err := newService(repo, &stubAuditRepo{}, &fakeTx{}).TogglePublish(context.Background(), uuid.New(), uuid.New(), nil)
	assert.ErrorIs(t, err, blog.ErrPostNotFound)
}

// ========================================
// PUBLIC READS
// ========================================

func TestGetPublishedBySlugHidesDraft(t *testing.T) {
	repo := &stubRepo{
		getPostBySlug: func(ctx context.Context, slug string) (*blog.Post, error) {
			return draftPost(uuid.New()), nil
		},
	}

	_, err := newService(repo, &stubAuditRepo{}, &fakeTx{}).GetPublishedBySlug(context.Background(), "cum-alegi-un-electrician-autorizat")
	assert.ErrorIs(t, err, blog.ErrPostNotFound)
}

// ========================================
// ARTICLE CREATION
// ========================================

func TestCreatePostStartsAsDraft(t *testing.T) {
	categoryID := uuid.New()
	authorID := uuid.New()

	var created *blog.Post
	repo := &stubRepo{
		getCategoryByID: func(ctx context.Context, id uuid.UUID) (*blog.Category, error) {
			require.Equal(t, categoryID, id)
			return &blog.Category{ID: categoryID, Name: "Sfaturi", Slug: "sfaturi"}, nil
		},
		createPost: func(ctx context.Context, p *blog.Post) error {
			created = p
			return nil
		},
	}

	result, err := newService(repo, &stubAuditRepo{}, &fakeTx{}).CreatePost(context.Background(), authorID, blog.CreatePostRequest{
		Title:      "Ghid de prețuri pentru instalații sanitare",
		Content:    "Conținutul ghidului.",
		CategoryID: categoryID,
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, "ghid-de-preturi-pentru-instalatii-sanitare", result.Slug)
	assert.False(t, result.Published)
	assert.Nil(t, result.PublishedAt)
	assert.Equal(t, authorID, result.AuthorID)
	assert.NotNil(t, result.Tags)
}

func TestCreatePostUnknownCategory(t *testing.T) {
	repo := &stubRepo{
		getCategoryByID: func(ctx context.Context, id uuid.UUID) (*blog.Category, error) {
			return nil, blog.ErrCategoryNotFound
		},
	}

	_, err := newService(repo, &stubAuditRepo{}, &fakeTx{}).CreatePost(context.Background(), uuid.New(), blog.CreatePostRequest{
		Title:      "Articol fără categorie",
		Content:    "Conținut.",
		CategoryID: uuid.New(),
	})
	assert.ErrorIs(t, err, blog.ErrCategoryNotFound)
}
