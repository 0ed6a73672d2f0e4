package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"vasilestie-backend/internal/domains/blog"
	"vasilestie-backend/internal/shared/response"
)

type BlogHandler struct {
	service blog.Service
}

func NewBlogHandler(service blog.Service) *BlogHandler {
	return &BlogHandler{service: service}
}

// ========================================
// PUBLIC ENDPOINTS
// ========================================

// ListPublished handles GET /blog/posts
func (h *BlogHandler) ListPublished(c *gin.Context) {
	var req blog.ListPostsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Parametri de listare invalizi", err)
		return
	}

	posts, total, err := h.service.ListPublished(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	meta := response.NewPagination(req.Page, req.Limit, total)
	response.SuccessWithMeta(c, http.StatusOK, "Articole listate", posts, meta)
}

// GetPublishedBySlug handles GET /blog/posts/:slug
func (h *BlogHandler) GetPublishedBySlug(c *gin.Context) {
	post, err := h.service.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Articol găsit", post)
}

// ListCategories handles GET /blog/categories
func (h *BlogHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Categorii listate", categories)
}

// ========================================
// BACK OFFICE: ARTICLES
// ========================================

// ListAll handles GET /colaborator/content/articles
func (h *BlogHandler) ListAll(c *gin.Context) {
	var req blog.ListPostsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Parametri de listare invalizi", err)
		return
	}

	posts, total, err := h.service.ListAll(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	meta := response.NewPagination(req.Page, req.Limit, total)
	response.SuccessWithMeta(c, http.StatusOK, "Articole listate", posts, meta)
}

// CreatePost handles POST /colaborator/content/articles
func (h *BlogHandler) CreatePost(c *gin.Context) {
	var req blog.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Corpul cererii este invalid", err)
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), h.callerID(c), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Articol creat", post)
}

// UpdatePost handles PUT /colaborator/content/articles/:id
func (h *BlogHandler) UpdatePost(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "ID invalid", nil)
		return
	}

	var req blog.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Corpul cererii este invalid", err)
		return
	}

	post, err := h.service.UpdatePost(c.Request.Context(), postID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Articol actualizat", post)
}

// DeletePost handles DELETE /colaborator/content/articles/:id
func (h *BlogHandler) DeletePost(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "ID invalid", nil)
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), postID); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Articol șters", nil)
}

// TogglePublish handles PATCH /colaborator/content/articles/:id/toggle
func (h *BlogHandler) TogglePublish(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "ID invalid", nil)
		return
	}

	// Body is optional; without it the current state is flipped.
	var req blog.TogglePublishRequest
	_ = c.ShouldBindJSON(&req)

	post, err := h.service.TogglePublish(c.Request.Context(), h.callerID(c), postID, req.Published)
	if err != nil {
		h.handleError(c, err)
		return
	}

	message := "Articol retras"
	if post.Published {
		message = "Articol publicat"
	}

	response.Success(c, http.StatusOK, message, post)
}

// ========================================
// BACK OFFICE: CATEGORIES
// ========================================

// CreateCategory handles POST /colaborator/content/categories
func (h *BlogHandler) CreateCategory(c *gin.Context) {
	var req blog.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Corpul cererii este invalid", err)
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Categorie creată", category)
}

// UpdateCategory handles PUT /colaborator/content/categories/:id
func (h *BlogHandler) UpdateCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "ID invalid", nil)
		return
	}

	var req blog.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Corpul cererii este invalid", err)
		return
	}

	category, err := h.service.UpdateCategory(c.Request.Context(), categoryID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Categorie actualizată", category)
}

// DeleteCategory handles DELETE /colaborator/content/categories/:id
func (h *BlogHandler) DeleteCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "ID invalid", nil)
		return
	}

	if err := h.service.DeleteCategory(c.Request.Context(), categoryID); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Categorie ștearsă", nil)
}

// ========================================
// HELPERS
// ========================================

func (h *BlogHandler) callerID(c *gin.Context) uuid.UUID {
	value, _ := c.Get("user_id")
	id, _ := value.(uuid.UUID)
	return id
}

func (h *BlogHandler) handleError(c *gin.Context, err error) {
	var validationErrs validation.Errors

	switch {
	case errors.As(err, &validationErrs):
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, blog.ErrPostNotFound):
		response.Error(c, http.StatusNotFound, "Articolul nu a fost găsit", nil)
	case errors.Is(err, blog.ErrCategoryNotFound):
		response.Error(c, http.StatusNotFound, "Categoria nu a fost găsită", nil)
	case errors.Is(err, blog.ErrSlugAlreadyExists):
		response.Error(c, http.StatusConflict, "Există deja un articol sau o categorie cu acest nume", nil)
	case errors.Is(err, blog.ErrCategoryHasPosts):
		response.Error(c, http.StatusConflict, "Categoria conține articole și nu poate fi ștearsă", nil)
	default:
		response.Error(c, http.StatusInternalServerError, "A apărut o eroare internă", err)
	}
}
