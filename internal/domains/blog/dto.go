package blog

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// ========================================
// POST DTOs
// ========================================

type CreatePostRequest struct {
	Title      string    `json:"title" binding:"required"`
	Excerpt    string    `json:"excerpt"`
	Content    string    `json:"content" binding:"required"`
	Featured   bool      `json:"featured"`
	CategoryID uuid.UUID `json:"category_id" binding:"required"`
	Tags       []string  `json:"tags"`
}

func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(3, 200)),
		validation.Field(&r.Excerpt, validation.Length(0, 500)),
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.CategoryID, validation.Required),
		validation.Field(&r.Tags, validation.Length(0, 20)),
	)
}

type UpdatePostRequest struct {
	Title      string     `json:"title,omitempty"`
	Excerpt    string     `json:"excerpt,omitempty"`
	Content    string     `json:"content,omitempty"`
	Featured   *bool      `json:"featured,omitempty"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
}

func (r UpdatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.When(r.Title != "", validation.Length(3, 200)),
		),
		validation.Field(&r.Excerpt, validation.Length(0, 500)),
		validation.Field(&r.Tags, validation.Length(0, 20)),
	)
}

// TogglePublishRequest optionally forces a target state. With no body the
// toggle flips the current one.
type TogglePublishRequest struct {
	Published *bool `json:"published,omitempty"`
}

type ListPostsRequest struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	Category string `form:"category"` // category slug
	Search   string `form:"search"`
	Featured *bool  `form:"featured"`

	PublishedOnly bool `form:"-"`
}

func (r *ListPostsRequest) SetDefaults() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = 10
	}
	if r.Limit > 100 {
		r.Limit = 100
	}
}

// ========================================
// CATEGORY DTOs
// ========================================

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

func (r CategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Description, validation.Length(0, 500)),
		validation.Field(&r.Color, validation.Length(0, 20)),
		validation.Field(&r.Icon, validation.Length(0, 50)),
	)
}
