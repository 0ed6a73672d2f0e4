package blog

import (
	"time"

	"github.com/google/uuid"
)

// Post is a blog article.
//
// PublishedAt is non-nil iff the post is currently published: set when the
// toggle goes false→true, cleared on true→false.
type Post struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Slug        string     `db:"slug" json:"slug"`
	Excerpt     string     `db:"excerpt" json:"excerpt"`
	Content     string     `db:"content" json:"content"`
	Published   bool       `db:"published" json:"published"`
	PublishedAt *time.Time `db:"published_at" json:"published_at,omitempty"`
	Featured    bool       `db:"featured" json:"featured"`
	CategoryID  uuid.UUID  `db:"category_id" json:"category_id"`
	AuthorID    uuid.UUID  `db:"author_id" json:"author_id"`
	Tags        []string   `db:"tags" json:"tags"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Category groups posts.
type Category struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Slug        string    `db:"slug" json:"slug"`
	Description string    `db:"description" json:"description"`
	Color       string    `db:"color" json:"color"`
	Icon        string    `db:"icon" json:"icon"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
