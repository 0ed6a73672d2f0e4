package blog

import "errors"

var (
	ErrPostNotFound      = errors.New("blog post not found")
	ErrCategoryNotFound  = errors.New("blog category not found")
	ErrSlugAlreadyExists = errors.New("slug already exists")
	ErrCategoryHasPosts  = errors.New("cannot delete a category that still has posts")
)
