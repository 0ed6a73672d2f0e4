package craftsman

import "errors"

var (
	ErrCraftsmanNotFound = errors.New("craftsman not found")
	ErrAlreadyOnboarded  = errors.New("user already has a craftsman profile")
	ErrInvalidPlan       = errors.New("invalid subscription plan")
	ErrSlugAlreadyExists = errors.New("craftsman slug already exists")
)
