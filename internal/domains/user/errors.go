package user

import "errors"

// Account errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidStatus      = errors.New("invalid account status")
	ErrInvalidRole        = errors.New("invalid role")
)

// Authentication errors
var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountNotActive    = errors.New("account is not active")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// Team management protection rules
var (
	ErrSelfModification = errors.New("cannot modify or delete your own account")
	ErrProtectedTarget  = errors.New("insufficient permissions for this target account")
)
