package newsletter

import "errors"

var (
	// ErrInvalidToken covers both a consumed and a never-issued token; the
	// two cases are deliberately indistinguishable to the caller.
	ErrInvalidToken = errors.New("invalid or already used unsubscribe token")
)
