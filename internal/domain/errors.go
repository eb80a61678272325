package domain

import "errors"

// Error kinds shared by all modules. Module-specific errors wrap one of these.
var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrConflict           = errors.New("conflict")

	// ErrNotFoundOrForbidden is returned by ownership-checked mutations. It never
	// says which of the two happened.
	ErrNotFoundOrForbidden = errors.New("not found or not authorized")
)
