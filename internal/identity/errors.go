package identity

import (
	"errors"
	"fmt"

	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/domain"
)

// Identity errors. Each wraps one of the shared domain error kinds.
var (
	ErrUserNotFound       = fmt.Errorf("user %w", domain.ErrNotFound)
	ErrLecturerNotFound   = fmt.Errorf("lecturer %w", domain.ErrNotFound)
	ErrUsernameExists     = fmt.Errorf("username already exists: %w", domain.ErrConflict)
	ErrEmailExists        = fmt.Errorf("email already exists: %w", domain.ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("invalid username or password: %w", domain.ErrInvalidCredentials)
	ErrAccountNotApproved = fmt.Errorf("account not approved by admin: %w", domain.ErrForbidden)
	ErrInvalidRole        = fmt.Errorf("%w: unknown role", domain.ErrValidation)
	ErrInvalidToken       = errors.New("invalid or expired token")
)
