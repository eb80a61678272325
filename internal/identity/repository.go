package identity

import (
	"context"

	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/domain"
)

// Repository is the identity directory's storage.
type Repository interface {
	// CreateUser stores user and fills ID and timestamps. Duplicate username
	// or email yields ErrUsernameExists or ErrEmailExists.
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]domain.User, error)

	// ApproveUser moves an unapproved user to approved. transitioned is false
	// when the user was already approved.
	ApproveUser(ctx context.Context, id string) (user *domain.User, transitioned bool, err error)
	UpdateProfile(ctx context.Context, id string, patch domain.ProfilePatch) (*domain.User, error)
	// DeleteUser removes the user and returns the deleted record.
	DeleteUser(ctx context.Context, id string) (*domain.User, error)
}

// UserFilter narrows ListUsers.
type UserFilter struct {
	Role *domain.Role
}
