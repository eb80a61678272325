// Package identity implements the user directory, login and the account
// approval gate.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/domain"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/pkg/ctxlog"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/pkg/metrics"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/pkg/validate"
	"github.com/go-playground/validator/v10"
)

// Token is an identity assertion issued on successful login.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Authenticator issues and validates identity assertions.
type Authenticator interface {
	IssueToken(ctx context.Context, user *domain.User) (*Token, error)
	ValidateToken(ctx context.Context, token string) (domain.Identity, error)
}

// AccountNotifier is told about account lifecycle transitions. Errors are
// logged by the service and never fail the triggering operation.
type AccountNotifier interface {
	NotifyAccountRegistered(ctx context.Context, user *domain.User) error
	NotifyAccountApproved(ctx context.Context, user *domain.User) error
	NotifyProfileUpdated(ctx context.Context, user *domain.User) error
	NotifyAccountDeleted(ctx context.Context, user *domain.User) error
}

// Service implements identity business logic.
type Service struct {
	repo      Repository
	auth      Authenticator
	hasher    PasswordHasher
	notifier  AccountNotifier
	validator *validator.Validate
}

// NewService creates a new identity service. notifier may be nil.
func NewService(repo Repository, auth Authenticator, hasher PasswordHasher, notifier AccountNotifier) *Service {
	return &Service{
		repo:      repo,
		auth:      auth,
		hasher:    hasher,
		notifier:  notifier,
		validator: validate.New(),
	}
}

// RegisterInput holds data for creating an account.
type RegisterInput struct {
	Username string      `json:"username" validate:"required,max=64"`
	Password string      `json:"password" validate:"required,max=72"`
	Role     domain.Role `json:"role" validate:"required,oneof=student lecturer admin"`
	Email    string      `json:"email" validate:"required,email"`
	Name     string      `json:"name" validate:"required,max=255"`
	Surname  string      `json:"surname" validate:"required,max=255"`
}

// Register creates a self-registered account and sends the welcome notification.
// Only admin accounts start approved.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	user, err := s.createUser(ctx, input)
	if err != nil {
		return nil, err
	}

	metrics.AccountTransitions.WithLabelValues("registered").Inc()
	s.notify(ctx, "account_registered", user, s.notifierFunc(AccountNotifier.NotifyAccountRegistered))

	return user, nil
}

// AddUser creates an account on an administrator's behalf. The approval
// default is the same as for Register; no notification is sent.
func (s *Service) AddUser(ctx context.Context, input RegisterInput) (*domain.User, error) {
	return s.createUser(ctx, input)
}

func (s *Service) createUser(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if _, err := s.repo.GetUserByUsername(ctx, input.Username); err == nil {
		return nil, ErrUsernameExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     input.Username,
		PasswordHash: hash,
		Role:         input.Role,
		IsApproved:   input.Role.ApprovedOnCreation(),
		Email:        input.Email,
		Name:         input.Name,
		Surname:      input.Surname,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// LoginInput holds login credentials.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	User  *domain.User
	Token *Token
}

// Login checks credentials and the approval gate, then issues a token.
// Credentials are checked first, so an unapproved account with a wrong
// password still gets ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	user, err := s.repo.GetUserByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.ApprovalState() != domain.ApprovalApproved {
		return nil, ErrAccountNotApproved
	}

	token, err := s.auth.IssueToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{User: user, Token: token}, nil
}

// ValidateToken resolves a bearer token to the caller identity.
func (s *Service) ValidateToken(ctx context.Context, token string) (domain.Identity, error) {
	return s.auth.ValidateToken(ctx, token)
}

// Approve moves the user to the approved state. Approving an approved user
// is a no-op and sends nothing.
func (s *Service) Approve(ctx context.Context, userID string) (*domain.User, error) {
	user, transitioned, err := s.repo.ApproveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if transitioned {
		metrics.AccountTransitions.WithLabelValues("approved").Inc()
		s.notify(ctx, "account_approved", user, s.notifierFunc(AccountNotifier.NotifyAccountApproved))
	}

	return user, nil
}

// ListUsers returns all users, or only those with role when it is set.
func (s *Service) ListUsers(ctx context.Context, role *domain.Role) ([]domain.User, error) {
	if role != nil && !role.IsValid() {
		return nil, ErrInvalidRole
	}

	users, err := s.repo.ListUsers(ctx, UserFilter{Role: role})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// DeleteUser removes an account on an administrator's behalf. The user's
// feedback is kept.
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	if _, err := s.repo.DeleteUser(ctx, userID); err != nil {
		return err
	}
	metrics.AccountTransitions.WithLabelValues("deleted").Inc()
	return nil
}

// GetUserByID returns a user by ID.
func (s *Service) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// GetProfile returns the caller's own account.
func (s *Service) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// ProfileInput holds optional profile changes.
type ProfileInput struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Surname  *string `json:"surname" validate:"omitempty,min=1,max=255"`
	Password *string `json:"password" validate:"omitempty,min=1,max=72"`
}

// UpdateProfile applies the given changes to the caller's account.
func (s *Service) UpdateProfile(ctx context.Context, userID string, input ProfileInput) (*domain.User, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	patch := domain.ProfilePatch{
		Email:   input.Email,
		Name:    input.Name,
		Surname: input.Surname,
	}
	if input.Password != nil {
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}

	if patch == (domain.ProfilePatch{}) {
		return s.repo.GetUserByID(ctx, userID)
	}

	user, err := s.repo.UpdateProfile(ctx, userID, patch)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, "profile_updated", user, s.notifierFunc(AccountNotifier.NotifyProfileUpdated))
	return user, nil
}

// DeleteAccount removes the caller's own account and sends a farewell
// notification to the address it had.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	user, err := s.repo.DeleteUser(ctx, userID)
	if err != nil {
		return err
	}

	metrics.AccountTransitions.WithLabelValues("deleted").Inc()
	s.notify(ctx, "account_deleted", user, s.notifierFunc(AccountNotifier.NotifyAccountDeleted))
	return nil
}

// ResolveLecturer finds the lecturer whose username is name.
func (s *Service) ResolveLecturer(ctx context.Context, name string) (*domain.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, name)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrLecturerNotFound
		}
		return nil, fmt.Errorf("resolve lecturer: %w", err)
	}
	if user.Role != domain.RoleLecturer {
		return nil, ErrLecturerNotFound
	}
	return user, nil
}

type notifyFunc func(ctx context.Context, user *domain.User) error

func (s *Service) notifierFunc(method func(AccountNotifier, context.Context, *domain.User) error) notifyFunc {
	if s.notifier == nil {
		return nil
	}
	return func(ctx context.Context, user *domain.User) error {
		return method(s.notifier, ctx, user)
	}
}

// notify runs fn after the state change is committed; failures are logged only.
func (s *Service) notify(ctx context.Context, kind string, user *domain.User, fn notifyFunc) {
	if fn == nil {
		return
	}
	if err := fn(ctx, user); err != nil {
		ctxlog.FromContext(ctx).Warn("account notification failed",
			"kind", kind,
			"user_id", user.ID,
			"error", err,
		)
	}
}
