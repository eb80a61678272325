// Package postgres provides PostgreSQL implementation of the identity repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/domain"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/identity"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/pkg/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, username, password_hash, role, is_approved, email, name, surname, created_at, updated_at`

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repository implements identity.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database.
func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (username, password_hash, role, is_approved, email, name, surname)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Role,
		user.IsApproved,
		user.Email,
		user.Name,
		user.Surname,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if uniqueErr := mapUniqueViolation(err); uniqueErr != nil {
			return uniqueErr
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	if uuid.Validate(id) != nil {
		return nil, identity.ErrUserNotFound
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getUser(ctx, query, id)
}

// GetUserByUsername retrieves a user by username.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.getUser(ctx, query, username)
}

func (r *Repository) getUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ListUsers returns users ordered by creation time.
func (r *Repository) ListUsers(ctx context.Context, filter identity.UserFilter) ([]domain.User, error) {
	builder := psql.Select(userColumns).From("users").OrderBy("created_at", "id")
	if filter.Role != nil {
		builder = builder.Where(squirrel.Eq{"role": *filter.Role})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// ApproveUser approves an unapproved user in a single statement so that
// concurrent approvals transition the account exactly once.
func (r *Repository) ApproveUser(ctx context.Context, id string) (*domain.User, bool, error) {
	if uuid.Validate(id) != nil {
		return nil, false, identity.ErrUserNotFound
	}

	query := `
		UPDATE users SET is_approved = TRUE, updated_at = NOW()
		WHERE id = $1 AND NOT is_approved
		RETURNING ` + userColumns
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err == nil {
		return user, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("approve user: %w", err)
	}

	user, err = r.GetUserByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return user, false, nil
}

// UpdateProfile applies the non-nil fields of patch.
func (r *Repository) UpdateProfile(ctx context.Context, id string, patch domain.ProfilePatch) (*domain.User, error) {
	if uuid.Validate(id) != nil {
		return nil, identity.ErrUserNotFound
	}

	builder := psql.Update("users").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + userColumns)
	if patch.Email != nil {
		builder = builder.Set("email", *patch.Email)
	}
	if patch.Name != nil {
		builder = builder.Set("name", *patch.Name)
	}
	if patch.Surname != nil {
		builder = builder.Set("surname", *patch.Surname)
	}
	if patch.PasswordHash != nil {
		builder = builder.Set("password_hash", *patch.PasswordHash)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update profile query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrUserNotFound
		}
		if uniqueErr := mapUniqueViolation(err); uniqueErr != nil {
			return nil, uniqueErr
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// DeleteUser deletes a user and returns the deleted row.
func (r *Repository) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	if uuid.Validate(id) != nil {
		return nil, identity.ErrUserNotFound
	}

	query := `DELETE FROM users WHERE id = $1 RETURNING ` + userColumns
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrUserNotFound
		}
		return nil, fmt.Errorf("delete user: %w", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&user.IsApproved,
		&user.Email,
		&user.Name,
		&user.Surname,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func mapUniqueViolation(err error) error {
	if !postgres.IsUniqueViolation(err) {
		return nil
	}
	switch postgres.ConstraintName(err) {
	case "users_username_key":
		return identity.ErrUsernameExists
	case "users_email_key":
		return identity.ErrEmailExists
	}
	return fmt.Errorf("%w: %w", domain.ErrConflict, err)
}
