// Package postgres provides PostgreSQL implementation of the feedback repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/domain"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/feedback"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const feedbackColumns = `id, lecturer_id, lecturer_name, course, feedback, rating, department, user_id, created_at, updated_at`

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repository implements feedback.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a feedback record.
func (r *Repository) Create(ctx context.Context, fb *domain.Feedback) error {
	query := `
		INSERT INTO feedback (id, lecturer_id, lecturer_name, course, feedback, rating, department, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		fb.ID,
		fb.LecturerID,
		fb.LecturerName,
		fb.Course,
		fb.Feedback,
		fb.Rating,
		fb.Department,
		fb.UserID,
		fb.CreatedAt,
		fb.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// List returns feedback matching filter in insertion order, each joined with
// the lecturer account it refers to.
func (r *Repository) List(ctx context.Context, filter feedback.Filter) ([]domain.Feedback, error) {
	query, args, err := psql.Select(
		"f.id", "f.lecturer_id", "f.lecturer_name", "f.course", "f.feedback", "f.rating",
		"f.department", "f.user_id", "f.created_at", "f.updated_at", "u.username",
	).
		From("feedback f").
		LeftJoin("users u ON u.id = f.lecturer_id").
		Where(conditions(filter)).
		OrderBy("f.position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Feedback, 0)
	for rows.Next() {
		var (
			fb       domain.Feedback
			username *string
		)
		err := rows.Scan(
			&fb.ID,
			&fb.LecturerID,
			&fb.LecturerName,
			&fb.Course,
			&fb.Feedback,
			&fb.Rating,
			&fb.Department,
			&fb.UserID,
			&fb.CreatedAt,
			&fb.UpdatedAt,
			&username,
		)
		if err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		if username != nil {
			fb.Lecturer = &domain.LecturerRef{ID: fb.LecturerID, Username: *username}
		}
		items = append(items, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feedback: %w", err)
	}
	return items, nil
}

// conditions turns the non-empty fields of filter into an equality
// conjunction on the feedback alias. An empty filter yields an empty
// squirrel.Eq, which matches all rows.
func conditions(filter feedback.Filter) squirrel.Eq {
	eq := squirrel.Eq{}
	for column, value := range map[string]string{
		"f.lecturer_id":   filter.LecturerID,
		"f.user_id":       filter.UserID,
		"f.lecturer_name": filter.LecturerName,
		"f.course":        filter.Course,
		"f.department":    filter.Department,
	} {
		if value != "" {
			eq[column] = value
		}
	}
	return eq
}

// UpdateOwned updates the record in one statement guarded by the author ID.
func (r *Repository) UpdateOwned(ctx context.Context, id, userID string, patch domain.FeedbackPatch) (*domain.Feedback, error) {
	if uuid.Validate(id) != nil || uuid.Validate(userID) != nil {
		return nil, domain.ErrNotFoundOrForbidden
	}

	builder := psql.Update("feedback").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		Suffix("RETURNING " + feedbackColumns)
	if patch.LecturerName != nil {
		builder = builder.Set("lecturer_name", *patch.LecturerName)
	}
	if patch.Course != nil {
		builder = builder.Set("course", *patch.Course)
	}
	if patch.Feedback != nil {
		builder = builder.Set("feedback", *patch.Feedback)
	}
	if patch.Rating != nil {
		builder = builder.Set("rating", *patch.Rating)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update query: %w", err)
	}

	fb, err := scanFeedback(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFoundOrForbidden
		}
		return nil, fmt.Errorf("update feedback: %w", err)
	}
	return fb, nil
}

// DeleteOwned deletes the record in one statement guarded by the author ID.
func (r *Repository) DeleteOwned(ctx context.Context, id, userID string) error {
	if uuid.Validate(id) != nil || uuid.Validate(userID) != nil {
		return domain.ErrNotFoundOrForbidden
	}

	result, err := r.db.Exec(ctx, `DELETE FROM feedback WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFoundOrForbidden
	}
	return nil
}

// Delete deletes the record regardless of author.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return feedback.ErrFeedbackNotFound
	}

	result, err := r.db.Exec(ctx, `DELETE FROM feedback WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	if result.RowsAffected() == 0 {
		return feedback.ErrFeedbackNotFound
	}
	return nil
}

// GroupRatings sums ratings per lecturer name, optionally split by UTC day.
func (r *Repository) GroupRatings(ctx context.Context, by feedback.Grouping) ([]feedback.RatingGroup, error) {
	day := "''"
	groupBy := []string{"lecturer_name"}
	if by == feedback.ByLecturerDay {
		day = `to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD')`
		groupBy = append(groupBy, day)
	}

	query, args, err := psql.
		Select("lecturer_name", day, "SUM(rating)", "COUNT(*)").
		From("feedback").
		GroupBy(groupBy...).
		OrderBy("MIN(position)").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build group query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("group ratings: %w", err)
	}
	defer rows.Close()

	groups := make([]feedback.RatingGroup, 0)
	for rows.Next() {
		var g feedback.RatingGroup
		if err := rows.Scan(&g.LecturerName, &g.Date, &g.Sum, &g.Count); err != nil {
			return nil, fmt.Errorf("scan rating group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating groups: %w", err)
	}
	return groups, nil
}

func scanFeedback(row pgx.Row) (*domain.Feedback, error) {
	var fb domain.Feedback
	err := row.Scan(
		&fb.ID,
		&fb.LecturerID,
		&fb.LecturerName,
		&fb.Course,
		&fb.Feedback,
		&fb.Rating,
		&fb.Department,
		&fb.UserID,
		&fb.CreatedAt,
		&fb.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &fb, nil
}
