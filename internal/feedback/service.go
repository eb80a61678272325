// Package feedback implements the role-scoped feedback store and the rating
// aggregations built on it.
package feedback

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
	"github.com/google/uuid"
)

// DefaultTopLimit is the number of lecturers TopRatings returns when the
// caller does not ask for a specific count.
const DefaultTopLimit = 2

// Directory looks up the users feedback refers to.
type Directory interface {
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	ResolveLecturer(ctx context.Context, name string) (*domain.User, error)
}

// Notifier is told about accepted feedback. Errors are logged only.
type Notifier interface {
	NotifyFeedbackReceived(ctx context.Context, lecturer *domain.User, fb *domain.Feedback) error
}

// Service implements feedback business logic.
type Service struct {
	repo      Repository
	directory Directory
	notifier  Notifier
	validator *validator.Validate
	now       func() time.Time
}

// NewService creates a new feedback service. notifier may be nil.
func NewService(repo Repository, directory Directory, notifier Notifier) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		notifier:  notifier,
		validator: validate.New(),
		now:       time.Now,
	}
}

// SubmitInput holds data for a new feedback record.
type SubmitInput struct {
	LecturerName string `json:"lecturer_name" validate:"required,max=255"`
	Course       string `json:"course" validate:"required,max=255"`
	Feedback     string `json:"feedback" validate:"required"`
	Rating       int    `json:"rating" validate:"required,min=1,max=10"`
	Department   string `json:"department" validate:"required,max=255"`
}

// Submit stores feedback written by authorID about the lecturer named in
// input and notifies that lecturer.
func (s *Service) Submit(ctx context.Context, authorID string, input SubmitInput) (*domain.Feedback, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	lecturer, err := s.directory.ResolveLecturer(ctx, input.LecturerName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrLecturerNotFound
		}
		return nil, fmt.Errorf("resolve lecturer: %w", err)
	}

	if _, err := s.directory.GetUserByID(ctx, authorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, fmt.Errorf("get author: %w", err)
	}

	now := s.now().UTC()
	fb := &domain.Feedback{
		ID:           uuid.NewString(),
		LecturerID:   lecturer.ID,
		LecturerName: lecturer.Username,
		Course:       input.Course,
		Feedback:     input.Feedback,
		Rating:       input.Rating,
		Department:   input.Department,
		UserID:       authorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, fb); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}

	metrics.FeedbackSubmitted.WithLabelValues(fb.Department).Inc()

	if s.notifier != nil {
		if err := s.notifier.NotifyFeedbackReceived(ctx, lecturer, fb); err != nil {
			ctxlog.FromContext(ctx).Warn("feedback notification failed",
				"feedback_id", fb.ID,
				"lecturer_id", lecturer.ID,
				"error", err,
			)
		}
	}

	return fb, nil
}

// List returns the feedback caller may see, narrowed by query.
func (s *Service) List(ctx context.Context, caller domain.Identity, query Query) ([]domain.Feedback, error) {
	items, err := s.repo.List(ctx, Scope(caller).With(query))
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return items, nil
}

// Update applies patch to feedback id if callerID wrote it. The lecturer
// reference is not re-resolved when the lecturer name changes.
func (s *Service) Update(ctx context.Context, id, callerID string, patch domain.FeedbackPatch) (*domain.Feedback, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return s.repo.UpdateOwned(ctx, id, callerID, patch)
}

// Delete removes feedback id if callerID wrote it.
func (s *Service) Delete(ctx context.Context, id, callerID string) error {
	return s.repo.DeleteOwned(ctx, id, callerID)
}

// AdminDelete removes feedback id without an ownership check.
func (s *Service) AdminDelete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// AverageRatings ranks lecturers by mean rating across all feedback. It is
// not scoped by caller. limit <= 0 returns the full ranking, which may be
// empty.
func (s *Service) AverageRatings(ctx context.Context, limit int) ([]domain.LecturerRating, error) {
	groups, err := s.repo.GroupRatings(ctx, ByLecturer)
	if err != nil {
		return nil, fmt.Errorf("group ratings: %w", err)
	}
	return rankLecturers(groups, limit), nil
}

// TopRatings returns the limit best rated lecturers. Unlike AverageRatings
// an empty result is ErrNoRatings.
func (s *Service) TopRatings(ctx context.Context, limit int) ([]domain.LecturerRating, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	ratings, err := s.AverageRatings(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(ratings) == 0 {
		return nil, ErrNoRatings
	}
	return ratings, nil
}

// RatingTrends returns each lecturer's mean rating per UTC day, oldest day
// first. It is not scoped by caller.
func (s *Service) RatingTrends(ctx context.Context) ([]domain.RatingTrend, error) {
	groups, err := s.repo.GroupRatings(ctx, ByLecturerDay)
	if err != nil {
		return nil, fmt.Errorf("group ratings: %w", err)
	}
	return trendSeries(groups), nil
}
