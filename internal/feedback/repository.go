package feedback

import (
	"context"

	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/domain"
)

// Repository is the feedback store.
type Repository interface {
	Create(ctx context.Context, fb *domain.Feedback) error
	// List returns feedback matching filter in insertion order.
	List(ctx context.Context, filter Filter) ([]domain.Feedback, error)

	// UpdateOwned applies patch to the record only when userID authored it.
	// Missing and foreign records both yield domain.ErrNotFoundOrForbidden.
	UpdateOwned(ctx context.Context, id, userID string, patch domain.FeedbackPatch) (*domain.Feedback, error)
	// DeleteOwned deletes the record only when userID authored it.
	// Missing and foreign records both yield domain.ErrNotFoundOrForbidden.
	DeleteOwned(ctx context.Context, id, userID string) error
	// Delete removes the record regardless of author.
	Delete(ctx context.Context, id string) error

	// GroupRatings sums and counts ratings of all feedback per group. Groups
	// are returned in the order their first record was inserted.
	GroupRatings(ctx context.Context, by Grouping) ([]RatingGroup, error)
}

// Grouping selects the key GroupRatings groups by.
type Grouping int

// Groupings.
const (
	ByLecturer Grouping = iota
	ByLecturerDay
)

// RatingGroup is the raw rating total of one group. Date is the UTC day
// (YYYY-MM-DD) for ByLecturerDay and empty otherwise.
type RatingGroup struct {
	LecturerName string
	Date         string
	Sum          int64
	Count        int64
}
