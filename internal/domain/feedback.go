package domain

import "time"

// Rating bounds, inclusive.
const (
	MinRating = 1
	MaxRating = 10
)

// Feedback is a single course review left by a user for a lecturer.
// LecturerName is a snapshot of the lecturer's username taken at write time.
// Lecturer is the current account behind LecturerID; listings fill it in and
// leave it nil once that account is gone.
type Feedback struct {
	ID           string       `json:"id"`
	LecturerID   string       `json:"lecturer_id"`
	LecturerName string       `json:"lecturer_name"`
	Lecturer     *LecturerRef `json:"lecturer,omitempty"`
	Course       string       `json:"course"`
	Feedback     string       `json:"feedback"`
	Rating       int          `json:"rating"`
	Department   string       `json:"department"`
	UserID       string       `json:"user_id"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// LecturerRef identifies the lecturer account a feedback record points at.
type LecturerRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// FeedbackPatch holds the fields an author may change. Nil fields are left unchanged.
type FeedbackPatch struct {
	LecturerName *string `json:"lecturer_name,omitempty" validate:"omitempty,min=1,max=255"`
	Course       *string `json:"course,omitempty" validate:"omitempty,min=1,max=255"`
	Feedback     *string `json:"feedback,omitempty" validate:"omitempty,min=1"`
	Rating       *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=10"`
}

// IsEmpty reports whether the patch changes nothing.
func (p FeedbackPatch) IsEmpty() bool {
	return p.LecturerName == nil && p.Course == nil && p.Feedback == nil && p.Rating == nil
}

// LecturerRating is one row of the lecturer ranking.
type LecturerRating struct {
	LecturerName  string  `json:"lecturer_name"`
	AverageRating float64 `json:"average_rating"`
	FeedbackCount int64   `json:"feedback_count"`
}

// RatingTrend is the mean rating of a lecturer on one UTC calendar day.
type RatingTrend struct {
	LecturerName  string  `json:"lecturer_name"`
	Date          string  `json:"date"`
	AverageRating float64 `json:"average_rating"`
}
