package feedback

import (
	"fmt"

	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/domain"
)

// Feedback errors.
var (
	ErrFeedbackNotFound = fmt.Errorf("feedback %w", domain.ErrNotFound)
	ErrLecturerNotFound = fmt.Errorf("lecturer %w", domain.ErrNotFound)
	ErrAuthorNotFound   = fmt.Errorf("author %w", domain.ErrNotFound)
	ErrNoRatings        = fmt.Errorf("no lecturers found: %w", domain.ErrNotFound)
	ErrInvalidLimit     = fmt.Errorf("%w: limit must be a positive integer", domain.ErrValidation)
)
