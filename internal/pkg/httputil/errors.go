package httputil

import (
	"context"
	"errors"
	"net/http"

	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/domain"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/pkg/ctxlog"
	"github.com/go-playground/validator/v10"
)

// ErrorMapping defines how a domain error maps to an HTTP response.
type ErrorMapping struct {
	Error   error
	Status  int
	Message string // if empty, uses err.Error()
}

// DomainErrorMappings maps the shared error kinds. Handlers append their own,
// more specific mappings in front of these.
var DomainErrorMappings = []ErrorMapping{
	{Error: domain.ErrNotFoundOrForbidden, Status: http.StatusNotFound},
	{Error: domain.ErrNotFound, Status: http.StatusNotFound},
	{Error: domain.ErrForbidden, Status: http.StatusForbidden},
	{Error: domain.ErrInvalidCredentials, Status: http.StatusUnauthorized},
	{Error: domain.ErrConflict, Status: http.StatusConflict},
}

// HandleError maps a domain error to an HTTP response using provided mappings.
// Validation errors always become 400 with field details.
// If no mapping matches, logs the error and returns 500 Internal Server Error.
func HandleError(ctx context.Context, w http.ResponseWriter, err error, mappings []ErrorMapping) {
	if errors.Is(err, domain.ErrValidation) {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			ValidationError(w, fieldErrs)
			return
		}
		ValidationError(w, err)
		return
	}

	for _, m := range mappings {
		if errors.Is(err, m.Error) {
			msg := m.Message
			if msg == "" {
				msg = err.Error()
			}
			Error(w, m.Status, msg)
			return
		}
	}
	ctxlog.FromContext(ctx).Error("internal error", "error", err)
	Error(w, http.StatusInternalServerError, "internal error")
}
