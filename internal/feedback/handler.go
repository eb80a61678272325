package feedback

import (
	"net/http"
	"strconv"

	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/domain"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
)

// Handler handles HTTP requests for the feedback module.
type Handler struct {
	service *Service
}

// NewHandler creates a new feedback handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes registers the unscoped rating views. They need no
// authentication.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/feedback/average-ratings", h.AverageRatings)
	r.Get("/feedback/top-ratings", h.TopRatings)
	r.Get("/analytics/average-ratings", h.AverageRatings)
	r.Get("/analytics/rating-trends", h.RatingTrends)
}

// RegisterProtectedRoutes registers routes for any authenticated caller.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/feedback", h.Submit)
	r.Get("/feedback", h.List)
	r.Put("/feedback/{id}", h.Update)
	r.Delete("/feedback/{id}", h.Delete)
}

// RegisterAdminRoutes registers routes that must be mounted behind an admin
// role check.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Delete("/admin/feedback/{id}", h.AdminDelete)
}

// Submit handles POST /feedback.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var input SubmitInput
	if err := httputil.DecodeJSON(r, &input); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	fb, err := h.service.Submit(r.Context(), httputil.GetUserID(r.Context()), input)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusCreated, fb)
}

// List handles GET /feedback.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, _ := httputil.GetIdentity(r.Context())
	q := r.URL.Query()

	items, err := h.service.List(r.Context(), caller, Query{
		LecturerName: q.Get("lecturer_name"),
		Course:       q.Get("course"),
		Department:   q.Get("department"),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, items)
}

// Update handles PUT /feedback/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.FeedbackPatch
	if err := httputil.DecodeJSON(r, &patch); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	fb, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), httputil.GetUserID(r.Context()), patch)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, fb)
}

// Delete handles DELETE /feedback/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), httputil.GetUserID(r.Context())); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.Message(w, http.StatusOK, "Feedback deleted successfully")
}

// AdminDelete handles DELETE /admin/feedback/{id}.
func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.AdminDelete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AverageRatings handles GET /feedback/average-ratings and
// GET /analytics/average-ratings.
func (h *Handler) AverageRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.service.AverageRatings(r.Context(), 0)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, ratings)
}

// TopRatings handles GET /feedback/top-ratings?limit=N.
func (h *Handler) TopRatings(w http.ResponseWriter, r *http.Request) {
	limit := DefaultTopLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			h.handleServiceError(w, r, ErrInvalidLimit)
			return
		}
		limit = n
	}

	ratings, err := h.service.TopRatings(r.Context(), limit)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, ratings)
}

// RatingTrends handles GET /analytics/rating-trends.
func (h *Handler) RatingTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := h.service.RatingTrends(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, trends)
}

var errorMappings = append([]httputil.ErrorMapping{
	{Error: domain.ErrNotFoundOrForbidden, Status: http.StatusNotFound, Message: "feedback not found or not authorized"},
	{Error: ErrLecturerNotFound, Status: http.StatusNotFound, Message: "lecturer not found"},
	{Error: ErrNoRatings, Status: http.StatusNotFound, Message: "no lecturers found"},
}, httputil.DomainErrorMappings...)

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	httputil.HandleError(r.Context(), w, err, errorMappings)
}
