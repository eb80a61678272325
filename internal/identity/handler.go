package identity

import (
	"net/http"
	"time"

	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/domain"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
)

// Handler handles HTTP requests for the identity module.
type Handler struct {
	service *Service
}

// NewHandler creates a new identity handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers public identity routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})
}

// RegisterProtectedRoutes registers routes for any authenticated caller.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/profile", h.GetProfile)
	r.Put("/profile", h.UpdateProfile)
	r.Get("/user/profile", h.GetProfile)
	r.Put("/user/profile", h.UpdateProfile)
	r.Delete("/user/account", h.DeleteAccount)
}

// RegisterAdminRoutes registers user management routes. The caller must
// mount them behind an admin role check.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/admin", h.AdminCheck)
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Post("/", h.AddUser)
		r.Delete("/{id}", h.DeleteUser)
		r.Put("/{id}/approve", h.ApproveUser)
	})
	r.Put("/approve-user/{id}", h.ApproveUser)
}

// RegisterResponse is returned by POST /auth/register.
type RegisterResponse struct {
	User    *domain.User `json:"user"`
	Message string       `json:"message"`
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var input RegisterInput
	if err := httputil.DecodeJSON(r, &input); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	user, err := h.service.Register(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	message := "User registered successfully, awaiting approval"
	if user.IsApproved {
		message = "User registered successfully and approved"
	}

	httputil.Success(w, http.StatusCreated, RegisterResponse{User: user, Message: message})
}

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	Role      domain.Role `json:"role"`
	Username  string      `json:"username"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input LoginInput
	if err := httputil.DecodeJSON(r, &input); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	result, err := h.service.Login(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, LoginResponse{
		Token:     result.Token.AccessToken,
		ExpiresAt: result.Token.ExpiresAt,
		Role:      result.User.Role,
		Username:  result.User.Username,
	})
}

// GetProfile handles GET /profile and GET /user/profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetProfile(r.Context(), httputil.GetUserID(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /profile and PUT /user/profile.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var input ProfileInput
	if err := httputil.DecodeJSON(r, &input); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), httputil.GetUserID(r.Context()), input)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, user)
}

// DeleteAccount handles DELETE /user/account.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAccount(r.Context(), httputil.GetUserID(r.Context())); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminCheck handles GET /admin.
func (h *Handler) AdminCheck(w http.ResponseWriter, _ *http.Request) {
	httputil.Message(w, http.StatusOK, "Welcome, admin")
}

// ListUsers handles GET /users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	var role *domain.Role
	if v := r.URL.Query().Get("role"); v != "" {
		rv := domain.Role(v)
		role = &rv
	}

	users, err := h.service.ListUsers(r.Context(), role)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, users)
}

// AddUser handles POST /users.
func (h *Handler) AddUser(w http.ResponseWriter, r *http.Request) {
	var input RegisterInput
	if err := httputil.DecodeJSON(r, &input); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	user, err := h.service.AddUser(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusCreated, user)
}

// DeleteUser handles DELETE /users/{id}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApproveUser handles PUT /users/{id}/approve and PUT /approve-user/{id}.
func (h *Handler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, user)
}

var errorMappings = append([]httputil.ErrorMapping{
	{Error: ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid username or password"},
	{Error: ErrAccountNotApproved, Status: http.StatusForbidden, Message: "account not approved by admin"},
	{Error: ErrUsernameExists, Status: http.StatusConflict, Message: "username already exists"},
	{Error: ErrEmailExists, Status: http.StatusConflict, Message: "email already exists"},
	{Error: ErrInvalidToken, Status: http.StatusUnauthorized},
}, httputil.DomainErrorMappings...)

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	httputil.HandleError(r.Context(), w, err, errorMappings)
}
