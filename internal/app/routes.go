package app

import (
	"context"
	"net/http"
	"time"

	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/api/openapi"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/domain"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/feedback"
	feedbackpostgres "github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/feedback/postgres"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/identity"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/identity/jwt"
	identitypostgres "github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/identity/postgres"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/pkg/ctxlog"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/pkg/httputil"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/version"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// routes builds the services and mounts them. ctx outlives requests and is
// handed to the notification workers.
func (a *App) routes(ctx context.Context) (http.Handler, error) {
	notifier, err := a.startNotifications(ctx)
	if err != nil {
		return nil, err
	}

	// A nil *Notifier stored in an interface would not compare equal to nil,
	// so the interfaces are only set when notifications are on.
	var (
		accountNotifier  identity.AccountNotifier
		feedbackNotifier feedback.Notifier
	)
	if notifier != nil {
		accountNotifier = notifier
		feedbackNotifier = notifier
	}

	authenticator := jwt.NewAuthenticator(jwt.Config{
		SecretKey:           a.config.JWT.SecretKey,
		Issuer:              a.config.JWT.Issuer,
		AccessTokenDuration: a.config.JWT.AccessTokenDuration,
	})
	users := identity.NewService(
		identitypostgres.NewRepository(a.db),
		authenticator,
		identity.BcryptHasher{},
		accountNotifier,
	)
	ratings := feedback.NewService(feedbackpostgres.NewRepository(a.db), users, feedbackNotifier)

	usersAPI := identity.NewHandler(users)
	feedbackAPI := feedback.NewHandler(ratings)

	r := chi.NewRouter()
	// Metrics first so the recorded latency covers every other middleware.
	r.Use(httputil.MetricsMiddleware)
	r.Use(httputil.CORSMiddleware(a.config.CORS.AllowedOrigins))
	r.Use(middleware.RequestID)
	r.Use(httputil.RequestLoggerMiddleware(a.logger))
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(a.config.Server.RequestTimeout))

	r.Get("/healthz", a.healthz)
	r.Get("/readyz", a.readyz)
	r.Get("/version", a.versionInfo)
	r.Get("/api/openapi.yaml", serveOpenAPI)

	r.Route("/api/v1", func(r chi.Router) {
		usersAPI.RegisterRoutes(r)
		feedbackAPI.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(httputil.AuthMiddleware(users))
			usersAPI.RegisterProtectedRoutes(r)
			feedbackAPI.RegisterProtectedRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(httputil.RequireRole(domain.RoleAdmin))
				usersAPI.RegisterAdminRoutes(r)
				feedbackAPI.RegisterAdminRoutes(r)
			})
		})
	})

	return r, nil
}

func (a *App) healthz(w http.ResponseWriter, _ *http.Request) {
	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := a.db.Ping(ctx); err != nil {
		ctxlog.FromContext(r.Context()).Error("database ping failed", "error", err)
		httputil.Text(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) versionInfo(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{
		"version":    version.Version,
		"commit":     version.GitCommit,
		"build_date": version.BuildDate,
	})
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openapi.Spec)
}
