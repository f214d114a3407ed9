package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/hr-platform/app"
	"github.com/upb/hr-platform/config"
	"github.com/upb/hr-platform/handlers"
	"github.com/upb/hr-platform/middleware"
	"github.com/upb/hr-platform/utils"
)

// newRouter builds the router every service shares: core middleware, CORS,
// health endpoints and JSON fallbacks for unknown routes.
func newRouter(deps *app.Dependencies) chi.Router {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimw.RequestID)
	if deps.Config.Server.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(deps.Config.Server.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	checks := map[string]handlers.HealthChecker{}
	if deps.DB != nil {
		checks["database"] = deps.DB
	}
	health := handlers.NewHealthHandler(string(deps.Config.Service), checks, deps.Logger)
	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	return r
}

// SetupAuthRoutes configures the routes of auth-service
func SetupAuthRoutes(deps *app.Dependencies) http.Handler {
	r := newRouter(deps)
	auth := handlers.NewAuthHandler(deps.Authenticator, deps.Logger)

	r.Route("/auth", func(r chi.Router) {
		r.With(deps.LoginLimiter.Middleware).Post("/login", auth.HandleLogin)
		r.With(deps.AuthMiddleware.Authenticate).Post("/logout", auth.HandleLogout)
		r.Get("/validate", auth.HandleValidate)
	})

	return r
}

// SetupHRRoutes configures the routes of hr-service. Every route requires a
// principal; which principal may do what is decided by the services.
func SetupHRRoutes(deps *app.Dependencies) http.Handler {
	r := newRouter(deps)
	profiles := handlers.NewProfileHandler(deps.Profiles, deps.Logger)
	absences := handlers.NewAbsenceHandler(deps.Absences, deps.Logger)
	feedback := handlers.NewFeedbackHandler(deps.FeedbackService, deps.Logger)

	r.Group(func(r chi.Router) {
		r.Use(deps.AuthMiddleware.Authenticate)
		r.Use(deps.AuthMiddleware.RequireAuth)

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", profiles.HandleList)
			r.Get("/me", profiles.HandleGetMe)
			r.Get("/{id}", profiles.HandleGet)
			r.Put("/{id}", profiles.HandleUpdate)
			r.Get("/{id}/feedback", feedback.HandleList)
			r.Post("/{id}/feedback", feedback.HandleCreate)
		})

		r.Route("/absences", func(r chi.Router) {
			r.Post("/", absences.HandleCreate)
			r.Get("/me", absences.HandleListMine)
			r.Get("/pending", absences.HandleListPending)
			r.Patch("/{id}/approve", absences.HandleApprove)
			r.Patch("/{id}/reject", absences.HandleReject)
		})
	})

	return r
}

// SetupEnrichmentRoutes configures the routes of enrichment-service
func SetupEnrichmentRoutes(deps *app.Dependencies) http.Handler {
	r := newRouter(deps)
	polish := handlers.NewPolishHandler(deps.Polisher, deps.Logger)

	r.Post("/polish", polish.HandlePolish)

	return r
}

// SetupRoutes picks the route set of the configured service
func SetupRoutes(deps *app.Dependencies) http.Handler {
	switch deps.Config.Service {
	case config.ServiceAuth:
		return SetupAuthRoutes(deps)
	case config.ServiceHR:
		return SetupHRRoutes(deps)
	default:
		return SetupEnrichmentRoutes(deps)
	}
}
