package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BradenHooton/emporium/internal/auth"
	"github.com/BradenHooton/emporium/internal/handlers"
	"github.com/BradenHooton/emporium/internal/middleware"
	"github.com/BradenHooton/emporium/internal/models"
	pkghttp "github.com/BradenHooton/emporium/pkg/http"
)

// Dependencies is everything RegisterRoutes needs to mount the API
type Dependencies struct {
	AuthHandler    *handlers.AuthHandler
	UserHandler    *handlers.UserHandler
	ProductHandler *handlers.ProductHandler
	HealthHandler  *handlers.HealthHandler

	Tokens auth.TokenValidator
	Users  auth.UserRepository // role lookups for admin-only routes

	LoginRateLimit middleware.RateLimitConfig
	APIRateLimit   middleware.AuthenticatedRateLimitConfig
}

// RegisterRoutes registers all application routes
func RegisterRoutes(router chi.Router, deps Dependencies) {
	router.Get("/health", deps.HealthHandler.Health)

	router.Route("/api", func(api chi.Router) {
		// Public: the login gate itself decides lockout per identity
		api.With(middleware.RateLimitByIP(deps.LoginRateLimit)).
			Post("/authentication/login", deps.AuthHandler.Login)

		// Protected routes - authentication required
		api.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware(deps.Tokens))
			r.Use(middleware.RateLimitAuthenticated(deps.APIRateLimit))

			deps.UserHandler.RegisterRoutes(r, auth.RequireRole(deps.Users, models.RoleAdmin))
			deps.ProductHandler.RegisterRoutes(r)
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		pkghttp.WriteNotFound(w, "Route not found")
	})
}
