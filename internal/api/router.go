package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/madatlas/madatlas-be/internal/api/handlers"
	"github.com/madatlas/madatlas-be/internal/auth"
	"github.com/madatlas/madatlas-be/internal/config"
	"github.com/madatlas/madatlas-be/internal/models"
	"github.com/madatlas/madatlas-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	cfg *config.Config,
	userService services.UserServiceProvider,
	postService services.PostServiceProvider,
	contactService services.ContactServiceProvider,
	tokenService *auth.TokenService,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS for the frontend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authMiddleware := auth.NewMiddleware(userService, tokenService)
	authHandler := handlers.NewAuthHandler(userService, tokenService)
	postHandler := handlers.NewPostHandler(postService)
	contactHandler := handlers.NewContactHandler(contactService)

	// Public authentication endpoints
	r.Post("/register", authHandler.Register)
	r.Post("/auth/token", authHandler.Token)

	// Endpoints requiring a valid bearer token
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)
		r.Get("/me", authHandler.Me)
		r.Post("/refresh", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)
		r.With(authMiddleware.RequireRole(models.RoleAdmin)).Get("/admin-only", authHandler.AdminOnly)
	})

	requireAdmin := func(r chi.Router) chi.Router {
		return r.With(authMiddleware.RequireAuth, authMiddleware.RequireRole(models.RoleAdmin))
	}

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", postHandler.List)
		requireAdmin(r).Post("/", postHandler.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", postHandler.Get)
			requireAdmin(r).Put("/", postHandler.Update)
			requireAdmin(r).Delete("/", postHandler.Delete)
		})
	})

	r.Route("/contact", func(r chi.Router) {
		r.Post("/", contactHandler.Submit)
	})

	return r
}
