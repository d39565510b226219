package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hugh/go-roster/internal/accounts"
	"github.com/hugh/go-roster/internal/api/dto"
	"github.com/hugh/go-roster/internal/api/handlers"
	"github.com/hugh/go-roster/internal/api/middleware"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client // optional
	Logger         *slog.Logger
	Accounts       *accounts.Service
	AllowedOrigins []string           // CORS allowed origins
	RateLimiter    middleware.Limiter // nil disables rate limiting
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	if cfg.RateLimiter != nil {
		r.Use(middleware.RateLimit(cfg.RateLimiter, cfg.Logger))
	}

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	userHandler := handlers.NewUserHandler(cfg.Accounts, cfg.Logger)
	roleHandler := handlers.NewRoleHandler(cfg.Accounts, cfg.Logger)
	txHandler := handlers.NewTransactionHandler(cfg.Accounts, cfg.Logger)

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/roles", func(r chi.Router) {
			r.Get("/", roleHandler.List)
			r.Post("/", roleHandler.Create)
			r.Get("/{id}", roleHandler.Get)
			r.Put("/{id}", roleHandler.Update)
			r.Delete("/{id}", roleHandler.Delete)
			r.Get("/{id}/users", roleHandler.Users)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.List)
			r.Post("/", userHandler.Create)
			r.Get("/{id}", userHandler.Get)
			r.Put("/{id}", userHandler.Update)
			r.Delete("/{id}", userHandler.Delete)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/assign-users-to-role", txHandler.AssignUsersToRole)
			r.Post("/transfer-users-between-roles", txHandler.TransferUsersBetweenRoles)
			r.Delete("/roles/{id}", txHandler.DeleteRoleWithReassignment)
			r.Post("/create-user-with-role", txHandler.CreateUserWithRole)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, dto.Error("Route not found", "ROUTE_NOT_FOUND"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, dto.Error("Method not allowed", "METHOD_NOT_ALLOWED"))
	})

	return &Router{r}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
