package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/1997daniela/employeeVaccineInventory/internal/config"
	"github.com/1997daniela/employeeVaccineInventory/internal/handlers"
	"github.com/1997daniela/employeeVaccineInventory/internal/middleware"
)

// SetupRoutes configures all application routes. cache may be nil when
// the list cache is disabled.
func SetupRoutes(cfg *config.Config, deps handlers.Deps, cache handlers.Pinger, reg *prometheus.Registry) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	authHandler := handlers.NewAuthHandler(deps, &cfg.JWT)
	healthHandler := handlers.NewHealthHandler(deps.Store, cache)
	accountHandler := handlers.NewAccountHandler(deps)
	usersHandler := handlers.NewUsersHandler(deps)
	applicationUsers := handlers.NewApplicationUserHandler(deps)
	vaccines := handlers.NewVaccineHandler(deps)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.NewMetrics(reg).Handler)

	// Health check routes
	r.Get("/healthz", healthHandler.HealthCheck)
	r.Get("/livez", healthHandler.LivenessCheck)
	r.Get("/readyz", healthHandler.ReadinessCheck)

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Post("/api/authenticate", authHandler.Authenticate)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(&cfg.JWT))

		r.Get("/api/account", accountHandler.Get)
		r.Post("/api/account", accountHandler.Save)
		r.Get("/api/users", usersHandler.List)

		r.Route("/api/application-users", func(r chi.Router) {
			r.Get("/", applicationUsers.List)
			r.Post("/", applicationUsers.Create)
			r.Get("/{id}", applicationUsers.Get)
			r.Put("/{id}", applicationUsers.Update)
			r.Patch("/{id}", applicationUsers.PartialUpdate)
			r.Delete("/{id}", applicationUsers.Delete)
		})
		r.Route("/api/vaccines", func(r chi.Router) {
			r.Get("/", vaccines.List)
			r.Post("/", vaccines.Create)
			r.Get("/{id}", vaccines.Get)
			r.Put("/{id}", vaccines.Update)
			r.Patch("/{id}", vaccines.PartialUpdate)
			r.Delete("/{id}", vaccines.Delete)
		})
	})

	// Root route
	r.Get("/", rootHandler(cfg.Server.AppName))

	// Setup CORS
	alert := "X-" + cfg.Server.AppName
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"Authorization", "Location", middleware.RequestIDHeader, alert + "-alert", alert + "-error", alert + "-params"},
		AllowCredentials: cfg.CORS.AllowCredentials,
	})
	return c.Handler(r)
}

func rootHandler(app string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(app + " backend is running."))
	}
}
