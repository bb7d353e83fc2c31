package routes

import (
	"net/http"
	"time"

	"dental-analytics/sheetbridge/internal/api"
	"dental-analytics/sheetbridge/internal/config"
	"dental-analytics/sheetbridge/internal/logging"
	"dental-analytics/sheetbridge/internal/metrics"
	"dental-analytics/sheetbridge/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
)

// RegisterRoutes wires the sync trigger endpoints behind the shared
// middleware stack.
func RegisterRoutes(
	handlers *api.Handlers,
	reg *metrics.Registry,
	db *sqlx.DB,
	cfg config.SyncConfig,
	upSince time.Time,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(reg))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	logging.Info("Router initialized with metrics and logging middleware")

	r.Get("/healthCheck", api.HealthCheckHandler(db, upSince))

	r.Route("/api/sync", func(r chi.Router) {
		r.Use(middleware.RateLimitMiddleware)
		r.Use(middleware.WebhookAuth(cfg.WebhookSecret))

		r.Post("/run", handlers.RunSync)
		r.Post("/edit", handlers.EditWebhook)
		r.Post("/test", handlers.TestConnection)
		r.Get("/runs", handlers.ListRuns)
	})

	return r
}
