package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/adlens/internal/config"
)

// SetupRoutes configures all API routes. metrics may be nil.
func SetupRoutes(h *Handlers, cfg config.ServerConfig, metrics http.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/ad-accounts/{accountID}", func(r chi.Router) {
			r.Get("/platform-accounts", h.ListPlatformAccounts)

			r.Get("/profile", h.GetProfile)
			r.Post("/profile", h.OnboardProfile)
			r.Put("/profile", h.UpdateProfile)

			// Generation fans out to Graph and a model; give it its own deadline.
			r.With(middleware.Timeout(90*time.Second)).Post("/reports", h.GenerateReport)
			r.Get("/reports", h.ListReports)
			r.Get("/reports/{reportID}", h.GetAccountReport)

			r.Get("/schedules", h.ListSchedules)
			r.Post("/schedules", h.CreateSchedule)
		})

		r.Get("/reports/{reportID}", h.GetReport)
		r.Get("/reports/{reportID}/analysis", h.GetReportAnalysis)

		r.Get("/schedules/{scheduleID}", h.GetSchedule)
		r.Delete("/schedules/{scheduleID}", h.DeactivateSchedule)
		r.Get("/schedules/{scheduleID}/deliveries", h.ListDeliveries)

		if cfg.CronSecret != "" {
			r.Group(func(r chi.Router) {
				r.Use(requireBearer(cfg.CronSecret))
				r.Get("/cron/send-reports", h.RunScheduledReports)
				r.Post("/cron/send-reports", h.RunScheduledReports)
			})
		}
	})

	return r
}
