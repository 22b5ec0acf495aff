package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/power2u/traineasy-web/internal/api/handler"
	"github.com/power2u/traineasy-web/internal/config"
)

// NewRouter creates and configures the Chi router with all middleware and
// routes. HTTP metrics are registered on reg and served at /metrics together
// with everything else reg gathers.
func NewRouter(deps handler.Deps, cfg *config.Config, reg *prometheus.Registry) *chi.Mux {
	r := chi.NewRouter()

	httpMetrics := NewHTTPMetrics(reg)

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httpMetrics.Middleware)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Authorization", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	h := handler.New(deps)
	cronAuth := RequireBearer(cfg.CronSecret)
	adminAuth := RequireBearer(cfg.AdminSecret)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Cron-triggered notification jobs
		r.Route("/notifications", func(r chi.Router) {
			r.With(adminAuth).Post("/broadcast", h.Broadcast)
			r.Group(func(r chi.Router) {
				r.Use(cronAuth)
				for slug, kinds := range handler.JobKinds {
					r.Post("/"+slug, h.RunJob(kinds...))
				}
			})
		})

		// Public content
		r.Get("/content/banners", h.GetBanners)
		r.Get("/content/packages", h.GetPackages)

		// Browser notification relay
		r.Get("/relay/{userID}", h.DrainRelay)
		r.With(adminAuth).Post("/relay/{userID}", h.EnqueueRelay)

		// Per-user tracking and settings
		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/preferences", h.GetPreferences)
			r.Put("/preferences", h.UpdatePreferences)
			r.Post("/devices", h.RegisterDevice)
			r.Delete("/devices", h.UnregisterDevice)

			r.Get("/water", h.GetWater)
			r.Post("/water", h.AddWater)
			r.Put("/water/goal", h.SetWaterGoal)
			r.Get("/water/history", h.WaterHistory)

			r.Get("/meals", h.GetMeals)
			r.Put("/meals/{meal}", h.MarkMeal)

			r.Get("/measurements", h.MeasurementHistory)
			r.Post("/measurements", h.SaveMeasurement)

			r.Post("/weight", h.LogWeight)
			r.Get("/weight/latest", h.LatestWeight)
			r.Get("/weight/history", h.WeightHistory)
		})

		// Admin content
		r.Route("/admin", func(r chi.Router) {
			r.Use(adminAuth)
			r.Post("/banners", h.SaveBanner)
			r.Put("/banners/{id}", h.SaveBanner)
			r.Delete("/banners/{id}", h.DeactivateBanner)
			r.Post("/packages", h.SavePackage)
			r.Delete("/packages/{id}", h.DeactivatePackage)
			r.Get("/templates", h.ListTemplates)
			r.Post("/templates", h.SaveTemplate)
		})
	})

	return r
}
