package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stridekart/catalog/pkg/health"
	"github.com/stridekart/catalog/pkg/middleware"
)

// NewRouter builds the service router with all middleware and routes.
func NewRouter(
	products *ProductHandler,
	reviews *ReviewHandler,
	healthHandler *health.Handler,
	log *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(log))
	r.Use(middleware.Tracing("catalog"))
	r.Use(middleware.RequestLogging(log))
	r.Use(middleware.PrometheusMetrics("catalog"))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", products.List)
		r.Post("/", products.Create)
		r.Get("/top", products.Top)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", products.Get)
			r.Put("/", products.Update)
			r.Delete("/", products.Delete)
			r.Post("/reviews", reviews.Submit)
		})
	})

	return r
}
