package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deliberate/deliberate/internal/catalog"
)

// RouterConfig holds the optional pieces of the API router.
type RouterConfig struct {
	APIKey  string
	Metrics *Metrics
}

// NewRouter builds the deliberation API.
func NewRouter(svc *catalog.Service, cfg RouterConfig, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(CORS)

	h := NewHandler(svc, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(cfg.APIKey))

		r.Get("/deliberations", h.List)
		r.Post("/deliberations", h.Create)
		r.Delete("/deliberations", h.Clear)

		r.Route("/deliberations/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Patch("/", h.Rename)
			r.Delete("/", h.Delete)

			r.Post("/contenders", h.AddContender)
			r.Delete("/contenders/{cid}", h.RemoveContender)
			r.Post("/criteria", h.AddCriterion)
			r.Delete("/criteria/{kid}", h.RemoveCriterion)

			r.Put("/appraisals", h.Appraise)
			r.Put("/weights/{kid}", h.Weigh)
			r.Post("/weights/equalize", h.Equalize)
			r.Post("/weights/normalize", h.Normalize)

			r.Get("/ranking", h.Ranking)
			r.Get("/report", h.Report)
			r.Get("/share", h.Share)
		})

		r.Get("/stats", h.Stats)
		r.Get("/templates", h.Templates)
		r.Post("/templates/{key}", h.FromTemplate)
	})

	return r
}

// NewMetricsRouter serves /health and the Prometheus endpoint for g.
func NewMetricsRouter(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}
