package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Logger   *zap.Logger
	Registry *prometheus.Registry
}

func NewHandler(electionHandler *ElectionHandler, messageHandler *MessageHandler, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger.Named("http")))
	r.Use(middleware.Recoverer)

	if cfg.Registry != nil {
		r.Use(newHTTPMetrics(cfg.Registry).middleware)
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/elections", func(r chi.Router) {
			r.Get("/swing", electionHandler.GetSwing)
			r.Get("/years", electionHandler.GetYears)
		})
		r.Get("/demographics", electionHandler.GetDemographics)

		r.Route("/messages", func(r chi.Router) {
			r.Post("/", messageHandler.CreateMessage)
			r.Post("/classify", messageHandler.Classify)
			r.Get("/{id}", messageHandler.GetMessage)
			r.Post("/{id}/submit", messageHandler.Submit)
			r.Post("/{id}/approve", messageHandler.Approve)
			r.Post("/{id}/reject", messageHandler.Reject)
			r.Post("/{id}/revise", messageHandler.Revise)
		})
	})

	return r
}
