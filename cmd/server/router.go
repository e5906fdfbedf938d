package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crowdsrc/internal/crowdsrc/handler"
	"crowdsrc/internal/platform/config"
	"crowdsrc/internal/platform/middleware"
)

func newRouter(cfg config.Server, log *slog.Logger, api *handler.Handler, health http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	api.Register(r)
	r.Get("/health", health)
	r.Handle("/metrics", promhttp.Handler())
	return r
}
