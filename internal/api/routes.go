// Package api exposes the campaign scoring pipeline over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/sells-group/campaign-cli/internal/config"
	"github.com/sells-group/campaign-cli/internal/pipeline"
)

// NewRouter builds the HTTP handler for the scoring service.
func NewRouter(p *pipeline.Pipeline, cfg config.ServerConfig) http.Handler {
	h := &Handlers{pipeline: p, maxBodyBytes: cfg.MaxBodyBytes}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{runIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)

	r.Route("/v1", func(r chi.Router) {
		if cfg.RateLimitRPS > 0 {
			r.Use(rateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)))
		}
		r.Get("/rules", h.Rules)
		r.Post("/score", h.Score)
		r.Post("/validate", h.Validate)
	})

	return r
}
