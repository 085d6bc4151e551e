// Package api serves the dashboard over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/rnsdash/internal/core/config"
)

// Server provides the JSON API plus health and metrics endpoints.
type Server struct {
	server *http.Server
}

// NewServer creates a server for h on cfg.Port.
func NewServer(cfg config.ServerConfig, h *Handlers) *Server {
	return &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           NewRouter(cfg, h),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// NewRouter wires middleware and routes.
func NewRouter(cfg config.ServerConfig, h *Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.HandleHealth)
	r.Get("/health/detailed", h.HandleHealthDetailed)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(middleware.Timeout(cfg.RequestTimeout))
		}
		r.Get("/tokens", h.HandleTokens)
		r.Get("/nfts", h.HandleNFTs)
		r.Get("/txs", h.HandleTxs)
		r.Get("/balance", h.HandleBalance)
		r.Get("/dashboard", h.HandleDashboard)
		r.Get("/rns/availability", h.HandleAvailability)
	})

	return r
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}
