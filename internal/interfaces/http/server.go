// Package http exposes the classification pipeline over a small JSON API:
// classify and assess per trend, plus health and metrics.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns local-only defaults
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "127.0.0.1",
		Port:         8080,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Server is the HTTP API server
type Server struct {
	router   *mux.Router
	server   *http.Server
	handlers *Handlers
	config   ServerConfig
}

// NewServer creates the API server over the given handlers. registry may be
// nil when metrics exposure is not wanted.
func NewServer(config ServerConfig, handlers *Handlers, registry *prometheus.Registry) *Server {
	router := mux.NewRouter()

	s := &Server{
		router:   router,
		handlers: handlers,
		config:   config,
	}

	router.Use(RequestLogging)

	router.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	router.HandleFunc("/v1/trends/{key}/classify", handlers.Classify).Methods(http.MethodPost)
	router.HandleFunc("/v1/trends/{key}/assess", handlers.Assess).Methods(http.MethodPost)
	router.HandleFunc("/v1/trends/{key}/stage", handlers.Stage).Methods(http.MethodGet)
	if registry != nil {
		router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return s
}

// Router exposes the configured router, primarily for handler tests
func (s *Server) Router() *mux.Router {
	return s.router
}

// Start runs the server until the listener fails or Shutdown is called
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("trendscope API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
