// Package http serves the prediction API.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"cardioml/ml"
	"cardioml/monitoring"
)

// Server wraps the HTTP server and its handler chain.
type Server struct {
	server *http.Server
	config ServerConfig
	logger *zap.Logger
}

// ServerConfig holds listener and request limits.
type ServerConfig struct {
	Addr           string
	Timeout        time.Duration
	AllowedOrigins []string
	MaxBodyBytes   int64
}

// DefaultServerConfig listens on all interfaces, port 5000.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:           "0.0.0.0:5000",
		Timeout:        30 * time.Second,
		AllowedOrigins: []string{"*"},
		MaxBodyBytes:   1 << 20,
	}
}

// NewServer builds the server. The holder is read-only for the life of the process.
func NewServer(config ServerConfig, holder *ml.Holder, metrics *monitoring.MetricsCollector, logger *zap.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:         config.Addr,
			Handler:      NewHandler(config, holder, metrics, logger),
			ReadTimeout:  config.Timeout,
			WriteTimeout: config.Timeout,
			IdleTimeout:  120 * time.Second,
		},
		config: config,
		logger: logger,
	}
}

// NewHandler registers every route and wraps the mux in the middleware chain.
func NewHandler(config ServerConfig, holder *ml.Holder, metrics *monitoring.MetricsCollector, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterHandlers(mux, &Handler{holder: holder, metrics: metrics, logger: logger})

	chain := Chain(
		RecoveryMiddleware(logger), // outermost, catches panics
		LoggerMiddleware(logger, metrics),
		SecurityHeadersMiddleware,
		CORSMiddleware(config.AllowedOrigins),
		RequestSizeMiddleware(config.MaxBodyBytes),
	)
	return chain(mux)
}

// Start blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop shuts the server down, waiting up to five seconds for in-flight requests.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("Shutting down HTTP server...")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}

func (s *Server) Addr() string {
	return s.server.Addr
}
