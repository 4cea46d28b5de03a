package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/users/internal/metrics"
)

// MetricsServer serves the Prometheus scrape endpoint on its own port, away from the users API.
type MetricsServer struct {
	*listener
}

// NewMetricsServer creates a MetricsServer exposing provider at /metrics.
func NewMetricsServer(
	host string,
	port int,
	logger *slog.Logger,
	provider *metrics.Provider,
) *MetricsServer {
	router := gin.New()
	router.Use(gin.Recovery(), CustomLoggerMiddleware(logger))
	if provider != nil {
		router.GET("/metrics", gin.WrapH(provider.Handler()))
	}

	return &MetricsServer{listener: newListener("metrics", host, port, router, logger)}
}

// GetHandler returns the router for testing purposes.
func (s *MetricsServer) GetHandler() http.Handler {
	return s.server.Handler
}

// Start serves /metrics until Shutdown is called.
func (s *MetricsServer) Start(ctx context.Context) error {
	return s.listen()
}
