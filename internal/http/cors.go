package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	userHTTP "github.com/allisson/users/internal/user/http"
)

// createCORSMiddleware allows browser clients from the comma-separated
// allowOrigins to call the users API. It returns nil when CORS is disabled or
// no origin survives parsing.
func createCORSMiddleware(enabled bool, allowOrigins string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins := parseOrigins(allowOrigins)
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no origins configured, skipping")
		return nil
	}
	logger.Info("CORS enabled", slog.Any("origins", origins))

	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", userHTTP.HeaderCorrelationID},
		ExposeHeaders:    []string{userHTTP.HeaderRequestID, userHTTP.HeaderCorrelationID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func parseOrigins(raw string) []string {
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
