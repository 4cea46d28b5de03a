// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"

	"github.com/allisson/users/internal/database"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int

	// DBDriver is the database driver to use ("mongodb", "postgres" or "mysql").
	DBDriver string
	// DBConnectionString is the connection string or URI for the database.
	DBConnectionString string
	// DBName is the MongoDB database holding the Users collection.
	DBName string
	// DBMaxOpenConnections is the maximum number of open connections to the database.
	DBMaxOpenConnections int
	// DBMaxIdleConnections is the maximum number of idle connections in the database pool.
	DBMaxIdleConnections int
	// DBConnMaxLifetime is the maximum amount of time a connection may be reused.
	DBConnMaxLifetime time.Duration

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// AuthEnabled guards the /v1 routes with bearer JWT validation.
	AuthEnabled bool
	// AuthJWTSecret is the HMAC secret used to verify bearer tokens.
	AuthJWTSecret string

	// RateLimitEnabled indicates whether per-IP rate limiting is enabled on /v1 routes.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of requests allowed per second per IP.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for rate limiting.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 3000),

		// Database configuration
		DBDriver:             env.GetString("DB_DRIVER", database.DriverMongoDB),
		DBConnectionString:   env.GetString("DB_CONNECTION_STRING", "mongodb://localhost:27017"),
		DBName:               env.GetString("DB_NAME", "app"),
		DBMaxOpenConnections: env.GetInt("DB_MAX_OPEN_CONNECTIONS", 25),
		DBMaxIdleConnections: env.GetInt("DB_MAX_IDLE_CONNECTIONS", 5),
		DBConnMaxLifetime:    env.GetDuration("DB_CONN_MAX_LIFETIME", 5, time.Minute),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Auth
		AuthEnabled:   env.GetBool("AUTH_ENABLED", false),
		AuthJWTSecret: env.GetString("AUTH_JWT_SECRET", ""),

		// Rate Limiting (per IP)
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "users"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// Database returns the connection settings for the configured driver.
func (c *Config) Database() database.Config {
	return database.Config{
		Driver:             c.DBDriver,
		ConnectionString:   c.DBConnectionString,
		DatabaseName:       c.DBName,
		MaxOpenConnections: c.DBMaxOpenConnections,
		MaxIdleConnections: c.DBMaxIdleConnections,
		ConnMaxLifetime:    c.DBConnMaxLifetime,
	}
}

// Validate reports settings the service cannot start with.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ServerPort, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.DBDriver,
			validation.Required,
			validation.In(database.DriverMongoDB, database.DriverPostgres, database.DriverMySQL),
		),
		validation.Field(&c.DBConnectionString, validation.Required),
		validation.Field(&c.DBName, validation.When(c.DBDriver == database.DriverMongoDB, validation.Required)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.AuthJWTSecret, validation.When(c.AuthEnabled, validation.Required)),
		validation.Field(&c.RateLimitRequestsPerSec, validation.When(c.RateLimitEnabled, validation.Required)),
		validation.Field(&c.RateLimitBurst, validation.When(c.RateLimitEnabled, validation.Required)),
		validation.Field(&c.MetricsPort,
			validation.When(c.MetricsEnabled, validation.Required, validation.Min(1), validation.Max(65535)),
		),
	)
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
