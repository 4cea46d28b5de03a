// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/allisson/users/internal/config"
	"github.com/allisson/users/internal/database"
	"github.com/allisson/users/internal/http"
	"github.com/allisson/users/internal/metrics"
	"github.com/allisson/users/internal/registry"
	userHTTP "github.com/allisson/users/internal/user/http"
	userRepository "github.com/allisson/users/internal/user/repository"
	userUsecase "github.com/allisson/users/internal/user/usecase"
)

// connectTimeout bounds the initial database connection and ping.
const connectTimeout = 10 * time.Second

// component lazily builds one dependency and caches the outcome, error included.
type component[T any] struct {
	once  sync.Once
	value T
	err   error
}

func (c *component[T]) get(init func() (T, error)) (T, error) {
	c.once.Do(func() {
		c.value, c.err = init()
	})
	return c.value, c.err
}

// mongoConnection pairs a client with the database it serves.
type mongoConnection struct {
	client   *mongo.Client
	database *mongo.Database
}

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern: components are created on first access
// and published into the registry under their well-known keys.
type Container struct {
	// Configuration
	config   *config.Config
	registry *registry.Registry

	// Background work owned by the container (rate limiter cleanup)
	backgroundCtx    context.Context
	cancelBackground context.CancelFunc

	// Infrastructure
	logger     *slog.Logger
	loggerInit sync.Once
	mongo      component[*mongoConnection]
	db         component[*sql.DB]
	txManager  component[database.TxManager]

	// Repositories
	userRepo component[userUsecase.UserRepository]

	// Use Cases
	createUser component[userUsecase.UseCase[userUsecase.CreateUserInput]]
	getUser    component[userUsecase.UseCase[userUsecase.GetUserInput]]
	putUser    component[userUsecase.UseCase[userUsecase.PutUserInput]]
	deleteUser component[userUsecase.UseCase[userUsecase.DeleteUserInput]]

	// Controllers
	controllers component[http.UserControllers]

	// Metrics
	metricsProvider component[*metrics.Provider]
	businessMetrics component[metrics.BusinessMetrics]

	// Servers
	httpServer    component[*http.Server]
	metricsServer component[*http.MetricsServer]

	mu sync.Mutex
}

// NewContainer creates a new dependency injection container backed by the
// process-wide registry.
func NewContainer(cfg *config.Config) *Container {
	return newContainer(cfg, registry.GetInstance())
}

func newContainer(cfg *config.Config, reg *registry.Registry) *Container {
	ctx, cancel := context.WithCancel(context.Background())
	return &Container{
		config:           cfg,
		registry:         reg,
		backgroundCtx:    ctx,
		cancelBackground: cancel,
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Registry returns the registry the container publishes components into.
func (c *Container) Registry() *registry.Registry {
	return c.registry
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
		c.registry.Provide(registry.KeyLogger, c.logger)
	})
	return c.logger
}

// MongoDatabase returns the MongoDB database holding the Users collection.
func (c *Container) MongoDatabase() (*mongo.Database, error) {
	conn, err := c.mongo.get(c.initMongo)
	if err != nil {
		return nil, err
	}
	return conn.database, nil
}

// DB returns the SQL database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	return c.db.get(c.initDB)
}

// TxManager returns the transaction manager.
// It requires a SQL database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	return c.txManager.get(c.initTxManager)
}

// Pinger returns the readiness check for the configured database.
func (c *Container) Pinger() (database.Pinger, error) {
	if c.config.Database().IsSQL() {
		db, err := c.DB()
		if err != nil {
			return nil, err
		}
		return db, nil
	}
	conn, err := c.mongo.get(c.initMongo)
	if err != nil {
		return nil, err
	}
	return database.NewMongoPinger(conn.client), nil
}

// UserRepository returns the user repository for the configured driver.
func (c *Container) UserRepository() (userUsecase.UserRepository, error) {
	return c.userRepo.get(c.initUserRepository)
}

// CreateUser returns the CreateUser use case.
func (c *Container) CreateUser() (userUsecase.UseCase[userUsecase.CreateUserInput], error) {
	return c.createUser.get(func() (userUsecase.UseCase[userUsecase.CreateUserInput], error) {
		return initUseCase(c, registry.KeyCreateUser, userUsecase.OperationCreate,
			func(repo userUsecase.UserRepository) (userUsecase.UseCase[userUsecase.CreateUserInput], error) {
				return userUsecase.NewCreateUser(repo)
			})
	})
}

// GetUser returns the GetUser use case.
func (c *Container) GetUser() (userUsecase.UseCase[userUsecase.GetUserInput], error) {
	return c.getUser.get(func() (userUsecase.UseCase[userUsecase.GetUserInput], error) {
		return initUseCase(c, registry.KeyGetUser, userUsecase.OperationGet,
			func(repo userUsecase.UserRepository) (userUsecase.UseCase[userUsecase.GetUserInput], error) {
				return userUsecase.NewGetUser(repo)
			})
	})
}

// PutUser returns the PutUser use case.
func (c *Container) PutUser() (userUsecase.UseCase[userUsecase.PutUserInput], error) {
	return c.putUser.get(func() (userUsecase.UseCase[userUsecase.PutUserInput], error) {
		return initUseCase(c, registry.KeyPutUser, userUsecase.OperationUpdate,
			func(repo userUsecase.UserRepository) (userUsecase.UseCase[userUsecase.PutUserInput], error) {
				return userUsecase.NewPutUser(repo)
			})
	})
}

// DeleteUser returns the DeleteUser use case.
func (c *Container) DeleteUser() (userUsecase.UseCase[userUsecase.DeleteUserInput], error) {
	return c.deleteUser.get(func() (userUsecase.UseCase[userUsecase.DeleteUserInput], error) {
		return initUseCase(c, registry.KeyDeleteUser, userUsecase.OperationDelete,
			func(repo userUsecase.UserRepository) (userUsecase.UseCase[userUsecase.DeleteUserInput], error) {
				return userUsecase.NewDeleteUser(repo)
			})
	})
}

// UserControllers returns the controllers served under /v1/users.
func (c *Container) UserControllers() (http.UserControllers, error) {
	return c.controllers.get(c.initUserControllers)
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	return c.metricsProvider.get(c.initMetricsProvider)
}

// BusinessMetrics returns the business metrics recorder.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	return c.businessMetrics.get(c.initBusinessMetrics)
}

// HTTPServer returns the HTTP server instance with its router configured.
func (c *Container) HTTPServer() (*http.Server, error) {
	return c.httpServer.get(c.initHTTPServer)
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	return c.metricsServer.get(c.initMetricsServer)
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelBackground()

	var shutdownErrors []error

	if c.httpServer.value != nil {
		if err := c.httpServer.value.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer.value != nil {
		if err := c.metricsServer.value.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.mongo.value != nil && c.mongo.value.client != nil {
		if err := c.mongo.value.client.Disconnect(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("mongodb disconnect: %w", err))
		}
	}

	if c.db.value != nil {
		if err := c.db.value.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if c.metricsProvider.value != nil {
		if err := c.metricsProvider.value.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initMongo connects to MongoDB and publishes the client and database.
func (c *Container) initMongo() (*mongoConnection, error) {
	cfg := c.config.Database()
	if cfg.Driver != database.DriverMongoDB {
		return nil, fmt.Errorf("database driver %q is not mongodb", cfg.Driver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, db, err := database.ConnectMongo(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	c.registry.Provide(registry.KeyDatabaseConnection, client)
	c.registry.Provide(registry.KeyODM, db)
	return &mongoConnection{client: client, database: db}, nil
}

// initDB creates and configures the SQL database connection.
func (c *Container) initDB() (*sql.DB, error) {
	cfg := c.config.Database()
	if !cfg.IsSQL() {
		return nil, fmt.Errorf("database driver %q is not a sql driver", cfg.Driver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	c.registry.Provide(registry.KeyDatabaseConnection, db)
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initUserRepository selects the repository matching the database driver.
func (c *Container) initUserRepository() (userUsecase.UserRepository, error) {
	var repo userUsecase.UserRepository

	switch c.config.DBDriver {
	case database.DriverMongoDB:
		db, err := c.MongoDatabase()
		if err != nil {
			return nil, fmt.Errorf("failed to get mongodb for user repository: %w", err)
		}
		repo = userRepository.NewMongoUserRepository(db)
	case database.DriverPostgres:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for user repository: %w", err)
		}
		repo = userRepository.NewPostgreSQLUserRepository(db)
	case database.DriverMySQL:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for user repository: %w", err)
		}
		txManager, err := c.TxManager()
		if err != nil {
			return nil, fmt.Errorf("failed to get tx manager for user repository: %w", err)
		}
		repo = userRepository.NewMySQLUserRepository(db, txManager)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}

	c.registry.Provide(registry.KeyUserRepository, repo)
	return repo, nil
}

// initUseCase builds a use case from the registered repository, wraps it with
// metrics when enabled and publishes it under key.
func initUseCase[I any](
	c *Container,
	key string,
	operation string,
	build func(userUsecase.UserRepository) (userUsecase.UseCase[I], error),
) (userUsecase.UseCase[I], error) {
	if _, err := c.UserRepository(); err != nil {
		return nil, fmt.Errorf("failed to get user repository for %s: %w", key, err)
	}

	repo, err := registry.Resolve[userUsecase.UserRepository](c.registry, registry.KeyUserRepository)
	if err != nil {
		return nil, err
	}

	useCase, err := build(repo)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s use case: %w", key, err)
	}

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for %s: %w", key, err)
		}
		useCase = userUsecase.NewUseCaseWithMetrics(useCase, businessMetrics, operation)
	}

	c.registry.Provide(key, useCase)
	return useCase, nil
}

// initUserControllers resolves every use case from the registry and builds the controllers.
func (c *Container) initUserControllers() (http.UserControllers, error) {
	var controllers http.UserControllers
	logger := c.Logger()

	for _, build := range []func() error{
		func() error { _, err := c.CreateUser(); return err },
		func() error { _, err := c.GetUser(); return err },
		func() error { _, err := c.PutUser(); return err },
		func() error { _, err := c.DeleteUser(); return err },
	} {
		if err := build(); err != nil {
			return controllers, err
		}
	}

	createUser, err := registry.Resolve[userUsecase.UseCase[userUsecase.CreateUserInput]](
		c.registry, registry.KeyCreateUser)
	if err != nil {
		return controllers, err
	}
	if controllers.Create, err = userHTTP.NewCreateUserController(createUser, logger); err != nil {
		return controllers, err
	}

	getUser, err := registry.Resolve[userUsecase.UseCase[userUsecase.GetUserInput]](c.registry, registry.KeyGetUser)
	if err != nil {
		return controllers, err
	}
	if controllers.Get, err = userHTTP.NewGetUserController(getUser, logger); err != nil {
		return controllers, err
	}

	putUser, err := registry.Resolve[userUsecase.UseCase[userUsecase.PutUserInput]](c.registry, registry.KeyPutUser)
	if err != nil {
		return controllers, err
	}
	if controllers.Put, err = userHTTP.NewPutUserController(putUser, logger); err != nil {
		return controllers, err
	}

	deleteUser, err := registry.Resolve[userUsecase.UseCase[userUsecase.DeleteUserInput]](
		c.registry, registry.KeyDeleteUser)
	if err != nil {
		return controllers, err
	}
	if controllers.Delete, err = userHTTP.NewDeleteUserController(deleteUser, logger); err != nil {
		return controllers, err
	}

	return controllers, nil
}

// initMetricsProvider creates the OpenTelemetry provider when metrics are enabled.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

// initBusinessMetrics creates business metrics, or a no-op recorder when metrics are disabled.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}
	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	pinger, err := c.Pinger()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	controllers, err := c.UserControllers()
	if err != nil {
		return nil, fmt.Errorf("failed to get user controllers for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	if c.config.AuthEnabled && c.config.AuthJWTSecret == "" {
		return nil, errors.New("AUTH_JWT_SECRET is required when AUTH_ENABLED is true")
	}

	server := http.NewServer(pinger, c.config.ServerHost, c.config.ServerPort, logger)
	server.SetupRouter(c.backgroundCtx, c.config, controllers, provider)

	return server, nil
}

// initMetricsServer creates the metrics server when metrics are enabled.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}
	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
