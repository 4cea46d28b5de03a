package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/allisson/users/internal/database"
	userUsecase "github.com/allisson/users/internal/user/usecase"
)

// RepositoryProvider exposes the configured user repository.
type RepositoryProvider interface {
	UserRepository() (userUsecase.UserRepository, error)
	Logger() *slog.Logger
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// RunMigrations applies the pending SQL migrations for driver.
func RunMigrations(logger *slog.Logger, driver, connectionString string) error {
	logger.Info("running database migrations", slog.String("driver", driver))

	m, err := migrate.New(migrationsPath(driver), connectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}

// EnsureMongoIndexes creates the indexes of the Users collection.
func EnsureMongoIndexes(ctx context.Context, provider RepositoryProvider) error {
	repo, err := provider.UserRepository()
	if err != nil {
		return fmt.Errorf("failed to get user repository: %w", err)
	}

	idx, ok := repo.(indexer)
	if !ok {
		return fmt.Errorf("user repository %T does not manage indexes", repo)
	}

	if err := idx.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	provider.Logger().Info("indexes created successfully", slog.String("driver", database.DriverMongoDB))
	return nil
}

func migrationsPath(driver string) string {
	if driver == database.DriverMySQL {
		return "file://migrations/mysql"
	}
	return "file://migrations/postgresql"
}
