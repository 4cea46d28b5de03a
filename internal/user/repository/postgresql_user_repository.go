package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/allisson/users/internal/database"
	apperrors "github.com/allisson/users/internal/errors"
	"github.com/allisson/users/internal/user/domain"
)

// PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// PostgreSQLUserRepository handles user persistence for PostgreSQL
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQLUserRepository
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{
		db: db,
	}
}

// SaveUser inserts a new user with a fresh UUIDv7 id.
func (r *PostgreSQLUserRepository) SaveUser(ctx context.Context, user *domain.User) (*domain.UserRecord, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate user id")
	}

	query := `INSERT INTO users (id, name, email, created_at, updated_at)
			  VALUES ($1, $2, $3, NOW(), NOW())
			  RETURNING id, name, email`

	record, err := scanRecord(database.GetTx(ctx, r.db).QueryRowContext(ctx, query, id, user.Name(), user.Email()))
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, apperrors.Wrap(err, "failed to save user")
	}
	return record, nil
}

// GetUser retrieves a user by id.
func (r *PostgreSQLUserRepository) GetUser(ctx context.Context, id string) (*domain.UserRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidUserID
	}

	query := `SELECT id, name, email FROM users WHERE id = $1`

	record, err := scanRecord(database.GetTx(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get user")
	}
	return record, nil
}

// UpdateUser replaces the name and email of a user and returns the updated record.
func (r *PostgreSQLUserRepository) UpdateUser(
	ctx context.Context,
	id string,
	user *domain.User,
) (*domain.UserRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidUserID
	}

	query := `UPDATE users SET name = $2, email = $3, updated_at = NOW()
			  WHERE id = $1
			  RETURNING id, name, email`

	record, err := scanRecord(database.GetTx(ctx, r.db).QueryRowContext(ctx, query, id, user.Name(), user.Email()))
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, apperrors.Wrap(err, "failed to update user")
	}
	return record, nil
}

// DeleteUser removes a user and returns the deleted record.
func (r *PostgreSQLUserRepository) DeleteUser(ctx context.Context, id string) (*domain.UserRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidUserID
	}

	query := `DELETE FROM users WHERE id = $1 RETURNING id, name, email`

	record, err := scanRecord(database.GetTx(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to delete user")
	}
	return record, nil
}

// scanRecord reads a user row. No row yields a nil record and a nil error.
func scanRecord(row *sql.Row) (*domain.UserRecord, error) {
	var record domain.UserRecord
	if err := row.Scan(&record.ID, &record.Name, &record.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func isPostgreSQLUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}
