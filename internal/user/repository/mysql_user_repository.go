package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/allisson/users/internal/database"
	apperrors "github.com/allisson/users/internal/errors"
	"github.com/allisson/users/internal/user/domain"
)

// MySQL error number for ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// MySQLUserRepository handles user persistence for MySQL. Ids are stored as
// BINARY(16) and exposed as UUID strings.
type MySQLUserRepository struct {
	db        *sql.DB
	txManager database.TxManager
}

// NewMySQLUserRepository creates a new MySQLUserRepository
func NewMySQLUserRepository(db *sql.DB, txManager database.TxManager) *MySQLUserRepository {
	return &MySQLUserRepository{
		db:        db,
		txManager: txManager,
	}
}

// SaveUser inserts a new user with a fresh UUIDv7 id.
func (r *MySQLUserRepository) SaveUser(ctx context.Context, user *domain.User) (*domain.UserRecord, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate user id")
	}

	binaryID, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `INSERT INTO users (id, name, email, created_at, updated_at)
			  VALUES (?, ?, ?, NOW(), NOW())`

	_, err = database.GetTx(ctx, r.db).ExecContext(ctx, query, binaryID, user.Name(), user.Email())
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, apperrors.Wrap(err, "failed to save user")
	}

	return &domain.UserRecord{
		ID:    id.String(),
		Name:  user.Name(),
		Email: user.Email(),
	}, nil
}

// GetUser retrieves a user by id.
func (r *MySQLUserRepository) GetUser(ctx context.Context, id string) (*domain.UserRecord, error) {
	binaryID, err := parseBinaryID(id)
	if err != nil {
		return nil, err
	}

	record, err := r.selectUser(ctx, binaryID, false)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get user")
	}
	return record, nil
}

// UpdateUser replaces the name and email of a user and returns the updated record.
// The row is locked before the write so a missing user is told apart from an
// update that changed nothing.
func (r *MySQLUserRepository) UpdateUser(
	ctx context.Context,
	id string,
	user *domain.User,
) (*domain.UserRecord, error) {
	binaryID, err := parseBinaryID(id)
	if err != nil {
		return nil, err
	}

	var record *domain.UserRecord
	err = r.txManager.WithTx(ctx, func(ctx context.Context) error {
		existing, err := r.selectUser(ctx, binaryID, true)
		if err != nil || existing == nil {
			return err
		}

		query := `UPDATE users SET name = ?, email = ?, updated_at = NOW() WHERE id = ?`
		if _, err := database.GetTx(ctx, r.db).ExecContext(ctx, query, user.Name(), user.Email(), binaryID); err != nil {
			return err
		}

		record = &domain.UserRecord{ID: existing.ID, Name: user.Name(), Email: user.Email()}
		return nil
	})
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, apperrors.Wrap(err, "failed to update user")
	}
	return record, nil
}

// DeleteUser removes a user and returns the deleted record.
func (r *MySQLUserRepository) DeleteUser(ctx context.Context, id string) (*domain.UserRecord, error) {
	binaryID, err := parseBinaryID(id)
	if err != nil {
		return nil, err
	}

	var record *domain.UserRecord
	err = r.txManager.WithTx(ctx, func(ctx context.Context) error {
		existing, err := r.selectUser(ctx, binaryID, true)
		if err != nil || existing == nil {
			return err
		}

		if _, err := database.GetTx(ctx, r.db).ExecContext(ctx, `DELETE FROM users WHERE id = ?`, binaryID); err != nil {
			return err
		}

		record = existing
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to delete user")
	}
	return record, nil
}

func (r *MySQLUserRepository) selectUser(ctx context.Context, binaryID []byte, forUpdate bool) (*domain.UserRecord, error) {
	query := `SELECT id, name, email FROM users WHERE id = ?`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var rawID []byte
	var record domain.UserRecord

	err := database.GetTx(ctx, r.db).QueryRowContext(ctx, query, binaryID).Scan(&rawID, &record.Name, &record.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	id, err := uuid.FromBytes(rawID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}
	record.ID = id.String()

	return &record, nil
}

func parseBinaryID(id string) ([]byte, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidUserID
	}
	return parsed.MarshalBinary()
}

func isMySQLUniqueViolation(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
