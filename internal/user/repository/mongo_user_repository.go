// Package repository provides persistence implementations for users.
package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	apperrors "github.com/allisson/users/internal/errors"
	"github.com/allisson/users/internal/odm"
	"github.com/allisson/users/internal/user/domain"
)

// userDocument is the stored form of a user in MongoDB.
type userDocument struct {
	ID    bson.ObjectID `bson:"_id,omitempty"`
	Name  string        `bson:"name"`
	Email string        `bson:"email"`
}

// MongoUserRepository handles user persistence for MongoDB.
type MongoUserRepository struct {
	users *odm.Collection[userDocument]
}

// NewMongoUserRepository creates a MongoUserRepository on the Users collection of db.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		users: odm.NewCollection[userDocument](db, odm.UserModel()),
	}
}

// EnsureIndexes creates the indexes of the Users collection.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	return r.users.EnsureIndexes(ctx)
}

// SaveUser inserts a new user.
func (r *MongoUserRepository) SaveUser(ctx context.Context, user *domain.User) (*domain.UserRecord, error) {
	doc, err := r.users.Save(ctx, &userDocument{
		Name:  user.Name(),
		Email: user.Email(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, apperrors.Wrap(err, "failed to save user")
	}
	return toRecord(doc), nil
}

// GetUser retrieves a user by id.
func (r *MongoUserRepository) GetUser(ctx context.Context, id string) (*domain.UserRecord, error) {
	doc, err := r.users.FindByID(ctx, id)
	if err != nil {
		return nil, mapMongoError(err, "failed to get user")
	}
	return toRecord(doc), nil
}

// UpdateUser replaces the name and email of a user and returns the updated record.
func (r *MongoUserRepository) UpdateUser(
	ctx context.Context,
	id string,
	user *domain.User,
) (*domain.UserRecord, error) {
	doc, err := r.users.UpdateByID(ctx, id, bson.D{
		{Key: "name", Value: user.Name()},
		{Key: "email", Value: user.Email()},
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, mapMongoError(err, "failed to update user")
	}
	return toRecord(doc), nil
}

// DeleteUser removes a user and returns the deleted record.
func (r *MongoUserRepository) DeleteUser(ctx context.Context, id string) (*domain.UserRecord, error) {
	doc, err := r.users.DeleteByID(ctx, id)
	if err != nil {
		return nil, mapMongoError(err, "failed to delete user")
	}
	return toRecord(doc), nil
}

func mapMongoError(err error, message string) error {
	if errors.Is(err, odm.ErrInvalidID) {
		return domain.ErrInvalidUserID
	}
	return apperrors.Wrap(err, message)
}

func toRecord(doc *userDocument) *domain.UserRecord {
	if doc == nil {
		return nil
	}
	return &domain.UserRecord{
		ID:    doc.ID.Hex(),
		Name:  doc.Name,
		Email: doc.Email,
	}
}
