// Package usecase implements the user operations and defines the ports they depend on.
package usecase

import (
	"context"

	"github.com/allisson/users/internal/user/domain"
)

// UserRepository is the persistence port for users. A nil record with a nil
// error means nothing matched or nothing was written.
type UserRepository interface {
	SaveUser(ctx context.Context, user *domain.User) (*domain.UserRecord, error)
	GetUser(ctx context.Context, id string) (*domain.UserRecord, error)
	UpdateUser(ctx context.Context, id string, user *domain.User) (*domain.UserRecord, error)
	DeleteUser(ctx context.Context, id string) (*domain.UserRecord, error)
}

// UseCase is a single user operation taking input I.
type UseCase[I any] interface {
	Execute(ctx context.Context, input I) (*domain.UserResponse, error)
}

// CreateUserInput contains the data for a new user.
type CreateUserInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// GetUserInput identifies the user to fetch.
type GetUserInput struct {
	ID string `json:"id"`
}

// UserPayload contains the replacement fields of a user.
type UserPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PutUserInput identifies the user to replace and carries its new fields.
type PutUserInput struct {
	ID      string      `json:"id"`
	Payload UserPayload `json:"payload"`
}

// DeleteUserInput identifies the user to delete.
type DeleteUserInput struct {
	ID string `json:"id"`
}
