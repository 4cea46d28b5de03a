package usecase

import (
	"context"

	apperrors "github.com/allisson/users/internal/errors"
	"github.com/allisson/users/internal/registry"
	"github.com/allisson/users/internal/user/domain"
)

// CreateUser stores a new user.
type CreateUser struct {
	userRepo UserRepository
}

// NewCreateUser creates the CreateUser use case.
func NewCreateUser(userRepo UserRepository) (*CreateUser, error) {
	if userRepo == nil {
		return nil, registry.Missing(registry.KeyUserRepository)
	}
	return &CreateUser{userRepo: userRepo}, nil
}

// Execute validates the input, persists the user and returns the stored user.
func (u *CreateUser) Execute(ctx context.Context, input CreateUserInput) (*domain.UserResponse, error) {
	user, err := domain.NewUser(domain.UserRecord{Name: input.Name, Email: input.Email})
	if err != nil {
		return nil, err
	}

	record, err := u.userRepo.SaveUser(ctx, user)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperrors.NewApplicationError(&apperrors.ErrorInput{
			Code:  apperrors.CodeUnprocessableEntity,
			Title: "Error inserting user",
		})
	}

	return respond(record)
}

// respond rebuilds the entity from a stored record and renders it.
func respond(record *domain.UserRecord) (*domain.UserResponse, error) {
	user, err := domain.NewUser(*record)
	if err != nil {
		return nil, err
	}
	response := user.Response()
	return &response, nil
}
