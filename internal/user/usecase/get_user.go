package usecase

import (
	"context"

	apperrors "github.com/allisson/users/internal/errors"
	"github.com/allisson/users/internal/registry"
	"github.com/allisson/users/internal/user/domain"
)

// GetUser fetches a user by id.
type GetUser struct {
	userRepo UserRepository
}

// NewGetUser creates the GetUser use case.
func NewGetUser(userRepo UserRepository) (*GetUser, error) {
	if userRepo == nil {
		return nil, registry.Missing(registry.KeyUserRepository)
	}
	return &GetUser{userRepo: userRepo}, nil
}

// Execute returns the user or a USER_NOT_FOUND application error.
func (u *GetUser) Execute(ctx context.Context, input GetUserInput) (*domain.UserResponse, error) {
	record, err := u.userRepo.GetUser(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, userNotFound()
	}
	return respond(record)
}

func userNotFound() error {
	return apperrors.NewApplicationError(&apperrors.ErrorInput{
		Code:  apperrors.CodeUserNotFound,
		Title: "User not found",
	})
}
