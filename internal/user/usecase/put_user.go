package usecase

import (
	"context"

	apperrors "github.com/allisson/users/internal/errors"
	"github.com/allisson/users/internal/registry"
	"github.com/allisson/users/internal/user/domain"
)

// PutUser replaces the name and email of an existing user.
type PutUser struct {
	userRepo UserRepository
}

// NewPutUser creates the PutUser use case.
func NewPutUser(userRepo UserRepository) (*PutUser, error) {
	if userRepo == nil {
		return nil, registry.Missing(registry.KeyUserRepository)
	}
	return &PutUser{userRepo: userRepo}, nil
}

// Execute validates the payload and updates the user. A user that cannot be
// updated yields an UNPROCESSABLE_ENTITY application error.
func (u *PutUser) Execute(ctx context.Context, input PutUserInput) (*domain.UserResponse, error) {
	user, err := domain.NewUser(domain.UserRecord{Name: input.Payload.Name, Email: input.Payload.Email})
	if err != nil {
		return nil, err
	}

	record, err := u.userRepo.UpdateUser(ctx, input.ID, user)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperrors.NewApplicationError(&apperrors.ErrorInput{
			Code:  apperrors.CodeUnprocessableEntity,
			Title: "Error updating user",
		})
	}

	return respond(record)
}
