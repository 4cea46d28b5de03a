package usecase

import (
	"context"

	"github.com/allisson/users/internal/registry"
	"github.com/allisson/users/internal/user/domain"
)

// DeleteUser removes a user by id.
type DeleteUser struct {
	userRepo UserRepository
}

// NewDeleteUser creates the DeleteUser use case.
func NewDeleteUser(userRepo UserRepository) (*DeleteUser, error) {
	if userRepo == nil {
		return nil, registry.Missing(registry.KeyUserRepository)
	}
	return &DeleteUser{userRepo: userRepo}, nil
}

// Execute deletes the user and returns it as it was before removal.
func (u *DeleteUser) Execute(ctx context.Context, input DeleteUserInput) (*domain.UserResponse, error) {
	record, err := u.userRepo.DeleteUser(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, userNotFound()
	}
	return respond(record)
}
