// Package mocks provides mock implementations of the user use case ports for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/users/internal/user/domain"
)

// MockUserRepository is a mock implementation of UserRepository for testing.
type MockUserRepository struct {
	mock.Mock
}

// SaveUser mocks the SaveUser method of UserRepository.
func (m *MockUserRepository) SaveUser(ctx context.Context, user *domain.User) (*domain.UserRecord, error) {
	args := m.Called(ctx, user)
	return recordArg(args)
}

// GetUser mocks the GetUser method of UserRepository.
func (m *MockUserRepository) GetUser(ctx context.Context, id string) (*domain.UserRecord, error) {
	args := m.Called(ctx, id)
	return recordArg(args)
}

// UpdateUser mocks the UpdateUser method of UserRepository.
func (m *MockUserRepository) UpdateUser(
	ctx context.Context,
	id string,
	user *domain.User,
) (*domain.UserRecord, error) {
	args := m.Called(ctx, id, user)
	return recordArg(args)
}

// DeleteUser mocks the DeleteUser method of UserRepository.
func (m *MockUserRepository) DeleteUser(ctx context.Context, id string) (*domain.UserRecord, error) {
	args := m.Called(ctx, id)
	return recordArg(args)
}

func recordArg(args mock.Arguments) (*domain.UserRecord, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserRecord), args.Error(1)
}

// MockUseCase is a mock implementation of UseCase for any input type.
type MockUseCase[I any] struct {
	mock.Mock
}

// Execute mocks the Execute method of UseCase.
func (m *MockUseCase[I]) Execute(ctx context.Context, input I) (*domain.UserResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserResponse), args.Error(1)
}
