package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
)

// RoleRepository is a testify mock of repository.RoleRepository.
type RoleRepository struct {
	mock.Mock
}

func (m *RoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	args := m.Called(ctx, id)
	if r, ok := args.Get(0).(*domain.Role); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	args := m.Called(ctx, name)
	if r, ok := args.Get(0).(*domain.Role); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RoleRepository) FindAll(ctx context.Context) ([]domain.Role, error) {
	args := m.Called(ctx)
	if r, ok := args.Get(0).([]domain.Role); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
