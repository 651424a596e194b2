package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
)

// ListRepository is a testify mock of repository.ListRepository.
type ListRepository struct {
	mock.Mock
}

func (m *ListRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.List, error) {
	args := m.Called(ctx, id)
	if l, ok := args.Get(0).(*domain.List); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ListRepository) FindOwnedBy(ctx context.Context, ownerID uuid.UUID) ([]domain.List, error) {
	args := m.Called(ctx, ownerID)
	if l, ok := args.Get(0).([]domain.List); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ListRepository) FindSharedWith(ctx context.Context, userID uuid.UUID) ([]domain.List, error) {
	args := m.Called(ctx, userID)
	if l, ok := args.Get(0).([]domain.List); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ListRepository) Save(ctx context.Context, list *domain.List) error {
	args := m.Called(ctx, list)
	return args.Error(0)
}
