package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
	"github.com/rkSlalom/ae-infinity-api/internal/repository"
)

// ItemRepository is a testify mock of repository.ItemRepository.
type ItemRepository struct {
	mock.Mock
}

func (m *ItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ListItem, error) {
	args := m.Called(ctx, id)
	if i, ok := args.Get(0).(*domain.ListItem); ok {
		return i, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ItemRepository) FindByList(ctx context.Context, listID uuid.UUID) ([]domain.ListItem, error) {
	args := m.Called(ctx, listID)
	if i, ok := args.Get(0).([]domain.ListItem); ok {
		return i, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ItemRepository) NextPosition(ctx context.Context, listID uuid.UUID) (int, error) {
	args := m.Called(ctx, listID)
	return args.Int(0), args.Error(1)
}

func (m *ItemRepository) Save(ctx context.Context, item *domain.ListItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *ItemRepository) Reorder(ctx context.Context, listID uuid.UUID, positions []repository.ItemPosition) error {
	args := m.Called(ctx, listID, positions)
	return args.Error(0)
}
