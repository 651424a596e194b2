package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
)

// CollaborationRepository is a testify mock of repository.CollaborationRepository.
type CollaborationRepository struct {
	mock.Mock
}

func (m *CollaborationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Collaboration, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*domain.Collaboration); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CollaborationRepository) FindByListAndUser(ctx context.Context, listID, userID uuid.UUID) (*domain.Collaboration, error) {
	args := m.Called(ctx, listID, userID)
	if c, ok := args.Get(0).(*domain.Collaboration); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CollaborationRepository) FindByList(ctx context.Context, listID uuid.UUID) ([]domain.Collaboration, error) {
	args := m.Called(ctx, listID)
	if c, ok := args.Get(0).([]domain.Collaboration); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CollaborationRepository) FindPendingForUser(ctx context.Context, userID uuid.UUID) ([]domain.Collaboration, error) {
	args := m.Called(ctx, userID)
	if c, ok := args.Get(0).([]domain.Collaboration); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CollaborationRepository) Save(ctx context.Context, c *domain.Collaboration) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
