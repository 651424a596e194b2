package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
)

// ActivityRepository is a testify mock of repository.ActivityRepository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Save(ctx context.Context, entry *domain.ListActivity) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) FindByList(ctx context.Context, listID uuid.UUID, limit int) ([]domain.ListActivity, error) {
	args := m.Called(ctx, listID, limit)
	if a, ok := args.Get(0).([]domain.ListActivity); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
