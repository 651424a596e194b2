package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
)

// ActivityRepository stores the per-list activity feed.
type ActivityRepository interface {
	// Save appends one activity entry.
	Save(ctx context.Context, entry *domain.ListActivity) error

	// FindByList returns the newest entries first, capped at limit.
	FindByList(ctx context.Context, listID uuid.UUID, limit int) ([]domain.ListActivity, error)
}
