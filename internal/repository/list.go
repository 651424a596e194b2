package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
)

// ListRepository stores shopping lists. All queries exclude soft-deleted rows.
type ListRepository interface {
	// FindByID returns the list or ErrListNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.List, error)

	// FindOwnedBy returns every non-deleted list owned by the user.
	FindOwnedBy(ctx context.Context, ownerID uuid.UUID) ([]domain.List, error)

	// FindSharedWith returns every non-deleted list on which the user holds an
	// active (accepted, non-deleted) collaboration.
	FindSharedWith(ctx context.Context, userID uuid.UUID) ([]domain.List, error)

	// Save creates the list when new, updates it otherwise.
	Save(ctx context.Context, list *domain.List) error
}
