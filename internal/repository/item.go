package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
)

// ItemPosition is one (item, position) assignment in a bulk reorder.
type ItemPosition struct {
	ItemID   uuid.UUID `json:"itemId"`
	Position int       `json:"position"`
}

// ItemRepository stores list items. All queries exclude soft-deleted rows.
type ItemRepository interface {
	// FindByID returns the item or ErrItemNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ListItem, error)

	// FindByList returns the list's items ordered by position.
	FindByList(ctx context.Context, listID uuid.UUID) ([]domain.ListItem, error)

	// NextPosition returns max(position)+1 for the list, 0 when empty.
	NextPosition(ctx context.Context, listID uuid.UUID) (int, error)

	// Save creates the item when new, updates it otherwise.
	Save(ctx context.Context, item *domain.ListItem) error

	// Reorder applies the position assignments as one atomic unit. The
	// implementation must serialize concurrent reorders of the same list (a
	// later call wins entirely, never a partial merge) while reorders of
	// different lists proceed independently. Ids that do not resolve to a live
	// item in the list are skipped, not failed: the batch stays resilient to
	// races with concurrent deletions.
	Reorder(ctx context.Context, listID uuid.UUID, positions []ItemPosition) error
}
