package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
)

// CollaborationRepository stores the list/user join rows. Soft-deleted rows are
// excluded by default, so at most one row per (list, user) pair is ever
// returned.
type CollaborationRepository interface {
	// FindByID returns the row (with Role preloaded) or ErrCollaborationNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Collaboration, error)

	// FindByListAndUser returns the single non-deleted row for the pair,
	// pending or active, or ErrCollaborationNotFound. Role is preloaded.
	FindByListAndUser(ctx context.Context, listID, userID uuid.UUID) (*domain.Collaboration, error)

	// FindByList returns all active (accepted, non-deleted) rows for the list,
	// with Role and User preloaded.
	FindByList(ctx context.Context, listID uuid.UUID) ([]domain.Collaboration, error)

	// FindPendingForUser returns the user's open invitations.
	FindPendingForUser(ctx context.Context, userID uuid.UUID) ([]domain.Collaboration, error)

	// Save creates the row when new, updates it otherwise.
	Save(ctx context.Context, c *domain.Collaboration) error
}
