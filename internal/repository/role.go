package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
)

// RoleRepository reads the role reference data seeded at migration time.
type RoleRepository interface {
	// FindByID returns the role or ErrRoleNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Role, error)

	// FindByName returns the role or ErrRoleNotFound.
	FindByName(ctx context.Context, name string) (*domain.Role, error)

	// FindAll returns every role ordered by priority.
	FindAll(ctx context.Context) ([]domain.Role, error)
}
