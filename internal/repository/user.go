package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
)

// UserRepository stores user accounts.
type UserRepository interface {
	// FindByID returns the user or ErrUserNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// FindByUsername returns the user or ErrUserNotFound.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByEmail matches on the normalized (upper-cased) email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// Save creates the user when new, updates them otherwise. Returns
	// ErrDuplicateEntry on a username/email collision.
	Save(ctx context.Context, user *domain.User) error
}
