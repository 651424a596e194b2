package repository

import "errors"

// Generic repository errors. Implementations map driver errors onto these so
// the service layer never inspects gorm or MySQL error types.
var (
	// ErrNotFound indicates the requested record does not exist (or is
	// soft-deleted; deleted rows are excluded by default).
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry indicates a unique constraint violation.
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
)

// Per-resource aliases, kept distinct so call sites read naturally.
var (
	ErrUserNotFound          = ErrNotFound
	ErrListNotFound          = ErrNotFound
	ErrItemNotFound          = ErrNotFound
	ErrRoleNotFound          = ErrNotFound
	ErrCollaborationNotFound = ErrNotFound
)
