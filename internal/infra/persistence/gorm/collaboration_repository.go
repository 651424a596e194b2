package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
	"github.com/rkSlalom/ae-infinity-api/internal/repository"
)

// GormCollaborationRepository is the GORM implementation of
// CollaborationRepository. Soft-deleted rows never leave this layer, so at
// most one live row per (list, user) pair is visible to callers.
type GormCollaborationRepository struct {
	db *gorm.DB
}

func NewGormCollaborationRepository(db *gorm.DB) *GormCollaborationRepository {
	if db == nil {
		panic("database connection cannot be nil for GormCollaborationRepository")
	}
	return &GormCollaborationRepository{db: db}
}

func (r *GormCollaborationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Collaboration, error) {
	var collab domain.Collaboration
	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("id = ? AND is_deleted = ?", id, false).
		First(&collab).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCollaborationNotFound
		}
		return nil, fmt.Errorf("gorm: find collaboration by id %s: %w", id, err)
	}
	return &collab, nil
}

func (r *GormCollaborationRepository) FindByListAndUser(ctx context.Context, listID, userID uuid.UUID) (*domain.Collaboration, error) {
	var collab domain.Collaboration
	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("list_id = ? AND user_id = ? AND is_deleted = ?", listID, userID, false).
		First(&collab).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCollaborationNotFound
		}
		return nil, fmt.Errorf("gorm: find collaboration for list %s user %s: %w", listID, userID, err)
	}
	return &collab, nil
}

// FindByList returns accepted members only; pending invitations stay private
// to the invitee.
func (r *GormCollaborationRepository) FindByList(ctx context.Context, listID uuid.UUID) ([]domain.Collaboration, error) {
	var collabs []domain.Collaboration
	err := r.db.WithContext(ctx).
		Preload("Role").
		Preload("User").
		Where("list_id = ? AND is_pending = ? AND is_deleted = ?", listID, false, false).
		Order("accepted_at ASC").
		Find(&collabs).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find collaborations for list %s: %w", listID, err)
	}
	return collabs, nil
}

func (r *GormCollaborationRepository) FindPendingForUser(ctx context.Context, userID uuid.UUID) ([]domain.Collaboration, error) {
	var collabs []domain.Collaboration
	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("user_id = ? AND is_pending = ? AND is_deleted = ?", userID, true, false).
		Order("invited_at DESC").
		Find(&collabs).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find pending collaborations for user %s: %w", userID, err)
	}
	return collabs, nil
}

func (r *GormCollaborationRepository) Save(ctx context.Context, collab *domain.Collaboration) error {
	err := r.db.WithContext(ctx).Save(collab).Error
	if err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save collaboration (id: %s): %w", collab.ID, err)
	}
	return nil
}
