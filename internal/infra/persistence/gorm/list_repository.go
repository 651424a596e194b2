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

// GormListRepository is the GORM implementation of ListRepository. Every query
// filters soft-deleted rows.
type GormListRepository struct {
	db *gorm.DB
}

func NewGormListRepository(db *gorm.DB) *GormListRepository {
	if db == nil {
		panic("database connection cannot be nil for GormListRepository")
	}
	return &GormListRepository{db: db}
}

func (r *GormListRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.List, error) {
	var list domain.List
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrListNotFound
		}
		return nil, fmt.Errorf("gorm: find list by id %s: %w", id, err)
	}
	return &list, nil
}

func (r *GormListRepository) FindOwnedBy(ctx context.Context, ownerID uuid.UUID) ([]domain.List, error) {
	var lists []domain.List
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND is_deleted = ?", ownerID, false).
		Order("created_at DESC").
		Find(&lists).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find lists owned by %s: %w", ownerID, err)
	}
	return lists, nil
}

// FindSharedWith joins through active collaboration rows: accepted, not
// deleted, on a list that is itself not deleted.
func (r *GormListRepository) FindSharedWith(ctx context.Context, userID uuid.UUID) ([]domain.List, error) {
	var lists []domain.List
	err := r.db.WithContext(ctx).
		Joins("JOIN collaborations ON collaborations.list_id = lists.id").
		Where("collaborations.user_id = ?", userID).
		Where("collaborations.is_pending = ? AND collaborations.is_deleted = ?", false, false).
		Where("lists.is_deleted = ?", false).
		Order("lists.created_at DESC").
		Find(&lists).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find lists shared with %s: %w", userID, err)
	}
	return lists, nil
}

func (r *GormListRepository) Save(ctx context.Context, list *domain.List) error {
	err := r.db.WithContext(ctx).Save(list).Error
	if err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save list (id: %s): %w", list.ID, err)
	}
	return nil
}
