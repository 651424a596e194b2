package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
	"github.com/rkSlalom/ae-infinity-api/internal/repository"
)

// GormItemRepository is the GORM implementation of ItemRepository.
type GormItemRepository struct {
	db *gorm.DB
}

func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	if db == nil {
		panic("database connection cannot be nil for GormItemRepository")
	}
	return &GormItemRepository{db: db}
}

func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ListItem, error) {
	var item domain.ListItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrItemNotFound
		}
		return nil, fmt.Errorf("gorm: find item by id %s: %w", id, err)
	}
	return &item, nil
}

func (r *GormItemRepository) FindByList(ctx context.Context, listID uuid.UUID) ([]domain.ListItem, error) {
	var items []domain.ListItem
	err := r.db.WithContext(ctx).
		Where("list_id = ? AND is_deleted = ?", listID, false).
		Order("position ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find items for list %s: %w", listID, err)
	}
	return items, nil
}

func (r *GormItemRepository) NextPosition(ctx context.Context, listID uuid.UUID) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&domain.ListItem{}).
		Where("list_id = ? AND is_deleted = ?", listID, false).
		Select("MAX(position)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("gorm: max position for list %s: %w", listID, err)
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}

func (r *GormItemRepository) Save(ctx context.Context, item *domain.ListItem) error {
	err := r.db.WithContext(ctx).Save(item).Error
	if err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save item (id: %s): %w", item.ID, err)
	}
	return nil
}

// Reorder applies the batch inside one transaction. A row lock on the parent
// list serializes concurrent reorders of the same list while leaving other
// lists untouched; the transaction makes the batch all-or-nothing, so the
// later of two racing calls wins entirely. Ids that match no live item in the
// list update zero rows and are skipped.
func (r *GormItemRepository) Reorder(ctx context.Context, listID uuid.UUID, positions []repository.ItemPosition) error {
	if len(positions) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var list domain.List
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_deleted = ?", listID, false).
			First(&list).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ErrListNotFound
			}
			return err
		}

		for _, p := range positions {
			res := tx.Model(&domain.ListItem{}).
				Where("id = ? AND list_id = ? AND is_deleted = ?", p.ItemID, listID, false).
				Update("position", p.Position)
			if res.Error != nil {
				return res.Error
			}
			// RowsAffected == 0 means the item vanished under us; skip it.
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return fmt.Errorf("gorm: reorder items for list %s: %w", listID, err)
	}
	return nil
}
